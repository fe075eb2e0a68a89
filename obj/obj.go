// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package obj reads and writes Wavefront OBJ geometry.
//
// Only the geometric subset of the format is understood: positions (v),
// normals (vn), texture coordinates (vt), faces (f) and object or group
// names (o, g). Materials, smoothing groups, lines and points are skipped.
// Faces with more than three corners are triangulated as fans.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrSyntax is wrapped by every ParseError caused by malformed input.
var ErrSyntax = errors.New("syntax error")

// ParseError records the line on which decoding failed.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Index references the attributes of one triangle corner. All fields are
// zero-based; an absent attribute is -1.
type Index struct {
	Vertex   int
	Normal   int
	TexCoord int
}

// Attrib holds the flat attribute arrays of a file: three floats per
// position and normal, two per texture coordinate.
type Attrib struct {
	Vertices  []float32
	Normals   []float32
	TexCoords []float32
}

// Shape is a named run of triangles. Indices holds three corners per
// triangle.
type Shape struct {
	Name    string
	Indices []Index
}

// File is a decoded OBJ file.
type File struct {
	Attrib
	Shapes []Shape
}

// Corners returns the total number of triangle corners across all shapes.
func (f *File) Corners() int {
	n := 0
	for _, s := range f.Shapes {
		n += len(s.Indices)
	}
	return n
}

const maxLine = 1 << 20

// Decode reads OBJ text from r.
func Decode(r io.Reader) (*File, error) {
	d := &decoder{f: new(File)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), maxLine)
	for sc.Scan() {
		d.line++
		if err := d.parseLine(sc.Text()); err != nil {
			return nil, &ParseError{Line: d.line, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	d.flush()
	return d.f, nil
}

type decoder struct {
	f    *File
	line int
	cur  Shape
	face []Index
}

func (d *decoder) flush() {
	if len(d.cur.Indices) != 0 {
		d.f.Shapes = append(d.f.Shapes, d.cur)
	}
	d.cur = Shape{}
}

func (d *decoder) parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch args := fields[1:]; fields[0] {
	case "v":
		return d.parseFloats(&d.f.Vertices, args, 3, 3)
	case "vn":
		return d.parseFloats(&d.f.Normals, args, 3, 3)
	case "vt":
		return d.parseFloats(&d.f.TexCoords, args, 1, 2)
	case "f":
		return d.parseFace(args)
	case "o", "g":
		d.flush()
		d.cur.Name = strings.Join(args, " ")
	}
	return nil
}

// parseFloats appends want values to dst, reading at least min of them from
// args and zero-filling the rest. Extra values (w, vertex colors) are dropped.
func (d *decoder) parseFloats(dst *[]float32, args []string, min, want int) error {
	if len(args) < min {
		return fmt.Errorf("%w: expected at least %d values, got %d", ErrSyntax, min, len(args))
	}
	for i := 0; i < want; i++ {
		if i >= len(args) {
			*dst = append(*dst, 0)
			continue
		}
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return fmt.Errorf("%w: bad number %q", ErrSyntax, args[i])
		}
		*dst = append(*dst, float32(v))
	}
	return nil
}

func (d *decoder) parseFace(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: face has %d corners", ErrSyntax, len(args))
	}
	d.face = d.face[:0]
	for _, a := range args {
		idx, err := d.parseCorner(a)
		if err != nil {
			return err
		}
		d.face = append(d.face, idx)
	}
	for i := 1; i+1 < len(d.face); i++ {
		d.cur.Indices = append(d.cur.Indices, d.face[0], d.face[i], d.face[i+1])
	}
	return nil
}

// parseCorner parses v, v/vt, v//vn or v/vt/vn.
func (d *decoder) parseCorner(s string) (Index, error) {
	idx := Index{Vertex: -1, Normal: -1, TexCoord: -1}
	parts := strings.Split(s, "/")
	if len(parts) > 3 || parts[0] == "" {
		return idx, fmt.Errorf("%w: bad face corner %q", ErrSyntax, s)
	}
	var err error
	if idx.Vertex, err = resolve(parts[0], len(d.f.Vertices)/3); err != nil {
		return idx, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if idx.TexCoord, err = resolve(parts[1], len(d.f.TexCoords)/2); err != nil {
			return idx, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if idx.Normal, err = resolve(parts[2], len(d.f.Normals)/3); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

// resolve converts a one-based or negative relative OBJ index into a
// zero-based index into an array of n elements.
func resolve(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return -1, fmt.Errorf("%w: bad index %q", ErrSyntax, s)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return -1, fmt.Errorf("%w: index 0 is not valid", ErrSyntax)
	}
	if i < 0 || i >= n {
		return -1, fmt.Errorf("%w: index %s out of range (%d defined)", ErrSyntax, s, n)
	}
	return i, nil
}
