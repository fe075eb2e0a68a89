// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"fmt"
	"io"
	"os"

	"github.com/BoyBaykiller/meshoptimizer/meshopt"
	"github.com/BoyBaykiller/meshoptimizer/obj"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// progressThreshold is the file size above which ReadOBJ draws a progress
// bar on an interactive stderr.
const progressThreshold = 16 << 20

// ReadOBJ loads the OBJ file at path. On failure it returns an empty Mesh
// along with the error, which names path and wraps either an *fs.PathError
// or an *obj.ParseError.
func ReadOBJ(path string) (Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return Mesh{}, err
	}
	defer f.Close()

	var r io.Reader = f
	if info, err := f.Stat(); err == nil && info.Size() > progressThreshold && term.IsTerminal(int(os.Stderr.Fd())) {
		bar := progressbar.DefaultBytes(info.Size(), "loading "+path)
		defer bar.Close()
		r = io.TeeReader(f, bar)
	}

	m, err := LoadOBJ(r)
	if err != nil {
		return Mesh{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadOBJ decodes OBJ text from r into a deduplicated Mesh.
func LoadOBJ(r io.Reader) (Mesh, error) {
	f, err := obj.Decode(r)
	if err != nil {
		return Mesh{}, err
	}
	return FromOBJ(f), nil
}

// FromOBJ builds one vertex per triangle corner of every shape, in order,
// and then merges identical vertices. Corners without a normal or texture
// coordinate get zeros.
func FromOBJ(f *obj.File) Mesh {
	soup := make([]Vertex, 0, f.Corners())
	for _, s := range f.Shapes {
		for _, c := range s.Indices {
			var v Vertex
			copy(v.Position[:], f.Vertices[3*c.Vertex:3*c.Vertex+3])
			if c.Normal >= 0 {
				copy(v.Normal[:], f.Normals[3*c.Normal:3*c.Normal+3])
			}
			if c.TexCoord >= 0 {
				copy(v.TexCoord[:], f.TexCoords[2*c.TexCoord:2*c.TexCoord+2])
			}
			soup = append(soup, v)
		}
	}
	if len(soup) == 0 {
		return Mesh{}
	}

	unique, indices := meshopt.GenerateIndexBuffer(soup, Vertex.Key)
	return Mesh{
		Vertices: meshopt.GenerateVertexBuffer(indices, soup, unique),
		Indices:  indices,
	}
}

// ToOBJ converts m into a single-shape OBJ file in which every vertex
// carries its own position, normal and texture coordinate.
func ToOBJ(m Mesh, name string) *obj.File {
	f := &obj.File{
		Attrib: obj.Attrib{
			Vertices:  make([]float32, 0, 3*len(m.Vertices)),
			Normals:   make([]float32, 0, 3*len(m.Vertices)),
			TexCoords: make([]float32, 0, 2*len(m.Vertices)),
		},
	}
	for _, v := range m.Vertices {
		f.Vertices = append(f.Vertices, v.Position[:]...)
		f.Normals = append(f.Normals, v.Normal[:]...)
		f.TexCoords = append(f.TexCoords, v.TexCoord[:]...)
	}
	s := obj.Shape{Name: name, Indices: make([]obj.Index, len(m.Indices))}
	for i, idx := range m.Indices {
		s.Indices[i] = obj.Index{Vertex: int(idx), Normal: int(idx), TexCoord: int(idx)}
	}
	if len(s.Indices) != 0 {
		f.Shapes = []obj.Shape{s}
	}
	return f
}

// WriteOBJ writes m to w as OBJ text.
func WriteOBJ(w io.Writer, m Mesh) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return obj.Encode(w, ToOBJ(m, ""))
}
