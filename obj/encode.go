// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Encode writes f to w as OBJ text. Decoding the output yields f again.
func Encode(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)
	writeFloats(bw, "v", f.Vertices, 3)
	writeFloats(bw, "vt", f.TexCoords, 2)
	writeFloats(bw, "vn", f.Normals, 3)
	for _, s := range f.Shapes {
		if len(s.Indices)%3 != 0 {
			return fmt.Errorf("shape %q: %d corners is not a triangle list", s.Name, len(s.Indices))
		}
		if s.Name != "" {
			fmt.Fprintf(bw, "o %s\n", s.Name)
		}
		for i := 0; i < len(s.Indices); i += 3 {
			bw.WriteString("f")
			for _, c := range s.Indices[i : i+3] {
				bw.WriteByte(' ')
				writeCorner(bw, c)
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func writeFloats(w *bufio.Writer, tag string, vals []float32, n int) {
	for i := 0; i+n <= len(vals); i += n {
		w.WriteString(tag)
		for _, v := range vals[i : i+n] {
			w.WriteByte(' ')
			w.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
		w.WriteByte('\n')
	}
}

func writeCorner(w *bufio.Writer, c Index) {
	w.WriteString(strconv.Itoa(c.Vertex + 1))
	switch {
	case c.TexCoord >= 0 && c.Normal >= 0:
		fmt.Fprintf(w, "/%d/%d", c.TexCoord+1, c.Normal+1)
	case c.TexCoord >= 0:
		fmt.Fprintf(w, "/%d", c.TexCoord+1)
	case c.Normal >= 0:
		fmt.Fprintf(w, "//%d", c.Normal+1)
	}
}
