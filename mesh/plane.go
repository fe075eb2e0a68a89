// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import "github.com/go-gl/mathgl/mgl32"

// GeneratePlane tessellates an n×n grid of unit quads lying in the z=0
// plane. Every grid point is its own vertex, so no deduplication is needed.
func GeneratePlane(n int) Mesh {
	if n < 0 {
		n = 0
	}
	stride := n + 1

	m := Mesh{
		Vertices: make([]Vertex, 0, stride*stride),
		Indices:  make([]uint32, 0, 6*n*n),
	}
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			m.Vertices = append(m.Vertices, Vertex{
				Position: mgl32.Vec3{float32(x), float32(y), 0},
				Normal:   mgl32.Vec3{0, 0, 1},
			})
		}
	}

	at := func(y, x int) uint32 { return uint32(y*stride + x) }
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			m.Indices = append(m.Indices,
				at(y, x), at(y, x+1), at(y+1, x),
				at(y+1, x), at(y, x+1), at(y+1, x+1),
			)
		}
	}
	return m
}
