// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh holds the indexed triangle mesh that every ordering strategy
// operates on, and the two ways of acquiring one: tessellating a plane or
// loading a Wavefront OBJ file.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrEmpty is returned when a mesh has no vertices or no triangles.
var ErrEmpty = errors.New("mesh is empty")

// Vertex is the fixed attribute layout shared by all meshes.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// VertexKey is the bit pattern of a Vertex. Two vertices are the same
// vertex exactly when their keys are equal.
type VertexKey [8]uint32

// Key returns the bit-exact identity of v. Unlike ==, it tells -0 from +0
// and treats identical NaNs as equal.
func (v Vertex) Key() VertexKey {
	return VertexKey{
		math.Float32bits(v.Position[0]),
		math.Float32bits(v.Position[1]),
		math.Float32bits(v.Position[2]),
		math.Float32bits(v.Normal[0]),
		math.Float32bits(v.Normal[1]),
		math.Float32bits(v.Normal[2]),
		math.Float32bits(v.TexCoord[0]),
		math.Float32bits(v.TexCoord[1]),
	}
}

// Mesh is a list of unique vertices and a triangle list indexing them.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Clone returns a deep copy of m.
func (m Mesh) Clone() Mesh {
	return Mesh{
		Vertices: append([]Vertex(nil), m.Vertices...),
		Indices:  append([]uint32(nil), m.Indices...),
	}
}

// TriangleCount returns the number of triangles in m.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Empty reports whether m has nothing to draw.
func (m Mesh) Empty() bool {
	return len(m.Vertices) == 0 || len(m.Indices) == 0
}

// Positions returns the position of every vertex, in vertex order.
func (m Mesh) Positions() []mgl32.Vec3 {
	p := make([]mgl32.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		p[i] = v.Position
	}
	return p
}

// Validate checks that m is a well-formed triangle list.
func (m Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("index %d at position %d out of range [0, %d)", idx, i, len(m.Vertices))
		}
	}
	return nil
}
