// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshopt

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexCacheStatistics describes how an index buffer uses a FIFO
// post-transform vertex cache.
type VertexCacheStatistics struct {
	VerticesTransformed int

	// ACMR is the average number of cache misses per triangle, in [0, 3].
	ACMR float32

	// ATVR is the number of transformed vertices per vertex in the
	// buffer; 1 is optimal.
	ATVR float32
}

// AnalyzeVertexCache simulates a FIFO cache of cacheSize entries over the
// triangles of indices.
func AnalyzeVertexCache(indices []uint32, vertexCount, cacheSize int) VertexCacheStatistics {
	checkIndices(indices, vertexCount)
	checkCacheSize(cacheSize)

	var s VertexCacheStatistics
	cache := newFIFOCache(vertexCount, cacheSize)
	for t := 0; t < len(indices)/3; t++ {
		s.VerticesTransformed += cache.triangle(indices, t)
	}
	if n := len(indices) / 3; n > 0 {
		s.ACMR = float32(s.VerticesTransformed) / float32(n)
	}
	if vertexCount > 0 {
		s.ATVR = float32(s.VerticesTransformed) / float32(vertexCount)
	}
	return s
}

// OverdrawStatistics describes how often pixels are shaded more than once.
type OverdrawStatistics struct {
	PixelsCovered uint64
	PixelsShaded  uint64

	// Overdraw is PixelsShaded/PixelsCovered; 1 means no pixel was shaded
	// twice.
	Overdraw float32
}

// overdrawViewport is the side of the square render target used by
// AnalyzeOverdraw.
const overdrawViewport = 256

// AnalyzeOverdraw renders the mesh in index order from the six axis
// directions and counts the fragments that pass the depth test. Back
// faces, taken to be those wound clockwise, are culled.
func AnalyzeOverdraw(indices []uint32, positions []mgl32.Vec3) OverdrawStatistics {
	checkIndices(indices, len(positions))

	var s OverdrawStatistics
	if len(indices) == 0 {
		return s
	}

	lo := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	hi := lo.Mul(-1)
	for _, v := range indices {
		p := positions[v]
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	extent := max(hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2])
	if extent <= 0 {
		return s
	}
	scale := 1 / float64(extent)

	norm := make([][3]float64, len(positions))
	for i, p := range positions {
		for k := 0; k < 3; k++ {
			norm[i][k] = (float64(p[k]) - float64(lo[k])) * scale
		}
	}

	r := newRasterizer(overdrawViewport)
	for axis := 0; axis < 3; axis++ {
		// u×v points along the axis, so counter-clockwise triangles face
		// a camera sitting on the positive side.
		u, v := (axis+1)%3, (axis+2)%3
		for _, flip := range []bool{false, true} {
			r.clear()
			for t := 0; t < len(indices)/3; t++ {
				var tri [3]screenVertex
				for c := 0; c < 3; c++ {
					p := norm[indices[3*t+c]]
					sv := screenVertex{x: p[u], y: p[v], z: 1 - p[axis]}
					if flip {
						sv.x, sv.z = 1-sv.x, p[axis]
					}
					tri[c] = sv
				}
				r.draw(tri)
			}
			s.PixelsCovered += r.covered()
			s.PixelsShaded += r.shaded
		}
	}
	if s.PixelsCovered > 0 {
		s.Overdraw = float32(float64(s.PixelsShaded) / float64(s.PixelsCovered))
	}
	return s
}
