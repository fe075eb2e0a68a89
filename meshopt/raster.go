// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshopt

import "math"

// screenVertex is a vertex in normalized screen space: x and y in [0, 1],
// z is depth with smaller values closer to the camera.
type screenVertex struct {
	x, y, z float64
}

type rasterizer struct {
	size   int
	depth  []float64
	shaded uint64
}

func newRasterizer(size int) *rasterizer {
	return &rasterizer{size: size, depth: make([]float64, size*size)}
}

func (r *rasterizer) clear() {
	for i := range r.depth {
		r.depth[i] = math.Inf(1)
	}
	r.shaded = 0
}

// covered counts the pixels written at least once since clear.
func (r *rasterizer) covered() uint64 {
	var n uint64
	for _, d := range r.depth {
		if !math.IsInf(d, 1) {
			n++
		}
	}
	return n
}

func edge(a, b screenVertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// topLeft reports whether pixel centers lying exactly on edge a→b belong
// to a counter-clockwise triangle. Of two triangles sharing an edge,
// exactly one owns it.
func topLeft(a, b screenVertex) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return dy < 0 || (dy == 0 && dx < 0)
}

func inside(w float64, owns bool) bool {
	return w > 0 || (w == 0 && owns)
}

// draw rasterizes a triangle with a less-than depth test, counting every
// fragment that passes. Clockwise and degenerate triangles are culled.
func (r *rasterizer) draw(tri [3]screenVertex) {
	fs := float64(r.size)
	a := screenVertex{tri[0].x * fs, tri[0].y * fs, tri[0].z}
	b := screenVertex{tri[1].x * fs, tri[1].y * fs, tri[1].z}
	c := screenVertex{tri[2].x * fs, tri[2].y * fs, tri[2].z}

	area := edge(a, b, c.x, c.y)
	if area <= 0 {
		return
	}

	minX := max(0, int(math.Floor(min(a.x, b.x, c.x))))
	minY := max(0, int(math.Floor(min(a.y, b.y, c.y))))
	maxX := min(r.size-1, int(math.Ceil(max(a.x, b.x, c.x))))
	maxY := min(r.size-1, int(math.Ceil(max(a.y, b.y, c.y))))

	ownsAB, ownsBC, ownsCA := topLeft(a, b), topLeft(b, c), topLeft(c, a)
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			wc := edge(a, b, px, py)
			wa := edge(b, c, px, py)
			wb := edge(c, a, px, py)
			if !inside(wc, ownsAB) || !inside(wa, ownsBC) || !inside(wb, ownsCA) {
				continue
			}
			z := (wa*a.z + wb*b.z + wc*c.z) / area
			if i := y*r.size + x; z < r.depth[i] {
				r.depth[i] = z
				r.shaded++
			}
		}
	}
}
