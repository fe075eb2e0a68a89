// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package meshopt reorders and analyzes indexed triangle lists for GPU
// rendering efficiency.
//
// The optimizers follow Sander, Nehab and Barczak, "Fast Triangle Reordering
// for Vertex Locality and Reduced Overdraw" (SIGGRAPH 2007): Tipsify for the
// post-transform vertex cache, and cluster sorting for overdraw.
//
// All functions panic when handed a malformed index buffer: an index count
// that is not a multiple of three or an index past the vertex count.
package meshopt

import "fmt"

func checkIndices(indices []uint32, vertexCount int) {
	if len(indices)%3 != 0 {
		panic(fmt.Sprintf("meshopt: index count %d is not a multiple of 3", len(indices)))
	}
	for _, idx := range indices {
		if int(idx) >= vertexCount {
			panic(fmt.Sprintf("meshopt: index %d out of range [0, %d)", idx, vertexCount))
		}
	}
}

func checkCacheSize(cacheSize int) {
	if cacheSize < 3 {
		panic(fmt.Sprintf("meshopt: cache size %d is smaller than a triangle", cacheSize))
	}
}

// fifoCache simulates a FIFO post-transform vertex cache. A vertex is
// resident if fewer than size misses happened since it was last loaded.
type fifoCache struct {
	size   uint32
	clock  uint32
	stamps []uint32
}

func newFIFOCache(vertexCount, size int) *fifoCache {
	c := &fifoCache{size: uint32(size), stamps: make([]uint32, vertexCount)}
	c.reset()
	return c
}

// reset empties the cache without clearing the stamps.
func (c *fifoCache) reset() {
	c.clock += c.size + 1
}

// access touches v and reports whether it missed.
func (c *fifoCache) access(v uint32) bool {
	if c.clock-c.stamps[v] > c.size {
		c.stamps[v] = c.clock
		c.clock++
		return true
	}
	return false
}

// triangle touches the corners of triangle t and returns the miss count.
func (c *fifoCache) triangle(indices []uint32, t int) int {
	n := 0
	for _, v := range indices[3*t : 3*t+3] {
		if c.access(v) {
			n++
		}
	}
	return n
}
