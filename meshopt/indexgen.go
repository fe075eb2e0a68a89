// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshopt

import "fmt"

// GenerateIndexBuffer collapses a per-corner vertex soup into unique
// vertices. key must return equal values exactly for vertices that are the
// same. It returns the number of unique vertices and, for every corner, the
// slot of its unique vertex. Slots are numbered in order of first
// appearance.
func GenerateIndexBuffer[V any, K comparable](soup []V, key func(V) K) (int, []uint32) {
	slots := make(map[K]uint32, len(soup))
	indices := make([]uint32, len(soup))
	for i, v := range soup {
		k := key(v)
		slot, ok := slots[k]
		if !ok {
			slot = uint32(len(slots))
			slots[k] = slot
		}
		indices[i] = slot
	}
	return len(slots), indices
}

// GenerateVertexBuffer builds the unique vertex buffer matching indices, as
// returned by GenerateIndexBuffer for the same soup.
func GenerateVertexBuffer[V any](indices []uint32, soup []V, unique int) []V {
	if len(indices) != len(soup) {
		panic(fmt.Sprintf("meshopt: %d indices for %d vertices", len(indices), len(soup)))
	}
	out := make([]V, unique)
	for i, slot := range indices {
		if int(slot) >= unique {
			panic(fmt.Sprintf("meshopt: index %d out of range [0, %d)", slot, unique))
		}
		out[slot] = soup[i]
	}
	return out
}
