// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshopt

// Clusters lists the triangle offsets at which spatially coherent runs of
// triangles begin. The first offset is always 0.
type Clusters []uint32

// adjacency maps each vertex to the triangles that reference it, in CSR
// form: the triangles of v are tris[offsets[v]:offsets[v+1]].
type adjacency struct {
	offsets []uint32
	tris    []uint32
}

func buildAdjacency(indices []uint32, vertexCount int) adjacency {
	a := adjacency{
		offsets: make([]uint32, vertexCount+1),
		tris:    make([]uint32, len(indices)),
	}
	for _, v := range indices {
		a.offsets[v+1]++
	}
	for v := 0; v < vertexCount; v++ {
		a.offsets[v+1] += a.offsets[v]
	}
	fill := append([]uint32(nil), a.offsets[:vertexCount]...)
	for i, v := range indices {
		a.tris[fill[v]] = uint32(i / 3)
		fill[v]++
	}
	return a
}

func (a adjacency) triangles(v uint32) []uint32 {
	return a.tris[a.offsets[v]:a.offsets[v+1]]
}

// OptimizeVertexCache reorders triangles to reduce post-transform cache
// misses for a FIFO cache of cacheSize entries. Triangles keep their
// winding. The returned clusters mark each point where the traversal
// ran out of neighbouring triangles and had to restart elsewhere; they are
// suitable input for OptimizeOverdraw.
func OptimizeVertexCache(indices []uint32, vertexCount, cacheSize int) ([]uint32, Clusters) {
	checkIndices(indices, vertexCount)
	checkCacheSize(cacheSize)

	out := make([]uint32, 0, len(indices))
	if len(indices) == 0 {
		return out, nil
	}

	t := &tipsify{
		indices: indices,
		adj:     buildAdjacency(indices, vertexCount),
		live:    make([]int, vertexCount),
		stamps:  make([]int, vertexCount),
		clock:   cacheSize + 1,
		size:    cacheSize,
		emitted: make([]bool, len(indices)/3),
		dead:    make([]uint32, 0, len(indices)),
	}
	for v := range t.live {
		t.live[v] = int(t.adj.offsets[v+1] - t.adj.offsets[v])
	}

	clusters := Clusters{0}
	fan, ok := t.skipDeadEnd()
	for ok {
		out = t.emitFan(out, fan)
		if fan, ok = t.nextCandidate(); ok {
			continue
		}
		if fan, ok = t.skipDeadEnd(); ok {
			clusters = append(clusters, uint32(len(out)/3))
		}
	}
	return out, clusters
}

type tipsify struct {
	indices []uint32
	adj     adjacency
	live    []int // triangles not yet emitted, per vertex
	stamps  []int
	clock   int
	size    int
	emitted []bool
	dead    []uint32 // dead-end stack
	cands   []uint32
	cursor  int
}

// emitFan appends every remaining triangle around v to out.
func (t *tipsify) emitFan(out []uint32, v uint32) []uint32 {
	t.cands = t.cands[:0]
	for _, tri := range t.adj.triangles(v) {
		if t.emitted[tri] {
			continue
		}
		for _, c := range t.indices[3*tri : 3*tri+3] {
			out = append(out, c)
			t.dead = append(t.dead, c)
			t.cands = append(t.cands, c)
			t.live[c]--
			if t.clock-t.stamps[c] > t.size {
				t.stamps[c] = t.clock
				t.clock++
			}
		}
		t.emitted[tri] = true
	}
	return out
}

// nextCandidate picks the next fanning vertex among the vertices of the
// last fan, preferring the oldest one that will still be cached once its
// remaining triangles are emitted.
func (t *tipsify) nextCandidate() (uint32, bool) {
	best, bestPriority := uint32(0), -1
	for _, v := range t.cands {
		if t.live[v] <= 0 {
			continue
		}
		priority := 0
		if age := t.clock - t.stamps[v]; age+2*t.live[v] <= t.size {
			priority = age
		}
		if priority > bestPriority {
			best, bestPriority = v, priority
		}
	}
	return best, bestPriority >= 0
}

// skipDeadEnd returns a recently used vertex with live triangles, or
// failing that the next such vertex in input order.
func (t *tipsify) skipDeadEnd() (uint32, bool) {
	for len(t.dead) > 0 {
		v := t.dead[len(t.dead)-1]
		t.dead = t.dead[:len(t.dead)-1]
		if t.live[v] > 0 {
			return v, true
		}
	}
	for ; t.cursor < len(t.live); t.cursor++ {
		if t.live[t.cursor] > 0 {
			return uint32(t.cursor), true
		}
	}
	return 0, false
}
