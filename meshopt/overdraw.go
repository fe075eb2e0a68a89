// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshopt

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// OptimizeOverdraw reorders clusters of triangles so that clusters facing
// away from the mesh center are drawn first, which tends to let them occlude
// the rest.
//
// Each input cluster is first split into smaller clusters wherever the
// running cache miss ratio of the triangles so far is within threshold
// times the miss ratio of the whole cluster. A threshold of 1.05 lets the
// vertex cache efficiency degrade by up to 5% in exchange for more freedom
// to reorder, while a threshold of 3 splits clusters almost everywhere.
//
// If clusters is empty, cluster boundaries are derived by simulating a
// cache of cacheSize entries and starting a new cluster at every triangle
// that misses on all three vertices.
func OptimizeOverdraw(indices []uint32, positions []mgl32.Vec3, clusters Clusters, cacheSize int, threshold float32) []uint32 {
	checkIndices(indices, len(positions))
	checkCacheSize(cacheSize)

	faceCount := len(indices) / 3
	if faceCount == 0 {
		return []uint32{}
	}
	if len(clusters) == 0 {
		clusters = hardBoundaries(indices, len(positions), cacheSize)
	}
	checkClusters(clusters, faceCount)

	soft := softBoundaries(indices, len(positions), clusters, cacheSize, threshold)
	keys := clusterKeys(indices, positions, soft)

	order := make([]int, len(soft))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return keys[order[i]] > keys[order[j]]
	})

	out := make([]uint32, 0, len(indices))
	for _, c := range order {
		start, end := clusterRange(soft, c, faceCount)
		out = append(out, indices[3*start:3*end]...)
	}
	return out
}

func checkClusters(clusters Clusters, faceCount int) {
	if clusters[0] != 0 {
		panic(fmt.Sprintf("meshopt: first cluster starts at triangle %d, not 0", clusters[0]))
	}
	for i := 1; i < len(clusters); i++ {
		if clusters[i] <= clusters[i-1] || int(clusters[i]) >= faceCount {
			panic(fmt.Sprintf("meshopt: bad cluster boundary %d at position %d", clusters[i], i))
		}
	}
}

func clusterRange(clusters Clusters, i, faceCount int) (start, end int) {
	start, end = int(clusters[i]), faceCount
	if i+1 < len(clusters) {
		end = int(clusters[i+1])
	}
	return start, end
}

func hardBoundaries(indices []uint32, vertexCount, cacheSize int) Clusters {
	cache := newFIFOCache(vertexCount, cacheSize)
	clusters := Clusters{0}
	for t := 0; t < len(indices)/3; t++ {
		if cache.triangle(indices, t) == 3 && t > 0 {
			clusters = append(clusters, uint32(t))
		}
	}
	return clusters
}

func softBoundaries(indices []uint32, vertexCount int, hard Clusters, cacheSize int, threshold float32) Clusters {
	faceCount := len(indices) / 3
	cache := newFIFOCache(vertexCount, cacheSize)
	soft := make(Clusters, 0, len(hard))
	for i := range hard {
		start, end := clusterRange(hard, i, faceCount)

		cache.reset()
		misses := 0
		for t := start; t < end; t++ {
			misses += cache.triangle(indices, t)
		}
		limit := float64(threshold) * float64(misses) / float64(end-start)

		cache.reset()
		soft = append(soft, uint32(start))
		runMisses, runFaces := 0, 0
		for t := start; t < end; t++ {
			runMisses += cache.triangle(indices, t)
			runFaces++
			if t+1 < end && float64(runMisses) <= limit*float64(runFaces) {
				soft = append(soft, uint32(t+1))
				cache.reset()
				runMisses, runFaces = 0, 0
			}
		}
	}
	return soft
}

// clusterKeys computes, for each cluster, how far its area-weighted
// centroid lies out from the mesh centroid along the cluster's average
// normal.
func clusterKeys(indices []uint32, positions []mgl32.Vec3, clusters Clusters) []float64 {
	faceCount := len(indices) / 3

	var meshCentroid mgl64.Vec3
	for _, v := range indices {
		meshCentroid = meshCentroid.Add(vec64(positions[v]))
	}
	meshCentroid = meshCentroid.Mul(1 / float64(len(indices)))

	keys := make([]float64, len(clusters))
	for i := range clusters {
		start, end := clusterRange(clusters, i, faceCount)

		var centroid, plain, normal mgl64.Vec3
		var area float64
		for t := start; t < end; t++ {
			a := vec64(positions[indices[3*t]])
			b := vec64(positions[indices[3*t+1]])
			c := vec64(positions[indices[3*t+2]])

			n := b.Sub(a).Cross(c.Sub(a))
			w := n.Len()
			mid := a.Add(b).Add(c).Mul(1.0 / 3)

			centroid = centroid.Add(mid.Mul(w))
			plain = plain.Add(mid)
			normal = normal.Add(n)
			area += w
		}
		if area > 0 {
			centroid = centroid.Mul(1 / area)
		} else {
			centroid = plain.Mul(1 / float64(end-start))
		}
		if l := normal.Len(); l > 0 {
			keys[i] = centroid.Sub(meshCentroid).Dot(normal.Mul(1 / l))
		}
	}
	return keys
}

func vec64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}
