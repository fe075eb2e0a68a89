// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bench applies index-ordering strategies to a mesh and measures
// how each one affects vertex cache efficiency and overdraw.
package bench

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/BoyBaykiller/meshoptimizer/mesh"
	"github.com/BoyBaykiller/meshoptimizer/meshopt"
)

// Strategy is a way of reordering the triangles of a mesh.
type Strategy int

const (
	// Original leaves the index buffer untouched.
	Original Strategy = iota
	// RandomShuffle permutes the triangle order at random.
	RandomShuffle
	// Cache reorders triangles for post-transform vertex cache reuse.
	Cache
	// CacheOverdraw reorders for the vertex cache and then sorts the
	// resulting clusters front to back.
	CacheOverdraw
	// OverdrawOnly sorts the mesh front to back as a single cluster.
	OverdrawOnly
)

// Strategies lists every strategy in report order.
var Strategies = []Strategy{Original, RandomShuffle, Cache, CacheOverdraw, OverdrawOnly}

const (
	DefaultCacheSize = 24

	// CacheOverdrawThreshold bounds how far the overdraw pass of
	// CacheOverdraw may degrade the ACMR of each cluster.
	CacheOverdrawThreshold float32 = 1.05

	// OverdrawOnlyThreshold is permissive enough that cluster splitting
	// is driven by overdraw alone.
	OverdrawOnlyThreshold float32 = 3
)

// Options parameterize Apply.
type Options struct {
	// Seed drives RandomShuffle. Equal seeds give equal permutations.
	Seed uint64
	// CacheSize is the simulated FIFO cache size used by the optimizers
	// and by the analysis of their output. Zero means DefaultCacheSize.
	CacheSize int
}

func (o Options) cacheSize() int {
	if o.CacheSize <= 0 {
		return DefaultCacheSize
	}
	return o.CacheSize
}

var strategyNames = [...]struct{ display, short string }{
	Original:      {"Original", "original"},
	RandomShuffle: {"Random Shuffle", "shuffle"},
	Cache:         {"Cache", "cache"},
	CacheOverdraw: {"Cache+Overdraw", "cache-overdraw"},
	OverdrawOnly:  {"Overdraw Only", "overdraw"},
}

func (s Strategy) valid() bool {
	return s >= 0 && int(s) < len(strategyNames)
}

func (s Strategy) String() string {
	if !s.valid() {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s].display
}

// ShortName returns the command-line name of s.
func (s Strategy) ShortName() string {
	if !s.valid() {
		return s.String()
	}
	return strategyNames[s].short
}

// benchName is the name of s in Go benchmark format, which does not allow
// spaces.
func (s Strategy) benchName() string {
	return strings.ReplaceAll(s.String(), " ", "")
}

// ParseStrategy accepts a display name or a short name, ignoring case.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range Strategies {
		if strings.EqualFold(name, s.String()) || strings.EqualFold(name, s.ShortName()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", name)
}

// ParseStrategies parses each name with ParseStrategy and returns the
// selected strategies in report order, without duplicates.
func ParseStrategies(names []string) ([]Strategy, error) {
	selected := make(map[Strategy]bool)
	for _, name := range names {
		s, err := ParseStrategy(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		selected[s] = true
	}
	var out []Strategy
	for _, s := range Strategies {
		if selected[s] {
			out = append(out, s)
		}
	}
	return out, nil
}

// Apply reorders the index buffer of m in place. The vertex buffer is
// never modified and the result always holds the same triangles, with
// the same winding, as the input.
func (s Strategy) Apply(m *mesh.Mesh, opts Options) {
	switch s {
	case Original:
	case RandomShuffle:
		shuffleTriangles(m.Indices, opts.Seed)
	case Cache:
		m.Indices, _ = meshopt.OptimizeVertexCache(m.Indices, len(m.Vertices), opts.cacheSize())
	case CacheOverdraw:
		indices, clusters := meshopt.OptimizeVertexCache(m.Indices, len(m.Vertices), opts.cacheSize())
		m.Indices = meshopt.OptimizeOverdraw(indices, m.Positions(), clusters, opts.cacheSize(), CacheOverdrawThreshold)
	case OverdrawOnly:
		m.Indices = meshopt.OptimizeOverdraw(m.Indices, m.Positions(), meshopt.Clusters{0}, opts.cacheSize(), OverdrawOnlyThreshold)
	default:
		panic(fmt.Sprintf("unknown strategy %d", int(s)))
	}
}

func shuffleTriangles(indices []uint32, seed uint64) {
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(len(indices)/3, func(i, j int) {
		a, b := indices[3*i:3*i+3], indices[3*j:3*j+3]
		a[0], a[1], a[2], b[0], b[1], b[2] = b[0], b[1], b[2], a[0], a[1], a[2]
	})
}
