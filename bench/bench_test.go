// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bench

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/BoyBaykiller/meshoptimizer/mesh"
	"github.com/BoyBaykiller/meshoptimizer/meshopt"
	"gopkg.in/yaml.v3"
)

func sortedTriangles(indices []uint32) [][3]uint32 {
	tris := make([][3]uint32, len(indices)/3)
	for i := range tris {
		tris[i] = [3]uint32{indices[3*i], indices[3*i+1], indices[3*i+2]}
	}
	slices.SortFunc(tris, func(a, b [3]uint32) int {
		for k := 0; k < 3; k++ {
			if a[k] != b[k] {
				return int(a[k]) - int(b[k])
			}
		}
		return 0
	})
	return tris
}

func TestStrategyNames(t *testing.T) {
	want := []string{"Original", "Random Shuffle", "Cache", "Cache+Overdraw", "Overdraw Only"}
	for i, s := range Strategies {
		if s.String() != want[i] {
			t.Errorf("got %q, want %q", s, want[i])
		}
		for _, name := range []string{s.String(), s.ShortName(), strings.ToUpper(s.ShortName())} {
			got, err := ParseStrategy(name)
			if err != nil || got != s {
				t.Errorf("ParseStrategy(%q) = %v, %v; want %v", name, got, err, s)
			}
		}
	}
	if _, err := ParseStrategy("fastest"); err == nil {
		t.Error("expected an error for an unknown strategy")
	}
	if got, want := Strategy(9).String(), "Strategy(9)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseStrategies(t *testing.T) {
	got, err := ParseStrategies([]string{"overdraw", " cache", "Original", "cache"})
	if err != nil {
		t.Fatal(err)
	}
	want := []Strategy{Original, Cache, OverdrawOnly}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestApplyPreservesTriangles(t *testing.T) {
	base := mesh.GeneratePlane(16)
	want := sortedTriangles(base.Indices)
	for _, s := range Strategies {
		t.Run(s.ShortName(), func(t *testing.T) {
			m := base.Clone()
			s.Apply(&m, Options{Seed: 7})
			if len(m.Indices) != len(base.Indices) {
				t.Fatalf("got %d indices, want %d", len(m.Indices), len(base.Indices))
			}
			if !reflect.DeepEqual(m.Vertices, base.Vertices) {
				t.Fatal("vertex buffer modified")
			}
			if !reflect.DeepEqual(sortedTriangles(m.Indices), want) {
				t.Fatal("triangle set changed")
			}
		})
	}
}

func TestApplyOriginalIsIdentity(t *testing.T) {
	base := mesh.GeneratePlane(8)
	m := base.Clone()
	Original.Apply(&m, Options{})
	if !slices.Equal(m.Indices, base.Indices) {
		t.Fatal("Original changed the index buffer")
	}
}

func TestShuffleDeterministic(t *testing.T) {
	base := mesh.GeneratePlane(20)
	a, b, c := base.Clone(), base.Clone(), base.Clone()
	RandomShuffle.Apply(&a, Options{Seed: 1})
	RandomShuffle.Apply(&b, Options{Seed: 1})
	RandomShuffle.Apply(&c, Options{Seed: 2})
	if !slices.Equal(a.Indices, b.Indices) {
		t.Fatal("equal seeds gave different orders")
	}
	if slices.Equal(a.Indices, c.Indices) {
		t.Fatal("different seeds gave the same order")
	}
	if slices.Equal(a.Indices, base.Indices) {
		t.Fatal("shuffle left the order unchanged")
	}
}

func TestCacheBeatsShuffle(t *testing.T) {
	base := mesh.GeneratePlane(64)
	acmr := func(s Strategy) float32 {
		m := base.Clone()
		s.Apply(&m, Options{Seed: 3})
		return meshopt.AnalyzeVertexCache(m.Indices, len(m.Vertices), DefaultCacheSize).ACMR
	}
	shuffled, cache, both := acmr(RandomShuffle), acmr(Cache), acmr(CacheOverdraw)
	if cache >= shuffled {
		t.Errorf("Cache ACMR %f is not better than shuffled %f", cache, shuffled)
	}
	if both >= shuffled {
		t.Errorf("Cache+Overdraw ACMR %f is not better than shuffled %f", both, shuffled)
	}
}

func TestApplyUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	m := mesh.GeneratePlane(1)
	Strategy(42).Apply(&m, Options{})
}

// recorder is a Reporter that remembers every call.
type recorder struct {
	info  Info
	runs  []Result
	ended []Strategy
}

func (r *recorder) Begin(info Info) error { r.info = info; return nil }
func (r *recorder) Run(res Result) error  { r.runs = append(r.runs, res); return nil }
func (r *recorder) End(s Strategy, results []Result) error {
	r.ended = append(r.ended, s)
	return nil
}

func TestRunnerPlane(t *testing.T) {
	base := mesh.GeneratePlane(2)
	orig := base.Clone()
	var out strings.Builder
	rec := new(recorder)
	r := &Runner{
		Base:      base,
		Source:    "plane",
		Options:   Options{Seed: 1},
		Reporters: []Reporter{&TextReporter{W: &out}, rec},
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r.Base, orig) {
		t.Fatal("base mesh modified")
	}
	if !reflect.DeepEqual(rec.ended, Strategies) {
		t.Fatalf("got strategies %v, want %v", rec.ended, Strategies)
	}
	for _, res := range rec.runs {
		if res.IndexCount != 24 {
			t.Errorf("%s: got %d indices, want 24", res.Strategy, res.IndexCount)
		}
		if res.Elapsed < 0 {
			t.Errorf("%s: negative elapsed time", res.Strategy)
		}
	}
	if rec.info.Vertices != 9 || rec.info.Triangles != 8 || rec.info.CacheSize != DefaultCacheSize {
		t.Errorf("got info %+v, want 9 vertices, 8 triangles, cache %d", rec.info, DefaultCacheSize)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != len(Strategies) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(Strategies), out.String())
	}
	for i, s := range Strategies {
		prefix := s.String() + strings.Repeat(" ", 15-len(s.String())) + ": ACMR "
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d: got %q, want prefix %q", i, lines[i], prefix)
		}
		if !strings.Contains(lines[i], " ATVR ") || !strings.Contains(lines[i], " Overdraw ") || !strings.HasSuffix(lines[i], " msec") {
			t.Errorf("line %d: malformed row %q", i, lines[i])
		}
	}
	// Nine vertices all fit in the cache, so every strategy transforms each
	// vertex once.
	if !strings.HasPrefix(lines[0], "Original       : ACMR 1.125000 ATVR 1.000000 Overdraw 1.000000 in ") {
		t.Errorf("got %q", lines[0])
	}
}

func TestRunnerCount(t *testing.T) {
	rec := new(recorder)
	r := &Runner{
		Base:       mesh.GeneratePlane(4),
		Strategies: []Strategy{Cache, OverdrawOnly},
		Count:      3,
		Reporters:  []Reporter{rec},
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(rec.runs) != 6 {
		t.Fatalf("got %d runs, want 6", len(rec.runs))
	}
	for i, res := range rec.runs {
		if want := []Strategy{Cache, OverdrawOnly}[i/3]; res.Strategy != want || res.Iteration != i%3 {
			t.Errorf("run %d: got %v #%d, want %v #%d", i, res.Strategy, res.Iteration, want, i%3)
		}
	}
	if rec.info.Count != 3 {
		t.Errorf("got count %d, want 3", rec.info.Count)
	}
}

func TestRunnerEmpty(t *testing.T) {
	r := &Runner{Base: mesh.GeneratePlane(0)}
	if err := r.Run(context.Background()); !errors.Is(err, mesh.ErrEmpty) {
		t.Fatalf("got %v, want %v", err, mesh.ErrEmpty)
	}
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := new(recorder)
	r := &Runner{Base: mesh.GeneratePlane(2), Reporters: []Reporter{rec}}
	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want %v", err, context.Canceled)
	}
	if len(rec.runs) != 0 {
		t.Fatalf("got %d runs after cancellation, want 0", len(rec.runs))
	}
}

func TestTextReporterMedian(t *testing.T) {
	var out strings.Builder
	rep := &TextReporter{W: &out}
	results := []Result{
		{Strategy: Cache, Elapsed: 9 * time.Millisecond},
		{Strategy: Cache, Elapsed: 2 * time.Millisecond},
		{Strategy: Cache, Elapsed: 4 * time.Millisecond,
			VertexCache: meshopt.VertexCacheStatistics{ACMR: 0.75, ATVR: 1.5},
			Overdraw:    meshopt.OverdrawStatistics{Overdraw: 1.25}},
	}
	if err := rep.End(Cache, results); err != nil {
		t.Fatal(err)
	}
	want := "Cache          : ACMR 0.750000 ATVR 1.500000 Overdraw 1.250000 in 4.000000 msec\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestBenchReporter(t *testing.T) {
	var out strings.Builder
	r := &Runner{
		Base:       mesh.GeneratePlane(3),
		Source:     "plane-3",
		Strategies: []Strategy{RandomShuffle, CacheOverdraw},
		Count:      2,
		Reporters:  []Reporter{&BenchReporter{W: &out}},
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	var bench []string
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "Benchmark") {
			bench = append(bench, line)
		}
	}
	if !strings.Contains(out.String(), "mesh: plane-3\n") || !strings.Contains(out.String(), "runid: ") {
		t.Errorf("missing configuration lines in:\n%s", out.String())
	}
	if len(bench) != 4 {
		t.Fatalf("got %d benchmark lines, want 4:\n%s", len(bench), out.String())
	}
	for i, want := range []string{"BenchmarkRandomShuffle 1 ", "BenchmarkRandomShuffle 1 ", "BenchmarkCache+Overdraw 1 ", "BenchmarkCache+Overdraw 1 "} {
		if !strings.HasPrefix(bench[i], want) {
			t.Errorf("got %q, want prefix %q", bench[i], want)
		}
		for _, unit := range []string{" ns/op", " ACMR", " ATVR", " overdraw"} {
			if !strings.Contains(bench[i], unit) {
				t.Errorf("%q lacks %q", bench[i], unit)
			}
		}
	}
}

func TestSummaryYAML(t *testing.T) {
	sum := new(Summary)
	r := &Runner{
		Base:      mesh.GeneratePlane(5),
		Source:    "plane-5",
		Options:   Options{Seed: 9, CacheSize: 16},
		Reporters: []Reporter{sum},
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	var buf strings.Builder
	if err := sum.WriteYAML(&buf); err != nil {
		t.Fatal(err)
	}
	var got Summary
	if err := yaml.Unmarshal([]byte(buf.String()), &got); err != nil {
		t.Fatal(err)
	}
	if got.Source != "plane-5" || got.Seed != 9 || got.CacheSize != 16 || got.Triangles != 50 {
		t.Errorf("got header %+v", got)
	}
	if len(got.Strategies) != len(Strategies) {
		t.Fatalf("got %d strategies, want %d", len(got.Strategies), len(Strategies))
	}
	for i, s := range Strategies {
		if got.Strategies[i].Name != s.String() || got.Strategies[i].Runs != 1 {
			t.Errorf("entry %d: got %+v, want %s with 1 run", i, got.Strategies[i], s)
		}
		if got.Strategies[i].Overdraw != 1 {
			t.Errorf("%s: got overdraw %f on a flat plane, want 1", s, got.Strategies[i].Overdraw)
		}
	}
}

func TestRunnerProfiles(t *testing.T) {
	dir := t.TempDir()
	r := &Runner{
		Base:       mesh.GeneratePlane(32),
		Strategies: []Strategy{Cache},
		Count:      2,
		ProfileDir: dir,
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "Cache.cpu.pprof" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("got files %v, want [Cache.cpu.pprof]", names)
	}
	if _, err := os.Stat(filepath.Join(dir, "Cache.cpu.pprof")); err != nil {
		t.Fatal(err)
	}
}
