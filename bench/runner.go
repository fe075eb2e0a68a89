// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bench

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/BoyBaykiller/meshoptimizer/driver"
	"github.com/BoyBaykiller/meshoptimizer/internal/log"
	"github.com/BoyBaykiller/meshoptimizer/mesh"
	"github.com/BoyBaykiller/meshoptimizer/meshopt"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
)

// Result is the outcome of one run of one strategy.
type Result struct {
	Strategy    Strategy
	Iteration   int
	VertexCache meshopt.VertexCacheStatistics
	Overdraw    meshopt.OverdrawStatistics
	Elapsed     time.Duration
	CPUTime     time.Duration
	IndexCount  int

	// BenchLine is the run in Go benchmark format, newline included.
	BenchLine string
	// Profile is the CPU profile of the run, if one was requested.
	Profile string
}

// Info describes a benchmark session. It is passed to Reporter.Begin.
type Info struct {
	RunID     uuid.UUID
	Source    string
	Vertices  int
	Triangles int
	CacheSize int
	Seed      uint64
	Count     int
	Started   time.Time
}

// A Reporter receives results as they are produced.
type Reporter interface {
	Begin(info Info) error
	// Run is called after every run.
	Run(res Result) error
	// End is called once all runs of a strategy have completed.
	End(s Strategy, results []Result) error
}

// Runner benchmarks a set of strategies against one base mesh.
type Runner struct {
	Base mesh.Mesh
	// Source names the base mesh in reports.
	Source string
	Options

	// Strategies to run, in order. Nil means all of them.
	Strategies []Strategy
	// Count is the number of runs per strategy. Values below 1 mean 1.
	Count int

	Reporters []Reporter

	// ProfileDir, if set, receives one merged CPU profile per strategy.
	ProfileDir string
	// Progress, if set and Count is above 1, receives a progress bar.
	Progress io.Writer
}

// Run benchmarks every strategy in turn. The base mesh is never modified:
// each run transforms a fresh copy and only the transformation is timed.
// Run returns an error if a reporter fails, a profile cannot be written,
// the context is cancelled or the base mesh is empty or invalid.
func (r *Runner) Run(ctx context.Context) error {
	if r.Base.Empty() {
		return mesh.ErrEmpty
	}
	if err := r.Base.Validate(); err != nil {
		return err
	}
	strategies := r.Strategies
	if strategies == nil {
		strategies = Strategies
	}
	count := max(r.Count, 1)

	info := Info{
		RunID:     uuid.New(),
		Source:    r.Source,
		Vertices:  len(r.Base.Vertices),
		Triangles: r.Base.TriangleCount(),
		CacheSize: r.cacheSize(),
		Seed:      r.Seed,
		Count:     count,
		Started:   time.Now(),
	}
	for _, rep := range r.Reporters {
		if err := rep.Begin(info); err != nil {
			return err
		}
	}
	log.Printf("run %s: %d strategies, %d runs each", info.RunID, len(strategies), count)

	var bar *progressbar.ProgressBar
	if r.Progress != nil && count > 1 {
		bar = progressbar.NewOptions(count*len(strategies),
			progressbar.OptionSetWriter(r.Progress),
			progressbar.OptionSetDescription("benchmarking"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, s := range strategies {
		results := make([]Result, 0, count)
		for i := 0; i < count; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.runOnce(ctx, s, i)
			if err != nil {
				return fmt.Errorf("%s: %w", s, err)
			}
			log.Debugf("run", "strategy", s, "iteration", i, "elapsed", res.Elapsed, "acmr", res.VertexCache.ACMR)
			results = append(results, res)
			for _, rep := range r.Reporters {
				if err := rep.Run(res); err != nil {
					return err
				}
			}
			if bar != nil {
				bar.Add(1)
			}
		}
		if r.ProfileDir != "" {
			if err := mergeProfiles(r.ProfileDir, s, results); err != nil {
				return err
			}
		}
		if bar != nil {
			bar.Clear()
		}
		for _, rep := range r.Reporters {
			if err := rep.End(s, results); err != nil {
				return err
			}
		}
	}
	if bar != nil {
		bar.Finish()
	}
	return nil
}

func (r *Runner) runOnce(ctx context.Context, s Strategy, iteration int) (Result, error) {
	res := Result{Strategy: s, Iteration: iteration}
	var line bytes.Buffer
	opts := append([]driver.RunOption{
		driver.WithContext(ctx),
		driver.DoCPUProfile(r.ProfileDir),
		driver.WriteResultsTo(&line),
	}, driver.InProcessMeasurementOptions...)

	dr, err := driver.RunBenchmark(s.benchName(), func(b *driver.B) error {
		if err := b.Context().Err(); err != nil {
			return err
		}
		m := r.Base.Clone()
		b.ResetTimer()
		s.Apply(&m, r.Options)
		b.StopTimer()

		res.IndexCount = len(m.Indices)
		res.VertexCache = meshopt.AnalyzeVertexCache(m.Indices, len(m.Vertices), r.cacheSize())
		res.Overdraw = meshopt.AnalyzeOverdraw(m.Indices, m.Positions())
		b.Report("ACMR", float64(res.VertexCache.ACMR))
		b.Report("ATVR", float64(res.VertexCache.ATVR))
		b.Report("overdraw", float64(res.Overdraw.Overdraw))
		return nil
	}, opts...)
	if err != nil {
		return Result{}, err
	}
	res.Elapsed = dr.Elapsed
	res.CPUTime = dr.CPUTime
	res.Profile = dr.Profile
	res.BenchLine = line.String()
	return res, nil
}

func mergeProfiles(dir string, s Strategy, results []Result) error {
	var paths []string
	for _, res := range results {
		if res.Profile != "" {
			paths = append(paths, res.Profile)
		}
	}
	out := filepath.Join(dir, s.benchName()+".cpu.pprof")
	log.Printf("writing CPU profile %s", out)
	return driver.MergeProfiles(out, paths)
}
