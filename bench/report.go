// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bench

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/BoyBaykiller/meshoptimizer/stats"
)

// TextReporter prints one line per strategy:
//
//	Cache          : ACMR 0.612000 ATVR 1.000000 Overdraw 1.000000 in 12.345678 msec
//
// The statistics come from the last run and the time is the median over
// all runs.
type TextReporter struct {
	W io.Writer
}

func (r *TextReporter) Begin(Info) error { return nil }

func (r *TextReporter) Run(Result) error { return nil }

func (r *TextReporter) End(s Strategy, results []Result) error {
	if len(results) == 0 {
		return nil
	}
	last := results[len(results)-1]
	_, err := fmt.Fprintf(r.W, "%-15s: ACMR %f ATVR %f Overdraw %f in %f msec\n",
		s, last.VertexCache.ACMR, last.VertexCache.ATVR, last.Overdraw.Overdraw,
		stats.Milliseconds(medianElapsed(results)))
	return err
}

// BenchReporter prints every run in Go benchmark format, preceded by a
// block of configuration lines, so that output can be fed to benchstat.
type BenchReporter struct {
	W io.Writer
}

func (r *BenchReporter) Begin(info Info) error {
	_, err := fmt.Fprintf(r.W, "goos: %s\ngoarch: %s\nrunid: %s\nmesh: %s\nvertices: %d\ntriangles: %d\ncachesize: %d\nseed: %d\n",
		runtime.GOOS, runtime.GOARCH, info.RunID, info.Source,
		info.Vertices, info.Triangles, info.CacheSize, info.Seed)
	return err
}

func (r *BenchReporter) Run(res Result) error {
	_, err := io.WriteString(r.W, res.BenchLine)
	return err
}

func (r *BenchReporter) End(Strategy, []Result) error { return nil }

func medianElapsed(results []Result) time.Duration {
	samples := make([]time.Duration, len(results))
	for i, res := range results {
		samples[i] = res.Elapsed
	}
	return stats.Summarize(samples).Median
}
