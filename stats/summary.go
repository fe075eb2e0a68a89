// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stats summarizes repeated timing samples.
package stats

import (
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary describes a set of duration samples.
type Summary struct {
	N      int
	Min    time.Duration
	Max    time.Duration
	Median time.Duration
	Mean   time.Duration
	StdDev time.Duration
}

// Summarize computes a Summary of samples. The median of an even number
// of samples is the mean of the two middle ones. StdDev is the sample
// standard deviation and is zero for fewer than two samples.
func Summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	xs := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = float64(s)
	}
	slices.Sort(xs)

	var median float64
	if n := len(xs); n%2 == 1 {
		median = xs[n/2]
	} else {
		median = (xs[n/2-1] + xs[n/2]) / 2
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 2 || math.IsNaN(std) {
		std = 0
	}
	return Summary{
		N:      len(xs),
		Min:    time.Duration(xs[0]),
		Max:    time.Duration(xs[len(xs)-1]),
		Median: time.Duration(math.Round(median)),
		Mean:   time.Duration(math.Round(mean)),
		StdDev: time.Duration(math.Round(std)),
	}
}

// Milliseconds converts d to fractional milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
