// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bench

import (
	"io"
	"time"

	"github.com/BoyBaykiller/meshoptimizer/stats"
	"gopkg.in/yaml.v3"
)

// Summary is a Reporter that collects a whole session for export.
type Summary struct {
	RunID      string            `yaml:"run_id"`
	Started    time.Time         `yaml:"started"`
	Source     string            `yaml:"source"`
	Vertices   int               `yaml:"vertices"`
	Triangles  int               `yaml:"triangles"`
	CacheSize  int               `yaml:"cache_size"`
	Seed       uint64            `yaml:"seed"`
	Count      int               `yaml:"count"`
	Strategies []StrategySummary `yaml:"strategies"`
}

type StrategySummary struct {
	Name                string  `yaml:"name"`
	ACMR                float32 `yaml:"acmr"`
	ATVR                float32 `yaml:"atvr"`
	VerticesTransformed int     `yaml:"vertices_transformed"`
	Overdraw            float32 `yaml:"overdraw"`
	PixelsCovered       uint64  `yaml:"pixels_covered"`
	PixelsShaded        uint64  `yaml:"pixels_shaded"`
	Runs                int     `yaml:"runs"`
	MedianMsec          float64 `yaml:"median_msec"`
	MeanMsec            float64 `yaml:"mean_msec"`
	StdDevMsec          float64 `yaml:"stddev_msec"`
	MinMsec             float64 `yaml:"min_msec"`
	MaxMsec             float64 `yaml:"max_msec"`
	CPUMsec             float64 `yaml:"cpu_msec,omitempty"`
}

func (s *Summary) Begin(info Info) error {
	*s = Summary{
		RunID:     info.RunID.String(),
		Started:   info.Started,
		Source:    info.Source,
		Vertices:  info.Vertices,
		Triangles: info.Triangles,
		CacheSize: info.CacheSize,
		Seed:      info.Seed,
		Count:     info.Count,
	}
	return nil
}

func (s *Summary) Run(Result) error { return nil }

func (s *Summary) End(st Strategy, results []Result) error {
	if len(results) == 0 {
		return nil
	}
	samples := make([]time.Duration, len(results))
	var cpu []time.Duration
	for i, res := range results {
		samples[i] = res.Elapsed
		if res.CPUTime > 0 {
			cpu = append(cpu, res.CPUTime)
		}
	}
	sum := stats.Summarize(samples)
	last := results[len(results)-1]
	s.Strategies = append(s.Strategies, StrategySummary{
		Name:                st.String(),
		ACMR:                last.VertexCache.ACMR,
		ATVR:                last.VertexCache.ATVR,
		VerticesTransformed: last.VertexCache.VerticesTransformed,
		Overdraw:            last.Overdraw.Overdraw,
		PixelsCovered:       last.Overdraw.PixelsCovered,
		PixelsShaded:        last.Overdraw.PixelsShaded,
		Runs:                sum.N,
		MedianMsec:          stats.Milliseconds(sum.Median),
		MeanMsec:            stats.Milliseconds(sum.Mean),
		StdDevMsec:          stats.Milliseconds(sum.StdDev),
		MinMsec:             stats.Milliseconds(sum.Min),
		MaxMsec:             stats.Milliseconds(sum.Max),
		CPUMsec:             stats.Milliseconds(stats.Summarize(cpu).Median),
	})
	return nil
}

// WriteYAML encodes s to w.
func (s *Summary) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
