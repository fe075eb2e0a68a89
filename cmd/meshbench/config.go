// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BoyBaykiller/meshoptimizer/bench"
	"github.com/BurntSushi/toml"
)

const configHelp = `
The configuration file is TOML. Every field is optional and mirrors the flag
of the same name; flags given on the command line take precedence.
        plane: subdivisions of the generated plane (default 1000)
         seed: seed of the Random Shuffle strategy (default 1)
        cache: simulated vertex cache size (default 24)
        count: runs per strategy (default 1)
          run: strategies to run, by name (default all)
       format: "text" or "bench" (default "text")
      results: path of a YAML summary to write
   cpuprofile: directory receiving one CPU profile per strategy
     affinity: CPU to pin the process to (default none)
        write: path to write the benchmarked mesh to as OBJ
    wait_idle: wait for the 1-minute load average to drop below this value
               before benchmarking (default 0, no wait)

For example:

  plane = 500
  count = 5
  run = ["cache", "cache-overdraw"]
  format = "bench"
`

const (
	formatText  = "text"
	formatBench = "bench"
)

type config struct {
	Plane      int      `toml:"plane"`
	Seed       uint64   `toml:"seed"`
	CacheSize  int      `toml:"cache"`
	Count      int      `toml:"count"`
	Run        []string `toml:"run"`
	Format     string   `toml:"format"`
	Results    string   `toml:"results"`
	CPUProfile string   `toml:"cpuprofile"`
	Affinity   int      `toml:"affinity"`
	Write      string   `toml:"write"`
	WaitIdle   float64  `toml:"wait_idle"`
}

func defaultConfig() config {
	return config{
		Plane:     1000,
		Seed:      1,
		CacheSize: bench.DefaultCacheSize,
		Count:     1,
		Format:    formatText,
		Affinity:  -1,
	}
}

// loadConfig decodes the TOML file at path over cfg. Keys that do not
// name a field are an error.
func loadConfig(path string, cfg *config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("error parsing %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// validate checks c and returns the strategies it selects.
func (c *config) validate() ([]bench.Strategy, error) {
	if c.Plane < 1 {
		return nil, fmt.Errorf("plane subdivisions must be positive, got %d", c.Plane)
	}
	if c.CacheSize < 3 {
		return nil, fmt.Errorf("cache size must be at least 3, got %d", c.CacheSize)
	}
	if c.Count < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", c.Count)
	}
	if c.WaitIdle < 0 {
		return nil, fmt.Errorf("idle load threshold must not be negative, got %v", c.WaitIdle)
	}
	if c.Format != formatText && c.Format != formatBench {
		return nil, fmt.Errorf("unknown format %q: want %q or %q", c.Format, formatText, formatBench)
	}
	return c.strategies()
}

func (c *config) strategies() ([]bench.Strategy, error) {
	if len(c.Run) == 0 {
		return bench.Strategies, nil
	}
	return bench.ParseStrategies(c.Run)
}
