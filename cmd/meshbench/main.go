// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command meshbench compares triangle orderings of a mesh.
//
// Given an OBJ file, or with no argument a generated plane, it applies each
// ordering strategy to a fresh copy of the mesh, times the reordering, and
// reports the vertex cache miss ratio, the vertex transform ratio and the
// overdraw of the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/BoyBaykiller/meshoptimizer/bench"
	"github.com/BoyBaykiller/meshoptimizer/driver"
	"github.com/BoyBaykiller/meshoptimizer/internal/log"
	"github.com/BoyBaykiller/meshoptimizer/mesh"
	"golang.org/x/term"
)

const progName = "meshbench"

// pinnedEnv marks a process that has already been re-executed by
// driver.SetAffinity.
const pinnedEnv = "MESHBENCH_PINNED"

const idlePollInterval = 10 * time.Second

type csvFlag []string

func (c *csvFlag) String() string {
	return strings.Join([]string(*c), ",")
}

func (c *csvFlag) Set(input string) error {
	*c = strings.Split(input, ",")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] [.obj file]\n", progName)
		fs.PrintDefaults()
		fmt.Fprint(stderr, configHelp)
	}

	var (
		configPath string
		verbose    bool
		shell      bool
		flags      = defaultConfig()
	)
	fs.StringVar(&configPath, "config", "", "read settings from a TOML file")
	fs.IntVar(&flags.Plane, "plane", flags.Plane, "subdivisions of the generated plane")
	fs.Uint64Var(&flags.Seed, "seed", flags.Seed, "seed of the Random Shuffle strategy")
	fs.IntVar(&flags.CacheSize, "cache", flags.CacheSize, "simulated vertex cache size")
	fs.IntVar(&flags.Count, "count", flags.Count, "runs per strategy")
	fs.Var((*csvFlag)(&flags.Run), "run", "comma-separated list of strategies to run")
	fs.StringVar(&flags.Format, "format", flags.Format, "output format: text or bench")
	fs.StringVar(&flags.Results, "results", "", "write a YAML summary to this file")
	fs.StringVar(&flags.CPUProfile, "cpuprofile", "", "write one CPU profile per strategy to this directory")
	fs.IntVar(&flags.Affinity, "affinity", flags.Affinity, "pin the process to this CPU (Linux only)")
	fs.StringVar(&flags.Write, "write", "", "write the mesh to this OBJ file before benchmarking")
	fs.Float64Var(&flags.WaitIdle, "wait-idle", 0, "wait for the load average to drop below this value")
	fs.BoolVar(&verbose, "v", false, "log activity to stderr")
	fs.BoolVar(&shell, "shell", false, "print a shell command reproducing this run")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}
	log.SetActivityOutput(stderr)
	log.SetCommandOutput(stdout)
	log.SetActivityLog(verbose)
	log.SetCommandTrace(shell)

	cfg := defaultConfig()
	if configPath != "" {
		if err := loadConfig(configPath, &cfg); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		log.Printf("loaded configuration from %s", configPath)
	}
	fs.Visit(func(f *flag.Flag) {
		applyFlag(&cfg, &flags, f.Name)
	})
	strategies, err := cfg.validate()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	if cfg.Affinity >= 0 && os.Getenv(pinnedEnv) == "" {
		os.Setenv(pinnedEnv, strconv.Itoa(cfg.Affinity))
		err := driver.SetAffinity(cfg.Affinity, append([]string{os.Args[0]}, args...))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	var (
		m      mesh.Mesh
		source string
	)
	if fs.NArg() == 0 {
		fmt.Fprintf(stdout, "Usage: %s [.obj file]\n", progName)
		m = mesh.GeneratePlane(cfg.Plane)
		source = fmt.Sprintf("plane-%d", cfg.Plane)
		fmt.Fprintf(stdout, "Using a tesselated plane (%d vertices, %d triangles)\n", len(m.Vertices), m.TriangleCount())
	} else {
		path := fs.Arg(0)
		source = path
		log.Printf("loading %s", path)
		m, err = mesh.ReadOBJ(path)
		if err != nil {
			fmt.Fprintf(stdout, "Error loading %s: %v\n", path, err)
		}
		if m.Empty() {
			fmt.Fprintf(stdout, "Mesh %s appears to be empty\n", path)
			return 0
		}
		fmt.Fprintf(stdout, "Using %s (%d vertices, %d triangles)\n", path, len(m.Vertices), m.TriangleCount())
	}
	log.TraceCommand(reproduce(cfg, strategies, fs.Args())...)

	if cfg.Write != "" {
		if err := writeMesh(cfg.Write, m); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		log.Printf("wrote %s", cfg.Write)
	}
	if cfg.CPUProfile != "" {
		if err := os.MkdirAll(cfg.CPUProfile, 0o755); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}

	r := &bench.Runner{
		Base:       m,
		Source:     source,
		Options:    bench.Options{Seed: cfg.Seed, CacheSize: cfg.CacheSize},
		Strategies: strategies,
		Count:      cfg.Count,
		ProfileDir: cfg.CPUProfile,
	}
	switch cfg.Format {
	case formatText:
		r.Reporters = append(r.Reporters, &bench.TextReporter{W: stdout})
	case formatBench:
		r.Reporters = append(r.Reporters, &bench.BenchReporter{W: stdout})
	}
	var summary *bench.Summary
	if cfg.Results != "" {
		summary = new(bench.Summary)
		r.Reporters = append(r.Reporters, summary)
	}
	if f, ok := stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.Progress = stderr
	}

	if cfg.WaitIdle > 0 {
		log.Printf("waiting for load average below %.2f", cfg.WaitIdle)
		if err := driver.WaitForIdle(ctx, cfg.WaitIdle, idlePollInterval); err != nil {
			log.Error(err)
			return 1
		}
	}
	if err := r.Run(ctx); err != nil {
		log.Error(err)
		return 1
	}
	if summary != nil {
		if err := writeSummary(cfg.Results, summary); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		log.Printf("wrote %s", cfg.Results)
	}
	return 0
}

// applyFlag copies the value of the flag name from flags into cfg.
func applyFlag(cfg, flags *config, name string) {
	switch name {
	case "plane":
		cfg.Plane = flags.Plane
	case "seed":
		cfg.Seed = flags.Seed
	case "cache":
		cfg.CacheSize = flags.CacheSize
	case "count":
		cfg.Count = flags.Count
	case "run":
		cfg.Run = flags.Run
	case "format":
		cfg.Format = flags.Format
	case "results":
		cfg.Results = flags.Results
	case "cpuprofile":
		cfg.CPUProfile = flags.CPUProfile
	case "affinity":
		cfg.Affinity = flags.Affinity
	case "write":
		cfg.Write = flags.Write
	case "wait-idle":
		cfg.WaitIdle = flags.WaitIdle
	}
}

// reproduce returns a command line equivalent to the effective settings.
func reproduce(cfg config, strategies []bench.Strategy, args []string) []string {
	cmd := []string{progName,
		"-seed", strconv.FormatUint(cfg.Seed, 10),
		"-cache", strconv.Itoa(cfg.CacheSize),
		"-count", strconv.Itoa(cfg.Count),
		"-format", cfg.Format,
	}
	if len(args) == 0 {
		cmd = append(cmd, "-plane", strconv.Itoa(cfg.Plane))
	}
	if len(strategies) != len(bench.Strategies) {
		names := make([]string, len(strategies))
		for i, s := range strategies {
			names[i] = s.ShortName()
		}
		cmd = append(cmd, "-run", strings.Join(names, ","))
	}
	if cfg.Affinity >= 0 {
		cmd = append(cmd, "-affinity", strconv.Itoa(cfg.Affinity))
	}
	return append(cmd, args...)
}

func writeMesh(path string, m mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mesh.WriteOBJ(f, m); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func writeSummary(path string, s *bench.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.WriteYAML(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
