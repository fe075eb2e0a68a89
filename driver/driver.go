// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver measures one run of a benchmarked operation.
//
// RunBenchmark hands the operation a B whose timer is already running. The
// operation may stop, reset or restart the timer to exclude setup work, and
// may attach its own metrics with B.Report. When the run finishes the
// driver adds wall-clock time, CPU time and peak memory as requested by the
// RunOptions and, if asked to, writes a line in the standard Go benchmark
// format so results may be compared with benchstat.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	StatTime    = "ns/op"
	StatCPUTime = "user+sys-ns/op"
	StatPeakRSS = "peak-RSS-bytes"
)

type RunOption func(*B)

func DoTime(v bool) RunOption {
	return func(b *B) {
		b.doTime = v
	}
}

// DoCPUTime records the user+system CPU time spent while the timer runs.
func DoCPUTime(v bool) RunOption {
	return func(b *B) {
		b.doCPUTime = v
	}
}

func DoPeakRSS(v bool) RunOption {
	return func(b *B) {
		b.doPeakRSS = v
	}
}

// DoDisableGC turns the garbage collector off for the duration of the run,
// after forcing a collection, so that collection work left over from
// earlier runs does not land in this one.
func DoDisableGC(v bool) RunOption {
	return func(b *B) {
		b.disableGC = v
	}
}

// DoCPUProfile writes a CPU profile of the timed region to a new file in
// dir. An empty dir disables profiling.
func DoCPUProfile(dir string) RunOption {
	return func(b *B) {
		b.profileDir = dir
	}
}

func WithContext(ctx context.Context) RunOption {
	return func(b *B) {
		b.ctx = ctx
	}
}

func WriteResultsTo(wr io.Writer) RunOption {
	return func(b *B) {
		b.resultsWriter = wr
	}
}

var InProcessMeasurementOptions = []RunOption{
	DoTime(true),
	DoCPUTime(true),
	DoPeakRSS(true),
	DoDisableGC(true),
}

type B struct {
	ctx           context.Context
	name          string
	start         time.Time
	dur           time.Duration
	cpuStart      time.Duration
	cpu           time.Duration
	doTime        bool
	doCPUTime     bool
	doPeakRSS     bool
	disableGC     bool
	profileDir    string
	profile       *os.File
	stats         map[string]float64
	resultsWriter io.Writer
}

func newB(name string) *B {
	return &B{
		name:  name,
		stats: make(map[string]float64),
	}
}

func (b *B) StartTimer() {
	if b.TimerRunning() {
		panic("starting running timer")
	}
	if b.profile != nil {
		if err := pprof.StartCPUProfile(b.profile); err != nil {
			warningf("failed to start CPU profile: %v", err)
		}
	}
	if b.doCPUTime {
		b.cpuStart = readCPUTime()
	}
	b.start = time.Now()
}

func (b *B) StopTimer() {
	end := time.Now()
	if b.start.IsZero() {
		panic("stopping unstarted timer")
	}
	b.dur += end.Sub(b.start)
	b.start = time.Time{}
	if b.doCPUTime {
		b.cpu += readCPUTime() - b.cpuStart
	}
	if b.profile != nil {
		pprof.StopCPUProfile()
	}
}

// ResetTimer zeroes the elapsed time and, if the timer is running,
// restarts it from now.
func (b *B) ResetTimer() {
	if b.profile != nil && b.TimerRunning() {
		pprof.StopCPUProfile()
		if err := b.truncateProfile(); err != nil {
			warningf("failed to truncate CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(b.profile); err != nil {
			warningf("failed to restart CPU profile: %v", err)
		}
	}
	if b.TimerRunning() {
		if b.doCPUTime {
			b.cpuStart = readCPUTime()
		}
		b.start = time.Now()
	}
	b.dur = 0
	b.cpu = 0
}

func (b *B) truncateProfile() error {
	if _, err := b.profile.Seek(0, 0); err != nil {
		return err
	}
	return b.profile.Truncate(0)
}

func (b *B) TimerRunning() bool {
	return !b.start.IsZero()
}

func (b *B) Elapsed() time.Duration {
	return b.dur
}

// CPUTime returns the CPU time accumulated while the timer ran. It is
// zero unless DoCPUTime was requested.
func (b *B) CPUTime() time.Duration {
	return b.cpu
}

// Report attaches a metric to the result. unit is used as the metric's
// unit in benchmark format output and must not contain spaces.
func (b *B) Report(unit string, value float64) {
	b.stats[unit] = value
}

func (b *B) Context() context.Context {
	if b.ctx != nil {
		return b.ctx
	}
	return context.Background()
}

// Result is the outcome of one RunBenchmark call.
type Result struct {
	Name    string
	Elapsed time.Duration
	CPUTime time.Duration
	Stats   map[string]float64

	// Profile is the path of the CPU profile written for this run, if any.
	Profile string
}

func RunBenchmark(name string, f func(*B) error, opts ...RunOption) (*Result, error) {
	// Create a B and populate it with options.
	b := newB(name)
	for _, opt := range opts {
		opt(b)
	}

	if b.profileDir != "" {
		pf, err := os.CreateTemp(b.profileDir, safeFileName(name)+"-*.cpu.pprof")
		if err != nil {
			return nil, fmt.Errorf("creating CPU profile: %w", err)
		}
		b.profile = pf
		defer pf.Close()
	}

	if b.disableGC {
		runtime.GC()
		gogc := debug.SetGCPercent(-1)
		defer debug.SetGCPercent(gogc)
	}

	b.StartTimer()

	// Run the benchmark itself.
	err := f(b)
	if b.TimerRunning() {
		b.StopTimer()
	}
	if err != nil {
		return nil, err
	}

	if b.doPeakRSS {
		v, err := ReadPeakRSS()
		if err != nil {
			warningf("failed to read RSS peak: %v", err)
		} else if v != 0 {
			b.stats[StatPeakRSS] = float64(v)
		}
	}
	if b.doTime {
		if b.Elapsed() < 0 {
			panic("negative duration encountered")
		}
		b.stats[StatTime] = float64(b.Elapsed().Nanoseconds())
	}
	if b.doCPUTime && b.CPUTime() > 0 {
		b.stats[StatCPUTime] = float64(b.CPUTime().Nanoseconds())
	}

	res := &Result{
		Name:    name,
		Elapsed: b.Elapsed(),
		CPUTime: b.CPUTime(),
		Stats:   b.stats,
	}
	if b.profile != nil {
		res.Profile = b.profile.Name()
	}

	// Report the results.
	if b.resultsWriter != nil {
		if err := b.report(b.resultsWriter); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (b *B) report(out io.Writer) error {
	names := make([]string, 0, len(b.stats))
	for name := range b.stats {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		// Let's make sure StatTime always ends up first.
		if names[i] == StatTime {
			return true
		} else if names[j] == StatTime {
			return false
		}
		return names[i] < names[j]
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "Benchmark%s 1", b.name)
	for _, name := range names {
		fmt.Fprintf(&sb, " %s %s", strconv.FormatFloat(b.stats[name], 'f', -1, 64), name)
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(out, sb.String())
	return err
}

func warningf(format string, args ...interface{}) {
	s := fmt.Sprintf(format, args...)
	s = strings.Join(strings.Split(s, "\n"), "\n# ")
	fmt.Fprintf(os.Stderr, "# warning: %s\n", s)
}

func safeFileName(name string) string {
	var buf strings.Builder
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch < 0x20 || ch >= 0x7F || strings.IndexByte(`"*/:<>?\|% `, ch) >= 0:
			fmt.Fprintf(&buf, "%%%02x", ch)
		default:
			buf.WriteByte(ch)
		}
	}
	return buf.String()
}
