// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BoyBaykiller/meshoptimizer/bench"
	"github.com/BoyBaykiller/meshoptimizer/mesh"
	"gopkg.in/yaml.v3"
)

func runMain(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut strings.Builder
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPlane(t *testing.T) {
	code, out, _ := runMain(t, "-plane", "4")
	if code != 0 {
		t.Fatalf("got exit code %d, want 0", code)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2+len(bench.Strategies) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), 2+len(bench.Strategies), out)
	}
	if lines[0] != "Usage: meshbench [.obj file]" {
		t.Errorf("got %q, want the usage line", lines[0])
	}
	if lines[1] != "Using a tesselated plane (25 vertices, 32 triangles)" {
		t.Errorf("got %q, want the plane description", lines[1])
	}
	for i, s := range bench.Strategies {
		if !strings.HasPrefix(lines[2+i], s.String()) {
			t.Errorf("row %d: got %q, want it to start with %q", i, lines[2+i], s)
		}
	}
}

func TestModelFile(t *testing.T) {
	path := writeFile(t, "quad.obj", "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n")
	code, out, _ := runMain(t, path)
	if code != 0 {
		t.Fatalf("got exit code %d, want 0", code)
	}
	want := "Using " + path + " (4 vertices, 2 triangles)\n"
	if !strings.HasPrefix(out, want) {
		t.Fatalf("got %q, want prefix %q", out, want)
	}
	if n := strings.Count(out, " msec\n"); n != len(bench.Strategies) {
		t.Fatalf("got %d rows, want %d", n, len(bench.Strategies))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("device full")
}

func TestReportFailure(t *testing.T) {
	var errOut strings.Builder
	code := run(context.Background(), []string{"-plane", "2"}, failingWriter{}, &errOut)
	if code != 1 {
		t.Fatalf("got exit code %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "device full") {
		t.Fatalf("got stderr %q, want the write error", errOut.String())
	}
}

func TestHelp(t *testing.T) {
	code, out, errOut := runMain(t, "-h")
	if code != 0 {
		t.Fatalf("got exit code %d, want 0", code)
	}
	if out != "" || !strings.Contains(errOut, "The configuration file is TOML") {
		t.Fatalf("got stdout %q and stderr %q, want the config help on stderr", out, errOut)
	}
}

func TestShellTrace(t *testing.T) {
	code, out, _ := runMain(t, "-shell", "-plane", "2", "-run", "cache")
	if code != 0 {
		t.Fatalf("got exit code %d, want 0", code)
	}
	want := "[shell] meshbench -seed 1 -cache 24 -count 1 -format text -plane 2 -run cache"
	if !strings.Contains(out, want) {
		t.Fatalf("got %q, want it to contain %q", out, want)
	}
}

func TestEmptyModel(t *testing.T) {
	path := writeFile(t, "empty.obj", "# nothing here\nv 0 0 0\n")
	code, out, _ := runMain(t, path)
	if code != 0 {
		t.Fatalf("got exit code %d, want 0", code)
	}
	if want := "Mesh " + path + " appears to be empty\n"; out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestMissingModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.obj")
	code, out, _ := runMain(t, path)
	if code != 0 {
		t.Fatalf("got exit code %d, want 0", code)
	}
	if !strings.HasPrefix(out, "Error loading "+path+": ") {
		t.Errorf("got %q, want an error naming the path", out)
	}
	if !strings.HasSuffix(out, "Mesh "+path+" appears to be empty\n") {
		t.Errorf("got %q, want the empty mesh diagnostic", out)
	}
	if strings.Contains(out, "ACMR") {
		t.Error("benchmarks ran after a load failure")
	}
}

func TestTooManyArgs(t *testing.T) {
	code, out, errOut := runMain(t, "a.obj", "b.obj")
	if code != 2 {
		t.Fatalf("got exit code %d, want 2", code)
	}
	if out != "" || !strings.Contains(errOut, "Usage:") {
		t.Fatalf("got stdout %q and stderr %q, want usage on stderr only", out, errOut)
	}
}

func TestBadFlags(t *testing.T) {
	for _, args := range [][]string{
		{"-cache", "2"},
		{"-count", "0"},
		{"-format", "csv"},
		{"-run", "cache,fastest"},
		{"-plane", "0"},
	} {
		if code, _, _ := runMain(t, args...); code != 2 {
			t.Errorf("%v: got exit code %d, want 2", args, code)
		}
	}
}

func TestRunSubset(t *testing.T) {
	code, out, _ := runMain(t, "-plane", "3", "-run", "overdraw,cache")
	if code != 0 {
		t.Fatalf("got exit code %d, want 0", code)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")[2:]
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Cache ") || !strings.HasPrefix(lines[1], "Overdraw Only") {
		t.Fatalf("got rows %q, want Cache then Overdraw Only", lines)
	}
}

func TestConfigOverriddenByFlags(t *testing.T) {
	cfgPath := writeFile(t, "meshbench.toml", "plane = 2\ncount = 2\nrun = [\"original\"]\nformat = \"bench\"\n")
	code, out, errOut := runMain(t, "-config", cfgPath, "-plane", "3")
	if code != 0 {
		t.Fatalf("got exit code %d, want 0; stderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "Using a tesselated plane (16 vertices, 18 triangles)\n") {
		t.Errorf("flag did not override the config file:\n%s", out)
	}
	if n := strings.Count(out, "\nBenchmarkOriginal 1 "); n != 2 {
		t.Errorf("got %d benchmark lines, want 2:\n%s", n, out)
	}
}

func TestConfigUnknownKey(t *testing.T) {
	cfgPath := writeFile(t, "meshbench.toml", "plane = 2\nplanes = 3\n")
	code, _, errOut := runMain(t, "-config", cfgPath)
	if code != 1 {
		t.Fatalf("got exit code %d, want 1", code)
	}
	if !strings.Contains(errOut, "planes") {
		t.Fatalf("got %q, want the unknown key named", errOut)
	}
}

func TestResultsAndWrite(t *testing.T) {
	dir := t.TempDir()
	results := filepath.Join(dir, "results.yaml")
	model := filepath.Join(dir, "plane.obj")
	code, _, errOut := runMain(t, "-plane", "3", "-results", results, "-write", model)
	if code != 0 {
		t.Fatalf("got exit code %d, want 0; stderr:\n%s", code, errOut)
	}

	data, err := os.ReadFile(results)
	if err != nil {
		t.Fatal(err)
	}
	var sum bench.Summary
	if err := yaml.Unmarshal(data, &sum); err != nil {
		t.Fatal(err)
	}
	if sum.Source != "plane-3" || len(sum.Strategies) != len(bench.Strategies) {
		t.Errorf("got summary %+v", sum)
	}

	m, err := mesh.ReadOBJ(model)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 16 || m.TriangleCount() != 18 {
		t.Errorf("got %d vertices and %d triangles, want 16 and 18", len(m.Vertices), m.TriangleCount())
	}
}
