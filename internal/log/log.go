// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log provides the activity log and command trace of meshbench.
//
// Both are off by default. The activity log reports what the tool is doing
// on stderr. The command trace prints a shell command reproducing the run
// on stdout, prefixed with "[shell] ".
package log

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	shellquote "github.com/kballard/go-shellquote"
)

var (
	cmdLog, actLog *log.Logger
	cmdOn, actOn   = false, false
)

func init() {
	cmdLog = log.NewWithOptions(os.Stdout, log.Options{})
	actLog = log.NewWithOptions(os.Stderr, log.Options{Prefix: "meshbench"})
}

// SetActivityOutput redirects the activity log, including Error, to w.
func SetActivityOutput(w io.Writer) {
	actLog.SetOutput(w)
}

// SetCommandOutput redirects the command trace to w.
func SetCommandOutput(w io.Writer) {
	cmdLog.SetOutput(w)
}

func SetCommandTrace(on bool) {
	cmdOn = on
}

func SetActivityLog(on bool) {
	actOn = on
	if on {
		actLog.SetLevel(log.DebugLevel)
	} else {
		actLog.SetLevel(log.InfoLevel)
	}
}

// TraceCommand prints args as a single shell-quoted command line.
func TraceCommand(args ...string) {
	if !cmdOn {
		return
	}
	cmdLog.Print("[shell] " + shellquote.Join(args...))
}

func Printf(format string, args ...interface{}) {
	if !actOn {
		return
	}
	actLog.Infof(format, args...)
}

// Debugf logs with key-value pairs, for per-run detail.
func Debugf(msg string, keyvals ...interface{}) {
	if !actOn {
		return
	}
	actLog.Debug(msg, keyvals...)
}

// Error always logs err, regardless of SetActivityLog.
func Error(err error) {
	actLog.Error("error", "err", err)
}
