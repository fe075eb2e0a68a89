// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package driver

import (
	"time"

	"golang.org/x/sys/unix"
)

// readCPUTime returns the user+system CPU time consumed by the process so
// far, or 0 if it cannot be read.
func readCPUTime() time.Duration {
	var usage unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &usage); err != nil {
		warningf("getrusage failed: %v", err)
		// Deliberately ignore the error.
		return 0
	}
	return time.Duration(usage.Utime.Nano() + usage.Stime.Nano())
}
