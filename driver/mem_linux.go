// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"os"
	"regexp"
	"strconv"
)

var reVmHWM = regexp.MustCompile(`VmHWM:\s*(\d+) kB`)

// ReadPeakRSS returns the peak resident set size of the process in bytes.
func ReadPeakRSS() (uint64, error) {
	b, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return 0, err
	}
	m := reVmHWM.FindSubmatch(b)
	if len(m) < 2 {
		return 0, nil
	}
	val, err := strconv.ParseUint(string(m[1]), 10, 64)
	return val * 1024, err
}
