// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"fmt"
	"strconv"
	"strings"
)

// parseLoadAvg returns the 1-minute load average from the contents of
// /proc/loadavg.
func parseLoadAvg(s string) (float64, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return 0, fmt.Errorf("empty load average")
	}
	avg, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed load average %q: %v", parts[0], err)
	}
	return avg, nil
}
