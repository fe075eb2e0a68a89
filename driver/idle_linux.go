// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"context"
	"fmt"
	"os"
	"time"
)

func readLoadAvg() (float64, error) {
	b, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return 0, fmt.Errorf("error reading /proc/loadavg: %w", err)
	}
	return parseLoadAvg(string(b))
}

// WaitForIdle blocks until the 1-minute load average drops below maxLoad,
// polling every interval, or until ctx is done.
func WaitForIdle(ctx context.Context, maxLoad float64, interval time.Duration) error {
	avg, err := readLoadAvg()
	if err != nil {
		return err
	}
	if avg < maxLoad {
		return nil
	}
	warningf("load average %.2f, waiting for it to drop below %.2f", avg, maxLoad)

	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
		avg, err := readLoadAvg()
		if err != nil {
			return err
		}
		if avg < maxLoad {
			return nil
		}
	}
}
