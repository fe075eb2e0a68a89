// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package driver

import (
	"context"
	"time"
)

// WaitForIdle returns immediately on platforms without /proc/loadavg.
func WaitForIdle(ctx context.Context, maxLoad float64, interval time.Duration) error {
	return ctx.Err()
}
