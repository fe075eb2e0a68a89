// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package driver

import (
	"fmt"
	"runtime"
)

func SetAffinity(cpu int, args []string) error {
	return fmt.Errorf("CPU affinity is not supported on %s", runtime.GOOS)
}
