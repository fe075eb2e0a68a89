// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// SetAffinity pins the process to cpu and re-executes it with args (args[0]
// included), so that every thread of the new process inherits the mask.
// It only returns on failure.
func SetAffinity(cpu int, args []string) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("setting affinity to CPU %d: %w", cpu, err)
	}
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	return unix.Exec(exe, args, os.Environ())
}
