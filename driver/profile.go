// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"fmt"
	"os"

	"github.com/google/pprof/profile"
)

func readPprof(filename string) (*profile.Profile, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return profile.Parse(f)
}

// MergeProfiles combines the pprof profiles at paths into a single profile
// written to outPath. The inputs are removed once the merged profile has
// been written. Empty inputs are skipped.
func MergeProfiles(outPath string, paths []string) error {
	var profiles []*profile.Profile
	for _, path := range paths {
		if info, err := os.Stat(path); err != nil {
			return err
		} else if info.Size() == 0 {
			// Skip zero-sized files, otherwise the pprof package
			// will call it a parsing error.
			continue
		}
		p, err := readPprof(path)
		if err != nil {
			return fmt.Errorf("reading profile %s: %w", path, err)
		}
		profiles = append(profiles, p)
	}
	if len(profiles) == 0 {
		return nil
	}

	p, err := profile.Merge(profiles)
	if err != nil {
		return fmt.Errorf("error merging profiles: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	err = p.Write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("error writing profile %s: %w", outPath, err)
	}

	// Now we can delete all of the input files.
	for _, path := range paths {
		if path == outPath {
			continue
		}
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}
