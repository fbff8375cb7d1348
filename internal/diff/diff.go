// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff compares the output of golden-file tests.
package diff

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Diff returns a human-readable description of the differences
// between want and got, or "" if they are equal. If the "diff"
// command is available, it returns the unified diff of want and got.
func Diff(want, got []byte) string {
	if bytes.Equal(want, got) {
		return ""
	}
	if _, err := exec.LookPath("diff"); err != nil {
		return fmt.Sprintf("diff command unavailable\nwant: %q\ngot:  %q", want, got)
	}
	dir, err := os.MkdirTemp("", "schedperf-diff")
	if err != nil {
		return err.Error()
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, "want"), want, 0666); err != nil {
		return err.Error()
	}
	if err := os.WriteFile(filepath.Join(dir, "got"), got, 0666); err != nil {
		return err.Error()
	}

	cmd := "diff"
	if runtime.GOOS == "plan9" {
		cmd = "/bin/ape/diff"
	}
	c := exec.Command(cmd, "-Nu", "want", "got")
	c.Dir = dir
	data, err := c.CombinedOutput()
	if len(data) > 0 {
		// diff exits with a non-zero status when the files don't match.
		// Ignore that failure as long as we get output.
		err = nil
	}
	if err != nil {
		data = append(data, []byte(err.Error())...)
	}
	return string(data)
}
