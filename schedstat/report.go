// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedstat

import (
	"bytes"
	"fmt"
	"os"
)

// Reports names the files the reports are written to. An empty path
// skips that report.
type Reports struct {
	Times    string
	Spills   string
	Blocks   string
	Pressure string
}

// Write renders s into each report named by r.
func (r *Reports) Write(s *Summary) error {
	for _, rep := range []struct {
		path   string
		format func(*bytes.Buffer, *Summary)
	}{
		{r.Times, FormatTimes},
		{r.Spills, FormatSpills},
		{r.Blocks, FormatBlocks},
		{r.Pressure, FormatPressure},
	} {
		if rep.path == "" {
			continue
		}
		var buf bytes.Buffer
		rep.format(&buf, s)
		if err := os.WriteFile(rep.path, buf.Bytes(), 0666); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}
