// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedstat

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"golang.org/x/schedperf/schedfmt"
)

// loadSummary parses the named testdata logs, one benchmark each.
func loadSummary(t *testing.T, names ...string) *Summary {
	t.Helper()
	var c Collection
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join("testdata", name+".log"))
		if err != nil {
			t.Fatal(err)
		}
		r, err := schedfmt.ParseResult(name, data, schedfmt.Options{})
		if err != nil {
			t.Fatal(err)
		}
		c.Add(r)
	}
	return c.Summary()
}

func golden(t *testing.T, name string, got []byte) {
	t.Helper()
	want, err := os.ReadFile(filepath.Join("testdata", name+".golden"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
	}
}

func TestFormat(t *testing.T) {
	s := loadSummary(t, "bzip2", "mcf", "gobmk")
	for _, test := range []struct {
		name   string
		format func(*bytes.Buffer, *Summary)
	}{
		{"times", FormatTimes},
		{"spills", FormatSpills},
		{"blocks", FormatBlocks},
		{"regp", FormatPressure},
	} {
		var buf bytes.Buffer
		test.format(&buf, s)
		golden(t, test.name, buf.Bytes())
	}
}

func TestReportsWrite(t *testing.T) {
	s := loadSummary(t, "bzip2", "mcf", "gobmk")
	dir := t.TempDir()
	r := Reports{
		Times:  filepath.Join(dir, "times.dat"),
		Blocks: filepath.Join(dir, "blocks.dat"),
	}
	if err := r.Write(s); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(r.Times)
	if err != nil {
		t.Fatal(err)
	}
	golden(t, "times", got)
	got, err = os.ReadFile(r.Blocks)
	if err != nil {
		t.Fatal(err)
	}
	golden(t, "blocks", got)

	// Reports without a path are skipped.
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(ents) != 2 {
		t.Errorf("got %d files, want 2", len(ents))
	}

	r = Reports{Spills: filepath.Join(dir, "missing", "spills.dat")}
	if err := r.Write(s); err == nil {
		t.Errorf("writing into a missing directory: got success, want error")
	}
}

func TestFormatSummary(t *testing.T) {
	s := loadSummary(t, "bzip2", "mcf", "gobmk")
	var buf bytes.Buffer
	FormatSummary(&buf, s)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), buf.String())
	}
	for i, want := range [][]string{
		{"benchmark", "blocks", "success", "enum", "optimal", "cost imp", "spills", "sec"},
		{"bzip2", "5", "80.00%", "50.00%", "50.00%", "3.43%", "9", "42"},
		{"mcf", "0", "0.00%", "0.00%", "0.00%", "0.00%", "2", "3"},
		{"gobmk", "2", "100.00%", "100.00%", "50.00%", "0.95%", "1", "7"},
		{"total", "7", "85.71%", "66.67%", "50.00%", "2.08%", "12", "52"},
	} {
		got := strings.Fields(strings.Replace(lines[i], "cost imp", "cost_imp", 1))
		if i == 0 {
			want[5] = "cost_imp"
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("line %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}
