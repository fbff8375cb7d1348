// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedfmt

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// block builds the output of one scheduling block from its
// informational lines.
func block(lines ...string) string {
	var b strings.Builder
	b.WriteString("INFO: ********** Opt Scheduling **********\n")
	for _, l := range lines {
		b.WriteString("INFO: " + l + "\n")
	}
	return b.String()
}

const (
	procLine   = "Processing DAG f:BB0 with 25 insts and max latency 3."
	startLine  = "-------------------- (Time = 10 ms)"
	costLine   = "The list schedule is of length 30 and spill cost 4. Tot cost = 34 [cycles=30, spill=4]"
	endLine    = "Schedule verified successfully (Time = 17 ms)"
	optLine    = "DAG solved optimally in 6 ms with length=30, spill cost = 0, tot cost = 30, cost imp=4."
	impLine    = "cost imp=4."
	heurLine   = "The list schedule of length 30 and cost 34 is optimal."
	zeroLine   = "Bypassing optimal scheduling due to zero time limit with cost 34"
	failedLine = "List scheduling failed"
	rpLine     = "RP-mismatch falling back!"
	spillLine  = "OPT_SCHED LOCAL RA: DAG Name: f:BB0 Number of spills: 3 (Time = 15 ms)"
)

func TestParseBlock(t *testing.T) {
	check := func(name string, text string, want Block) {
		t.Helper()
		blocks, errs := ParseBlocks(text)
		if len(errs) != 0 {
			t.Errorf("%s: unexpected errors %v", name, errs)
			return
		}
		if len(blocks) != 1 {
			t.Errorf("%s: got %d blocks, want 1", name, len(blocks))
			return
		}
		if diff := cmp.Diff(want, blocks[0]); diff != "" {
			t.Errorf("%s: block mismatch (-want +got):\n%s", name, diff)
		}
	}

	check("optimal",
		block(procLine, startLine, costLine, optLine, endLine),
		Block{"f:BB0", 25, EnumeratedOptimal, 7, 34, 4, 0})

	// Enumerated, but no optimality marker: the enumerator timed
	// out. No improvement marker means no improvement.
	check("timed out",
		block(procLine, startLine, costLine, endLine),
		Block{"f:BB0", 25, EnumeratedSuboptimal, 7, 34, 0, 0})
	check("timed out improved",
		block(procLine, startLine, costLine, impLine, endLine),
		Block{"f:BB0", 25, EnumeratedSuboptimal, 7, 34, 4, 0})

	// The list schedule was already optimal.
	check("heuristic",
		block(procLine, startLine, costLine, heurLine, endLine),
		Block{"f:BB0", 25, HeuristicOnly, 7, 34, 0, 0})

	// A zero time limit bypasses enumeration regardless of any
	// other marker.
	check("zero time limit",
		block(procLine, startLine, costLine, zeroLine, optLine, spillLine, endLine),
		Block{"f:BB0", 25, HeuristicOnly, 7, 34, 0, 3})

	check("list failed",
		block(procLine, startLine, costLine, failedLine, optLine, endLine),
		Block{"f:BB0", 25, Failed, 0, 0, 0, 0})
	check("rp mismatch",
		block(procLine, rpLine, spillLine),
		Block{"f:BB0", 25, Failed, 0, 0, 0, 3})
	// A failed block needs no timing or cost markers.
	check("failed bare",
		block(procLine, failedLine),
		Block{"f:BB0", 25, Failed, 0, 0, 0, 0})

	check("region spills",
		block(procLine, startLine, costLine, spillLine, optLine, endLine),
		Block{"f:BB0", 25, EnumeratedOptimal, 7, 34, 4, 3})

	// Lines without the INFO tag are noise, even if they look
	// like markers.
	check("noise",
		block(procLine, startLine, costLine, endLine)+
			"DAG solved optimally\nThe list schedule of length 1 and cost 1 is optimal.\n",
		Block{"f:BB0", 25, EnumeratedSuboptimal, 7, 34, 0, 0})
}

func TestParseBlockMissing(t *testing.T) {
	check := func(text string, want error) {
		t.Helper()
		blocks, errs := ParseBlocks(text)
		if len(blocks) != 0 {
			t.Errorf("got blocks %v, want none", blocks)
		}
		if len(errs) != 1 {
			t.Fatalf("got %d errors, want 1", len(errs))
		}
		if errs[0].Index != 1 {
			t.Errorf("got index %d, want 1", errs[0].Index)
		}
		if !errors.Is(errs[0], want) {
			t.Errorf("got error %v, want %v", errs[0], want)
		}
	}

	check(block(startLine, costLine, endLine), errNoName)
	check(block(procLine, costLine, endLine), errNoStart)
	check(block(procLine, startLine, costLine), errNoEnd)
	check(block(procLine, startLine, endLine), errNoCost)
	check(block(procLine, "-------------------- (Time = 20 ms)", costLine, endLine), errNegElapsed)
}

func TestBlockErrorContext(t *testing.T) {
	var lines []string
	for i := 0; i < 15; i++ {
		lines = append(lines, "line")
	}
	text := "preamble\n" + block(procLine, failedLine) + block(lines...)
	blocks, errs := ParseBlocks(text)
	if len(blocks) != 1 || len(errs) != 1 {
		t.Fatalf("got %d blocks and %d errors, want 1 and 1", len(blocks), len(errs))
	}
	err := errs[0]
	if err.Index != 2 {
		t.Errorf("got index %d, want 2", err.Index)
	}
	if len(err.Context) != maxContextLines {
		t.Errorf("got %d context lines, want %d", len(err.Context), maxContextLines)
	}
	if want := "could not parse block #2: missing region name and size"; err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestParseBlocksSample(t *testing.T) {
	data, err := os.ReadFile("testdata/sample.log")
	if err != nil {
		t.Fatal(err)
	}
	blocks, errs := ParseBlocks(string(data))
	want := []Block{
		{"main:BB1", 12, HeuristicOnly, 5, 20, 0, 1},
		{"main:BB2", 40, EnumeratedOptimal, 30, 50, 6, 0},
		{"foo:BB1", 80, EnumeratedSuboptimal, 1000, 90, 0, 0},
		{"foo:BB2", 7, Failed, 0, 0, 0, 2},
		{"foo:BB4", 30, HeuristicOnly, 2, 15, 0, 0},
	}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
	if len(errs) != 1 || errs[0].Index != 5 || !errors.Is(errs[0], errNoName) {
		t.Errorf("got errors %v, want block #5 missing name", errs)
	}

	// Parsing is a pure function of the text.
	again, _ := ParseBlocks(string(data))
	if diff := cmp.Diff(blocks, again); diff != "" {
		t.Errorf("second parse differs:\n%s", diff)
	}

	for _, b := range blocks {
		if b.IsOptimal() && !b.IsEnumerated() || b.IsEnumerated() && !b.Success() {
			t.Errorf("block %s: inconsistent outcome flags", b.Name)
		}
	}
}

func TestNewBlock(t *testing.T) {
	b, err := NewBlock("x", 3, Failed, 9, 9, 9, 1)
	if err != nil {
		t.Fatal(err)
	}
	if want := (Block{"x", 3, Failed, 0, 0, 0, 1}); b != want {
		t.Errorf("got %+v, want %+v", b, want)
	}
	b, err = NewBlock("x", 3, HeuristicOnly, 9, 9, 9, 1)
	if err != nil {
		t.Fatal(err)
	}
	if want := (Block{"x", 3, HeuristicOnly, 9, 9, 0, 1}); b != want {
		t.Errorf("got %+v, want %+v", b, want)
	}
	if _, err := NewBlock("x", -1, Failed, 0, 0, 0, 0); err == nil {
		t.Errorf("negative size: got success, want error")
	}
	if _, err := NewBlock("x", 1, Outcome(7), 0, 0, 0, 0); err == nil {
		t.Errorf("bad outcome: got success, want error")
	}
}

func TestOutcomeString(t *testing.T) {
	for _, o := range []Outcome{Failed, HeuristicOnly, EnumeratedSuboptimal, EnumeratedOptimal} {
		got, err := ParseOutcome(o.String())
		if err != nil || got != o {
			t.Errorf("ParseOutcome(%q) = %v, %v; want %v", o.String(), got, err, o)
		}
	}
	if _, err := ParseOutcome("bogus"); err == nil {
		t.Errorf("ParseOutcome(bogus): got success, want error")
	}
}
