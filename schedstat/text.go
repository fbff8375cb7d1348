// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedstat

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/schedperf/internal/texttab"
)

// The layouts below are read by comparison scripts. Labels, field
// order and widths must not change.

// FormatTimes appends the elapsed-time report for s to buf.
func FormatTimes(buf *bytes.Buffer, s *Summary) {
	for _, b := range s.Benchmarks {
		fmt.Fprintf(buf, "%10s:%5d seconds\n", b.Name, b.Time)
	}
	buf.WriteString("---------------------------\n")
	fmt.Fprintf(buf, "     Total:%5d seconds\n", s.Time)
}

// FormatSpills appends the spill report for s to buf.
func FormatSpills(buf *bytes.Buffer, s *Summary) {
	for _, b := range s.Benchmarks {
		fmt.Fprintf(buf, "%s:\n", b.Name)
		for _, sp := range b.Spills {
			fmt.Fprintf(buf, "      %5d %s\n", sp.Count, sp.Function)
		}
		buf.WriteString("  ---------\n")
		fmt.Fprintf(buf, "  Sum:%5d\n\n", b.SpillTotal)
	}
	buf.WriteString("------------\n")
	fmt.Fprintf(buf, "Total:%5d\n", s.SpillTotal)
}

// FormatBlocks appends the block statistics report for s to buf:
// one section per benchmark followed by a grand-total section.
func FormatBlocks(buf *bytes.Buffer, s *Summary) {
	for _, b := range s.Benchmarks {
		fmt.Fprintf(buf, "%s:\n", b.Name)
		formatBlockStats(buf, &b.Blocks, "Region Spills")
	}
	buf.WriteString(strings.Repeat("-", 50) + "\n")
	buf.WriteString("Total:\n")
	formatBlockStats(buf, &s.Blocks, "Total Region Spills")
}

func formatBlockStats(buf *bytes.Buffer, st *BlockStats, spillsLabel string) {
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(buf, "  "+format+"\n", args...)
	}
	line("Blocks: %d", st.Count)
	line("Successful: %d (%.2f%%)", st.Successful, Pct(st.Successful, st.Count))
	line("Enumerated: %d (%.2f%%)", st.Enumerated, Pct(st.Enumerated, st.Successful))
	line("Optimal and Improved: %d (%.2f%%)", st.OptimalImproved, Pct(st.OptimalImproved, st.Enumerated))
	line("Optimal but not Improved: %d (%.2f%%)", st.OptimalNotImproved, Pct(st.OptimalNotImproved, st.Enumerated))
	line("Non-Optimal and Improved: %d (%.2f%%)", st.NonOptimalImproved, Pct(st.NonOptimalImproved, st.Enumerated))
	line("Non-Optimal and not Improved: %d (%.2f%%)", st.NonOptimalNotImproved, Pct(st.NonOptimalNotImproved, st.Enumerated))
	line("Heuristic cost: %d", st.HeuristicCost)
	line("B&B cost: %d", st.BBCost())
	line("Cost improvement: %d (%.2f%%)", st.Improvement, Pct(st.Improvement, st.HeuristicCost))
	line("%s: %d", spillsLabel, st.RegionSpills)
	line("Smallest block size: %s", extreme(st.Sizes, st.Sizes.Min))
	line("Largest block size: %s", extreme(st.Sizes, st.Sizes.Max))
	line("Average block size: %.1f", st.Sizes.Mean())
	line("Smallest enumerated block size: %s", extreme(st.EnumeratedSizes, st.EnumeratedSizes.Min))
	line("Largest enumerated block size: %s", extreme(st.EnumeratedSizes, st.EnumeratedSizes.Max))
	line("Average enumerated block size: %.1f", st.EnumeratedSizes.Mean())
	line("Largest optimal block size: %s", extreme(st.OptimalSizes, st.OptimalSizes.Max))
	line("Largest improved block size: %s", extreme(st.ImprovedSizes, st.ImprovedSizes.Max))
	line("Smallest timed out block size: %s", extreme(st.TimedOutSizes, st.TimedOutSizes.Min))
	// Truncated to whole milliseconds.
	line("Average optimal solution time: %d ms", int(st.OptimalTimes.Mean()))
}

// extreme formats v, an extreme value of d, or "none" if d is empty.
func extreme(d Dist, v float64) string {
	if d.N == 0 {
		return "none"
	}
	return strconv.Itoa(int(v))
}

// FormatPressure appends the register pressure report for s to buf.
func FormatPressure(buf *bytes.Buffer, s *Summary) {
	for _, b := range s.Benchmarks {
		fmt.Fprintf(buf, "Benchmark %s:\n", b.Name)
		for _, f := range b.FunctionPressure {
			fmt.Fprintf(buf, "  Function %s:\n", f.Function)
			fmt.Fprintf(buf, "  Pressure Set Sums for Function %s:\n", f.Function)
			for _, se := range f.Sums {
				fmt.Fprintf(buf, "    %5d %s\n", se.Excess, se.Set)
			}
		}
		fmt.Fprintf(buf, "Pressure Set Sums for Benchmark %s:\n", b.Name)
		for _, se := range b.PressureSums {
			fmt.Fprintf(buf, "%5d %s\n", se.Excess, se.Set)
		}
		buf.WriteString("------------\n")
	}
}

// FormatSummary appends a one-table overview of s to buf, one row
// per benchmark and a total row.
func FormatSummary(buf *bytes.Buffer, s *Summary) {
	var tab texttab.Table
	tab.Row().Cell("benchmark").
		Cell("blocks", texttab.Right).
		Cell("success", texttab.Right).
		Cell("enum", texttab.Right).
		Cell("optimal", texttab.Right).
		Cell("cost imp", texttab.Right).
		Cell("spills", texttab.Right).
		Cell("sec", texttab.Right)
	row := func(name string, st *BlockStats, spills, secs int) {
		tab.Row().Cell(name).
			Cellf("%d", st.Count).
			Cellf("%.2f%%", Pct(st.Successful, st.Count)).
			Cellf("%.2f%%", Pct(st.Enumerated, st.Successful)).
			Cellf("%.2f%%", Pct(st.OptimalImproved+st.OptimalNotImproved, st.Enumerated)).
			Cellf("%.2f%%", Pct(st.Improvement, st.HeuristicCost)).
			Cellf("%d", spills).
			Cellf("%d", secs)
	}
	for _, b := range s.Benchmarks {
		row(b.Name, &b.Blocks, b.SpillTotal, b.Time)
	}
	row("total", &s.Blocks, s.SpillTotal, s.Time)
	tab.Format(buf)
}
