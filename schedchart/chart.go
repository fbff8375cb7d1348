// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schedchart draws charts of scheduling statistics.
package schedchart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"golang.org/x/schedperf/schedstat"
)

// A class is one bar of each benchmark group.
type class struct {
	label string
	count func(s *schedstat.BlockStats) int
	clr   color.Color
}

var classes = []class{
	{"failed", func(s *schedstat.BlockStats) int { return s.Count - s.Successful }, gray(0x99)},
	{"heuristic", func(s *schedstat.BlockStats) int { return s.Successful - s.Enumerated }, rgb(0x4e, 0x79, 0xa7)},
	{"optimal, improved", func(s *schedstat.BlockStats) int { return s.OptimalImproved }, rgb(0x59, 0xa1, 0x4f)},
	{"optimal", func(s *schedstat.BlockStats) int { return s.OptimalNotImproved }, rgb(0x8c, 0xd1, 0x7d)},
	{"timed out, improved", func(s *schedstat.BlockStats) int { return s.NonOptimalImproved }, rgb(0xf2, 0x8e, 0x2b)},
	{"timed out", func(s *schedstat.BlockStats) int { return s.NonOptimalNotImproved }, rgb(0xe1, 0x57, 0x59)},
}

func rgb(r, g, b uint8) color.Color { return color.RGBA{r, g, b, 0xff} }
func gray(y uint8) color.Color      { return color.Gray{y} }

// Outcomes plots, for each benchmark in s, how many blocks ended in
// each outcome, and saves the chart to path. The image format is
// chosen from the extension of path (for example .png, .svg or .pdf).
func Outcomes(s *schedstat.Summary, path string, width, height vg.Length) error {
	p, err := OutcomesPlot(s)
	if err != nil {
		return err
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}
	return nil
}

// OutcomesPlot builds the plot drawn by Outcomes.
func OutcomesPlot(s *schedstat.Summary) (*plot.Plot, error) {
	if len(s.Benchmarks) == 0 {
		return nil, fmt.Errorf("no benchmarks to chart")
	}
	p := plot.New()
	p.Title.Text = "Block outcomes"
	p.Y.Label.Text = "blocks"
	p.Legend.Top = true

	names := make([]string, len(s.Benchmarks))
	for i, b := range s.Benchmarks {
		names[i] = b.Name
	}
	p.NominalX(names...)

	w := vg.Points(8)
	for i, c := range classes {
		vals := make(plotter.Values, len(s.Benchmarks))
		for j, b := range s.Benchmarks {
			vals[j] = float64(c.count(&b.Blocks))
		}
		bars, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return nil, fmt.Errorf("%s bars: %w", c.label, err)
		}
		bars.Color = c.clr
		bars.LineStyle.Width = 0
		// Center the group of bars on each benchmark.
		bars.Offset = vg.Length(float64(i)-float64(len(classes)-1)/2) * w
		p.Add(bars)
		p.Legend.Add(c.label, bars)
	}
	p.Add(plotter.NewGrid())
	return p, nil
}
