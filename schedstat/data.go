// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schedstat summarizes parsed scheduler output.
//
// Statistics are computed per benchmark and then folded into grand
// totals by summing the benchmark-level counts. A Summary is computed
// once from a set of results and is not modified afterwards; the
// Format functions only render it.
package schedstat

import (
	"github.com/aclements/go-moremath/stats"

	"golang.org/x/schedperf/schedfmt"
)

// A Collection is an ordered set of benchmark results.
type Collection struct {
	// Results are in the order benchmarks were first added.
	Results []*schedfmt.Result

	index map[string]int
}

// Add adds r to c. If c already holds a result with the same name,
// r replaces it in place.
func (c *Collection) Add(r *schedfmt.Result) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[r.Name]; ok {
		c.Results[i] = r
		return
	}
	c.index[r.Name] = len(c.Results)
	c.Results = append(c.Results, r)
}

// Summary summarizes the results in c.
func (c *Collection) Summary() *Summary {
	return Summarize(c.Results)
}

// A Summary holds per-benchmark statistics and their grand totals.
type Summary struct {
	Benchmarks []*Benchmark

	// Time is the total elapsed seconds of all benchmarks.
	Time int
	// SpillTotal is the total spill count of all benchmarks.
	SpillTotal int
	// Blocks is the sum of the block statistics of all benchmarks.
	Blocks BlockStats
}

// A Benchmark holds the statistics of one benchmark.
type Benchmark struct {
	Name string
	Time int

	Spills     []schedfmt.FunctionSpills
	SpillTotal int

	Blocks BlockStats

	// FunctionPressure lists the excess pressure sums of each
	// function that reported any pressure.
	FunctionPressure []FunctionSums
	// PressureSums sums FunctionPressure per register set.
	PressureSums []schedfmt.SetExcess

	// Warnings are the parse warnings of the underlying result.
	Warnings []error
}

// A FunctionSums is the excess pressure of one function summed per
// register set over all its blocks.
type FunctionSums struct {
	Function string
	Sums     []schedfmt.SetExcess
}

// BlockStats are the counts, sums and distributions derived from a
// set of blocks.
//
// The four enumerated classes partition Enumerated: a block is
// optimal or not, and improved (Improvement > 0) or not.
type BlockStats struct {
	Count      int // all parsed blocks
	Successful int
	Enumerated int

	OptimalImproved       int
	OptimalNotImproved    int
	NonOptimalImproved    int
	NonOptimalNotImproved int

	// HeuristicCost is the summed list cost of successful blocks.
	HeuristicCost int
	// Improvement is the summed improvement of enumerated blocks.
	Improvement int
	// RegionSpills is the summed region spill count of successful
	// blocks.
	RegionSpills int

	Sizes           Dist // successful blocks
	EnumeratedSizes Dist
	OptimalSizes    Dist
	ImprovedSizes   Dist
	TimedOutSizes   Dist // enumerated but not optimal
	OptimalTimes    Dist // milliseconds
}

// BBCost returns the total cost after enumeration.
func (s *BlockStats) BBCost() int {
	return s.HeuristicCost - s.Improvement
}

// add folds o into s.
func (s *BlockStats) add(o *BlockStats) {
	s.Count += o.Count
	s.Successful += o.Successful
	s.Enumerated += o.Enumerated
	s.OptimalImproved += o.OptimalImproved
	s.OptimalNotImproved += o.OptimalNotImproved
	s.NonOptimalImproved += o.NonOptimalImproved
	s.NonOptimalNotImproved += o.NonOptimalNotImproved
	s.HeuristicCost += o.HeuristicCost
	s.Improvement += o.Improvement
	s.RegionSpills += o.RegionSpills
	s.Sizes = s.Sizes.merge(o.Sizes)
	s.EnumeratedSizes = s.EnumeratedSizes.merge(o.EnumeratedSizes)
	s.OptimalSizes = s.OptimalSizes.merge(o.OptimalSizes)
	s.ImprovedSizes = s.ImprovedSizes.merge(o.ImprovedSizes)
	s.TimedOutSizes = s.TimedOutSizes.merge(o.TimedOutSizes)
	s.OptimalTimes = s.OptimalTimes.merge(o.OptimalTimes)
}

// A Dist summarizes a distribution of non-negative integers. The
// zero Dist is empty.
type Dist struct {
	N        int
	Sum      float64
	Min, Max float64
}

func newDist(xs []float64) Dist {
	if len(xs) == 0 {
		return Dist{}
	}
	lo, hi := stats.Bounds(xs)
	return Dist{N: len(xs), Sum: stats.Sample{Xs: xs}.Sum(), Min: lo, Max: hi}
}

// Mean returns the mean of d, or 0 if d is empty.
func (d Dist) Mean() float64 {
	if d.N == 0 {
		return 0
	}
	return d.Sum / float64(d.N)
}

func (d Dist) merge(o Dist) Dist {
	switch {
	case o.N == 0:
		return d
	case d.N == 0:
		return o
	}
	return Dist{
		N:   d.N + o.N,
		Sum: d.Sum + o.Sum,
		Min: min(d.Min, o.Min),
		Max: max(d.Max, o.Max),
	}
}

// Pct returns 100*num/den, or 0 if den is 0.
func Pct(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(100*num) / float64(den)
}

// Summarize computes the statistics of results, keeping their order.
func Summarize(results []*schedfmt.Result) *Summary {
	s := new(Summary)
	for _, r := range results {
		b := summarizeBenchmark(r)
		s.Benchmarks = append(s.Benchmarks, b)
		s.Time += b.Time
		s.SpillTotal += b.SpillTotal
		s.Blocks.add(&b.Blocks)
	}
	return s
}

func summarizeBenchmark(r *schedfmt.Result) *Benchmark {
	b := &Benchmark{
		Name:       r.Name,
		Time:       r.Time,
		Spills:     r.Spills,
		SpillTotal: r.SpillTotal(),
		Blocks:     BlockStatsOf(r.Blocks),
		Warnings:   r.Warnings,
	}
	b.FunctionPressure, b.PressureSums = pressureSums(r.Pressure)
	return b
}

// BlockStatsOf computes the statistics of blocks.
func BlockStatsOf(blocks []schedfmt.Block) BlockStats {
	var s BlockStats
	var sizes, enumSizes, optSizes, impSizes, timedOutSizes, optTimes []float64
	for i := range blocks {
		blk := &blocks[i]
		s.Count++
		if !blk.Success() {
			continue
		}
		s.Successful++
		s.HeuristicCost += blk.ListCost
		s.RegionSpills += blk.RegionSpills
		sizes = append(sizes, float64(blk.Size))
		if !blk.IsEnumerated() {
			continue
		}
		s.Enumerated++
		s.Improvement += blk.Improvement
		enumSizes = append(enumSizes, float64(blk.Size))
		improved := blk.Improvement > 0
		if improved {
			impSizes = append(impSizes, float64(blk.Size))
		}
		if blk.IsOptimal() {
			optSizes = append(optSizes, float64(blk.Size))
			optTimes = append(optTimes, float64(blk.Time))
			if improved {
				s.OptimalImproved++
			} else {
				s.OptimalNotImproved++
			}
		} else {
			timedOutSizes = append(timedOutSizes, float64(blk.Size))
			if improved {
				s.NonOptimalImproved++
			} else {
				s.NonOptimalNotImproved++
			}
		}
	}
	s.Sizes = newDist(sizes)
	s.EnumeratedSizes = newDist(enumSizes)
	s.OptimalSizes = newDist(optSizes)
	s.ImprovedSizes = newDist(impSizes)
	s.TimedOutSizes = newDist(timedOutSizes)
	s.OptimalTimes = newDist(optTimes)
	return s
}

// pressureSums sums excess pressure per register set, first per
// function and then over all functions. Functions without any
// pressure entries are omitted. Register sets keep the order in
// which they were first seen.
func pressureSums(funcs []schedfmt.FunctionPressure) ([]FunctionSums, []schedfmt.SetExcess) {
	var fsums []FunctionSums
	var total setSums
	for _, f := range funcs {
		var sums setSums
		for _, blk := range f.Blocks {
			for _, se := range blk.Sets {
				sums.add(se)
			}
		}
		if len(sums.list) == 0 {
			continue
		}
		fsums = append(fsums, FunctionSums{f.Function, sums.list})
		for _, se := range sums.list {
			total.add(se)
		}
	}
	return fsums, total.list
}

// setSums accumulates SetExcess values by set name.
type setSums struct {
	list  []schedfmt.SetExcess
	index map[string]int
}

func (s *setSums) add(se schedfmt.SetExcess) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[se.Set]; ok {
		s.list[i].Excess += se.Excess
		return
	}
	s.index[se.Set] = len(s.list)
	s.list = append(s.list, se)
}
