// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedfmt

import "regexp"

// Segment markers. The attempt marker is a suffix of the block
// marker, so every block is also a scheduling attempt.
const (
	blockMarker   = "Opt Scheduling **********"
	attemptMarker = "Scheduling **********"
	infoPrefix    = "INFO:"
)

// Patterns matched against the informational lines of one block.
var (
	nameAndSizeRE   = regexp.MustCompile(`Processing DAG (.*) with (\d+) insts`)
	heuristicOptRE  = regexp.MustCompile(`The list schedule .* is optimal`)
	zeroTimeLimitRE = regexp.MustCompile(`Bypassing optimal scheduling due to zero time limit`)
	solvedOptRE     = regexp.MustCompile(`DAG solved optimally`)
	listCostRE      = regexp.MustCompile(`list schedule is of length \d+ and spill cost \d+. Tot cost = (\d+)`)
	improvementRE   = regexp.MustCompile(`cost imp=(\d+)`)
	startTimeRE     = regexp.MustCompile(`-{20} \(Time = (\d+) ms\)`)
	endTimeRE       = regexp.MustCompile(`verified successfully \(Time = (\d+) ms\)`)
	listFailedRE    = regexp.MustCompile(`List scheduling failed`)
	rpMismatchRE    = regexp.MustCompile(`RP-mismatch falling back!`)
	regionSpillsRE  = regexp.MustCompile(`OPT_SCHED LOCAL RA: DAG Name: (\S+) Number of spills: (\d+) \(Time`)
)

// Patterns matched against one scheduling attempt.
var (
	peakPressureRE  = regexp.MustCompile(`PeakRegPresAfter Index (\d+) Name (.*) Peak (\d+) Limit (\d+)`)
	pressureBlockRE = regexp.MustCompile(`LLVM max pressure after scheduling for BB (\S+)`)
)

// Patterns matched against the whole benchmark output.
var (
	functionSpillsRE = regexp.MustCompile(`Function: (.*?)\nGREEDY RA: Number of spilled live ranges: (\d+)`)
	elapsedRE        = regexp.MustCompile(`(\d+) total seconds elapsed`)
)
