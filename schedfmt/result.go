// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schedfmt parses the console output that the OptSched
// instruction scheduler prints while a benchmark is compiled.
//
// The output is not a format in its own right: it is whatever the
// scheduler, the register allocator and the benchmark driver happen
// to print, interleaved. The parser therefore locates known markers
// and tolerates everything else. Markers that carry optional data
// (improvement, region spills, register pressure) default to zero
// when absent.
//
// A Result gathers everything parsed from the output of one
// benchmark. Problems that affect a single block are recorded as
// warnings rather than failing the whole benchmark.
package schedfmt

import (
	"errors"
	"strconv"
)

// A FunctionSpills is the number of live ranges the greedy register
// allocator spilled in one function.
type FunctionSpills struct {
	Function string
	Count    int
}

// A Result is everything parsed from the output of one benchmark.
type Result struct {
	// Name is the benchmark name.
	Name string

	// Time is the total elapsed time in seconds reported by the
	// benchmark driver.
	Time int

	// Spills lists per-function spill counts in the order the
	// functions were first reported.
	Spills []FunctionSpills

	// Blocks lists the successfully parsed scheduling blocks in
	// output order.
	Blocks []Block

	// Pressure lists per-function register pressure in the order
	// the functions were first reported.
	Pressure []FunctionPressure

	// Warnings lists non-fatal problems found while parsing.
	// Individual unparseable blocks appear here as *BlockError.
	Warnings []error
}

// Options controls ParseResult.
type Options struct {
	// StrictBlocks makes the first unparseable block fail the
	// whole benchmark. By default such blocks are reported in
	// Result.Warnings and skipped.
	StrictBlocks bool
}

// ErrNoElapsedTime is recorded in Result.Warnings when the output
// lacks the driver's total elapsed time.
var ErrNoElapsedTime = errors.New("missing total elapsed time")

// ParseResult parses the output of one benchmark run.
//
// The only error it returns is the first *BlockError when
// opts.StrictBlocks is set.
func ParseResult(name string, output []byte, opts Options) (*Result, error) {
	text := string(output)
	r := &Result{Name: name}

	if t, ok, err := intMatch(elapsedRE, text, 1); ok {
		r.Time = t
	} else if err != nil {
		r.Warnings = append(r.Warnings, err)
	} else {
		r.Warnings = append(r.Warnings, ErrNoElapsedTime)
	}

	r.Spills = ParseSpills(text)

	blocks, errs := ParseBlocks(text)
	if len(errs) > 0 && opts.StrictBlocks {
		return nil, errs[0]
	}
	r.Blocks = blocks
	for _, err := range errs {
		r.Warnings = append(r.Warnings, err)
	}

	r.Pressure = ParsePressure(text)
	return r, nil
}

// ParseSpills extracts the per-function spill counts from output.
// If a function is reported more than once, the last count wins but
// the function keeps its first position.
func ParseSpills(output string) []FunctionSpills {
	var spills []FunctionSpills
	index := make(map[string]int)
	for _, m := range functionSpillsRE.FindAllStringSubmatch(output, -1) {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if i, ok := index[m[1]]; ok {
			spills[i].Count = n
			continue
		}
		index[m[1]] = len(spills)
		spills = append(spills, FunctionSpills{m[1], n})
	}
	return spills
}

// SpillTotal returns the sum of the per-function spill counts.
func (r *Result) SpillTotal() int {
	n := 0
	for _, s := range r.Spills {
		n += s.Count
	}
	return n
}
