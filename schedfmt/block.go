// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedfmt

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// An Outcome classifies how the scheduler handled one block.
type Outcome int

const (
	// Failed means list scheduling failed or the scheduler fell
	// back because of a register-pressure mismatch.
	Failed Outcome = iota
	// HeuristicOnly means the list schedule was used without
	// enumeration, either because it was already provably optimal
	// or because enumeration had a zero time budget.
	HeuristicOnly
	// EnumeratedSuboptimal means enumeration ran but did not prove
	// optimality before it gave up.
	EnumeratedSuboptimal
	// EnumeratedOptimal means enumeration ran and solved the block
	// optimally.
	EnumeratedOptimal
)

var outcomeNames = [...]string{
	Failed:               "failed",
	HeuristicOnly:        "heuristic",
	EnumeratedSuboptimal: "enumerated",
	EnumeratedOptimal:    "optimal",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	for o, name := range outcomeNames {
		if name == s {
			return Outcome(o), nil
		}
	}
	return 0, fmt.Errorf("unknown block outcome %q", s)
}

// Success reports whether the block was scheduled at all.
func (o Outcome) Success() bool { return o != Failed }

// IsEnumerated reports whether enumeration ran on the block.
func (o Outcome) IsEnumerated() bool {
	return o == EnumeratedSuboptimal || o == EnumeratedOptimal
}

// IsOptimal reports whether enumeration proved the schedule optimal.
func (o Outcome) IsOptimal() bool { return o == EnumeratedOptimal }

// A Block is the record of one scheduling attempt for one
// scheduling region.
//
// The success, enumerated and optimal flags are derived from
// Outcome, so an optimal block is always enumerated and
// an enumerated block is always successful.
type Block struct {
	Name string
	Size int // instructions in the region

	Outcome Outcome

	// Time is the scheduling time in milliseconds. It is 0 for
	// failed blocks.
	Time int

	// ListCost is the cost of the heuristic schedule. It is 0 for
	// failed blocks.
	ListCost int

	// Improvement is the cost reduction found by enumeration. It
	// is 0 unless the block was enumerated.
	Improvement int

	// RegionSpills is the spill count reported by the region-local
	// register allocator, or 0 if it reported nothing.
	RegionSpills int
}

// NewBlock returns a Block with the given fields, zeroing fields
// that are meaningless for the outcome. It returns an error for
// negative quantities.
func NewBlock(name string, size int, o Outcome, time, listCost, improvement, regionSpills int) (Block, error) {
	if o < Failed || o > EnumeratedOptimal {
		return Block{}, fmt.Errorf("block %s: invalid outcome %d", name, int(o))
	}
	for _, f := range []struct {
		what string
		v    int
	}{
		{"size", size}, {"time", time}, {"list cost", listCost},
		{"improvement", improvement}, {"region spills", regionSpills},
	} {
		if f.v < 0 {
			return Block{}, fmt.Errorf("block %s: negative %s %d", name, f.what, f.v)
		}
	}
	b := Block{Name: name, Size: size, Outcome: o, RegionSpills: regionSpills}
	if o.Success() {
		b.Time, b.ListCost = time, listCost
	}
	if o.IsEnumerated() {
		b.Improvement = improvement
	}
	return b, nil
}

// Success, IsEnumerated and IsOptimal forward to b.Outcome.
func (b *Block) Success() bool      { return b.Outcome.Success() }
func (b *Block) IsEnumerated() bool { return b.Outcome.IsEnumerated() }
func (b *Block) IsOptimal() bool    { return b.Outcome.IsOptimal() }

// A BlockError reports a block whose required markers are missing.
// It is not fatal: the block is left out of the results and parsing
// continues with the next block.
type BlockError struct {
	// Index is the 1-based position of the block in the output.
	Index int
	// Context holds the first raw lines of the block, for
	// diagnostics.
	Context []string
	Err     error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("could not parse block #%d: %v", e.Index, e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }

// maxContextLines bounds BlockError.Context.
const maxContextLines = 10

// ParseBlocks splits output into scheduling blocks and classifies
// each one. Blocks that cannot be classified are reported in errs
// and omitted from blocks.
func ParseBlocks(output string) (blocks []Block, errs []*BlockError) {
	segments := strings.Split(output, blockMarker)
	for i, seg := range segments[1:] {
		b, err := parseBlock(infoText(seg))
		if err != nil {
			errs = append(errs, &BlockError{Index: i + 1, Context: blockContext(seg), Err: err})
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks, errs
}

// infoText keeps only the informational lines of seg, with their
// tag stripped.
func infoText(seg string) string {
	var lines []string
	for _, line := range strings.Split(seg, "\n") {
		if !strings.HasPrefix(line, infoPrefix) {
			continue
		}
		// The tag is followed by one separator byte.
		if len(line) > len(infoPrefix)+1 {
			line = line[len(infoPrefix)+1:]
		} else {
			line = ""
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// blockContext returns the lines of seg after the marker line,
// excluding the trailing partial line.
func blockContext(seg string) []string {
	lines := strings.Split(seg, "\n")
	if len(lines) < 2 {
		return nil
	}
	lines = lines[1 : len(lines)-1]
	if len(lines) > maxContextLines {
		lines = lines[:maxContextLines]
	}
	return lines
}

var (
	errNoName     = errors.New("missing region name and size")
	errNoStart    = errors.New("missing start time")
	errNoEnd      = errors.New("missing end time")
	errNoCost     = errors.New("missing list schedule cost")
	errNegElapsed = errors.New("end time precedes start time")
)

func parseBlock(text string) (Block, error) {
	m := nameAndSizeRE.FindStringSubmatch(text)
	if m == nil {
		return Block{}, errNoName
	}
	name := m[1]
	size, err := strconv.Atoi(m[2])
	if err != nil {
		return Block{}, fmt.Errorf("parsing size: %w", err)
	}

	regionSpills, _, err := intMatch(regionSpillsRE, text, 2)
	if err != nil {
		return Block{}, fmt.Errorf("parsing region spills: %w", err)
	}

	if listFailedRE.MatchString(text) || rpMismatchRE.MatchString(text) {
		return NewBlock(name, size, Failed, 0, 0, 0, regionSpills)
	}

	start, ok, err := intMatch(startTimeRE, text, 1)
	if err != nil || !ok {
		return Block{}, orMissing(err, errNoStart)
	}
	end, ok, err := intMatch(endTimeRE, text, 1)
	if err != nil || !ok {
		return Block{}, orMissing(err, errNoEnd)
	}
	if end < start {
		return Block{}, errNegElapsed
	}
	listCost, ok, err := intMatch(listCostRE, text, 1)
	if err != nil || !ok {
		return Block{}, orMissing(err, errNoCost)
	}

	outcome := HeuristicOnly
	improvement := 0
	if !heuristicOptRE.MatchString(text) && !zeroTimeLimitRE.MatchString(text) {
		outcome = EnumeratedSuboptimal
		if solvedOptRE.MatchString(text) {
			outcome = EnumeratedOptimal
		}
		// No improvement line means enumeration found nothing
		// better than the list schedule.
		improvement, _, err = intMatch(improvementRE, text, 1)
		if err != nil {
			return Block{}, fmt.Errorf("parsing improvement: %w", err)
		}
	}
	return NewBlock(name, size, outcome, end-start, listCost, improvement, regionSpills)
}

// intMatch returns submatch group of the first match of re in text
// as an integer. ok is false if re does not match.
func intMatch(re *regexp.Regexp, text string, group int) (v int, ok bool, err error) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false, nil
	}
	v, err = strconv.Atoi(m[group])
	return v, err == nil, err
}

func orMissing(err, missing error) error {
	if err != nil {
		return err
	}
	return missing
}
