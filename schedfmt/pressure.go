// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedfmt

import (
	"strconv"
	"strings"
)

// A SetExcess is the peak register pressure of one register set in
// excess of that set's limit. Excess is never negative.
type SetExcess struct {
	Set    string
	Excess int
}

// A BlockPressure lists the excess pressure of each register set
// reported after scheduling one block. Sets may be empty.
type BlockPressure struct {
	Block string
	Sets  []SetExcess
}

// A FunctionPressure collects the BlockPressures of one function,
// in the order the blocks were scheduled.
type FunctionPressure struct {
	Function string
	Blocks   []BlockPressure
}

// ParsePressure extracts the peak register pressure reported after
// each scheduling attempt in output and groups it by function.
// Functions appear in the order they are first seen.
func ParsePressure(output string) []FunctionPressure {
	var funcs []FunctionPressure
	index := make(map[string]int)
	for _, seg := range strings.Split(output, attemptMarker)[1:] {
		m := pressureBlockRE.FindStringSubmatch(seg)
		if m == nil {
			// The attempt never got as far as reporting
			// pressure.
			continue
		}
		fields := strings.Split(m[1], ":")
		if len(fields) < 2 {
			continue
		}
		fn, block := fields[0], fields[1]

		bp := BlockPressure{Block: block}
		for _, pm := range peakPressureRE.FindAllStringSubmatch(seg, -1) {
			peak, err1 := strconv.Atoi(pm[3])
			limit, err2 := strconv.Atoi(pm[4])
			if err1 != nil || err2 != nil {
				continue
			}
			bp.Sets = append(bp.Sets, SetExcess{Set: pm[2], Excess: max(0, peak-limit)})
		}

		i, ok := index[fn]
		if !ok {
			i = len(funcs)
			index[fn] = i
			funcs = append(funcs, FunctionPressure{Function: fn})
		}
		funcs[i].Blocks = append(funcs[i].Blocks, bp)
	}
	return funcs
}
