// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runspec builds SPEC CPU2006 benchmarks with the runspec
// driver and lays out the directories of an experiment.
package runspec

import (
	"strings"

	"github.com/samber/lo"
)

// IntBenchmarks is the integer suite.
var IntBenchmarks = []string{
	"perlbench",
	"bzip2",
	"gcc",
	"mcf",
	"gobmk",
	"hmmer",
	"sjeng",
	"libquantum",
	"h264ref",
	"omnetpp",
	"astar",
	"xalancbmk",
}

// FPBenchmarks is the floating point suite.
var FPBenchmarks = []string{
	"bwaves",
	"gamess",
	"milc",
	"zeusmp",
	"gromacs",
	"cactus",
	"leslie",
	"namd",
	"dealII",
	"soplex",
	"povray",
	"calculix",
	"Gems",
	"tonto",
	"lbm",
	"wrf",
	"sphinx",
}

// AllBenchmarks is IntBenchmarks followed by FPBenchmarks.
var AllBenchmarks = lo.Flatten([][]string{IntBenchmarks, FPBenchmarks})

// Select returns the benchmarks named by spec, which is "ALL",
// "INT", "FP" or a comma-separated list of benchmark names.
// Listed names are returned in order with duplicates removed.
// Names that are not in AllBenchmarks are returned in unknown as
// well; the caller decides whether to run them.
func Select(spec string) (benches, unknown []string) {
	switch spec {
	case "ALL":
		return append([]string(nil), AllBenchmarks...), nil
	case "INT":
		return append([]string(nil), IntBenchmarks...), nil
	case "FP":
		return append([]string(nil), FPBenchmarks...), nil
	}
	names := lo.Map(strings.Split(spec, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	benches = lo.Uniq(lo.Compact(names))
	unknown = lo.Filter(benches, func(b string, _ int) bool {
		return !lo.Contains(AllBenchmarks, b)
	})
	return benches, unknown
}
