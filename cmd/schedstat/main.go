// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Schedstat builds SPEC CPU2006 benchmarks with the OptSched
// instruction scheduler enabled and summarizes what the scheduler
// did: per-benchmark compile times, register allocator spills,
// scheduling block statistics and register pressure.
//
// Usage:
//
//	schedstat run [flags]
//	schedstat parse [flags] log...
//	schedstat report --db dsn --run id [flags]
//
// The run command performs one or more test runs. Test run N uses
// the scheduler configuration in the ini directory whose file name
// starts with "N.", for example "0.baseline.ini", and writes its
// reports to a directory named after the part of the file name
// between the dots. Raw build logs are kept with -w.
//
// The parse command summarizes previously saved build logs, each of
// which holds the output of one benchmark.
//
// The report command regenerates reports from a run archived with
// --db.
//
// Problems that do not stop the run, such as benchmarks that could
// not be built or blocks that could not be parsed, are printed to
// standard error as warnings. Schedstat exits with status 0 unless
// its arguments are invalid or a report cannot be written.
package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	log.SetPrefix("schedstat: ")
	log.SetFlags(0)

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "schedstat",
		Short:         "Collect instruction scheduling statistics from SPEC CPU2006 builds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newRunCmd(), newParseCmd(), newReportCmd())
	return root
}
