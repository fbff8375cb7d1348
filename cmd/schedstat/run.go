// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"golang.org/x/schedperf/internal/config"
	"golang.org/x/schedperf/internal/runspec"
	"golang.org/x/schedperf/schedfmt"
	"golang.org/x/schedperf/schedstat"
)

func newRunCmd() *cobra.Command {
	cfg := config.Default()
	var settings string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build benchmarks and write reports for each test run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if settings != "" {
				if err := loadSettings(cmd, &cfg, settings); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			sh, err := cfg.NewShell()
			if err != nil {
				return err
			}
			sh.Stderr = cmd.ErrOrStderr()
			return runExperiment(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), &cfg, sh)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&cfg.Bench, "bench", "b", cfg.Bench, "benchmarks to run: ALL, INT, FP or `name1,name2...`")
	f.IntVarP(&cfg.TestRuns, "testruns", "m", cfg.TestRuns, "`number` of test runs")
	f.StringVarP(&cfg.SpecConfig, "config", "c", cfg.SpecConfig, "runspec config `file`")
	f.StringVarP(&cfg.IniDir, "ini", "i", cfg.IniDir, "`dir`ectory with the sched.ini file of each test run, named 0.name.ini, 1.name.ini...")
	f.StringVarP(&cfg.CfgDir, "cfg", "g", cfg.CfgDir, "OptSchedCfg `dir`ectory the scheduler reads sched.ini from")
	f.StringVarP(&cfg.OutDir, "outdir", "o", cfg.OutDir, "`dir`ectory to write the test results to")
	f.BoolVarP(&cfg.WriteLogs, "writelogs", "w", cfg.WriteLogs, "keep the raw build logs with the results")
	f.BoolVar(&cfg.StrictBlocks, "strict-blocks", cfg.StrictBlocks, "drop a benchmark if any of its blocks cannot be parsed")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "give up on a benchmark build after `duration` (0 means never)")
	addReportFlags(f, &cfg)
	addDBFlags(f, &cfg)
	f.StringVar(&settings, "settings", "", "read settings from the YAML `file`; flags override it")
	return cmd
}

// runExperiment performs cfg.TestRuns test runs of the selected
// benchmarks using runner.
func runExperiment(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, runner runspec.Runner) error {
	benches, unknown := runspec.Select(cfg.Bench)
	for _, b := range unknown {
		warnf(stderr, "unknown benchmark specified: %q", b)
	}
	exp := &runspec.Experiment{
		OutDir:    cfg.OutDir,
		IniDir:    cfg.IniDir,
		CfgDir:    cfg.CfgDir,
		WriteLogs: cfg.WriteLogs,
	}
	if err := os.MkdirAll(cfg.OutDir, 0777); err != nil {
		return err
	}
	opts := schedfmt.Options{StrictBlocks: cfg.StrictBlocks}
	for i := 0; i < cfg.TestRuns; i++ {
		trial, err := exp.Prepare(i)
		if err != nil {
			return fmt.Errorf("test run %d: %w", i, err)
		}
		if trial.Label != "" {
			fmt.Fprintf(stdout, "test run %d: %s\n", i, trial.Label)
		}

		var c schedstat.Collection
		for _, bench := range benches {
			fmt.Fprintf(stderr, "Running %s\n", bench)
			out, err := runBench(ctx, runner, bench, cfg)
			if err != nil {
				warnf(stderr, "benchmark command failed: %v", err)
				continue
			}
			if err := trial.WriteLog(bench, out); err != nil {
				warnf(stderr, "%v", err)
			}
			r, err := schedfmt.ParseResult(bench, out, opts)
			if err != nil {
				warnErr(stderr, bench, err)
				continue
			}
			warnResult(stderr, r)
			c.Add(r)
		}

		if err := writeOutputs(stdout, c.Summary(), reports(cfg, trial.Path), trial.Path(cfg.Chart)); err != nil {
			return err
		}
		if cfg.DB.DSN != "" {
			label := trial.Label
			if label == "" {
				label = strconv.Itoa(i)
			}
			id, err := archive(ctx, cfg, label, c.Results)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "archived as run %d\n", id)
		}
	}
	return nil
}

func runBench(ctx context.Context, runner runspec.Runner, bench string, cfg *config.Config) ([]byte, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	return runner.Run(ctx, bench)
}
