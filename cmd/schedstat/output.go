// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gonum.org/v1/plot/vg"

	"golang.org/x/schedperf/internal/config"
	"golang.org/x/schedperf/resultdb"
	_ "golang.org/x/schedperf/resultdb/sqlite3"
	"golang.org/x/schedperf/schedchart"
	"golang.org/x/schedperf/schedfmt"
	"golang.org/x/schedperf/schedstat"
)

func warnf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "WARNING: "+format+"\n", args...)
}

// warnErr prints err, followed by the raw lines of the block for
// block errors.
func warnErr(w io.Writer, bench string, err error) {
	warnf(w, "%s: %v", bench, err)
	var be *schedfmt.BlockError
	if errors.As(err, &be) {
		for _, line := range be.Context {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}

func warnResult(w io.Writer, r *schedfmt.Result) {
	for _, err := range r.Warnings {
		warnErr(w, r.Name, err)
	}
}

// addReportFlags adds the flags naming the report files.
func addReportFlags(f *pflag.FlagSet, cfg *config.Config) {
	f.StringVarP(&cfg.Reports.Spills, "spills", "s", cfg.Reports.Spills, "write spill counts to `file`")
	f.StringVarP(&cfg.Reports.Times, "times", "t", cfg.Reports.Times, "write compile times to `file`")
	f.StringVarP(&cfg.Reports.Blocks, "blocks", "k", cfg.Reports.Blocks, "write block statistics to `file`")
	f.StringVarP(&cfg.Reports.Regp, "regp", "r", cfg.Reports.Regp, "write register pressure statistics to `file`")
	f.StringVar(&cfg.Chart, "chart", cfg.Chart, "draw block outcomes to the image `file` (.png, .svg or .pdf)")
}

func addDBFlags(f *pflag.FlagSet, cfg *config.Config) {
	f.StringVar(&cfg.DB.Driver, "db-driver", cfg.DB.Driver, "database `driver`: sqlite3 or mysql")
	f.StringVar(&cfg.DB.DSN, "db", cfg.DB.DSN, "archive results in the database `dsn`")
}

// loadSettings replaces cfg with the settings file at path. Flags
// given on the command line keep their values.
func loadSettings(cmd *cobra.Command, cfg *config.Config, path string) error {
	changed := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name != "settings" {
			changed[f.Name] = f.Value.String()
		}
	})
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	*cfg = c
	for name, v := range changed {
		if err := cmd.Flags().Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

// reports returns the report files of cfg, mapped through path.
func reports(cfg *config.Config, path func(string) string) schedstat.Reports {
	return schedstat.Reports{
		Spills:   path(cfg.Reports.Spills),
		Times:    path(cfg.Reports.Times),
		Blocks:   path(cfg.Reports.Blocks),
		Pressure: path(cfg.Reports.Regp),
	}
}

func asIs(name string) string { return name }

// writeOutputs writes the reports and chart for s and prints a
// summary table to stdout.
func writeOutputs(stdout io.Writer, s *schedstat.Summary, r schedstat.Reports, chart string) error {
	if err := r.Write(s); err != nil {
		return err
	}
	if chart != "" && len(s.Benchmarks) > 0 {
		if err := schedchart.Outcomes(s, chart, 8*vg.Inch, 5*vg.Inch); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	schedstat.FormatSummary(&buf, s)
	_, err := stdout.Write(buf.Bytes())
	return err
}

// archive stores results as a new run and returns its ID.
func archive(ctx context.Context, cfg *config.Config, label string, results []*schedfmt.Result) (int64, error) {
	db, err := resultdb.OpenSQL(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return 0, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	run, err := db.NewRun(ctx, label)
	if err != nil {
		return 0, err
	}
	for _, r := range results {
		if err := run.InsertResult(ctx, r); err != nil {
			return 0, fmt.Errorf("archiving %s: %w", r.Name, err)
		}
	}
	return run.ID, nil
}
