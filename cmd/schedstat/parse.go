// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"golang.org/x/schedperf/internal/config"
	"golang.org/x/schedperf/schedfmt"
	"golang.org/x/schedperf/schedstat"
)

func newParseCmd() *cobra.Command {
	cfg := config.Default()
	var settings, label string
	cmd := &cobra.Command{
		Use:   "parse log...",
		Short: "Summarize saved build logs, one benchmark per log",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if settings != "" {
				if err := loadSettings(cmd, &cfg, settings); err != nil {
					return err
				}
			}
			c, err := parseLogs(cmd.ErrOrStderr(), args, schedfmt.Options{StrictBlocks: cfg.StrictBlocks})
			if err != nil {
				return err
			}
			if err := writeOutputs(cmd.OutOrStdout(), c.Summary(), reports(&cfg, asIs), cfg.Chart); err != nil {
				return err
			}
			if cfg.DB.DSN != "" {
				id, err := archive(cmd.Context(), &cfg, label, c.Results)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "archived as run %d\n", id)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&cfg.StrictBlocks, "strict-blocks", cfg.StrictBlocks, "drop a benchmark if any of its blocks cannot be parsed")
	addReportFlags(f, &cfg)
	addDBFlags(f, &cfg)
	f.StringVar(&label, "label", "", "`label` of the archived run")
	f.StringVar(&settings, "settings", "", "read settings from the YAML `file`; flags override it")
	return cmd
}

// parseLogs parses each log as one benchmark named after the file.
func parseLogs(stderr io.Writer, paths []string, opts schedfmt.Options) (*schedstat.Collection, error) {
	c := new(schedstat.Collection)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		r, err := schedfmt.ParseResult(name, data, opts)
		if err != nil {
			warnErr(stderr, name, err)
			continue
		}
		warnResult(stderr, r)
		c.Add(r)
	}
	return c, nil
}
