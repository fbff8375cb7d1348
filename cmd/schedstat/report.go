// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"golang.org/x/schedperf/internal/config"
	"golang.org/x/schedperf/resultdb"
	"golang.org/x/schedperf/schedstat"
)

func newReportCmd() *cobra.Command {
	cfg := config.Default()
	var id int64
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the reports of an archived run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := resultdb.OpenSQL(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()
			label, results, err := db.LoadRun(cmd.Context(), id)
			if err != nil {
				return err
			}
			var c schedstat.Collection
			for _, r := range results {
				c.Add(r)
			}
			if label != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "run %d: %s\n", id, label)
			}
			return writeOutputs(cmd.OutOrStdout(), c.Summary(), reports(&cfg, asIs), cfg.Chart)
		},
	}
	f := cmd.Flags()
	addReportFlags(f, &cfg)
	addDBFlags(f, &cfg)
	f.Int64Var(&id, "run", 0, "archived run `id`")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("run")
	return cmd
}
