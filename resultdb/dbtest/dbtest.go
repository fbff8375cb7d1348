// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest provides an empty result database for tests.
package dbtest

import (
	"context"
	"flag"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"golang.org/x/schedperf/resultdb"
	_ "golang.org/x/schedperf/resultdb/sqlite3"
)

var mysqlDSN = flag.String("mysql", "", "run database tests against the empty MySQL database `dsn` instead of in-memory SQLite")

// NewDB makes a connection to a testing database, either in-memory
// sqlite3 or MySQL depending on the -mysql flag. The database is
// closed when the test finishes.
func NewDB(t *testing.T) *resultdb.DB {
	t.Helper()
	driverName, dataSourceName := "sqlite3", ":memory:"
	if *mysqlDSN != "" {
		driverName, dataSourceName = "mysql", *mysqlDSN
	}
	d, err := resultdb.OpenSQL(driverName, dataSourceName)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	// Make sure the database really is empty.
	runs, err := d.CountRuns(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if runs != 0 {
		t.Fatalf("found %d row(s) in Runs, want 0", runs)
	}
	return d
}
