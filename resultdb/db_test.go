// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultdb_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/schedperf/resultdb/dbtest"
	"golang.org/x/schedperf/schedfmt"
)

func parseTestdata(t *testing.T, names ...string) []*schedfmt.Result {
	t.Helper()
	var results []*schedfmt.Result
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join("..", "schedstat", "testdata", name+".log"))
		require.NoError(t, err)
		r, err := schedfmt.ParseResult(name, data, schedfmt.Options{})
		require.NoError(t, err)
		results = append(results, r)
	}
	return results
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDB(t)

	want := parseTestdata(t, "bzip2", "mcf", "gobmk")
	run, err := db.NewRun(ctx, "baseline")
	require.NoError(t, err)
	for _, r := range want {
		require.NoError(t, run.InsertResult(ctx, r))
	}

	label, got, err := db.LoadRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "baseline", label)
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(schedfmt.Result{}, "Warnings"), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("loaded results differ (-stored +loaded):\n%s", diff)
	}
}

func TestRunIDs(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDB(t)

	results := parseTestdata(t, "mcf")
	var ids []int64
	for _, label := range []string{"a", "b"} {
		run, err := db.NewRun(ctx, label)
		require.NoError(t, err)
		require.NoError(t, run.InsertResult(ctx, results[0]))
		ids = append(ids, run.ID)
	}
	assert.NotEqual(t, ids[0], ids[1])

	n, err := db.CountRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Each run sees only its own benchmarks.
	label, got, err := db.LoadRun(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, "b", label)
	require.Len(t, got, 1)
	assert.Equal(t, "mcf", got[0].Name)
}

func TestEmptyPressureBlock(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDB(t)

	r := &schedfmt.Result{
		Name: "p",
		Pressure: []schedfmt.FunctionPressure{
			{Function: "f", Blocks: []schedfmt.BlockPressure{
				{Block: "BB0"},
				{Block: "BB1", Sets: []schedfmt.SetExcess{{Set: "GR32", Excess: 2}}},
				// A repeated block name is still a separate block.
				{Block: "BB1", Sets: []schedfmt.SetExcess{{Set: "GR32", Excess: 0}, {Set: "FR64", Excess: 1}}},
			}},
		},
	}
	run, err := db.NewRun(ctx, "")
	require.NoError(t, err)
	require.NoError(t, run.InsertResult(ctx, r))

	_, got, err := db.LoadRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	if diff := cmp.Diff(r.Pressure, got[0].Pressure); diff != "" {
		t.Errorf("pressure mismatch (-stored +loaded):\n%s", diff)
	}
}

func TestLoadMissingRun(t *testing.T) {
	db := dbtest.NewDB(t)
	_, _, err := db.LoadRun(context.Background(), 42)
	assert.Error(t, err)
}
