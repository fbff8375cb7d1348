// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0666))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSettings(t, `
bench: INT
testruns: 3
writelogs: true
timeout: 90m
reports:
  regp: regp.dat
  times: ""
shell:
  setup: [source shrc, ulimit -s unlimited]
db:
  dsn: results.db
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "INT", c.Bench)
	assert.Equal(t, 3, c.TestRuns)
	assert.True(t, c.WriteLogs)
	assert.Equal(t, 90*time.Minute, c.Timeout)
	assert.Equal(t, "regp.dat", c.Reports.Regp)
	assert.Empty(t, c.Reports.Times)
	assert.Equal(t, []string{"source shrc", "ulimit -s unlimited"}, c.Shell.Setup)
	assert.Equal(t, "results.db", c.DB.DSN)

	// Keys that are not mentioned keep their defaults.
	def := Default()
	assert.Equal(t, def.SpecConfig, c.SpecConfig)
	assert.Equal(t, def.Reports.Spills, c.Reports.Spills)
	assert.Equal(t, def.Shell.Build, c.Shell.Build)
	assert.Equal(t, "sqlite3", c.DB.Driver)
}

func TestLoadEmpty(t *testing.T) {
	c, err := Load(writeSettings(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadErrors(t *testing.T) {
	for name, data := range map[string]string{
		"unknown key": "benchmarks: ALL\n",
		"bad type":    "testruns: many\n",
		"negative":    "testruns: -1\n",
		"bad timeout": "timeout: -5s\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeSettings(t, data))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewShell(t *testing.T) {
	c := Default()
	c.SpecConfig = "my.cfg"
	s, err := c.NewShell()
	require.NoError(t, err)
	script, err := s.Script("mcf")
	require.NoError(t, err)
	assert.Contains(t, script, "source shrc\n")
	assert.Contains(t, script, "-config=my.cfg --tune=base -r 1 -I -a build mcf\n")
	assert.Contains(t, script, "-a scrub mcf\n")

	// An empty command is left out.
	c.Shell.Scrub = ""
	s, err = c.NewShell()
	require.NoError(t, err)
	assert.Len(t, s.Commands, 1)

	c.Shell.Build = "{{.Config"
	_, err = c.NewShell()
	assert.Error(t, err)
}
