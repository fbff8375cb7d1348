// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the settings of the schedstat command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"golang.org/x/schedperf/internal/runspec"
)

// Config is the settings of a run. The YAML keys match the long
// command line flags.
type Config struct {
	Bench    string `yaml:"bench"`
	TestRuns int    `yaml:"testruns"`

	// SpecConfig is the runspec config file.
	SpecConfig string `yaml:"config"`
	IniDir     string `yaml:"ini"`
	CfgDir     string `yaml:"cfg"`
	OutDir     string `yaml:"outdir"`

	WriteLogs    bool `yaml:"writelogs"`
	StrictBlocks bool `yaml:"strict_blocks"`

	// Timeout bounds the build of one benchmark. Zero means no
	// limit.
	Timeout time.Duration `yaml:"timeout"`

	// Report file names, relative to the trial directory. An
	// empty name skips the report.
	Reports struct {
		Spills string `yaml:"spills"`
		Times  string `yaml:"times"`
		Blocks string `yaml:"blocks"`
		Regp   string `yaml:"regp"`
	} `yaml:"reports"`

	// Chart, if set, names an image of block outcomes to draw in
	// each trial directory.
	Chart string `yaml:"chart"`

	Shell struct {
		Path  string   `yaml:"path"`
		Dir   string   `yaml:"dir"`
		Setup []string `yaml:"setup"`
		Build string   `yaml:"build"`
		Scrub string   `yaml:"scrub"`
	} `yaml:"shell"`

	// DB optionally archives results in a database.
	DB struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"db"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	var c Config
	c.Bench = "ALL"
	c.TestRuns = 1
	c.SpecConfig = "Intel_llvm_3.9.cfg"
	c.IniDir = "test_ini"
	c.CfgDir = "OptSchedCfg"
	c.OutDir = "."
	c.Reports.Spills = "spills.dat"
	c.Reports.Times = "times.dat"
	c.Reports.Blocks = "blocks.dat"
	c.Shell.Path = "/bin/bash"
	c.Shell.Setup = []string{"source shrc"}
	c.Shell.Build = runspec.DefaultBuild
	c.Shell.Scrub = runspec.DefaultScrub
	c.DB.Driver = "sqlite3"
	return c
}

// Load reads the YAML settings file at path over Default. Unknown
// keys are an error.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.TestRuns < 0 {
		return fmt.Errorf("testruns must not be negative, got %d", c.TestRuns)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", c.Timeout)
	}
	return nil
}

// NewShell returns the shell runner described by c.
func (c *Config) NewShell() (*runspec.Shell, error) {
	s := &runspec.Shell{
		Path:   c.Shell.Path,
		Dir:    c.Shell.Dir,
		Setup:  c.Shell.Setup,
		Config: c.SpecConfig,
	}
	for _, cmd := range []struct{ name, text string }{
		{"build", c.Shell.Build},
		{"scrub", c.Shell.Scrub},
	} {
		if cmd.text == "" {
			continue
		}
		t, err := runspec.ParseCommand(cmd.name, cmd.text)
		if err != nil {
			return nil, err
		}
		s.Commands = append(s.Commands, t)
	}
	return s, nil
}
