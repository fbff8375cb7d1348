// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runspec

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// An Experiment is a series of test runs, each of which may use its
// own scheduler configuration.
//
// Test run N uses the first file in IniDir whose name starts with
// "N.", for example "0.baseline.ini". The part of the name after
// the first dot up to the next one labels the run. The file is
// copied to CfgDir/sched.ini, where the scheduler reads it, and the
// run's results are written to OutDir/<label>. A run without an ini
// file uses the configuration already in CfgDir and writes its
// results to OutDir itself.
type Experiment struct {
	OutDir    string
	IniDir    string
	CfgDir    string
	WriteLogs bool
}

// A Trial is one prepared test run.
type Trial struct {
	Run   int
	Label string // "" if the run has no ini file
	Dir   string // results directory
	Ini   string // ini file used, or ""

	logs bool
}

// LogDir is the name of the directory raw logs are written to,
// relative to the trial directory.
const LogDir = "logs"

// Prepare installs the configuration for test run n and creates its
// results directory.
func (e *Experiment) Prepare(n int) (*Trial, error) {
	t := &Trial{Run: n, Dir: e.OutDir, logs: e.WriteLogs}
	name, err := e.iniFile(n)
	if err != nil {
		return nil, err
	}
	if name != "" {
		t.Ini = filepath.Join(e.IniDir, name)
		t.Label = strings.Split(name, ".")[1]
		t.Dir = filepath.Join(e.OutDir, t.Label)
		if err := copyFile(filepath.Join(e.CfgDir, "sched.ini"), t.Ini); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(t.Dir, 0777); err != nil {
		return nil, err
	}
	if t.Ini != "" {
		if err := copyFile(filepath.Join(t.Dir, filepath.Base(t.Ini)), t.Ini); err != nil {
			return nil, err
		}
	}
	if t.logs {
		if err := os.MkdirAll(filepath.Join(t.Dir, LogDir), 0777); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// iniFile returns the name of the ini file for test run n, or "" if
// there is none. A missing IniDir has no ini files.
func (e *Experiment) iniFile(n int) (string, error) {
	ents, err := os.ReadDir(e.IniDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	prefix := strconv.Itoa(n) + "."
	for _, ent := range ents {
		if !ent.IsDir() && strings.HasPrefix(ent.Name(), prefix) {
			return ent.Name(), nil
		}
	}
	return "", nil
}

func copyFile(dst, src string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0666); err != nil {
		return fmt.Errorf("installing %s: %w", filepath.Base(src), err)
	}
	return nil
}

// Path returns the path of the file name in the trial directory, or
// "" if name is "".
func (t *Trial) Path(name string) string {
	if name == "" {
		return ""
	}
	return filepath.Join(t.Dir, name)
}

// WriteLog saves the raw output of bench if the experiment keeps
// logs.
func (t *Trial) WriteLog(bench string, output []byte) error {
	if !t.logs {
		return nil
	}
	return os.WriteFile(filepath.Join(t.Dir, LogDir, bench+".log"), output, 0666)
}
