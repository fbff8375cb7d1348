// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runspec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"text/template"
	"time"
)

// A Runner builds one benchmark and returns the console output of
// the build.
type Runner interface {
	Run(ctx context.Context, bench string) ([]byte, error)
}

// Default commands, rendered with a CommandData.
const (
	DefaultBuild = "runspec --loose -size=ref -iterations=1 -config={{.Config}} --tune=base -r 1 -I -a build {{.Benchmark}}"
	DefaultScrub = "runspec --loose -size=ref -iterations=1 -config={{.Config}} --tune=base -r 1 -I -a scrub {{.Benchmark}}"
)

// CommandData is the data a command template is executed with.
type CommandData struct {
	Config    string // runspec config file
	Benchmark string
}

// ParseCommand parses a command template.
func ParseCommand(name, text string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing %s command: %w", name, err)
	}
	return t, nil
}

// A Shell runs a benchmark by feeding a script to a shell on its
// standard input. The script is the Setup lines followed by each of
// Commands rendered for the benchmark.
//
// The exit status of the shell is ignored: a build that fails
// still prints output worth parsing.
type Shell struct {
	Path     string // "/bin/bash" if empty
	Dir      string // working directory; the current directory if empty
	Setup    []string
	Commands []*template.Template
	Config   string

	// Stderr receives the shell's standard error. If nil, it is
	// discarded.
	Stderr io.Writer
}

// NewShell returns a Shell that sources shrc and then builds and
// scrubs a benchmark using the runspec config file config.
func NewShell(config string) *Shell {
	return &Shell{
		Path:  "/bin/bash",
		Setup: []string{"source shrc"},
		Commands: []*template.Template{
			template.Must(ParseCommand("build", DefaultBuild)),
			template.Must(ParseCommand("scrub", DefaultScrub)),
		},
		Config: config,
	}
}

// Script returns the script Run feeds to the shell for bench.
func (s *Shell) Script(bench string) (string, error) {
	var buf strings.Builder
	for _, line := range s.Setup {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	data := CommandData{Config: s.Config, Benchmark: bench}
	for _, t := range s.Commands {
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
		buf.WriteByte('\n')
	}
	return buf.String(), nil
}

// Run implements Runner.
func (s *Shell) Run(ctx context.Context, bench string) ([]byte, error) {
	script, err := s.Script(bench)
	if err != nil {
		return nil, err
	}
	path := s.Path
	if path == "" {
		path = "/bin/bash"
	}
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, path)
	cmd.Dir = s.Dir
	cmd.Stdin = strings.NewReader(script)
	cmd.Stdout = &out
	cmd.Stderr = s.Stderr
	// Children of the shell may hold stdout open after it is killed.
	cmd.WaitDelay = 5 * time.Second
	err = cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%s: %w", bench, ctx.Err())
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("%s: %w", bench, err)
	}
	return out.Bytes(), nil
}
