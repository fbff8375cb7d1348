// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of a text table with one cell per column.
//
// Row and Cell return the table so calls can be chained.
type Table struct {
	rows [][]cell
	cols int
}

type cell struct {
	value string
	right bool
}

// A CellOption changes how a cell is laid out.
type CellOption func(c *cell)

// Right aligns a cell to the right edge of its column. Cells are
// left aligned by default.
var Right CellOption = func(c *cell) { c.right = true }

// Row starts a new row.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Cell appends a cell to the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	c := cell{value: value}
	for _, o := range opts {
		o(&c)
	}
	row := &t.rows[len(t.rows)-1]
	*row = append(*row, c)
	if len(*row) > t.cols {
		t.cols = len(*row)
	}
	return t
}

// Cellf is Cell with fmt.Sprintf formatting.
func (t *Table) Cellf(format string, args ...interface{}) *Table {
	return t.Cell(fmt.Sprintf(format, args...), Right)
}

// Format lays out t and writes it to w. Columns are separated by two
// spaces and trailing spaces are trimmed.
func (t *Table) Format(w io.Writer) error {
	ws := make([]int, t.cols)
	for _, row := range t.rows {
		for i, c := range row {
			if n := utf8.RuneCountInString(c.value); n > ws[i] {
				ws[i] = n
			}
		}
	}

	var line strings.Builder
	for _, row := range t.rows {
		line.Reset()
		for i, c := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			pad := ws[i] - utf8.RuneCountInString(c.value)
			if c.right {
				line.WriteString(strings.Repeat(" ", pad))
				line.WriteString(c.value)
			} else {
				line.WriteString(c.value)
				line.WriteString(strings.Repeat(" ", pad))
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
