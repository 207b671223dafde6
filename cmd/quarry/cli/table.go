// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// Table renders rows in padded columns. Unlike text/tabwriter it
// measures cells with ANSI-aware widths, so a color-styled status cell
// does not skew the columns around it, and it caps the whole row at the
// terminal width, truncating the widest column first.
type Table struct {
	headers []string
	rows    [][]string

	// maxWidth caps a rendered row. Zero means the terminal width when
	// stdout is a terminal, unlimited otherwise.
	maxWidth int
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends one row. Missing trailing cells render empty; extra
// cells are a programming error and panic.
func (t *Table) AddRow(cells ...string) {
	if len(cells) > len(t.headers) {
		panic(fmt.Sprintf("cli: table row has %d cells for %d columns", len(cells), len(t.headers)))
	}
	t.rows = append(t.rows, cells)
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = ansi.StringWidth(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if width := ansi.StringWidth(cell); width > widths[i] {
				widths[i] = width
			}
		}
	}
	t.fitWidths(widths)

	const separator = "  "
	var line strings.Builder
	writeRow := func(cells []string) {
		line.Reset()
		for i, width := range widths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			cellWidth := ansi.StringWidth(cell)
			if cellWidth > width {
				cell = ansi.Truncate(cell, width, "…")
				cellWidth = ansi.StringWidth(cell)
			}
			if i > 0 {
				line.WriteString(separator)
			}
			line.WriteString(cell)
			// The last column carries no trailing padding.
			if i < len(widths)-1 {
				line.WriteString(strings.Repeat(" ", width-cellWidth))
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	writeRow(t.headers)
	for _, row := range t.rows {
		writeRow(row)
	}
}

// fitWidths shrinks column widths until the row fits the width cap,
// taking from the widest column each round. Columns never shrink below
// their header width, so a pathological cap degrades to truncated
// cells rather than vanishing columns.
func (t *Table) fitWidths(widths []int) {
	limit := t.maxWidth
	if limit == 0 {
		stdout := int(os.Stdout.Fd())
		if !term.IsTerminal(stdout) {
			return
		}
		columns, _, err := term.GetSize(stdout)
		if err != nil || columns <= 0 {
			return
		}
		limit = columns
	}

	total := func() int {
		sum := 0
		for i, width := range widths {
			if i > 0 {
				sum += 2 // separator
			}
			sum += width
		}
		return sum
	}

	for total() > limit {
		widest, at := 0, -1
		for i, width := range widths {
			floor := ansi.StringWidth(t.headers[i])
			if width > floor && width > widest {
				widest, at = width, i
			}
		}
		if at < 0 {
			return
		}
		widths[at]--
	}
}
