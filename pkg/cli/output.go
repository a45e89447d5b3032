/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/sugawarayuuta/sonnet"
)

// ansiRegex matches ANSI escape sequences for stripping from strings.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// VisibleLen returns the visible length of a string, excluding ANSI escape
// codes and counting runes rather than bytes.
func VisibleLen(s string) int {
	return len([]rune(ansiRegex.ReplaceAllString(s, "")))
}

// PadRight pads a string to the specified visible width.
func PadRight(s string, width int) string {
	visible := VisibleLen(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// PadLeft right-aligns a string within the specified visible width.
func PadLeft(s string, width int) string {
	visible := VisibleLen(s)
	if visible >= width {
		return s
	}
	return strings.Repeat(" ", width-visible) + s
}

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatPlain OutputFormat = "plain"
)

// ParseOutputFormat parses a string into an OutputFormat.
func ParseOutputFormat(s string) OutputFormat {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "plain":
		return FormatPlain
	default:
		return FormatTable
	}
}

// Table renders rows of strings. Numeric looking cells are right-aligned.
type Table struct {
	headers []string
	rows    [][]string
	format  OutputFormat
	footer  bool
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		format:  FormatTable,
		footer:  true,
	}
}

// SetFormat sets the output format.
func (t *Table) SetFormat(format OutputFormat) {
	t.format = format
}

// SetFooter toggles the trailing row count.
func (t *Table) SetFooter(enabled bool) {
	t.footer = enabled
}

// AddRow adds a row to the table.
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
}

// Render writes the table to w in the configured format.
func (t *Table) Render(w io.Writer) error {
	switch t.format {
	case FormatJSON:
		return t.renderJSON(w)
	case FormatPlain:
		return t.renderPlain(w)
	default:
		return t.renderTable(w)
	}
}

// Print renders the table to Stdout.
func (t *Table) Print() error {
	return t.Render(Stdout)
}

func (t *Table) columnWidths() []int {
	numCols := len(t.headers)
	for _, row := range t.rows {
		numCols = max(numCols, len(row))
	}
	widths := make([]int, numCols)
	for i, h := range t.headers {
		widths[i] = max(widths[i], VisibleLen(h))
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], VisibleLen(cell))
		}
	}
	for i := range widths {
		widths[i] = max(widths[i], 3)
	}
	return widths
}

func (t *Table) renderTable(w io.Writer) error {
	if len(t.rows) == 0 {
		_, err := fmt.Fprintln(w, "(no results)")
		return err
	}

	widths := t.columnWidths()
	border := func(left, mid, right string) string {
		parts := make([]string, len(widths))
		for i, width := range widths {
			parts[i] = strings.Repeat("─", width+2)
		}
		return Dimmed(left + strings.Join(parts, mid) + right)
	}
	line := func(cells []string, style func(string) string) string {
		var b strings.Builder
		b.WriteString(Dimmed("│"))
		for i, width := range widths {
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			if isNumeric(val) {
				val = PadLeft(val, width)
			} else {
				val = PadRight(val, width)
			}
			b.WriteString(style(" " + val + " "))
			b.WriteString(Dimmed("│"))
		}
		return b.String()
	}
	plain := func(s string) string { return s }

	var b strings.Builder
	b.WriteString(border("┌", "┬", "┐") + "\n")
	if len(t.headers) > 0 {
		b.WriteString(line(t.headers, Highlight) + "\n")
		b.WriteString(border("├", "┼", "┤") + "\n")
	}
	for _, row := range t.rows {
		b.WriteString(line(row, plain) + "\n")
	}
	b.WriteString(border("└", "┴", "┘") + "\n")
	if t.footer {
		fmt.Fprintf(&b, "(%d rows)\n", len(t.rows))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (t *Table) renderJSON(w io.Writer) error {
	result := make([]map[string]string, len(t.rows))
	for i, row := range t.rows {
		rowMap := make(map[string]string, len(row))
		for j, val := range row {
			if j < len(t.headers) {
				rowMap[t.headers[j]] = val
			} else {
				rowMap[fmt.Sprintf("col%d", j)] = val
			}
		}
		result[i] = rowMap
	}

	data, err := sonnet.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func (t *Table) renderPlain(w io.Writer) error {
	for _, row := range t.rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range strings.TrimSuffix(s, "ns") {
		if (r < '0' || r > '9') && r != ',' && r != '-' {
			return false
		}
	}
	return true
}

// KeyValue writes an aligned key-value pair.
func KeyValue(w io.Writer, key, value string, keyWidth int) {
	fmt.Fprintf(w, "  %-*s %s\n", keyWidth, key+":", value)
}
