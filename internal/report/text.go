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

package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const minColumnWidth = 15

var legend = []string{
	"The table is organized as such:",
	"| Policy Name |",
	"| Starting Track |",
	"| Next Track | Tracks Moved |",
	"| ... |",
	"| Average Seek Length |",
	"| Average Seek Time |",
}

// WriteText renders r as a fixed width table.
func WriteText(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	p := message.NewPrinter(language.English)

	widths := make([]int, len(r.Policies))
	for i, name := range r.Policies {
		widths[i] = max(2*len(name)+2, minColumnWidth)
	}
	divider := dividerLine(widths)

	for _, line := range legend {
		fmt.Fprintln(bw, line)
	}
	fmt.Fprintln(bw)

	line := func(cell func(i, width int) string) {
		bw.WriteString("|")
		for i, width := range widths {
			bw.WriteString(cell(i, width))
			bw.WriteString("|")
		}
		bw.WriteString("\n")
	}
	names := func(i, width int) string { return center(r.Policies[i], width) }

	bw.WriteString(divider)
	line(names)
	bw.WriteString(divider)
	line(func(i, width int) string { return center(p.Sprintf("%d", r.StartTrack), width) })
	bw.WriteString(divider)

	for _, row := range r.Rows {
		line(func(i, width int) string {
			left := (width - 1) / 2
			right := width - 1 - left
			return fmt.Sprintf("%*d |%*d ", left-1, row.Cells[i].Track, right-1, row.Cells[i].Moves)
		})
	}
	bw.WriteString(divider)

	line(func(i, width int) string { return center(p.Sprintf("%d tracks", r.Summaries[i].MeanMoves), width) })
	bw.WriteString(divider)
	line(func(i, width int) string { return center(p.Sprintf("%d ns", r.Summaries[i].MeanTime.Nanoseconds()), width) })
	bw.WriteString(divider)
	line(names)
	bw.WriteString(divider)

	if len(r.Faults) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "Dropped policies:")
		for _, f := range r.Faults {
			fmt.Fprintf(bw, "  %s: %s\n", f.Policy, f.Reason)
		}
	}
	return bw.Flush()
}

func dividerLine(widths []int) string {
	var b strings.Builder
	b.WriteString("+")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w))
		b.WriteString("+")
	}
	b.WriteString("\n")
	return b.String()
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
