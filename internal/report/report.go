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

/*
Package report holds the result of a simulation run and renders it.

A Report has one Row per request index. Row i carries, for every policy that
completed the run, the i-th track that policy visited and the moves that hop
cost. Summaries carry each policy's mean seek length and mean seek time.
Policies dropped after a coordination fault have no column; they are listed
in Faults instead.

Output Formats:
===============

  - text:   fixed width table, one column per policy
  - json:   the Report encoded as a single JSON document
  - sqlite: runs, results, summaries and faults tables

Text and JSON output may be compressed (see package compression).
*/
package report

import (
	"fmt"
	"strconv"
	"time"
)

// Cell is one policy's visit for a request index.
type Cell struct {
	Track int `json:"track"`
	Moves int `json:"moves"`
}

// Row holds the cells of one request index, in policy order.
type Row struct {
	Index int    `json:"index"`
	Cells []Cell `json:"cells"`
}

// Summary is the aggregate of one policy.
type Summary struct {
	Policy    string        `json:"policy"`
	MeanMoves int           `json:"mean_moves"`
	MeanTime  time.Duration `json:"mean_time_ns"`
}

// Fault records a policy dropped from the run.
type Fault struct {
	Policy string `json:"policy"`
	Reason string `json:"reason"`
}

// Report is the outcome of a simulation run.
type Report struct {
	StartTrack int       `json:"start_track"`
	BatchSize  int       `json:"batch_size"`
	Requests   int       `json:"requests"`
	Policies   []string  `json:"policies"`
	Rows       []Row     `json:"rows"`
	Summaries  []Summary `json:"summaries"`
	Faults     []Fault   `json:"faults,omitempty"`
}

// Column returns the cells of the named policy in visit order.
func (r *Report) Column(policy string) ([]Cell, bool) {
	idx := r.index(policy)
	if idx < 0 {
		return nil, false
	}
	out := make([]Cell, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Cells[idx]
	}
	return out, true
}

// Summary returns the summary of the named policy.
func (r *Report) Summary(policy string) (Summary, bool) {
	idx := r.index(policy)
	if idx < 0 {
		return Summary{}, false
	}
	return r.Summaries[idx], true
}

func (r *Report) index(policy string) int {
	for i, p := range r.Policies {
		if p == policy {
			return i
		}
	}
	return -1
}

// Grid flattens the report into a header and rows of strings, two columns
// per policy followed by the two mean rows.
func (r *Report) Grid() ([]string, [][]string) {
	headers := make([]string, 0, 1+2*len(r.Policies))
	headers = append(headers, "#")
	for _, p := range r.Policies {
		headers = append(headers, p+" track", p+" moves")
	}

	rows := make([][]string, 0, len(r.Rows)+2)
	for _, row := range r.Rows {
		line := make([]string, 0, len(headers))
		line = append(line, strconv.Itoa(row.Index))
		for _, c := range row.Cells {
			line = append(line, strconv.Itoa(c.Track), strconv.Itoa(c.Moves))
		}
		rows = append(rows, line)
	}

	moves := []string{"avg"}
	times := []string{"avg"}
	for _, s := range r.Summaries {
		moves = append(moves, "", fmt.Sprintf("%d", s.MeanMoves))
		times = append(times, "", fmt.Sprintf("%dns", s.MeanTime.Nanoseconds()))
	}
	return headers, append(rows, moves, times)
}
