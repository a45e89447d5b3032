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
Package policy implements the disk-scheduling disciplines compared by the
simulator.

A policy turns the request stream, in arrival order, into a Plan: the order
in which the head visits the tracks, with the stepping mode to use for every
hop. A plan is always a permutation of its input.

Policies:
=========

  - FIFO:        arrival order
  - LIFO:        reverse arrival order
  - SSTF:        nearest remaining track first (circular distance)
  - SCAN:        sweep one way, then reverse
  - C-SCAN:      sweep one way, then wrap and sweep the same way again
  - N-STEP-SCAN: SCAN over consecutive sub-batches
  - FSCAN:       SCAN over batches frozen into two alternating queues
*/
package policy

import (
	"errors"
	"fmt"
	"strings"

	"seeksim/internal/seek"
)

// ErrUnknownPolicy is returned by Parse and New for names outside Names.
var ErrUnknownPolicy = errors.New("unknown policy")

// Name identifies a scheduling policy.
type Name string

const (
	FIFO      Name = "FIFO"
	LIFO      Name = "LIFO"
	SSTF      Name = "SSTF"
	SCAN      Name = "SCAN"
	CSCAN     Name = "C-SCAN"
	NStepSCAN Name = "N-STEP-SCAN"
	FSCAN     Name = "FSCAN"
)

// Names lists every policy in presentation order.
var Names = []Name{FIFO, LIFO, SSTF, SCAN, CSCAN, NStepSCAN, FSCAN}

// MaxPolicies bounds how many policies one run may compare.
const MaxPolicies = 8

// Strings returns Names as plain strings.
func Strings() []string {
	out := make([]string, len(Names))
	for i, n := range Names {
		out[i] = string(n)
	}
	return out
}

// Parse resolves a policy name, ignoring case and surrounding space.
func Parse(s string) (Name, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for _, n := range Names {
		if string(n) == want {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownPolicy, s)
}

// Visit is one head movement of a plan.
type Visit struct {
	Track int
	// Sweep is the sweep the visit belongs to; Any outside sweeping policies.
	Sweep seek.Direction
	// Mode is the stepping mode handed to seek.Move.
	Mode seek.Direction
}

// Plan is the visiting order chosen by a policy.
type Plan []Visit

// Tracks returns the tracks of the plan in visit order.
func (p Plan) Tracks() []int {
	out := make([]int, len(p))
	for i, v := range p {
		out[i] = v.Track
	}
	return out
}

// Steps returns the total steps of the plan starting from head.
func (p Plan) Steps(head int) int {
	total := 0
	for _, v := range p {
		total += seek.Distance(head, v.Track, v.Mode)
		head = v.Track
	}
	return total
}

// Policy schedules a request stream.
type Policy interface {
	Name() Name
	// Schedule orders tracks for a head starting at head. tracks is not
	// modified.
	Schedule(head int, tracks []int) Plan
}

// New builds the named policy. batch is the sub-batch size used by
// N-STEP-SCAN and FSCAN and ignored by the others.
func New(name Name, batch int) (Policy, error) {
	switch name {
	case FIFO:
		return fifo{}, nil
	case LIFO:
		return lifo{}, nil
	case SSTF:
		return sstf{}, nil
	case SCAN:
		return scan{}, nil
	case CSCAN:
		return cscan{}, nil
	case NStepSCAN, FSCAN:
		if batch <= 0 {
			return nil, fmt.Errorf("%s requires a positive batch size, got %d", name, batch)
		}
		if name == NStepSCAN {
			return nstep{batch: batch}, nil
		}
		return fscan{batch: batch}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, name)
	}
}

type fifo struct{}

func (fifo) Name() Name { return FIFO }

func (fifo) Schedule(head int, tracks []int) Plan {
	return straight(head, tracks)
}

type lifo struct{}

func (lifo) Name() Name { return LIFO }

func (lifo) Schedule(head int, tracks []int) Plan {
	reversed := make([]int, len(tracks))
	for i, t := range tracks {
		reversed[len(tracks)-1-i] = t
	}
	return straight(head, reversed)
}

// straight visits tracks in the given order without crossing the
// MaxTrack/MinTrack boundary.
func straight(head int, tracks []int) Plan {
	plan := make(Plan, len(tracks))
	for i, t := range tracks {
		plan[i] = Visit{Track: t, Sweep: seek.Any, Mode: seek.Toward(head, t)}
		head = t
	}
	return plan
}

type sstf struct{}

func (sstf) Name() Name { return SSTF }

func (sstf) Schedule(head int, tracks []int) Plan {
	pending := append([]int(nil), tracks...)
	plan := make(Plan, 0, len(tracks))
	for len(pending) > 0 {
		best := 0
		bestDist := seek.Distance(head, pending[0], seek.Any)
		for i := 1; i < len(pending); i++ {
			if d := seek.Distance(head, pending[i], seek.Any); d < bestDist {
				best, bestDist = i, d
			}
		}
		head = pending[best]
		plan = append(plan, Visit{Track: head, Sweep: seek.Any, Mode: seek.Any})
		pending = append(pending[:best], pending[best+1:]...)
	}
	return plan
}
