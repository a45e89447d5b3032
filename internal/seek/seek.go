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
Package seek models the cost of moving a disk head between tracks.

The track space is circular: tracks are numbered MinTrack..MaxTrack and a head
stepping up from MaxTrack lands on MinTrack (and the reverse going down).
A move is simulated one track at a time so that the elapsed time of the
stepping loop can be compared across scheduling policies.

Movement Modes:
===============

  - Up:   increment one track per step, wrapping MaxTrack -> MinTrack
  - Down: decrement one track per step, wrapping MinTrack -> MaxTrack
  - Any:  take whichever of Up or Down reaches the target in fewer steps;
          when both distances are equal, Up is used
*/
package seek

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Track space bounds.
const (
	MinTrack = 1
	MaxTrack = 200
	Tracks   = MaxTrack - MinTrack + 1
)

// ErrTrackOutOfRange is returned when a track lies outside MinTrack..MaxTrack.
var ErrTrackOutOfRange = errors.New("track out of range")

// Direction is the stepping mode used for one head movement.
type Direction int

const (
	Any Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Any:
		return "any"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// ParseDirection parses a direction name.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any", "":
		return Any, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return Any, fmt.Errorf("unknown direction: %s", s)
	}
}

// Seek is the cost of one head movement.
type Seek struct {
	Steps   int
	Elapsed time.Duration
}

// Valid reports whether track lies inside the track space.
func Valid(track int) bool {
	return track >= MinTrack && track <= MaxTrack
}

// Distance returns the number of single-track steps Move would take, without
// running the stepping loop.
func Distance(current, target int, dir Direction) int {
	up := (target - current + Tracks) % Tracks
	down := (current - target + Tracks) % Tracks
	switch dir {
	case Up:
		return up
	case Down:
		return down
	default:
		return min(up, down)
	}
}

// Resolve returns the direction Any picks for a move from current to target.
// It returns Any only when the head is already on the target.
func Resolve(current, target int) Direction {
	if current == target {
		return Any
	}
	if Distance(current, target, Down) < Distance(current, target, Up) {
		return Down
	}
	return Up
}

// Toward returns the straight-line direction from current to target, never
// crossing the MaxTrack/MinTrack boundary.
func Toward(current, target int) Direction {
	switch {
	case target > current:
		return Up
	case target < current:
		return Down
	default:
		return Any
	}
}

// Move steps the head from current to target using dir and reports how many
// steps it took and how long the stepping loop ran.
func Move(current, target int, dir Direction) (Seek, error) {
	if !Valid(current) || !Valid(target) {
		return Seek{}, fmt.Errorf("%w: %d -> %d", ErrTrackOutOfRange, current, target)
	}
	if current == target {
		return Seek{}, nil
	}
	if dir == Any {
		dir = Resolve(current, target)
	}

	start := time.Now()
	steps := 0
	for current != target {
		current = step(current, dir)
		steps++
	}
	return Seek{Steps: steps, Elapsed: time.Since(start)}, nil
}

func step(track int, dir Direction) int {
	if dir == Up {
		if track == MaxTrack {
			return MinTrack
		}
		return track + 1
	}
	if track == MinTrack {
		return MaxTrack
	}
	return track - 1
}
