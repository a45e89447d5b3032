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

package seek

import (
	"errors"
	"testing"
)

func TestMoveSameTrack(t *testing.T) {
	for _, dir := range []Direction{Any, Up, Down} {
		for track := MinTrack; track <= MaxTrack; track++ {
			got, err := Move(track, track, dir)
			if err != nil {
				t.Fatalf("Move(%d, %d, %s) error: %v", track, track, dir, err)
			}
			if got.Steps != 0 || got.Elapsed != 0 {
				t.Errorf("Move(%d, %d, %s) = %+v, want zero", track, track, dir, got)
			}
		}
	}
}

func TestMoveSteps(t *testing.T) {
	tests := []struct {
		name    string
		current int
		target  int
		dir     Direction
		steps   int
	}{
		{"any wraps bottom to top", 1, 200, Any, 1},
		{"any wraps top to bottom", 200, 1, Any, 1},
		{"any straight up", 53, 98, Any, 45},
		{"any takes wrap when shorter", 183, 37, Any, 54},
		{"any tie", 50, 150, Any, 100},
		{"up straight", 10, 20, Up, 10},
		{"up wraps", 183, 37, Up, 54},
		{"up long way", 20, 10, Up, 190},
		{"down straight", 20, 10, Down, 10},
		{"down wraps", 37, 183, Down, 54},
		{"down long way", 10, 20, Down, 190},
		{"up from max", 200, 1, Up, 1},
		{"down from min", 1, 200, Down, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Move(tt.current, tt.target, tt.dir)
			if err != nil {
				t.Fatalf("Move() error: %v", err)
			}
			if got.Steps != tt.steps {
				t.Errorf("Move(%d, %d, %s).Steps = %d, want %d", tt.current, tt.target, tt.dir, got.Steps, tt.steps)
			}
			if got.Elapsed < 0 {
				t.Errorf("Move(%d, %d, %s).Elapsed = %v, want >= 0", tt.current, tt.target, tt.dir, got.Elapsed)
			}
		})
	}
}

func TestDistanceMatchesMove(t *testing.T) {
	for current := MinTrack; current <= MaxTrack; current += 7 {
		for target := MinTrack; target <= MaxTrack; target += 11 {
			for _, dir := range []Direction{Any, Up, Down} {
				got, err := Move(current, target, dir)
				if err != nil {
					t.Fatalf("Move() error: %v", err)
				}
				if want := Distance(current, target, dir); got.Steps != want {
					t.Errorf("Move(%d, %d, %s).Steps = %d, Distance = %d", current, target, dir, got.Steps, want)
				}
			}
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		current, target int
		expected        Direction
	}{
		{53, 53, Any},
		{53, 98, Up},
		{98, 53, Down},
		{183, 37, Up},
		{37, 183, Down},
		{50, 150, Up},
		{150, 50, Up},
	}

	for _, tt := range tests {
		if got := Resolve(tt.current, tt.target); got != tt.expected {
			t.Errorf("Resolve(%d, %d) = %s, want %s", tt.current, tt.target, got, tt.expected)
		}
	}
}

func TestToward(t *testing.T) {
	if got := Toward(183, 37); got != Down {
		t.Errorf("Toward(183, 37) = %s, want down", got)
	}
	if got := Toward(37, 183); got != Up {
		t.Errorf("Toward(37, 183) = %s, want up", got)
	}
	if got := Toward(5, 5); got != Any {
		t.Errorf("Toward(5, 5) = %s, want any", got)
	}
}

func TestMoveOutOfRange(t *testing.T) {
	for _, pair := range [][2]int{{0, 10}, {10, 201}, {-1, -1}} {
		_, err := Move(pair[0], pair[1], Any)
		if !errors.Is(err, ErrTrackOutOfRange) {
			t.Errorf("Move(%d, %d) error = %v, want ErrTrackOutOfRange", pair[0], pair[1], err)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
		wantErr  bool
	}{
		{"up", Up, false},
		{"DOWN", Down, false},
		{"any", Any, false},
		{"", Any, false},
		{"sideways", Any, true},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.expected {
			t.Errorf("ParseDirection(%q) = %s, want %s", tt.input, got, tt.expected)
		}
		if !tt.wantErr && tt.input != "" {
			if round, _ := ParseDirection(got.String()); round != got {
				t.Errorf("ParseDirection(%s.String()) = %s", got, round)
			}
		}
	}
}
