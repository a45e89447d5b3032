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

package policy

import (
	"sort"

	"seeksim/internal/seek"
)

// initialSweep goes up when the oldest pending request lies above the head.
func initialSweep(head int, tracks []int) seek.Direction {
	if tracks[0] > head {
		return seek.Up
	}
	return seek.Down
}

func sorted(tracks []int) []int {
	out := append([]int(nil), tracks...)
	sort.Ints(out)
	return out
}

type scan struct{}

func (scan) Name() Name { return SCAN }

func (scan) Schedule(head int, tracks []int) Plan {
	return sweep(head, tracks)
}

// sweep services tracks equal to the head, then every track on the side of
// the initial sweep, then reverses for the other side.
func sweep(head int, tracks []int) Plan {
	if len(tracks) == 0 {
		return Plan{}
	}
	asc := sorted(tracks)
	plan := make(Plan, 0, len(tracks))

	for _, t := range asc {
		if t == head {
			plan = append(plan, Visit{Track: t, Sweep: seek.Any, Mode: seek.Any})
		}
	}
	up := func() {
		for _, t := range asc {
			if t > head {
				plan = append(plan, Visit{Track: t, Sweep: seek.Up, Mode: seek.Up})
			}
		}
	}
	down := func() {
		for i := len(asc) - 1; i >= 0; i-- {
			if asc[i] < head {
				plan = append(plan, Visit{Track: asc[i], Sweep: seek.Down, Mode: seek.Down})
			}
		}
	}
	if initialSweep(head, tracks) == seek.Up {
		up()
		down()
	} else {
		down()
		up()
	}
	return plan
}

type cscan struct{}

func (cscan) Name() Name { return CSCAN }

// Schedule sweeps in one direction only. Once the far side is serviced the
// head continues from the opposite end of the remaining tracks.
func (cscan) Schedule(head int, tracks []int) Plan {
	if len(tracks) == 0 {
		return Plan{}
	}
	asc := sorted(tracks)
	dir := initialSweep(head, tracks)
	plan := make(Plan, 0, len(tracks))
	add := func(t int) {
		plan = append(plan, Visit{Track: t, Sweep: dir, Mode: seek.Any})
	}

	for _, t := range asc {
		if t == head {
			add(t)
		}
	}
	if dir == seek.Up {
		for _, t := range asc {
			if t > head {
				add(t)
			}
		}
		for _, t := range asc {
			if t < head {
				add(t)
			}
		}
		return plan
	}
	for i := len(asc) - 1; i >= 0; i-- {
		if asc[i] < head {
			add(asc[i])
		}
	}
	for i := len(asc) - 1; i >= 0; i-- {
		if asc[i] > head {
			add(asc[i])
		}
	}
	return plan
}

type nstep struct {
	batch int
}

func (nstep) Name() Name { return NStepSCAN }

func (p nstep) Schedule(head int, tracks []int) Plan {
	plan := make(Plan, 0, len(tracks))
	for i := 0; i < len(tracks); i += p.batch {
		sub := sweep(head, tracks[i:min(i+p.batch, len(tracks))])
		plan = append(plan, sub...)
		head = lastTrack(sub, head)
	}
	return plan
}

type fscan struct {
	batch int
}

func (fscan) Name() Name { return FSCAN }

// Schedule freezes the stream into batches placed alternately on two
// single-slot queues by a producer goroutine. The consumer drains the queues
// alternately, starting with the first, and SCANs each frozen batch.
func (p fscan) Schedule(head int, tracks []int) Plan {
	queues := [2]chan []int{make(chan []int, 1), make(chan []int, 1)}

	go func() {
		defer close(queues[0])
		defer close(queues[1])
		q := 0
		for i := 0; i < len(tracks); i += p.batch {
			queues[q] <- tracks[i:min(i+p.batch, len(tracks))]
			q = 1 - q
		}
	}()

	plan := make(Plan, 0, len(tracks))
	for q := 0; ; q = 1 - q {
		frozen, ok := <-queues[q]
		if !ok {
			return plan
		}
		sub := sweep(head, frozen)
		plan = append(plan, sub...)
		head = lastTrack(sub, head)
	}
}

func lastTrack(plan Plan, head int) int {
	if len(plan) == 0 {
		return head
	}
	return plan[len(plan)-1].Track
}
