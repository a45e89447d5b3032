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
Package worker runs one scheduling policy against the request stream.

A Worker owns its policy state (head position, received batches, move and time
accumulators) and talks to the coordinator only through its pipe.Channel.

State Machine:
==============

  Configuring -> AwaitingBatch -> Scheduling -> Simulating -> Reporting -> Done

  Configuring:   await PhaseConfigure, accept sink, start, batch size, verbose
  AwaitingBatch: await PhaseStream, accept N/B batch frames
  Scheduling:    await PhaseResults, build the plan over the whole stream
  Simulating:    move the head once per visit, recording moves and time
  Reporting:     emit N results, await PhaseSummary, emit both means

Any interrupted wait ends the worker with a coordination error. A frame out
of order or a value outside its range is a protocol violation: the worker
interrupts its own channel so the coordinator stops waiting on it.
*/
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	simerrors "seeksim/internal/errors"
	"seeksim/internal/logging"
	"seeksim/internal/pipe"
	"seeksim/internal/policy"
	"seeksim/internal/seek"
)

// State is the lifecycle position of a worker.
type State int32

const (
	Configuring State = iota
	AwaitingBatch
	Scheduling
	Simulating
	Reporting
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Configuring:
		return "configuring"
	case AwaitingBatch:
		return "awaiting-batch"
	case Scheduling:
		return "scheduling"
	case Simulating:
		return "simulating"
	case Reporting:
		return "reporting"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Worker simulates one policy.
type Worker struct {
	name  policy.Name
	total int
	ch    *pipe.Channel
	log   *logging.Logger
	state atomic.Int32

	sink    io.Writer
	head    int
	batch   int
	verbose bool

	queue [][]int
	plan  policy.Plan
	moves []int
	times []time.Duration
}

// New creates a worker for name that expects total requests over ch.
func New(name policy.Name, total int, ch *pipe.Channel) *Worker {
	return &Worker{
		name:  name,
		total: total,
		ch:    ch,
		log:   logging.NewLogger("worker").With("policy", string(name)),
		sink:  io.Discard,
	}
}

// Name returns the policy the worker simulates.
func (w *Worker) Name() policy.Name { return w.name }

// State returns the current lifecycle state. Safe for concurrent use.
func (w *Worker) State() State { return State(w.state.Load()) }

func (w *Worker) enter(s State) {
	w.state.Store(int32(s))
	w.log.Debug("state transition", "state", s)
}

// Run drives the worker through every phase. It returns nil once both means
// have been emitted.
func (w *Worker) Run(ctx context.Context) error {
	w.enter(Configuring)
	if err := w.run(ctx); err != nil {
		w.enter(Failed)
		return err
	}
	w.enter(Done)
	return nil
}

func (w *Worker) run(ctx context.Context) error {
	if err := w.configure(ctx); err != nil {
		return err
	}

	w.enter(AwaitingBatch)
	if err := w.collect(ctx); err != nil {
		return err
	}

	if err := w.await(ctx, pipe.PhaseResults); err != nil {
		return err
	}
	w.enter(Scheduling)
	if err := w.schedule(); err != nil {
		return err
	}

	w.enter(Simulating)
	if err := w.simulate(); err != nil {
		return err
	}

	w.enter(Reporting)
	return w.report(ctx)
}

func (w *Worker) configure(ctx context.Context) error {
	if err := w.await(ctx, pipe.PhaseConfigure); err != nil {
		return err
	}

	f, err := w.accept(ctx, pipe.KindSink, "configure")
	if err != nil {
		return err
	}
	if f.Sink != nil {
		w.sink = f.Sink
	}

	if f, err = w.accept(ctx, pipe.KindStart, "configure"); err != nil {
		return err
	}
	if !seek.Valid(int(f.Value)) {
		return w.violation(fmt.Sprintf("start track %d out of range", f.Value))
	}
	w.head = int(f.Value)

	if f, err = w.accept(ctx, pipe.KindBatchSize, "configure"); err != nil {
		return err
	}
	if f.Value <= 0 || w.total%int(f.Value) != 0 {
		return w.violation(fmt.Sprintf("batch size %d does not divide %d", f.Value, w.total))
	}
	w.batch = int(f.Value)

	if f, err = w.accept(ctx, pipe.KindVerbose, "configure"); err != nil {
		return err
	}
	switch f.Value {
	case 0, 1:
		w.verbose = f.Value == 1
	default:
		return w.violation(fmt.Sprintf("verbose flag %d", f.Value))
	}

	w.log.Debug("configured", "start", w.head, "batch", w.batch, "verbose", w.verbose)
	return nil
}

func (w *Worker) collect(ctx context.Context) error {
	if err := w.await(ctx, pipe.PhaseStream); err != nil {
		return err
	}

	batches := w.total / w.batch
	w.queue = make([][]int, 0, batches)
	for i := 0; i < batches; i++ {
		f, err := w.accept(ctx, pipe.KindBatch, "stream")
		if err != nil {
			return err
		}
		if len(f.Tracks) != w.batch {
			return w.violation(fmt.Sprintf("batch %d has %d tracks, want %d", i, len(f.Tracks), w.batch))
		}
		for _, t := range f.Tracks {
			if !seek.Valid(t) {
				return w.violation(fmt.Sprintf("batch %d: track %d out of range", i, t))
			}
		}
		w.queue = append(w.queue, f.Tracks)
	}
	w.log.Debug("stream received", "batches", batches)
	return nil
}

func (w *Worker) schedule() error {
	p, err := policy.New(w.name, w.batch)
	if err != nil {
		return w.abort(err)
	}

	stream := make([]int, 0, w.total)
	for _, b := range w.queue {
		stream = append(stream, b...)
	}
	w.queue = nil
	w.plan = p.Schedule(w.head, stream)
	return nil
}

func (w *Worker) simulate() error {
	w.moves = make([]int, len(w.plan))
	w.times = make([]time.Duration, len(w.plan))
	for i, v := range w.plan {
		s, err := seek.Move(w.head, v.Track, v.Mode)
		if err != nil {
			return w.abort(err)
		}
		w.moves[i] = s.Steps
		w.times[i] = s.Elapsed
		if w.verbose {
			fmt.Fprintf(w.sink, "(%d) %s: moving from (%d) to (%d) took %d moves and %dns\n",
				i+1, w.name, w.head, v.Track, s.Steps, s.Elapsed.Nanoseconds())
		}
		w.head = v.Track
	}
	return nil
}

func (w *Worker) report(ctx context.Context) error {
	for i, v := range w.plan {
		if err := w.emit(ctx, pipe.ResultFrame(v.Track, w.moves[i]), "results"); err != nil {
			return err
		}
	}

	if err := w.await(ctx, pipe.PhaseSummary); err != nil {
		return err
	}
	moves, elapsed := w.Means()
	if err := w.emit(ctx, pipe.ValueFrame(pipe.KindMeanMoves, int64(moves)), "summary"); err != nil {
		return err
	}
	if err := w.emit(ctx, pipe.ValueFrame(pipe.KindMeanTime, elapsed.Nanoseconds()), "summary"); err != nil {
		return err
	}
	w.log.Debug("summary emitted", "mean_moves", moves, "mean_time", elapsed)
	return nil
}

// Means returns the truncated mean move count and mean seek time over the
// simulated visits.
func (w *Worker) Means() (int, time.Duration) {
	if len(w.moves) == 0 {
		return 0, 0
	}
	var moves int
	var elapsed time.Duration
	for i := range w.moves {
		moves += w.moves[i]
		elapsed += w.times[i]
	}
	n := len(w.moves)
	return moves / n, elapsed / time.Duration(n)
}

func (w *Worker) accept(ctx context.Context, want pipe.Kind, step string) (pipe.Frame, error) {
	f, err := w.ch.Accept(ctx)
	if err != nil {
		return f, w.waitFailed(err, step)
	}
	if f.Kind != want {
		return f, w.violation(fmt.Sprintf("expected %s frame, got %s", want, f.Kind))
	}
	return f, nil
}

func (w *Worker) emit(ctx context.Context, f pipe.Frame, step string) error {
	if err := w.ch.Emit(ctx, f); err != nil {
		return w.waitFailed(err, step)
	}
	return nil
}

func (w *Worker) await(ctx context.Context, p pipe.Phase) error {
	err := w.ch.Await(ctx, p)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pipe.ErrPhaseMismatch):
		return w.violation(err.Error())
	default:
		return w.waitFailed(err, p.String())
	}
}

func (w *Worker) waitFailed(err error, step string) error {
	if errors.Is(err, pipe.ErrInterrupted) {
		w.log.Warn("wait interrupted", "step", step)
		return simerrors.Interrupted(string(w.name), step).WithCause(err)
	}
	return err
}

func (w *Worker) violation(detail string) error {
	w.log.Error("protocol violation", "detail", detail)
	w.ch.Interrupt()
	return simerrors.ProtocolViolation(string(w.name), detail)
}

// abort ends the run on a local failure between phases. The channel is
// interrupted so the coordinator's next wait on it returns.
func (w *Worker) abort(cause error) error {
	w.log.Error("worker aborted", "state", w.State(), "error", cause)
	w.ch.Interrupt()
	return simerrors.ProtocolViolation(string(w.name), cause.Error()).WithCause(cause)
}
