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
Package coordinator runs one simulation: it spawns a worker per policy,
streams the request batches to all of them in lock-step and assembles the
report from their results.

Phases:
=======

 1. Configure: every worker receives sink, start track, batch size, verbose
 2. Stream:    each batch is handed to every live worker before the next
               batch is read from the source
 3. Results:   row i is built from the i-th result of every live worker
 4. Summary:   each worker emits its mean seek length and mean seek time

Every phase begins with a barrier advance on each worker's channel, so no
worker can run ahead of the coordinator.

Faults:
=======

A worker whose channel is interrupted is dropped for the rest of the run. Its
column and summary are omitted from the report and the fault is listed in
Report.Faults. A source error or context cancellation aborts the whole run
and produces no report.
*/
package coordinator

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	simerrors "seeksim/internal/errors"
	"seeksim/internal/logging"
	"seeksim/internal/pipe"
	"seeksim/internal/policy"
	"seeksim/internal/report"
	"seeksim/internal/seek"
	"seeksim/internal/tracks"
	"seeksim/internal/worker"
)

// Config describes one simulation run.
type Config struct {
	StartTrack int
	BatchSize  int
	Total      int
	Policies   []string
	Verbose    bool
	// Trace receives the per-hop trace of every worker when Verbose is set.
	Trace io.Writer
}

// PhaseHook observes every barrier advance.
type PhaseHook func(name policy.Name, phase pipe.Phase)

type slot struct {
	name policy.Name
	ch   *pipe.Channel
	w    *worker.Worker

	alive   bool
	cells   []report.Cell
	summary report.Summary
	// fault is the coordinator-side reason the slot was dropped; runErr is
	// what the worker itself returned.
	fault  error
	runErr error
}

// Coordinator owns the workers of one run.
type Coordinator struct {
	cfg   Config
	slots []*slot
	hook  PhaseHook
	log   *logging.Logger
	ran   atomic.Bool
}

// New validates cfg and prepares one worker and channel per policy. Nothing
// runs until Run is called.
func New(cfg Config) (*Coordinator, error) {
	names, err := validate(cfg)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		cfg: cfg,
		log: logging.NewLogger("coordinator"),
	}
	for _, name := range names {
		ch := pipe.New()
		c.slots = append(c.slots, &slot{
			name:  name,
			ch:    ch,
			w:     worker.New(name, cfg.Total, ch),
			alive: true,
		})
	}
	return c, nil
}

func validate(cfg Config) ([]policy.Name, error) {
	if len(cfg.Policies) == 0 {
		return nil, simerrors.NoPolicies()
	}
	if len(cfg.Policies) > policy.MaxPolicies {
		return nil, simerrors.TooManyPolicies(len(cfg.Policies), policy.MaxPolicies)
	}
	names := make([]policy.Name, 0, len(cfg.Policies))
	seen := make(map[policy.Name]bool, len(cfg.Policies))
	for _, p := range cfg.Policies {
		name, err := policy.Parse(p)
		if err != nil {
			return nil, simerrors.UnknownPolicy(p, policy.Strings())
		}
		if seen[name] {
			return nil, simerrors.DuplicatePolicy(string(name))
		}
		seen[name] = true
		names = append(names, name)
	}
	if cfg.Total <= 0 {
		return nil, simerrors.InvalidRequestCount(cfg.Total)
	}
	if cfg.BatchSize <= 0 || cfg.Total%cfg.BatchSize != 0 {
		return nil, simerrors.BatchNotDivisor(cfg.BatchSize, cfg.Total)
	}
	if !seek.Valid(cfg.StartTrack) {
		return nil, simerrors.StartOutOfRange(cfg.StartTrack, seek.MinTrack, seek.MaxTrack)
	}
	return names, nil
}

// WithPhaseHook registers fn to be called after every barrier advance. It
// must be set before Run.
func (c *Coordinator) WithPhaseHook(fn PhaseHook) *Coordinator {
	c.hook = fn
	return c
}

// Policies returns the validated policy names in run order.
func (c *Coordinator) Policies() []policy.Name {
	out := make([]policy.Name, len(c.slots))
	for i, s := range c.slots {
		out[i] = s.name
	}
	return out
}

// Interrupt interrupts the channel of the named worker. The worker is dropped
// the next time the coordinator waits on it.
func (c *Coordinator) Interrupt(name string) error {
	n, err := policy.Parse(name)
	if err != nil {
		return simerrors.UnknownPolicy(name, policy.Strings())
	}
	for _, s := range c.slots {
		if s.name == n {
			s.ch.Interrupt()
			return nil
		}
	}
	return simerrors.NewCoordinationError(name + " is not part of this run")
}

// Run executes the simulation, reading Total requests from src.
func (c *Coordinator) Run(ctx context.Context, src tracks.Source) (*report.Report, error) {
	if !c.ran.CompareAndSwap(false, true) {
		return nil, simerrors.NewCoordinationError("coordinator already ran")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	for _, s := range c.slots {
		s := s
		g.Go(func() error {
			err := s.w.Run(gctx)
			if err != nil && simerrors.IsCoordinationError(err) {
				s.runErr = err
				return nil
			}
			return err
		})
	}

	started := time.Now()
	err := c.drive(gctx, src)
	if err != nil {
		cancel()
	}
	if werr := g.Wait(); err == nil && werr != nil {
		err = werr
	}
	if err != nil {
		c.log.Error("run aborted", "error", err)
		return nil, err
	}

	r := c.assemble()
	c.log.Info("run complete",
		"policies", len(r.Policies),
		"faults", len(r.Faults),
		"requests", c.cfg.Total,
		"elapsed", time.Since(started))
	return r, nil
}

func (c *Coordinator) drive(ctx context.Context, src tracks.Source) error {
	if err := c.configure(ctx); err != nil {
		return err
	}
	if err := c.stream(ctx, src); err != nil {
		return err
	}
	if err := c.collect(ctx); err != nil {
		return err
	}
	return c.summarize(ctx)
}

func (c *Coordinator) configure(ctx context.Context) error {
	sink := c.cfg.Trace
	if sink == nil {
		sink = io.Discard
	} else {
		sink = &lockedWriter{w: sink}
	}
	verbose := int64(0)
	if c.cfg.Verbose {
		verbose = 1
	}

	frames := []pipe.Frame{
		pipe.SinkFrame(sink),
		pipe.ValueFrame(pipe.KindStart, int64(c.cfg.StartTrack)),
		pipe.ValueFrame(pipe.KindBatchSize, int64(c.cfg.BatchSize)),
		pipe.ValueFrame(pipe.KindVerbose, verbose),
	}
	for _, s := range c.live() {
		if err := c.advance(ctx, s, pipe.PhaseConfigure); err != nil {
			if c.drop(s, err, "configure") {
				continue
			}
			return err
		}
		for _, f := range frames {
			if err := s.ch.Send(ctx, f); err != nil {
				if c.drop(s, err, "configure") {
					break
				}
				return err
			}
		}
	}
	c.log.Debug("workers configured",
		"start", c.cfg.StartTrack, "batch", c.cfg.BatchSize, "workers", len(c.live()))
	return nil
}

func (c *Coordinator) stream(ctx context.Context, src tracks.Source) error {
	if err := c.advanceAll(ctx, pipe.PhaseStream); err != nil {
		return err
	}

	batches := c.cfg.Total / c.cfg.BatchSize
	for b := 0; b < batches; b++ {
		batch, err := src.NextBatch(c.cfg.BatchSize)
		if err != nil {
			return err
		}
		if len(batch) != c.cfg.BatchSize {
			return simerrors.ShortStream(b*c.cfg.BatchSize+len(batch), c.cfg.Total)
		}
		for _, s := range c.live() {
			if err := s.ch.Send(ctx, pipe.BatchFrame(batch)); err != nil && !c.drop(s, err, "stream") {
				return err
			}
		}
	}
	c.log.Debug("stream delivered", "batches", batches)
	return nil
}

func (c *Coordinator) collect(ctx context.Context) error {
	if err := c.advanceAll(ctx, pipe.PhaseResults); err != nil {
		return err
	}

	for _, s := range c.live() {
		s.cells = make([]report.Cell, 0, c.cfg.Total)
	}
	for i := 0; i < c.cfg.Total; i++ {
		for _, s := range c.live() {
			f, err := s.ch.Receive(ctx)
			if err != nil {
				if c.drop(s, err, "results") {
					continue
				}
				return err
			}
			if f.Kind != pipe.KindResult {
				s.ch.Interrupt()
				c.drop(s, simerrors.ProtocolViolation(string(s.name), "expected result frame, got "+f.Kind.String()), "results")
				continue
			}
			s.cells = append(s.cells, report.Cell{Track: f.Track, Moves: f.Moves})
		}
	}
	return nil
}

func (c *Coordinator) summarize(ctx context.Context) error {
	for _, s := range c.live() {
		if err := c.advance(ctx, s, pipe.PhaseSummary); err != nil {
			if c.drop(s, err, "summary") {
				continue
			}
			return err
		}
		moves, err := c.receiveValue(ctx, s, pipe.KindMeanMoves)
		if err != nil {
			if c.drop(s, err, "summary") {
				continue
			}
			return err
		}
		elapsed, err := c.receiveValue(ctx, s, pipe.KindMeanTime)
		if err != nil {
			if c.drop(s, err, "summary") {
				continue
			}
			return err
		}
		s.summary = report.Summary{
			Policy:    string(s.name),
			MeanMoves: int(moves),
			MeanTime:  time.Duration(elapsed),
		}
	}
	return nil
}

func (c *Coordinator) receiveValue(ctx context.Context, s *slot, want pipe.Kind) (int64, error) {
	f, err := s.ch.Receive(ctx)
	if err != nil {
		return 0, err
	}
	if f.Kind != want {
		s.ch.Interrupt()
		return 0, simerrors.ProtocolViolation(string(s.name), "expected "+want.String()+" frame, got "+f.Kind.String())
	}
	return f.Value, nil
}

func (c *Coordinator) advance(ctx context.Context, s *slot, p pipe.Phase) error {
	if err := s.ch.Advance(ctx, p); err != nil {
		return err
	}
	if c.hook != nil {
		c.hook(s.name, p)
	}
	return nil
}

func (c *Coordinator) advanceAll(ctx context.Context, p pipe.Phase) error {
	for _, s := range c.live() {
		if err := c.advance(ctx, s, p); err != nil && !c.drop(s, err, p.String()) {
			return err
		}
	}
	return nil
}

// drop removes s from the run if err is a coordination fault and reports
// whether it did. Any other error aborts the run.
func (c *Coordinator) drop(s *slot, err error, step string) bool {
	if !errors.Is(err, pipe.ErrInterrupted) && !simerrors.IsCoordinationError(err) {
		return false
	}
	s.alive = false
	s.fault = err
	s.ch.Interrupt()
	c.log.Warn("worker dropped", "policy", string(s.name), "step", step, "error", err)
	return true
}

func (c *Coordinator) live() []*slot {
	out := make([]*slot, 0, len(c.slots))
	for _, s := range c.slots {
		if s.alive {
			out = append(out, s)
		}
	}
	return out
}

func (c *Coordinator) assemble() *report.Report {
	r := &report.Report{
		StartTrack: c.cfg.StartTrack,
		BatchSize:  c.cfg.BatchSize,
		Requests:   c.cfg.Total,
	}

	live := c.live()
	for _, s := range c.slots {
		if s.alive {
			r.Policies = append(r.Policies, string(s.name))
			r.Summaries = append(r.Summaries, s.summary)
			continue
		}
		reason := s.runErr
		if reason == nil {
			reason = s.fault
		}
		r.Faults = append(r.Faults, report.Fault{Policy: string(s.name), Reason: reason.Error()})
	}

	r.Rows = make([]report.Row, c.cfg.Total)
	for i := range r.Rows {
		cells := make([]report.Cell, len(live))
		for j, s := range live {
			cells[j] = s.cells[i]
		}
		r.Rows[i] = report.Row{Index: i + 1, Cells: cells}
	}
	return r
}

// lockedWriter serializes trace writes from concurrent workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
