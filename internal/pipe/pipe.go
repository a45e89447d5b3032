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
Package pipe provides the synchronization channel between the coordinator and
one policy worker.

Channel Layout:
===============

  coordinator                          worker
  -----------                          ------
  Send    ---- down (unbuffered) ---->  Accept
  Receive <--- up   (unbuffered) -----  Emit
  Advance ---- gate (unbuffered) ---->  Await

Every operation is a rendezvous: a frame is never in flight without both
sides present, so the coordinator knows a batch was taken once Send returns.

The gate carries the phase the coordinator is entering. The worker names the
phase it expects; a different phase is a protocol violation.

Interruption:
=============

Interrupt closes the channel's interrupt signal. Every pending and future
operation on either side returns ErrInterrupted. Interrupt is idempotent and
may be called from any goroutine.
*/
package pipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Errors
var (
	ErrInterrupted   = errors.New("channel interrupted")
	ErrPhaseMismatch = errors.New("phase mismatch")
)

// Phase identifies a step of the coordinator/worker protocol.
type Phase uint8

const (
	PhaseConfigure Phase = iota
	PhaseStream
	PhaseResults
	PhaseSummary
)

func (p Phase) String() string {
	switch p {
	case PhaseConfigure:
		return "configure"
	case PhaseStream:
		return "stream"
	case PhaseResults:
		return "results"
	case PhaseSummary:
		return "summary"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Kind identifies the payload of a Frame.
type Kind uint8

const (
	KindSink Kind = iota + 1
	KindStart
	KindBatchSize
	KindVerbose
	KindBatch
	KindResult
	KindMeanMoves
	KindMeanTime
)

var kindNames = map[Kind]string{
	KindSink:      "sink",
	KindStart:     "start",
	KindBatchSize: "batch-size",
	KindVerbose:   "verbose",
	KindBatch:     "batch",
	KindResult:    "result",
	KindMeanMoves: "mean-moves",
	KindMeanTime:  "mean-time",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Frame is one message on the channel. Only the fields for its Kind are set.
type Frame struct {
	Kind Kind

	// Sink receives the verbose per-hop trace (KindSink).
	Sink io.Writer

	// Value carries KindStart, KindBatchSize, KindVerbose (0 or 1),
	// KindMeanMoves and KindMeanTime (nanoseconds).
	Value int64

	// Tracks carries one batch of requests (KindBatch).
	Tracks []int

	// Track and Moves carry one visit result (KindResult).
	Track int
	Moves int
}

// SinkFrame returns a frame carrying the trace writer.
func SinkFrame(w io.Writer) Frame { return Frame{Kind: KindSink, Sink: w} }

// ValueFrame returns a scalar frame of the given kind.
func ValueFrame(k Kind, v int64) Frame { return Frame{Kind: k, Value: v} }

// BatchFrame returns a frame carrying a copy of tracks.
func BatchFrame(tracks []int) Frame {
	return Frame{Kind: KindBatch, Tracks: append([]int(nil), tracks...)}
}

// ResultFrame returns a frame carrying one visit result.
func ResultFrame(track, moves int) Frame {
	return Frame{Kind: KindResult, Track: track, Moves: moves}
}

// Channel connects the coordinator to exactly one worker.
type Channel struct {
	down chan Frame
	up   chan Frame
	gate chan Phase

	interrupt chan struct{}
	once      sync.Once
	stopped   atomic.Bool
}

// New creates an open channel.
func New() *Channel {
	return &Channel{
		down:      make(chan Frame),
		up:        make(chan Frame),
		gate:      make(chan Phase),
		interrupt: make(chan struct{}),
	}
}

// Interrupt wakes every pending operation on both sides with ErrInterrupted.
func (c *Channel) Interrupt() {
	c.once.Do(func() {
		c.stopped.Store(true)
		close(c.interrupt)
	})
}

// Interrupted reports whether Interrupt has been called.
func (c *Channel) Interrupted() bool {
	return c.stopped.Load()
}

// Done is closed when the channel is interrupted.
func (c *Channel) Done() <-chan struct{} {
	return c.interrupt
}

// Send hands f to the worker, blocking until the worker accepts it.
func (c *Channel) Send(ctx context.Context, f Frame) error {
	return c.put(ctx, c.down, f)
}

// Receive takes the next frame emitted by the worker.
func (c *Channel) Receive(ctx context.Context) (Frame, error) {
	return c.take(ctx, c.up)
}

// Accept takes the next frame sent by the coordinator.
func (c *Channel) Accept(ctx context.Context) (Frame, error) {
	return c.take(ctx, c.down)
}

// Emit hands f to the coordinator, blocking until it is received.
func (c *Channel) Emit(ctx context.Context, f Frame) error {
	return c.put(ctx, c.up, f)
}

// Advance releases the worker waiting at phase p.
func (c *Channel) Advance(ctx context.Context, p Phase) error {
	if c.stopped.Load() {
		return ErrInterrupted
	}
	select {
	case c.gate <- p:
		return nil
	case <-c.interrupt:
		return ErrInterrupted
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Await blocks until the coordinator advances to phase p.
func (c *Channel) Await(ctx context.Context, p Phase) error {
	if c.stopped.Load() {
		return ErrInterrupted
	}
	select {
	case got := <-c.gate:
		if got != p {
			return fmt.Errorf("%w: waiting for %s, coordinator entered %s", ErrPhaseMismatch, p, got)
		}
		return nil
	case <-c.interrupt:
		return ErrInterrupted
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Channel) put(ctx context.Context, ch chan<- Frame, f Frame) error {
	if c.stopped.Load() {
		return ErrInterrupted
	}
	select {
	case ch <- f:
		return nil
	case <-c.interrupt:
		return ErrInterrupted
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Channel) take(ctx context.Context, ch <-chan Frame) (Frame, error) {
	if c.stopped.Load() {
		return Frame{}, ErrInterrupted
	}
	select {
	case f := <-ch:
		return f, nil
	case <-c.interrupt:
		return Frame{}, ErrInterrupted
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}
