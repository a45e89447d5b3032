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
	"sync"
	"time"
)

// SpinnerFrames defines the animation frames for the spinner.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner redraws one status line until stopped. The line carries a message
// and, once SetProgress has been called, a step counter with a label.
type Spinner struct {
	out      io.Writer
	interval time.Duration

	mu      sync.Mutex
	message string
	label   string
	done    int
	total   int
	frame   int
	running bool
	stop    chan struct{}
	exited  chan struct{}
}

// NewSpinnerTo creates a spinner that draws on w.
func NewSpinnerTo(w io.Writer, message string) *Spinner {
	return &Spinner{out: w, message: message, interval: 80 * time.Millisecond}
}

// Start draws the first frame and keeps animating until Stop.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.exited = make(chan struct{})
	s.draw()

	go s.loop(s.stop, s.exited)
}

func (s *Spinner) loop(stop <-chan struct{}, exited chan<- struct{}) {
	defer close(exited)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.draw()
			s.mu.Unlock()
		}
	}
}

// draw writes the current frame. Callers hold s.mu.
func (s *Spinner) draw() {
	line := colorize(Cyan, SpinnerFrames[s.frame%len(SpinnerFrames)]) + " " + s.message
	if s.total > 0 {
		line += Dimmed(fmt.Sprintf(" [%d/%d]", s.done, s.total))
	}
	if s.label != "" {
		line += " " + s.label
	}
	fmt.Fprint(s.out, "\r\033[K"+line)
	s.frame++
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	exited := s.exited
	s.mu.Unlock()

	<-exited
	fmt.Fprint(s.out, "\r\033[K")
}

// UpdateMessage replaces the message shown after the frame.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// SetProgress records that done of total steps have finished, the latest
// being label. It is safe to call from any goroutine.
func (s *Spinner) SetProgress(done, total int, label string) {
	s.mu.Lock()
	s.done, s.total, s.label = done, total, label
	s.mu.Unlock()
}
