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
Package tracks reads and generates request streams.

A stream file holds one track number per line. Surrounding whitespace is
ignored, as are blank lines. Every other line must be an integer in
seek.MinTrack..seek.MaxTrack.

Generation Methods:
===================

  - random:    every track uniform over the track space
  - alternate: locality model; each track lies close to its predecessor.
               For offsets 0..99 a draw succeeds with probability
               (100-offset)/1000, tried from the nearest offset outward.
               The first success moves up or down by that offset, wrapping
               inside the track space. If no draw succeeds the track is
               MinTrack.
*/
package tracks

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	simerrors "seeksim/internal/errors"
	"seeksim/internal/seek"
)

// Method names a generation method.
type Method string

const (
	Random    Method = "random"
	Alternate Method = "alternate"
)

// ParseMethod parses a generation method name.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case Random, Alternate:
		return m, nil
	default:
		return "", simerrors.NewConfigError(fmt.Sprintf("invalid generate method: %s", s)).
			WithHint("Possible methods are random and alternate")
	}
}

// Source yields the request stream one batch at a time.
type Source interface {
	NextBatch(n int) ([]int, error)
}

// Reader parses a stream of total requests from an io.Reader.
type Reader struct {
	sc     *bufio.Scanner
	closer io.Closer
	line   int
	read   int
	total  int
}

// NewReader reads total requests from r.
func NewReader(r io.Reader, total int) *Reader {
	return &Reader{sc: bufio.NewScanner(r), total: total}
}

// Open reads total requests from the file at path.
func Open(path string, total int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, simerrors.NewStreamError(fmt.Sprintf("cannot open input file %s", path)).WithCause(err)
	}
	r := NewReader(f, total)
	r.closer = f
	return r, nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// NextBatch returns the next n tracks. Asking past total, or reaching the end
// of input early, is a short stream error.
func (r *Reader) NextBatch(n int) ([]int, error) {
	if r.read+n > r.total {
		return nil, simerrors.ShortStream(r.read, r.total)
	}
	batch := make([]int, 0, n)
	for len(batch) < n {
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return nil, simerrors.NewStreamError("cannot read input").WithCause(err)
			}
			return nil, simerrors.ShortStream(r.read, r.total)
		}
		r.line++
		text := strings.TrimSpace(r.sc.Text())
		if text == "" {
			continue
		}
		track, err := strconv.Atoi(text)
		if err != nil {
			return nil, simerrors.NonNumericTrack(r.line, text)
		}
		if !seek.Valid(track) {
			return nil, simerrors.TrackOutOfRange(r.line, track, seek.MinTrack, seek.MaxTrack)
		}
		batch = append(batch, track)
		r.read++
	}
	return batch, nil
}

// Slice serves a stream held in memory.
type Slice struct {
	tracks []int
	pos    int
}

// FromSlice returns a Source over tracks.
func FromSlice(tracks []int) *Slice {
	return &Slice{tracks: tracks}
}

// NextBatch returns the next n tracks.
func (s *Slice) NextBatch(n int) ([]int, error) {
	if s.pos+n > len(s.tracks) {
		return nil, simerrors.ShortStream(s.pos, len(s.tracks))
	}
	for i, t := range s.tracks[s.pos : s.pos+n] {
		if !seek.Valid(t) {
			return nil, simerrors.TrackOutOfRange(s.pos+i+1, t, seek.MinTrack, seek.MaxTrack)
		}
	}
	batch := append([]int(nil), s.tracks[s.pos:s.pos+n]...)
	s.pos += n
	return batch, nil
}

// Generate returns n tracks produced by method. A zero seed uses the clock.
func Generate(method Method, n int, seed int64) ([]int, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	out := make([]int, n)
	if n == 0 {
		return out, nil
	}
	out[0] = uniform(rng)
	for i := 1; i < n; i++ {
		switch method {
		case Random:
			out[i] = uniform(rng)
		case Alternate:
			out[i] = near(rng, out[i-1])
		default:
			return nil, fmt.Errorf("unknown generate method: %s", method)
		}
	}
	return out, nil
}

func uniform(rng *rand.Rand) int {
	return rng.Intn(seek.Tracks) + seek.MinTrack
}

func near(rng *rand.Rand, prev int) int {
	for offset := 0; offset < 100; offset++ {
		if rng.Float64() > float64(100-offset)/1000 {
			continue
		}
		next := prev + offset
		if rng.Intn(2) == 1 {
			next = prev - offset
		}
		switch {
		case next < seek.MinTrack:
			next += seek.Tracks
		case next > seek.MaxTrack:
			next -= seek.Tracks
		}
		return next
	}
	return seek.MinTrack
}

// Write writes tracks one per line.
func Write(w io.Writer, tracks []int) error {
	bw := bufio.NewWriter(w)
	for _, t := range tracks {
		bw.WriteString(strconv.Itoa(t))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteFile writes tracks to path, replacing any existing file.
func WriteFile(path string, tracks []int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, tracks); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
