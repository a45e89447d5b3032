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
Package compression compresses report files written by seeksim.

Supported Algorithms:
=====================

 1. Gzip:   standard library deflate, widest tool support
 2. LZ4:    fast compression/decompression, moderate ratio
 3. Snappy: very fast, lower ratio
 4. Zstd:   best ratio, configurable speed/ratio tradeoff

Framing:
========

Compressed payloads carry a one byte header naming the algorithm, so
Decompress needs no out-of-band configuration:

	+--------+----------------...
	|  Algo  |  payload
	+--------+----------------...

Payloads below MinSize are stored with AlgorithmNone.
*/
package compression

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm represents a compression algorithm
type Algorithm int

const (
	AlgorithmNone Algorithm = iota
	AlgorithmGzip
	AlgorithmLZ4
	AlgorithmSnappy
	AlgorithmZstd
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "none"
	case AlgorithmGzip:
		return "gzip"
	case AlgorithmLZ4:
		return "lz4"
	case AlgorithmSnappy:
		return "snappy"
	case AlgorithmZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Extension returns the file suffix for output compressed with a.
func (a Algorithm) Extension() string {
	switch a {
	case AlgorithmGzip:
		return ".gz"
	case AlgorithmLZ4:
		return ".lz4"
	case AlgorithmSnappy:
		return ".sz"
	case AlgorithmZstd:
		return ".zst"
	default:
		return ""
	}
}

// ParseAlgorithm parses a compression algorithm from string
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "none", "":
		return AlgorithmNone, nil
	case "gzip":
		return AlgorithmGzip, nil
	case "lz4":
		return AlgorithmLZ4, nil
	case "snappy":
		return AlgorithmSnappy, nil
	case "zstd":
		return AlgorithmZstd, nil
	default:
		return AlgorithmNone, fmt.Errorf("unknown compression algorithm: %s", s)
	}
}

// Level represents compression level
type Level int

const (
	LevelFastest Level = 1
	LevelDefault Level = 5
	LevelBest    Level = 9
)

// Config holds compression configuration
type Config struct {
	Algorithm Algorithm `json:"algorithm"`
	Level     Level     `json:"level"`
	MinSize   int       `json:"min_size"` // Minimum size to compress
}

// DefaultConfig returns the report writer defaults.
func DefaultConfig() Config {
	return Config{
		Algorithm: AlgorithmGzip,
		Level:     LevelDefault,
		MinSize:   64,
	}
}

// Errors
var (
	ErrInvalidHeader    = errors.New("invalid compression header")
	ErrUnsupportedAlgo  = errors.New("unsupported compression algorithm")
	ErrDecompressFailed = errors.New("decompression failed")
)

// Compressor provides compression/decompression operations
type Compressor struct {
	config     Config
	gzipPool   sync.Pool
	bufferPool sync.Pool

	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
	zstdErr  error
}

// NewCompressor creates a new compressor
func NewCompressor(config Config) *Compressor {
	return &Compressor{
		config: config,
		gzipPool: sync.Pool{
			New: func() interface{} {
				w, err := gzip.NewWriterLevel(nil, int(config.Level))
				if err != nil {
					w = gzip.NewWriter(nil)
				}
				return w
			},
		},
		bufferPool: sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

// Algorithm returns the configured algorithm.
func (c *Compressor) Algorithm() Algorithm { return c.config.Algorithm }

// Compress returns data framed with its algorithm header.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	algo := c.config.Algorithm
	if len(data) < c.config.MinSize {
		algo = AlgorithmNone
	}

	var payload []byte
	var err error
	switch algo {
	case AlgorithmNone:
		payload = data
	case AlgorithmGzip:
		payload, err = c.gzip(data)
	case AlgorithmLZ4:
		payload, err = c.lz4(data)
	case AlgorithmSnappy:
		payload = snappy.Encode(nil, data)
	case AlgorithmZstd:
		if err = c.initZstd(); err == nil {
			payload = c.zstdEnc.EncodeAll(data, nil)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAlgo, algo)
	}
	if err != nil {
		return nil, fmt.Errorf("%s compression failed: %w", algo, err)
	}

	out := make([]byte, 0, len(payload)+1)
	out = append(out, byte(algo))
	return append(out, payload...), nil
}

// Decompress reverses Compress.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrInvalidHeader
	}
	algo, payload := Algorithm(data[0]), data[1:]

	var out []byte
	var err error
	switch algo {
	case AlgorithmNone:
		return append([]byte(nil), payload...), nil
	case AlgorithmGzip:
		var r *gzip.Reader
		if r, err = gzip.NewReader(bytes.NewReader(payload)); err == nil {
			out, err = io.ReadAll(r)
		}
	case AlgorithmLZ4:
		out, err = io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
	case AlgorithmSnappy:
		out, err = snappy.Decode(nil, payload)
	case AlgorithmZstd:
		if err = c.initZstd(); err == nil {
			out, err = c.zstdDec.DecodeAll(payload, nil)
		}
	default:
		return nil, fmt.Errorf("%w: header %d", ErrInvalidHeader, data[0])
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecompressFailed, algo, err)
	}
	return out, nil
}

func (c *Compressor) gzip(data []byte) ([]byte, error) {
	buf := c.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer c.bufferPool.Put(buf)

	w := c.gzipPool.Get().(*gzip.Writer)
	defer c.gzipPool.Put(w)
	w.Reset(buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.Bytes()...), nil
}

func (c *Compressor) lz4(data []byte) ([]byte, error) {
	buf := c.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer c.bufferPool.Put(buf)

	w := lz4.NewWriter(buf)
	if c.config.Level >= LevelBest {
		if err := w.Apply(lz4.CompressionLevelOption(lz4.Level9)); err != nil {
			return nil, err
		}
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.Bytes()...), nil
}

func (c *Compressor) initZstd() error {
	c.zstdOnce.Do(func() {
		level := zstd.SpeedDefault
		switch {
		case c.config.Level <= LevelFastest:
			level = zstd.SpeedFastest
		case c.config.Level >= LevelBest:
			level = zstd.SpeedBestCompression
		}
		c.zstdEnc, c.zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
		if c.zstdErr != nil {
			return
		}
		c.zstdDec, c.zstdErr = zstd.NewReader(nil)
	})
	return c.zstdErr
}
