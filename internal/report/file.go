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

package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"seeksim/internal/compression"
	simerrors "seeksim/internal/errors"
)

// Format selects how a report is encoded.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// ParseFormat parses a report format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatSQLite:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown report format: %s", s)
	}
}

// Encode writes r to w in a stream format.
func Encode(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatText:
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	default:
		return fmt.Errorf("format %s cannot be streamed", format)
	}
}

// Options controls WriteFile.
type Options struct {
	Format      Format
	Compression compression.Algorithm
}

// WriteFile writes r to path and returns the path actually written, which
// carries the compression suffix when compression is enabled.
func WriteFile(ctx context.Context, path string, r *Report, opts Options) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", simerrors.OutputFailed(path, err)
		}
	}

	if opts.Format == FormatSQLite {
		if opts.Compression != compression.AlgorithmNone {
			return "", simerrors.OutputFailed(path, fmt.Errorf("sqlite output cannot be compressed"))
		}
		if err := WriteSQLite(ctx, path, r); err != nil {
			return "", simerrors.OutputFailed(path, err)
		}
		return path, nil
	}

	var buf bytes.Buffer
	if err := Encode(&buf, r, opts.Format); err != nil {
		return "", simerrors.OutputFailed(path, err)
	}

	data := buf.Bytes()
	if opts.Compression != compression.AlgorithmNone {
		cfg := compression.DefaultConfig()
		cfg.Algorithm = opts.Compression
		cfg.MinSize = 0
		compressed, err := compression.NewCompressor(cfg).Compress(data)
		if err != nil {
			return "", simerrors.OutputFailed(path, err)
		}
		data = compressed
		path += opts.Compression.Extension()
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", simerrors.OutputFailed(path, err)
	}
	return path, nil
}

// ReadFile loads a text or JSON report file written by WriteFile, undoing
// compression when the file name carries a known suffix. Text reports are
// returned as raw bytes in the second result.
func ReadFile(path string) (*Report, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	for _, algo := range []compression.Algorithm{
		compression.AlgorithmGzip,
		compression.AlgorithmLZ4,
		compression.AlgorithmSnappy,
		compression.AlgorithmZstd,
	} {
		if strings.HasSuffix(path, algo.Extension()) {
			if data, err = compression.NewCompressor(compression.DefaultConfig()).Decompress(data); err != nil {
				return nil, nil, err
			}
			path = strings.TrimSuffix(path, algo.Extension())
			break
		}
	}
	if strings.HasSuffix(path, ".json") {
		r, err := ReadJSON(data)
		return r, data, err
	}
	return nil, data, nil
}
