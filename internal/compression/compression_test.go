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

package compression

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCompression(t *testing.T) {
	config := DefaultConfig()
	config.MinSize = 0 // Compress everything for testing

	testData := []byte(strings.Repeat("|   98 |   45 |   65 |   12 |\n", 200))

	algorithms := []Algorithm{
		AlgorithmNone,
		AlgorithmGzip,
		AlgorithmLZ4,
		AlgorithmSnappy,
		AlgorithmZstd,
	}

	for _, algo := range algorithms {
		t.Run(algo.String(), func(t *testing.T) {
			config.Algorithm = algo
			compressor := NewCompressor(config)

			compressed, err := compressor.Compress(testData)
			if err != nil {
				t.Fatalf("failed to compress with %s: %v", algo, err)
			}
			if Algorithm(compressed[0]) != algo {
				t.Errorf("expected header %d, got %d", algo, compressed[0])
			}
			if algo != AlgorithmNone && len(compressed) >= len(testData) {
				t.Errorf("%s did not shrink repetitive data: %d >= %d", algo, len(compressed), len(testData))
			}

			decompressed, err := NewCompressor(DefaultConfig()).Decompress(compressed)
			if err != nil {
				t.Fatalf("failed to decompress with %s: %v", algo, err)
			}

			if !bytes.Equal(testData, decompressed) {
				t.Errorf("decompressed data does not match original for %s", algo)
			}
		})
	}
}

func TestSmallPayloadStoredRaw(t *testing.T) {
	config := DefaultConfig()
	config.Algorithm = AlgorithmZstd
	config.MinSize = 1024

	compressed, err := NewCompressor(config).Compress([]byte("short"))
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if Algorithm(compressed[0]) != AlgorithmNone {
		t.Errorf("expected raw header, got %s", Algorithm(compressed[0]))
	}
}

func TestDecompressErrors(t *testing.T) {
	c := NewCompressor(DefaultConfig())

	if _, err := c.Decompress(nil); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("expected ErrInvalidHeader for empty input, got %v", err)
	}
	if _, err := c.Decompress([]byte{42, 1, 2}); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("expected ErrInvalidHeader for unknown algorithm, got %v", err)
	}
	if _, err := c.Decompress([]byte{byte(AlgorithmSnappy), 0xff, 0xff}); !errors.Is(err, ErrDecompressFailed) {
		t.Errorf("expected ErrDecompressFailed for corrupt payload, got %v", err)
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input   string
		want    Algorithm
		wantErr bool
	}{
		{"", AlgorithmNone, false},
		{"none", AlgorithmNone, false},
		{"gzip", AlgorithmGzip, false},
		{"lz4", AlgorithmLZ4, false},
		{"snappy", AlgorithmSnappy, false},
		{"zstd", AlgorithmZstd, false},
		{"brotli", AlgorithmNone, true},
	}

	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAlgorithm(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseAlgorithm(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestExtension(t *testing.T) {
	if AlgorithmNone.Extension() != "" {
		t.Error("expected no extension for uncompressed output")
	}
	if AlgorithmZstd.Extension() != ".zst" {
		t.Errorf("unexpected zstd extension: %s", AlgorithmZstd.Extension())
	}
}
