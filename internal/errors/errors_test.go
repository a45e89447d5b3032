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

package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSimErrorBasic(t *testing.T) {
	err := NewConfigError("bad config")

	if err.Code != ErrCodeConfig {
		t.Errorf("Expected code %d, got %d", ErrCodeConfig, err.Code)
	}
	if err.Category != CategoryConfig {
		t.Errorf("Expected category %s, got %s", CategoryConfig, err.Category)
	}
	if !strings.Contains(err.Error(), "bad config") {
		t.Errorf("Expected error message to contain 'bad config', got: %s", err.Error())
	}
}

func TestSimErrorWithDetail(t *testing.T) {
	err := NewStreamError("stream failed").WithDetail("line 4")

	if err.Detail != "line 4" {
		t.Errorf("Expected detail 'line 4', got: %s", err.Detail)
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Errorf("Expected error to contain detail, got: %s", err.Error())
	}
}

func TestSimErrorWithHint(t *testing.T) {
	err := NoPolicies()

	userMsg := err.UserMessage()
	if !strings.Contains(userMsg, "HINT:") {
		t.Errorf("Expected user message to contain HINT, got: %s", userMsg)
	}
	if !strings.Contains(userMsg, "FIFO,C-SCAN,SSTF") {
		t.Errorf("Expected hint in user message, got: %s", userMsg)
	}
}

func TestSimErrorWithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := OutputFailed("out.txt", cause)

	if err.Unwrap() != cause {
		t.Error("Expected Unwrap to return the cause")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
}

func TestConfigErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *SimError
		code     ErrorCode
		category Category
	}{
		{"UnknownPolicy", UnknownPolicy("EDF", []string{"FIFO"}), ErrCodeUnknownPolicy, CategoryConfig},
		{"DuplicatePolicy", DuplicatePolicy("SCAN"), ErrCodeDuplicatePolicy, CategoryConfig},
		{"NoPolicies", NoPolicies(), ErrCodeNoPolicies, CategoryConfig},
		{"TooManyPolicies", TooManyPolicies(9, 8), ErrCodeTooManyPolicies, CategoryConfig},
		{"BatchNotDivisor", BatchNotDivisor(7, 1000), ErrCodeBatchNotDivisor, CategoryConfig},
		{"StartOutOfRange", StartOutOfRange(0, 1, 200), ErrCodeStartOutOfRange, CategoryConfig},
		{"InvalidRequestCount", InvalidRequestCount(-1), ErrCodeInvalidRequestCount, CategoryConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Expected code %d, got %d", tt.code, tt.err.Code)
			}
			if tt.err.Category != tt.category {
				t.Errorf("Expected category %s, got %s", tt.category, tt.err.Category)
			}
		})
	}
}

func TestStreamAndCoordinationConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *SimError
		code     ErrorCode
		category Category
	}{
		{"ShortStream", ShortStream(10, 1000), ErrCodeShortStream, CategoryStream},
		{"NonNumericTrack", NonNumericTrack(3, "abc"), ErrCodeNonNumericTrack, CategoryStream},
		{"TrackOutOfRange", TrackOutOfRange(3, 300, 1, 200), ErrCodeTrackOutOfRange, CategoryStream},
		{"Interrupted", Interrupted("SCAN", "accept batch"), ErrCodeInterrupted, CategoryCoordination},
		{"ProtocolViolation", ProtocolViolation("SCAN", "unexpected frame"), ErrCodeProtocolViolation, CategoryCoordination},
		{"OutputFailed", OutputFailed("x", nil), ErrCodeOutputFailed, CategoryOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Expected code %d, got %d", tt.code, tt.err.Code)
			}
			if tt.err.Category != tt.category {
				t.Errorf("Expected category %s, got %s", tt.category, tt.err.Category)
			}
		})
	}
}

func TestErrorCategoryChecks(t *testing.T) {
	configErr := NewConfigError("test")
	streamErr := NewStreamError("test")
	coordErr := NewCoordinationError("test")

	if !IsConfigError(configErr) {
		t.Error("Expected IsConfigError to return true for config error")
	}
	if IsConfigError(streamErr) {
		t.Error("Expected IsConfigError to return false for stream error")
	}
	if !IsStreamError(streamErr) {
		t.Error("Expected IsStreamError to return true for stream error")
	}
	if !IsCoordinationError(coordErr) {
		t.Error("Expected IsCoordinationError to return true for coordination error")
	}

	wrapped := fmt.Errorf("run failed: %w", streamErr)
	if !IsStreamError(wrapped) {
		t.Error("Expected IsStreamError to see through wrapping")
	}
}

func TestGetCode(t *testing.T) {
	err := ShortStream(1, 2)
	if GetCode(err) != ErrCodeShortStream {
		t.Errorf("Expected code %d, got %d", ErrCodeShortStream, GetCode(err))
	}

	regularErr := errors.New("regular error")
	if GetCode(regularErr) != 0 {
		t.Errorf("Expected code 0 for regular error, got %d", GetCode(regularErr))
	}
}

func TestFormatError(t *testing.T) {
	simErr := NewConfigError("test error")
	formatted := FormatError(simErr)
	if !strings.HasPrefix(formatted, "ERROR:") {
		t.Errorf("Expected formatted error to start with 'ERROR:', got: %s", formatted)
	}

	regularErr := errors.New("regular error")
	formatted = FormatError(regularErr)
	if !strings.Contains(formatted, "regular error") {
		t.Errorf("Expected formatted error to contain message, got: %s", formatted)
	}
}
