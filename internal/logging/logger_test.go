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

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level.String() = %v, want %v", got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DEBUG},
		{"debug", DEBUG},
		{"INFO", INFO},
		{"info", INFO},
		{"WARN", WARN},
		{"warn", WARN},
		{"WARNING", WARN},
		{"ERROR", ERROR},
		{"error", ERROR},
		{"unknown", INFO}, // default
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLoggerTextOutput(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalOutput(&buf)
	SetGlobalLevel(DEBUG)
	SetJSONMode(false)

	logger := NewLogger("coordinator")
	logger.Info("run complete", "policies", "SCAN")

	output := buf.String()
	if !strings.Contains(output, "[INFO ]") {
		t.Errorf("Expected [INFO ] in output, got: %s", output)
	}
	if !strings.Contains(output, "[coordinator]") {
		t.Errorf("Expected [coordinator] in output, got: %s", output)
	}
	if !strings.Contains(output, "run complete") {
		t.Errorf("Expected 'run complete' in output, got: %s", output)
	}
	if !strings.Contains(output, "policies=SCAN") {
		t.Errorf("Expected 'policies=SCAN' in output, got: %s", output)
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalOutput(&buf)
	SetGlobalLevel(DEBUG)
	SetJSONMode(true)

	logger := NewLogger("coordinator")
	logger.Info("run complete", "policies", "SCAN")

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Expected level INFO, got: %s", entry.Level)
	}
	if entry.Component != "coordinator" {
		t.Errorf("Expected component 'coordinator', got: %s", entry.Component)
	}
	if entry.Message != "run complete" {
		t.Errorf("Expected message 'run complete', got: %s", entry.Message)
	}
	if entry.Fields["policies"] != "SCAN" {
		t.Errorf("Expected field policies=SCAN, got: %v", entry.Fields)
	}

	// Reset to text mode
	SetJSONMode(false)
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalOutput(&buf)
	SetGlobalLevel(WARN)
	SetJSONMode(false)

	logger := NewLogger("policy")
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Error("DEBUG message should be filtered out")
	}
	if strings.Contains(output, "info message") {
		t.Error("INFO message should be filtered out")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("WARN message should be present")
	}
	if !strings.Contains(output, "error message") {
		t.Error("ERROR message should be present")
	}

	// Reset level
	SetGlobalLevel(INFO)
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalOutput(&buf)
	SetGlobalLevel(DEBUG)
	SetJSONMode(false)

	logger := NewLogger("worker")
	ctxLogger := logger.With("policy", "C-SCAN", "start", 53)
	ctxLogger.Info("state change")

	output := buf.String()
	if !strings.Contains(output, "policy=C-SCAN") {
		t.Errorf("Expected 'policy=C-SCAN' in output, got: %s", output)
	}
	if !strings.Contains(output, "start=53") {
		t.Errorf("Expected 'start=53' in output, got: %s", output)
	}

	// With must not leak fields back into the parent
	buf.Reset()
	logger.Info("plain")
	if strings.Contains(buf.String(), "policy=") {
		t.Errorf("Parent logger picked up child fields: %s", buf.String())
	}
}

func TestJSONFieldValues(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalOutput(&buf)
	SetGlobalLevel(DEBUG)
	SetJSONMode(true)
	defer SetJSONMode(false)

	NewLogger("worker").Error("worker faulted", "err", errors.New("wait interrupted"), "dangling")

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Fields["err"] != "wait interrupted" {
		t.Errorf("Expected error field to be stringified, got: %v", entry.Fields["err"])
	}
	if v, ok := entry.Fields["dangling"]; !ok || v != nil {
		t.Errorf("Expected dangling key with null value, got: %v", entry.Fields)
	}
}

func TestValidLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "warning", "error"} {
		if !ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = false, want true", s)
		}
	}
	if ValidLevel("verbose") {
		t.Error("ValidLevel(\"verbose\") = true, want false")
	}
}

