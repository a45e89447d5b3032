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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	simerrors "seeksim/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Start != 100 {
		t.Errorf("Expected default start 100, got %d", cfg.Start)
	}
	if cfg.Batch != 5 {
		t.Errorf("Expected default batch 5, got %d", cfg.Batch)
	}
	if cfg.Requests != 1000 {
		t.Errorf("Expected default requests 1000, got %d", cfg.Requests)
	}
	if cfg.Input != "input.txt" {
		t.Errorf("Expected default input 'input.txt', got '%s'", cfg.Input)
	}
	if cfg.Output != "output.txt" {
		t.Errorf("Expected default output 'output.txt', got '%s'", cfg.Output)
	}
	if cfg.Format != "text" {
		t.Errorf("Expected default format 'text', got '%s'", cfg.Format)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log_level 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.Verbose {
		t.Error("Expected verbose to default to false")
	}
}

func TestConfigValidation(t *testing.T) {
	base := func(mut func(c *Config)) *Config {
		c := DefaultConfig()
		c.Policies = []string{"FIFO"}
		mut(c)
		return c
	}

	tests := []struct {
		name     string
		cfg      *Config
		wantErr  bool
		wantCode simerrors.ErrorCode
	}{
		{"valid defaults", base(func(c *Config) {}), false, 0},
		{"valid generate", base(func(c *Config) { c.Generate = "alternate"; c.Input = "" }), false, 0},
		{"valid json gzip", base(func(c *Config) { c.Format = "json"; c.Compression = "gzip" }), false, 0},
		{"start too low", base(func(c *Config) { c.Start = 0 }), true, simerrors.ErrCodeStartOutOfRange},
		{"start too high", base(func(c *Config) { c.Start = 201 }), true, simerrors.ErrCodeStartOutOfRange},
		{"batch zero", base(func(c *Config) { c.Batch = 0 }), true, simerrors.ErrCodeBatchNotDivisor},
		{"batch not divisor", base(func(c *Config) { c.Batch = 7 }), true, simerrors.ErrCodeBatchNotDivisor},
		{"requests zero", base(func(c *Config) { c.Requests = 0 }), true, simerrors.ErrCodeInvalidRequestCount},
		{"bad generate", base(func(c *Config) { c.Generate = "gaussian" }), true, simerrors.ErrCodeConfig},
		{"bad format", base(func(c *Config) { c.Format = "xml" }), true, simerrors.ErrCodeConfig},
		{"bad compression", base(func(c *Config) { c.Compression = "brotli" }), true, simerrors.ErrCodeConfig},
		{"compressed sqlite", base(func(c *Config) { c.Format = "sqlite"; c.Compression = "zstd" }), true, simerrors.ErrCodeConfig},
		{"no input", base(func(c *Config) { c.Input = "" }), true, simerrors.ErrCodeConfig},
		{"bad log level", base(func(c *Config) { c.LogLevel = "loud" }), true, simerrors.ErrCodeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && simerrors.GetCode(err) != tt.wantCode {
				t.Errorf("Validate() code = %d, want %d", simerrors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `# Test configuration
input = "tracks.txt"
output = "/tmp/report.txt"
format = "json"
compression = "zstd"
policies = ["FIFO", "SSTF", "C-SCAN"]
start = 53
batch = 8
requests = 8
verbose = true
seed = 42
log_level = "debug"
log_json = true
`
	configPath := filepath.Join(tmpDir, "seeksim.conf")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	mgr := NewManager()
	if err := mgr.LoadFromFile(configPath); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	cfg := mgr.Get()

	if cfg.Input != "tracks.txt" {
		t.Errorf("Expected input 'tracks.txt', got '%s'", cfg.Input)
	}
	if cfg.Output != "/tmp/report.txt" {
		t.Errorf("Expected output '/tmp/report.txt', got '%s'", cfg.Output)
	}
	if cfg.Format != "json" || cfg.Compression != "zstd" {
		t.Errorf("Expected json/zstd, got %s/%s", cfg.Format, cfg.Compression)
	}
	if strings.Join(cfg.Policies, ",") != "FIFO,SSTF,C-SCAN" {
		t.Errorf("Expected policies FIFO,SSTF,C-SCAN, got %v", cfg.Policies)
	}
	if cfg.Start != 53 || cfg.Batch != 8 || cfg.Requests != 8 {
		t.Errorf("Expected start/batch/requests 53/8/8, got %d/%d/%d", cfg.Start, cfg.Batch, cfg.Requests)
	}
	if !cfg.Verbose || !cfg.LogJSON {
		t.Errorf("Expected verbose and log_json true, got %v/%v", cfg.Verbose, cfg.LogJSON)
	}
	if cfg.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", cfg.Seed)
	}
	if cfg.ConfigFile != configPath {
		t.Errorf("Expected ConfigFile '%s', got '%s'", configPath, cfg.ConfigFile)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "speed = 3\n"},
		{"missing equals", "start 5\n"},
		{"bad int", "batch = five\n"},
		{"bad bool", "verbose = maybe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, strings.ReplaceAll(tt.name, " ", "_")+".conf")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if err := NewManager().LoadFromFile(path); err == nil {
				t.Error("Expected LoadFromFile to fail")
			}
		})
	}

	if err := NewManager().LoadFromFile(filepath.Join(tmpDir, "missing.conf")); err == nil {
		t.Error("Expected LoadFromFile to fail for a missing file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvStart, "77")
	t.Setenv(EnvPolicies, "SCAN, FSCAN")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogJSON, "true")
	t.Setenv(EnvVerbose, "1")
	t.Setenv(EnvBatch, "not-a-number")

	mgr := NewManager()
	mgr.LoadFromEnv()

	cfg := mgr.Get()

	if cfg.Start != 77 {
		t.Errorf("Expected start 77 from env, got %d", cfg.Start)
	}
	if strings.Join(cfg.Policies, ",") != "SCAN,FSCAN" {
		t.Errorf("Expected policies SCAN,FSCAN from env, got %v", cfg.Policies)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log_level 'debug' from env, got '%s'", cfg.LogLevel)
	}
	if !cfg.LogJSON || !cfg.Verbose {
		t.Errorf("Expected log_json and verbose true from env, got %v/%v", cfg.LogJSON, cfg.Verbose)
	}
	if cfg.Batch != DefaultBatch {
		t.Errorf("Expected malformed batch to be ignored, got %d", cfg.Batch)
	}
}

func TestConfigPrecedence(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `start = 90
batch = 10
`
	configPath := filepath.Join(tmpDir, "seeksim.conf")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv(EnvStart, "12")

	mgr := NewManager()
	if err := mgr.LoadFromFile(configPath); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	mgr.LoadFromEnv()

	cfg := mgr.Get()

	// Env var should override file value
	if cfg.Start != 12 {
		t.Errorf("Expected start 12 (env override), got %d", cfg.Start)
	}
	if cfg.Batch != 10 {
		t.Errorf("Expected batch 10 from file, got %d", cfg.Batch)
	}
}

func TestSaveToFileRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Start = 53
	cfg.Policies = []string{"N-STEP-SCAN", "LIFO"}
	cfg.Seed = 7

	configPath := filepath.Join(tmpDir, "subdir", "seeksim.conf")
	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	mgr := NewManager()
	if err := mgr.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	loaded := mgr.Get()
	if loaded.Start != 53 {
		t.Errorf("Expected start 53, got %d", loaded.Start)
	}
	if strings.Join(loaded.Policies, ",") != "N-STEP-SCAN,LIFO" {
		t.Errorf("Expected policies N-STEP-SCAN,LIFO, got %v", loaded.Policies)
	}
	if loaded.Seed != 7 {
		t.Errorf("Expected seed 7, got %d", loaded.Seed)
	}
}

func TestReload(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "seeksim.conf")
	if err := os.WriteFile(configPath, []byte("start = 10\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	mgr := NewManager()
	if err := mgr.LoadFromFile(configPath); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	var reloaded *Config
	mgr.OnReload(func(c *Config) {
		reloaded = c
	})

	if err := os.WriteFile(configPath, []byte("start = 20\nlog_level = \"debug\"\n"), 0644); err != nil {
		t.Fatalf("Failed to update config file: %v", err)
	}
	if err := mgr.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if cfg := mgr.Get(); cfg.Start != 20 || cfg.LogLevel != "debug" {
		t.Errorf("Expected reloaded start 20 / debug, got %d / %s", cfg.Start, cfg.LogLevel)
	}
	if reloaded == nil || reloaded.Start != 20 {
		t.Error("Reload callback was not called with the new config")
	}

	if err := NewManager().Reload(); err == nil {
		t.Error("Expected Reload without a loaded file to fail")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	mgr := NewManager()
	cfg := mgr.Get()
	cfg.Start = 1
	cfg.Policies = append(cfg.Policies, "FIFO")

	if again := mgr.Get(); again.Start != DefaultStart || len(again.Policies) != 0 {
		t.Error("Mutating the result of Get changed the manager's config")
	}
}

func TestGlobalManager(t *testing.T) {
	mgr := Global()
	if mgr == nil {
		t.Fatal("Global() returned nil")
	}
	if mgr != Global() {
		t.Error("Global() returned different instances")
	}
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policies = []string{"FIFO", "SCAN"}
	str := cfg.String()

	if !strings.Contains(str, "Policies: FIFO,SCAN") {
		t.Errorf("String() missing policies: %s", str)
	}
	if !strings.Contains(str, "Start: 100") {
		t.Errorf("String() missing start: %s", str)
	}
}
