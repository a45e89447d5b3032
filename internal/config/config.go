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
Package config manages seeksim run configuration.

Configuration Sources:
======================

Values are resolved in increasing order of precedence:

 1. Built-in defaults (DefaultConfig)
 2. A configuration file in a TOML subset (key = value, # comments)
 3. Environment variables (SEEKSIM_*)
 4. Command-line flags, applied by the caller on the returned Config

Example file:

	# seeksim.conf
	input = "input.txt"
	output = "output.txt"
	policies = ["FIFO", "SSTF", "C-SCAN"]
	start = 53
	batch = 5
	requests = 1000
	log_level = "info"
*/
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	simerrors "seeksim/internal/errors"
	"seeksim/internal/logging"
	"seeksim/internal/seek"
)

// Environment variable names.
const (
	EnvInput       = "SEEKSIM_INPUT"
	EnvGenerate    = "SEEKSIM_GENERATE"
	EnvOutput      = "SEEKSIM_OUTPUT"
	EnvFormat      = "SEEKSIM_FORMAT"
	EnvCompression = "SEEKSIM_COMPRESSION"
	EnvStart       = "SEEKSIM_START"
	EnvBatch       = "SEEKSIM_BATCH"
	EnvRequests    = "SEEKSIM_REQUESTS"
	EnvPolicies    = "SEEKSIM_POLICIES"
	EnvVerbose     = "SEEKSIM_VERBOSE"
	EnvSeed        = "SEEKSIM_SEED"
	EnvLogLevel    = "SEEKSIM_LOG_LEVEL"
	EnvLogJSON     = "SEEKSIM_LOG_JSON"
)

// Defaults.
const (
	DefaultStart    = 100
	DefaultBatch    = 5
	DefaultRequests = 1000
)

// Config holds every setting of one simulation run.
type Config struct {
	Input       string   `toml:"input"`
	Generate    string   `toml:"generate"`
	Output      string   `toml:"output"`
	Format      string   `toml:"format"`
	Compression string   `toml:"compression"`
	Start       int      `toml:"start"`
	Batch       int      `toml:"batch"`
	Requests    int      `toml:"requests"`
	Policies    []string `toml:"policies"`
	Verbose     bool     `toml:"verbose"`
	Seed        int64    `toml:"seed"`
	LogLevel    string   `toml:"log_level"`
	LogJSON     bool     `toml:"log_json"`

	ConfigFile string `toml:"-"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Input:       "input.txt",
		Output:      "output.txt",
		Format:      "text",
		Compression: "none",
		Start:       DefaultStart,
		Batch:       DefaultBatch,
		Requests:    DefaultRequests,
		LogLevel:    "info",
	}
}

// Validate checks the surface-level settings. Policy names are validated by
// the coordinator, which owns the set of known policies.
func (c *Config) Validate() error {
	if c.Requests <= 0 {
		return simerrors.InvalidRequestCount(c.Requests)
	}
	if c.Batch <= 0 || c.Requests%c.Batch != 0 {
		return simerrors.BatchNotDivisor(c.Batch, c.Requests)
	}
	if !seek.Valid(c.Start) {
		return simerrors.StartOutOfRange(c.Start, seek.MinTrack, seek.MaxTrack)
	}
	switch c.Generate {
	case "", "random", "alternate":
	default:
		return simerrors.NewConfigError(fmt.Sprintf("invalid generate method: %s", c.Generate)).
			WithHint("Possible methods are random and alternate")
	}
	switch c.Format {
	case "text", "json", "sqlite":
	default:
		return simerrors.NewConfigError(fmt.Sprintf("invalid format: %s", c.Format)).
			WithHint("Possible formats are text, json and sqlite")
	}
	switch c.Compression {
	case "", "none", "gzip", "lz4", "snappy", "zstd":
	default:
		return simerrors.NewConfigError(fmt.Sprintf("invalid compression: %s", c.Compression))
	}
	if c.Format == "sqlite" && c.Compression != "" && c.Compression != "none" {
		return simerrors.NewConfigError("sqlite output cannot be compressed")
	}
	if c.Input == "" && c.Generate == "" {
		return simerrors.NewConfigError("input file is required").
			WithHint("Use -i to name an input file or -g to generate one")
	}
	if c.Output == "" {
		return simerrors.NewConfigError("output file is required")
	}
	if !logging.ValidLevel(c.LogLevel) {
		return simerrors.NewConfigError(fmt.Sprintf("invalid log level: %s", c.LogLevel))
	}
	return nil
}

// ToTOML renders the config in the file format LoadFromFile reads.
func (c *Config) ToTOML() string {
	var b strings.Builder
	b.WriteString("# seeksim configuration\n")
	fmt.Fprintf(&b, "input = %q\n", c.Input)
	if c.Generate != "" {
		fmt.Fprintf(&b, "generate = %q\n", c.Generate)
	}
	fmt.Fprintf(&b, "output = %q\n", c.Output)
	fmt.Fprintf(&b, "format = %q\n", c.Format)
	fmt.Fprintf(&b, "compression = %q\n", c.Compression)
	fmt.Fprintf(&b, "start = %d\n", c.Start)
	fmt.Fprintf(&b, "batch = %d\n", c.Batch)
	fmt.Fprintf(&b, "requests = %d\n", c.Requests)
	quoted := make([]string, len(c.Policies))
	for i, p := range c.Policies {
		quoted[i] = strconv.Quote(p)
	}
	fmt.Fprintf(&b, "policies = [%s]\n", strings.Join(quoted, ", "))
	fmt.Fprintf(&b, "verbose = %t\n", c.Verbose)
	if c.Seed != 0 {
		fmt.Fprintf(&b, "seed = %d\n", c.Seed)
	}
	fmt.Fprintf(&b, "log_level = %q\n", c.LogLevel)
	fmt.Fprintf(&b, "log_json = %t\n", c.LogJSON)
	return b.String()
}

// SaveToFile writes the config to path, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(c.ToTOML()), 0644)
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Policies: %s, Start: %d, Batch: %d, Requests: %d, Input: %s, Output: %s, Format: %s}",
		strings.Join(c.Policies, ","), c.Start, c.Batch, c.Requests, c.Input, c.Output, c.Format)
}

func (c *Config) clone() *Config {
	cp := *c
	cp.Policies = append([]string(nil), c.Policies...)
	return &cp
}

// Manager owns the active configuration and its reload callbacks.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a manager holding DefaultConfig.
func NewManager() *Manager {
	return &Manager{config: DefaultConfig()}
}

var (
	globalOnce    sync.Once
	globalManager *Manager
)

// Global returns the process-wide manager.
func Global() *Manager {
	globalOnce.Do(func() {
		globalManager = NewManager()
	})
	return globalManager
}

// Get returns a copy of the active configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.clone()
}

// OnReload registers a callback invoked after every successful Reload.
func (m *Manager) OnReload(fn func(*Config)) {
	m.mu.Lock()
	m.callbacks = append(m.callbacks, fn)
	m.mu.Unlock()
}

// LoadFromFile applies the settings in path on top of the active config.
func (m *Manager) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m.mu.Lock()
	defer m.mu.Unlock()
	cfg := m.config.clone()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("%s:%d: expected key = value", path, lineNo)
		}
		if err := cfg.set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.ConfigFile = path
	m.config = cfg
	return nil
}

// LoadFromEnv applies SEEKSIM_* variables on top of the active config.
// Malformed numeric or boolean values are ignored.
func (m *Manager) LoadFromEnv() {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg := m.config

	if v := os.Getenv(EnvInput); v != "" {
		cfg.Input = v
	}
	if v := os.Getenv(EnvGenerate); v != "" {
		cfg.Generate = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv(EnvCompression); v != "" {
		cfg.Compression = v
	}
	if v, err := strconv.Atoi(os.Getenv(EnvStart)); err == nil {
		cfg.Start = v
	}
	if v, err := strconv.Atoi(os.Getenv(EnvBatch)); err == nil {
		cfg.Batch = v
	}
	if v, err := strconv.Atoi(os.Getenv(EnvRequests)); err == nil {
		cfg.Requests = v
	}
	if v := os.Getenv(EnvPolicies); v != "" {
		cfg.Policies = SplitList(v)
	}
	if v, err := strconv.ParseBool(os.Getenv(EnvVerbose)); err == nil {
		cfg.Verbose = v
	}
	if v, err := strconv.ParseInt(os.Getenv(EnvSeed), 10, 64); err == nil {
		cfg.Seed = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v, err := strconv.ParseBool(os.Getenv(EnvLogJSON)); err == nil {
		cfg.LogJSON = v
	}
}

// Reload re-reads the last loaded file, re-applies the environment and runs
// the registered callbacks.
func (m *Manager) Reload() error {
	m.mu.RLock()
	path := m.config.ConfigFile
	m.mu.RUnlock()
	if path == "" {
		return fmt.Errorf("no configuration file loaded")
	}

	fresh := NewManager()
	if err := fresh.LoadFromFile(path); err != nil {
		return err
	}
	fresh.LoadFromEnv()
	cfg := fresh.Get()

	m.mu.Lock()
	m.config = cfg
	callbacks := append([]func(*Config){}, m.callbacks...)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg.clone())
	}
	return nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "input":
		c.Input = unquote(value)
	case "generate":
		c.Generate = unquote(value)
	case "output":
		c.Output = unquote(value)
	case "format":
		c.Format = unquote(value)
	case "compression":
		c.Compression = unquote(value)
	case "start":
		return setInt(&c.Start, key, value)
	case "batch":
		return setInt(&c.Batch, key, value)
	case "requests":
		return setInt(&c.Requests, key, value)
	case "policies":
		c.Policies = parseList(value)
	case "verbose":
		return setBool(&c.Verbose, key, value)
	case "seed":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %s", key, value)
		}
		c.Seed = v
	case "log_level":
		c.LogLevel = unquote(value)
	case "log_json":
		return setBool(&c.LogJSON, key, value)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func setInt(dst *int, key, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %s", key, value)
	}
	*dst = v
	return nil
}

func setBool(dst *bool, key, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %s", key, value)
	}
	*dst = v
	return nil
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}

// parseList accepts either a TOML array of strings or a bare comma list.
func parseList(value string) []string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		value = value[1 : len(value)-1]
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = unquote(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// SplitList splits a comma separated policy list, dropping empty items.
func SplitList(s string) []string {
	return parseList(s)
}
