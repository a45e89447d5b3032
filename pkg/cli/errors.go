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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	simerrors "seeksim/internal/errors"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// CLIError represents a CLI error with suggestions.
type CLIError struct {
	Message     string
	Detail      string
	Suggestions []string
	ExitCode    int
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Fprint writes the error with formatting.
func (e *CLIError) Fprint(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", colorize(Red, "✗"), Error(e.Message))

	if e.Detail != "" {
		fmt.Fprintf(w, "  %s\n", Dimmed(e.Detail))
	}

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(w, "\n  %s\n", Highlight("Suggestions:"))
		for _, s := range e.Suggestions {
			fmt.Fprintf(w, "    • %s\n", s)
		}
	}
}

// Exit prints the error to Stderr and exits with the error code.
func (e *CLIError) Exit() {
	e.Fprint(Stderr)
	os.Exit(e.ExitCode)
}

// NewCLIError creates a new CLI error.
func NewCLIError(message string) *CLIError {
	return &CLIError{
		Message:  message,
		ExitCode: ExitFailure,
	}
}

// WithDetail adds detail to the error.
func (e *CLIError) WithDetail(detail string) *CLIError {
	e.Detail = detail
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithExitCode sets the exit code.
func (e *CLIError) WithExitCode(code int) *CLIError {
	e.ExitCode = code
	return e
}

// FromError converts err into a CLIError. Simulator errors keep their
// message, detail and hint; configuration errors exit with ExitUsage.
func FromError(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var simErr *simerrors.SimError
	if !errors.As(err, &simErr) {
		return NewCLIError(err.Error())
	}

	out := NewCLIError(simErr.Message).WithDetail(simErr.Detail)
	if simErr.Hint != "" {
		out.WithSuggestion(simErr.Hint)
	}
	if simErr.Cause != nil && !strings.Contains(simErr.Detail, simErr.Cause.Error()) {
		out.WithSuggestion("cause: " + simErr.Cause.Error())
	}
	if simerrors.IsConfigError(err) {
		out.WithExitCode(ExitUsage)
	}
	return out
}

// ErrMissingArgument creates a missing argument error.
func ErrMissingArgument(arg, usage string) *CLIError {
	return NewCLIError(fmt.Sprintf("Missing required argument: %s", arg)).
		WithSuggestion(fmt.Sprintf("Usage: %s", usage)).
		WithExitCode(ExitUsage)
}

// ErrInvalidValue creates an invalid value error.
func ErrInvalidValue(field, value, reason string) *CLIError {
	return NewCLIError(fmt.Sprintf("Invalid value for %s: %s", field, value)).
		WithDetail(reason).
		WithExitCode(ExitUsage)
}

// ErrConfigNotFound creates a config file not found error.
func ErrConfigNotFound(path string) *CLIError {
	return NewCLIError("Configuration file not found").
		WithDetail(fmt.Sprintf("Could not find: %s", path)).
		WithSuggestion("Create one with --save-config or use command-line flags").
		WithSuggestion("Run with --help to see available options").
		WithExitCode(ExitUsage)
}
