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
Package errors provides structured error handling for seeksim.

Every failure the simulator can surface falls into one of four categories:

  - ConfigError: invalid policies, batch size, start track or request count,
    detected before any worker is spawned
  - StreamError: malformed or short track request streams; abort the whole run
  - CoordinationError: an interrupted or violated handshake between the
    coordinator and one worker; fatal to that worker only
  - OutputError: the report could not be rendered or written

Errors carry a numeric code for programmatic handling, a user-facing message,
optional detail and hint text, and an optional wrapped cause.
*/
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier.
type ErrorCode int

const (
	// Configuration errors (1000-1999)
	ErrCodeConfig              ErrorCode = 1000
	ErrCodeUnknownPolicy       ErrorCode = 1001
	ErrCodeDuplicatePolicy     ErrorCode = 1002
	ErrCodeNoPolicies          ErrorCode = 1003
	ErrCodeTooManyPolicies     ErrorCode = 1004
	ErrCodeBatchNotDivisor     ErrorCode = 1005
	ErrCodeStartOutOfRange     ErrorCode = 1006
	ErrCodeInvalidRequestCount ErrorCode = 1007

	// Stream errors (2000-2999)
	ErrCodeStream          ErrorCode = 2000
	ErrCodeShortStream     ErrorCode = 2001
	ErrCodeNonNumericTrack ErrorCode = 2002
	ErrCodeTrackOutOfRange ErrorCode = 2003

	// Coordination errors (3000-3999)
	ErrCodeCoordination      ErrorCode = 3000
	ErrCodeInterrupted       ErrorCode = 3001
	ErrCodeProtocolViolation ErrorCode = 3002

	// Output errors (4000-4999)
	ErrCodeOutput       ErrorCode = 4000
	ErrCodeOutputFailed ErrorCode = 4001
)

// Category represents the error category.
type Category string

const (
	CategoryConfig       Category = "CONFIG"
	CategoryStream       Category = "STREAM"
	CategoryCoordination Category = "COORDINATION"
	CategoryOutput       Category = "OUTPUT"
)

// SimError represents a structured error in seeksim.
type SimError struct {
	Code     ErrorCode
	Category Category
	Message  string
	Detail   string
	Hint     string
	Cause    error
}

// Error implements the error interface.
func (e *SimError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ERROR %d (%s): %s - %s", e.Code, e.Category, e.Message, e.Detail)
	}
	return fmt.Sprintf("ERROR %d (%s): %s", e.Code, e.Category, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SimError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly error message.
func (e *SimError) UserMessage() string {
	msg := fmt.Sprintf("ERROR: %s", e.Message)
	if e.Detail != "" {
		msg += fmt.Sprintf(" (%s)", e.Detail)
	}
	if e.Hint != "" {
		msg += fmt.Sprintf("\nHINT: %s", e.Hint)
	}
	return msg
}

// WithDetail adds detail to the error.
func (e *SimError) WithDetail(detail string) *SimError {
	e.Detail = detail
	return e
}

// WithHint adds a hint to the error.
func (e *SimError) WithHint(hint string) *SimError {
	e.Hint = hint
	return e
}

// WithCause adds a cause to the error.
func (e *SimError) WithCause(cause error) *SimError {
	e.Cause = cause
	return e
}

// ============================================================================
// Configuration Error Constructors
// ============================================================================

// NewConfigError creates a new configuration error.
func NewConfigError(message string) *SimError {
	return &SimError{
		Code:     ErrCodeConfig,
		Category: CategoryConfig,
		Message:  message,
	}
}

// UnknownPolicy creates an error for a policy name that is not recognised.
func UnknownPolicy(name string, known []string) *SimError {
	return &SimError{
		Code:     ErrCodeUnknownPolicy,
		Category: CategoryConfig,
		Message:  fmt.Sprintf("%s is not a valid policy", name),
		Hint:     fmt.Sprintf("Possible policies are %s", strings.Join(known, ", ")),
	}
}

// DuplicatePolicy creates an error for a policy requested more than once.
func DuplicatePolicy(name string) *SimError {
	return &SimError{
		Code:     ErrCodeDuplicatePolicy,
		Category: CategoryConfig,
		Message:  "duplicate policies are not allowed",
		Detail:   fmt.Sprintf("there is more than one %s in the policy list", name),
	}
}

// NoPolicies creates an error for an empty policy list.
func NoPolicies() *SimError {
	return &SimError{
		Code:     ErrCodeNoPolicies,
		Category: CategoryConfig,
		Message:  "at least one policy is required",
		Hint:     "Use -p with a comma separated list, e.g. 'FIFO,C-SCAN,SSTF'",
	}
}

// TooManyPolicies creates an error for a policy list above the supported maximum.
func TooManyPolicies(count, limit int) *SimError {
	return &SimError{
		Code:     ErrCodeTooManyPolicies,
		Category: CategoryConfig,
		Message:  "too many policies",
		Detail:   fmt.Sprintf("%d requested, at most %d supported", count, limit),
	}
}

// BatchNotDivisor creates an error for a batch size that does not evenly
// divide the request count.
func BatchNotDivisor(batch, total int) *SimError {
	return &SimError{
		Code:     ErrCodeBatchNotDivisor,
		Category: CategoryConfig,
		Message:  fmt.Sprintf("batch size %d does not evenly divide %d requests", batch, total),
		Hint:     "Choose a positive batch size that divides the request count",
	}
}

// StartOutOfRange creates an error for a start track outside the track space.
func StartOutOfRange(start, lo, hi int) *SimError {
	return &SimError{
		Code:     ErrCodeStartOutOfRange,
		Category: CategoryConfig,
		Message:  fmt.Sprintf("start track %d is out of range", start),
		Detail:   fmt.Sprintf("start track must be between %d-%d", lo, hi),
	}
}

// InvalidRequestCount creates an error for a non-positive request count.
func InvalidRequestCount(count int) *SimError {
	return &SimError{
		Code:     ErrCodeInvalidRequestCount,
		Category: CategoryConfig,
		Message:  fmt.Sprintf("invalid request count: %d", count),
		Detail:   "request count must be positive",
	}
}

// ============================================================================
// Stream Error Constructors
// ============================================================================

// NewStreamError creates a new stream error.
func NewStreamError(message string) *SimError {
	return &SimError{
		Code:     ErrCodeStream,
		Category: CategoryStream,
		Message:  message,
	}
}

// ShortStream creates an error for a stream that ended before enough requests.
func ShortStream(got, want int) *SimError {
	return &SimError{
		Code:     ErrCodeShortStream,
		Category: CategoryStream,
		Message:  "track request stream ended early",
		Detail:   fmt.Sprintf("read %d of %d requests", got, want),
		Hint:     "Regenerate the input with -g random or -g alternate",
	}
}

// NonNumericTrack creates an error for a line that is not an integer.
func NonNumericTrack(line int, text string) *SimError {
	return &SimError{
		Code:     ErrCodeNonNumericTrack,
		Category: CategoryStream,
		Message:  fmt.Sprintf("line %d is not a track number", line),
		Detail:   fmt.Sprintf("got %q", text),
	}
}

// TrackOutOfRange creates an error for a track outside the track space.
func TrackOutOfRange(line, track, lo, hi int) *SimError {
	return &SimError{
		Code:     ErrCodeTrackOutOfRange,
		Category: CategoryStream,
		Message:  fmt.Sprintf("line %d: track %d is out of range", line, track),
		Detail:   fmt.Sprintf("tracks must be between %d-%d", lo, hi),
	}
}

// ============================================================================
// Coordination Error Constructors
// ============================================================================

// NewCoordinationError creates a new coordination error.
func NewCoordinationError(message string) *SimError {
	return &SimError{
		Code:     ErrCodeCoordination,
		Category: CategoryCoordination,
		Message:  message,
	}
}

// Interrupted creates an error for a worker whose channel wait was interrupted.
func Interrupted(policy, step string) *SimError {
	return &SimError{
		Code:     ErrCodeInterrupted,
		Category: CategoryCoordination,
		Message:  fmt.Sprintf("%s: wait interrupted", policy),
		Detail:   step,
	}
}

// ProtocolViolation creates an error for an out-of-order or malformed frame.
func ProtocolViolation(policy, detail string) *SimError {
	return &SimError{
		Code:     ErrCodeProtocolViolation,
		Category: CategoryCoordination,
		Message:  fmt.Sprintf("%s: protocol violation", policy),
		Detail:   detail,
	}
}

// ============================================================================
// Output Error Constructors
// ============================================================================

// OutputFailed creates an error for a report that could not be written.
func OutputFailed(target string, cause error) *SimError {
	return &SimError{
		Code:     ErrCodeOutputFailed,
		Category: CategoryOutput,
		Message:  fmt.Sprintf("failed to write report to %s", target),
		Cause:    cause,
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

func categoryOf(err error) (Category, bool) {
	var e *SimError
	if stderrors.As(err, &e) {
		return e.Category, true
	}
	return "", false
}

// IsConfigError checks if an error is a configuration error.
func IsConfigError(err error) bool {
	c, ok := categoryOf(err)
	return ok && c == CategoryConfig
}

// IsStreamError checks if an error is a stream error.
func IsStreamError(err error) bool {
	c, ok := categoryOf(err)
	return ok && c == CategoryStream
}

// IsCoordinationError checks if an error is a coordination error.
func IsCoordinationError(err error) bool {
	c, ok := categoryOf(err)
	return ok && c == CategoryCoordination
}

// GetCode returns the error code if err is (or wraps) a SimError, or 0 otherwise.
func GetCode(err error) ErrorCode {
	var e *SimError
	if stderrors.As(err, &e) {
		return e.Code
	}
	return 0
}

// FormatError formats an error for user display.
func FormatError(err error) string {
	var e *SimError
	if stderrors.As(err, &e) {
		return e.UserMessage()
	}
	return fmt.Sprintf("ERROR: %v", err)
}
