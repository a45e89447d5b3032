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
Package cli provides the terminal helpers used by the seeksim command.

This package includes:
  - Color and styling utilities, enabled only on a terminal
  - A box table renderer for simulation reports
  - Interactive policy selection with tab completion
  - A spinner shown while the workers run
  - User facing errors with suggestions
*/
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes for terminal output.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

// Output destinations. Tests swap them for buffers.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// colorsEnabled controls whether colors are output.
var colorsEnabled = true

func init() {
	colorsEnabled = os.Getenv("NO_COLOR") == "" && IsTerminal(os.Stdout)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of the terminal on stdout, or fallback
// when stdout is not a terminal.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// SetColorsEnabled enables or disables color output.
func SetColorsEnabled(enabled bool) {
	colorsEnabled = enabled
}

// ColorsEnabled returns whether colors are enabled.
func ColorsEnabled() bool {
	return colorsEnabled
}

func colorize(color, text string) string {
	if !colorsEnabled {
		return text
	}
	return color + text + Reset
}

// Success formats text as a success message (green).
func Success(text string) string { return colorize(Green, text) }

// Error formats text as an error message (red).
func Error(text string) string { return colorize(Red, text) }

// Warning formats text as a warning message (yellow).
func Warning(text string) string { return colorize(Yellow, text) }

// Info formats text as an info message (cyan).
func Info(text string) string { return colorize(Cyan, text) }

// Highlight formats text as bold.
func Highlight(text string) string { return colorize(Bold, text) }

// Dimmed formats text as dimmed.
func Dimmed(text string) string { return colorize(Dim, text) }

// PrintSuccess prints a success message with icon.
func PrintSuccess(format string, args ...interface{}) {
	fmt.Fprintf(Stdout, "%s %s\n", colorize(Green, "✓"), Success(fmt.Sprintf(format, args...)))
}

// PrintError prints an error message with icon to Stderr.
func PrintError(format string, args ...interface{}) {
	fmt.Fprintf(Stderr, "%s %s\n", colorize(Red, "✗"), Error(fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message with icon.
func PrintWarning(format string, args ...interface{}) {
	fmt.Fprintf(Stdout, "%s %s\n", colorize(Yellow, "⚠"), Warning(fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message with icon.
func PrintInfo(format string, args ...interface{}) {
	fmt.Fprintf(Stdout, "%s %s\n", colorize(Cyan, "ℹ"), Info(fmt.Sprintf(format, args...)))
}

// Separator returns a horizontal line separator.
func Separator(width int) string {
	return strings.Repeat("─", width)
}
