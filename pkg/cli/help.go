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
	"fmt"
	"io"
)

// Example represents a usage example.
type Example struct {
	Description string
	Command     string
}

// Flag represents a command-line flag.
type Flag struct {
	Name        string
	Short       string
	Description string
	Default     string
	Required    bool
	// Notes are printed on their own lines below the description.
	Notes []string
}

// HelpFormatter formats help output.
type HelpFormatter struct {
	AppName     string
	AppVersion  string
	Description string
	Usage       string
	Flags       []Flag
	Examples    []Example
}

// NewHelpFormatter creates a new help formatter.
func NewHelpFormatter(appName, version string) *HelpFormatter {
	return &HelpFormatter{
		AppName:    appName,
		AppVersion: version,
	}
}

// AddFlag adds a flag to the help output.
func (h *HelpFormatter) AddFlag(f Flag) *HelpFormatter {
	h.Flags = append(h.Flags, f)
	return h
}

// AddExample adds a usage example.
func (h *HelpFormatter) AddExample(description, command string) *HelpFormatter {
	h.Examples = append(h.Examples, Example{Description: description, Command: command})
	return h
}

// PrintVersion writes version information.
func (h *HelpFormatter) PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "%s version %s\n", h.AppName, h.AppVersion)
}

// PrintUsage writes the full help text.
func (h *HelpFormatter) PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n", Highlight(h.AppName+" - "+h.Description))
	fmt.Fprintf(w, "Version: %s\n\n", h.AppVersion)

	fmt.Fprintf(w, "%s\n", Highlight("USAGE:"))
	fmt.Fprintf(w, "  %s\n\n", h.Usage)

	if len(h.Flags) > 0 {
		fmt.Fprintf(w, "%s\n", Highlight("FLAGS:"))
		for _, f := range h.Flags {
			flagStr := fmt.Sprintf("    --%s", f.Name)
			if f.Short != "" {
				flagStr = fmt.Sprintf("-%s, --%s", f.Short, f.Name)
			}

			defaultStr := ""
			if f.Default != "" {
				defaultStr = fmt.Sprintf(" (default: %s)", f.Default)
			}

			reqStr := ""
			if f.Required {
				reqStr = colorize(Red, " [required]")
			}

			fmt.Fprintf(w, "  %-20s  %s%s%s\n", flagStr, f.Description, defaultStr, reqStr)
			for _, note := range f.Notes {
				fmt.Fprintf(w, "  %-20s  %s\n", "", Dimmed(note))
			}
		}
		fmt.Fprintln(w)
	}

	if len(h.Examples) > 0 {
		fmt.Fprintf(w, "%s\n", Highlight("EXAMPLES:"))
		for _, ex := range h.Examples {
			fmt.Fprintf(w, "  %s\n", Dimmed("# "+ex.Description))
			fmt.Fprintf(w, "  %s\n\n", Info(ex.Command))
		}
	}
}
