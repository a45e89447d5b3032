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
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ErrPromptAborted is returned when the user leaves a prompt with Ctrl-C or
// Ctrl-D.
var ErrPromptAborted = errors.New("prompt aborted")

// ListCompleter completes the last entry of a comma separated list against a
// fixed set of words, case-insensitively.
type ListCompleter struct {
	Words []string
}

// Do implements readline.AutoCompleter.
func (c ListCompleter) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	start := strings.LastIndexAny(head, ", ") + 1
	partial := strings.ToUpper(head[start:])

	var out [][]rune
	for _, w := range c.Words {
		if strings.HasPrefix(strings.ToUpper(w), partial) {
			out = append(out, []rune(w[len(partial):]))
		}
	}
	return out, len([]rune(partial))
}

// PromptList reads one comma separated list from the terminal. validate is
// called on every non-empty answer; a validation error is shown and the
// prompt repeats.
func PromptList(prompt string, words []string, validate func([]string) error) ([]string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		AutoComplete:    ListCompleter{Words: words},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          Stdout,
		Stderr:          Stderr,
	})
	if err != nil {
		return nil, err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil, ErrPromptAborted
		}
		if err != nil {
			return nil, err
		}
		items := SplitList(line)
		if len(items) == 0 {
			continue
		}
		if validate != nil {
			if err := validate(items); err != nil {
				PrintWarning("%v", err)
				continue
			}
		}
		return items, nil
	}
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
