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
Package logging provides component-scoped structured logging for seeksim.

Each subsystem (coordinator, one logger per policy worker, the CLI) obtains a
Logger via NewLogger(component). Messages carry optional key/value fields and
are written either as text lines:

	2026-01-02 15:04:05.000 [INFO ] [coordinator] run complete policies=3

or, in JSON mode, as one Entry object per line. Output, level and mode are
process-wide and safe for concurrent use by many goroutines.
*/
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sugawarayuuta/sonnet"
)

// Level is a log severity.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name, defaulting to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// ValidLevel reports whether s names a known level.
func ValidLevel(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		return true
	}
	return false
}

// Entry is the JSON form of one log line.
type Entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Component string                 `json:"component"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

var (
	globalMu     sync.Mutex
	globalOutput io.Writer = os.Stderr
	globalLevel            = INFO
	jsonMode     bool
)

// SetGlobalOutput redirects all loggers.
func SetGlobalOutput(w io.Writer) {
	globalMu.Lock()
	globalOutput = w
	globalMu.Unlock()
}

// SetGlobalLevel sets the minimum level written by all loggers.
func SetGlobalLevel(level Level) {
	globalMu.Lock()
	globalLevel = level
	globalMu.Unlock()
}

// GlobalLevel returns the current minimum level.
func GlobalLevel() Level {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalLevel
}

// SetJSONMode switches between text and JSON output.
func SetJSONMode(enabled bool) {
	globalMu.Lock()
	jsonMode = enabled
	globalMu.Unlock()
}

// Logger writes messages for one component.
type Logger struct {
	component string
	fields    []interface{}
}

// NewLogger creates a logger for the named component.
func NewLogger(component string) *Logger {
	return &Logger{component: component}
}

// With returns a logger that adds the given key/value pairs to every message.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	fields := make([]interface{}, 0, len(l.fields)+len(keyvals))
	fields = append(fields, l.fields...)
	fields = append(fields, keyvals...)
	return &Logger{component: l.component, fields: fields}
}

// Enabled reports whether a message at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= GlobalLevel()
}

func (l *Logger) Debug(msg string, keyvals ...interface{}) { l.log(DEBUG, msg, keyvals) }
func (l *Logger) Info(msg string, keyvals ...interface{})  { l.log(INFO, msg, keyvals) }
func (l *Logger) Warn(msg string, keyvals ...interface{})  { l.log(WARN, msg, keyvals) }
func (l *Logger) Error(msg string, keyvals ...interface{}) { l.log(ERROR, msg, keyvals) }

func (l *Logger) log(level Level, msg string, keyvals []interface{}) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if level < globalLevel {
		return
	}

	kv := make([]interface{}, 0, len(l.fields)+len(keyvals))
	kv = append(kv, l.fields...)
	kv = append(kv, keyvals...)
	now := time.Now()

	if jsonMode {
		entry := Entry{
			Timestamp: now.Format(time.RFC3339Nano),
			Level:     level.String(),
			Component: l.component,
			Message:   msg,
			Fields:    toFields(kv),
		}
		data, err := sonnet.Marshal(entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
			return
		}
		globalOutput.Write(append(data, '\n'))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%-5s] [%s] %s", now.Format("2006-01-02 15:04:05.000"), level, l.component, msg)
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, " %v=<missing>", kv[i])
		}
	}
	b.WriteByte('\n')
	io.WriteString(globalOutput, b.String())
}

func toFields(kv []interface{}) map[string]interface{} {
	if len(kv) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 < len(kv) {
			fields[key] = fieldValue(kv[i+1])
		} else {
			fields[key] = nil
		}
	}
	return fields
}

// fieldValue keeps JSON-native values and stringifies the rest (errors,
// durations, Stringers).
func fieldValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil, string, bool, int, int64, float64:
		return val
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
