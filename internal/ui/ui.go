// Package ui provides unified console output for the expressgen CLI.
//
// Overview:
//   - Responsibility: Leveled messages, phase step indicators, run summaries
//   - Key Types: OutputLevel, Message
//   - Concurrency Model: Thread-safe output operations
//   - Error Semantics: Output failures are reported on stderr and otherwise ignored
//   - Performance Notes: One formatted write per message
//
// Usage:
//
//	ui.Info("Creating project: %s", name)
//	ui.Step(3, 11, "Installing base dependencies")
//	ui.Error("Failed to install dependencies: %v", err)
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	verbose    bool
	jsonOutput bool
	stdout     io.Writer = os.Stdout
	stderr     io.Writer = os.Stderr
	mu         sync.RWMutex
)

// OutputLevel represents the severity level of a message.
type OutputLevel string

const (
	LevelDebug   OutputLevel = "debug"
	LevelInfo    OutputLevel = "info"
	LevelWarning OutputLevel = "warning"
	LevelError   OutputLevel = "error"
	LevelSuccess OutputLevel = "success"
)

// Message represents a structured output message.
//
// Parameters:
//   - Level: Message severity level
//   - Text: Human-readable message content
//   - Data: Optional structured data for JSON output
//   - Timestamp: When the message was created
//
// Concurrency:
//   - Immutable after creation
type Message struct {
	Level     OutputLevel `json:"level"`
	Text      string      `json:"text"`
	Data      any         `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// SetVerbose enables or disables debug messages.
func SetVerbose(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = enabled
}

// SetJSONOutput enables JSON-formatted output.
func SetJSONOutput(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonOutput = enabled
}

// SetWriters redirects regular and error output.
//
// Parameters:
//   - out: Destination for debug/info/warning/success messages
//   - errOut: Destination for error messages
//
// Returns:
//   - func(): Restores the previous writers
//
// Concurrency:
//   - Thread-safe
func SetWriters(out, errOut io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()
	prevOut, prevErr := stdout, stderr
	stdout, stderr = out, errOut
	return func() {
		mu.Lock()
		defer mu.Unlock()
		stdout, stderr = prevOut, prevErr
	}
}

// output writes a message to the appropriate output stream.
//
// Parameters:
//   - level: Message severity level
//   - data: Optional structured payload (JSON mode only)
//   - format: Printf-style format string
//   - args: Format arguments
//
// Concurrency:
//   - Thread-safe
func output(level OutputLevel, data any, format string, args ...any) {
	mu.RLock()
	useJSON := jsonOutput
	useVerbose := verbose
	out, errOut := stdout, stderr
	mu.RUnlock()

	if level == LevelDebug && !useVerbose {
		return
	}

	text := fmt.Sprintf(format, args...)

	if useJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		msg := Message{Level: level, Text: text, Data: data, Timestamp: time.Now()}
		if err := encoder.Encode(msg); err != nil {
			fmt.Fprintf(errOut, "Failed to encode JSON output: %v\n", err)
		}
		return
	}

	writer := out
	if level == LevelError {
		writer = errOut
	}

	var prefix string
	switch level {
	case LevelDebug:
		prefix = "🔍 DEBUG:"
	case LevelInfo:
		prefix = "ℹ️  INFO:"
	case LevelWarning:
		prefix = "⚠️  WARN:"
	case LevelError:
		prefix = "❌ ERROR:"
	case LevelSuccess:
		prefix = "✅ SUCCESS:"
	}

	fmt.Fprintf(writer, "%s %s\n", prefix, text)
}

// Debug outputs a debug message, shown only in verbose mode.
func Debug(format string, args ...any) {
	output(LevelDebug, nil, format, args...)
}

// Info outputs an informational message.
func Info(format string, args ...any) {
	output(LevelInfo, nil, format, args...)
}

// Warning outputs a warning message.
func Warning(format string, args ...any) {
	output(LevelWarning, nil, format, args...)
}

// Error outputs an error message to the error stream.
func Error(format string, args ...any) {
	output(LevelError, nil, format, args...)
}

// Success outputs a success message.
func Success(format string, args ...any) {
	output(LevelSuccess, nil, format, args...)
}

// Summary outputs a success message carrying a structured payload.
// In text mode the payload is omitted.
//
// Parameters:
//   - data: Structured data attached to the JSON message
//   - format: Printf-style format string
//   - args: Format arguments
//
// Concurrency:
//   - Thread-safe
func Summary(data any, format string, args ...any) {
	output(LevelSuccess, data, format, args...)
}

// Step outputs a step indicator with message.
//
// Parameters:
//   - step: Step number
//   - total: Total number of steps
//   - format: Printf-style format string
//   - args: Format arguments
//
// Concurrency:
//   - Thread-safe
func Step(step, total int, format string, args ...any) {
	mu.RLock()
	useJSON := jsonOutput
	out := stdout
	mu.RUnlock()

	if useJSON {
		Info(format, args...)
		return
	}

	text := fmt.Sprintf(format, args...)
	fmt.Fprintf(out, "  [%d/%d] %s\n", step, total, text)
}
