package config

import (
	"fmt"
	"strings"
)

// Diagnostic represents a validation issue.
type Diagnostic struct {
	Severity   DiagnosticSeverity `json:"severity"`
	Message    string             `json:"message"`
	Path       string             `json:"path,omitempty"`
	Suggestion string             `json:"suggestion,omitempty"`
}

// DiagnosticSeverity represents the severity of a diagnostic.
type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
)

// Diagnostics represents a collection of validation issues.
type Diagnostics struct {
	items []Diagnostic
}

// NewDiagnostics creates an empty diagnostics collection.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{items: make([]Diagnostic, 0)}
}

// AddError adds an error diagnostic.
//
// Parameters:
//   - message: Error message
//   - path: Optional configuration path
//   - suggestion: Optional fix suggestion
func (d *Diagnostics) AddError(message, path, suggestion string) {
	d.items = append(d.items, Diagnostic{Severity: SeverityError, Message: message, Path: path, Suggestion: suggestion})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(message, path, suggestion string) {
	d.items = append(d.items, Diagnostic{Severity: SeverityWarning, Message: message, Path: path, Suggestion: suggestion})
}

// HasErrors returns true if there are any error-level diagnostics.
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Items returns a copy of all diagnostics.
func (d *Diagnostics) Items() []Diagnostic {
	result := make([]Diagnostic, len(d.items))
	copy(result, d.items)
	return result
}

// Err folds error diagnostics into a single error, or returns nil.
func (d *Diagnostics) Err() error {
	var msgs []string
	for _, item := range d.items {
		if item.Severity != SeverityError {
			continue
		}
		if item.Path != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s", item.Path, item.Message))
		} else {
			msgs = append(msgs, item.Message)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(msgs, "; "))
}
