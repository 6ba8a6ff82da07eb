package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	restore := SetWriters(&out, &errOut)
	t.Cleanup(func() {
		restore()
		SetVerbose(false)
		SetJSONOutput(false)
	})
	return &out, &errOut
}

func TestErrorGoesToErrorStream(t *testing.T) {
	out, errOut := capture(t)

	Error("boom %d", 1)

	if out.Len() != 0 {
		t.Errorf("Expected no regular output, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "boom 1") {
		t.Errorf("Expected error output to contain 'boom 1', got %q", errOut.String())
	}
}

func TestDebugRequiresVerbose(t *testing.T) {
	out, _ := capture(t)

	Debug("hidden")
	if out.Len() != 0 {
		t.Errorf("Expected debug to be suppressed, got %q", out.String())
	}

	SetVerbose(true)
	Debug("shown")
	if !strings.Contains(out.String(), "shown") {
		t.Errorf("Expected debug output in verbose mode, got %q", out.String())
	}
}

func TestSummaryJSONCarriesData(t *testing.T) {
	out, _ := capture(t)
	SetJSONOutput(true)

	Summary(map[string]string{"run_id": "abc"}, "done")

	var msg struct {
		Level string            `json:"level"`
		Text  string            `json:"text"`
		Data  map[string]string `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &msg); err != nil {
		t.Fatalf("Failed to decode JSON output: %v", err)
	}
	if msg.Level != string(LevelSuccess) {
		t.Errorf("Expected level success, got %s", msg.Level)
	}
	if msg.Data["run_id"] != "abc" {
		t.Errorf("Expected run_id 'abc', got %q", msg.Data["run_id"])
	}
}

func TestStepFormatsCounter(t *testing.T) {
	out, _ := capture(t)

	Step(2, 5, "Installing %s", "express")

	if got := out.String(); got != "  [2/5] Installing express\n" {
		t.Errorf("Unexpected step output: %q", got)
	}
}
