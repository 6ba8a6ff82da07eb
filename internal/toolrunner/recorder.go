package toolrunner

import (
	"context"
	"sync"
)

// Recorder is an Executor that records invocations instead of starting
// processes. Failures can be injected per command line.
type Recorder struct {
	mu       sync.Mutex
	calls    []Command
	failures map[string]error

	// OnRun, when set, is called for every command that does not fail.
	OnRun func(Command) error
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{failures: make(map[string]error)}
}

// FailOn makes every command whose Line equals line return err.
func (r *Recorder) FailOn(line string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[line] = err
}

// Run records cmd and returns the injected failure, if any.
func (r *Recorder) Run(ctx context.Context, cmd Command) (*CommandResult, error) {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	err := r.failures[cmd.Line()]
	hook := r.OnRun
	r.mu.Unlock()

	if err != nil {
		return &CommandResult{ExitCode: 1, Stderr: err.Error()}, err
	}
	if hook != nil {
		if err := hook(cmd); err != nil {
			return &CommandResult{ExitCode: 1, Stderr: err.Error()}, err
		}
	}
	return &CommandResult{}, nil
}

// Calls returns the recorded commands in order.
func (r *Recorder) Calls() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.calls))
	copy(out, r.calls)
	return out
}

// Lines returns the recorded command lines in order.
func (r *Recorder) Lines() []string {
	var lines []string
	for _, c := range r.Calls() {
		lines = append(lines, c.Line())
	}
	return lines
}
