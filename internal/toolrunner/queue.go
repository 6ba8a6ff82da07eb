package toolrunner

import (
	"context"
	"fmt"

	"go.eggybyte.com/expressgen/internal/ui"
)

// StepError reports a failed command together with the phase it ran in.
type StepError struct {
	Phase   string
	Command Command
	Policy  Policy
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Phase, e.Command.Line(), e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Outcome records how one queued command ended.
type Outcome struct {
	Command Command
	Err     error
}

// Queue runs commands strictly in order over an Executor.
type Queue struct {
	exec    Executor
	history []Outcome
}

// NewQueue creates a queue over exec.
func NewQueue(exec Executor) *Queue {
	return &Queue{exec: exec}
}

// Execute runs cmds in order. A fatal failure stops the queue and returns a
// *StepError; a recoverable failure is logged as a warning and skipped.
// Cancellation of ctx stops the queue before the next command starts.
//
// Parameters:
//   - ctx: Context for cancellation
//   - cmds: Commands to run in order
//
// Returns:
//   - error: *StepError for the first fatal failure, or the context error
func (q *Queue) Execute(ctx context.Context, cmds ...Command) error {
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: interrupted before %s: %w", cmd.Phase, cmd.Line(), err)
		}

		ui.Info("%s: %s", cmd.Summary, cmd.Line())
		_, err := q.exec.Run(ctx, cmd)
		q.history = append(q.history, Outcome{Command: cmd, Err: err})
		if err == nil {
			continue
		}

		stepErr := &StepError{Phase: cmd.Phase, Command: cmd, Policy: cmd.Policy, Err: err}
		if cmd.Policy == Recoverable {
			ui.Warning("%v", stepErr)
			continue
		}
		return stepErr
	}
	return nil
}

// History returns every command the queue has run, with its outcome.
func (q *Queue) History() []Outcome {
	out := make([]Outcome, len(q.history))
	copy(out, q.history)
	return out
}
