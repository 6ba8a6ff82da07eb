// Package toolrunner executes the external tools a scaffolding run depends on.
//
// Overview:
//   - Responsibility: Run npm, npx and git as described side effects, in order
//   - Key Types: Command, Policy, Executor, Runner, Queue, StepError, Recorder
//   - Concurrency Model: Sequential command execution with context support
//   - Error Semantics: Fatal failures stop the queue with a *StepError;
//     recoverable failures are logged and the queue continues
//   - Performance Notes: Output is captured in memory; no timeouts are applied
//
// Usage:
//
//	q := toolrunner.NewQueue(toolrunner.NewRunner(root))
//	err := q.Execute(ctx, toolrunner.NpmInit().In("InitManifest"))
package toolrunner

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.eggybyte.com/expressgen/internal/ui"
)

// Executor runs a single command. Runner runs real processes; Recorder
// records invocations for tests.
type Executor interface {
	Run(ctx context.Context, cmd Command) (*CommandResult, error)
}

// Runner provides execution of external tools.
//
// Parameters:
//   - workDir: Working directory for commands
//   - verbose: Whether to log commands and their output
//
// Concurrency:
//   - Safe for concurrent use
type Runner struct {
	workDir string
	verbose bool
}

// CommandResult represents the result of a command execution.
//
// Parameters:
//   - ExitCode: Process exit code
//   - Stdout: Standard output content
//   - Stderr: Standard error content
//   - Duration: Command execution time
//
// Concurrency:
//   - Immutable after creation
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewRunner creates a new tool runner.
//
// Parameters:
//   - workDir: Working directory for commands
//
// Returns:
//   - *Runner: Tool runner instance
func NewRunner(workDir string) *Runner {
	return &Runner{
		workDir: workDir,
		verbose: false,
	}
}

// SetVerbose enables or disables verbose output.
func (r *Runner) SetVerbose(enabled bool) {
	r.verbose = enabled
}

// WorkDir returns the directory commands run in.
func (r *Runner) WorkDir() string {
	return r.workDir
}

// Run executes cmd in the working directory.
func (r *Runner) Run(ctx context.Context, cmd Command) (*CommandResult, error) {
	return r.execute(ctx, cmd.Tool, cmd.Args...)
}

// execute runs a command and returns the result.
//
// Parameters:
//   - ctx: Context for cancellation
//   - name: Command name
//   - args: Command arguments
//
// Returns:
//   - *CommandResult: Command execution result
//   - error: Execution error if any
//
// Concurrency:
//   - Single-threaded per command
func (r *Runner) execute(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.workDir

	if r.verbose {
		ui.Debug("Running: %s %s", name, strings.Join(args, " "))
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &CommandResult{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if r.verbose && result.Stdout != "" {
		ui.Debug("%s", strings.TrimSpace(result.Stdout))
	}

	if err != nil {
		if msg := strings.TrimSpace(result.Stderr); msg != "" {
			return result, fmt.Errorf("command failed: %w: %s", err, msg)
		}
		return result, fmt.Errorf("command failed: %w", err)
	}

	return result, nil
}

// CheckToolAvailability checks whether a tool is on PATH.
//
// Parameters:
//   - toolName: Executable name
//
// Returns:
//   - string: Resolved path of the executable
//   - error: Error if the tool cannot be found
func CheckToolAvailability(toolName string) (string, error) {
	path, err := exec.LookPath(toolName)
	if err != nil {
		return "", fmt.Errorf("tool not found in PATH: %s", toolName)
	}
	return path, nil
}

// ToolVersion runs "<tool> --version" and returns the first output line.
func ToolVersion(ctx context.Context, toolName string) (string, error) {
	out, err := exec.CommandContext(ctx, toolName, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("failed to get %s version: %w", toolName, err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return line, nil
}
