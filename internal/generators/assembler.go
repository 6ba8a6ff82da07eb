// Package generators assembles a new Express project from a configuration.
//
// Overview:
//   - Responsibility: Plan and execute the scaffolding phases in order
//   - Key Types: Assembler, Plan, Stage, Action, Phase, Result
//   - Concurrency Model: Strictly sequential; one goroutine per run
//   - Error Semantics: Fatal failures abort the run and leave partial state on
//     disk; git initialization is the only recoverable step
//   - Performance Notes: Dominated by external package installs
//
// Usage:
//
//	pfs := projectfs.NewProjectFS(cfg.Name)
//	asm := generators.NewAssembler(cfg, pfs, toolrunner.NewRunner(pfs.RootDir()))
//	result, err := asm.Run(ctx)
package generators

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"go.eggybyte.com/expressgen/internal/config"
	"go.eggybyte.com/expressgen/internal/envfile"
	"go.eggybyte.com/expressgen/internal/manifest"
	"go.eggybyte.com/expressgen/internal/projectfs"
	"go.eggybyte.com/expressgen/internal/templates"
	"go.eggybyte.com/expressgen/internal/toolrunner"
	"go.eggybyte.com/expressgen/internal/ui"
)

// ErrProjectExists is returned when the project root is already present.
var ErrProjectExists = projectfs.ErrRootExists

// Result summarizes a completed run.
type Result struct {
	RunID    string        `json:"run_id"`
	Project  string        `json:"project"`
	Root     string        `json:"root"`
	Variant  string        `json:"variant"`
	Phases   []Phase       `json:"phases"`
	Files    []string      `json:"files"`
	Commands []string      `json:"commands"`
	Warnings []string      `json:"warnings,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Assembler executes a Plan against a project directory.
//
// Parameters:
//   - cfg: Finalized project configuration
//   - fs: Project file system rooted at the new project
//   - queue: Command queue over the executor
//   - registry: Template registry
//
// Concurrency:
//   - Not safe for concurrent use; one Assembler per run
type Assembler struct {
	cfg      config.ProjectConfig
	fs       *projectfs.ProjectFS
	queue    *toolrunner.Queue
	registry *templates.Registry
	runID    string
}

// NewAssembler creates an assembler for one run.
//
// Parameters:
//   - cfg: Finalized project configuration
//   - fs: Project file system rooted at the project directory
//   - exec: Executor for external commands, working in the project directory
//
// Returns:
//   - *Assembler: Assembler instance
func NewAssembler(cfg config.ProjectConfig, fs *projectfs.ProjectFS, exec toolrunner.Executor) *Assembler {
	return &Assembler{
		cfg:      cfg.Clone(),
		fs:       fs,
		queue:    toolrunner.NewQueue(exec),
		registry: templates.NewRegistry(),
		runID:    uuid.NewString(),
	}
}

// RunID returns the identifier of this run.
func (a *Assembler) RunID() string {
	return a.runID
}

// Run plans and executes every phase in order.
//
// Parameters:
//   - ctx: Context for cancellation; checked before each phase and passed to every command
//
// Returns:
//   - *Result: Summary of the run, nil on failure
//   - error: ErrProjectExists, *toolrunner.StepError, or a file system error
//
// Concurrency:
//   - Single-threaded
func (a *Assembler) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	plan, err := BuildPlan(a.cfg, a.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to plan project: %w", err)
	}

	ui.Info("Creating project: %s", a.cfg.Name)
	ui.Debug("Run %s, variant %s", a.runID, plan.Variant)

	total := len(plan.Stages)
	for i, stage := range plan.Stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: run interrupted: %w", stage.Phase, err)
		}
		ui.Step(i+1, total, "%s", stage.Phase.Title())
		if err := a.runStage(ctx, stage); err != nil {
			return nil, err
		}
	}

	result := &Result{
		RunID:    a.runID,
		Project:  a.cfg.Name,
		Root:     a.fs.RootDir(),
		Variant:  plan.Variant.String(),
		Phases:   plan.Phases(),
		Files:    a.fs.Written(),
		Duration: time.Since(start),
	}
	for _, o := range a.queue.History() {
		result.Commands = append(result.Commands, o.Command.Line())
		if o.Err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", o.Command.Line(), o.Err))
		}
	}

	ui.Summary(result, "Project created: %s", a.cfg.Name)
	return result, nil
}

func (a *Assembler) runStage(ctx context.Context, stage *Stage) error {
	if stage.Phase == PhaseCreateTree {
		if err := a.fs.CreateRoot(); err != nil {
			return err
		}
		if err := a.fs.CreateLayout(); err != nil {
			return fmt.Errorf("%s: %w", stage.Phase, err)
		}
	}

	for _, action := range stage.Actions {
		if action.Command != nil {
			if err := a.queue.Execute(ctx, *action.Command); err != nil {
				return err
			}
			continue
		}

		var err error
		switch {
		case action.File != nil:
			err = a.fs.WriteFile(action.File.Path, action.File.Content, action.File.Mode)
		case action.Scripts != nil:
			err = a.writeScripts(*action.Scripts)
		case action.Env != nil:
			err = a.writeEnv(action.Env)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", stage.Phase, err)
		}
	}
	return nil
}

// writeScripts sets main and the scripts in package.json. A manifest the init
// step did not produce is created from scratch.
func (a *Assembler) writeScripts(scripts manifest.Scripts) error {
	path := a.fs.Path(manifest.FileName)

	m, err := manifest.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		m = manifest.New(a.cfg.Name)
	} else if err != nil {
		return err
	}

	if err := m.Apply(scripts); err != nil {
		return fmt.Errorf("failed to update manifest: %w", err)
	}
	data, err := m.Bytes()
	if err != nil {
		return err
	}
	return a.fs.WriteFile(manifest.FileName, string(data), 0644)
}

// writeEnv applies the changes to the current .env, which the ORM init tool
// may have written to, and checks that every structured key reads back unchanged.
func (a *Assembler) writeEnv(changes []EnvChange) error {
	current := ""
	exists, err := a.fs.FileExists(EnvFileName)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", EnvFileName, err)
	}
	if exists {
		if current, err = a.fs.ReadFile(EnvFileName); err != nil {
			return err
		}
	}

	store := envfile.Parse(current)
	if err := ApplyEnv(store, changes); err != nil {
		return fmt.Errorf("failed to update %s: %w", EnvFileName, err)
	}

	values, err := store.Values()
	if err != nil {
		return err
	}
	if err := verifyEnv(values, changes); err != nil {
		return err
	}

	return a.fs.WriteFile(EnvFileName, store.String(), 0644)
}

// verifyEnv checks that every structured change reads back with its value.
// Raw blocks are opaque and skipped.
func verifyEnv(values map[string]string, changes []EnvChange) error {
	for _, c := range changes {
		if c.Raw != "" {
			continue
		}
		got, ok := values[c.Key]
		if !ok {
			return fmt.Errorf("%s is missing from %s", c.Key, EnvFileName)
		}
		if got != c.Value {
			return fmt.Errorf("%s in %s reads back as %q, want %q", c.Key, EnvFileName, got, c.Value)
		}
	}
	return nil
}
