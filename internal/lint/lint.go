// Package lint checks a generated project against the plan that produced it.
//
// Overview:
//   - Responsibility: Report missing directories, files, scripts, settings and dependencies
//   - Key Types: Linter, LintResult, LintResults
//   - Concurrency Model: Stateless checks, sequential rule execution
//   - Error Semantics: Findings are results; only unreadable project files are errors
//   - Performance Notes: One stat per expected path, one read per manifest and settings file
//
// Usage:
//
//	plan, _ := generators.BuildPlan(cfg, templates.NewRegistry())
//	results, err := lint.NewLinter().Check(plan, projectfs.NewProjectFS(cfg.Name))
package lint

import (
	"fmt"
	"slices"

	"go.eggybyte.com/expressgen/internal/envfile"
	"go.eggybyte.com/expressgen/internal/generators"
	"go.eggybyte.com/expressgen/internal/manifest"
	"go.eggybyte.com/expressgen/internal/projectfs"
	"go.eggybyte.com/expressgen/internal/ui"
)

// Levels of a finding.
const (
	LevelError   = "error"
	LevelWarning = "warning"
	LevelInfo    = "info"
)

// Linter checks generated projects.
//
// Concurrency:
//   - Safe for concurrent use
type Linter struct{}

// LintResult represents one finding.
//
// Parameters:
//   - Rule: Rule name
//   - Level: Severity level
//   - Message: Human-readable message
//   - Path: Project-relative path
//   - Suggestion: Fix suggestion
type LintResult struct {
	Rule       string `json:"rule"`
	Level      string `json:"level"`
	Message    string `json:"message"`
	Path       string `json:"path,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// LintResults represents a collection of findings.
type LintResults struct {
	Results      []LintResult `json:"results"`
	ErrorCount   int          `json:"error_count"`
	WarningCount int          `json:"warning_count"`
	InfoCount    int          `json:"info_count"`
}

func (r *LintResults) add(rule, level, msg, p, suggestion string) {
	r.Results = append(r.Results, LintResult{Rule: rule, Level: level, Message: msg, Path: p, Suggestion: suggestion})
}

// Rules returns the findings of one rule.
func (r *LintResults) Rules(rule string) []LintResult {
	var out []LintResult
	for _, res := range r.Results {
		if res.Rule == rule {
			out = append(out, res)
		}
	}
	return out
}

// NewLinter creates a new project linter.
func NewLinter() *Linter {
	return &Linter{}
}

// Check compares the project tree with what plan would generate.
//
// Parameters:
//   - plan: Plan of the configuration the project was generated from
//   - fs: Project file system
//
// Returns:
//   - *LintResults: Findings, counted by level
//   - error: Failure to read a project file that exists
func (l *Linter) Check(plan *generators.Plan, fs *projectfs.ProjectFS) (*LintResults, error) {
	ui.Info("Checking project %s...", fs.RootDir())

	results := &LintResults{Results: make([]LintResult, 0)}

	if err := l.checkStructure(fs, results); err != nil {
		return nil, fmt.Errorf("failed to check project structure: %w", err)
	}
	if err := l.checkFiles(plan, fs, results); err != nil {
		return nil, fmt.Errorf("failed to check generated files: %w", err)
	}
	if err := l.checkManifest(plan, fs, results); err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", manifest.FileName, err)
	}
	if err := l.checkEnv(plan, fs, results); err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", generators.EnvFileName, err)
	}

	for _, result := range results.Results {
		switch result.Level {
		case LevelError:
			results.ErrorCount++
		case LevelWarning:
			results.WarningCount++
		case LevelInfo:
			results.InfoCount++
		}
	}

	ui.Success("Check completed: %d errors, %d warnings, %d info",
		results.ErrorCount, results.WarningCount, results.InfoCount)

	return results, nil
}

func (l *Linter) checkStructure(fs *projectfs.ProjectFS, results *LintResults) error {
	for _, dir := range projectfs.Layout {
		exists, err := fs.FileExists(dir)
		if err != nil {
			return err
		}
		if !exists {
			results.add("structure", LevelError, "Required directory missing", dir,
				fmt.Sprintf("Create the %s directory", dir))
		}
	}

	exists, err := fs.FileExists("node_modules")
	if err != nil {
		return err
	}
	if !exists {
		results.add("structure", LevelInfo, "Dependencies are not installed", "node_modules", "Run npm install")
	}
	return nil
}

func (l *Linter) checkFiles(plan *generators.Plan, fs *projectfs.ProjectFS, results *LintResults) error {
	for _, f := range plan.Files() {
		exists, err := fs.FileExists(f.Path)
		if err != nil {
			return err
		}
		if !exists {
			results.add("files", LevelError, "Generated file missing", f.Path, "Regenerate the project or restore the file")
		}
	}
	return nil
}

func (l *Linter) checkManifest(plan *generators.Plan, fs *projectfs.ProjectFS, results *LintResults) error {
	exists, err := fs.FileExists(manifest.FileName)
	if err != nil {
		return err
	}
	if !exists {
		results.add("manifest", LevelError, "Manifest missing", manifest.FileName, "Run npm init -y")
		return nil
	}

	m, err := manifest.Load(fs.Path(manifest.FileName))
	if err != nil {
		results.add("manifest", LevelError, err.Error(), manifest.FileName, "Fix the JSON syntax")
		return nil
	}

	scripts := manifest.ScriptsFor(plan.Config)
	if main, _ := m.Field("main"); main != scripts.Main {
		results.add("manifest", LevelWarning, fmt.Sprintf("main is %q, expected %q", main, scripts.Main),
			manifest.FileName, "Point main at the entry module")
	}
	for _, s := range scripts.Entries {
		got, ok := m.Script(s.Name)
		switch {
		case !ok:
			results.add("scripts", LevelError, fmt.Sprintf("Script %q missing", s.Name), manifest.FileName,
				fmt.Sprintf("Add \"%s\": \"%s\" to scripts", s.Name, s.Command))
		case got != s.Command:
			results.add("scripts", LevelWarning, fmt.Sprintf("Script %q is %q, expected %q", s.Name, got, s.Command),
				manifest.FileName, "")
		}
	}

	sections := []struct {
		name     string
		expected []string
		dev      bool
	}{
		{name: "dependencies", expected: plan.Deps.Runtime()},
		{name: "devDependencies", expected: plan.Deps.Dev(), dev: true},
	}
	for _, sec := range sections {
		listed, err := m.Dependencies(sec.name)
		if err != nil {
			results.add("dependencies", LevelError, err.Error(), manifest.FileName, "")
			continue
		}
		for _, pkg := range sec.expected {
			if slices.Contains(listed, pkg) {
				continue
			}
			install := "npm install " + pkg
			if sec.dev {
				install = "npm install --save-dev " + pkg
			}
			results.add("dependencies", LevelWarning, fmt.Sprintf("%s not listed in %s", pkg, sec.name),
				manifest.FileName, install)
		}
	}
	return nil
}

func (l *Linter) checkEnv(plan *generators.Plan, fs *projectfs.ProjectFS, results *LintResults) error {
	exists, err := fs.FileExists(generators.EnvFileName)
	if err != nil {
		return err
	}
	if !exists {
		results.add("env", LevelError, "Settings file missing", generators.EnvFileName, "")
		return nil
	}

	content, err := fs.ReadFile(generators.EnvFileName)
	if err != nil {
		return err
	}
	values, err := envfile.Parse(content).Values()
	if err != nil {
		results.add("env", LevelError, fmt.Sprintf("Settings file does not parse: %v", err), generators.EnvFileName, "")
		return nil
	}

	for _, key := range plan.EnvKeys() {
		if _, ok := values[key]; !ok {
			results.add("env", LevelError, fmt.Sprintf("%s is not set", key), generators.EnvFileName,
				fmt.Sprintf("Add %s to %s", key, generators.EnvFileName))
		}
	}
	return nil
}
