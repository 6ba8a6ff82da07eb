package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"go.eggybyte.com/expressgen/internal/generators"
	"go.eggybyte.com/expressgen/internal/lint"
	"go.eggybyte.com/expressgen/internal/projectfs"
	"go.eggybyte.com/expressgen/internal/templates"
	"go.eggybyte.com/expressgen/internal/ui"
)

var checkFlags answerFlags

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check [name]",
	Short: "Check a generated project against its configuration",
	Long: `Compare ./<name> with what the given configuration generates.

This command reports:
  • Missing layout directories and generated files
  • Missing or changed package.json main and scripts
  • Dependencies not listed in package.json
  • Settings missing from .env

Example:
  expressgen check --answers answers.yaml
  expressgen check my-api --non-interactive --typescript --database mysql`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkFlags.register(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := checkFlags.resolve(args)
	if err != nil {
		return err
	}

	plan, err := generators.BuildPlan(cfg, templates.NewRegistry())
	if err != nil {
		return fmt.Errorf("failed to build plan: %w", err)
	}

	root, err := filepath.Abs(cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	results, err := lint.NewLinter().Check(plan, projectfs.NewProjectFS(root))
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
	} else {
		for _, r := range results.Results {
			msg := fmt.Sprintf("[%s] %s", r.Rule, r.Message)
			if r.Path != "" {
				msg += " (" + r.Path + ")"
			}
			switch r.Level {
			case lint.LevelError:
				ui.Error("%s", msg)
			case lint.LevelWarning:
				ui.Warning("%s", msg)
			default:
				ui.Info("%s", msg)
			}
			if r.Suggestion != "" {
				ui.Info("  %s", r.Suggestion)
			}
		}
	}

	if results.ErrorCount > 0 {
		return fmt.Errorf("check found %d error(s)", results.ErrorCount)
	}
	return nil
}
