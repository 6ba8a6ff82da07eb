package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"go.eggybyte.com/expressgen/internal/generators"
	"go.eggybyte.com/expressgen/internal/templates"
)

var (
	planFlags    answerFlags
	planFormat   string
	planContents bool
)

// planCmd represents the plan command.
var planCmd = &cobra.Command{
	Use:   "plan [name]",
	Short: "Show what a project configuration would generate",
	Long: `Resolve a project configuration and print the generation plan without
touching the file system or running any tool.

The plan lists phases, directories, files, the .env content, dependencies,
package.json scripts and every tool command with its failure policy.

Example:
  expressgen plan my-api --non-interactive --typescript --orm --database postgres
  expressgen plan --answers answers.hcl --format json --contents`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planFlags.register(planCmd)
	planCmd.Flags().StringVarP(&planFormat, "format", "f", "yaml", "Output format (yaml, json)")
	planCmd.Flags().BoolVar(&planContents, "contents", false, "Include generated file contents")
}

func runPlan(cmd *cobra.Command, args []string) error {
	if jsonOutput {
		planFormat = "json"
	}
	if planFormat != "yaml" && planFormat != "json" {
		return fmt.Errorf("unsupported format %q (use yaml or json)", planFormat)
	}

	cfg, err := planFlags.resolve(args)
	if err != nil {
		return err
	}

	plan, err := generators.BuildPlan(cfg, templates.NewRegistry())
	if err != nil {
		return fmt.Errorf("failed to build plan: %w", err)
	}

	view := plan.View(planContents)
	out := cmd.OutOrStdout()
	if planFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return enc.Close()
}
