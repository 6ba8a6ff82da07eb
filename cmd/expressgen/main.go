// Package main provides the expressgen CLI entry point.
//
// Overview:
//   - Responsibility: CLI command parsing and execution
//   - Key Types: Cobra command structure
//   - Concurrency Model: Single-threaded CLI execution; SIGINT cancels the run context
//   - Error Semantics: Exit code 1 with a user-friendly message on any fatal error
//   - Performance Notes: Fast startup, minimal initialization
//
// Usage:
//
//	expressgen [command] [flags]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go.eggybyte.com/expressgen/internal/ui"
)

var (
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "expressgen",
	Short: "Scaffold Express backend services",
	Long: `expressgen scaffolds a Node.js/Express backend service.

It collects a few choices (language, database, ORM, container, add-ons),
then creates the directory tree, source files, .env and package.json, and
runs npm to install dependencies.

Commands:
- new: create a project interactively, from flags or from an answers file
- plan: show what a configuration would generate without touching disk
- check: compare an existing project with what its configuration generates
- doctor: check that node, npm, npx, git and docker are available
- version: show version information`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetVerbose(verbose)
		ui.SetJSONOutput(jsonOutput)
	},
}

// Execute runs the root command with a context cancelled on interrupt.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.Error("Command failed: %v", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func main() {
	Execute()
}
