package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"go.eggybyte.com/expressgen/internal/generators"
	"go.eggybyte.com/expressgen/internal/projectfs"
	"go.eggybyte.com/expressgen/internal/toolrunner"
	"go.eggybyte.com/expressgen/internal/ui"
)

var newFlags answerFlags

// newCmd represents the new command.
var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new Express project",
	Long: `Create a new Express project in ./<name>.

Answers come from one of three places:
  • an answers file (--answers answers.yaml or answers.hcl)
  • command-line flags (--non-interactive)
  • interactive prompts (default)

The command creates the directory tree, writes the source files, .env and
package.json, and runs npm to install dependencies. It refuses to run when
./<name> already exists.

Example:
  expressgen new my-api
  expressgen new my-api --non-interactive --typescript --database postgres --addons cors,helmet
  expressgen new --answers answers.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
	newFlags.register(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg, err := newFlags.resolve(args)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	pfs := projectfs.NewProjectFS(root)
	pfs.SetVerbose(verbose)
	runner := toolrunner.NewRunner(root)
	runner.SetVerbose(verbose)

	assembler := generators.NewAssembler(cfg, pfs, runner)
	ui.Debug("Run ID: %s", assembler.RunID())

	result, err := assembler.Run(cmd.Context())
	if err != nil {
		return err
	}

	ui.Info("")
	ui.Info("Next steps:")
	ui.Info("  cd %s", result.Project)
	if cfg.Autoreload {
		ui.Info("  npm run dev")
	} else {
		ui.Info("  npm start")
	}
	return nil
}
