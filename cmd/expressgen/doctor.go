package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.eggybyte.com/expressgen/internal/toolrunner"
	"go.eggybyte.com/expressgen/internal/ui"
)

// doctorCmd represents the doctor command.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the tools needed to scaffold and run projects",
	Long: `Check that the external tools used during generation are installed.

Required:
  • node, npm and npx (project initialization and dependency installation)

Optional:
  • git (repository initialization)
  • docker (running the generated Dockerfile)`,
	RunE: runDoctor,
}

type toolCheck struct {
	name     string
	required bool
}

var doctorTools = []toolCheck{
	{name: "node", required: true},
	{name: "npm", required: true},
	{name: "npx", required: true},
	{name: "git"},
	{name: "docker"},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ui.Info("Checking development environment...")

	missing := 0
	for _, tool := range doctorTools {
		path, err := toolrunner.CheckToolAvailability(tool.name)
		if err != nil {
			if tool.required {
				ui.Error("%s: not found", tool.name)
				missing++
			} else {
				ui.Warning("%s: not found (optional)", tool.name)
			}
			continue
		}

		v, err := toolrunner.ToolVersion(cmd.Context(), tool.name)
		if err != nil {
			ui.Warning("%s: found at %s, version unknown", tool.name, path)
			continue
		}
		ui.Success("%s %s (%s)", tool.name, v, path)
	}

	if missing > 0 {
		return fmt.Errorf("%d required tool(s) missing", missing)
	}
	ui.Success("Environment ready")
	return nil
}
