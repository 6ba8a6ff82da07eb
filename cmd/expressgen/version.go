package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.eggybyte.com/expressgen/internal/version"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show expressgen version information",
	Long: `Display version information for expressgen.

This command shows:
  • CLI version, git commit hash, and build timestamp
  • Base image used for generated Dockerfiles
  • Go runtime version`,
	Run: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.Version = version.GetVersionString()
	rootCmd.SetVersionTemplate(`{{.Version}}
`)
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersionInfo())
}
