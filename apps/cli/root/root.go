package root

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the admin CLI. Subcommands (auth, admins) are attached here.
var rootCmd = &cobra.Command{
	Use:           "admin-cli",
	Short:         "Admin provisioning CLI",
	Long:          "Operator utilities for admin provisioning (dev tokens, direct admin creation).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
