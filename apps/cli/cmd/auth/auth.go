package auth

import "github.com/spf13/cobra"

// Command groups authentication helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication utilities",
		Long:  "Authentication utilities (dev tokens for AUTH_PROVIDER=dev).",
	}

	cmd.AddCommand(devTokenCommand())

	return cmd
}
