package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the profilectl root command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "profilectl",
		Short:         "Inspect the identity behind an iam-proxy profile page",
		Long:          "CLI tool that reads the bearer token an iam-proxy attaches to a profile page and shows its claims",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewShowCmd())
	rootCmd.AddCommand(NewLogoutCmd())
	rootCmd.AddCommand(NewDecodeCmd())
	rootCmd.AddCommand(NewWatchCmd())
	return rootCmd
}
