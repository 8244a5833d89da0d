package commands

import (
	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the claims of the current session",
		Long:  "Load the profile page once and print the profile and claims carried by its Authorization header",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := opts.controller(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return ctrl.Start(cmd.Context())
		},
	}
	opts.addFlags(cmd)
	return cmd
}
