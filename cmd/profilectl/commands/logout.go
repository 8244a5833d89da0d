package commands

import (
	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out of the profile",
		Long:  "Call the logout endpoint next to the profile page and print where the browser would go next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := opts.controller(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			ctrl.Bind()
			return ctrl.Logout(cmd.Context())
		},
	}
	opts.addFlags(cmd)
	return cmd
}
