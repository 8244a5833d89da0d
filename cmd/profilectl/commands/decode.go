package commands

import (
	"encoding/json"
	"strings"

	"github.com/SebbieMzingKe/iam-profile/internal/page"
	"github.com/SebbieMzingKe/iam-profile/internal/render"
	"github.com/SebbieMzingKe/iam-profile/internal/terminal"
	"github.com/SebbieMzingKe/iam-profile/internal/token"
	"github.com/spf13/cobra"
)

// NewDecodeCmd creates the decode command
func NewDecodeCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "decode TOKEN",
		Short: "Decode a token without contacting any server",
		Long:  "Decode the payload of a JWT (optionally prefixed with \"Bearer \") and print it the way the profile page does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.TrimPrefix(strings.TrimSpace(args[0]), "Bearer ")

			claims, decodeErr := token.Decode(raw)
			result := render.NewRenderer().Render(claims)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				page.Apply(terminal.NewSurface(cmd.OutOrStdout()), result)
			}

			switch {
			case decodeErr != nil:
				return decodeErr
			case result.Failed():
				return token.ErrExpired
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the rendered result as JSON")
	return cmd
}
