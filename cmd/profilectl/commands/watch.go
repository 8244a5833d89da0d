package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Interactively refresh or log out",
		Long:  "Load the profile page, then read commands from stdin: r to refresh, l to log out, q to quit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctrl, surface, err := opts.controller(out)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			// a failed load is already shown; keep accepting commands
			_ = ctrl.Start(ctx)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "q", "quit":
					return nil
				}
				if !surface.Dispatch(ctx, line) {
					fmt.Fprintf(out, "unknown command %q (r: refresh, l: logout, q: quit)\n", line)
					continue
				}
				if target := surface.Navigated(); target != "" {
					fmt.Fprintf(out, "left the profile page for %s\n", target)
					return nil
				}
			}
		},
	}
	opts.addFlags(cmd)
	return cmd
}
