package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [codes...]",
		Short: "Print the toolchain target triple of architecture codes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			archs, err := c.app.Resolve(cmd.Context(), args)
			if err != nil {
				return err
			}
			for _, arch := range archs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", arch.Code, arch.Triple)
			}
			return nil
		},
	}
}
