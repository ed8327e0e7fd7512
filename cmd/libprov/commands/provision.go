package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newProvisionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Fetch, cross-build and install the library for each architecture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := targetOptions(cmd)
			opts.Parallel, _ = cmd.Flags().GetInt("parallel")
			opts.SkipUnchanged, _ = cmd.Flags().GetBool("skip-unchanged")
			if cmd.Flags().Changed("jobs") {
				jobs, _ := cmd.Flags().GetInt("jobs")
				opts.Jobs = &jobs
			}

			outcomes, err := c.app.Provision(cmd.Context(), opts)
			for _, out := range outcomes {
				if out.Record == nil {
					continue
				}
				state := "provisioned"
				if out.Cached {
					state = "up to date"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s %s\t%s\n",
					out.Arch.Code, out.Arch.Triple, out.Record.Library, out.Record.Version, state)
			}
			return err
		},
	}

	addTargetFlags(cmd)
	cmd.Flags().IntP("jobs", "j", 0, "Parallel make jobs (default: available cores)")
	cmd.Flags().IntP("parallel", "p", 1, "Architectures provisioned at once")
	cmd.Flags().Bool("skip-unchanged", false, "Skip architectures whose installation matches its record")
	return cmd
}
