package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/libprov/internal/core/domain"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check installed architectures against their provisioning records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := c.app.Status(cmd.Context(), targetOptions(cmd))
			if err != nil {
				return err
			}
			for _, s := range statuses {
				version := "-"
				if s.Record != nil {
					version = s.Record.Version
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", s.Arch.Code, s.Arch.Triple, version, s.Health)
				if s.Health == domain.HealthDrifted {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  recorded %s, found %s\n", s.Record.Fingerprint, orNone(s.Fingerprint))
				}
			}
			return nil
		},
	}

	addTargetFlags(cmd)
	return cmd
}

func orNone(s string) string {
	if s == "" {
		return "missing artifacts"
	}
	return s
}
