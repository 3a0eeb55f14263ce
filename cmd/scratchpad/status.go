package main

import (
	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/scratchpad/internal/config"
)

type statusReport struct {
	Location string         `json:"location"`
	Config   *config.Config `json:"config"`
	Store    any            `json:"store"`
	Storage  any            `json:"storage,omitempty"`
}

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the resolved configuration and storage state as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// A read forces parse failures, if any, to be counted.
			a.store.Count(cmd.Context())

			report := statusReport{
				Location: a.location,
				Config:   a.cfg,
				Store:    a.store.State(),
			}
			if insp, ok := a.store.Storage().(introspection.Introspectable); ok {
				report.Storage = insp.State()
			}

			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
}
