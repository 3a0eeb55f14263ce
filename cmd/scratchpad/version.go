package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/scratchpad"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of scratchpad",
		Args:  cobra.NoArgs,
		// No store is needed to print a version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "scratchpad version %s\n", scratchpad.Version)
			return err
		},
	}
}
