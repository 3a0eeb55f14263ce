package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/scratchpad/internal/panel"
	"github.com/aretw0/scratchpad/pkg/autosave"
)

func newEditCommand(a *app) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit the note of a story in an autosaving panel",
		Long: `Open the note editor for a story. Typing saves after a short pause
(--debounce), leaving the editor with esc saves immediately.

Keys: ctrl+s save, esc done, ctrl+d clear this note, ctrl+x clear all notes,
ctrl+y copy every note as Markdown, ctrl+c quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}

			if err := panel.Run(cmd.Context(), a.store, id, title,
				autosave.WithInterval(a.cfg.Debounce),
				autosave.WithLogger(a.logger),
			); err != nil {
				return err
			}
			return a.result()
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "human-readable story title")
	cmd.Flags().Duration("debounce", autosave.DefaultInterval, "quiet period before typing is saved")

	return cmd
}
