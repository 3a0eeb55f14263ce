package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/scratchpad/pkg/core"
)

func newGetCommand(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print the note of a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			rec, ok := a.store.GetNote(cmd.Context(), id)
			if !ok {
				return fmt.Errorf("no note for %q", id)
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), core.Entry{ID: id, NoteRecord: rec})
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), rec.Note)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output the full record as JSON")

	return cmd
}

func newSetCommand(a *app) *cobra.Command {
	var (
		title     string
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "set <id> [text...]",
		Short: "Save the note of a story",
		Long: `Save the note of a story. Surrounding whitespace is trimmed, and saving
empty text deletes the note.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			text := strings.Join(args[1:], " ")

			if fromStdin {
				if len(args) > 1 {
					return errors.New("text arguments cannot be combined with --stdin")
				}
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			a.store.SaveNote(cmd.Context(), id, text, title)
			if err := a.result(); err != nil {
				return err
			}

			if strings.TrimSpace(text) == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted note for %s\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved note for %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "human-readable story title")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the note text from stdin")

	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete the note of a story",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.store.DeleteNote(cmd.Context(), args[0])
			if err := a.result(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note for %s\n", args[0])
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	var (
		filter     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stories that have notes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.store.List(cmd.Context(), filter)
			if err != nil {
				return &exitError{code: 2, err: err}
			}

			if jsonOutput {
				if entries == nil {
					entries = []core.Entry{}
				}
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			for _, e := range entries {
				line := e.ID
				if e.StoryTitle != "" {
					line += " - " + e.StoryTitle
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "only list identifiers matching a glob (e.g. 'button--*')")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}

func newCountCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.store.Count(cmd.Context()))
			return err
		},
	}
}

func newClearCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return &exitError{code: 2, err: errors.New("refusing to clear all notes without --yes")}
			}

			a.store.ClearAll(cmd.Context())
			if err := a.result(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All notes cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm clearing all notes")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
