package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/scratchpad/pkg/export"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		format      string
		toClipboard bool
		output      string
	)

	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every note",
		Long: `Export every note. The Markdown format is the one pasted into chats and
issues: a "## Storybook Feedback" heading followed by one section per story.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return &exitError{code: 2, err: err}
			}

			text, err := export.Render(a.store.GetAll(cmd.Context()), f)
			if err != nil {
				return err
			}

			switch {
			case toClipboard:
				if err := export.Copy(text); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard!")
			case output != "":
				if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				a.logger.Info("export written", "path", output, "format", string(f))
			default:
				fmt.Fprint(cmd.OutOrStdout(), text)
				if !strings.HasSuffix(text, "\n") {
					fmt.Fprintln(cmd.OutOrStdout())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatMarkdown), "output format: "+strings.Join(names, ", "))
	cmd.Flags().BoolVar(&toClipboard, "copy", false, "copy the export to the clipboard instead of printing it")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the export to a file")
	cmd.MarkFlagsMutuallyExclusive("copy", "output")

	return cmd
}
