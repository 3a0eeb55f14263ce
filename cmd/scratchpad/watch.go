package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/scratchpad/pkg/core"
)

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print a line whenever the notes change",
		Long: `Watch the notes document and print the note count after every change,
whether it was made by this machine's editor, another terminal, or a sync tool.
Only the fs adapter supports watching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			watchable, ok := a.store.Storage().(core.Watchable)
			if !ok {
				return fmt.Errorf("adapter %q does not support watch", a.cfg.Adapter)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			events, err := watchable.Watch(ctx, core.StorageKey)
			if err != nil {
				return err
			}

			a.logger.Info("watching notes", "path", a.location)
			return printEvents(ctx, cmd, a.store, events)
		},
	}
}

func printEvents(ctx context.Context, cmd *cobra.Command, store *core.Store, events <-chan core.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			at := time.Unix(event.Timestamp, 0).UTC().Format(time.RFC3339)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d notes)\n", at, event.Type, store.Count(ctx))
		}
	}
}
