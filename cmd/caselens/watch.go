// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"caselens/internal/extract"
	"caselens/internal/pipeline"
	"caselens/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var inbox string
	var existing, advanced bool

	cmd := &cobra.Command{
		Use:   "watch <case-id>",
		Short: "Add documents dropped into an inbox directory to a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if inbox == "" {
				inbox = a.cfg.Watch.Inbox
			}
			if err := os.MkdirAll(inbox, 0o750); err != nil {
				return fmt.Errorf("create inbox: %w", err)
			}

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			c, err := s.Load(ctx, args[0])
			if err != nil {
				return fmt.Errorf("load case: %w", err)
			}

			in, err := a.newIngest(ctx, advanced)
			if err != nil {
				return err
			}
			defer in.Close()

			w, err := watch.New(inbox, a.cfg.Watch.Debounce, extract.Supported, a.logger)
			if err != nil {
				return err
			}
			if err := w.Start(existing); err != nil {
				return fmt.Errorf("watch inbox: %w", err)
			}
			defer w.Stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for case %s (Ctrl+C to stop)\n", inbox, c.Name)

			// Documents are applied one at a time; the case has a single writer.
			for {
				select {
				case <-ctx.Done():
					return nil
				case err, ok := <-w.Errors():
					if !ok {
						return nil
					}
					a.logger.Warn().Err(err).Msg("watcher error")
				case ev, ok := <-w.Events():
					if !ok {
						return nil
					}
					record, err := in.pipeline.Process(ctx, c, ev.Path)
					switch {
					case errors.Is(err, pipeline.ErrDuplicate):
						a.logger.Info().Str("file", ev.Path).Msg("document already in case, skipped")
						continue
					case err != nil:
						a.logger.Error().Stack().Err(err).Str("file", ev.Path).Msg("failed to add document")
						continue
					}
					if err := s.Save(ctx, c); err != nil {
						return fmt.Errorf("save case: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %d violations)\n",
						filepath.Base(ev.Path), record.DocumentType(), len(record.Violations))
				}
			}
		},
	}

	cmd.Flags().StringVar(&inbox, "inbox", "", "Directory to watch (default from config)")
	cmd.Flags().BoolVar(&existing, "existing", false, "Also add files already in the inbox")
	cmd.Flags().BoolVar(&advanced, "advanced", false, "Run the additional AI violation analysis per document")
	return cmd
}
