// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"caselens/internal/cases"
	"caselens/internal/detector"
	"caselens/internal/formatters"
	_ "caselens/internal/formatters/briefing"
	_ "caselens/internal/formatters/json"
	_ "caselens/internal/formatters/markdown"
	_ "caselens/internal/formatters/text"
	_ "caselens/internal/formatters/xlsx"
	_ "caselens/internal/formatters/yaml"
	"caselens/internal/parallel"
	"caselens/internal/pipeline"
	"caselens/internal/store"

	"github.com/spf13/cobra"
)

func newCaseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Create, inspect and report on cases",
	}
	cmd.AddCommand(newCaseNewCmd(a))
	cmd.AddCommand(newCaseListCmd(a))
	cmd.AddCommand(newCaseAddCmd(a))
	cmd.AddCommand(newCaseReportCmd(a))
	cmd.AddCommand(newCaseDeleteCmd(a))
	return cmd
}

func newCaseNewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty case and print its id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			c := cases.New(strings.Join(args, " "))
			if err := s.Save(cmd.Context(), c); err != nil {
				return fmt.Errorf("save case: %w", err)
			}
			a.logger.Info().Str("case_id", c.ID).Str("case_name", c.Name).Msg("case created")
			fmt.Fprintln(cmd.OutOrStdout(), c.ID)
			return nil
		},
	}
}

func newCaseListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			// Unreadable snapshots are reported after the cases that loaded.
			summaries, listErr := s.List(cmd.Context())
			if listErr != nil && len(summaries) == 0 {
				return fmt.Errorf("list cases: %w", listErr)
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cases found")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDOCUMENTS\tVIOLATIONS\tUPDATED")
			for _, sum := range summaries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
					sum.ID, sum.Name, sum.Documents, sum.Violations,
					sum.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if listErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", listErr)
			}
			return nil
		},
	}
}

func newCaseAddCmd(a *app) *cobra.Command {
	var advanced bool
	var workers int

	cmd := &cobra.Command{
		Use:   "add <case-id> <file>...",
		Short: "Extract, analyze and add documents to a case",
		Long: "Extract, analyze and add documents to a case. Files are extracted " +
			"in parallel and added to the case in the order given.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
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

			files := args[1:]
			results, stats := parallel.ExtractFiles(ctx, files, in.extractor, workers, in.observer, nil)
			a.logger.Debug().
				Int("files", stats.TotalFiles).
				Int("workers", stats.WorkerCount).
				Dur("duration", stats.TotalDuration).
				Msg("extraction finished")

			out := cmd.OutOrStdout()
			added, failed := 0, 0
			for _, r := range results {
				if r.Error != nil {
					a.logger.Error().Stack().Err(r.Error).Str("file", r.FilePath).Msg("extraction failed")
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: extract %s: %v\n", filepath.Base(r.FilePath), r.Error)
					failed++
					continue
				}
				record, err := in.pipeline.Add(ctx, c, r.FilePath, r.Extracted)
				switch {
				case errors.Is(err, pipeline.ErrDuplicate):
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s is already part of this case, skipped\n", filepath.Base(r.FilePath))
					continue
				case err != nil:
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					failed++
					continue
				}
				added++
				fmt.Fprintf(out, "Added %s (%s, %d violations)\n",
					record.Filename, record.DocumentType(), len(record.Violations))
			}

			if added > 0 {
				if err := s.Save(ctx, c); err != nil {
					return fmt.Errorf("save case: %w", err)
				}
			}

			summary := detector.Summarize(c.Violations)
			fmt.Fprintf(out, "Case %s: %d documents, %d violations, risk %s\n",
				c.Name, len(c.Documents), len(c.Violations), summary.RiskLevel)

			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be added", failed, len(files))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&advanced, "advanced", false, "Run the additional AI violation analysis per document")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel extraction workers (default: CPU count, at most 8)")
	return cmd
}

func newCaseReportCmd(a *app) *cobra.Command {
	var format, output string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "report <case-id>",
		Short: "Render a case report",
		Long: "Render a case report. Available formats: " +
			"text, markdown, briefing, json, yaml, xlsx (xlsx requires --output).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format == "" {
				format = a.cfg.Report.Format
			}
			info := formatters.GetFormatInfo(format)
			if info.Binary && output == "" {
				return fmt.Errorf("format %s writes a binary workbook; use --output", format)
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

			opts := formatters.FormatterOptions{
				NoColor: a.cfg.Report.NoColor || output != "",
				Verbose: verbose,
			}
			if !a.cfg.Analysis.DevMode && len(c.Documents) > 0 {
				analyzer, err := a.newAnalyzer(ctx)
				if err != nil {
					return err
				}
				defer closeAnalyzer(analyzer)
				res := analyzer.SummarizeCase(ctx, pipeline.Digest(c))
				opts.AIAnalysis = &res
			}

			report, err := formatters.Export(format, c, opts)
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), report)
				return nil
			}
			if err := os.WriteFile(output, []byte(report), 0o600); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Report format (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include document details and low-severity findings")
	return cmd
}

func newCaseDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <case-id>",
		Short: "Delete a stored case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("case %s not found", args[0])
				}
				return fmt.Errorf("delete case: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted case %s\n", args[0])
			return nil
		},
	}
}
