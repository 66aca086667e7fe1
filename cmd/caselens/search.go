// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"caselens/internal/formatters/shared"
	"caselens/internal/search"
	"caselens/internal/timeline"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Search kinds beyond the document kinds in package search
const (
	kindViolations = "violations"
	kindActors     = "actors"
	kindTimeline   = "timeline"
)

type searchFlags struct {
	kind   string
	role   string
	from   string
	to     string
	output string
}

func newSearchCmd(a *app) *cobra.Command {
	f := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search <case-id> [query]",
		Short: "Search case documents, violations, actors or the timeline",
		Long: "Search a case. Kinds: text, pattern, comprehensive (documents), " +
			"violations, actors and timeline. Without a query, suggested searches are printed.",
		Args: cobra.RangeArgs(1, 2),
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

			query := ""
			if len(args) > 1 {
				query = args[1]
			}
			out := cmd.OutOrStdout()

			if query == "" && f.kind != kindViolations && f.kind != kindActors && f.kind != kindTimeline {
				for _, s := range search.Suggestions(c) {
					fmt.Fprintf(out, "  %s\n", s)
				}
				return nil
			}

			var result interface{}
			switch f.kind {
			case kindViolations:
				result = search.Violations(c, query)
			case kindActors:
				result = search.Actors(c, query, f.role)
			case kindTimeline:
				from, err := parseBound(f.from)
				if err != nil {
					return err
				}
				to, err := parseBound(f.to)
				if err != nil {
					return err
				}
				result = search.Timeline(c, from, to, query)
			default:
				res, err := search.Documents(c, query, f.kind)
				if err != nil {
					return err
				}
				result = res
			}

			return writeSearch(out, f.output, result)
		},
	}

	cmd.Flags().StringVarP(&f.kind, "kind", "k", search.KindComprehensive,
		"Search kind: text, pattern, comprehensive, violations, actors or timeline")
	cmd.Flags().StringVar(&f.role, "role", "", "Actor role filter for --kind actors (judge, attorney, caseworker)")
	cmd.Flags().StringVar(&f.from, "from", "", "Earliest event date for --kind timeline")
	cmd.Flags().StringVar(&f.to, "to", "", "Latest event date for --kind timeline")
	cmd.Flags().StringVarP(&f.output, "output", "o", "text", "Output format: text, json or yaml")
	return cmd
}

func parseBound(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, ok := timeline.ParseDate(s)
	if !ok {
		return nil, fmt.Errorf("unrecognized date %q", s)
	}
	return &t, nil
}

func writeSearch(w io.Writer, format string, result interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(result)
	case "", "text":
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}

	bold := color.New(color.Bold)
	switch r := result.(type) {
	case search.Results:
		bold.Fprintf(w, "%d matches for %q (%s)\n", r.Total, r.Query, r.Kind)
		for _, h := range r.Hits {
			fmt.Fprintf(w, "\n%s @%d [%s]\n  %s\n", h.DocumentName, h.Position, h.MatchType,
				shared.Clip(h.Context, shared.ReportContextChars))
		}
	case search.ViolationResults:
		bold.Fprintf(w, "%d violations matching %q\n", r.Total, r.Query)
		fmt.Fprintf(w, "High: %d  Medium: %d  Low: %d\n",
			r.SeverityBreakdown["high"], r.SeverityBreakdown["medium"], r.SeverityBreakdown["low"])
		for _, v := range r.Matches {
			fmt.Fprintf(w, "\n[%s] %s (%s)\n  %s\n", strings.ToUpper(string(v.Severity)),
				shared.ViolationTitle(v), shared.Or(v.DocumentName, shared.Unknown),
				shared.Clip(v.Context, shared.ReportContextChars))
		}
	case []search.ActorHit:
		bold.Fprintf(w, "%d actors\n", len(r))
		for _, h := range r {
			fmt.Fprintf(w, "  %s (%s): %d violations, score %d, %d documents\n",
				h.Name, h.Role, len(h.Violations), h.SeverityScore, len(h.Documents))
		}
	case []timeline.Event:
		bold.Fprintf(w, "%d timeline events\n", len(r))
		for _, e := range r {
			fmt.Fprintf(w, "  %s  %s (%s)\n", e.DateStr, e.Document, shared.Or(e.DocumentType, shared.Unknown))
		}
	}
	return nil
}
