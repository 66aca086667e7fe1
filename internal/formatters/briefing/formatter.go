// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package briefing

import (
	"fmt"
	"strings"

	"caselens/internal/cases"
	"caselens/internal/formatters"
	"caselens/internal/formatters/shared"
)

// Formatter renders a focused violation briefing for legal action
type Formatter struct{}

// NewFormatter creates a new briefing formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "briefing"
}

func (f *Formatter) Description() string {
	return "Violation briefing grouped by severity and type"
}

func (f *Formatter) FileExtension() string {
	return ".md"
}

func (f *Formatter) Format(c *cases.Case, options formatters.FormatterOptions) (string, error) {
	var b strings.Builder
	high, medium, low := shared.BySeverity(c.Violations)

	fmt.Fprintf(&b, "# VIOLATION BRIEFING\n## Case: %s\n### Date: %s\n\n---\n\n", shared.Or(c.Name, "Unknown Case"), options.GeneratedAt().Format(shared.ReportDateLayout))

	b.WriteString("## SUMMARY OF LEGAL VIOLATIONS\n\n")
	fmt.Fprintf(&b, "**Total Violations:** %d\n", len(c.Violations))
	fmt.Fprintf(&b, "- Critical/High: %d\n", len(high))
	fmt.Fprintf(&b, "- Medium: %d\n", len(medium))
	fmt.Fprintf(&b, "- Low: %d\n\n", len(low))

	if types := shared.CountByType(c.Violations); len(types) > 0 {
		b.WriteString("## VIOLATIONS BY TYPE\n\n")
		for _, tc := range types {
			fmt.Fprintf(&b, "- **%s** (`%s`, %s): %d\n", shared.Title(shared.Or(tc.Description, tc.Type)), tc.Type, tc.Severity, tc.Count)
		}
		b.WriteString("\n")
	}

	if len(high) > 0 {
		b.WriteString("## CRITICAL VIOLATIONS REQUIRING IMMEDIATE ATTENTION\n\n")
		for i, v := range high {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, strings.ToUpper(shared.Or(v.Description, "Unknown Violation")))
			fmt.Fprintf(&b, "**Document:** %s\n\n", shared.Or(v.DocumentName, shared.Unknown))
			fmt.Fprintf(&b, "**Evidence:** %s\n\n", shared.Or(v.Context, shared.NoContext))
			fmt.Fprintf(&b, "**Legal Significance:** This represents a %s severity violation that may constitute grounds for legal challenge.\n\n", v.Severity)
			b.WriteString("---\n\n")
		}
	}

	if len(medium) > 0 {
		b.WriteString("## SIGNIFICANT PROCEDURAL VIOLATIONS\n\n")
		for i, v := range shared.First(medium, shared.BriefingMediumLimit) {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, shared.Title(shared.Or(v.Description, "Unknown Violation")))
			fmt.Fprintf(&b, "**Document:** %s\n\n", shared.Or(v.DocumentName, shared.Unknown))
			fmt.Fprintf(&b, "**Context:** %s\n\n", shared.Clip(shared.Or(v.Context, shared.NoContext), shared.BriefingContextChars))
			b.WriteString("---\n\n")
		}
	}

	return b.String(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
