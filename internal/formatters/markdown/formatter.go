// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"fmt"
	"strings"

	"caselens/internal/cases"
	"caselens/internal/detector"
	"caselens/internal/formatters"
	"caselens/internal/formatters/shared"
	"caselens/internal/patterns"
)

// Formatter renders the case summary report as Markdown
type Formatter struct{}

// NewFormatter creates a new Markdown formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "markdown"
}

func (f *Formatter) Description() string {
	return "Case analysis report in Markdown"
}

func (f *Formatter) FileExtension() string {
	return ".md"
}

func (f *Formatter) Format(c *cases.Case, options formatters.FormatterOptions) (string, error) {
	var b strings.Builder
	generated := options.GeneratedAt().Format(shared.ReportTimeLayout)
	stats := shared.BuildStatistics(c)

	fmt.Fprintf(&b, "# LEGAL CASE ANALYSIS REPORT\n## Case: %s\n### Generated: %s\n\n---\n\n", shared.Or(c.Name, "Unknown Case"), generated)

	b.WriteString("## EXECUTIVE SUMMARY\n\n")
	fmt.Fprintf(&b, "**Total Documents Analyzed:** %d\n", stats.TotalDocuments)
	fmt.Fprintf(&b, "**Total Violations Identified:** %d\n", stats.TotalViolations)
	fmt.Fprintf(&b, "- High Severity: %d\n", stats.SeverityBreakdown[string(patterns.SeverityHigh)])
	fmt.Fprintf(&b, "- Medium Severity: %d\n", stats.SeverityBreakdown[string(patterns.SeverityMedium)])
	fmt.Fprintf(&b, "- Low Severity: %d\n\n", stats.SeverityBreakdown[string(patterns.SeverityLow)])
	fmt.Fprintf(&b, "**Risk Assessment:** %s\n\n---\n\n", shared.RiskLabel(stats.RiskLevel))

	b.WriteString("## DOCUMENT INVENTORY\n\n")
	for i, doc := range c.OrderedDocuments() {
		processed := shared.Unknown
		if !doc.UploadDate.IsZero() {
			processed = doc.UploadDate.Format(shared.DayLayout)
		}
		fmt.Fprintf(&b, "%d. **%s**\n   - Type: %s\n   - Processed: %s\n", i+1, shared.Or(doc.Filename, "Unknown Document"), shared.Title(doc.DocumentType()), processed)
		if options.Verbose {
			fmt.Fprintf(&b, "   - Extraction: %s, %d page(s)\n", shared.Or(doc.ExtractionMethod, shared.Unknown), doc.PageCount)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n---\n\n## KEY LEGAL ENTITIES\n\n")
	writeEntities(&b, "Case Numbers", c.EntityValues(cases.EntityCaseNumbers), shared.MaxEntityValues)
	writeEntities(&b, "Judges", c.EntityValues(cases.EntityJudges), shared.MaxEntityValues)
	writeEntities(&b, "Attorneys", c.EntityValues(cases.EntityAttorneys), shared.MaxEntityValues)
	writeEntities(&b, "Courts", c.EntityValues(cases.EntityCourts), shared.MaxCourts)

	b.WriteString("\n---\n\n## VIOLATIONS AND ISSUES IDENTIFIED\n\n")
	if len(c.Violations) == 0 {
		b.WriteString("No violations detected in the analyzed documents.\n\n")
	} else {
		high, medium, _ := shared.BySeverity(c.Violations)
		writeTier(&b, "### 🚨 HIGH SEVERITY VIOLATIONS", high)
		writeTier(&b, "### ⚠️ MEDIUM SEVERITY VIOLATIONS", medium)
	}

	if len(c.Timeline) > 0 {
		b.WriteString("\n---\n\n## CASE TIMELINE\n\n")
		for _, event := range shared.First(c.Timeline, shared.MaxTimelineEvents) {
			fmt.Fprintf(&b, "- **%s** - %s (%s)\n", shared.Or(event.DateStr, "Unknown Date"), shared.Title(shared.Or(event.DocumentType, "unknown")), shared.Or(event.Document, "Unknown Document"))
		}
		if len(c.TimelineViolations) > 0 {
			b.WriteString("\n**Delays:**\n")
			for _, v := range c.TimelineViolations {
				fmt.Fprintf(&b, "- %s: %s\n", v.Description, v.Context)
			}
		}
	}

	if len(c.Contradictions) > 0 {
		b.WriteString("\n---\n\n## CONTRADICTIONS\n\n")
		for _, ct := range c.Contradictions {
			fmt.Fprintf(&b, "- %s (%s)\n", ct.Description, strings.Join(ct.Documents, ", "))
		}
	}

	if len(c.ActorTracking) > 0 {
		b.WriteString("\n---\n\n## REPEAT ACTORS WITH VIOLATIONS\n\n")
		for _, actor := range shared.First(shared.RankActors(c), shared.MaxActors) {
			fmt.Fprintf(&b, "**%s** (%s)\n", actor.Name, shared.Title(shared.Or(string(actor.Role), "unknown")))
			fmt.Fprintf(&b, "- Violations: %d\n", len(actor.Violations))
			fmt.Fprintf(&b, "- Severity Score: %d\n", actor.SeverityScore)
			fmt.Fprintf(&b, "- Documents: %s\n\n", strings.Join(shared.First(actor.Documents.Values(), shared.MaxActorDocuments), ", "))
		}
	}

	fmt.Fprintf(&b, "\n---\n\n## AI LEGAL ANALYSIS\n\n%s\n", shared.AIAnalysisText(options))

	b.WriteString("\n---\n\n## RECOMMENDATIONS\n\n")
	for i, rec := range shared.Recommendations(c) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
	}

	fmt.Fprintf(&b, "\n---\n\n*Report generated by caselens on %s*\n", generated)
	return b.String(), nil
}

func writeEntities(b *strings.Builder, label string, values []string, limit int) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:** %s\n\n", label, strings.Join(shared.First(values, limit), ", "))
}

func writeTier(b *strings.Builder, heading string, violations []detector.Violation) {
	if len(violations) == 0 {
		return
	}
	b.WriteString(heading + "\n\n")
	for i, v := range shared.First(violations, shared.MaxViolationsPerTier) {
		fmt.Fprintf(b, "%d. **%s**\n", i+1, shared.ViolationTitle(v))
		fmt.Fprintf(b, "   - Document: %s\n", shared.Or(v.DocumentName, shared.Unknown))
		fmt.Fprintf(b, "   - Context: %s\n\n", shared.Clip(shared.Or(v.Context, shared.NoContext), shared.ReportContextChars))
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
