// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"caselens/internal/cases"
	"caselens/internal/detector"
	"caselens/internal/formatters"
	"caselens/internal/formatters/shared"
	"caselens/internal/patterns"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"blue":    color.New(color.FgBlue),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable terminal report with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(c *cases.Case, options formatters.FormatterOptions) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder
	f.appendOverview(&builder, c, options)
	f.appendDocuments(&builder, c, options)
	f.appendEntities(&builder, c, options)
	f.appendViolations(&builder, c, options)
	f.appendTimeline(&builder, c, options)
	f.appendActors(&builder, c, options)

	f.appendHeading(&builder, "AI ANALYSIS", options)
	builder.WriteString(shared.AIAnalysisText(options) + "\n\n")

	f.appendHeading(&builder, "RECOMMENDATIONS", options)
	for i, rec := range shared.Recommendations(c) {
		fmt.Fprintf(&builder, "%2d. %s\n", i+1, rec)
	}
	return builder.String(), nil
}

// paint applies a named color unless colors are disabled
func (f *Formatter) paint(name string, options formatters.FormatterOptions, format string, args ...interface{}) string {
	if options.NoColor {
		return fmt.Sprintf(format, args...)
	}
	return f.colors[name].Sprintf(format, args...)
}

func (f *Formatter) severityColor(severity patterns.Severity) string {
	switch severity {
	case patterns.SeverityHigh:
		return "red"
	case patterns.SeverityMedium:
		return "yellow"
	default:
		return "green"
	}
}

func (f *Formatter) appendHeading(builder *strings.Builder, title string, options formatters.FormatterOptions) {
	builder.WriteString(f.paint("white", options, "%s\n", title))
	builder.WriteString(f.paint("white", options, "%s\n", strings.Repeat("-", len(title))))
}

func (f *Formatter) appendOverview(builder *strings.Builder, c *cases.Case, options formatters.FormatterOptions) {
	stats := shared.BuildStatistics(c)
	builder.WriteString(f.paint("white", options, "Case: %s", shared.Or(c.Name, "Unknown Case")))
	builder.WriteString(f.paint("cyan", options, " (%s)\n", c.ID))
	fmt.Fprintf(builder, "Generated: %s\n\n", options.GeneratedAt().Format(shared.ReportTimeLayout))

	fmt.Fprintf(builder, "Documents:  %d\n", stats.TotalDocuments)
	fmt.Fprintf(builder, "Violations: %d (", stats.TotalViolations)
	builder.WriteString(f.paint("red", options, "%d high", stats.SeverityBreakdown[string(patterns.SeverityHigh)]))
	builder.WriteString(", ")
	builder.WriteString(f.paint("yellow", options, "%d medium", stats.SeverityBreakdown[string(patterns.SeverityMedium)]))
	builder.WriteString(", ")
	builder.WriteString(f.paint("green", options, "%d low", stats.SeverityBreakdown[string(patterns.SeverityLow)]))
	builder.WriteString(")\n")

	riskColor := "green"
	switch stats.RiskLevel {
	case detector.RiskCritical, detector.RiskHigh:
		riskColor = "red"
	case detector.RiskMedium:
		riskColor = "yellow"
	}
	fmt.Fprintf(builder, "Risk:       %s\n\n", f.paint(riskColor, options, "%s", shared.RiskLabel(stats.RiskLevel)))
}

func (f *Formatter) appendDocuments(builder *strings.Builder, c *cases.Case, options formatters.FormatterOptions) {
	docs := c.OrderedDocuments()
	if len(docs) == 0 {
		return
	}
	f.appendHeading(builder, "DOCUMENTS", options)
	for i, doc := range docs {
		processed := shared.Unknown
		if !doc.UploadDate.IsZero() {
			processed = doc.UploadDate.Format(shared.DayLayout)
		}
		fmt.Fprintf(builder, "%2d. %s  %s  %s",
			i+1,
			f.paint("white", options, "%s", shared.Or(doc.Filename, "Unknown Document")),
			f.paint("cyan", options, "%-10s", doc.DocumentType()),
			processed)
		if options.Verbose {
			fmt.Fprintf(builder, "  %s/%d pages/%.2f", shared.Or(doc.ExtractionMethod, shared.Unknown), doc.PageCount, doc.Classification.Confidence)
		}
		builder.WriteString("\n")
	}
	builder.WriteString("\n")
}

func (f *Formatter) appendEntities(builder *strings.Builder, c *cases.Case, options formatters.FormatterOptions) {
	rows := []struct {
		label string
		kind  string
		limit int
	}{
		{"Case numbers", cases.EntityCaseNumbers, shared.MaxEntityValues},
		{"Judges", cases.EntityJudges, shared.MaxEntityValues},
		{"Attorneys", cases.EntityAttorneys, shared.MaxEntityValues},
		{"Courts", cases.EntityCourts, shared.MaxCourts},
	}

	var lines []string
	for _, row := range rows {
		values := c.EntityValues(row.kind)
		if len(values) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-13s %s", row.label+":", strings.Join(shared.First(values, row.limit), ", ")))
	}
	if len(lines) == 0 {
		return
	}
	f.appendHeading(builder, "KEY ENTITIES", options)
	builder.WriteString(strings.Join(lines, "\n") + "\n\n")
}

func (f *Formatter) appendViolations(builder *strings.Builder, c *cases.Case, options formatters.FormatterOptions) {
	f.appendHeading(builder, "VIOLATIONS", options)
	if len(c.Violations) == 0 {
		builder.WriteString("No violations detected in the analyzed documents.\n\n")
		return
	}

	high, medium, low := shared.BySeverity(c.Violations)
	tiers := [][]detector.Violation{high, medium}
	if options.Verbose {
		tiers = append(tiers, low)
	}
	for _, tier := range tiers {
		for _, v := range shared.First(tier, shared.MaxViolationsPerTier) {
			severity := patterns.ParseSeverity(string(v.Severity))
			fmt.Fprintf(builder, "%s %s %s\n",
				f.paint(f.severityColor(severity), options, "[%-6s]", strings.ToUpper(string(severity))),
				f.paint("cyan", options, "%-32s", v.Type),
				f.paint("magenta", options, "%s", shared.Or(v.DocumentName, shared.Unknown)))
			fmt.Fprintf(builder, "         %s\n", shared.Clip(oneLine(shared.Or(v.Context, shared.NoContext)), shared.ReportContextChars))
		}
	}
	if !options.Verbose && len(low) > 0 {
		fmt.Fprintf(builder, "(%d low severity violations not shown)\n", len(low))
	}
	builder.WriteString("\n")

	if len(c.Contradictions) > 0 {
		for _, ct := range c.Contradictions {
			fmt.Fprintf(builder, "%s %s\n", f.paint("yellow", options, "[%-6s]", "CONTRA"), ct.Description)
		}
		builder.WriteString("\n")
	}
}

func (f *Formatter) appendTimeline(builder *strings.Builder, c *cases.Case, options formatters.FormatterOptions) {
	if len(c.Timeline) == 0 {
		return
	}
	f.appendHeading(builder, "TIMELINE", options)
	for _, event := range shared.First(c.Timeline, shared.MaxTimelineEvents) {
		fmt.Fprintf(builder, "%s  %-10s %s\n",
			f.paint("blue", options, "%-18s", shared.Or(event.DateStr, "Unknown Date")),
			shared.Title(shared.Or(event.DocumentType, "unknown")),
			shared.Or(event.Document, "Unknown Document"))
	}
	for _, v := range c.TimelineViolations {
		fmt.Fprintf(builder, "%s %s: %s\n", f.paint("yellow", options, "[%-6s]", "DELAY"), v.Description, v.Context)
	}
	builder.WriteString("\n")
}

func (f *Formatter) appendActors(builder *strings.Builder, c *cases.Case, options formatters.FormatterOptions) {
	if len(c.ActorTracking) == 0 {
		return
	}
	f.appendHeading(builder, "REPEAT ACTORS", options)
	for _, actor := range shared.First(shared.RankActors(c), shared.MaxActors) {
		fmt.Fprintf(builder, "%s (%s) violations=%d score=%s documents=%s\n",
			f.paint("white", options, "%s", actor.Name),
			actor.Role,
			len(actor.Violations),
			f.paint("red", options, "%d", actor.SeverityScore),
			strings.Join(shared.First(actor.Documents.Values(), shared.MaxActorDocuments), ", "))
	}
	builder.WriteString("\n")
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\t", " ")
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
