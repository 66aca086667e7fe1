// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"caselens/internal/analysis"
	casepkg "caselens/internal/cases"
	"caselens/internal/detector"
	"caselens/internal/formatters"
	"caselens/internal/patterns"
)

// Placeholders for missing values
const (
	Unknown   = "Unknown"
	NoContext = "No context available"
)

// Section limits shared by the human-readable reports
const (
	MaxViolationsPerTier = 10
	MaxTimelineEvents    = 20
	MaxActors            = 10
	MaxActorDocuments    = 3
	MaxEntityValues      = 5
	MaxCourts            = 3
	ReportContextChars   = 150
	BriefingContextChars = 200
	BriefingMediumLimit  = 5

	// Actors above this score are named in the recusal recommendation.
	RepeatViolatorScore = 5
)

// Timestamp layouts
const (
	ReportTimeLayout = "January 02, 2006 at 03:04 PM"
	ReportDateLayout = "January 02, 2006"
	DayLayout        = "2006-01-02"
)

var titleCaser = cases.Title(language.English)

// Title capitalises every word: "due process" becomes "Due Process"
func Title(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

// Clip shortens s to n characters, marking the cut with "..."
func Clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i] + "..."
		}
		count++
	}
	return s
}

// Or returns s, or fallback when s is blank
func Or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// ViolationTitle prefers the description and falls back to the type
func ViolationTitle(v detector.Violation) string {
	return Title(Or(v.Description, Or(v.Type, Unknown)))
}

// BySeverity splits violations into high, medium and low, keeping order
func BySeverity(violations []detector.Violation) (high, medium, low []detector.Violation) {
	for _, v := range violations {
		switch patterns.ParseSeverity(string(v.Severity)) {
		case patterns.SeverityHigh:
			high = append(high, v)
		case patterns.SeverityMedium:
			medium = append(medium, v)
		default:
			low = append(low, v)
		}
	}
	return high, medium, low
}

// First returns at most n leading elements
func First[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

// RankedActor pairs an actor name with its record
type RankedActor struct {
	Name string
	*casepkg.ActorRecord
}

// RankActors orders actors by severity score, highest first, then by name
func RankActors(c *casepkg.Case) []RankedActor {
	ranked := make([]RankedActor, 0, len(c.ActorTracking))
	for name, actor := range c.ActorTracking {
		ranked = append(ranked, RankedActor{Name: name, ActorRecord: actor})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].SeverityScore != ranked[j].SeverityScore {
			return ranked[i].SeverityScore > ranked[j].SeverityScore
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}

// RiskLabel renders a risk level for display
func RiskLabel(level detector.RiskLevel) string {
	return Title(string(level))
}

// AIAnalysisText returns the case-level AI section body
func AIAnalysisText(options formatters.FormatterOptions) string {
	r := options.AIAnalysis
	switch {
	case r == nil:
		return analysis.StubCaseText
	case r.Status == analysis.StatusFailed:
		return "AI analysis unavailable: " + r.Error
	case strings.TrimSpace(r.Text) != "":
		return r.Text
	default:
		return analysis.StubCaseText
	}
}

// Recommendations derives next steps from the case violations and actors
func Recommendations(c *casepkg.Case) []string {
	var recs []string

	high, _, _ := BySeverity(c.Violations)
	if len(high) > 0 {
		recs = append(recs,
			"Immediately consult with a qualified family law attorney regarding the constitutional violations identified",
			"Document all high-severity violations with supporting evidence for potential legal challenge",
		)
	}

	if len(c.Violations) > 10 {
		recs = append(recs, "Consider filing a comprehensive motion addressing the multiple procedural violations")
	}

	var repeat []string
	for _, actor := range RankActors(c) {
		if actor.SeverityScore > RepeatViolatorScore {
			repeat = append(repeat, actor.Name)
		}
	}
	if len(repeat) > 0 {
		recs = append(recs, fmt.Sprintf("Request recusal or investigation of repeat violators: %s", strings.Join(First(repeat, 3), ", ")))
	}

	if hasType(c.Violations, "timeline") {
		recs = append(recs, "File motion addressing timeline and deadline violations")
	}
	if hasType(c.Violations, "due_process") {
		recs = append(recs, "Consider federal civil rights action under 42 U.S.C. § 1983 for due process violations")
	}

	if len(recs) == 0 {
		recs = append(recs,
			"Continue monitoring case for procedural compliance",
			"Maintain detailed records of all court proceedings and communications",
		)
	}
	return recs
}

func hasType(violations []detector.Violation, fragment string) bool {
	for _, v := range violations {
		if strings.Contains(strings.ToLower(v.Type), fragment) {
			return true
		}
	}
	return false
}

// TypeCount is the number of violations of one type
type TypeCount struct {
	Type        string
	Description string
	Severity    patterns.Severity
	Count       int
}

// CountByType groups violations by type, most severe then most frequent first
func CountByType(violations []detector.Violation) []TypeCount {
	index := make(map[string]int)
	var out []TypeCount
	for _, v := range violations {
		i, ok := index[v.Type]
		if !ok {
			i = len(out)
			index[v.Type] = i
			out = append(out, TypeCount{Type: v.Type, Description: v.Description, Severity: patterns.ParseSeverity(string(v.Severity))})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity.Score() != out[j].Severity.Score() {
			return out[i].Severity.Score() > out[j].Severity.Score()
		}
		return out[i].Count > out[j].Count
	})
	return out
}
