// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caselens/internal/observability"
	"caselens/internal/patterns"
)

func newDetector() *Detector {
	return New(patterns.NewLibrary())
}

func TestDetectDueProcessScenario(t *testing.T) {
	text := "The court found a due process violation in denying notice. Due process violation occurred again here."

	violations := newDetector().Detect(text, "unknown")

	require.Len(t, violations, 1)
	v := violations[0]
	assert.Equal(t, "constitutional_violation", v.Type)
	assert.Equal(t, patterns.SeverityHigh, v.Severity)
	assert.Equal(t, 3, v.SeverityScore)
	assert.Equal(t, "due process violation", v.PatternMatched)
	require.NotNil(t, v.Position)
	assert.Equal(t, 18, v.Position.Start)
	assert.Equal(t, text, v.Context)
}

func TestDetectSeverityScoresMatchSeverity(t *testing.T) {
	text := strings.Join([]string{
		"There was a constitutional violation during the review.",
		strings.Repeat("filler text ", 30),
		"A procedural error was recorded by the clerk.",
		strings.Repeat("filler text ", 30),
		"The file shows missing documentation for the visit.",
	}, " ")

	violations := newDetector().Detect(text, "order")

	require.Len(t, violations, 3)
	for _, v := range violations {
		assert.Equal(t, v.Severity.Score(), v.SeverityScore, v.Type)
	}
	assert.Equal(t, "constitutional_violation", violations[0].Type)
	assert.Equal(t, "procedural_error", violations[1].Type)
	assert.Equal(t, "documentation_error", violations[2].Type)
}

func TestDetectKeepsDistantDuplicates(t *testing.T) {
	text := "missed hearing " + strings.Repeat("x", 300) + " missed hearing"

	violations := newDetector().Detect(text, "")

	require.Len(t, violations, 2)
	assert.NotEqual(t, violations[0].Position.Start, violations[1].Position.Start)
}

func TestDetectContextCountsCharacters(t *testing.T) {
	text := strings.Repeat("§", 150) + " due process violation"

	violations := newDetector().Detect(text, "unknown")

	require.Len(t, violations, 1)
	v := violations[0]
	before := v.Context[:strings.Index(v.Context, "due process violation")]
	assert.Equal(t, 100, utf8.RuneCountInString(before))
	assert.Equal(t, strings.Repeat("§", 99)+" due process violation", v.Context)
	assert.Equal(t, "due process violation", text[v.Position.Start:v.Position.End])
}

func TestDetectDedupOnNonASCIIContext(t *testing.T) {
	text := strings.Repeat("§", 60) + " missed hearing, missed hearing"

	violations := newDetector().Detect(text, "")

	require.Len(t, violations, 1)
	assert.Equal(t, "missed_hearing", violations[0].Type)
}

func TestDetectTableSelection(t *testing.T) {
	text := "The safety plan not followed by the agency. Judicial bias was apparent."

	without := newDetector().Detect(text, "motion")
	assert.Empty(t, without)

	withCPS := newDetector().Detect(text, "cps")
	require.Len(t, withCPS, 1)
	assert.Equal(t, "safety_plan_violation", withCPS[0].Type)

	both := newDetector().Detect(text+" Filed in family court.", "cps")
	types := make([]string, 0, len(both))
	for _, v := range both {
		types = append(types, v.Type)
	}
	assert.ElementsMatch(t, []string{"safety_plan_violation", "judicial_bias"}, types)
}

func TestDetectEmptyText(t *testing.T) {
	violations := newDetector().Detect("", "unknown")
	assert.Empty(t, violations)
}

func TestDetectStableOrderWithinSeverity(t *testing.T) {
	// equal scores keep rule-table order
	text := "insufficient notice " + strings.Repeat("y", 250) + " constitutional violation"
	violations := newDetector().Detect(text, "")
	require.Len(t, violations, 2)
	assert.Equal(t, "constitutional_violation", violations[0].Type)
	assert.Equal(t, "due_process_denial", violations[1].Type)
}

func TestDetectWithObserver(t *testing.T) {
	var buf bytes.Buffer
	d := newDetector()
	d.SetObserver(observability.NewStandardObserver(observability.ObservabilityMetrics, &buf))

	d.Detect("a filing error", "")

	assert.Contains(t, buf.String(), `"component":"violation_detector"`)
	assert.Contains(t, buf.String(), `"match_count":1`)
}

func TestDeduplicate(t *testing.T) {
	in := []Violation{
		{Type: "a", Context: strings.Repeat("c", 60) + "one"},
		{Type: "a", Context: strings.Repeat("c", 60) + "two"},
		{Type: "b", Context: strings.Repeat("c", 60)},
		{Type: "a", Context: "different"},
	}
	out := Deduplicate(in)
	require.Len(t, out, 3)
	assert.Equal(t, "one", out[0].Context[60:])
	assert.Equal(t, "b", out[1].Type)
	assert.Equal(t, "different", out[2].Context)
}

func TestContextWindow(t *testing.T) {
	ce := NewContextExtractor().WithContextChars(5)
	text := "  0123456789MATCH0123456789  "
	start := strings.Index(text, "MATCH")

	assert.Equal(t, "56789MATCH01234", ce.Window(text, start, start+5))
	assert.Equal(t, "0123456789MATCH01234", NewContextExtractor().WithContextChars(12).Window(text, start, start+5)[:20])
}

func TestContextWindowKeepsRunesWhole(t *testing.T) {
	ce := NewContextExtractor().WithContextChars(1)
	text := "é abc é"
	start := strings.Index(text, "abc")
	window := ce.Window(text, start, start+3)
	assert.Equal(t, "abc", window)

	ce = NewContextExtractor().WithContextChars(2)
	window = ce.Window(text, start, start+3)
	assert.Equal(t, "é abc é", window)
}

func TestContextWindowCountsRunes(t *testing.T) {
	ce := NewContextExtractor().WithContextChars(3)
	text := "“a—b” MATCH «c»d"
	start := strings.Index(text, "MATCH")

	assert.Equal(t, "b” MATCH «c", ce.Window(text, start, start+5))
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "abc", Prefix("abc", 50))
	assert.Equal(t, "ab", Prefix("abc", 2))
	assert.Equal(t, "éé", Prefix("ééé", 2))
}

func TestSummarize(t *testing.T) {
	violations := []Violation{
		NewViolation("constitutional_violation", "Constitutional rights violation", patterns.SeverityHigh, ""),
		NewViolation("missed_hearing", "Required hearings missed or delayed", patterns.SeverityMedium, ""),
		NewViolation("missed_hearing", "Required hearings missed or delayed", patterns.SeverityMedium, ""),
		NewViolation("filing", "Documentation", patterns.SeverityLow, ""),
	}

	s := Summarize(violations)
	assert.Equal(t, 1, s.SeverityCounts[patterns.SeverityHigh])
	assert.Equal(t, 2, s.SeverityCounts[patterns.SeverityMedium])
	assert.Equal(t, 1, s.SeverityCounts[patterns.SeverityLow])
	assert.Equal(t, 2, s.Types["missed_hearing"].Count)
	assert.Equal(t, 8, s.TotalScore)
	assert.Equal(t, RiskHigh, s.RiskLevel)
}

func TestRisk(t *testing.T) {
	cases := []struct {
		name         string
		high, medium int
		want         RiskLevel
	}{
		{"none", 0, 0, RiskLow},
		{"one medium", 0, 1, RiskLow},
		{"two medium", 0, 2, RiskMedium},
		{"five medium", 0, 5, RiskHigh},
		{"one high", 1, 0, RiskHigh},
		{"three high", 3, 0, RiskCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Risk(tc.high, tc.medium))
		})
	}
}
