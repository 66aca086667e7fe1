// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package legal

import (
	"regexp"
	"strings"

	"caselens/internal/patterns"
)

// Indicator is a phrase-level hint of a legal issue. Unlike detector rules,
// indicators are plain phrases with a coarse severity.
type Indicator struct {
	Type     string            `json:"type" yaml:"type"`
	Context  string            `json:"context" yaml:"context"`
	Severity patterns.Severity `json:"severity" yaml:"severity"`
}

var indicatorPhrases = []string{
	"due process violation",
	"constitutional violation",
	"procedural error",
	"jurisdictional issue",
	"inadequate representation",
	"failure to provide notice",
	"ex parte communication",
	"bias or prejudice",
	"insufficient evidence",
	"improper venue",
	"statute of limitations",
	"discovery violation",
	"brady violation",
	"ineffective assistance",
}

var indicatorSeverity = map[string]patterns.Severity{
	"constitutional violation":  patterns.SeverityHigh,
	"due process violation":     patterns.SeverityHigh,
	"brady violation":           patterns.SeverityHigh,
	"procedural error":          patterns.SeverityMedium,
	"discovery violation":       patterns.SeverityMedium,
	"inadequate representation": patterns.SeverityMedium,
}

type compiledIndicator struct {
	phrase string
	regex  *regexp.Regexp
}

var compiledIndicators = func() []compiledIndicator {
	out := make([]compiledIndicator, 0, len(indicatorPhrases))
	for _, phrase := range indicatorPhrases {
		// up to 100 characters either side, on one line
		out = append(out, compiledIndicator{
			phrase: phrase,
			regex:  regexp.MustCompile(`.{0,100}` + regexp.QuoteMeta(phrase) + `.{0,100}`),
		})
	}
	return out
}()

// Indicators scans lowercased text for indicator phrases. Each match carries
// its line-bounded context.
func Indicators(text string) []Indicator {
	lower := strings.ToLower(text)

	var found []Indicator
	for _, ind := range compiledIndicators {
		if !strings.Contains(lower, ind.phrase) {
			continue
		}
		for _, m := range ind.regex.FindAllString(lower, -1) {
			found = append(found, Indicator{
				Type:     ind.phrase,
				Context:  strings.TrimSpace(m),
				Severity: IndicatorSeverity(ind.phrase),
			})
		}
	}
	return found
}

// IndicatorSeverity rates an indicator phrase
func IndicatorSeverity(phrase string) patterns.Severity {
	if s, ok := indicatorSeverity[phrase]; ok {
		return s
	}
	return patterns.SeverityLow
}
