// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"sort"

	"caselens/internal/observability"
	"caselens/internal/patterns"
)

// Position is the span of a match in the scanned text, as byte offsets
type Position struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Violation is a flagged span of document text. SeverityScore always equals
// Severity.Score().
type Violation struct {
	Type           string            `json:"type" yaml:"type"`
	Description    string            `json:"description" yaml:"description"`
	Severity       patterns.Severity `json:"severity" yaml:"severity"`
	SeverityScore  int               `json:"severity_score" yaml:"severity_score"`
	Context        string            `json:"context" yaml:"context"`
	PatternMatched string            `json:"pattern_matched,omitempty" yaml:"pattern_matched,omitempty"`
	Position       *Position         `json:"position,omitempty" yaml:"position,omitempty"`
	DocumentHash   string            `json:"document_hash,omitempty" yaml:"document_hash,omitempty"`
	DocumentName   string            `json:"document_name,omitempty" yaml:"document_name,omitempty"`

	// Set on timeline gap violations only
	DaysBetween int `json:"days_between,omitempty" yaml:"days_between,omitempty"`
}

// NewViolation builds a violation with its score derived from severity
func NewViolation(kind, description string, severity patterns.Severity, context string) Violation {
	return Violation{
		Type:          kind,
		Description:   description,
		Severity:      severity,
		SeverityScore: severity.Score(),
		Context:       context,
	}
}

// Detector scans document text against the pattern library
type Detector struct {
	library   *patterns.Library
	extractor *ContextExtractor
	observer  *observability.StandardObserver
}

// New creates a detector over library
func New(library *patterns.Library) *Detector {
	return &Detector{
		library:   library,
		extractor: NewContextExtractor(),
	}
}

// SetObserver sets the observability component
func (d *Detector) SetObserver(observer *observability.StandardObserver) {
	d.observer = observer
}

// Detect returns deduplicated violations found in text, highest severity
// first. An empty result is not an error.
func (d *Detector) Detect(text, documentTypeHint string) []Violation {
	var finishTiming func(bool, map[string]interface{})
	var finishStep func(bool, string)
	if d.observer != nil {
		finishTiming = d.observer.StartTiming("violation_detector", "detect", documentTypeHint)
		if d.observer.DebugObserver != nil {
			finishStep = d.observer.DebugObserver.StartStep("violation_detector", "detect", documentTypeHint)
		}
	}

	rules := d.library.Select(text, documentTypeHint)

	var found []Violation
	for _, rule := range rules {
		for _, re := range rule.Patterns {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				v := NewViolation(rule.Key, rule.Description, rule.Severity, d.extractor.Window(text, loc[0], loc[1]))
				v.PatternMatched = text[loc[0]:loc[1]]
				v.Position = &Position{Start: loc[0], End: loc[1]}
				found = append(found, v)
			}
		}
	}

	result := Deduplicate(found)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SeverityScore > result[j].SeverityScore
	})

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"rules_applied": len(rules),
			"raw_matches":   len(found),
			"match_count":   len(result),
		})
	}
	if finishStep != nil {
		finishStep(true, "")
	}
	return result
}

// Deduplicate keeps the first violation for each (type, first 50 characters
// of context) key, preserving order.
func Deduplicate(violations []Violation) []Violation {
	seen := make(map[string]struct{}, len(violations))
	result := make([]Violation, 0, len(violations))
	for _, v := range violations {
		key := v.Type + "_" + Prefix(v.Context, 50)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, v)
	}
	return result
}
