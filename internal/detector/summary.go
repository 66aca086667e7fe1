// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"caselens/internal/patterns"
)

// RiskLevel is the overall rating of a set of violations
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// TypeSummary aggregates violations of one type
type TypeSummary struct {
	Count       int               `json:"count" yaml:"count"`
	Severity    patterns.Severity `json:"severity" yaml:"severity"`
	Description string            `json:"description" yaml:"description"`
}

// Summary is the severity heatmap for a list of violations
type Summary struct {
	SeverityCounts map[patterns.Severity]int `json:"severity_counts" yaml:"severity_counts"`
	Types          map[string]*TypeSummary   `json:"violation_types" yaml:"violation_types"`
	TotalScore     int                       `json:"total_score" yaml:"total_score"`
	RiskLevel      RiskLevel                 `json:"risk_level" yaml:"risk_level"`
}

// Summarize counts violations per severity and type and rates the overall risk
func Summarize(violations []Violation) Summary {
	s := Summary{
		SeverityCounts: map[patterns.Severity]int{
			patterns.SeverityHigh:   0,
			patterns.SeverityMedium: 0,
			patterns.SeverityLow:    0,
		},
		Types: make(map[string]*TypeSummary),
	}

	for _, v := range violations {
		severity := patterns.ParseSeverity(string(v.Severity))
		s.SeverityCounts[severity]++

		ts, ok := s.Types[v.Type]
		if !ok {
			ts = &TypeSummary{Severity: severity, Description: v.Description}
			s.Types[v.Type] = ts
		}
		ts.Count++

		score := v.SeverityScore
		if score == 0 {
			score = 1
		}
		s.TotalScore += score
	}

	s.RiskLevel = Risk(s.SeverityCounts[patterns.SeverityHigh], s.SeverityCounts[patterns.SeverityMedium])
	return s
}

// Risk rates a case from its high and medium violation counts
func Risk(high, medium int) RiskLevel {
	switch {
	case high >= 3:
		return RiskCritical
	case high >= 1 || medium >= 5:
		return RiskHigh
	case medium >= 2:
		return RiskMedium
	default:
		return RiskLow
	}
}
