// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"time"

	"caselens/internal/analysis"
	"caselens/internal/cases"
	"caselens/internal/detector"
	"caselens/internal/formatters"
	"caselens/internal/patterns"
	"caselens/internal/timeline"
)

// CaseExport is the top-level structure for JSON/YAML output
type CaseExport struct {
	CaseInfo           CaseInfo                `json:"case_info" yaml:"case_info"`
	Documents          []ExportDocument        `json:"documents" yaml:"documents"`
	Violations         []detector.Violation    `json:"violations" yaml:"violations"`
	Timeline           []timeline.Event        `json:"timeline" yaml:"timeline"`
	TimelineViolations []detector.Violation    `json:"timeline_violations" yaml:"timeline_violations"`
	Entities           map[string][]string     `json:"entities" yaml:"entities"`
	ActorTracking      map[string]ExportActor  `json:"actor_tracking" yaml:"actor_tracking"`
	Contradictions     []cases.Contradiction   `json:"contradictions" yaml:"contradictions"`
	Statistics         Statistics              `json:"statistics" yaml:"statistics"`
	AIAnalysis         *analysis.Result        `json:"ai_analysis,omitempty" yaml:"ai_analysis,omitempty"`
	Recommendations    []string                `json:"recommendations" yaml:"recommendations"`
}

// CaseInfo identifies the exported case
type CaseInfo struct {
	CaseID      string    `json:"case_id" yaml:"case_id"`
	CaseName    string    `json:"case_name" yaml:"case_name"`
	CreatedDate time.Time `json:"created_date" yaml:"created_date"`
	LastUpdated time.Time `json:"last_updated" yaml:"last_updated"`
	ExportDate  time.Time `json:"export_date" yaml:"export_date"`
}

// ExportDocument is the simplified per-document entry
type ExportDocument struct {
	Hash             string    `json:"hash" yaml:"hash"`
	Filename         string    `json:"filename" yaml:"filename"`
	UploadDate       time.Time `json:"upload_date" yaml:"upload_date"`
	DocumentType     string    `json:"document_type" yaml:"document_type"`
	ExtractionMethod string    `json:"extraction_method,omitempty" yaml:"extraction_method,omitempty"`
	PageCount        int       `json:"page_count,omitempty" yaml:"page_count,omitempty"`
	ViolationCount   int       `json:"violation_count" yaml:"violation_count"`
}

// ExportActor is one tracked actor
type ExportActor struct {
	Type          cases.Role `json:"type" yaml:"type"`
	Violations    int        `json:"violation_count" yaml:"violation_count"`
	Documents     []string   `json:"documents" yaml:"documents"`
	SeverityScore int        `json:"severity_score" yaml:"severity_score"`
}

// Statistics summarises case violations
type Statistics struct {
	TotalDocuments    int                `json:"total_documents" yaml:"total_documents"`
	TotalViolations   int                `json:"total_violations" yaml:"total_violations"`
	SeverityBreakdown map[string]int     `json:"severity_breakdown" yaml:"severity_breakdown"`
	RiskLevel         detector.RiskLevel `json:"risk_level" yaml:"risk_level"`
}

// BuildExport converts a case to the export structure shared by the JSON,
// YAML and spreadsheet formatters.
func BuildExport(c *cases.Case, options formatters.FormatterOptions) CaseExport {
	export := CaseExport{
		CaseInfo: CaseInfo{
			CaseID:      c.ID,
			CaseName:    c.Name,
			CreatedDate: c.CreatedAt,
			LastUpdated: c.LastUpdated,
			ExportDate:  options.GeneratedAt().UTC(),
		},
		Documents:          []ExportDocument{},
		Violations:         nonNilViolations(c.Violations),
		Timeline:           c.Timeline,
		TimelineViolations: nonNilViolations(c.TimelineViolations),
		Entities:           make(map[string][]string, len(c.Entities)),
		ActorTracking:      make(map[string]ExportActor, len(c.ActorTracking)),
		Contradictions:     c.Contradictions,
		Statistics:         BuildStatistics(c),
		AIAnalysis:         options.AIAnalysis,
		Recommendations:    Recommendations(c),
	}
	if export.Timeline == nil {
		export.Timeline = []timeline.Event{}
	}
	if export.Contradictions == nil {
		export.Contradictions = []cases.Contradiction{}
	}

	perDocument := make(map[string]int)
	for _, v := range c.Violations {
		perDocument[v.DocumentHash]++
	}
	for _, doc := range c.OrderedDocuments() {
		export.Documents = append(export.Documents, ExportDocument{
			Hash:             doc.Hash,
			Filename:         doc.Filename,
			UploadDate:       doc.UploadDate,
			DocumentType:     doc.DocumentType(),
			ExtractionMethod: doc.ExtractionMethod,
			PageCount:        doc.PageCount,
			ViolationCount:   perDocument[doc.Hash],
		})
	}

	for kind := range c.Entities {
		export.Entities[kind] = c.EntityValues(kind)
	}
	for name, actor := range c.ActorTracking {
		export.ActorTracking[name] = ExportActor{
			Type:          actor.Role,
			Violations:    len(actor.Violations),
			Documents:     actor.Documents.Values(),
			SeverityScore: actor.SeverityScore,
		}
	}
	return export
}

// BuildStatistics counts documents and violations per severity
func BuildStatistics(c *cases.Case) Statistics {
	counts := c.CountBySeverity()
	return Statistics{
		TotalDocuments:  len(c.Documents),
		TotalViolations: len(c.Violations),
		SeverityBreakdown: map[string]int{
			string(patterns.SeverityHigh):   counts[patterns.SeverityHigh],
			string(patterns.SeverityMedium): counts[patterns.SeverityMedium],
			string(patterns.SeverityLow):    counts[patterns.SeverityLow],
		},
		RiskLevel: detector.Risk(counts[patterns.SeverityHigh], counts[patterns.SeverityMedium]),
	}
}

func nonNilViolations(v []detector.Violation) []detector.Violation {
	if v == nil {
		return []detector.Violation{}
	}
	return v
}
