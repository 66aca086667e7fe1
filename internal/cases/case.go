// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cases

import (
	"time"

	"github.com/google/uuid"

	"caselens/internal/analysis"
	"caselens/internal/classifier"
	"caselens/internal/detector"
	"caselens/internal/entities"
	"caselens/internal/legal"
	"caselens/internal/patterns"
	"caselens/internal/timeline"
)

// Case-level entity kinds. Document entity kinds not listed in
// documentEntityKinds keep their own name at case level.
const (
	EntityCaseNumbers = "case_numbers"
	EntityJudges      = "judges"
	EntityAttorneys   = "attorneys"
	EntityCourts      = "courts"
	EntityDates       = "dates"
)

var documentEntityKinds = map[string]string{
	entities.CaseNumbers:   EntityCaseNumbers,
	entities.JudgeNames:    EntityJudges,
	entities.AttorneyNames: EntityAttorneys,
	entities.CourtNames:    EntityCourts,
	entities.Dates:         EntityDates,
}

// CaseEntityKind maps a document entity kind to the case-level set it feeds
func CaseEntityKind(documentKind string) string {
	if k, ok := documentEntityKinds[documentKind]; ok {
		return k
	}
	return documentKind
}

// Role is the kind of actor being tracked
type Role string

const (
	RoleJudge      Role = "judge"
	RoleAttorney   Role = "attorney"
	RoleCaseworker Role = "caseworker"
)

// ActorRecord accumulates the violations attributed to one name. Names are
// compared literally: "J. Smith" and "Judge Smith" are different actors.
type ActorRecord struct {
	Role          Role
	Violations    []detector.Violation
	Documents     StringSet
	SeverityScore int
}

// Contradiction is an inconsistency between documents
type Contradiction struct {
	Type        string            `json:"type" yaml:"type"`
	Severity    patterns.Severity `json:"severity" yaml:"severity"`
	Description string            `json:"description" yaml:"description"`
	Documents   []string          `json:"documents" yaml:"documents"`
	CaseNumber  string            `json:"case_number,omitempty" yaml:"case_number,omitempty"`
}

// LegalAnalysis is the per-document analysis payload beyond the core
// classification, entities and violations.
type LegalAnalysis struct {
	PotentialViolations []legal.Indicator  `json:"potential_violations" yaml:"potential_violations"`
	Specialized         *legal.Specialized `json:"specialized_analysis,omitempty" yaml:"specialized_analysis,omitempty"`
	Procedural          analysis.Result    `json:"procedural_analysis" yaml:"procedural_analysis"`
	Advanced            *analysis.Result   `json:"ai_analysis,omitempty" yaml:"ai_analysis,omitempty"`
	Summary             detector.Summary   `json:"violation_summary" yaml:"violation_summary"`
	AnalyzedAt          time.Time          `json:"analysis_timestamp" yaml:"analysis_timestamp"`
}

// DocumentRecord is one processed upload. It is not modified after it is
// built, apart from the document stamps MergeDocument writes on violations.
type DocumentRecord struct {
	Hash             string                    `json:"hash" yaml:"hash"`
	Filename         string                    `json:"filename" yaml:"filename"`
	UploadDate       time.Time                 `json:"upload_date" yaml:"upload_date"`
	Text             string                    `json:"extracted_text,omitempty" yaml:"-"`
	ExtractionMethod string                    `json:"extraction_method,omitempty" yaml:"extraction_method,omitempty"`
	PageCount        int                       `json:"page_count,omitempty" yaml:"page_count,omitempty"`
	Metadata         map[string]string         `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Classification   classifier.Classification `json:"document_type" yaml:"document_type"`
	Entities         entities.Entities         `json:"legal_entities" yaml:"legal_entities"`
	Violations       []detector.Violation      `json:"violations" yaml:"violations"`
	Analysis         *LegalAnalysis            `json:"legal_analysis,omitempty" yaml:"legal_analysis,omitempty"`
}

// DocumentType returns the classified type or "unknown"
func (d *DocumentRecord) DocumentType() string {
	if d == nil || d.Classification.Type == "" {
		return classifier.TypeUnknown
	}
	return d.Classification.Type
}

// Case is the aggregate root for one legal matter. It has a single writer;
// callers serialise access.
type Case struct {
	ID          string
	Name        string
	CreatedAt   time.Time
	LastUpdated time.Time

	Documents     map[string]*DocumentRecord
	documentOrder []string

	Violations         []detector.Violation
	Timeline           []timeline.Event
	TimelineViolations []detector.Violation
	Entities           map[string]StringSet
	ActorTracking      map[string]*ActorRecord
	Contradictions     []Contradiction

	now func() time.Time
}

// New creates an empty case with a fresh id
func New(name string) *Case {
	return newCase(uuid.NewString(), name, time.Now)
}

func newCase(id, name string, now func() time.Time) *Case {
	ts := now().UTC()
	return &Case{
		ID:          id,
		Name:        name,
		CreatedAt:   ts,
		LastUpdated: ts,
		Documents:   make(map[string]*DocumentRecord),
		Entities: map[string]StringSet{
			EntityCaseNumbers: NewStringSet(),
			EntityJudges:      NewStringSet(),
			EntityAttorneys:   NewStringSet(),
			EntityCourts:      NewStringSet(),
			EntityDates:       NewStringSet(),
		},
		ActorTracking: make(map[string]*ActorRecord),
		now:           now,
	}
}

// SetClock overrides the time source used for LastUpdated stamps
func (c *Case) SetClock(now func() time.Time) {
	c.now = now
}

func (c *Case) timestamp() time.Time {
	if c.now == nil {
		return time.Now().UTC()
	}
	return c.now().UTC()
}

// OrderedDocuments returns documents in the order they were first added
func (c *Case) OrderedDocuments() []*DocumentRecord {
	docs := make([]*DocumentRecord, 0, len(c.documentOrder))
	for _, hash := range c.documentOrder {
		if doc, ok := c.Documents[hash]; ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

// HasDocument reports whether hash is already part of the case
func (c *Case) HasDocument(hash string) bool {
	_, ok := c.Documents[hash]
	return ok
}

// EntityValues returns the sorted values of a case-level entity set
func (c *Case) EntityValues(kind string) []string {
	set, ok := c.Entities[kind]
	if !ok {
		return nil
	}
	return set.Values()
}

// CountBySeverity counts case violations per severity
func (c *Case) CountBySeverity() map[patterns.Severity]int {
	counts := map[patterns.Severity]int{
		patterns.SeverityHigh:   0,
		patterns.SeverityMedium: 0,
		patterns.SeverityLow:    0,
	}
	for _, v := range c.Violations {
		counts[patterns.ParseSeverity(string(v.Severity))]++
	}
	return counts
}
