// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cases

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"caselens/internal/detector"
	"caselens/internal/timeline"
)

// SnapshotVersion is written into every snapshot
const SnapshotVersion = 1

//go:embed schema/case.schema.json
var caseSchemaJSON []byte

var (
	schemaOnce sync.Once
	caseSchema *jsonschema.Schema
	schemaErr  error
)

// LoadError reports a snapshot that could not be turned back into a case
type LoadError struct {
	CaseID string
	Err    error
}

func (e *LoadError) Error() string {
	if e.CaseID != "" {
		return fmt.Sprintf("load case %s: %v", e.CaseID, e.Err)
	}
	return fmt.Sprintf("load case: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// snapshot is the persisted form of a Case. Sets become sorted arrays and
// documents an ordered array.
type snapshot struct {
	Version            int                      `json:"schema_version"`
	ID                 string                   `json:"case_id"`
	Name               string                   `json:"case_name"`
	CreatedAt          time.Time                `json:"created_date"`
	LastUpdated        time.Time                `json:"last_updated"`
	Documents          []*DocumentRecord        `json:"documents"`
	Violations         []detector.Violation     `json:"violations"`
	Timeline           []timeline.Event         `json:"timeline"`
	TimelineViolations []detector.Violation     `json:"timeline_violations"`
	Entities           map[string][]string      `json:"entities"`
	ActorTracking      map[string]actorSnapshot `json:"actor_tracking"`
	Contradictions     []Contradiction          `json:"contradictions"`
}

type actorSnapshot struct {
	Role          Role                 `json:"type"`
	Violations    []detector.Violation `json:"violations"`
	Documents     []string             `json:"documents"`
	SeverityScore int                  `json:"severity_score"`
}

func toSnapshot(c *Case) snapshot {
	s := snapshot{
		Version:            SnapshotVersion,
		ID:                 c.ID,
		Name:               c.Name,
		CreatedAt:          c.CreatedAt,
		LastUpdated:        c.LastUpdated,
		Documents:          c.OrderedDocuments(),
		Violations:         nonNil(c.Violations),
		Timeline:           c.Timeline,
		TimelineViolations: nonNil(c.TimelineViolations),
		Entities:           make(map[string][]string, len(c.Entities)),
		ActorTracking:      make(map[string]actorSnapshot, len(c.ActorTracking)),
		Contradictions:     c.Contradictions,
	}
	if s.Timeline == nil {
		s.Timeline = []timeline.Event{}
	}
	if s.Contradictions == nil {
		s.Contradictions = []Contradiction{}
	}
	for kind, set := range c.Entities {
		s.Entities[kind] = set.Values()
	}
	for name, actor := range c.ActorTracking {
		s.ActorTracking[name] = actorSnapshot{
			Role:          actor.Role,
			Violations:    nonNil(actor.Violations),
			Documents:     actor.Documents.Values(),
			SeverityScore: actor.SeverityScore,
		}
	}
	return s
}

func fromSnapshot(s snapshot) *Case {
	c := newCase(s.ID, s.Name, time.Now)
	c.CreatedAt = s.CreatedAt
	c.LastUpdated = s.LastUpdated

	for _, doc := range s.Documents {
		if doc == nil || doc.Hash == "" {
			continue
		}
		if !c.HasDocument(doc.Hash) {
			c.documentOrder = append(c.documentOrder, doc.Hash)
		}
		c.Documents[doc.Hash] = doc
	}

	c.Violations = s.Violations
	c.Timeline = s.Timeline
	c.TimelineViolations = s.TimelineViolations
	c.Contradictions = s.Contradictions

	for kind, values := range s.Entities {
		c.Entities[kind] = NewStringSet(values...)
	}
	for name, actor := range s.ActorTracking {
		c.ActorTracking[name] = &ActorRecord{
			Role:          actor.Role,
			Violations:    actor.Violations,
			Documents:     NewStringSet(actor.Documents...),
			SeverityScore: actor.SeverityScore,
		}
	}
	return c
}

// Marshal serialises a case to its JSON snapshot
func Marshal(c *Case) ([]byte, error) {
	data, err := json.MarshalIndent(toSnapshot(c), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal case %s: %w", c.ID, err)
	}
	return data, nil
}

// Unmarshal validates a snapshot against the case schema and decodes it.
// Any failure is a *LoadError and no case is returned.
func Unmarshal(data []byte) (*Case, error) {
	if err := validateSnapshot(data); err != nil {
		return nil, &LoadError{Err: err}
	}

	var s snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("decode snapshot: %w", err)}
	}
	if s.Version > SnapshotVersion {
		return nil, &LoadError{CaseID: s.ID, Err: fmt.Errorf("unsupported snapshot version %d", s.Version)}
	}
	return fromSnapshot(s), nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("case.schema.json", bytes.NewReader(caseSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		caseSchema, schemaErr = compiler.Compile("case.schema.json")
	})
	return caseSchema, schemaErr
}

func validateSnapshot(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("snapshot does not match schema: %w", err)
	}
	return nil
}

func nonNil(v []detector.Violation) []detector.Violation {
	if v == nil {
		return []detector.Violation{}
	}
	return v
}
