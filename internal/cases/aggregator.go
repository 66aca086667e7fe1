// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cases

import (
	"fmt"

	"caselens/internal/detector"
	"caselens/internal/entities"
	"caselens/internal/patterns"
	"caselens/internal/timeline"
)

// ContradictionCaseNumber is emitted when one case number appears in
// documents of different classified types
const ContradictionCaseNumber = "case_number_inconsistency"

// MergeDocument adds record to the case. An existing record with the same
// hash is replaced but keeps its position. The record's violations are
// stamped with its hash and filename in place before being appended to the
// case violations.
func MergeDocument(c *Case, record *DocumentRecord) {
	if record == nil || record.Hash == "" {
		return
	}

	if !c.HasDocument(record.Hash) {
		c.documentOrder = append(c.documentOrder, record.Hash)
	}
	c.Documents[record.Hash] = record

	for kind, values := range record.Entities {
		caseKind := CaseEntityKind(kind)
		set, ok := c.Entities[caseKind]
		if !ok {
			set = NewStringSet()
			c.Entities[caseKind] = set
		}
		set.Add(values...)
	}

	for i := range record.Violations {
		record.Violations[i].DocumentHash = record.Hash
		record.Violations[i].DocumentName = record.Filename
		c.Violations = append(c.Violations, record.Violations[i])
	}

	c.LastUpdated = c.timestamp()
}

// RebuildTimeline replaces the case timeline with one built from every
// document, and recomputes the gap violations.
func RebuildTimeline(c *Case) []timeline.Event {
	docs := c.OrderedDocuments()
	sources := make([]timeline.Source, 0, len(docs))
	for _, doc := range docs {
		sources = append(sources, timeline.Source{
			Hash:         doc.Hash,
			Name:         doc.Filename,
			DocumentType: doc.DocumentType(),
			Dates:        doc.Entities.Get(entities.Dates),
		})
	}
	c.Timeline = timeline.Build(sources)
	c.TimelineViolations = timeline.DetectGaps(c.Timeline)
	return c.Timeline
}

// actorSources lists which document entity kind feeds each tracked role.
// Only judges are populated; attorney and caseworker tracking share the
// same record shape but have no source yet.
var actorSources = []struct {
	role Role
	kind string
}{
	{RoleJudge, entities.JudgeNames},
}

// TrackActors rebuilds the actor map from the case violations. Each
// violation is attributed to every judge named in its owning document.
// Violations whose document is not in the case are skipped.
func TrackActors(c *Case) map[string]*ActorRecord {
	tracking := make(map[string]*ActorRecord)

	for _, v := range c.Violations {
		doc, ok := c.Documents[v.DocumentHash]
		if !ok {
			continue
		}
		for _, src := range actorSources {
			for _, name := range doc.Entities.Get(src.kind) {
				actor, ok := tracking[name]
				if !ok {
					actor = &ActorRecord{Role: src.role, Documents: NewStringSet()}
					tracking[name] = actor
				}
				actor.Violations = append(actor.Violations, v)
				actor.Documents.Add(doc.Filename)
				actor.SeverityScore += patterns.ParseSeverity(string(v.Severity)).Score()
			}
		}
	}

	c.ActorTracking = tracking
	return tracking
}

type documentRef struct {
	name string
	hash string
}

// DetectContradictions rebuilds the contradiction list. The only rule is
// the case number rule; date references are gathered but no rule consumes
// them.
func DetectContradictions(c *Case) []Contradiction {
	docs := c.OrderedDocuments()

	dateRefs := collectReferences(docs, entities.Dates)
	contradictions := dateContradictions(dateRefs)

	caseNumbers, order := collectReferencesOrdered(docs, entities.CaseNumbers)
	for _, number := range order {
		refs := caseNumbers[number]
		if len(refs) < 2 {
			continue
		}
		types := NewStringSet()
		for _, ref := range refs {
			doc, ok := c.Documents[ref.hash]
			if !ok {
				continue
			}
			types.Add(doc.DocumentType())
		}
		if types.Len() < 2 {
			continue
		}

		names := make([]string, 0, len(refs))
		for _, ref := range refs {
			names = append(names, ref.name)
		}
		contradictions = append(contradictions, Contradiction{
			Type:        ContradictionCaseNumber,
			Severity:    patterns.SeverityMedium,
			Description: fmt.Sprintf("Case number %s appears in documents of different types", number),
			Documents:   names,
			CaseNumber:  number,
		})
	}

	c.Contradictions = contradictions
	return contradictions
}

// dateContradictions has no rule yet and never reports anything.
// TODO: flag the same event described with different dates once events
// carry a description to compare.
func dateContradictions(_ map[string][]documentRef) []Contradiction {
	return []Contradiction{}
}

func collectReferences(docs []*DocumentRecord, kind string) map[string][]documentRef {
	refs, _ := collectReferencesOrdered(docs, kind)
	return refs
}

// collectReferencesOrdered groups documents by entity value and returns the
// values in first-seen order.
func collectReferencesOrdered(docs []*DocumentRecord, kind string) (map[string][]documentRef, []string) {
	refs := make(map[string][]documentRef)
	var order []string
	for _, doc := range docs {
		for _, value := range doc.Entities.Get(kind) {
			if _, ok := refs[value]; !ok {
				order = append(order, value)
			}
			refs[value] = append(refs[value], documentRef{name: doc.Filename, hash: doc.Hash})
		}
	}
	return refs, order
}

// Refresh runs the derived-state rebuilds in pipeline order
func Refresh(c *Case) {
	RebuildTimeline(c)
	DetectContradictions(c)
	TrackActors(c)
}

// ViolationsForDocument returns the case violations stamped with hash
func ViolationsForDocument(c *Case, hash string) []detector.Violation {
	var out []detector.Violation
	for _, v := range c.Violations {
		if v.DocumentHash == hash {
			out = append(out, v)
		}
	}
	return out
}
