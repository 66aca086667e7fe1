// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package entities

import (
	"regexp"
	"sort"
	"strings"
)

// Entity kinds produced by the extractor
const (
	CaseNumbers   = "case_numbers"
	CourtNames    = "court_names"
	Dates         = "dates"
	JudgeNames    = "judge_names"
	AttorneyNames = "attorney_names"
	Motions       = "motions"
	Orders        = "orders"
	Violations    = "violations"
	Deadlines     = "deadlines"
	CustodyTerms  = "custody_terms"
	CPSTerms      = "cps_terms"
	ISPTerms      = "isp_terms"
)

// Entities maps an entity kind to its distinct values. Kinds without
// matches are absent.
type Entities map[string][]string

// Get returns the values of kind, or nil
func (e Entities) Get(kind string) []string {
	if e == nil {
		return nil
	}
	return e[kind]
}

type entityPattern struct {
	kind  string
	regex *regexp.Regexp
}

// Extractor pulls legal entities out of document text
type Extractor struct {
	patterns []entityPattern
}

// NewExtractor creates an extractor with all entity patterns compiled
func NewExtractor() *Extractor {
	definitions := []struct {
		kind    string
		pattern string
	}{
		{CaseNumbers, `(?:Case|No\.|#)\s*:?\s*([A-Z0-9\-]+)`},
		{CourtNames, `(?:IN THE|BEFORE THE)\s+([A-Z\s]+(?:COURT|TRIBUNAL))`},
		{Dates, `\b(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}|\w+\s+\d{1,2},?\s+\d{4})\b`},
		{JudgeNames, `(?:JUDGE|HON\.|HONORABLE)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`},
		{AttorneyNames, `(?:ATTORNEY|COUNSEL|ESQ\.)\s*:?\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`},
		{Motions, `(MOTION\s+(?:FOR|TO)\s+[A-Z\s]+)`},
		{Orders, `(ORDER\s+(?:FOR|TO|OF)\s+[A-Z\s]+)`},
		{Violations, `(VIOLATION\s+OF\s+[A-Z\s]+|DUE\s+PROCESS\s+VIOLATION)`},
		{Deadlines, `(?:DEADLINE|DUE\s+BY|MUST\s+BE\s+FILED)\s*:?\s*([A-Z0-9\s,]+)`},
		{CustodyTerms, `(CUSTODY|VISITATION|PARENTING\s+TIME|CHILD\s+SUPPORT)`},
		{CPSTerms, `(CPS|CHILD\s+PROTECTIVE\s+SERVICES|DHR|DEPARTMENT\s+OF\s+HUMAN\s+RESOURCES)`},
		{ISPTerms, `(ISP|INDIVIDUALIZED\s+SERVICE\s+PLAN|CASE\s+PLAN)`},
	}

	e := &Extractor{patterns: make([]entityPattern, 0, len(definitions))}
	for _, def := range definitions {
		e.patterns = append(e.patterns, entityPattern{
			kind:  def.kind,
			regex: regexp.MustCompile(`(?i)` + def.pattern),
		})
	}
	return e
}

// Kinds lists the entity kinds in extraction order
func (e *Extractor) Kinds() []string {
	kinds := make([]string, len(e.patterns))
	for i, p := range e.patterns {
		kinds[i] = p.kind
	}
	return kinds
}

// Extract returns the trimmed, distinct values of every entity kind found in
// text. Values are sorted so results are deterministic.
func (e *Extractor) Extract(text string) Entities {
	result := make(Entities)
	for _, p := range e.patterns {
		seen := make(map[string]struct{})
		for _, m := range p.regex.FindAllStringSubmatch(text, -1) {
			value := m[0]
			if len(m) > 1 {
				value = m[1]
			}
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			seen[value] = struct{}{}
		}
		if len(seen) == 0 {
			continue
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)
		result[p.kind] = values
	}
	return result
}
