// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package search finds text, legal patterns, violations, actors and
// timeline events across the documents of one case.
package search

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"caselens/internal/cases"
	"caselens/internal/detector"
	"caselens/internal/patterns"
	"caselens/internal/timeline"
)

// Kinds of document search
const (
	KindText          = "text"
	KindPattern       = "pattern"
	KindComprehensive = "comprehensive"
)

// MaxHits caps the hits returned by Documents
const MaxHits = 50

// Relevance of each hit kind; pattern hits rank above plain text hits.
const (
	textRelevance    = 1.0
	patternRelevance = 2.0
)

// Hit is one match in a document's extracted text
type Hit struct {
	DocumentHash string  `json:"document_hash" yaml:"document_hash"`
	DocumentName string  `json:"document_name" yaml:"document_name"`
	MatchType    string  `json:"match_type" yaml:"match_type"`
	Context      string  `json:"context" yaml:"context"`
	MatchedText  string  `json:"matched_text" yaml:"matched_text"`
	Pattern      string  `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Position     int     `json:"position" yaml:"position"` // byte offset into the document text
	Relevance    float64 `json:"relevance_score" yaml:"relevance_score"`
}

// Results is the outcome of a document search
type Results struct {
	Query string `json:"query" yaml:"query"`
	Kind  string `json:"search_type" yaml:"search_type"`
	Hits  []Hit  `json:"results" yaml:"results"`
	Total int    `json:"total_matches" yaml:"total_matches"`
}

// legalCategories expand a query that mentions a legal concept into every
// pattern of that concept.
var legalCategories = compileCategories(map[string][]string{
	"due_process": {
		`due\s+process`,
		`procedural\s+due\s+process`,
		`substantive\s+due\s+process`,
		`fourteenth\s+amendment`,
	},
	"constitutional": {
		`constitutional\s+(?:rights?|violation)`,
		`first\s+amendment`,
		`fourth\s+amendment`,
		`fifth\s+amendment`,
		`fourteenth\s+amendment`,
	},
	"custody_violations": {
		`custody\s+(?:violation|interference)`,
		`parental\s+alienation`,
		`denial\s+of\s+(?:access|visitation)`,
		`contempt\s+of\s+court`,
	},
	"cps_violations": {
		`false\s+allegations?`,
		`malicious\s+reporting`,
		`improper\s+removal`,
		`safety\s+plan\s+violation`,
	},
	"judicial_misconduct": {
		`judicial\s+(?:bias|misconduct|malpractice)`,
		`conflict\s+of\s+interest`,
		`ex\s+parte\s+communication`,
		`prejudiced\s+ruling`,
	},
})

type category struct {
	name     string
	patterns []*regexp.Regexp
}

func compileCategories(defs map[string][]string) []category {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]category, 0, len(names))
	for _, name := range names {
		c := category{name: name}
		for _, p := range defs[name] {
			c.patterns = append(c.patterns, regexp.MustCompile(`(?i)`+p))
		}
		out = append(out, c)
	}
	return out
}

var contextWindow = detector.NewContextExtractor()

// Text finds every case-insensitive occurrence of query in the documents'
// extracted text.
func Text(c *cases.Case, query string) []Hit {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query))

	var hits []Hit
	for _, doc := range c.OrderedDocuments() {
		for _, loc := range re.FindAllStringIndex(doc.Text, -1) {
			hits = append(hits, newHit(doc, KindText, loc, textRelevance))
		}
	}
	return hits
}

// Pattern searches with the legal pattern categories the query names, for
// example "due process". A query naming no category is compiled as a
// case-insensitive regular expression.
func Pattern(c *cases.Case, query string) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	var res []*regexp.Regexp
	for _, cat := range legalCategories {
		for _, p := range cat.patterns {
			if p.MatchString(query) {
				res = append(res, cat.patterns...)
				break
			}
		}
	}
	if len(res) == 0 {
		re, err := regexp.Compile(`(?i)` + query)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", query, err)
		}
		res = append(res, re)
	}

	var hits []Hit
	for _, doc := range c.OrderedDocuments() {
		for _, re := range res {
			for _, loc := range re.FindAllStringIndex(doc.Text, -1) {
				if loc[0] == loc[1] {
					continue
				}
				h := newHit(doc, KindPattern, loc, patternRelevance)
				h.Pattern = re.String()
				hits = append(hits, h)
			}
		}
	}
	return hits, nil
}

// Documents runs a document search of the given kind. The comprehensive
// search merges text and pattern hits, dropping hits that repeat the same
// document and context prefix. Hits are ranked by relevance and capped.
func Documents(c *cases.Case, query, kind string) (Results, error) {
	if kind == "" {
		kind = KindComprehensive
	}
	res := Results{Query: query, Kind: kind}

	var hits []Hit
	switch kind {
	case KindText:
		hits = Text(c, query)
	case KindPattern:
		h, err := Pattern(c, query)
		if err != nil {
			return res, err
		}
		hits = h
	case KindComprehensive:
		h, err := Pattern(c, query)
		if err != nil {
			// A query that is not a valid expression still works as text.
			h = nil
		}
		hits = Deduplicate(append(Text(c, query), h...))
	default:
		return res, fmt.Errorf("unknown search kind %q", kind)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Relevance > hits[j].Relevance
	})
	res.Total = len(hits)
	if len(hits) > MaxHits {
		hits = hits[:MaxHits]
	}
	res.Hits = hits
	return res, nil
}

// Deduplicate keeps the first hit per (document, first 50 characters of
// context) key.
func Deduplicate(hits []Hit) []Hit {
	seen := make(map[string]struct{}, len(hits))
	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		key := h.DocumentHash + "\x00" + detector.Prefix(h.Context, 50)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
	}
	return out
}

func newHit(doc *cases.DocumentRecord, matchType string, loc []int, relevance float64) Hit {
	return Hit{
		DocumentHash: doc.Hash,
		DocumentName: doc.Filename,
		MatchType:    matchType,
		Context:      contextWindow.Window(doc.Text, loc[0], loc[1]),
		MatchedText:  doc.Text[loc[0]:loc[1]],
		Position:     loc[0],
		Relevance:    relevance,
	}
}

// DocumentViolations groups the violations of one document
type DocumentViolations struct {
	DocumentName string               `json:"document_name" yaml:"document_name"`
	Violations   []detector.Violation `json:"violations" yaml:"violations"`
}

// ViolationResults is the outcome of a violation search
type ViolationResults struct {
	Query             string                         `json:"violation_type" yaml:"violation_type"`
	Total             int                            `json:"total_violations" yaml:"total_violations"`
	SeverityBreakdown map[string]int                 `json:"severity_breakdown" yaml:"severity_breakdown"`
	ByDocument        map[string]*DocumentViolations `json:"violations_by_document" yaml:"violations_by_document"`
	Matches           []detector.Violation           `json:"matches" yaml:"matches"`
}

// Violations filters case violations. An empty query or "all" matches
// everything; otherwise the query is matched case-insensitively against
// the type, description and context.
func Violations(c *cases.Case, query string) ViolationResults {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		q = "all"
	}
	res := ViolationResults{
		Query: q,
		SeverityBreakdown: map[string]int{
			string(patterns.SeverityHigh):   0,
			string(patterns.SeverityMedium): 0,
			string(patterns.SeverityLow):    0,
		},
		ByDocument: make(map[string]*DocumentViolations),
		Matches:    []detector.Violation{},
	}

	for _, v := range c.Violations {
		if q != "all" && !violationMatches(v, q) {
			continue
		}
		res.Matches = append(res.Matches, v)
		res.SeverityBreakdown[string(patterns.ParseSeverity(string(v.Severity)))]++

		key := v.DocumentHash
		if key == "" {
			key = "unknown"
		}
		group, ok := res.ByDocument[key]
		if !ok {
			name := v.DocumentName
			if name == "" {
				name = "Unknown"
			}
			group = &DocumentViolations{DocumentName: name}
			res.ByDocument[key] = group
		}
		group.Violations = append(group.Violations, v)
	}
	res.Total = len(res.Matches)
	return res
}

func violationMatches(v detector.Violation, q string) bool {
	if strings.ToLower(v.Type) == q {
		return true
	}
	normalized := strings.ReplaceAll(q, " ", "_")
	return strings.Contains(strings.ToLower(v.Type), normalized) ||
		strings.Contains(strings.ToLower(v.Description), q) ||
		strings.Contains(strings.ToLower(v.Context), q)
}

// ActorHit is one tracked actor returned by Actors
type ActorHit struct {
	Name          string               `json:"name" yaml:"name"`
	Role          cases.Role           `json:"role" yaml:"role"`
	Violations    []detector.Violation `json:"violations" yaml:"violations"`
	Documents     []string             `json:"documents" yaml:"documents"`
	SeverityScore int                  `json:"severity_score" yaml:"severity_score"`
}

// Actors returns tracked actors whose name contains name. With an empty
// name, actors are filtered by role instead; an empty role or "all" keeps
// every actor. Results are ordered by severity score, highest first.
func Actors(c *cases.Case, name string, role string) []ActorHit {
	name = strings.ToLower(strings.TrimSpace(name))
	role = strings.ToLower(strings.TrimSpace(role))

	var out []ActorHit
	for actorName, record := range c.ActorTracking {
		switch {
		case name != "":
			if !strings.Contains(strings.ToLower(actorName), name) {
				continue
			}
		case role != "" && role != "all":
			if strings.ToLower(string(record.Role)) != role {
				continue
			}
		}
		violations := record.Violations
		if violations == nil {
			violations = []detector.Violation{}
		}
		out = append(out, ActorHit{
			Name:          actorName,
			Role:          record.Role,
			Violations:    violations,
			Documents:     record.Documents.Values(),
			SeverityScore: record.SeverityScore,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeverityScore != out[j].SeverityScore {
			return out[i].SeverityScore > out[j].SeverityScore
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Timeline filters timeline events by an optional inclusive date range and
// document type. Events without a parsed date are dropped when a range is
// given.
func Timeline(c *cases.Case, from, to *time.Time, docType string) []timeline.Event {
	docType = strings.ToLower(strings.TrimSpace(docType))

	out := []timeline.Event{}
	for _, e := range c.Timeline {
		if from != nil || to != nil {
			if e.Date == nil {
				continue
			}
			if from != nil && e.Date.Before(*from) {
				continue
			}
			if to != nil && e.Date.After(*to) {
				continue
			}
		}
		if docType != "" && docType != "all" && strings.ToLower(e.DocumentType) != docType {
			continue
		}
		out = append(out, e)
	}
	return out
}

var staticSuggestions = []string{
	"Due process violations",
	"Constitutional violations",
	"Timeline violations",
	"Custody order violations",
	"CPS procedural errors",
	"Judicial bias indicators",
	"Missing documentation",
	"Delayed hearings",
}

// MaxSuggestions caps the list returned by Suggestions
const MaxSuggestions = 15

// Suggestions proposes searches from the case content: the most frequent
// violation types, judges, case numbers and a fixed list of legal topics.
func Suggestions(c *cases.Case) []string {
	var out []string

	counts := make(map[string]int)
	var order []string
	for _, v := range c.Violations {
		if _, ok := counts[v.Type]; !ok {
			order = append(order, v.Type)
		}
		counts[v.Type]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	for _, t := range first(order, 5) {
		out = append(out, "All instances of "+strings.ReplaceAll(t, "_", " "))
	}

	for _, judge := range first(c.EntityValues(cases.EntityJudges), 3) {
		out = append(out, "All rulings by Judge "+judge)
	}
	for _, num := range first(c.EntityValues(cases.EntityCaseNumbers), 2) {
		out = append(out, "Case number "+num)
	}

	out = append(out, staticSuggestions...)
	return first(out, MaxSuggestions)
}

func first(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
