// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package classifier

import (
	"strings"
)

// TypeUnknown is reported when no keyword of any type occurs
const TypeUnknown = "unknown"

// Classification is the inferred document type. Confidence is the winning
// type's share of all keyword hits, not a calibrated probability: a document
// with hits for a single type always scores 1.0.
type Classification struct {
	Type       string         `json:"type" yaml:"type"`
	Confidence float64        `json:"confidence" yaml:"confidence"`
	Scores     map[string]int `json:"all_scores,omitempty" yaml:"all_scores,omitempty"`
}

// DocumentType is a candidate type with its keywords
type DocumentType struct {
	Name     string
	Keywords []string
}

// DefaultTypes lists candidate types in tie-break order
var DefaultTypes = []DocumentType{
	{Name: "petition", Keywords: []string{"petition", "complaint", "filing"}},
	{Name: "motion", Keywords: []string{"motion", "request", "application"}},
	{Name: "order", Keywords: []string{"order", "judgment", "decree", "ruling"}},
	{Name: "pleading", Keywords: []string{"answer", "response", "reply", "counter"}},
	{Name: "evidence", Keywords: []string{"exhibit", "affidavit", "declaration", "testimony"}},
	{Name: "custody", Keywords: []string{"custody", "visitation", "parenting", "child support"}},
	{Name: "cps", Keywords: []string{"cps", "child protective", "dhr", "removal", "placement"}},
	{Name: "isp", Keywords: []string{"service plan", "case plan", "treatment plan", "goals"}},
}

// Classifier infers a document type from keyword frequency
type Classifier struct {
	types []DocumentType
}

// New creates a classifier over the default types
func New() *Classifier {
	return NewWithTypes(DefaultTypes)
}

// NewWithTypes creates a classifier over custom types. Keywords are matched
// lowercased.
func NewWithTypes(types []DocumentType) *Classifier {
	normalized := make([]DocumentType, len(types))
	for i, t := range types {
		kws := make([]string, len(t.Keywords))
		for j, kw := range t.Keywords {
			kws[j] = strings.ToLower(kw)
		}
		normalized[i] = DocumentType{Name: t.Name, Keywords: kws}
	}
	return &Classifier{types: normalized}
}

// Classify scores every type by counting keyword substrings. Counting is not
// word-boundary aware, so "order" also counts inside "recorder".
func (c *Classifier) Classify(text string) Classification {
	lower := strings.ToLower(text)
	scores := make(map[string]int)

	best := ""
	bestScore := 0
	total := 0
	for _, t := range c.types {
		score := 0
		for _, kw := range t.Keywords {
			score += strings.Count(lower, kw)
		}
		if score == 0 {
			continue
		}
		scores[t.Name] = score
		total += score
		if score > bestScore {
			best, bestScore = t.Name, score
		}
	}

	if total == 0 {
		return Classification{Type: TypeUnknown, Confidence: 0.0}
	}

	return Classification{
		Type:       best,
		Confidence: float64(bestScore) / float64(total),
		Scores:     scores,
	}
}
