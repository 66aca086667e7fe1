// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name       string
		text       string
		wantType   string
		confidence float64
	}{
		{"no keywords", "nothing relevant here", TypeUnknown, 0.0},
		{"empty", "", TypeUnknown, 0.0},
		{"single category", "AFFIDAVIT of the witness with exhibit A", "evidence", 1.0},
		{"custody only", "custody and visitation schedule", "custody", 1.0},
		{"dominant type", "motion to compel. motion to dismiss. this order", "motion", 2.0 / 3.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := New().Classify(tc.text)
			assert.Equal(t, tc.wantType, got.Type)
			assert.InDelta(t, tc.confidence, got.Confidence, 1e-9)
		})
	}
}

func TestClassifyScores(t *testing.T) {
	got := New().Classify("Petition for placement after CPS removal")
	assert.Equal(t, "cps", got.Type)
	assert.Equal(t, map[string]int{"petition": 1, "cps": 3}, got.Scores)
	assert.InDelta(t, 0.75, got.Confidence, 1e-9)
}

func TestClassifyCountsSubstrings(t *testing.T) {
	got := New().Classify("the recorder and the border")
	assert.Equal(t, "order", got.Type)
	assert.Equal(t, 2, got.Scores["order"])
}

func TestClassifyTieBreaksByDeclarationOrder(t *testing.T) {
	got := New().Classify("petition motion")
	assert.Equal(t, "petition", got.Type)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
}

func TestCustomTypes(t *testing.T) {
	c := NewWithTypes([]DocumentType{{Name: "invoice", Keywords: []string{"INVOICE"}}})
	got := c.Classify("Invoice #4")
	assert.Equal(t, "invoice", got.Type)
	assert.Equal(t, 1.0, got.Confidence)
}
