// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cases

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caselens/internal/entities"
	"caselens/internal/patterns"
)

func populatedCase() *Case {
	c := testCase()
	MergeDocument(c, record("h1", "order.pdf", "order",
		entities.Entities{
			entities.CaseNumbers: {"JU-1"},
			entities.JudgeNames:  {"Maria Lopez"},
			entities.Dates:       {"01/15/2023"},
		},
		violation("constitutional_violation", patterns.SeverityHigh),
		violation("missed_hearing", patterns.SeverityMedium)))
	MergeDocument(c, record("h2", "motion.pdf", "motion",
		entities.Entities{
			entities.CaseNumbers: {"JU-1", "JU-2"},
			entities.Dates:       {"2021-06-01"},
		},
		violation("filing_error", patterns.SeverityLow)))
	Refresh(c)
	return c
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := populatedCase()

	data, err := Marshal(c)
	require.NoError(t, err)

	loaded, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, c.ID, loaded.ID)
	assert.Equal(t, c.Name, loaded.Name)
	assert.True(t, c.CreatedAt.Equal(loaded.CreatedAt))

	require.Equal(t, len(c.Entities), len(loaded.Entities))
	for kind, set := range c.Entities {
		assert.True(t, set.Equal(loaded.Entities[kind]), kind)
	}
	assert.Equal(t, c.Violations, loaded.Violations)
	assert.Equal(t, c.TimelineViolations, loaded.TimelineViolations)
	assert.Equal(t, c.Contradictions, loaded.Contradictions)

	require.Len(t, loaded.Timeline, 2)
	assert.True(t, c.Timeline[0].Date.Equal(*loaded.Timeline[0].Date))

	docs := loaded.OrderedDocuments()
	require.Len(t, docs, 2)
	assert.Equal(t, "order.pdf", docs[0].Filename)
	assert.Equal(t, "motion.pdf", docs[1].Filename)

	actor := loaded.ActorTracking["Maria Lopez"]
	require.NotNil(t, actor)
	assert.True(t, actor.Documents.Has("order.pdf"))
	assert.Equal(t, 5, actor.SeverityScore)
}

func TestSnapshotRestoresSetSemantics(t *testing.T) {
	data, err := Marshal(populatedCase())
	require.NoError(t, err)

	loaded, err := Unmarshal(data)
	require.NoError(t, err)

	MergeDocument(loaded, record("h3", "again.pdf", "order",
		entities.Entities{entities.CaseNumbers: {"JU-1", "JU-3"}}))

	assert.Equal(t, []string{"JU-1", "JU-2", "JU-3"}, loaded.EntityValues(EntityCaseNumbers))
}

func TestSnapshotSerialisesSetsAsSortedArrays(t *testing.T) {
	c := testCase()
	c.Entities[EntityJudges].Add("Zed Young", "Ann Lee")

	data, err := Marshal(c)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	judges := raw["entities"].(map[string]any)["judges"].([]any)
	assert.Equal(t, []any{"Ann Lee", "Zed Young"}, judges)
}

func TestUnmarshalCorrupt(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", `{"case_id": `},
		{"missing id", `{"schema_version":1,"case_name":"x","created_date":"2024-01-01T00:00:00Z","documents":[],"violations":[],"entities":{}}`},
		{"bad severity", `{"schema_version":1,"case_id":"a","case_name":"x","created_date":"2024-01-01T00:00:00Z","documents":[],"violations":[{"type":"t","severity":"extreme","severity_score":3}],"entities":{}}`},
		{"entities not arrays", `{"schema_version":1,"case_id":"a","case_name":"x","created_date":"2024-01-01T00:00:00Z","documents":[],"violations":[],"entities":{"judges":"Ann"}}`},
		{"duplicate set members", `{"schema_version":1,"case_id":"a","case_name":"x","created_date":"2024-01-01T00:00:00Z","documents":[],"violations":[],"entities":{"judges":["Ann","Ann"]}}`},
		{"bad timestamp", `{"schema_version":1,"case_id":"a","case_name":"x","created_date":"yesterday","documents":[],"violations":[],"entities":{}}`},
		{"future version", `{"schema_version":99,"case_id":"a","case_name":"x","created_date":"2024-01-01T00:00:00Z","documents":[],"violations":[],"entities":{}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Unmarshal([]byte(tc.data))
			assert.Nil(t, c)
			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "got %v", err)
		})
	}
}

func TestLoadErrorMessage(t *testing.T) {
	err := &LoadError{CaseID: "abc", Err: errors.New("boom")}
	assert.Equal(t, "load case abc: boom", err.Error())
	assert.ErrorIs(t, err, err.Err)
}
