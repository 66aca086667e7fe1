// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"context"
	"strings"
	"testing"

	"caselens/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "§§", Truncate("§§§", 2))

	long := strings.Repeat("x", 5000)
	assert.Len(t, Truncate(long, ViolationInputLimit), 3000)
	assert.Len(t, Truncate(long, ProcedureInputLimit), 4000)
}

func TestStub(t *testing.T) {
	s := NewStub()
	ctx := context.Background()

	v := s.AnalyzeViolations(ctx, "text")
	assert.Equal(t, StatusStub, v.Status)
	assert.Equal(t, StubViolationText, v.Text)
	assert.False(t, v.OK())

	p := s.AnalyzeProcedure(ctx, "text", "motion")
	assert.Equal(t, StubProcedureText, p.Text)
	assert.NotEmpty(t, p.Recommendations)

	c := s.SummarizeCase(ctx, CaseDigest{CaseName: "Doe"})
	assert.Equal(t, StubCaseText, c.Text)
}

func TestInterpret(t *testing.T) {
	t.Run("json object", func(t *testing.T) {
		r := interpret("openai", `{"violations":[{"type":"due_process"}],"recommendations":["file a motion"]}`, true)
		assert.True(t, r.OK())
		require.NotNil(t, r.Data)
		assert.Contains(t, r.Data, "violations")
		assert.Equal(t, []string{"file a motion"}, r.Recommendations)
		assert.Empty(t, r.Text)
	})
	t.Run("fenced json", func(t *testing.T) {
		r := interpret("gemini", "```json\n{\"findings\":[]}\n```", true)
		assert.Contains(t, r.Data, "findings")
	})
	t.Run("plain text falls back", func(t *testing.T) {
		r := interpret("openai", "The notice was defective.", true)
		assert.Equal(t, "The notice was defective.", r.Text)
		assert.Equal(t, "text", r.Data["format"])
	})
	t.Run("schema mismatch falls back", func(t *testing.T) {
		r := interpret("openai", `{"recommendations":"not a list"}`, true)
		assert.Equal(t, "text", r.Data["format"])
	})
	t.Run("text requested", func(t *testing.T) {
		r := interpret("openai", "  two paragraphs  ", false)
		assert.Equal(t, "two paragraphs", r.Text)
		assert.Nil(t, r.Data)
	})
}

func TestPrompts(t *testing.T) {
	p := violationPrompt("DOC")
	assert.True(t, p.wantJSON)
	assert.Contains(t, p.user, "first 3000 characters")
	assert.Contains(t, p.user, "ICPC compliance issues")

	p = procedurePrompt("DOC", "custody")
	assert.Contains(t, p.user, "Document type: custody")

	p = casePrompt(CaseDigest{
		CaseName:       "Doe",
		ViolationTypes: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"},
		Entities:       map[string][]string{"judges": {"Smith"}},
	})
	assert.False(t, p.wantJSON)
	assert.Contains(t, p.user, "a, b, c, d, e, f, g, h, i, j\n")
	assert.Contains(t, p.user, `{"judges":["Smith"]}`)
}

func TestNewFactory(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	a, err := New(ctx, config.AnalysisConfig{Provider: "openai", DevMode: true}, logger)
	require.NoError(t, err)
	assert.Equal(t, "stub", a.Name())

	_, err = New(ctx, config.AnalysisConfig{Provider: "openai"}, logger)
	assert.ErrorContains(t, err, "API key")

	a, err = New(ctx, config.AnalysisConfig{Provider: "openai", OpenAIKey: "sk-test"}, logger)
	require.NoError(t, err)
	assert.Equal(t, "openai", a.Name())

	_, err = New(ctx, config.AnalysisConfig{Provider: "gemini"}, logger)
	assert.Error(t, err)

	_, err = New(ctx, config.AnalysisConfig{Provider: "bard"}, logger)
	assert.ErrorContains(t, err, "unsupported")
}
