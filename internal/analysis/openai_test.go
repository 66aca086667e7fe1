// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"caselens/internal/resilience"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAI(OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		Retry:   resilience.RetryConfig{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, Multiplier: 1},
	}, zerolog.Nop())
}

func writeChat(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}},
	})
}

func TestOpenAIAnalyzeViolations(t *testing.T) {
	var got chatRequest
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeChat(w, `{"violations":[{"type":"due_process","severity":"high"}]}`)
	})

	res := o.AnalyzeViolations(context.Background(), "The court denied due process.")
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, "openai", res.Provider)
	assert.Contains(t, res.Data, "violations")

	assert.Equal(t, "gpt-4o", got.Model)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, "The court denied due process.")
}

func TestOpenAIRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		writeChat(w, "Summary paragraph.")
	})

	res := o.SummarizeCase(context.Background(), CaseDigest{CaseName: "Doe"})
	require.True(t, res.OK(), res.Error)
	assert.Equal(t, "Summary paragraph.", res.Text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAIFailureIsAResult(t *testing.T) {
	var calls atomic.Int32
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	})

	res := o.AnalyzeProcedure(context.Background(), "text", "motion")
	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Error, "Legal analysis failed")
	assert.Contains(t, res.Error, "401")
	assert.Equal(t, []string{"Check API configuration and try again"}, res.Recommendations)
	assert.Equal(t, int32(1), calls.Load(), "permanent errors are not retried")
}
