// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"context"
	"fmt"
	"strings"

	"caselens/internal/resilience"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Gemini calls Google's Gemini models through the generative-ai-go SDK.
type Gemini struct {
	client    *genai.Client
	model     string
	maxTokens int
	retry     resilience.RetryConfig
	breaker   *resilience.CircuitBreaker
	logger    zerolog.Logger
}

// NewGemini dials the Gemini API with an API key.
func NewGemini(ctx context.Context, apiKey, model string, maxTokens int, retry resilience.RetryConfig, logger zerolog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-1.5-pro"
	}
	return &Gemini{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		retry:     retry,
		breaker:   resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("gemini")),
		logger:    logger.With().Str("provider", "gemini").Logger(),
	}, nil
}

// Close releases the underlying connection
func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) AnalyzeViolations(ctx context.Context, text string) Result {
	return g.run(ctx, "Advanced violation analysis", violationPrompt(text))
}

func (g *Gemini) AnalyzeProcedure(ctx context.Context, text, docType string) Result {
	return g.run(ctx, "Legal analysis", procedurePrompt(text, docType))
}

func (g *Gemini) SummarizeCase(ctx context.Context, digest CaseDigest) Result {
	return g.run(ctx, "AI analysis", casePrompt(digest))
}

func (g *Gemini) run(ctx context.Context, what string, p prompt) Result {
	content, err := resilience.RetryWithCircuitBreaker(ctx, g.retry, g.breaker, func(ctx context.Context) (string, error) {
		return g.generate(ctx, p)
	})
	if err != nil {
		g.logger.Warn().Stack().Err(err).Str("call", what).Msg("analysis call failed")
		return Failed(g.Name(), what, err)
	}
	return interpret(g.Name(), content, p.wantJSON)
}

func (g *Gemini) generate(ctx context.Context, p prompt) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(p.temperature)
	maxTokens := p.maxTokens
	if g.maxTokens > 0 && g.maxTokens < maxTokens {
		maxTokens = g.maxTokens
	}
	m.SetMaxOutputTokens(int32(maxTokens))
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(p.system)}}
	if p.wantJSON {
		m.ResponseMIMEType = "application/json"
	}

	resp, err := m.GenerateContent(ctx, genai.Text(p.user))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		break
	}
	if b.Len() == 0 {
		return "", resilience.NewPermanentError("gemini returned no text", nil)
	}
	return b.String(), nil
}
