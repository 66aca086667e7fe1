// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"caselens/internal/resilience"
	"caselens/internal/version"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// OpenAIConfig configures the chat completions client
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxTokens  int
	Retry      resilience.RetryConfig
	Breaker    resilience.CircuitBreakerConfig
	HTTPClient *resty.Client // optional, tests inject one
}

// OpenAI calls an OpenAI-compatible /chat/completions endpoint.
type OpenAI struct {
	client    *resty.Client
	model     string
	maxTokens int
	retry     resilience.RetryConfig
	breaker   *resilience.CircuitBreaker
	logger    zerolog.Logger
}

// NewOpenAI creates a client for the given configuration.
func NewOpenAI(cfg OpenAIConfig, logger zerolog.Logger) *OpenAI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	c := cfg.HTTPClient
	if c == nil {
		c = resty.New()
	}
	c.SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", version.UserAgent()).
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout)

	if cfg.Breaker.Name == "" {
		cfg.Breaker = resilience.DefaultCircuitBreakerConfig("openai")
	}
	return &OpenAI{
		client:    c,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		retry:     cfg.Retry,
		breaker:   resilience.NewCircuitBreaker(cfg.Breaker),
		logger:    logger.With().Str("provider", "openai").Logger(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) AnalyzeViolations(ctx context.Context, text string) Result {
	return o.run(ctx, "Advanced violation analysis", violationPrompt(text))
}

func (o *OpenAI) AnalyzeProcedure(ctx context.Context, text, docType string) Result {
	return o.run(ctx, "Legal analysis", procedurePrompt(text, docType))
}

func (o *OpenAI) SummarizeCase(ctx context.Context, digest CaseDigest) Result {
	return o.run(ctx, "AI analysis", casePrompt(digest))
}

func (o *OpenAI) run(ctx context.Context, what string, p prompt) Result {
	content, err := resilience.RetryWithCircuitBreaker(ctx, o.withLogging(), o.breaker, func(ctx context.Context) (string, error) {
		return o.complete(ctx, p)
	})
	if err != nil {
		o.logger.Warn().Stack().Err(err).Str("call", what).Msg("analysis call failed")
		return Failed(o.Name(), what, err)
	}
	return interpret(o.Name(), content, p.wantJSON)
}

func (o *OpenAI) withLogging() resilience.RetryConfig {
	cfg := o.retry
	cfg.OnRetry = func(attempt int, err error) {
		o.logger.Debug().Int("attempt", attempt).Err(err).Msg("retrying analysis call")
	}
	return cfg
}

func (o *OpenAI) complete(ctx context.Context, p prompt) (string, error) {
	maxTokens := p.maxTokens
	if o.maxTokens > 0 && o.maxTokens < maxTokens {
		maxTokens = o.maxTokens
	}
	req := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: p.system},
			{Role: "user", Content: p.user},
		},
		MaxTokens:   maxTokens,
		Temperature: p.temperature,
	}
	if p.wantJSON {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(&req).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if err := resilience.ClassifyHTTPStatus("openai", resp.StatusCode(), resp.String()); err != nil {
		return "", err
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", resilience.NewPermanentError("decode openai response", err)
	}
	if len(cr.Choices) == 0 {
		return "", resilience.NewPermanentError("openai returned no choices", nil)
	}
	return cr.Choices[0].Message.Content, nil
}
