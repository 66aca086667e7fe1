// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"context"
	"fmt"

	"caselens/internal/config"
	"caselens/internal/resilience"

	"github.com/rs/zerolog"
)

// New selects the analyzer for cfg. Development mode always yields the stub.
func New(ctx context.Context, cfg config.AnalysisConfig, logger zerolog.Logger) (Analyzer, error) {
	if cfg.DevMode {
		return NewStub(), nil
	}

	retry := resilience.ProviderRetryConfig(cfg.MaxRetries)
	switch cfg.Provider {
	case "", "stub":
		return NewStub(), nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai: API key is required (set OPENAI_API_KEY)")
		}
		breaker := resilience.DefaultCircuitBreakerConfig("openai")
		if cfg.BreakerTrips > 0 {
			breaker.FailureThreshold = cfg.BreakerTrips
		}
		return NewOpenAI(OpenAIConfig{
			APIKey:    cfg.OpenAIKey,
			BaseURL:   cfg.OpenAIURL,
			Model:     cfg.Model,
			Timeout:   cfg.Timeout,
			MaxTokens: cfg.MaxTokens,
			Retry:     retry,
			Breaker:   breaker,
		}, logger), nil
	case "gemini":
		return NewGemini(ctx, cfg.GeminiKey, cfg.Model, cfg.MaxTokens, retry, logger)
	default:
		return nil, fmt.Errorf("unsupported analysis provider: %q", cfg.Provider)
	}
}
