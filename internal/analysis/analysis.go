// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package analysis wraps the optional LLM collaborator that adds free-form
// violation and procedural analysis on top of the pattern detectors.
// Every call returns a Result; failures are reported in the Result and
// never abort document ingestion.
package analysis

import (
	"context"
	"unicode/utf8"
)

// Input limits applied before a document is sent to a provider.
const (
	ViolationInputLimit = 3000
	ProcedureInputLimit = 4000
)

// Status of an analysis call
type Status string

const (
	StatusOK     Status = "ok"
	StatusStub   Status = "stub"
	StatusFailed Status = "failed"
)

// Result is the outcome of one analysis call. Data holds the provider's
// JSON object when it returned one; otherwise Text holds the raw answer.
type Result struct {
	Status          Status         `json:"status" yaml:"status"`
	Provider        string         `json:"provider,omitempty" yaml:"provider,omitempty"`
	Text            string         `json:"text,omitempty" yaml:"text,omitempty"`
	Data            map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	Error           string         `json:"error,omitempty" yaml:"error,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// Failed builds the result recorded when a provider call fails.
func Failed(provider, what string, err error) Result {
	return Result{
		Status:          StatusFailed,
		Provider:        provider,
		Error:           what + " failed: " + err.Error(),
		Recommendations: []string{"Check API configuration and try again"},
	}
}

// OK reports whether the provider produced an answer
func (r Result) OK() bool { return r.Status == StatusOK }

// CaseDigest is the case-level summary sent for a case assessment
type CaseDigest struct {
	CaseName        string
	ViolationTypes  []string
	HighSeverity    int
	TotalViolations int
	Entities        map[string][]string
}

// Analyzer is the LLM collaborator
type Analyzer interface {
	Name() string
	AnalyzeViolations(ctx context.Context, text string) Result
	AnalyzeProcedure(ctx context.Context, text, docType string) Result
	SummarizeCase(ctx context.Context, digest CaseDigest) Result
}

// Truncate returns the first n characters of text.
func Truncate(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
