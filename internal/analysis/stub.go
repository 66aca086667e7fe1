// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

import "context"

const (
	StubViolationText = "[DEV MODE] Advanced AI violation analysis disabled"
	StubProcedureText = "[DEV MODE] Procedural analysis would identify timeline violations, notice issues, and due process concerns"
	StubCaseText      = "[Development Mode Active - AI analysis disabled to save tokens]"
)

// Stub answers every call offline with fixed development-mode text.
type Stub struct{}

// NewStub returns the offline analyzer
func NewStub() *Stub { return &Stub{} }

func (*Stub) Name() string { return "stub" }

func (*Stub) AnalyzeViolations(context.Context, string) Result {
	return Result{
		Status:          StatusStub,
		Provider:        "stub",
		Text:            StubViolationText,
		Data:            map[string]any{"patterns_detected": []any{"Development mode active"}},
		Recommendations: []string{"Enable production mode for AI-powered violation detection"},
	}
}

func (*Stub) AnalyzeProcedure(context.Context, string, string) Result {
	return Result{
		Status:          StatusStub,
		Provider:        "stub",
		Text:            StubProcedureText,
		Data:            map[string]any{"potential_flaws": []any{"Development mode active - no actual analysis performed"}},
		Recommendations: []string{"Enable production mode for full legal analysis"},
	}
}

func (*Stub) SummarizeCase(context.Context, CaseDigest) Result {
	return Result{Status: StatusStub, Provider: "stub", Text: StubCaseText}
}
