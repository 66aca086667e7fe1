// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package briefing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caselens/internal/cases"
	"caselens/internal/formatters/formattertest"
	"caselens/internal/patterns"
)

func TestFormatBriefing(t *testing.T) {
	out, err := NewFormatter().Format(formattertest.Case(), formattertest.Options())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# VIOLATION BRIEFING\n## Case: Doe v. State\n### Date: March 05, 2024\n"))
	assert.Contains(t, out, "**Total Violations:** 4\n- Critical/High: 2\n- Medium: 1\n- Low: 1\n")
	assert.Contains(t, out, "## CRITICAL VIOLATIONS REQUIRING IMMEDIATE ATTENTION")
	assert.Contains(t, out, "### 1. DUE_PROCESS_DENIAL FOUND\n\n**Document:** order.pdf\n\n**Evidence:** the ex parte proceeding went ahead")
	assert.Contains(t, out, "This represents a high severity violation")
	assert.Contains(t, out, "## SIGNIFICANT PROCEDURAL VIOLATIONS\n\n### 1. Missed Hearing Found")
	assert.Contains(t, out, "- **Due Process Denial Found** (`due_process_denial`, high): 1")
}

func TestFormatBriefingLimitsMedium(t *testing.T) {
	c := cases.New("many")
	for i := 0; i < 8; i++ {
		c.Violations = append(c.Violations, formattertest.Violation(fmt.Sprintf("medium_%d", i), patterns.SeverityMedium, strings.Repeat("y", 300)))
	}

	out, err := NewFormatter().Format(c, formattertest.Options())
	require.NoError(t, err)

	assert.Contains(t, out, "### 5. Medium 4 Found")
	assert.NotContains(t, out, "### 6.")
	assert.Contains(t, out, "**Context:** "+strings.Repeat("y", 200)+"...")
	assert.NotContains(t, out, "## CRITICAL VIOLATIONS")
}
