// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caselens/internal/analysis"
	"caselens/internal/cases"
	"caselens/internal/formatters/formattertest"
)

func TestFormatCaseSummary(t *testing.T) {
	out, err := NewFormatter().Format(formattertest.Case(), formattertest.Options())
	require.NoError(t, err)

	assert.Contains(t, out, "# LEGAL CASE ANALYSIS REPORT\n## Case: Doe v. State\n### Generated: March 05, 2024 at 02:30 PM")
	assert.Contains(t, out, "**Total Violations Identified:** 4\n- High Severity: 2\n- Medium Severity: 1\n- Low Severity: 1")
	assert.Contains(t, out, "**Risk Assessment:** High")
	assert.Contains(t, out, "1. **order.pdf**\n   - Type: Order\n   - Processed: 2024-02-01")
	assert.Contains(t, out, "**Case Numbers:** JU-2023-001")
	assert.Contains(t, out, "**Judges:** Maria Lopez")
	assert.NotContains(t, out, "**Attorneys:**")
	assert.Contains(t, out, "### 🚨 HIGH SEVERITY VIOLATIONS")
	assert.Contains(t, out, "1. **Due Process Denial Found**")
	assert.Contains(t, out, "   - Document: order.pdf")
	assert.Contains(t, out, "- **01/15/2023** - Order (order.pdf)\n- **08/20/2023** - Motion (motion.pdf)")
	assert.Contains(t, out, "**Maria Lopez** (Judge)\n- Violations: 3\n- Severity Score: 8\n- Documents: order.pdf")
	assert.Contains(t, out, analysis.StubCaseText)
	assert.Contains(t, out, "## RECOMMENDATIONS\n\n1. Immediately consult")

	// Low violations are counted but not listed.
	assert.NotContains(t, out, "filed after the deadline")
}

func TestFormatEmptyCase(t *testing.T) {
	out, err := NewFormatter().Format(cases.New("empty"), formattertest.Options())
	require.NoError(t, err)

	assert.Contains(t, out, "No violations detected in the analyzed documents.")
	assert.NotContains(t, out, "## CASE TIMELINE")
	assert.NotContains(t, out, "## REPEAT ACTORS")
	assert.Contains(t, out, "1. Continue monitoring case for procedural compliance")
}

func TestFormatClipsContext(t *testing.T) {
	c := formattertest.Case()
	c.Violations[0].Context = strings.Repeat("x", 400)

	out, err := NewFormatter().Format(c, formattertest.Options())
	require.NoError(t, err)
	assert.Contains(t, out, "   - Context: "+strings.Repeat("x", 150)+"...\n")
	assert.NotContains(t, out, strings.Repeat("x", 151))
}

func TestFormatMissingContext(t *testing.T) {
	c := formattertest.Case()
	c.Violations[0].Context = ""
	c.Violations[0].DocumentName = ""

	out, err := NewFormatter().Format(c, formattertest.Options())
	require.NoError(t, err)
	assert.Contains(t, out, "   - Document: Unknown\n   - Context: No context available")
}
