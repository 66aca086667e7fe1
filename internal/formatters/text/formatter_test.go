// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caselens/internal/formatters/formattertest"
)

func TestFormatText(t *testing.T) {
	out, err := NewFormatter().Format(formattertest.Case(), formattertest.Options())
	require.NoError(t, err)

	assert.Contains(t, out, "Case: Doe v. State")
	assert.Contains(t, out, "Violations: 4 (2 high, 1 medium, 1 low)")
	assert.Contains(t, out, "Risk:       High")
	assert.Contains(t, out, "[HIGH  ] due_process_denial")
	assert.Contains(t, out, "(1 low severity violations not shown)")
	assert.Contains(t, out, "[DELAY ]")
	assert.Contains(t, out, "[CONTRA]")
	assert.Contains(t, out, "Maria Lopez (judge) violations=3 score=8 documents=order.pdf")
	assert.NotContains(t, out, "\x1b[", "no escape codes with NoColor")
}

func TestFormatTextVerboseListsLow(t *testing.T) {
	opts := formattertest.Options()
	opts.Verbose = true

	out, err := NewFormatter().Format(formattertest.Case(), opts)
	require.NoError(t, err)
	assert.Contains(t, out, "[LOW   ] late_filing")
	assert.Contains(t, out, "Unknown/0 pages/1.00")
}
