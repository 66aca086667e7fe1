// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"caselens/internal/formatters/formattertest"
)

func TestFormatWorkbook(t *testing.T) {
	out, err := NewFormatter().Format(formattertest.Case(), formattertest.Options())
	require.NoError(t, err)

	wb, err := excelize.OpenReader(strings.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	assert.Equal(t, []string{SheetSummary, SheetViolations, SheetTimeline, SheetActors}, wb.GetSheetList())

	risk, err := wb.GetCellValue(SheetSummary, "B11")
	require.NoError(t, err)
	assert.Equal(t, "High", risk)

	rows, err := wb.GetRows(SheetViolations)
	require.NoError(t, err)
	require.Len(t, rows, 1+4+1, "header, case violations, timeline delay")
	assert.Equal(t, "Type", rows[0][0])
	assert.Equal(t, "due_process_denial", rows[1][0])
	assert.Equal(t, "excessive_delay", rows[5][0])

	timeline, err := wb.GetRows(SheetTimeline)
	require.NoError(t, err)
	require.Len(t, timeline, 3)
	assert.Equal(t, []string{"2023-01-15", "01/15/2023", "Order", "order.pdf"}, timeline[1])

	actors, err := wb.GetRows(SheetActors)
	require.NoError(t, err)
	require.Len(t, actors, 2)
	assert.Equal(t, "Maria Lopez", actors[1][0])
	assert.Equal(t, "8", actors[1][3])
}
