// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCaseNumbersAndJudges(t *testing.T) {
	text := "Case No. JU-2023-0045\nBefore Honorable Maria Lopez.\nJudge Maria Lopez, presiding.\n" +
		"Case: JU-2023-0045 was continued."

	got := NewExtractor().Extract(text)

	assert.Contains(t, got[CaseNumbers], "JU-2023-0045")
	assert.Equal(t, []string{"Maria Lopez"}, got[JudgeNames])
}

func TestExtractDates(t *testing.T) {
	text := "Filed 01/15/2023. Hearing set for March 3, 2022 and reviewed 2021-06-01."
	got := NewExtractor().Extract(text)
	require.NotEmpty(t, got[Dates])
	assert.Contains(t, got[Dates], "01/15/2023")
	assert.Contains(t, got[Dates], "March 3, 2022")
}

func TestExtractCourtAndTerms(t *testing.T) {
	text := "IN THE CIRCUIT COURT OF MONTGOMERY COUNTY\n" +
		"The Department of Human Resources filed a case plan regarding custody and visitation."

	got := NewExtractor().Extract(text)

	assert.Equal(t, []string{"CIRCUIT COURT"}, got[CourtNames])
	assert.ElementsMatch(t, []string{"custody", "visitation"}, got[CustodyTerms])
	assert.Equal(t, []string{"Department of Human Resources"}, got[CPSTerms])
	assert.Equal(t, []string{"case plan"}, got[ISPTerms])
}

func TestExtractOmitsEmptyKinds(t *testing.T) {
	got := NewExtractor().Extract("nothing of interest")
	assert.Empty(t, got)
	assert.Nil(t, got.Get(JudgeNames))
}

func TestExtractDeduplicatesAndTrims(t *testing.T) {
	got := NewExtractor().Extract("custody CUSTODY custody")
	assert.ElementsMatch(t, []string{"CUSTODY", "custody"}, got[CustodyTerms])
}

func TestKinds(t *testing.T) {
	kinds := NewExtractor().Kinds()
	require.Len(t, kinds, 12)
	assert.Equal(t, CaseNumbers, kinds[0])
	assert.Equal(t, ISPTerms, kinds[11])
}
