// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"caselens/internal/cases"
	"caselens/internal/formatters"
	"caselens/internal/formatters/formattertest"
)

func TestFormatYAMLExportStructure(t *testing.T) {
	out, err := NewFormatter().Format(formattertest.Case(), formattertest.Options())
	require.NoError(t, err)

	var decoded struct {
		CaseInfo struct {
			CaseName string `yaml:"case_name"`
		} `yaml:"case_info"`
		Statistics struct {
			TotalViolations int    `yaml:"total_violations"`
			RiskLevel       string `yaml:"risk_level"`
		} `yaml:"statistics"`
		ActorTracking map[string]any `yaml:"actor_tracking"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, formattertest.Case().Name, decoded.CaseInfo.CaseName)
	assert.Equal(t, 4, decoded.Statistics.TotalViolations)
	assert.Equal(t, "high", decoded.Statistics.RiskLevel)
	assert.Contains(t, decoded.ActorTracking, "Maria Lopez")
}

func TestYAMLRegistered(t *testing.T) {
	f, ok := formatters.Get("yaml")
	require.True(t, ok)
	assert.Equal(t, ".yaml", f.FileExtension())

	out, err := formatters.Export("yaml", cases.New("empty"), formattertest.Options())
	require.NoError(t, err)
	assert.Contains(t, out, "risk_level: low")
}
