// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTimingWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityMetrics, &buf)

	finish := obs.StartTiming("detector", "detect", "order.pdf")
	finish(true, map[string]interface{}{"violations": 2})

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "info", event["level"])
	assert.Equal(t, "detector", event["component"])
	assert.Equal(t, "detect", event["operation"])
	assert.Equal(t, "order.pdf", event["file_path"])
	assert.Equal(t, float64(2), event["violations"])
	assert.Equal(t, "detector.detect", event["message"])
}

func TestFailedOperationIsWarning(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityMetrics, &buf)
	obs.LogOperation(StandardObservabilityData{Component: "store", Operation: "save", Error: "disk full"})

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"error":"disk full"`)
}

func TestObserverOffIsSilent(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityOff, &buf)
	obs.StartTiming("x", "y", "")(true, nil)
	assert.Zero(t, buf.Len())
}

func TestDebugObserverSteps(t *testing.T) {
	var buf bytes.Buffer
	d := NewDebugObserver(&buf)
	require.Same(t, d, d.StandardObserver.DebugObserver)

	done := d.StartStep("pipeline", "ingest", "a.pdf")
	d.LogDetail("pipeline", "classified as order")
	d.LogMetric("pipeline", "violations", 3)
	done(true, "ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "pipeline: ingest (a.pdf)")
	assert.True(t, strings.HasPrefix(lines[1], "  "), "detail should be indented")
	assert.Contains(t, lines[2], "violations = 3")
	assert.Contains(t, lines[3], "ingest completed")
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("caselens", &buf, false, false)
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"service":"caselens"`)
}
