// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderText = "IN THE CIRCUIT COURT OF MONTGOMERY COUNTY\n" +
	"Case: JU-2023-001\nHon. Maria Lopez.\nORDER entered 01/15/2023.\n" +
	"The court notes a due process violation in the ex parte proceeding."

// isolate points configuration and storage at a temporary directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CASELENS_CONFIG_DIR", filepath.Join(dir, "config"))
	t.Setenv("CASELENS_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("CASELENS_STORAGE_BACKEND", "json")
	t.Setenv("CASELENS_STORAGE_DIR", filepath.Join(dir, "data", "cases"))
	t.Setenv("CASELENS_ANALYSIS_PROVIDER", "stub")
	t.Setenv("CASELENS_ANALYSIS_DEV_MODE", "true")
	return dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newCase(t *testing.T) string {
	t.Helper()
	out, _, err := run(t, "case", "new", "Doe", "v.", "State")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)
	return id
}

func TestCaseLifecycle(t *testing.T) {
	dir := isolate(t)
	id := newCase(t)

	doc := filepath.Join(dir, "order.txt")
	require.NoError(t, os.WriteFile(doc, []byte(orderText), 0o600))

	out, _, err := run(t, "case", "add", id, doc)
	require.NoError(t, err)
	assert.Contains(t, out, "Added order.txt (order,")
	assert.Contains(t, out, "Case Doe v. State: 1 documents")

	_, stderr, err := run(t, "case", "add", id, doc)
	require.NoError(t, err)
	assert.Contains(t, stderr, "already part of this case")

	out, _, err = run(t, "case", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Doe v. State")

	out, _, err = run(t, "case", "report", id, "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "Doe v. State")
	assert.Contains(t, out, "Due Process")

	out, _, err = run(t, "case", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted case "+id)

	_, _, err = run(t, "case", "delete", id)
	assert.Error(t, err)
}

func TestCaseListSkipsBrokenSnapshots(t *testing.T) {
	dir := isolate(t)
	good := newCase(t)
	broken := newCase(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "cases", broken+".json"), []byte("{"), 0o600))

	out, stderr, err := run(t, "case", "list")
	require.NoError(t, err)
	assert.Contains(t, out, good)
	assert.NotContains(t, out, broken)
	assert.Contains(t, stderr, "Warning: unreadable case snapshots: "+broken)
}

func TestCaseAddReportsFailures(t *testing.T) {
	dir := isolate(t)
	id := newCase(t)

	bad := filepath.Join(dir, "notes.docx")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o600))

	_, stderr, err := run(t, "case", "add", id, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files")
	assert.Contains(t, stderr, "notes.docx")
}

func TestReportFormats(t *testing.T) {
	dir := isolate(t)
	id := newCase(t)

	_, _, err := run(t, "case", "report", id, "--format", "xlsx")
	require.Error(t, err, "binary formats need an output file")

	_, _, err = run(t, "case", "report", id, "--format", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available formats")

	target := filepath.Join(dir, "report.xlsx")
	_, _, err = run(t, "case", "report", id, "--format", "xlsx", "--output", target)
	require.NoError(t, err)
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSearch(t *testing.T) {
	dir := isolate(t)
	id := newCase(t)
	doc := filepath.Join(dir, "order.txt")
	require.NoError(t, os.WriteFile(doc, []byte(orderText), 0o600))
	_, _, err := run(t, "case", "add", id, doc)
	require.NoError(t, err)

	out, _, err := run(t, "search", id, "ex parte", "--kind", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "matches for \"ex parte\"")
	assert.Contains(t, out, "order.txt")

	out, _, err = run(t, "search", id, "lopez", "--kind", "actors", "--output", "json")
	require.NoError(t, err)
	var actors []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &actors))
	require.Len(t, actors, 1)
	assert.Equal(t, "Maria Lopez", actors[0]["name"])
	assert.Equal(t, []any{"order.txt"}, actors[0]["documents"])

	out, _, err = run(t, "search", id)
	require.NoError(t, err)
	assert.Contains(t, out, "All rulings by Judge Maria Lopez")

	_, _, err = run(t, "search", id, "x", "--kind", "timeline", "--from", "someday")
	assert.Error(t, err)
}

func TestUnknownCase(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "case", "report", "6f1c1c1e-7c39-4d3c-a0a4-2f1f4c0f0a11")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "caselens "))
}
