// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"
)

func TestEnvironmentOverrides(t *testing.T) {
	cfgDir := t.TempDir()
	dataDir := t.TempDir()
	t.Setenv("CASELENS_CONFIG_DIR", cfgDir)
	t.Setenv("CASELENS_DATA_DIR", dataDir)

	if got := GetConfigDir(); got != cfgDir {
		t.Errorf("GetConfigDir() = %q, want %q", got, cfgDir)
	}
	if got := GetConfigFile(); got != filepath.Join(cfgDir, "config.yaml") {
		t.Errorf("GetConfigFile() = %q", got)
	}
	if got := GetCasesDir(); got != filepath.Join(dataDir, "cases") {
		t.Errorf("GetCasesDir() = %q", got)
	}
}

func TestValidatePath(t *testing.T) {
	if err := ValidatePath(""); err != nil {
		t.Errorf("empty path: %v", err)
	}
	if runtime.GOOS == "windows" {
		t.Skip("unix path rules")
	}
	err := ValidatePath("bad\x00path")
	var pve *PathValidationError
	if !errors.As(err, &pve) {
		t.Fatalf("expected PathValidationError, got %v", err)
	}
	if err := ValidatePath("/tmp/cases"); err != nil {
		t.Errorf("valid path rejected: %v", err)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := NormalizePath("a/./b/../c"); got != filepath.Clean("a/c") {
		t.Errorf("NormalizePath = %q", got)
	}
}
