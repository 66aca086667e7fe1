// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caselens/internal/cases"
)

type stubFormatter struct{ name string }

func (s stubFormatter) Format(c *cases.Case, _ FormatterOptions) (string, error) {
	return s.name + ":" + c.Name, nil
}
func (s stubFormatter) Name() string          { return s.name }
func (s stubFormatter) Description() string   { return "stub" }
func (s stubFormatter) FileExtension() string { return ".stub" }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(stubFormatter{name: "zeta"})
	r.Register(stubFormatter{name: "alpha"})

	assert.Equal(t, []string{"alpha", "zeta"}, r.List())
	f, ok := r.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", f.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestExport(t *testing.T) {
	Register(stubFormatter{name: "stubfmt"})

	out, err := Export("stubfmt", cases.New("Doe"), FormatterOptions{})
	require.NoError(t, err)
	assert.Equal(t, "stubfmt:Doe", out)

	_, err = Export("nope", cases.New("Doe"), FormatterOptions{})
	assert.ErrorContains(t, err, "unsupported format 'nope'")

	_, err = Export("stubfmt", nil, FormatterOptions{})
	assert.Error(t, err)
}

func TestGetFormatInfo(t *testing.T) {
	Register(stubFormatter{name: "xlsx"})
	info := GetFormatInfo("xlsx")
	assert.True(t, info.Binary)
	assert.Equal(t, ".stub", info.Extension)

	assert.Equal(t, FormatInfo{}, GetFormatInfo("unregistered"))
}
