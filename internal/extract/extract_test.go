// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"caselens/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers pdftoppm by writing page images and tesseract with
// canned text per image.
type fakeRunner struct {
	pages int
	text  map[string]string
	calls []string
	fail  string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, name)
	if name == f.fail {
		return nil, []byte("boom"), errors.New("exit status 1")
	}
	switch name {
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= f.pages; i++ {
			p := prefix + "-" + strconv.Itoa(i) + ".png"
			if err := os.WriteFile(p, []byte("png"), 0600); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		return []byte(f.text[filepath.Base(args[0])]), nil, nil
	}
	return nil, nil, errors.New("unexpected command " + name)
}

func testConfig() config.ExtractionConfig {
	return config.ExtractionConfig{
		MaxUploadBytes: 1 << 20,
		OCREnabled:     true,
		Tesseract:      "tesseract",
		Pdftoppm:       "pdftoppm",
		OCRLanguage:    "eng",
		MinTextChars:   100,
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0600))
	return p
}

func TestExtractPlainText(t *testing.T) {
	e := New(testConfig(), zerolog.Nop())
	body := []byte("ORDER\nThe motion is denied.")
	res, err := e.Extract(context.Background(), writeFile(t, "order.txt", body))
	require.NoError(t, err)

	assert.Equal(t, string(body), res.Text)
	assert.Equal(t, MethodPlainText, res.Method)
	assert.Equal(t, HashBytes(body), res.Hash)
	assert.Len(t, res.Hash, 64)
	assert.Equal(t, "27", res.Metadata["file_size"])
}

func TestExtractTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadBytes = 10
	e := New(cfg, zerolog.Nop())
	_, err := e.Extract(context.Background(), writeFile(t, "big.txt", []byte(strings.Repeat("x", 11))))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestExtractUnsupported(t *testing.T) {
	e := New(testConfig(), zerolog.Nop())
	_, err := e.Extract(context.Background(), writeFile(t, "brief.docx", []byte("PK")))
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, Supported("brief.docx"))
	assert.True(t, Supported("scan.JPG"))
}

func TestExtractImageUsesOCR(t *testing.T) {
	runner := &fakeRunner{text: map[string]string{"scan.png": "NOTICE  OF\n\nHEARING\n"}}
	e := New(testConfig(), zerolog.Nop()).WithRunner(runner)

	res, err := e.Extract(context.Background(), writeFile(t, "scan.png", []byte("not really a png")))
	require.NoError(t, err)
	assert.Equal(t, MethodOCR, res.Method)
	assert.Equal(t, "NOTICE OF\nHEARING", res.Text)
	assert.Equal(t, []string{"tesseract"}, runner.calls)
}

func TestExtractImageOCRFailure(t *testing.T) {
	runner := &fakeRunner{fail: "tesseract"}
	e := New(testConfig(), zerolog.Nop()).WithRunner(runner)
	_, err := e.Extract(context.Background(), writeFile(t, "scan.jpg", []byte("jpg")))
	assert.ErrorContains(t, err, "tesseract")
}

func TestPDFToOCRJoinsPages(t *testing.T) {
	runner := &fakeRunner{pages: 2, text: map[string]string{
		"page-1.png": "first page",
		"page-2.png": "second page",
	}}
	e := New(testConfig(), zerolog.Nop()).WithRunner(runner)

	text, pages, warns, err := e.pdfToOCR(context.Background(), "/tmp/in.pdf")
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Equal(t, 2, pages)
	assert.Equal(t, "first page"+PageBreak+"second page", text)
	assert.Equal(t, []string{"pdftoppm", "tesseract", "tesseract"}, runner.calls)
}

func TestPDFToOCRNoPages(t *testing.T) {
	e := New(testConfig(), zerolog.Nop()).WithRunner(&fakeRunner{})
	_, _, _, err := e.pdfToOCR(context.Background(), "/tmp/in.pdf")
	assert.ErrorContains(t, err, "no pages rendered")
}

func TestExtractInvalidPDF(t *testing.T) {
	e := New(testConfig(), zerolog.Nop()).WithRunner(&fakeRunner{})
	_, err := e.Extract(context.Background(), writeFile(t, "broken.pdf", []byte("%PDF-1.4 garbage")))
	assert.ErrorContains(t, err, "invalid PDF")
}

func TestSortPages(t *testing.T) {
	files := []string{"p-10.png", "p-2.png", "p-1.png"}
	sortPages(files)
	assert.Equal(t, []string{"p-1.png", "p-2.png", "p-10.png"}, files)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b\nc", cleanText("  a \t b \n\n   c  \n"))
}
