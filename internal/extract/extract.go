// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extract turns uploaded files into plain text for analysis.
// PDFs are read with their embedded text layer and fall back to OCR when
// the layer is too thin; images always go through OCR.
package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"caselens/internal/config"
	"caselens/internal/observability"

	"github.com/rs/zerolog"
)

// Extraction method tags recorded on each document.
const (
	MethodPDFText   = "pdf_text"
	MethodOCR       = "ocr"
	MethodPlainText = "plain_text"
)

// PageBreak separates pages in extracted text.
const PageBreak = "\n--- PAGE BREAK ---\n"

var (
	// ErrTooLarge is returned for files over the configured upload limit.
	ErrTooLarge = errors.New("file exceeds upload limit")
	// ErrUnsupported is returned for file types that cannot be extracted.
	ErrUnsupported = errors.New("unsupported file type")
)

// Result is the extracted content of one file
type Result struct {
	Text      string
	Hash      string
	Method    string
	PageCount int
	Metadata  map[string]string
	Warnings  []string
}

// Extractor extracts text from PDFs, images and plain text files.
type Extractor struct {
	cfg      config.ExtractionConfig
	runner   Runner
	logger   zerolog.Logger
	observer *observability.StandardObserver
}

// New creates an extractor using the external OCR tools named in cfg.
func New(cfg config.ExtractionConfig, logger zerolog.Logger) *Extractor {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = config.DefaultMaxUploadBytes
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.OCRLanguage == "" {
		cfg.OCRLanguage = "eng"
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner replaces the command runner used for OCR.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// SetObserver attaches timing and debug output
func (e *Extractor) SetObserver(o *observability.StandardObserver) {
	e.observer = o
}

// Extract reads path and returns its text. The content hash is computed
// over the raw file bytes.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	var finish func(bool, map[string]interface{})
	if e.observer != nil {
		finish = e.observer.StartTiming("extract", "extract_file", path)
	}

	res, err := e.extract(ctx, path)
	if finish != nil {
		finish(err == nil, map[string]interface{}{
			"method": res.Method,
			"pages":  res.PageCount,
			"chars":  len(res.Text),
		})
	}
	return res, err
}

func (e *Extractor) extract(ctx context.Context, path string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Result{}, fmt.Errorf("%s: %w: is a directory", path, ErrUnsupported)
	}
	if info.Size() > e.cfg.MaxUploadBytes {
		return Result{}, fmt.Errorf("%s (%d bytes, limit %d): %w", filepath.Base(path), info.Size(), e.cfg.MaxUploadBytes, ErrTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	hash := HashBytes(data)

	var res Result
	switch kindOf(path) {
	case kindPDF:
		res, err = e.extractPDF(ctx, path)
	case kindImage:
		res, err = e.extractImage(ctx, path)
	case kindText:
		res = Result{Text: string(data), Method: MethodPlainText, PageCount: 1}
	default:
		return Result{}, fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupported)
	}
	if err != nil {
		return Result{}, err
	}

	res.Hash = hash
	if res.Metadata == nil {
		res.Metadata = make(map[string]string)
	}
	res.Metadata["file_size"] = fmt.Sprintf("%d", info.Size())
	return res, nil
}

// HashBytes returns the hex SHA-256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type fileKind int

const (
	kindUnknown fileKind = iota
	kindPDF
	kindImage
	kindText
)

func kindOf(path string) fileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return kindPDF
	case ".jpg", ".jpeg", ".png", ".tif", ".tiff":
		return kindImage
	case ".txt", ".text":
		return kindText
	default:
		return kindUnknown
	}
}

// Supported reports whether path has an extension Extract can handle.
func Supported(path string) bool {
	return kindOf(path) != kindUnknown
}
