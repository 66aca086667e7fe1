// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pdfcpuInit sync.Once

func pdfcpuConfig() *model.Configuration {
	pdfcpuInit.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	conf := pdfcpuConfig()
	if err := api.ValidateFile(path, conf); err != nil {
		return Result{}, fmt.Errorf("invalid PDF file: %w", err)
	}

	res := Result{Method: MethodPDFText, Metadata: make(map[string]string)}
	if pctx, err := api.ReadContextFile(path); err == nil {
		res.PageCount = pctx.PageCount
		setIf(res.Metadata, "title", pctx.Title)
		setIf(res.Metadata, "author", pctx.Author)
		setIf(res.Metadata, "producer", pctx.Producer)
	} else {
		res.Warnings = append(res.Warnings, "read pdf context: "+err.Error())
	}

	text, pages, err := pdfText(path)
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	}
	if res.PageCount == 0 {
		res.PageCount = pages
	}
	res.Text = text

	if !e.cfg.OCREnabled || utf8.RuneCountInString(strings.TrimSpace(text)) >= e.cfg.MinTextChars {
		return res, nil
	}

	e.logger.Debug().Str("path", path).Int("chars", len(text)).Msg("text layer too thin, falling back to OCR")
	ocrText, ocrPages, warns, err := e.pdfToOCR(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		if text == "" {
			return Result{}, fmt.Errorf("ocr %s: %w", path, err)
		}
		res.Warnings = append(res.Warnings, "ocr fallback failed: "+err.Error())
		return res, nil
	}
	if len(strings.TrimSpace(ocrText)) > len(strings.TrimSpace(text)) {
		res.Text = ocrText
		res.Method = MethodOCR
		if ocrPages > 0 {
			res.PageCount = ocrPages
		}
	}
	return res, nil
}

func setIf(m map[string]string, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		m[key] = value
	}
}

// pdfText reads the embedded text layer page by page.
func pdfText(path string) (string, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	pages := r.NumPage()
	var buf strings.Builder
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := pageText(p)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString(PageBreak)
		}
		buf.WriteString(cleanText(text))
	}
	return buf.String(), pages, nil
}

// pageText rebuilds rows from glyph positions, falling back to the plain
// text stream when row grouping fails.
func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	sorted := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}
	// rows come out bottom-up in PDF space
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position > sorted[j].Position
	})

	var buf strings.Builder
	for _, row := range sorted {
		line := rowText(row.Content)
		if strings.TrimSpace(line) != "" {
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	return buf.String(), nil
}

func rowText(elements []pdf.Text) string {
	sorted := make([]pdf.Text, len(elements))
	copy(sorted, elements)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var buf strings.Builder
	for i, el := range sorted {
		buf.WriteString(el.S)
		if i == len(sorted)-1 {
			break
		}
		fontSize := el.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		if gap := sorted[i+1].X - (el.X + el.W); gap > fontSize*0.2 {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}

// cleanText trims lines, drops empty ones and collapses runs of spaces.
func cleanText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\t", " "), "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
