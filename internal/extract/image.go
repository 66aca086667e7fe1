// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// exifFields are copied into document metadata when present.
var exifFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.Make,
	exif.Model,
	exif.Software,
	exif.ImageDescription,
	exif.Artist,
}

func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	res := Result{Method: MethodOCR, PageCount: 1, Metadata: imageMetadata(path)}
	if !e.cfg.OCREnabled {
		return Result{}, fmt.Errorf("%s: OCR disabled: %w", path, ErrUnsupported)
	}
	text, err := e.tesseract(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("ocr %s: %w", path, err)
	}
	res.Text = text
	return res, nil
}

// imageMetadata reads EXIF tags. Images without EXIF yield an empty map.
func imageMetadata(path string) map[string]string {
	meta := make(map[string]string)
	f, err := os.Open(path)
	if err != nil {
		return meta
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return meta
	}
	for _, name := range exifFields {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		v, err := tag.StringVal()
		if err != nil {
			v = tag.String()
		}
		if v = strings.Trim(strings.TrimSpace(v), "\""); v != "" {
			meta["exif_"+strings.ToLower(string(name))] = v
		}
	}
	if t, err := x.DateTime(); err == nil {
		meta["captured_at"] = t.Format("2006-01-02T15:04:05")
	}
	return meta
}
