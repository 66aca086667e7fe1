// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"caselens/internal/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	calls atomic.Int32
	delay func(path string) time.Duration
}

var errBroken = errors.New("broken file")

func (f *fakeExtractor) Extract(ctx context.Context, path string) (extract.Result, error) {
	f.calls.Add(1)
	if f.delay != nil {
		select {
		case <-time.After(f.delay(path)):
		case <-ctx.Done():
			return extract.Result{}, ctx.Err()
		}
	}
	if path == "broken.pdf" {
		return extract.Result{}, errBroken
	}
	return extract.Result{Text: "text of " + path, Hash: "hash-" + path, Method: extract.MethodPlainText}, nil
}

func TestExtractFilesKeepsOrder(t *testing.T) {
	paths := make([]string, 20)
	for i := range paths {
		paths[i] = fmt.Sprintf("doc-%02d.txt", i)
	}
	// Earlier files finish last.
	fx := &fakeExtractor{delay: func(path string) time.Duration {
		var n int
		_, _ = fmt.Sscanf(path, "doc-%02d.txt", &n)
		return time.Duration(20-n) * time.Millisecond
	}}

	var progress atomic.Int32
	results, stats := ExtractFiles(context.Background(), paths, fx, 4, nil, func(completed, total int, _ string) {
		progress.Store(int32(completed))
		assert.Equal(t, 20, total)
	})

	require.Len(t, results, 20)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, paths[i], r.FilePath)
		assert.Equal(t, "hash-"+paths[i], r.Extracted.Hash)
		assert.NoError(t, r.Error)
	}
	assert.Equal(t, int32(20), fx.calls.Load())
	assert.Equal(t, int32(20), progress.Load())
	assert.Equal(t, 20, stats.ProcessedFiles)
	assert.Equal(t, 4, stats.WorkerCount)
}

func TestExtractFilesReportsErrors(t *testing.T) {
	results, stats := ExtractFiles(context.Background(), []string{"a.txt", "broken.pdf"}, &fakeExtractor{}, 8, nil, nil)

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Error)
	assert.ErrorIs(t, results[1].Error, errBroken)
	assert.Equal(t, 1, stats.FailedFiles)
	assert.Equal(t, 2, stats.WorkerCount, "pool is never larger than the batch")
}

func TestExtractFilesEmpty(t *testing.T) {
	results, stats := ExtractFiles(context.Background(), nil, &fakeExtractor{}, 2, nil, nil)
	assert.Empty(t, results)
	assert.Equal(t, 0, stats.TotalFiles)
}

func TestExtractFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fx := &fakeExtractor{delay: func(string) time.Duration { return time.Second }}
	results, stats := ExtractFiles(ctx, []string{"a.txt", "b.txt", "c.txt"}, fx, 1, nil, nil)

	require.Len(t, results, 3)
	for _, r := range results {
		assert.Error(t, r.Error)
	}
	assert.Equal(t, 3, stats.FailedFiles)
}

func TestDefaultWorkers(t *testing.T) {
	n := DefaultWorkers()
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, MaxWorkers)
}
