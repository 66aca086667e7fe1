// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"time"

	"caselens/internal/observability"
)

// ProcessingStats summarises a batch
type ProcessingStats struct {
	TotalFiles     int           `json:"total_files"`
	ProcessedFiles int           `json:"processed_files"`
	FailedFiles    int           `json:"failed_files"`
	TotalDuration  time.Duration `json:"total_duration_ms"`
	WorkerCount    int           `json:"worker_count"`
	AvgFileTime    time.Duration `json:"avg_file_time_ms"`
}

// ProgressCallback is called when a file is completed
type ProgressCallback func(completed, total int, currentFile string)

// ExtractFiles extracts every path on a worker pool. Results come back in
// the order of paths, so merging them keeps the caller's document order.
func ExtractFiles(ctx context.Context, paths []string, extractor Extractor, workers int, observer *observability.StandardObserver, progress ProgressCallback) ([]*Result, *ProcessingStats) {
	ordered := make([]*Result, len(paths))
	stats := &ProcessingStats{TotalFiles: len(paths)}
	if len(paths) == 0 {
		return ordered, stats
	}

	start := time.Now()
	var finishTiming func(bool, map[string]interface{})
	if observer != nil {
		finishTiming = observer.StartTiming("parallel_processor", "extract_files", "batch")
	}

	if workers > len(paths) {
		workers = len(paths)
	}
	pool := NewWorkerPool(ctx, workers, extractor, observer)
	stats.WorkerCount = pool.Workers()
	pool.Start()

	go func() {
		defer pool.Stop()
		defer pool.Close()
		for i, path := range paths {
			if !pool.Submit(&Job{Index: i, FilePath: path}) {
				return
			}
		}
	}()

	var busy time.Duration

	done := 0
	for result := range pool.Results() {
		ordered[result.Index] = result
		busy += result.Duration
		if result.Error != nil {
			stats.FailedFiles++
			if observer != nil {
				observer.LogOperation(observability.StandardObservabilityData{
					Component: "parallel_processor",
					Operation: "extract_file",
					FilePath:  result.FilePath,
					Success:   false,
					Error:     result.Error.Error(),
				})
			}
		} else {
			stats.ProcessedFiles++
		}
		done++
		if progress != nil {
			progress(done, len(paths), result.FilePath)
		}
	}

	// Jobs never run because the context ended.
	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &Result{Index: i, FilePath: paths[i], Error: err}
			stats.FailedFiles++
		}
	}

	stats.TotalDuration = time.Since(start)
	stats.AvgFileTime = busy / time.Duration(max(stats.ProcessedFiles, 1))

	if finishTiming != nil {
		finishTiming(stats.FailedFiles == 0, map[string]interface{}{
			"total_files":     stats.TotalFiles,
			"processed_files": stats.ProcessedFiles,
			"failed_files":    stats.FailedFiles,
			"worker_count":    stats.WorkerCount,
			"duration_ms":     stats.TotalDuration.Milliseconds(),
		})
	}
	return ordered, stats
}
