// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package parallel extracts document text on a pool of workers. Only
// extraction runs concurrently; results are handed back for a single
// goroutine to merge into a case.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"time"

	"caselens/internal/extract"
	"caselens/internal/observability"
)

// MaxWorkers caps the pool size chosen by DefaultWorkers
const MaxWorkers = 8

// jobTimeout bounds a single extraction, OCR included.
const jobTimeout = 5 * time.Minute

// Extractor turns a file into text
type Extractor interface {
	Extract(ctx context.Context, path string) (extract.Result, error)
}

// Job is one file to extract
type Job struct {
	Index    int
	FilePath string
}

// Result is the outcome of one Job
type Result struct {
	Index     int
	FilePath  string
	Extracted extract.Result
	Error     error
	Duration  time.Duration
}

// WorkerPool runs extraction jobs on a fixed number of goroutines.
type WorkerPool struct {
	workers   int
	extractor Extractor
	jobs      chan *Job
	results   chan *Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	observer  *observability.StandardObserver
}

// DefaultWorkers returns the number of CPUs, capped at MaxWorkers.
func DefaultWorkers() int {
	workers := runtime.NumCPU()
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return workers
}

// NewWorkerPool creates a pool bound to ctx. A non-positive worker count
// selects DefaultWorkers.
func NewWorkerPool(ctx context.Context, workers int, extractor Extractor, observer *observability.StandardObserver) *WorkerPool {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		workers:   workers,
		extractor: extractor,
		jobs:      make(chan *Job, workers*2),
		results:   make(chan *Result, workers*2),
		ctx:       ctx,
		cancel:    cancel,
		observer:  observer,
	}
}

// Workers returns the pool size
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Start launches the worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Close tells the workers no more jobs will be submitted.
func (wp *WorkerPool) Close() {
	close(wp.jobs)
}

// Stop waits for the workers to drain and closes the results channel.
// Close must have been called first; results must keep being read until
// the channel closes.
func (wp *WorkerPool) Stop() {
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()
}

// Submit queues a job. It gives up when the pool's context ends.
func (wp *WorkerPool) Submit(job *Job) bool {
	select {
	case wp.jobs <- job:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Results returns the results channel
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		result := wp.processJob(job, id)

		select {
		case wp.results <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(job *Job, workerID int) *Result {
	start := time.Now()

	var finishTiming func(bool, map[string]interface{})
	if wp.observer != nil {
		finishTiming = wp.observer.StartTiming("worker_pool", "extract_file", job.FilePath)
	}

	jobCtx, cancel := context.WithTimeout(wp.ctx, jobTimeout)
	defer cancel()

	extracted, err := wp.extractor.Extract(jobCtx, job.FilePath)
	duration := time.Since(start)

	if finishTiming != nil {
		finishTiming(err == nil, map[string]interface{}{
			"worker_id":   workerID,
			"method":      extracted.Method,
			"page_count":  extracted.PageCount,
			"duration_ms": duration.Milliseconds(),
		})
	}

	return &Result{
		Index:     job.Index,
		FilePath:  job.FilePath,
		Extracted: extracted,
		Error:     err,
		Duration:  duration,
	}
}
