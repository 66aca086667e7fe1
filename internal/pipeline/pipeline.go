// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pipeline ingests one document into a case: extraction,
// classification, entity extraction, violation detection, legal analysis
// and the case-level rebuilds. Documents are processed one at a time and
// the caller owns persisting the case afterwards.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"caselens/internal/analysis"
	"caselens/internal/cases"
	"caselens/internal/classifier"
	"caselens/internal/detector"
	"caselens/internal/entities"
	"caselens/internal/extract"
	"caselens/internal/legal"
	"caselens/internal/observability"
	"caselens/internal/patterns"

	"github.com/rs/zerolog"
)

// ErrDuplicate is returned when a file's content is already part of the case.
var ErrDuplicate = errors.New("document already in case")

// TextExtractor turns a file into text
type TextExtractor interface {
	Extract(ctx context.Context, path string) (extract.Result, error)
}

// Config holds the collaborators used by a Pipeline. Nil fields get
// defaults: the pattern library, the stub analyzer and a no-op logger.
type Config struct {
	Extractor TextExtractor
	Analyzer  analysis.Analyzer
	Library   *patterns.Library
	Observer  *observability.StandardObserver
	Logger    *zerolog.Logger

	// AdvancedAnalysis enables the extra LLM violation pass per document.
	AdvancedAnalysis bool
	// Now overrides the clock used for upload and analysis stamps.
	Now func() time.Time
}

// Pipeline processes documents into cases
type Pipeline struct {
	extractor  TextExtractor
	analyzer   analysis.Analyzer
	detector   *detector.Detector
	classifier *classifier.Classifier
	entities   *entities.Extractor
	observer   *observability.StandardObserver
	logger     zerolog.Logger
	advanced   bool
	now        func() time.Time
}

// New builds a pipeline from cfg
func New(cfg Config) (*Pipeline, error) {
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("pipeline: extractor is required")
	}

	library := cfg.Library
	if library == nil {
		library = patterns.NewLibrary()
	}
	analyzer := cfg.Analyzer
	if analyzer == nil {
		analyzer = analysis.NewStub()
	}
	logger := observability.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	det := detector.New(library)
	if cfg.Observer != nil {
		det.SetObserver(cfg.Observer)
	}

	return &Pipeline{
		extractor:  cfg.Extractor,
		analyzer:   analyzer,
		detector:   det,
		classifier: classifier.New(),
		entities:   entities.NewExtractor(),
		observer:   cfg.Observer,
		logger:     logger.With().Str("component", "pipeline").Logger(),
		advanced:   cfg.AdvancedAnalysis,
		now:        now,
	}, nil
}

// Analyzer returns the analysis collaborator in use
func (p *Pipeline) Analyzer() analysis.Analyzer {
	return p.analyzer
}

// Process extracts path, analyses it and merges the result into c. The
// returned record is the one stored on the case. Collaborator failures are
// recorded on the record; only extraction errors and duplicates abort.
func (p *Pipeline) Process(ctx context.Context, c *cases.Case, path string) (*cases.DocumentRecord, error) {
	var finish func(bool, map[string]interface{})
	if p.observer != nil {
		finish = p.observer.StartTiming("pipeline", "process_document", path)
	}

	record, err := p.process(ctx, c, path)
	if finish != nil {
		meta := map[string]interface{}{}
		if record != nil {
			meta["document_type"] = record.DocumentType()
			meta["violations"] = len(record.Violations)
		}
		finish(err == nil, meta)
	}
	return record, err
}

func (p *Pipeline) process(ctx context.Context, c *cases.Case, path string) (*cases.DocumentRecord, error) {
	extracted, err := p.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	return p.Add(ctx, c, path, extracted)
}

// Add analyses content extracted from path elsewhere and merges it into c.
// Callers extracting in parallel must still call Add from one goroutine.
func (p *Pipeline) Add(ctx context.Context, c *cases.Case, path string, extracted extract.Result) (*cases.DocumentRecord, error) {
	if c.HasDocument(extracted.Hash) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrDuplicate)
	}
	for _, w := range extracted.Warnings {
		p.logger.Warn().Str("file", path).Msg(w)
	}

	record := p.Analyze(ctx, filepath.Base(path), extracted)

	cases.MergeDocument(c, record)
	cases.Refresh(c)

	p.logger.Info().
		Str("case_id", c.ID).
		Str("file", record.Filename).
		Str("document_type", record.DocumentType()).
		Str("method", record.ExtractionMethod).
		Int("violations", len(record.Violations)).
		Msg("document added to case")
	return record, nil
}

// Analyze builds the document record for already extracted content without
// touching any case.
func (p *Pipeline) Analyze(ctx context.Context, filename string, extracted extract.Result) *cases.DocumentRecord {
	text := extracted.Text

	classification := p.classifier.Classify(text)
	docType := classification.Type
	ents := p.entities.Extract(text)
	violations := p.detector.Detect(text, docType)

	p.debugMetric("document_type", docType)
	p.debugMetric("violations", len(violations))

	legalAnalysis := &cases.LegalAnalysis{
		PotentialViolations: legal.Indicators(text),
		Specialized:         legal.Specialize(text, docType),
		Procedural:          p.analyzer.AnalyzeProcedure(ctx, analysis.Truncate(text, analysis.ProcedureInputLimit), docType),
		Summary:             detector.Summarize(violations),
		AnalyzedAt:          p.now().UTC(),
	}
	if p.advanced {
		advanced := p.analyzer.AnalyzeViolations(ctx, analysis.Truncate(text, analysis.ViolationInputLimit))
		legalAnalysis.Advanced = &advanced
	}
	for _, r := range []*analysis.Result{&legalAnalysis.Procedural, legalAnalysis.Advanced} {
		if r != nil && r.Status == analysis.StatusFailed {
			p.logger.Warn().Str("file", filename).Str("provider", r.Provider).Msg(r.Error)
		}
	}

	record := &cases.DocumentRecord{
		Hash:             extracted.Hash,
		Filename:         filename,
		UploadDate:       p.now().UTC(),
		Text:             text,
		ExtractionMethod: extracted.Method,
		PageCount:        extracted.PageCount,
		Metadata:         extracted.Metadata,
		Classification:   classification,
		Entities:         ents,
		Violations:       violations,
		Analysis:         legalAnalysis,
	}
	return record
}

// SummarizeCase asks the analyzer for a case-level assessment
func (p *Pipeline) SummarizeCase(ctx context.Context, c *cases.Case) analysis.Result {
	return p.analyzer.SummarizeCase(ctx, Digest(c))
}

// Digest condenses a case for the case-level analysis prompt
func Digest(c *cases.Case) analysis.CaseDigest {
	seen := make(map[string]struct{})
	var types []string
	for _, v := range c.Violations {
		if _, ok := seen[v.Type]; ok {
			continue
		}
		seen[v.Type] = struct{}{}
		types = append(types, v.Type)
	}

	ents := make(map[string][]string, len(c.Entities))
	for kind := range c.Entities {
		ents[kind] = c.EntityValues(kind)
	}

	return analysis.CaseDigest{
		CaseName:        c.Name,
		ViolationTypes:  types,
		HighSeverity:    c.CountBySeverity()[patterns.SeverityHigh],
		TotalViolations: len(c.Violations),
		Entities:        ents,
	}
}

func (p *Pipeline) debugMetric(metric string, value interface{}) {
	if p.observer != nil && p.observer.DebugObserver != nil {
		p.observer.DebugObserver.LogMetric("pipeline", metric, value)
	}
}
