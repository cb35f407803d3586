package analyses

import (
	"context"
	"errors"
	"mime"
	"strings"
	"time"

	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/telemetry"
)

// DefaultMaxUploadBytes is the upload size cap used when none is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// Upload is one file received by the upload endpoint.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

// Service runs the extract, analyze, store pipeline.
type Service struct {
	Repo      Repo
	Extractor Extractor
	Analyzer  Analyzer
	// Outbox is optional; when set it receives records the Repo rejected.
	Outbox          Outbox
	MaxUploadBytes  int64
	AnalyzerTimeout time.Duration
}

// AnalyzeUpload validates the upload, extracts its text, analyzes it and
// stores the resulting record. Nothing is stored unless every step succeeds.
func (s *Service) AnalyzeUpload(ctx context.Context, up Upload) (Record, error) {
	start := time.Now()
	if err := s.validate(up); err != nil {
		metrics.IncAnalysis(metrics.OutcomeClientError)
		return Record{}, err
	}

	stageStart := time.Now()
	text, err := s.Extractor.Extract(ctx, up.Data)
	metrics.ObserveStage("extract", time.Since(stageStart))
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("no text found")
	}
	if err != nil {
		s.fail("extract", metrics.OutcomeExtractionError, err)
		var extractErr *ExtractionError
		if errors.As(err, &extractErr) {
			return Record{}, extractErr
		}
		return Record{}, &ExtractionError{Err: err}
	}
	telemetry.Info("analysis.extracted", map[string]any{"chars": len(text), "file_size": up.Size})

	stageStart = time.Now()
	result, err := s.analyze(ctx, text)
	metrics.ObserveStage("analyze", time.Since(stageStart))
	if err != nil {
		s.fail("analyze", metrics.OutcomeAnalyzerError, err)
		return Record{}, err
	}

	rec := NewRecord(up.FileName, result)
	stageStart = time.Now()
	stored, err := s.Repo.Create(ctx, rec)
	metrics.ObserveStage("store", time.Since(stageStart))
	if err != nil {
		s.fail("store", metrics.OutcomeStoreError, err)
		s.park(ctx, rec)
		return Record{}, &StoreError{Op: "create", Err: err}
	}

	metrics.IncAnalysis(metrics.OutcomeSuccess)
	metrics.ObserveScore(stored.OverallScore)
	telemetry.Info("analysis.completed", map[string]any{
		"analysis_id": stored.ID,
		"score":       stored.OverallScore,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return stored, nil
}

// List returns all stored analyses, newest first. The result is never nil.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	recs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

// Get returns one analysis or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	rec, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, &StoreError{Op: "get", Err: err}
	}
	return rec, nil
}

func (s *Service) validate(up Upload) error {
	if len(up.Data) == 0 && up.Size == 0 {
		return &ClientInputError{Reason: "No file uploaded"}
	}
	if !IsPDF(up.ContentType) {
		return &ClientInputError{Reason: "Only PDF files are allowed"}
	}
	limit := s.maxUploadBytes()
	if up.Size > limit || int64(len(up.Data)) > limit {
		return &ClientInputError{Reason: "File exceeds the maximum upload size"}
	}
	return nil
}

func (s *Service) maxUploadBytes() int64 {
	if s.MaxUploadBytes > 0 {
		return s.MaxUploadBytes
	}
	return DefaultMaxUploadBytes
}

func (s *Service) analyze(ctx context.Context, text string) (Result, error) {
	if s.AnalyzerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.AnalyzerTimeout)
		defer cancel()
	}
	result, err := s.Analyzer.Analyze(ctx, text)
	if err == nil {
		return result, nil
	}
	var analyzerErr *AnalyzerError
	if errors.As(err, &analyzerErr) {
		return Result{}, analyzerErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Result{}, &AnalyzerError{Kind: AnalyzerTimeout, Err: err}
	}
	return Result{}, &AnalyzerError{Kind: AnalyzerBackend, Err: err}
}

func (s *Service) park(ctx context.Context, rec Record) {
	if s.Outbox == nil {
		return
	}
	// The request context may already be done; parking should still happen.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	key, err := s.Outbox.Park(ctx, rec)
	if err != nil {
		telemetry.Error("outbox.park_failed", map[string]any{"error": err})
		return
	}
	telemetry.Warn("outbox.parked", map[string]any{"key": key})
}

func (s *Service) fail(stage, outcome string, err error) {
	metrics.IncAnalysis(outcome)
	fields := map[string]any{"stage": stage, "error": err}
	var analyzerErr *AnalyzerError
	if errors.As(err, &analyzerErr) {
		fields["kind"] = string(analyzerErr.Kind)
	}
	telemetry.Error("analysis.failed", fields)
}

// IsPDF reports whether a declared media type names a PDF document.
func IsPDF(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/pdf"
}
