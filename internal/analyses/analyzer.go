package analyses

import (
	"context"
	"errors"

	"resume-analyzer/internal/llm"
)

// Extractor converts raw PDF bytes into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Analyzer turns résumé text into a structured result. Every failure is
// returned as an *AnalyzerError.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (Result, error)
}

// LLMAnalyzer adapts an llm.Client to Analyzer.
type LLMAnalyzer struct {
	Client llm.Client
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, text string) (Result, error) {
	raw, err := a.Client.AnalyzeResume(ctx, llm.AnalyzeInput{ResumeText: text})
	if err != nil {
		return Result{}, classifyLLMError(ctx, err)
	}
	return DecodeResult(raw)
}

func classifyLLMError(ctx context.Context, err error) *AnalyzerError {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &AnalyzerError{Kind: AnalyzerTimeout, Err: err}
	case errors.Is(err, llm.ErrUnavailable):
		return &AnalyzerError{Kind: AnalyzerUnavailable, Err: err}
	case errors.Is(err, llm.ErrEmptyResponse):
		return &AnalyzerError{Kind: AnalyzerEmptyOutput, Err: err}
	default:
		return &AnalyzerError{Kind: AnalyzerBackend, Err: err}
	}
}
