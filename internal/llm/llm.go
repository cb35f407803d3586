package llm

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for resume analysis. Implementations
// return the model's raw JSON text without interpreting it.
type Client interface {
	AnalyzeResume(ctx context.Context, input AnalyzeInput) (json.RawMessage, error)
}

// AnalyzeInput captures the inputs needed for resume analysis.
type AnalyzeInput struct {
	ResumeText string
}

var (
	// ErrEmptyResponse is returned when the provider answered without content.
	ErrEmptyResponse = errors.New("llm response empty content")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("llm backend unavailable")
)

//go:embed prompts/resume_analysis.txt
var systemPrompt string

// SystemPrompt returns the instruction sent ahead of the resume text.
func SystemPrompt() string {
	return systemPrompt
}
