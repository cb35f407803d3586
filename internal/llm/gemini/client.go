package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/shared/telemetry"
)

// Options configures a Gemini client. BaseURL and HTTPClient are for tests
// and proxies; leave empty in production.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Client implements llm.Client using the Gemini API with a constrained
// JSON response schema.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs a Gemini client. A missing key is a configuration error.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, model: opts.Model}, nil
}

func (c *Client) AnalyzeResume(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.SystemPrompt(), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    ResponseSchema(),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(input.ResumeText), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("gemini: %w", llm.ErrEmptyResponse)
	}
	fields := map[string]any{"provider": "gemini", "model": c.model}
	if resp.UsageMetadata != nil {
		fields["prompt_tokens"] = resp.UsageMetadata.PromptTokenCount
		fields["completion_tokens"] = resp.UsageMetadata.CandidatesTokenCount
		fields["total_tokens"] = resp.UsageMetadata.TotalTokenCount
	}
	telemetry.Info("llm.response", fields)

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("gemini: %w", llm.ErrEmptyResponse)
	}
	return json.RawMessage(text), nil
}

var _ llm.Client = (*Client)(nil)
