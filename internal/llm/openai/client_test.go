package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resume-analyzer/internal/llm"
)

func withServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	prev := apiURL
	apiURL = srv.URL
	t.Cleanup(func() {
		apiURL = prev
		srv.Close()
	})
}

func TestIsGPT5(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  bool
	}{
		{name: "gpt5", model: "gpt-5", want: true},
		{name: "gpt5 variant", model: "gpt-5-mini", want: true},
		{name: "gpt5 uppercase", model: " GPT-5o ", want: true},
		{name: "gpt4", model: "gpt-4o", want: false},
		{name: "empty", model: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := isGPT5(tt.model); got != tt.want {
				t.Fatalf("isGPT5(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini", 0); err == nil {
		t.Fatalf("expected error for missing key")
	}
	if _, err := NewClient("key", " ", 0); err == nil {
		t.Fatalf("expected error for missing model")
	}
}

func TestAnalyzeResumeSendsJSONModeRequest(t *testing.T) {
	var got chatRequest
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","model":"gpt-4o-mini","choices":[{"message":{"role":"assistant","content":" {\"skills\":{}} "}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	})

	client, err := NewClient("test-key", "gpt-4o-mini", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	raw, err := client.AnalyzeResume(context.Background(), llm.AnalyzeInput{ResumeText: "Jane Doe, Go developer"})
	if err != nil {
		t.Fatalf("AnalyzeResume: %v", err)
	}
	if string(raw) != `{"skills":{}}` {
		t.Fatalf("unexpected raw %s", raw)
	}
	if got.ResponseFormat.Type != "json_object" {
		t.Fatalf("expected json_object response format, got %q", got.ResponseFormat.Type)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if !strings.Contains(got.Messages[1].Content, "Jane Doe, Go developer") {
		t.Fatalf("user message missing resume text")
	}
	if got.Temperature == nil || *got.Temperature != 0 {
		t.Fatalf("expected temperature 0 for gpt-4o-mini")
	}
}

func TestAnalyzeResumeEmptyContent(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"   "}}]}`))
	})

	client, _ := NewClient("test-key", "gpt-5-mini", time.Second)
	_, err := client.AnalyzeResume(context.Background(), llm.AnalyzeInput{ResumeText: "x"})
	if !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestAnalyzeResumeProviderError(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	client, _ := NewClient("test-key", "gpt-4o-mini", time.Second)
	_, err := client.AnalyzeResume(context.Background(), llm.AnalyzeInput{ResumeText: "x"})
	if err == nil || !strings.Contains(err.Error(), "bad key") {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestAnalyzeResumeHonorsContextDeadline(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	client, _ := NewClient("test-key", "gpt-4o-mini", 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.AnalyzeResume(ctx, llm.AnalyzeInput{ResumeText: "x"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
