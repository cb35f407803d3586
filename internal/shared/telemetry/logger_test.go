package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	Info("analysis.completed", map[string]any{"analysis_id": "a-1", "score": 8.5})

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode log line: %v (%q)", err, buf.String())
	}
	if payload["msg"] != "analysis.completed" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts field")
	}
	if payload["analysis_id"] != "a-1" {
		t.Fatalf("unexpected analysis_id: %v", payload["analysis_id"])
	}
}

func TestErrorFieldsAreStringified(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	Error("analysis.failed", map[string]any{"error": errors.New("boom")})

	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Fatalf("expected stringified error, got %q", buf.String())
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("info")
	t.Cleanup(func() {
		SetOutput(nil)
		SetLevel("info")
	})

	Debug("noise", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	SetLevel("debug")
	Debug("noise", nil)
	if !strings.Contains(buf.String(), `"level":"debug"`) {
		t.Fatalf("expected debug line, got %q", buf.String())
	}
}
