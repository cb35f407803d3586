package respond

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/telemetry"
)

func TestErrorWritesMessageBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	telemetry.SetOutput(&logs)
	t.Cleanup(func() { telemetry.SetOutput(nil) })

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusNotFound, "not_found", "Resume analysis not found", nil)
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "Resume analysis not found" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if _, ok := body["details"]; ok {
		t.Fatalf("details should be omitted when nil")
	}
	if !bytes.Contains(logs.Bytes(), []byte(`"msg":"http.error"`)) {
		t.Fatalf("expected http.error log line, got %q", logs.String())
	}
}

func TestListWritesEmptyArrayForNil(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/items", func(c *gin.Context) {
		var items []string
		List(c, http.StatusOK, items)
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/items", nil))

	if got := resp.Body.String(); got != "[]" {
		t.Fatalf("expected [], got %q", got)
	}
}

func TestErrorLogsContextIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	telemetry.SetOutput(&logs)
	t.Cleanup(func() { telemetry.SetOutput(nil) })

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set(RequestIDKey, "req-1")
		c.Set(AnalysisIDKey, "an-1")
		Error(c, http.StatusInternalServerError, "store_error", "Failed to save resume analysis", nil)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	for _, want := range []string{`"request_id":"req-1"`, `"analysis_id":"an-1"`} {
		if !bytes.Contains(logs.Bytes(), []byte(want)) {
			t.Fatalf("expected %s in %q", want, logs.String())
		}
	}
}
