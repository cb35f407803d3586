package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resume-analyzer/internal/analyses"
)

func TestUploadSendsMultipartPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/analyze-resume" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		file, header, err := r.FormFile("resume")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "%PDF-1.4" || header.Filename != "cv.pdf" || header.Header.Get("Content-Type") != "application/pdf" {
			t.Errorf("unexpected upload %q %q %q", data, header.Filename, header.Header.Get("Content-Type"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"a1","fileName":"cv.pdf","personalDetails":null,"resumeContent":null,"skills":{"technical":[],"soft":[]},"aiFeedback":{"rating":7,"improvementAreas":[],"suggestedSkills":[],"summary":"ok"},"overallScore":7,"createdAt":"2026-05-01T10:00:00Z"}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", srv.Client())
	rec, err := c.Upload(context.Background(), "/tmp/cv.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.ID != "a1" || rec.OverallScore != 7 {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestUploadDeclaresSniffedType(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "pdf", content: "%PDF-1.7\n" + strings.Repeat("x", 1024), want: "application/pdf"},
		{name: "text", content: "plain notes", want: "text/plain; charset=utf-8"},
		{name: "png", content: "\x89PNG\r\n\x1a\n", want: "image/png"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var gotType string
			var gotLen int
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				file, header, err := r.FormFile("resume")
				if err != nil {
					t.Errorf("FormFile: %v", err)
					return
				}
				defer file.Close()
				data, _ := io.ReadAll(file)
				gotType, gotLen = header.Header.Get("Content-Type"), len(data)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"message":"Only PDF files are allowed","code":"invalid_upload"}`))
			}))
			defer srv.Close()

			_, err := New(srv.URL, srv.Client()).Upload(context.Background(), "resume.pdf", strings.NewReader(tt.content))
			if !IsClientError(err) {
				t.Fatalf("expected client error, got %v", err)
			}
			if gotType != tt.want {
				t.Fatalf("Content-Type = %q, want %q", gotType, tt.want)
			}
			if gotLen != len(tt.content) {
				t.Fatalf("sent %d bytes, want %d", gotLen, len(tt.content))
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Resume analysis not found","code":"not_found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).Get(context.Background(), "missing")
	if !errors.Is(err, analyses.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Resume analysis not found" || apiErr.Code != "not_found" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if !IsClientError(err) {
		t.Fatalf("404 should be a client error")
	}
}

func TestListDecodesArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/resume-analyses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	recs, err := New(srv.URL, srv.Client()).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Fatalf("expected empty slice, got %#v", recs)
	}
}

func TestServerErrorUsesPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).List(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway || apiErr.Message != "upstream down" {
		t.Fatalf("unexpected error %v", err)
	}
	if IsClientError(err) {
		t.Fatalf("502 is not a client error")
	}
}
