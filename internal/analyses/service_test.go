package analyses

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService() (*Service, *MemoryRepo, *fakeExtractor, *fakeAnalyzer) {
	repo := NewMemoryRepo()
	ext := &fakeExtractor{text: "Alice Smith\nBackend engineer"}
	an := &fakeAnalyzer{result: sampleResult()}
	return &Service{Repo: repo, Extractor: ext, Analyzer: an}, repo, ext, an
}

func TestAnalyzeUploadStoresOneRecord(t *testing.T) {
	svc, repo, _, _ := newTestService()

	rec, err := svc.AnalyzeUpload(context.Background(), pdfUpload())
	if err != nil {
		t.Fatalf("AnalyzeUpload: %v", err)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatalf("stored record must carry id and createdAt: %+v", rec)
	}
	if rec.OverallScore != rec.AIFeedback.Rating {
		t.Fatalf("overallScore %v != rating %v", rec.OverallScore, rec.AIFeedback.Rating)
	}
	if rec.FileName != "alice.pdf" {
		t.Fatalf("unexpected file name %q", rec.FileName)
	}
	all, _ := repo.List(context.Background())
	if len(all) != 1 || all[0].ID != rec.ID {
		t.Fatalf("expected exactly the new record, got %d", len(all))
	}
}

func TestAnalyzeUploadRejectsBeforeExtraction(t *testing.T) {
	tests := []struct {
		name string
		up   Upload
	}{
		{name: "missing", up: Upload{}},
		{name: "wrong type", up: Upload{FileName: "cv.docx", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Size: 10, Data: []byte("0123456789")}},
		{name: "no type", up: Upload{FileName: "cv.pdf", Size: 3, Data: []byte("pdf")}},
		{name: "too large", up: Upload{FileName: "big.pdf", ContentType: "application/pdf", Size: DefaultMaxUploadBytes + 1, Data: []byte("%PDF")}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, ext, an := newTestService()
			_, err := svc.AnalyzeUpload(context.Background(), tt.up)
			var clientErr *ClientInputError
			if !errors.As(err, &clientErr) {
				t.Fatalf("expected ClientInputError, got %v", err)
			}
			if ext.calls != 0 || an.calls != 0 {
				t.Fatalf("extractor/analyzer must not run, got %d/%d", ext.calls, an.calls)
			}
			if all, _ := repo.List(context.Background()); len(all) != 0 {
				t.Fatalf("no record should be stored")
			}
		})
	}
}

func TestAnalyzeUploadWhitespaceText(t *testing.T) {
	svc, repo, ext, an := newTestService()
	ext.text = " \n\t "

	_, err := svc.AnalyzeUpload(context.Background(), pdfUpload())
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if an.calls != 0 {
		t.Fatalf("analyzer must not run on empty text")
	}
	if all, _ := repo.List(context.Background()); len(all) != 0 {
		t.Fatalf("no record should be stored")
	}
}

func TestAnalyzeUploadExtractorFailure(t *testing.T) {
	svc, _, ext, _ := newTestService()
	ext.err = errors.New("bad xref")

	_, err := svc.AnalyzeUpload(context.Background(), pdfUpload())
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestAnalyzeUploadAnalyzerFailureStoresNothing(t *testing.T) {
	svc, repo, _, an := newTestService()
	an.err = &AnalyzerError{Kind: AnalyzerMalformedOutput, Err: errors.New("bad json")}

	_, err := svc.AnalyzeUpload(context.Background(), pdfUpload())
	var analyzerErr *AnalyzerError
	if !errors.As(err, &analyzerErr) || analyzerErr.Kind != AnalyzerMalformedOutput {
		t.Fatalf("expected malformed AnalyzerError, got %v", err)
	}
	if all, _ := repo.List(context.Background()); len(all) != 0 {
		t.Fatalf("no record should be stored")
	}
}

func TestAnalyzeUploadWrapsUntypedAnalyzerError(t *testing.T) {
	svc, _, _, an := newTestService()
	an.err = errors.New("connection reset")

	_, err := svc.AnalyzeUpload(context.Background(), pdfUpload())
	var analyzerErr *AnalyzerError
	if !errors.As(err, &analyzerErr) || analyzerErr.Kind != AnalyzerBackend {
		t.Fatalf("expected backend AnalyzerError, got %v", err)
	}
}

func TestAnalyzeUploadTimeout(t *testing.T) {
	svc, _, _, an := newTestService()
	an.wait = true
	svc.AnalyzerTimeout = 20 * time.Millisecond

	_, err := svc.AnalyzeUpload(context.Background(), pdfUpload())
	var analyzerErr *AnalyzerError
	if !errors.As(err, &analyzerErr) || analyzerErr.Kind != AnalyzerTimeout {
		t.Fatalf("expected timeout AnalyzerError, got %v", err)
	}
}

func TestAnalyzeUploadStoreFailureParksRecord(t *testing.T) {
	svc, _, _, _ := newTestService()
	outbox := &fakeOutbox{}
	svc.Repo = &failingRepo{MemoryRepo: NewMemoryRepo(), createErr: errDBDown}
	svc.Outbox = outbox

	_, err := svc.AnalyzeUpload(context.Background(), pdfUpload())
	var storeErr *StoreError
	if !errors.As(err, &storeErr) || !errors.Is(err, errDBDown) {
		t.Fatalf("expected StoreError wrapping cause, got %v", err)
	}
	if len(outbox.parked) != 1 {
		t.Fatalf("expected one parked record, got %d", len(outbox.parked))
	}
	if outbox.parked[0].OverallScore != 8.5 || outbox.parked[0].FileName != "alice.pdf" {
		t.Fatalf("unexpected parked record %+v", outbox.parked[0])
	}
}

func TestAnalyzeUploadOutboxFailureKeepsStoreError(t *testing.T) {
	svc, _, _, _ := newTestService()
	svc.Repo = &failingRepo{MemoryRepo: NewMemoryRepo(), createErr: errDBDown}
	svc.Outbox = &fakeOutbox{err: errors.New("bucket missing")}

	_, err := svc.AnalyzeUpload(context.Background(), pdfUpload())
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}

func TestGetUnknownID(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	svc, _, _, _ := newTestService()
	recs, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if recs == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestIsPDF(t *testing.T) {
	tests := map[string]bool{
		"application/pdf":              true,
		"application/pdf; name=cv.pdf": true,
		"APPLICATION/PDF":              true,
		"application/octet-stream":     false,
		"text/plain":                   false,
		"":                             false,
	}
	for in, want := range tests {
		if got := IsPDF(in); got != want {
			t.Fatalf("IsPDF(%q) = %v, want %v", in, got, want)
		}
	}
}
