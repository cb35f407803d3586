package analyses

import (
	"context"
	"errors"
	"sync"
)

const sampleResultJSON = `{
  "personalDetails": {"name": "Alice Smith", "email": "alice@example.com", "linkedIn": null},
  "resumeContent": {
    "summary": "Backend engineer",
    "workExperience": [
      {"title": "Engineer", "company": "Acme", "duration": "2020-2024", "description": "Built APIs"},
      {"title": "Intern", "company": "Initech", "duration": "2019", "description": "Wrote tests"}
    ],
    "education": [{"degree": "BSc", "institution": "State U", "duration": "2015-2019"}],
    "projects": [{"name": "radar", "description": "job board", "technologies": ["Go", "SQLite"]}],
    "certifications": []
  },
  "skills": {"technical": ["Go", "Postgres"], "soft": ["Communication"]},
  "aiFeedback": {
    "rating": 8.5,
    "improvementAreas": ["Quantify impact"],
    "suggestedSkills": ["Kubernetes"],
    "summary": "Solid backend profile."
  }
}`

func sampleResult() Result {
	res, err := DecodeResult([]byte(sampleResultJSON))
	if err != nil {
		panic(err)
	}
	return res
}

func strPtr(s string) *string { return &s }

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeAnalyzer struct {
	result Result
	err    error
	calls  int
	// wait blocks Analyze until the context is done.
	wait bool
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (Result, error) {
	f.calls++
	if f.wait {
		<-ctx.Done()
		return Result{}, ctx.Err()
	}
	return f.result, f.err
}

type failingRepo struct {
	*MemoryRepo
	createErr error
}

func (r *failingRepo) Create(ctx context.Context, rec Record) (Record, error) {
	if r.createErr != nil {
		return Record{}, r.createErr
	}
	return r.MemoryRepo.Create(ctx, rec)
}

type fakeOutbox struct {
	mu     sync.Mutex
	parked []Record
	err    error
}

func (o *fakeOutbox) Park(ctx context.Context, rec Record) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return "", o.err
	}
	o.parked = append(o.parked, rec)
	return "outbox/test.json", nil
}

var errDBDown = errors.New("db down")

func pdfUpload() Upload {
	data := []byte("%PDF-1.4 fake")
	return Upload{FileName: "alice.pdf", ContentType: "application/pdf", Size: int64(len(data)), Data: data}
}

func (r *MemoryRepo) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
