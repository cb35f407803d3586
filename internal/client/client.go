// Package client is a typed HTTP client for the résumé analysis API.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"resume-analyzer/internal/analyses"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// sniffLen is how much of an upload http.DetectContentType considers.
const sniffLen = 512

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Is lets errors.Is match a 404 against analyses.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == analyses.ErrNotFound && e.Status == http.StatusNotFound
}

// Client calls the analysis endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client. A nil httpClient uses one with a timeout long
// enough for a full analysis.
func New(baseURL string, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 3 * time.Minute}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// Upload sends a file for analysis and returns the stored record. The part's
// Content-Type is sniffed from the content, so the server rejects non-PDF
// files as such.
func (c *Client) Upload(ctx context.Context, fileName string, r io.Reader) (analyses.Record, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return analyses.Record{}, fmt.Errorf("read %s: %w", fileName, err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, filepath.Base(fileName)))
	h.Set("Content-Type", http.DetectContentType(head))
	part, err := mw.CreatePart(h)
	if err != nil {
		return analyses.Record{}, fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, br); err != nil {
		return analyses.Record{}, fmt.Errorf("read %s: %w", fileName, err)
	}
	if err := mw.Close(); err != nil {
		return analyses.Record{}, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze-resume", &body)
	if err != nil {
		return analyses.Record{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var rec analyses.Record
	if err := c.do(req, &rec); err != nil {
		return analyses.Record{}, err
	}
	return rec, nil
}

// List returns every stored analysis, newest first.
func (c *Client) List(ctx context.Context) ([]analyses.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/resume-analyses", nil)
	if err != nil {
		return nil, err
	}
	var recs []analyses.Record
	if err := c.do(req, &recs); err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []analyses.Record{}
	}
	return recs, nil
}

// Get returns one analysis. A missing ID matches analyses.ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (analyses.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/resume-analyses/"+url.PathEscape(id), nil)
	if err != nil {
		return analyses.Record{}, err
	}
	var rec analyses.Record
	if err := c.do(req, &rec); err != nil {
		return analyses.Record{}, err
	}
	return rec, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		if json.Unmarshal(data, &body) == nil && body.Message != "" {
			apiErr.Message = body.Message
			apiErr.Code = body.Code
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// IsClientError reports whether err is a 4xx API error.
func IsClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}
