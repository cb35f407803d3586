package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned when the payload does not start with a PDF header.
var ErrNotPDF = errors.New("payload is not a PDF document")

// PDFExtractor pulls plain text out of PDF documents.
// Library used: github.com/ledongthuc/pdf.
type PDFExtractor struct{}

// New returns a PDFExtractor.
func New() PDFExtractor {
	return PDFExtractor{}
}

// Extract returns the plain text of every page. Whitespace-only output is
// returned as-is; callers decide whether it is usable.
func (PDFExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !LooksLikePDF(data) {
		return "", ErrNotPDF
	}
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf strings.Builder
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// LooksLikePDF reports whether data carries the %PDF- magic within the
// first kilobyte, where readers tolerate leading junk.
func LooksLikePDF(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, []byte("%PDF-"))
}
