package analyses

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"resume-analyzer/internal/apidoc"
)

// DecodeResult parses raw analyzer output. It never fills in missing
// required fields: empty output, invalid JSON and schema violations are
// each reported as an *AnalyzerError of the matching kind.
func DecodeResult(raw []byte) (Result, error) {
	body := stripCodeFence(bytes.TrimSpace(raw))
	if len(body) == 0 {
		return Result{}, &AnalyzerError{Kind: AnalyzerEmptyOutput, Err: errors.New("model returned no content")}
	}

	var generic any
	if err := json.Unmarshal(body, &generic); err != nil {
		return Result{}, &AnalyzerError{Kind: AnalyzerMalformedOutput, Err: err}
	}
	if _, ok := generic.(map[string]any); !ok {
		return Result{}, &AnalyzerError{Kind: AnalyzerMalformedOutput, Err: errors.New("top-level value is not an object")}
	}

	schema, err := apidoc.Schema("AnalysisResult")
	if err != nil {
		return Result{}, &AnalyzerError{Kind: AnalyzerSchemaViolation, Err: err}
	}
	if err := schema.VisitJSON(generic, openapi3.MultiErrors()); err != nil {
		return Result{}, &AnalyzerError{Kind: AnalyzerSchemaViolation, Err: err}
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return Result{}, &AnalyzerError{Kind: AnalyzerMalformedOutput, Err: fmt.Errorf("decode result: %w", err)}
	}
	return res.normalized(), nil
}

// stripCodeFence removes a surrounding markdown fence such as ```json ... ```.
func stripCodeFence(b []byte) []byte {
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = b[3:]
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	} else {
		return nil
	}
	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}
