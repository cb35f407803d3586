package respond

import (
	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/telemetry"
)

// ErrorBody is the error payload returned by every endpoint. Message is
// always present; Code is a stable machine-readable tag.
type ErrorBody struct {
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Error logs and sends an error response, aborting the handler chain.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString(RequestIDKey),
	}
	if analysisID := c.GetString(AnalysisIDKey); analysisID != "" {
		fields["analysis_id"] = analysisID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorBody{
		Message: message,
		Code:    code,
		Details: details,
	})
}
