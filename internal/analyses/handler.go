package analyses

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/server/respond"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group. upload wraps
// only the upload route, for per-route limits.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, upload ...gin.HandlerFunc) {
	rg.POST("/analyze-resume", append(upload, h.analyzeResume)...)
	rg.GET("/resume-analyses", h.listAnalyses)
	rg.GET("/resume-analyses/:id", h.getAnalysis)
}

func (h *Handler) analyzeResume(c *gin.Context) {
	limit := h.Svc.maxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respond.Error(c, http.StatusBadRequest, "file_too_large", "File exceeds the maximum upload size", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "no_file", "No file uploaded", nil)
		}
		return
	}

	up := Upload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	}
	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "no_file", "No file uploaded", nil)
		return
	}
	defer f.Close()
	up.Data, err = io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "no_file", "Failed to read uploaded file", nil)
		return
	}

	rec, err := h.Svc.AnalyzeUpload(c.Request.Context(), up)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(respond.AnalysisIDKey, rec.ID)
	respond.JSON(c, http.StatusOK, rec)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	recs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "store_error", "Failed to fetch resume analyses", nil)
		return
	}
	respond.List(c, http.StatusOK, recs)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	id := c.Param("id")
	c.Set(respond.AnalysisIDKey, id)
	rec, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Resume analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "store_error", "Failed to fetch resume analysis", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, rec)
}

// writeError maps pipeline errors onto status codes.
func writeError(c *gin.Context, err error) {
	var (
		clientErr   *ClientInputError
		extractErr  *ExtractionError
		analyzerErr *AnalyzerError
		storeErr    *StoreError
	)
	switch {
	case errors.As(err, &clientErr):
		respond.Error(c, http.StatusBadRequest, "invalid_upload", clientErr.Reason, nil)
	case errors.As(err, &extractErr):
		respond.Error(c, http.StatusBadRequest, "extraction_failed", "Could not extract text from PDF", nil)
	case errors.As(err, &analyzerErr):
		respond.Error(c, http.StatusInternalServerError, "analysis_failed", analyzerMessage(analyzerErr.Kind), nil)
	case errors.As(err, &storeErr):
		respond.Error(c, http.StatusInternalServerError, "store_error", "Failed to save resume analysis", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to analyze resume", nil)
	}
}

func analyzerMessage(kind AnalyzerErrorKind) string {
	switch kind {
	case AnalyzerTimeout:
		return "Resume analysis timed out"
	case AnalyzerUnavailable:
		return "Resume analysis is temporarily unavailable"
	case AnalyzerEmptyOutput:
		return "Failed to analyze resume: empty response from model"
	case AnalyzerMalformedOutput, AnalyzerSchemaViolation:
		return "Failed to analyze resume: invalid response from model"
	default:
		return "Failed to analyze resume"
	}
}
