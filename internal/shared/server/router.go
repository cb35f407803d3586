package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/apidoc"
	"resume-analyzer/internal/services/health"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
)

const (
	rateGroupUpload  = "UPLOAD"
	rateGroupDefault = "DEFAULT"
	uploadRoute      = "/api/analyze-resume"
)

// Deps are the handles the router serves.
type Deps struct {
	Config   config.Config
	Analyses *analyses.Service
	Health   *health.Service
	// Limiter is optional; tests inject one with a fixed clock.
	Limiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps Deps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	cfg := deps.Config

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		metrics.Middleware(),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: rateGroupDefault,
			GroupFor:     rateGroupFor,
			Limiter:      deps.Limiter,
			Rules: map[string]middleware.RateLimitRule{
				rateGroupUpload:  {Rate: cfg.UploadRatePerMinute / 60, Burst: 3},
				rateGroupDefault: {Rate: cfg.DefaultRatePerSecond, Burst: 40},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		body, ok := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, body)
	})
	api.GET("/openapi.yaml", apidoc.Handler())
	analyses.NewHandler(deps.Analyses).RegisterRoutes(api)

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Not found", nil)
	})

	return r
}

func rateGroupFor(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == uploadRoute {
		return rateGroupUpload
	}
	return rateGroupDefault
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
