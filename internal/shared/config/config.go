package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultGeminiModel = "gemini-2.5-pro"
	defaultOpenAIModel = "gpt-4o-mini"
)

// Config holds application configuration.
type Config struct {
	Env             string
	Port            string
	CORSAllowOrigin []string
	LogLevel        string

	DatabaseURL   string
	SQLitePath    string
	RunMigrations bool

	LLMProvider          string
	LLMModel             string
	GeminiAPIKey         string
	OpenAIAPIKey         string
	AnalyzerTimeout      time.Duration
	BreakerFailures      int
	BreakerCooldown      time.Duration
	MaxUploadBytes       int64
	UploadRatePerMinute  float64
	DefaultRatePerSecond float64

	OutboxStore   string
	LocalStoreDir string
	AWSRegion     string
	S3Bucket      string
	S3Prefix      string
	SSEKMSKeyID   string
}

// Load reads configuration from the environment, local .env files and an
// optional YAML file, in that order of precedence.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	file := loadFile(os.Getenv("CONFIG_FILE"))
	get := func(key, def string) string {
		if v, ok := file[key]; ok && v != "" {
			def = v
		}
		return getEnv(key, def)
	}

	provider := normalizeProvider(get("LLM_PROVIDER", "gemini"))
	model := get("LLM_MODEL", "")
	if model == "" {
		model = defaultModel(provider)
	}
	geminiKey := get("GEMINI_API_KEY", "")
	if geminiKey == "" {
		geminiKey = get("GOOGLE_AI_API_KEY", "")
	}

	return Config{
		Env:             normalizeEnv(get("ENV", "dev")),
		Port:            get("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(get("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		LogLevel:        get("LOG_LEVEL", "info"),

		DatabaseURL:   get("DATABASE_URL", ""),
		SQLitePath:    get("SQLITE_PATH", ""),
		RunMigrations: parseBool(get("RUN_MIGRATIONS", "true"), true),

		LLMProvider:          provider,
		LLMModel:             model,
		GeminiAPIKey:         geminiKey,
		OpenAIAPIKey:         get("OPENAI_API_KEY", ""),
		AnalyzerTimeout:      time.Duration(parseInt(get("ANALYZER_TIMEOUT_SECONDS", "120"), 120)) * time.Second,
		BreakerFailures:      parseInt(get("ANALYZER_BREAKER_FAILURES", "5"), 5),
		BreakerCooldown:      time.Duration(parseInt(get("ANALYZER_BREAKER_COOLDOWN_SECONDS", "30"), 30)) * time.Second,
		MaxUploadBytes:       int64(parseInt(get("MAX_UPLOAD_BYTES", "10485760"), 10<<20)),
		UploadRatePerMinute:  parseFloat(get("RATE_LIMIT_UPLOAD_PER_MIN", "10"), 10),
		DefaultRatePerSecond: parseFloat(get("RATE_LIMIT_DEFAULT_PER_SEC", "20"), 20),

		OutboxStore:   normalizeStoreType(get("OUTBOX_STORE", "none")),
		LocalStoreDir: get("LOCAL_STORE_DIR", "./data"),
		AWSRegion:     get("AWS_REGION", ""),
		S3Bucket:      get("S3_BUCKET", ""),
		S3Prefix:      get("S3_PREFIX", ""),
		SSEKMSKeyID:   get("SSE_KMS_KEY_ID", ""),
	}
}

// IsDevLike reports whether env tolerates in-memory fallbacks.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseInt(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func parseFloat(raw string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func parseBool(raw string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	default:
		return "gemini"
	}
}

func defaultModel(provider string) string {
	if provider == "openai" {
		return defaultOpenAIModel
	}
	return defaultGeminiModel
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "local":
		return "local"
	default:
		return "none"
	}
}
