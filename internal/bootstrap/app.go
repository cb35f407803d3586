package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/llm/gemini"
	"resume-analyzer/internal/llm/openai"
	"resume-analyzer/internal/services/health"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/server"
	"resume-analyzer/internal/shared/storage/db"
	"resume-analyzer/internal/shared/storage/object"
	localstore "resume-analyzer/internal/shared/storage/object/local"
	s3store "resume-analyzer/internal/shared/storage/object/s3"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	AnalysesRepo    analyses.Repo
	AnalysesService *analyses.Service
	Outbox          *analyses.ObjectOutbox
	UsersService    *users.Service

	closers []func() error
}

// Build prepares every dependency and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.SetLevel(cfg.LogLevel)

	app := &App{Config: cfg}
	repos, err := BuildRepos(ctx, cfg, cfg.RunMigrations)
	if err != nil {
		return nil, err
	}
	app.DB = repos.DB
	app.AnalysesRepo = repos.Analyses
	app.closers = append(app.closers, repos.Close)
	app.UsersService = users.NewService(repos.Users)

	analyzer, err := BuildAnalyzer(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Outbox, err = BuildOutbox(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.AnalysesService = &analyses.Service{
		Repo:            app.AnalysesRepo,
		Extractor:       extract.New(),
		Analyzer:        analyzer,
		MaxUploadBytes:  cfg.MaxUploadBytes,
		AnalyzerTimeout: cfg.AnalyzerTimeout,
	}
	// A nil *ObjectOutbox must not become a non-nil interface.
	if app.Outbox != nil {
		app.AnalysesService.Outbox = app.Outbox
	}

	app.Router = server.NewRouter(server.Deps{
		Config:   cfg,
		Analyses: app.AnalysesService,
		Health:   healthService(app.DB),
	})
	return app, nil
}

func healthService(sqlDB *sql.DB) *health.Service {
	if sqlDB == nil {
		return health.NewService(nil)
	}
	return health.NewService(sqlDB)
}

// Close releases database handles.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Repos are the stores selected for a configuration. Durable is false
// for the in-memory fallback, whose records vanish with the process.
type Repos struct {
	DB       *sql.DB
	Analyses analyses.Repo
	Users    users.Repo
	Durable  bool
	Close    func() error
}

// BuildRepos picks Postgres when DATABASE_URL is set, SQLite when
// SQLITE_PATH is set, and in-memory stores in dev-like environments.
func BuildRepos(ctx context.Context, cfg config.Config, migrate bool) (Repos, error) {
	noop := func() error { return nil }
	switch {
	case strings.TrimSpace(cfg.DatabaseURL) != "":
		sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return Repos{}, err
		}
		if migrate {
			if err := db.RunMigrations(ctx, sqlDB); err != nil {
				if !db.IsLambdaRuntime() {
					_ = sqlDB.Close()
				}
				return Repos{}, fmt.Errorf("run migrations: %w", err)
			}
		}
		closeDB := sqlDB.Close
		if db.IsLambdaRuntime() {
			// The singleton outlives a single invocation.
			closeDB = noop
		}
		telemetry.Info("bootstrap.store", map[string]any{"store": "postgres"})
		return Repos{
			DB:       sqlDB,
			Analyses: &analyses.PGRepo{DB: sqlDB},
			Users:    &users.PGRepo{DB: sqlDB},
			Durable:  true,
			Close:    closeDB,
		}, nil
	case strings.TrimSpace(cfg.SQLitePath) != "":
		repo, err := analyses.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return Repos{}, err
		}
		telemetry.Info("bootstrap.store", map[string]any{"store": "sqlite", "path": cfg.SQLitePath})
		return Repos{
			Analyses: repo,
			Users:    users.NewMemoryRepo(),
			Durable:  true,
			Close:    repo.Close,
		}, nil
	case cfg.IsDevLike():
		telemetry.Warn("bootstrap.store", map[string]any{
			"store":  "memory",
			"reason": "DATABASE_URL and SQLITE_PATH empty",
		})
		return Repos{
			Analyses: analyses.NewMemoryRepo(),
			Users:    users.NewMemoryRepo(),
			Close:    noop,
		}, nil
	default:
		return Repos{}, fmt.Errorf("DATABASE_URL or SQLITE_PATH is required when ENV=%s", cfg.Env)
	}
}

// BuildAnalyzer constructs the configured LLM backend behind a circuit
// breaker. A missing credential is a startup error.
func BuildAnalyzer(ctx context.Context, cfg config.Config) (analyses.Analyzer, error) {
	var (
		client llm.Client
		err    error
	)
	switch cfg.LLMProvider {
	case "openai":
		client, err = openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.AnalyzerTimeout)
	default:
		client, err = gemini.NewClient(ctx, gemini.Options{APIKey: cfg.GeminiAPIKey, Model: cfg.LLMModel})
	}
	if err != nil {
		return nil, fmt.Errorf("llm provider %s: %w", cfg.LLMProvider, err)
	}
	breaker := llm.NewBreakerClient(client, llm.BreakerSettings{
		Name:             cfg.LLMProvider,
		FailureThreshold: cfg.BreakerFailures,
		Cooldown:         cfg.BreakerCooldown,
	})
	telemetry.Info("bootstrap.analyzer", map[string]any{"provider": cfg.LLMProvider, "model": cfg.LLMModel})
	return &analyses.LLMAnalyzer{Client: breaker}, nil
}

// BuildOutbox returns nil when OUTBOX_STORE is none.
func BuildOutbox(ctx context.Context, cfg config.Config) (*analyses.ObjectOutbox, error) {
	var store object.ObjectStore
	switch cfg.OutboxStore {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("OUTBOX_STORE=s3 requires S3_BUCKET")
		}
		s3, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, err
		}
		store = s3
	case "local":
		store = localstore.New(cfg.LocalStoreDir)
	default:
		return nil, nil
	}
	telemetry.Info("bootstrap.outbox", map[string]any{"store": cfg.OutboxStore})
	return analyses.NewObjectOutbox(store), nil
}
