// Command migrate applies the embedded goose migrations to DATABASE_URL:
//
//	go run ./cmd/migrate
package main

import (
	"context"
	"os"

	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/storage/db"
	"resume-analyzer/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFor(db.ProfileMigrate))
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	names, err := db.MigrationNames()
	if err != nil {
		telemetry.Error("migrate.list_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"migrations": names})
}
