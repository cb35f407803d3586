package health

import (
	"context"
	"time"

	"resume-analyzer/internal/shared/telemetry"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	// Store is nil when the analyses live in memory or SQLite.
	Store Pinger
}

// NewService constructs a new health service.
func NewService(store Pinger) *Service {
	return &Service{Store: store}
}

// Status returns the health payload and whether the backing store answered.
func (s *Service) Status(ctx context.Context) (map[string]bool, bool) {
	if s == nil || s.Store == nil {
		return map[string]bool{"ok": true}, true
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.Store.PingContext(ctx); err != nil {
		telemetry.Warn("health.store_unreachable", map[string]any{"error": err})
		return map[string]bool{"ok": false}, false
	}
	return map[string]bool{"ok": true}, true
}
