package analyses

import (
	"context"
	"time"
)

// Repo is the analysis store. Records are immutable once created.
type Repo interface {
	// Create assigns ID and CreatedAt and persists the record atomically.
	Create(ctx context.Context, rec Record) (Record, error)
	// List returns every record, newest first.
	List(ctx context.Context) ([]Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
}

// creationTime is truncated so every backend round-trips it exactly.
func creationTime() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
