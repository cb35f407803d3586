package analyses

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
// Records are kept encoded so callers can never mutate stored state.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]int
	entries [][]byte
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]int)}
}

// Create stores the record.
func (r *MemoryRepo) Create(ctx context.Context, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = creationTime()
	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("encode record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rec.ID] = len(r.entries)
	r.entries = append(r.entries, data)

	var out Record
	if err := json.Unmarshal(data, &out); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}

// List returns records newest first; creation-time ties go to the later insert.
func (r *MemoryRepo) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	snapshot := make([][]byte, len(r.entries))
	copy(snapshot, r.entries)
	r.mu.RUnlock()

	out := make([]Record, 0, len(snapshot))
	for i := len(snapshot) - 1; i >= 0; i-- {
		var rec Record
		if err := json.Unmarshal(snapshot[i], &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, rec)
	}
	sortNewestFirst(out)
	return out, nil
}

// GetByID returns a record by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	idx, ok := r.byID[id]
	var data []byte
	if ok {
		data = r.entries[idx]
	}
	r.mu.RUnlock()
	if !ok {
		return Record{}, ErrNotFound
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// sortNewestFirst orders by CreatedAt descending, keeping the incoming
// order for ties. Input is expected in reverse insertion order.
func sortNewestFirst(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
}
