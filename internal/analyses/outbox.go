package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-analyzer/internal/shared/storage/object"
	"resume-analyzer/internal/shared/telemetry"
)

const outboxPrefix = "outbox/"

// Outbox parks records that were analyzed but could not be stored.
type Outbox interface {
	Park(ctx context.Context, rec Record) (string, error)
}

// ObjectOutbox keeps parked records as JSON objects under outbox/.
type ObjectOutbox struct {
	Store object.ObjectStore
}

// NewObjectOutbox constructs an ObjectOutbox.
func NewObjectOutbox(store object.ObjectStore) *ObjectOutbox {
	return &ObjectOutbox{Store: store}
}

// Park writes rec without ID or CreatedAt and returns its key.
func (o *ObjectOutbox) Park(ctx context.Context, rec Record) (string, error) {
	rec.ID = ""
	rec.CreatedAt = time.Time{}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode outbox record: %w", err)
	}
	key := outboxPrefix + uuid.NewString() + ".json"
	if _, err := o.Store.Put(ctx, key, "application/json", bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("park %s: %w", key, err)
	}
	return key, nil
}

// Pending lists the keys of parked records.
func (o *ObjectOutbox) Pending(ctx context.Context) ([]string, error) {
	keys, err := o.Store.List(ctx, outboxPrefix)
	if err != nil {
		return nil, err
	}
	out := keys[:0]
	for _, k := range keys {
		if strings.HasSuffix(k, ".json") {
			out = append(out, k)
		}
	}
	return out, nil
}

// Load reads a parked record.
func (o *ObjectOutbox) Load(ctx context.Context, key string) (Record, error) {
	body, err := o.Store.Open(ctx, key)
	if err != nil {
		return Record{}, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return Record{}, fmt.Errorf("read %s: %w", key, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return rec, nil
}

// ReplayResult summarizes one Replay run.
type ReplayResult struct {
	Stored []Record
	Failed map[string]error
}

// Replay creates every parked record in repo and removes the parked
// object once the record is stored. A failed record stays parked.
func (o *ObjectOutbox) Replay(ctx context.Context, repo Repo) (ReplayResult, error) {
	res := ReplayResult{Failed: map[string]error{}}
	keys, err := o.Pending(ctx)
	if err != nil {
		return res, fmt.Errorf("list outbox: %w", err)
	}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rec, err := o.Load(ctx, key)
		if err != nil {
			if errors.Is(err, object.ErrNotFound) {
				continue
			}
			res.Failed[key] = err
			continue
		}
		stored, err := repo.Create(ctx, rec)
		if err != nil {
			res.Failed[key] = err
			telemetry.Warn("outbox.replay_failed", map[string]any{"key": key, "error": err})
			continue
		}
		if err := o.Store.Delete(ctx, key); err != nil {
			telemetry.Warn("outbox.delete_failed", map[string]any{"key": key, "analysis_id": stored.ID, "error": err})
		}
		telemetry.Info("outbox.replayed", map[string]any{"key": key, "analysis_id": stored.ID})
		res.Stored = append(res.Stored, stored)
	}
	return res, nil
}
