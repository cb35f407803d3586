package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"resume-analyzer/internal/shared/storage/object"
)

func TestPutOpenListDelete(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	for _, key := range []string{"outbox/b.json", "outbox/a.json", "other/c.json"} {
		if _, err := store.Put(ctx, key, "application/json", strings.NewReader(`{"k":"`+key+`"}`)); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
	}

	keys, err := store.List(ctx, "outbox/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 || keys[0] != "outbox/a.json" || keys[1] != "outbox/b.json" {
		t.Fatalf("unexpected keys: %v", keys)
	}

	rc, err := store.Open(ctx, "outbox/a.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != `{"k":"outbox/a.json"}` {
		t.Fatalf("unexpected content: %s", data)
	}

	if err := store.Delete(ctx, "outbox/a.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, "outbox/a.json"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "outbox/a.json"); err != nil {
		t.Fatalf("second Delete should be a no-op: %v", err)
	}
}

func TestListMissingBaseDir(t *testing.T) {
	store := New(t.TempDir() + "/missing")
	keys, err := store.List(context.Background(), "outbox/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}

func TestPutRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Put(context.Background(), "../escape.json", "application/json", strings.NewReader("{}")); err == nil {
		t.Fatalf("expected traversal key to be rejected")
	}
}
