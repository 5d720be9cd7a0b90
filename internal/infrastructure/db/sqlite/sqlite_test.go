package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func newTestStorage(t *testing.T, ns string) (*SessionStorage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "session.db")
	db, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewSessionStorage(db, ns), path
}

func TestSessionStorage_SaveLoadDelete(t *testing.T) {
	s, _ := newTestStorage(t, "kanban")
	ctx := context.Background()

	if err := s.Save(ctx, map[string]string{"token": "T1", "user": `{"userId":7}`}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := s.Save(ctx, map[string]string{"user": `{"userId":8}`}); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	got, err := s.Load(ctx, "token", "user")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got["token"] != "T1" || got["user"] != `{"userId":8}` {
		t.Fatalf("unexpected values: %v", got)
	}

	if err := s.Delete(ctx, "token", "user"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	got, _ = s.Load(ctx, "token", "user")
	if len(got) != 0 {
		t.Fatalf("expected no values after Delete, got %v", got)
	}
}

func TestSessionStorage_NamespacesAreIsolated(t *testing.T) {
	a, path := newTestStorage(t, "a")
	db, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	b := NewSessionStorage(db, "b")
	ctx := context.Background()

	_ = a.Save(ctx, map[string]string{"token": "TA"})
	got, _ := b.Load(ctx, "token")
	if len(got) != 0 {
		t.Fatalf("namespace b sees %v", got)
	}
	if err := b.Ping(ctx); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
}
