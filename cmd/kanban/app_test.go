package main

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/service"
	"github.com/kanbanly/kanban-web/internal/infrastructure/db/memory"
)

type brokenStorage struct{ *memory.Storage }

func (brokenStorage) Load(context.Context, ...string) (map[string]string, error) {
	return nil, errors.New("disk gone")
}

func TestRestore_StorageFailureLeavesEmptySession(t *testing.T) {
	a := &app{session: service.NewSessionStore(brokenStorage{memory.New()}, zerolog.Nop())}

	a.restore(context.Background())

	if !a.session.Ready() {
		t.Fatalf("session should be ready after a failed restore")
	}
	if a.session.Snapshot().Authenticated() {
		t.Fatalf("failed restore must not authenticate")
	}
}

func TestRestore_LoadsStoredSession(t *testing.T) {
	storage := memory.New()
	if err := storage.Save(context.Background(), map[string]string{service.TokenKey: "T1"}); err != nil {
		t.Fatal(err)
	}
	a := &app{storage: storage, session: service.NewSessionStore(storage, zerolog.Nop())}

	a.restore(context.Background())

	if got := a.session.Token(); got != "T1" {
		t.Fatalf("token = %q, want T1", got)
	}
}

func TestAppClose_JoinsErrors(t *testing.T) {
	a := &app{closers: []func(context.Context) error{
		func(context.Context) error { return errors.New("a") },
		func(context.Context) error { return nil },
	}}
	if err := a.Close(context.Background()); err == nil || err.Error() != "a" {
		t.Fatalf("Close = %v", err)
	}
}
