package notify

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
)

func TestFlashQueue_DrainClears(t *testing.T) {
	q := NewFlashQueue(zerolog.Nop())
	q.Info("saved")
	q.Error("could not load board")

	got := q.Drain()
	if len(got) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(got))
	}
	if got[0].Level != domain.NoticeInfo || got[1].Level != domain.NoticeError {
		t.Fatalf("unexpected order or levels: %+v", got)
	}
	if again := q.Drain(); len(again) != 0 {
		t.Fatalf("queue should be empty after Drain, got %+v", again)
	}
}

func TestFlashQueue_DropsOldest(t *testing.T) {
	q := NewFlashQueue(zerolog.Nop())
	for i := 0; i < maxPending+5; i++ {
		q.Error(fmt.Sprintf("e%d", i))
	}

	got := q.Drain()
	if len(got) != maxPending {
		t.Fatalf("expected %d notices, got %d", maxPending, len(got))
	}
	if got[0].Message != "e5" {
		t.Fatalf("oldest notices should be dropped first, got %q", got[0].Message)
	}
}
