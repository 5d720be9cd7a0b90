// Package notify implements the user-visible notification queue.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
)

const maxPending = 50

// FlashQueue collects notices until the next rendered view drains them.
// Once maxPending notices are waiting the oldest is dropped.
type FlashQueue struct {
	mu      sync.Mutex
	pending []domain.Notice
	now     func() time.Time
	log     zerolog.Logger
}

func NewFlashQueue(log zerolog.Logger) *FlashQueue {
	return &FlashQueue{now: time.Now, log: log}
}

func (q *FlashQueue) Info(msg string) {
	q.log.Debug().Str("level", string(domain.NoticeInfo)).Msg(msg)
	q.push(domain.NoticeInfo, msg)
}

func (q *FlashQueue) Error(msg string) {
	q.log.Debug().Str("level", string(domain.NoticeError)).Msg(msg)
	q.push(domain.NoticeError, msg)
}

// Drain returns and clears the pending notices, oldest first.
func (q *FlashQueue) Drain() []domain.Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	if out == nil {
		out = []domain.Notice{}
	}
	return out
}

func (q *FlashQueue) push(level domain.NoticeLevel, msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) >= maxPending {
		q.pending = q.pending[1:]
	}
	q.pending = append(q.pending, domain.Notice{Level: level, Message: msg, At: q.now()})
}
