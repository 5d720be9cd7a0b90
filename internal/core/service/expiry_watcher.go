package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ExpiryWatcher periodically clears a session whose JWT has expired, so an
// idle client does not keep a dead token around until the next navigation.
type ExpiryWatcher struct {
	cron  *cron.Cron
	store *SessionStore
	now   func() time.Time
	log   zerolog.Logger
}

func NewExpiryWatcher(store *SessionStore, log zerolog.Logger) *ExpiryWatcher {
	return &ExpiryWatcher{
		cron:  cron.New(),
		store: store,
		now:   time.Now,
		log:   log,
	}
}

// Schedule registers the check every interval.
func (w *ExpiryWatcher) Schedule(interval time.Duration) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	if interval < time.Second {
		interval = time.Second
	}
	return w.cron.AddFunc("@every "+interval.String(), func() {
		w.Check(context.Background())
	})
}

func (w *ExpiryWatcher) Start() {
	w.cron.Start()
}

func (w *ExpiryWatcher) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

// Check logs out when the current token carries an exp in the past.
// It reports whether the session was cleared.
func (w *ExpiryWatcher) Check(ctx context.Context) bool {
	token := w.store.Token()
	if token == "" {
		return false
	}
	exp, ok := TokenExpiry(token)
	if !ok || w.now().Before(exp) {
		return false
	}
	if !w.store.Revoke(ctx, token) {
		return false
	}
	w.log.Info().Time("expired_at", exp).Msg("token expired while idle, session cleared")
	return true
}
