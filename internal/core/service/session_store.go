package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/pkg/metrics"
)

// Durable storage keys. Both are written and removed together.
const (
	TokenKey = "token"
	UserKey  = "user"
)

const storageTimeout = 5 * time.Second

// SessionStore is the single source of truth for who is logged in.
// Every mutation writes through to durable storage.
type SessionStore struct {
	storage ports.SessionStorage
	log     zerolog.Logger

	mu    sync.RWMutex
	token string
	user  *domain.User
	ready bool

	subMu sync.Mutex
	subs  []func(domain.SessionEvent, domain.Session)
}

func NewSessionStore(storage ports.SessionStorage, log zerolog.Logger) *SessionStore {
	return &SessionStore{storage: storage, log: log}
}

// Init restores the persisted session. The store reports Ready once Init
// returns, whether or not a session was found. A malformed stored user is
// logged and the session continues token-only.
func (s *SessionStore) Init(ctx context.Context) error {
	defer s.markReady()

	ctx, cancel := s.storageCtx(ctx)
	defer cancel()

	vals, err := s.storage.Load(ctx, TokenKey, UserKey)
	if err != nil {
		s.log.Error().Err(err).Msg("could not read persisted session")
		return fmt.Errorf("%w: load session: %v", domain.ErrStorage, err)
	}

	token := vals[TokenKey]
	if token == "" {
		return nil
	}

	var user *domain.User
	if raw := vals[UserKey]; raw != "" {
		var u domain.User
		if err := sonic.UnmarshalString(raw, &u); err != nil {
			s.log.Error().Err(err).Msg("stored user is malformed, continuing with token-only session")
		} else {
			user = normalizeUser(u)
		}
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	s.log.Info().Bool("has_user", user != nil).Msg("session restored")
	return nil
}

// Login sets the session and persists both keys. The token is not inspected.
// A persistence failure is returned but the in-memory session stays active.
func (s *SessionStore) Login(ctx context.Context, user domain.User, token string) error {
	u := normalizeUser(user)

	s.mu.Lock()
	s.token = token
	s.user = u
	s.mu.Unlock()

	err := s.persist(ctx, map[string]string{TokenKey: token}, u)
	s.publish(domain.SessionLoggedIn)
	return err
}

// Logout clears the session and removes both storage keys. It never fails;
// storage errors are logged.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	had := s.token != "" || s.user != nil
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.forget(ctx, had)
}

// Revoke clears the session only while token is still the current one, so
// a late rejection of an older token never ends a newer login. It reports
// whether the session was cleared.
func (s *SessionStore) Revoke(ctx context.Context, token string) bool {
	s.mu.Lock()
	if s.token != token {
		s.mu.Unlock()
		return false
	}
	had := s.token != "" || s.user != nil
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.forget(ctx, had)
	return true
}

// forget removes the persisted keys and announces the logout when a session existed.
func (s *SessionStore) forget(ctx context.Context, had bool) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	if err := s.storage.Delete(sctx, TokenKey, UserKey); err != nil {
		s.log.Warn().Err(err).Msg("could not remove persisted session")
	}

	if had {
		s.publish(domain.SessionLoggedOut)
	}
}

// UpdateUser replaces the in-memory and persisted user without a new login.
func (s *SessionStore) UpdateUser(ctx context.Context, user domain.User) error {
	u := normalizeUser(user)

	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return fmt.Errorf("update user: %w", domain.ErrUnauthorized)
	}
	s.user = u
	s.mu.Unlock()

	err := s.persist(ctx, nil, u)
	s.publish(domain.SessionUpdated)
	return err
}

// Ready reports whether Init has completed.
func (s *SessionStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Token returns the current bearer token, or "".
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user, or nil.
func (s *SessionStore) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// MemberID returns the member id of the current user, or 0.
func (s *SessionStore) MemberID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return 0
	}
	return s.user.MemberID
}

// Snapshot returns a consistent copy of token and user.
func (s *SessionStore) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Session{Token: s.token, User: s.user.Clone()}
}

// Subscribe registers fn to be called after every login, logout and update.
func (s *SessionStore) Subscribe(fn func(domain.SessionEvent, domain.Session)) {
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

func (s *SessionStore) publish(ev domain.SessionEvent) {
	metrics.SessionEventsTotal.WithLabelValues(string(ev)).Inc()

	snap := s.Snapshot()
	s.subMu.Lock()
	subs := slices.Clone(s.subs)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(ev, snap)
	}
}

func (s *SessionStore) persist(ctx context.Context, vals map[string]string, u *domain.User) error {
	raw, err := sonic.MarshalString(u)
	if err != nil {
		return fmt.Errorf("%w: encode user: %v", domain.ErrStorage, err)
	}
	if vals == nil {
		vals = make(map[string]string, 1)
	}
	vals[UserKey] = raw

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	if err := s.storage.Save(sctx, vals); err != nil {
		s.log.Warn().Err(err).Msg("could not persist session")
		return fmt.Errorf("%w: save session: %v", domain.ErrStorage, err)
	}
	return nil
}

// storageCtx ignores caller cancellation: the two keys are always written
// or removed together.
func (s *SessionStore) storageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(ctx), storageTimeout)
}

func (s *SessionStore) markReady() {
	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
}

func normalizeUser(u domain.User) *domain.User {
	c := u.Clone()
	if r, ok := domain.ParseRole(string(c.Role)); ok {
		c.Role = r
	}
	return c
}
