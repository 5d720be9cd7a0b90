package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/pkg/metrics"
)

// GuardState is the outcome of a Route Guard evaluation.
type GuardState string

const (
	StateLoading      GuardState = "loading"
	StateAuthorized   GuardState = "authorized"
	StateUnauthorized GuardState = "unauthorized"
	StateForbidden    GuardState = "forbidden"
)

// Redirect targets for rejected navigations.
const (
	LoginPath         = "/login"
	NotAuthorizedPath = "/not-authorized"
)

// Decision is what the guard tells the caller to do with a navigation.
type Decision struct {
	State    GuardState
	Redirect string
	Session  domain.Session
}

// Guard decides whether a protected view may be rendered. It holds no
// per-navigation state: every call re-reads the Session Store.
type Guard struct {
	store *SessionStore
	now   func() time.Time
	log   zerolog.Logger
}

func NewGuard(store *SessionStore, log zerolog.Logger) *Guard {
	return &Guard{store: store, now: time.Now, log: log}
}

// Evaluate applies, in order: initialisation pending → LOADING; no token →
// UNAUTHORIZED; expired JWT → session cleared, UNAUTHORIZED; role mismatch →
// FORBIDDEN; otherwise AUTHORIZED. required == RoleNone means any session.
func (g *Guard) Evaluate(ctx context.Context, required domain.Role) Decision {
	d := g.evaluate(ctx, required)
	metrics.GuardDecisionsTotal.WithLabelValues(string(d.State)).Inc()
	return d
}

func (g *Guard) evaluate(ctx context.Context, required domain.Role) Decision {
	if !g.store.Ready() {
		return Decision{State: StateLoading}
	}

	sess := g.store.Snapshot()
	if !sess.Authenticated() {
		return Decision{State: StateUnauthorized, Redirect: LoginPath}
	}

	if exp, ok := TokenExpiry(sess.Token); ok && !g.now().Before(exp) {
		g.log.Info().Time("expired_at", exp).Msg("session token expired, logging out")
		g.store.Revoke(ctx, sess.Token)
		return Decision{State: StateUnauthorized, Redirect: LoginPath}
	}

	if required != domain.RoleNone && !sess.Role().Is(required) {
		return Decision{State: StateForbidden, Redirect: NotAuthorizedPath, Session: sess}
	}

	return Decision{State: StateAuthorized, Session: sess}
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// Opaque tokens and tokens without exp report false.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
