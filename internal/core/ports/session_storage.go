package ports

import "context"

// SessionStorage is the durable key/value store behind the Session Store.
// Save and Delete apply to all given keys atomically.
type SessionStorage interface {
	Load(ctx context.Context, keys ...string) (map[string]string, error)
	Save(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// SessionProvider is the slice of the Session Store the API client needs:
// the current bearer token and the forced logout on 401. Revoke clears the
// session only if token is still current and reports whether it did.
type SessionProvider interface {
	Token() string
	Revoke(ctx context.Context, token string) bool
}

// Notifier receives user-visible messages raised by controllers and services.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}
