package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SessionStorage keeps session keys as plain Redis strings.
// Key format: <namespace>:session:<key>
type SessionStorage struct {
	client    *redis.Client
	namespace string
}

func NewSessionStorage(client *redis.Client, namespace string) *SessionStorage {
	return &SessionStorage{client: client, namespace: namespace}
}

func (s *SessionStorage) Load(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := s.client.MGet(ctx, s.keys(keys)...).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	for i, v := range vals {
		if str, ok := v.(string); ok {
			out[keys[i]] = str
		}
	}
	return out, nil
}

// Save writes all values in one MULTI/EXEC. Keys never expire; the session
// lifetime is owned by the backend token.
func (s *SessionStorage) Save(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, s.keys(keys)...).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStorage) key(k string) string {
	return fmt.Sprintf("%s:session:%s", s.namespace, k)
}

func (s *SessionStorage) keys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = s.key(k)
	}
	return out
}
