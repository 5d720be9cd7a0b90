// Package apiclient is the gateway to the Kanban REST backend.
//
// Every request carries the session bearer token when one exists, a request
// id and the configured timeout. A 401 response clears the session it was
// sent with and fires the OnUnauthorized hook before the error reaches the
// caller.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/pkg/metrics"
)

const (
	defaultTimeout  = 15 * time.Second
	maxErrorBody    = 64 << 10
	maxBody         = 8 << 20
	requestIDHeader = "X-Request-ID"
)

var _ ports.KanbanAPI = (*Client)(nil)

type Options struct {
	BaseURL string
	// Prefix is inserted between BaseURL and every endpoint path, e.g. "/api".
	Prefix     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	prefix  string
	timeout time.Duration
	http    *http.Client
	session ports.SessionProvider
	log     zerolog.Logger

	hookMu         sync.RWMutex
	onUnauthorized func()
}

func New(opts Options, session ports.SessionProvider, log zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	prefix := strings.TrimRight(opts.Prefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		prefix:  prefix,
		timeout: timeout,
		http:    hc,
		session: session,
		log:     log,
	}
}

// OnUnauthorized registers the hook fired after a 401 has cleared the session.
func (c *Client) OnUnauthorized(fn func()) {
	c.hookMu.Lock()
	c.onUnauthorized = fn
	c.hookMu.Unlock()
}

// Ping checks that the backend answers at all. Any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+c.prefix+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	resp.Body.Close()
	return nil
}

type call struct {
	method string
	// route is the endpoint template used as the metrics label.
	route string
	path  string
	query url.Values
	body  any
}

// send performs c and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, cl call) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if cl.body != nil {
		b, err := sonic.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", cl.method, cl.route, err)
		}
		body = bytes.NewReader(b)
	}

	target := c.baseURL + c.prefix + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", cl.method, cl.route, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)
	token := c.session.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.With().Str("method", cl.method).Str("route", cl.route).Str("request_id", reqID).Logger()

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.APIRequestDuration.WithLabelValues(cl.route).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(cl.method, cl.route, "network_error").Inc()
		log.Warn().Err(err).Msg("backend request failed")
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrNetwork, cl.method, cl.route, err)
	}
	defer resp.Body.Close()
	metrics.APIRequestsTotal.WithLabelValues(cl.method, cl.route, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusUnauthorized {
		c.forceLogout(ctx, log, token)
		return nil, readAPIError(resp)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := readAPIError(resp)
		log.Debug().Int("status", resp.StatusCode).Str("message", apiErr.Message).Msg("backend rejected request")
		return nil, apiErr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %w", domain.ErrNetwork, cl.method, cl.route, err)
	}
	log.Debug().Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("backend call")
	return data, nil
}

// doJSON sends cl and decodes a non-empty response body into out.
func (c *Client) doJSON(ctx context.Context, cl call, out any) error {
	data, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", domain.ErrServer, cl.method, cl.route, err)
	}
	return nil
}

// getList fetches a collection. A payload that is not a JSON array is
// treated as an empty collection.
func getList[T any](ctx context.Context, c *Client, cl call) ([]T, error) {
	data, err := c.send(ctx, cl)
	if err != nil {
		return nil, err
	}
	return decodeCollection[T](c.log, cl.route, data), nil
}

func decodeCollection[T any](log zerolog.Logger, route string, data []byte) []T {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if len(trimmed) > 0 {
			log.Warn().Str("route", route).Msg("expected a collection, treating response as empty")
		}
		return []T{}
	}
	var out []T
	if err := sonic.Unmarshal(trimmed, &out); err != nil {
		log.Warn().Err(err).Str("route", route).Msg("malformed collection, treating response as empty")
		return []T{}
	}
	if out == nil {
		out = []T{}
	}
	return out
}

// forceLogout clears the session the rejected request was sent with. A 401
// for a token that has since been replaced leaves the newer session alone.
func (c *Client) forceLogout(ctx context.Context, log zerolog.Logger, token string) {
	if !c.session.Revoke(context.WithoutCancel(ctx), token) {
		log.Info().Msg("backend answered 401 for a replaced token, keeping current session")
		return
	}
	log.Info().Msg("backend answered 401, session cleared")
	metrics.ForcedLogoutsTotal.Inc()

	c.hookMu.RLock()
	hook := c.onUnauthorized
	c.hookMu.RUnlock()
	if hook != nil {
		hook()
	}
}

func readAPIError(resp *http.Response) *domain.APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &domain.APIError{
		Status:  resp.StatusCode,
		Message: errorMessage(body),
		Body:    body,
	}
}

// errorMessage extracts {"message": ...} or {"error": ...}, falling back to
// the raw body text.
func errorMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '{' {
		var env struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := sonic.Unmarshal(trimmed, &env); err == nil {
			if env.Message != "" {
				return env.Message
			}
			if env.Error != "" {
				return env.Error
			}
		}
	}
	if trimmed[0] == '"' {
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	msg := string(trimmed)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func idPath(format string, ids ...int64) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}

var errMissingID = errors.New("apiclient: id must be positive")

func requireID(ids ...int64) error {
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: %w", domain.ErrBadRequest, errMissingID)
		}
	}
	return nil
}
