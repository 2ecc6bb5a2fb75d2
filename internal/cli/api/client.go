// Package api is the single HTTP client of the admin tool. It injects the
// bearer token, decodes the `{data, message, pagination}` envelope and turns
// any 401 into a global logout.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/cli/repo"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultTimeout — общий таймаут запроса для всего клиента.
const DefaultTimeout = 30 * time.Second

// Эти маршруты вызываются без bearer-токена, и их 401 не означает истечение сессии.
var publicPaths = []string{
	"/auth/login",
	"/auth/password-reset-request",
	"/auth/password-reset",
}

// Client wraps one resty client shared by every store.
type Client struct {
	rc     *resty.Client
	tokens repo.TokenStore
	logger *zap.SugaredLogger

	mu             sync.RWMutex
	onUnauthorized func()
}

// Option configures a Client during construction in New.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.rc.SetTimeout(d)
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUnauthorizedHandler registers the callback run after a 401 cleared the token.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a client for baseURL (scheme://host[:port][/prefix]).
func New(baseURL string, tokens repo.TokenStore, opts ...Option) *Client {
	c := &Client{
		rc: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json").
			SetTimeout(DefaultTimeout),
		tokens: tokens,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rc.OnBeforeRequest(c.injectToken)
	c.rc.OnAfterResponse(c.interceptResponse)
	return c
}

// SetUnauthorizedHandler replaces the 401 callback. The session registers itself here.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

func isPublic(path string) bool {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	for _, p := range publicPaths {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

// injectToken runs before URL resolution, so r.URL is still the relative path.
func (c *Client) injectToken(_ *resty.Client, r *resty.Request) error {
	if isPublic(r.URL) {
		return nil
	}
	tok, err := c.tokens.Load()
	if err != nil {
		if err != repo.ErrNoToken {
			c.logger.Warnw("load auth token", "error", err)
		}
		return nil
	}
	r.SetHeader("Authorization", "Bearer "+tok)
	return nil
}

func (c *Client) interceptResponse(_ *resty.Client, resp *resty.Response) error {
	var method, path string
	if req := resp.Request; req != nil {
		method = req.Method
		path = req.URL
		if req.RawRequest != nil {
			path = req.RawRequest.URL.Path
		}
	}
	c.logger.Debugw("api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode(),
		"duration", resp.Time(),
	)
	if resp.StatusCode() != http.StatusUnauthorized || isPublic(path) {
		return nil
	}
	c.logger.Infow("session expired, clearing token", "path", path)
	if err := c.tokens.Clear(); err != nil {
		c.logger.Warnw("clear auth token", "error", err)
	}
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
	return nil
}

// Meta carries the non-data parts of a success envelope.
type Meta struct {
	Message    string
	Pagination *model.Pagination
}

type envelope struct {
	Data       json.RawMessage   `json:"data"`
	Message    string            `json:"message,omitempty"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

type errorEnvelope struct {
	Error *Error `json:"error"`
}

// Do executes one call. out receives the envelope's data (may be nil).
// Non-2xx responses come back as *Error, transport failures as *NetworkError.
func (c *Client) Do(ctx context.Context, method, path string, query map[string]string, body, out any) (Meta, error) {
	req := c.rc.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return Meta{}, &NetworkError{Op: method + " " + path, Err: err}
	}
	if resp.IsError() {
		return Meta{}, decodeError(resp.StatusCode(), resp.Body())
	}

	raw := resp.Body()
	if len(bytes.TrimSpace(raw)) == 0 {
		return Meta{}, nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Meta{}, fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return Meta{}, fmt.Errorf("%s %s: decode data: %w", method, path, err)
		}
	}
	return Meta{Message: env.Message, Pagination: env.Pagination}, nil
}

func decodeError(status int, body []byte) *Error {
	e := &Error{Status: status}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		e.Message = env.Error.Message
		e.Details = env.Error.Details
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
