package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hrhub/internal/platform/metrics"
	"hrhub/internal/requestctx"
)

const maxResponseBytes = 4 << 20

// Session is what the client needs from the caller's auth state.
type Session interface {
	Token() string
	Expire() bool
}

type Client struct {
	base    *url.URL
	http    *http.Client
	retries int
	backoff time.Duration
	metrics *metrics.Collector
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetries sets how many extra attempts a failed GET gets. Mutations are never retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", baseURL)
	}
	c := &Client{
		base:    base,
		http:    &http.Client{Timeout: 15 * time.Second},
		retries: 3,
		backoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// As binds the client to a session. A nil session sends no token.
func (c *Client) As(s Session) *Conn {
	return &Conn{client: c, session: s}
}

type Conn struct {
	client  *Client
	session Session
}

func (c *Conn) Get(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.do(ctx, http.MethodGet, path, query, nil, out)
	return err
}

// GetPage decodes a list response and returns its pagination block.
func (c *Conn) GetPage(ctx context.Context, path string, query url.Values, out any) (PageMeta, error) {
	meta, err := c.do(ctx, http.MethodGet, path, query, nil, out)
	if err != nil {
		return PageMeta{}, err
	}
	if meta == nil {
		return PageMeta{}, nil
	}
	return *meta, nil
}

func (c *Conn) Post(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, http.MethodPost, path, nil, body, out)
	return err
}

func (c *Conn) Put(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, http.MethodPut, path, nil, body, out)
	return err
}

func (c *Conn) Patch(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, http.MethodPatch, path, nil, body, out)
	return err
}

func (c *Conn) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}

func (c *Conn) do(ctx context.Context, method, path string, query url.Values, body, out any) (*PageMeta, error) {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = encoded
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.client.retries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, c.client.backoff*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}
		meta, err := c.once(ctx, method, path, query, payload, out, attempt > 0)
		if err == nil {
			return meta, nil
		}
		lastErr = err
		if !retryable(ctx, err) {
			return nil, err
		}
		slog.Debug("backend request retry", "method", method, "path", path, "attempt", attempt+1, "err", err)
	}
	return nil, lastErr
}

func (c *Conn) once(ctx context.Context, method, path string, query url.Values, payload []byte, out any, retry bool) (*PageMeta, error) {
	target := c.client.base.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := requestctx.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.client.http.Do(req)
	if err != nil {
		c.client.metrics.RecordBackend(0, time.Since(start), retry)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.client.metrics.RecordBackend(resp.StatusCode, time.Since(start), retry)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	var env envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return nil, &decodeError{fmt.Errorf("%s %s: decode envelope: %w", method, path, err)}
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.session != nil && c.session.Expire() {
			slog.Info("session expired by backend", "method", method, "path", path, "requestId", requestctx.GetRequestID(ctx))
		}
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message, FieldErrors: env.Errors}
	}
	if resp.StatusCode >= 300 {
		message := env.Message
		if message == "" && len(env.Errors) == 0 {
			message = strings.TrimSpace(http.StatusText(resp.StatusCode))
		}
		return nil, &APIError{Status: resp.StatusCode, Message: message, FieldErrors: env.Errors}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &decodeError{fmt.Errorf("%s %s: decode data: %w", method, path, err)}
		}
	}
	return env.Meta, nil
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	var decodeErr *decodeError
	if errors.As(err, &decodeErr) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
