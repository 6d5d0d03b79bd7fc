// Package apiclient talks to the EV-charging reservation API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evbook/evbook/internal/log"
)

// DefaultBaseURL is the hosted reservation API.
const DefaultBaseURL = "https://evb-1i4y.onrender.com/api"

// NormalizeBaseURL returns raw with trailing slashes removed and "/api"
// appended unless already present. An empty value yields DefaultBaseURL.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return DefaultBaseURL
	}
	u = strings.TrimRight(u, "/")
	if strings.HasSuffix(u, "/api") {
		return u
	}
	return u + "/api"
}

// TokenSource supplies the bearer token for authenticated requests.
// An empty token means no Authorization header is sent.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

// Token implements TokenSource
func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticToken returns a TokenSource that always yields token.
func StaticToken(token string) TokenSource {
	return TokenSourceFunc(func(context.Context) (string, error) { return token, nil })
}

// Client is the reservation API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *log.Logger
	userAgent  string

	mu             sync.RWMutex
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets a client-side timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithTokenSource sets where bearer tokens are read from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l.Component("apiclient") }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithUnauthorizedHandler registers the hook run when a request that carried
// the saved token is answered with 401.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a new API client for baseURL (normalized).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    NormalizeBaseURL(baseURL),
		httpClient: &http.Client{},
		logger:     log.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetUnauthorizedHandler replaces the 401 hook. Safe for concurrent use.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) unauthorizedHandler() func() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onUnauthorized
}

// Ping reports whether the API answers at all. Any status below 500 counts
// as reachable, including 401 for the unauthenticated probe.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/stations", anonymous, nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 && apiErr.StatusCode < http.StatusInternalServerError {
		return nil
	}
	return err
}

// access says whether a request carries the saved bearer token. Anonymous
// requests never carry it, so their 401s never end the session.
type access int

const (
	bearer access = iota
	anonymous
)

// do performs a JSON request and decodes a 2xx body into target.
func (c *Client) do(ctx context.Context, method, path string, acc access, body, target any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	requestID := uuid.NewString()
	ctx = log.ContextWithRequestID(ctx, requestID)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	sentBearer := false
	if acc == bearer && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			c.logger.WarnContext(ctx, "token unavailable", "error", err.Error())
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			sentBearer = true
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "request failed", "method", method, "path", path, "error", err.Error())
		return &APIError{Method: method, Path: path, Cause: err}
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseError(resp, method, path)
		if resp.StatusCode == http.StatusUnauthorized && sentBearer {
			if hook := c.unauthorizedHandler(); hook != nil {
				hook()
			}
		}
		return apiErr
	}

	if target != nil {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Cause: err}
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, target); err != nil {
			return &DecodeError{Path: path, Cause: err}
		}
	}

	return nil
}

// ErrorResponse represents an API error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse is the envelope of endpoints that only return a message.
type MessageResponse struct {
	Message string `json:"message"`
}

func parseError(resp *http.Response, method, path string) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.Message != "":
			apiErr.Message = errResp.Message
		case errResp.Error != "":
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}
