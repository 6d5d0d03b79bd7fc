package health

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/evbook/evbook/internal/apiclient"
	"github.com/evbook/evbook/internal/storage"
)

// Pinger is the part of the API client the reachability check needs.
type Pinger interface {
	Ping(ctx context.Context) error
	BaseURL() string
}

// APIChecker checks that the reservation API answers.
type APIChecker struct {
	api Pinger
}

// NewAPIChecker creates a reachability check.
func NewAPIChecker(api Pinger) *APIChecker {
	return &APIChecker{api: api}
}

// Name implements Checker
func (c *APIChecker) Name() string { return "api" }

// Check implements Checker
func (c *APIChecker) Check(ctx context.Context) *Result {
	err := c.api.Ping(ctx)
	switch {
	case err == nil:
		return Healthy("reachable").WithDetail("url", c.api.BaseURL())
	case apiclient.KindOf(err) == apiclient.KindUnreachable:
		return Unhealthy("cannot connect").
			WithDetail("url", c.api.BaseURL()).
			WithDetail("error", err.Error())
	default:
		return Degraded("server error").
			WithDetail("url", c.api.BaseURL()).
			WithDetail("error", err.Error())
	}
}

// StorageChecker checks that the saved session can be read.
type StorageChecker struct {
	backend storage.Backend
	driver  string
}

// NewStorageChecker creates a storage check. driver is only reported.
func NewStorageChecker(backend storage.Backend, driver string) *StorageChecker {
	return &StorageChecker{backend: backend, driver: driver}
}

// Name implements Checker
func (c *StorageChecker) Name() string { return "session-storage" }

// Check implements Checker
func (c *StorageChecker) Check(ctx context.Context) *Result {
	_, err := c.backend.Get(ctx, storage.KeyToken)
	switch {
	case err == nil:
		return Healthy("session saved").WithDetail("driver", c.driver)
	case errors.Is(err, storage.ErrNotFound):
		return Healthy("no saved session").WithDetail("driver", c.driver)
	default:
		return Unhealthy("cannot read session").
			WithDetail("driver", c.driver).
			WithDetail("error", err.Error())
	}
}

// TokenSource yields the saved bearer token, empty when signed out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenChecker reports how long the saved token stays valid. The token is
// read without verifying its signature; only the server can do that.
type TokenChecker struct {
	tokens TokenSource
	now    func() time.Time
}

// NewTokenChecker creates a token expiry check.
func NewTokenChecker(tokens TokenSource) *TokenChecker {
	return &TokenChecker{tokens: tokens, now: time.Now}
}

// Name implements Checker
func (c *TokenChecker) Name() string { return "session-token" }

// Check implements Checker
func (c *TokenChecker) Check(ctx context.Context) *Result {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return Unhealthy("cannot read token").WithDetail("error", err.Error())
	}
	if token == "" {
		return Healthy("not signed in")
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		// Opaque tokens are legal; the server decides.
		return Healthy("signed in").WithDetail("token", "opaque")
	}
	if claims.ExpiresAt == nil {
		return Healthy("signed in").WithDetail("expires", "never")
	}

	exp := claims.ExpiresAt.Time
	if !c.now().Before(exp) {
		return Degraded("session token has expired").
			WithDetail("expired_at", exp.UTC().Format(time.RFC3339))
	}
	return Healthy("signed in").
		WithDetail("expires_in", exp.Sub(c.now()).Round(time.Minute).String())
}
