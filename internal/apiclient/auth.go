package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/evbook/evbook/internal/domain"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string           `json:"token"`
	User  domain.Principal `json:"user"`
}

// RegisterResponse represents a registration response
type RegisterResponse struct {
	Message string            `json:"message"`
	User    *domain.Principal `json:"user,omitempty"`
}

// ResetConfirmRequest is the body of the reset confirmation. It carries
// exactly the email, the one-time code and the new password.
type ResetConfirmRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type profileResponse struct {
	Message string            `json:"message"`
	User    *domain.Principal `json:"user"`
}

type statsResponse struct {
	Stats domain.UserStats `json:"stats"`
}

// Login authenticates a user, or an administrator when asAdmin is set.
func (c *Client) Login(ctx context.Context, email, password string, asAdmin bool) (*LoginResponse, error) {
	path := "/users/login"
	if asAdmin {
		path = "/admins/login"
	}

	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, path, anonymous, LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	resp.User.Token = resp.Token
	return &resp, nil
}

// Register creates a user account, or an administrator when asAdmin is set.
func (c *Client) Register(ctx context.Context, reg domain.Registration, asAdmin bool) (*RegisterResponse, error) {
	path := "/users/register"
	if asAdmin {
		path = "/admins/register"
	} else {
		reg.Role = ""
	}

	var resp RegisterResponse
	if err := c.do(ctx, http.MethodPost, path, bearer, reg, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile saves profile changes and returns the server's view of the user.
// The returned principal may be nil when the server omits it.
func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Principal, error) {
	var resp profileResponse
	if err := c.do(ctx, http.MethodPut, "/users/profile", bearer, update, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// RequestPasswordReset asks the server to email a one-time code.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPost, "/users/reset-password", bearer, map[string]string{"email": email}, &resp)
	return resp.Message, err
}

// ConfirmPasswordReset sets a new password using the emailed code.
func (c *Client) ConfirmPasswordReset(ctx context.Context, req ResetConfirmRequest) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPost, "/users/reset-password/confirm", bearer, req, &resp)
	return resp.Message, err
}

// VerifyEmail confirms an email address with the token from the verification link.
func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodGet, "/users/verify/"+url.PathEscape(token), bearer, nil, &resp)
	return resp.Message, err
}

// UserStats returns booking counts for a user.
func (c *Client) UserStats(ctx context.Context, userID domain.ID) (*domain.UserStats, error) {
	var resp statsResponse
	if err := c.do(ctx, http.MethodGet, "/users/stats/"+url.PathEscape(userID.String()), bearer, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}
