package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/evbook/evbook/internal/domain"
)

type accountsResponse struct {
	Users []domain.Account `json:"users"`
}

// ListAccounts returns every user account. Administrators only.
func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var resp accountsResponse
	if err := c.do(ctx, http.MethodGet, "/admins/users/", bearer, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// BlockAccount prevents a user from signing in.
func (c *Client) BlockAccount(ctx context.Context, id domain.ID) (string, error) {
	return c.accountAction(ctx, http.MethodPut, "/admins/users/block/", id)
}

// UnblockAccount lifts a block.
func (c *Client) UnblockAccount(ctx context.Context, id domain.ID) (string, error) {
	return c.accountAction(ctx, http.MethodPut, "/admins/users/unblock/", id)
}

// DeleteAccount removes a user account.
func (c *Client) DeleteAccount(ctx context.Context, id domain.ID) (string, error) {
	return c.accountAction(ctx, http.MethodDelete, "/admins/users/delete/", id)
}

func (c *Client) accountAction(ctx context.Context, method, prefix string, id domain.ID) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, method, prefix+url.PathEscape(id.String()), bearer, nil, &resp)
	return resp.Message, err
}
