package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/evbook/evbook/internal/domain"
)

type bookingsResponse struct {
	Bookings []domain.Booking `json:"bookings"`
}

// CreateBooking reserves a slot.
func (c *Client) CreateBooking(ctx context.Context, req domain.BookingRequest) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPost, "/bookings/user/", bearer, req, &resp)
	return resp.Message, err
}

// ListMyBookings returns the signed-in user's bookings.
func (c *Client) ListMyBookings(ctx context.Context) ([]domain.Booking, error) {
	var resp bookingsResponse
	if err := c.do(ctx, http.MethodGet, "/bookings/user/", bearer, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// UpdateBooking moves a booking to another slot or time.
func (c *Client) UpdateBooking(ctx context.Context, id domain.ID, req domain.BookingRequest) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPut, "/bookings/user/"+url.PathEscape(id.String()), bearer, req, &resp)
	return resp.Message, err
}

// CancelBooking cancels one of the user's bookings.
func (c *Client) CancelBooking(ctx context.Context, id domain.ID) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPut, "/bookings/user/"+url.PathEscape(id.String())+"/cancel", bearer, nil, &resp)
	return resp.Message, err
}

// ListPendingBookings returns bookings awaiting an administrator's decision.
func (c *Client) ListPendingBookings(ctx context.Context) ([]domain.Booking, error) {
	var resp bookingsResponse
	if err := c.do(ctx, http.MethodGet, "/bookings/admin/pending", bearer, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// ApproveBooking approves a pending booking.
func (c *Client) ApproveBooking(ctx context.Context, id domain.ID) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPut, "/bookings/admin/"+url.PathEscape(id.String())+"/approve", bearer, nil, &resp)
	return resp.Message, err
}

// RejectBooking rejects a pending booking.
func (c *Client) RejectBooking(ctx context.Context, id domain.ID) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPut, "/bookings/admin/"+url.PathEscape(id.String())+"/reject", bearer, nil, &resp)
	return resp.Message, err
}
