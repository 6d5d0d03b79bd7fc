package apiclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evbook/evbook/internal/domain"
)

func TestEndpointRoutes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantPath   string
	}{
		{"register user", func(c *Client) error {
			_, err := c.Register(ctx, domain.Registration{Email: "a@b.co", Role: "super admin"}, false)
			return err
		}, http.MethodPost, "/api/users/register"},
		{"register admin", func(c *Client) error {
			_, err := c.Register(ctx, domain.Registration{Email: "a@b.co", Role: "super admin"}, true)
			return err
		}, http.MethodPost, "/api/admins/register"},
		{"update profile", func(c *Client) error {
			_, err := c.UpdateProfile(ctx, domain.ProfileUpdate{})
			return err
		}, http.MethodPut, "/api/users/profile"},
		{"request reset", func(c *Client) error {
			_, err := c.RequestPasswordReset(ctx, "a@b.co")
			return err
		}, http.MethodPost, "/api/users/reset-password"},
		{"verify email", func(c *Client) error {
			_, err := c.VerifyEmail(ctx, "abc/def")
			return err
		}, http.MethodGet, "/api/users/verify/abc/def"},
		{"user stats", func(c *Client) error {
			_, err := c.UserStats(ctx, "7")
			return err
		}, http.MethodGet, "/api/users/stats/7"},
		{"create station", func(c *Client) error {
			_, err := c.CreateStation(ctx, domain.StationInput{Name: "S"})
			return err
		}, http.MethodPost, "/api/stations"},
		{"update station", func(c *Client) error {
			_, err := c.UpdateStation(ctx, "4", domain.StationInput{})
			return err
		}, http.MethodPut, "/api/stations/4"},
		{"delete station", func(c *Client) error {
			_, err := c.DeleteStation(ctx, "4")
			return err
		}, http.MethodDelete, "/api/stations/4"},
		{"list slots", func(c *Client) error {
			_, err := c.ListSlots(ctx)
			return err
		}, http.MethodGet, "/api/slots/"},
		{"station slots", func(c *Client) error {
			_, err := c.ListStationSlots(ctx, "4")
			return err
		}, http.MethodGet, "/api/slots/station/4"},
		{"create slot", func(c *Client) error {
			_, err := c.CreateSlot(ctx, domain.SlotInput{})
			return err
		}, http.MethodPost, "/api/slots/"},
		{"update slot", func(c *Client) error {
			_, err := c.UpdateSlot(ctx, "9", domain.SlotInput{})
			return err
		}, http.MethodPut, "/api/slots/9"},
		{"delete slot", func(c *Client) error {
			_, err := c.DeleteSlot(ctx, "9")
			return err
		}, http.MethodDelete, "/api/slots/9"},
		{"create booking", func(c *Client) error {
			_, err := c.CreateBooking(ctx, domain.BookingRequest{})
			return err
		}, http.MethodPost, "/api/bookings/user/"},
		{"my bookings", func(c *Client) error {
			_, err := c.ListMyBookings(ctx)
			return err
		}, http.MethodGet, "/api/bookings/user/"},
		{"update booking", func(c *Client) error {
			_, err := c.UpdateBooking(ctx, "11", domain.BookingRequest{})
			return err
		}, http.MethodPut, "/api/bookings/user/11"},
		{"cancel booking", func(c *Client) error {
			_, err := c.CancelBooking(ctx, "11")
			return err
		}, http.MethodPut, "/api/bookings/user/11/cancel"},
		{"pending bookings", func(c *Client) error {
			_, err := c.ListPendingBookings(ctx)
			return err
		}, http.MethodGet, "/api/bookings/admin/pending"},
		{"approve booking", func(c *Client) error {
			_, err := c.ApproveBooking(ctx, "11")
			return err
		}, http.MethodPut, "/api/bookings/admin/11/approve"},
		{"reject booking", func(c *Client) error {
			_, err := c.RejectBooking(ctx, "11")
			return err
		}, http.MethodPut, "/api/bookings/admin/11/reject"},
		{"list accounts", func(c *Client) error {
			_, err := c.ListAccounts(ctx)
			return err
		}, http.MethodGet, "/api/admins/users/"},
		{"block account", func(c *Client) error {
			_, err := c.BlockAccount(ctx, "5")
			return err
		}, http.MethodPut, "/api/admins/users/block/5"},
		{"unblock account", func(c *Client) error {
			_, err := c.UnblockAccount(ctx, "5")
			return err
		}, http.MethodPut, "/api/admins/users/unblock/5"},
		{"delete account", func(c *Client) error {
			_, err := c.DeleteAccount(ctx, "5")
			return err
		}, http.MethodDelete, "/api/admins/users/delete/5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := newServer(t, http.StatusOK, `{"message":"ok"}`)
			c := New(srv.URL, WithTokenSource(StaticToken("t")))

			require.NoError(t, tt.call(c))
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.wantMethod, (*calls)[0].method)
			assert.Equal(t, tt.wantPath, (*calls)[0].path)
		})
	}
}

func TestRegister_UserDropsRole(t *testing.T) {
	srv, calls := newServer(t, http.StatusCreated, `{"message":"created"}`)
	c := New(srv.URL)

	resp, err := c.Register(context.Background(), domain.Registration{Email: "a@b.co", Password: "Abc123", Role: "super admin"}, false)
	require.NoError(t, err)
	assert.Equal(t, "created", resp.Message)
	assert.NotContains(t, (*calls)[0].body, "role")
}

func TestDecodeCollections(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"bookings":[{"booking_id":1,"booking_status":"approved"}]}`)
	c := New(srv.URL)

	bookings, err := c.ListPendingBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, domain.BookingApproved, bookings[0].Status)
}
