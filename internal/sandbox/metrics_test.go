package sandbox

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evbook/evbook/internal/domain"
)

func TestMetricsCountLoginsAndBookings(t *testing.T) {
	f := newFixture(t, WithDemoData())
	ctx := context.Background()
	m := f.server.metrics

	_, err := f.client("").Login(ctx, adminEmail, "wrong-password", true)
	require.Error(t, err)
	admin := f.adminClient(t)
	user, _ := f.signUp(t, "ada@example.com", "KA01AB1234")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("admin", "invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("admin", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("user", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mail.WithLabelValues(SubjectVerify)))

	stations, err := user.ListStations(ctx)
	require.NoError(t, err)
	slots, err := user.ListStationSlots(ctx, stations[0].ID)
	require.NoError(t, err)
	_, err = user.CreateBooking(ctx, domain.BookingRequest{
		SlotID: slots[0].ID, StationID: stations[0].ID,
		Date: "2026-03-02", StartTime: "10:00", EndTime: "11:00",
	})
	require.NoError(t, err)
	mine, err := user.ListMyBookings(ctx)
	require.NoError(t, err)
	_, err = admin.ApproveBooking(ctx, mine[0].ID)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookings.WithLabelValues("pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookings.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("PUT", "/bookings/admin/{id}/approve", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "/admins/login", "401")))
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	_, err := f.client("").ListStations(context.Background())
	require.Error(t, err)

	resp, err := http.Get(f.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `evbook_sandbox_http_requests_total{method="GET",route="/stations",status="401"} 1`)
	assert.NotContains(t, string(body), `route="/metrics"`)

	families, err := f.server.Gatherer().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
