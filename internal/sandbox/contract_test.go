package sandbox

import (
	"io"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServedRoutesMatchDocument(t *testing.T) {
	s, err := New(Config{JWTSecret: "test-secret-0123456789"})
	require.NoError(t, err)

	assert.Empty(t, s.Drift())
}

func TestDriftFindings(t *testing.T) {
	c, err := LoadContract()
	require.NoError(t, err)

	routes := []*echo.Route{
		{Method: http.MethodGet, Path: "/api/stations"},
		{Method: http.MethodPatch, Path: "/api/stations/:id"},
		{Method: http.MethodGet, Path: "/api/chargers"},
		{Method: http.MethodGet, Path: "/healthz"},
	}
	findings := c.Drift(routes)

	byKey := make(map[string]string)
	for _, f := range findings {
		byKey[f.Method+" "+f.Path] = f.Code
	}
	assert.Equal(t, FindingMissingPath, byKey["GET /chargers"])
	assert.Equal(t, FindingMissingMethod, byKey["PATCH /stations/{id}"])
	assert.Equal(t, FindingUnserved, byKey["POST /users/login"])
	assert.NotContains(t, byKey, "GET /stations")
	assert.NotContains(t, byKey, "GET /healthz")
}

func TestTemplatePath(t *testing.T) {
	tests := map[string]string{
		"/slots/":                       "/slots",
		"/slots/station/:id":            "/slots/station/{id}",
		"/bookings/admin/:id/approve":   "/bookings/admin/{id}/approve",
		"/users/reset-password/confirm": "/users/reset-password/confirm",
		"/":                             "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, templatePath(in), in)
	}
}

func TestDocumentServed(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.srv.URL + "/api/openapi.yaml")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "openapi: 3.0.3")

	c, err := parseContract(body)
	require.NoError(t, err)
	assert.Contains(t, c.Operations(), "PUT /bookings/admin/{id}/approve")
}

func TestInvalidDocumentRejected(t *testing.T) {
	_, err := parseContract([]byte("openapi: 3.0.3\ninfo: {}\npaths: {}\n"))
	require.Error(t, err)
}
