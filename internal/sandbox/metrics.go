package sandbox

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evbook/evbook/internal/domain"
)

const metricsNamespace = "evbook_sandbox"

// metrics are registered per server so several sandboxes can run in one
// process (tests do).
type metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	logins   *prometheus.CounterVec
	bookings *prometheus.CounterVec
	mail     *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "API requests by method, route template and status code.",
		}, []string{"method", "route", "status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "logins_total",
			Help:      "Login attempts by audience (user/admin) and outcome.",
		}, []string{"audience", "outcome"}),
		bookings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "booking_transitions_total",
			Help:      "Bookings entering each state.",
		}, []string{"status"}),
		mail: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "mail_sent_total",
			Help:      "Out-of-band messages by subject.",
		}, []string{"subject"}),
	}
}

// middleware records requests to API routes. Failed requests are counted
// with the status the error handler will send.
func (m *metrics) middleware(resolve func(error) (int, string)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !strings.HasPrefix(c.Path(), apiPrefix+"/") {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status, _ = resolve(err)
			}
			route := templatePath(strings.TrimPrefix(c.Path(), apiPrefix))
			m.requests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			m.latency.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *metrics) login(admin bool, err error) {
	audience := "user"
	if admin {
		audience = "admin"
	}
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCredentials):
		outcome = "invalid_credentials"
	case errors.Is(err, ErrBlocked):
		outcome = "blocked"
	case errors.Is(err, ErrUnverified):
		outcome = "unverified"
	default:
		outcome = "error"
	}
	m.logins.WithLabelValues(audience, outcome).Inc()
}

func (m *metrics) booking(status domain.BookingStatus) {
	m.bookings.WithLabelValues(status.String()).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
