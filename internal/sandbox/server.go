// Package sandbox is an in-memory stand-in for the reservation API. It serves
// the same routes and envelopes so the client can be exercised locally.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/evbook/evbook/internal/domain"
	"github.com/evbook/evbook/internal/log"
)

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

// Config configures the sandbox.
type Config struct {
	Addr          string
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
	TokenTTL      time.Duration
}

// Mail is an out-of-band message: an email verification token or a
// password-reset OTP.
type Mail struct {
	To      string
	Subject string
	Code    string
}

// Mail subjects
const (
	SubjectVerify = "verify-email"
	SubjectOTP    = "password-reset"
)

// Server is the sandbox HTTP server.
type Server struct {
	cfg      Config
	echo     *echo.Echo
	contract *Contract
	metrics  *metrics
	store    *store
	logger   *log.Logger
	now      func() time.Time
	mail     func(Mail)
	cost     int
	demo     bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Mail is delivered through it unless WithMailer
// is given.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l.Component("sandbox") }
}

// WithClock replaces time.Now for token and OTP expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithMailer receives verification tokens and OTPs.
func WithMailer(fn func(Mail)) Option {
	return func(s *Server) { s.mail = fn }
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Server) { s.cost = cost }
}

// WithDemoData seeds a few stations and slots.
func WithDemoData() Option {
	return func(s *Server) { s.demo = true }
}

// New builds the server and seeds the administrator account.
func New(cfg Config, opts ...Option) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("sandbox: jwt secret is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}

	s := &Server{
		cfg:    cfg,
		logger: log.Nop(),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.mail == nil {
		s.mail = s.logMail
	}
	s.store = newStore(func() time.Time { return s.now() })
	s.metrics = newMetrics()
	deliver := s.mail
	s.mail = func(m Mail) {
		s.metrics.mail.WithLabelValues(m.Subject).Inc()
		deliver(m)
	}

	contract, err := LoadContract()
	if err != nil {
		return nil, err
	}
	s.contract = contract

	if cfg.AdminEmail != "" {
		if err := s.seedAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, err
		}
	}
	if s.demo {
		s.seedDemo()
	}

	s.echo = s.router()
	return s, nil
}

func (s *Server) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			s.logger.Debug("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"request_id", v.RequestID,
				"duration_ms", v.Latency.Milliseconds(),
			)
			return nil
		},
	}))
	e.Use(s.metrics.middleware(errorStatus))

	e.GET("/metrics", echo.WrapHandler(s.metrics.handler()))

	api := e.Group(apiPrefix)

	api.GET("/openapi.yaml", s.describe)

	api.POST("/users/login", s.loginUser)
	api.POST("/admins/login", s.loginAdmin)
	api.POST("/users/register", s.registerUser)
	api.POST("/admins/register", s.registerAdmin)
	api.GET("/users/verify/:token", s.verifyEmail)
	api.POST("/users/reset-password", s.requestReset)
	api.POST("/users/reset-password/confirm", s.confirmReset)

	authed := s.authenticate
	api.PUT("/users/profile", s.updateProfile, authed, requireUser)
	api.GET("/users/stats/:id", s.userStats, authed)

	api.GET("/stations", s.listStations, authed)
	api.POST("/stations", s.createStation, authed, requireAdmin)
	api.PUT("/stations/:id", s.updateStation, authed, requireAdmin)
	api.DELETE("/stations/:id", s.deleteStation, authed, requireAdmin)

	api.GET("/slots/", s.listSlots, authed)
	api.GET("/slots/station/:id", s.listStationSlots, authed)
	api.POST("/slots/", s.createSlot, authed, requireAdmin)
	api.PUT("/slots/:id", s.updateSlot, authed, requireAdmin)
	api.DELETE("/slots/:id", s.deleteSlot, authed, requireAdmin)

	api.POST("/bookings/user/", s.createBooking, authed, requireUser)
	api.GET("/bookings/user/", s.listMyBookings, authed, requireUser)
	api.PUT("/bookings/user/:id", s.updateBooking, authed, requireUser)
	api.PUT("/bookings/user/:id/cancel", s.cancelBooking, authed, requireUser)
	api.GET("/bookings/admin/pending", s.listPending, authed, requireAdmin)
	api.PUT("/bookings/admin/:id/approve", s.approveBooking, authed, requireAdmin)
	api.PUT("/bookings/admin/:id/reject", s.rejectBooking, authed, requireAdmin)

	api.GET("/admins/users/", s.listAccounts, authed, requireAdmin)
	api.PUT("/admins/users/block/:id", s.blockAccount, authed, requireAdmin)
	api.PUT("/admins/users/unblock/:id", s.unblockAccount, authed, requireAdmin)
	api.DELETE("/admins/users/delete/:id", s.deleteAccount, authed, requireAdmin)

	return e
}

// Gatherer exposes the server's metrics registry.
func (s *Server) Gatherer() prometheus.Gatherer {
	return s.metrics.registry
}

// Handler returns the HTTP handler, for httptest or embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Drift reports routes that disagree with the API document.
func (s *Server) Drift() []Finding {
	return s.contract.Drift(s.echo.Routes())
}

func (s *Server) describe(c echo.Context) error {
	return c.Blob(http.StatusOK, "application/yaml", s.contract.Document())
}

// Start serves on cfg.Addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.cfg.Addr)
	}()

	s.logger.Info("sandbox listening", "addr", s.cfg.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("sandbox shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) logMail(m Mail) {
	s.logger.Info("mail delivered", "to", m.To, "subject", m.Subject, "code", m.Code)
}

func (s *Server) seedAdmin(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("sandbox: hash admin password: %w", err)
	}
	_, err = s.store.addAccount(&account{
		admin:        true,
		role:         domain.RoleSuperAdmin,
		name:         "Sandbox Admin",
		email:        email,
		passwordHash: hash,
		verified:     true,
	})
	return err
}

func (s *Server) seedDemo() {
	demo := []domain.StationInput{
		{Name: "Downtown Hub", Location: "12 Main Street", TotalSlots: 3, ChargingType: "fast", Status: "active"},
		{Name: "Airport Park", Location: "Terminal 2, Level P1", TotalSlots: 2, ChargingType: "slow", Status: "active"},
	}
	for _, in := range demo {
		id, _ := s.store.putStation(0, in)
		for n := 1; n <= in.TotalSlots; n++ {
			_, _ = s.store.putSlot(0, domain.SlotInput{StationID: idOf(id), Number: n, Status: "available"})
		}
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

// handleError renders every failure as {"message": ...}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, msg := errorStatus(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("unhandled error",
			"error", err.Error(),
			"method", c.Request().Method,
			"path", c.Path(),
		)
	}
	_ = c.JSON(code, messageResponse{Message: msg})
}

func errorStatus(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}
	var ie *inputError
	if errors.As(err, &ie) {
		return http.StatusBadRequest, ie.msg
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, ErrBlocked), errors.Is(err, ErrUnverified), errors.Is(err, ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, ErrUserExists), errors.Is(err, ErrInvalidOTP),
		errors.Is(err, ErrInvalidVerify), errors.Is(err, ErrNotPending):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "Internal server error"
}
