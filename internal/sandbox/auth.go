package sandbox

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/evbook/evbook/internal/domain"
)

const minPasswordLength = 6

type tokenClaims struct {
	Role  string `json:"role"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(a *account) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Role:  a.role.String(),
		Admin: a.admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(a.id, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

// authenticate validates the bearer token and loads the caller's account.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header")
		}

		claims := &tokenClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(s.cfg.JWTSecret), nil
		}, jwt.WithTimeFunc(s.now))
		if err != nil || !tkn.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}
		acc, err := s.store.account(id, claims.Admin)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Account no longer exists")
		}
		if acc.blocked {
			return ErrBlocked
		}

		c.Set("account", acc)
		return next(c)
	}
}

func caller(c echo.Context) *account {
	acc, _ := c.Get("account").(*account)
	return acc
}

func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if acc := caller(c); acc == nil || !acc.admin {
			return ErrForbidden
		}
		return next(c)
	}
}

func requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if acc := caller(c); acc == nil || acc.admin {
			return ErrForbidden
		}
		return next(c)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  domain.Principal `json:"user"`
}

func (s *Server) loginUser(c echo.Context) error  { return s.login(c, false) }
func (s *Server) loginAdmin(c echo.Context) error { return s.login(c, true) }

func (s *Server) login(c echo.Context, admin bool) error {
	err := s.authenticateLogin(c, admin)
	s.metrics.login(admin, err)
	return err
}

func (s *Server) authenticateLogin(c echo.Context, admin bool) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return badInput("Email and password are required")
	}

	acc := s.store.lookup(req.Email, admin)
	if acc == nil || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)) != nil {
		return ErrInvalidCredentials
	}
	if acc.blocked {
		return ErrBlocked
	}
	if !acc.verified {
		return ErrUnverified
	}

	token, err := s.issueToken(acc)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: acc.principal()})
}

type registerResponse struct {
	Message string            `json:"message"`
	User    *domain.Principal `json:"user,omitempty"`
}

func (s *Server) registerUser(c echo.Context) error  { return s.register(c, false) }
func (s *Server) registerAdmin(c echo.Context) error { return s.register(c, true) }

func (s *Server) register(c echo.Context, admin bool) error {
	var reg domain.Registration
	if err := c.Bind(&reg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(reg.Name) == "" || strings.TrimSpace(reg.Email) == "" || reg.Password == "" {
		return badInput("Name, email and password are required")
	}
	if len(reg.Password) < minPasswordLength {
		return badInput("Password must be at least %d characters", minPasswordLength)
	}

	acc := &account{
		admin:         admin,
		name:          strings.TrimSpace(reg.Name),
		email:         reg.Email,
		phoneNumber:   strings.TrimSpace(reg.PhoneNumber),
		vehicleNumber: strings.ToUpper(strings.TrimSpace(reg.VehicleNumber)),
		vehicleType:   strings.TrimSpace(reg.VehicleType),
	}
	if admin {
		role, err := domain.ParseRole(reg.Role)
		if err != nil || !role.IsAdministrative() {
			return badInput("Invalid role. Must be super admin or station manager")
		}
		acc.role = role
		acc.verified = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	acc.passwordHash = hash

	created, err := s.store.addAccount(acc)
	if err != nil {
		return err
	}
	p := created.principal()

	if admin {
		return c.JSON(http.StatusCreated, registerResponse{Message: "Admin registered successfully", User: &p})
	}

	token := uuid.NewString()
	s.store.issueVerifyToken(created.id, token)
	s.mail(Mail{To: created.email, Subject: SubjectVerify, Code: token})
	return c.JSON(http.StatusCreated, registerResponse{
		Message: "User registered successfully. Please check your email to verify your account.",
		User:    &p,
	})
}

func (s *Server) verifyEmail(c echo.Context) error {
	if err := s.store.verify(c.Param("token")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Email verified successfully"})
}

func (s *Server) requestReset(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" {
		return badInput("Email is required")
	}
	acc := s.store.lookup(req.Email, false)
	if acc == nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	code, err := newOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	s.store.issueOTP(acc.email, code)
	s.mail(Mail{To: acc.email, Subject: SubjectOTP, Code: code})
	return c.JSON(http.StatusOK, messageResponse{Message: "OTP sent to your email"})
}

type resetConfirmRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) confirmReset(c echo.Context) error {
	var req resetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		return badInput("Email, OTP and new password are required")
	}
	if len(req.NewPassword) < minPasswordLength {
		return badInput("Password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.resetPassword(req.Email, req.OTP, hash); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successfully"})
}

// newOTP returns six random digits.
func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

type profileResponse struct {
	Message string            `json:"message"`
	User    *domain.Principal `json:"user"`
}

func (s *Server) updateProfile(c echo.Context) error {
	var update domain.ProfileUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if update.IsEmpty() {
		return badInput("No fields to update")
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return badInput("Name cannot be empty")
	}
	if update.Email != nil && strings.TrimSpace(*update.Email) == "" {
		return badInput("Email cannot be empty")
	}

	acc, err := s.store.updateProfile(caller(c).id, update)
	if err != nil {
		return err
	}
	p := acc.principal()
	return c.JSON(http.StatusOK, profileResponse{Message: "Profile updated successfully", User: &p})
}

type statsResponse struct {
	Stats domain.UserStats `json:"stats"`
}

func (s *Server) userStats(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	if acc := caller(c); !acc.admin && acc.id != id {
		return ErrForbidden
	}
	return c.JSON(http.StatusOK, statsResponse{Stats: s.store.stats(id)})
}
