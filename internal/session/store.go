// Package session owns the signed-in principal.
//
// The Store is the only writer of the persisted session and the only source
// of Session snapshots. Every mutation writes storage first and memory
// second under one lock, so a failed write leaves both untouched.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/evbook/evbook/internal/apiclient"
	"github.com/evbook/evbook/internal/domain"
	"github.com/evbook/evbook/internal/log"
	"github.com/evbook/evbook/internal/storage"
	"github.com/evbook/evbook/internal/validate"
)

// API is the part of the remote API the store calls.
type API interface {
	Login(ctx context.Context, email, password string, asAdmin bool) (*apiclient.LoginResponse, error)
	Register(ctx context.Context, reg domain.Registration, asAdmin bool) (*apiclient.RegisterResponse, error)
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Principal, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ConfirmPasswordReset(ctx context.Context, req apiclient.ResetConfirmRequest) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
}

// Store holds the authentication state.
type Store struct {
	backend storage.Backend
	api     API
	logger  *log.Logger
	nav     Navigator
	now     func() time.Time

	mu        sync.RWMutex
	principal *domain.Principal
	loading   bool

	listenersMu sync.Mutex
	listeners   map[int]func(Session)
	nextID      int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.Component("session") }
}

// WithNavigator sets the navigation target for logout and expiry.
func WithNavigator(n Navigator) Option {
	return func(s *Store) { s.nav = n }
}

// WithClock overrides the clock used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store in the loading state. Call Hydrate before use.
func NewStore(backend storage.Backend, api API, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		api:       api,
		logger:    log.Nop(),
		nav:       NopNavigator{},
		now:       time.Now,
		loading:   true,
		listeners: make(map[int]func(Session)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNavigator replaces the navigator, e.g. once the UI program exists.
func (s *Store) SetNavigator(n Navigator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == nil {
		n = NopNavigator{}
	}
	s.nav = n
}

func (s *Store) navigator() Navigator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nav
}

// Session returns a snapshot of the current state.
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Session {
	return Session{Principal: s.principal.Clone(), Loading: s.loading}
}

// Subscribe registers fn to be called after every state change. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify() {
	snap := s.Session()

	s.listenersMu.Lock()
	fns := make([]func(Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Token returns the persisted bearer token, or "" when signed out. It
// satisfies apiclient.TokenSource.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, err := s.backend.Get(ctx, storage.KeyToken)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return token, err
}

// Hydrate restores the session from storage without any network call.
// A token without a principal, a principal without a token, an undecodable
// principal or document, or an expired token all end signed out with storage
// cleared.
func (s *Store) Hydrate(ctx context.Context) Session {
	s.mu.Lock()
	p, stale := s.readPersisted(ctx)
	if stale {
		if err := s.backend.Delete(ctx, storage.KeyToken, storage.KeyUser); err != nil {
			s.logger.WithError(err).Warn("failed to clear stale session")
		}
	}
	s.principal = p
	s.loading = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if p != nil {
		s.logger.Debug("session restored", "user_id", p.ID.String(), "role", p.Role.String())
	}
	s.notify()
	return snap
}

// readPersisted returns the stored principal, and whether storage holds
// leftovers that must be cleared.
func (s *Store) readPersisted(ctx context.Context) (*domain.Principal, bool) {
	token, tokenErr := s.backend.Get(ctx, storage.KeyToken)
	raw, userErr := s.backend.Get(ctx, storage.KeyUser)

	hasToken := tokenErr == nil && token != ""
	hasUser := userErr == nil && raw != ""

	for _, err := range []error{tokenErr, userErr} {
		switch {
		case err == nil, errors.Is(err, storage.ErrNotFound):
		case errors.Is(err, storage.ErrCorrupt):
			s.logger.WithError(err).Warn("discarding corrupt session storage")
			return nil, true
		default:
			s.logger.WithError(err).Warn("failed to read session storage")
			return nil, false
		}
	}

	if !hasToken && !hasUser {
		return nil, false
	}
	if !hasToken || !hasUser {
		return nil, true
	}

	var p domain.Principal
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.logger.WithError(err).Warn("discarding undecodable session")
		return nil, true
	}
	if s.tokenExpired(token) {
		s.logger.Info("discarding expired session")
		return nil, true
	}

	p.Token = token
	return &p, false
}

// tokenExpired reads the exp claim without verifying the signature; the
// client never holds the signing key. Opaque tokens never expire here.
func (s *Store) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}

// persistLocked writes the principal (and token when withToken) and then swaps
// memory. Callers hold s.mu.
func (s *Store) persistLocked(ctx context.Context, p *domain.Principal, withToken bool) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode principal: %w", err)
	}

	entries := map[string]string{storage.KeyUser: string(raw)}
	if withToken {
		entries[storage.KeyToken] = p.Token
	}
	if err := s.backend.Put(ctx, entries); err != nil {
		return err
	}

	s.principal = p
	return nil
}

// Login signs in a user, or an administrator when asAdmin is set.
func (s *Store) Login(ctx context.Context, email, password string, asAdmin bool) Result {
	email = strings.TrimSpace(email)
	if err := validate.Struct(validate.LoginForm{Email: email, Password: password}); err != nil {
		return fail(KindValidation, err.Error())
	}

	resp, err := s.api.Login(ctx, email, password, asAdmin)
	if err != nil {
		r := loginFailure(err)
		s.logger.Info("login failed", "kind", r.Kind.String(), "admin", asAdmin)
		return r
	}
	if resp.Token == "" {
		return fail(KindUnknown, msgLoginNoToken)
	}

	p := resp.User
	p.Token = resp.Token
	if p.Email == "" {
		p.Email = email
	}

	s.mu.Lock()
	err = s.persistLocked(ctx, &p, true)
	s.mu.Unlock()
	if err != nil {
		s.logger.WithError(err).Error("failed to save session")
		return fail(KindStorage, msgSaveFailed)
	}

	s.logger.Info("signed in", "user_id", p.ID.String(), "role", p.Role.String())
	s.notify()

	r := ok(fmt.Sprintf("Welcome back, %s!", p.Name))
	r.Principal = p.Clone()
	return r
}

func loginFailure(err error) Result {
	server := apiclient.ServerMessage(err)
	kind := kindFromAPI(apiclient.KindOf(err))

	switch kind {
	case KindUnauthorized:
		return fail(kind, orDefault(server, msgInvalidCredentials))
	case KindForbidden:
		return fail(kind, orDefault(server, msgBlocked))
	case KindBadRequest:
		return fail(kind, orDefault(server, msgBadRequest))
	case KindUnreachable:
		return fail(kind, msgUnreachable)
	default:
		return fail(kind, orDefault(server, msgLoginFailed))
	}
}

// Register creates an account. Users must verify their email before they
// can sign in; administrators can sign in immediately.
func (s *Store) Register(ctx context.Context, reg domain.Registration, asAdmin bool) Result {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.VehicleNumber = strings.ToUpper(strings.TrimSpace(reg.VehicleNumber))
	if err := validate.Struct(validate.RegisterFormFrom(reg, asAdmin)); err != nil {
		return fail(KindValidation, err.Error())
	}

	resp, err := s.api.Register(ctx, reg, asAdmin)
	if err != nil {
		r := registerFailure(err)
		s.logger.Info("registration failed", "kind", r.Kind.String(), "admin", asAdmin)
		return r
	}

	r := ok(msgRegisteredUser)
	if asAdmin {
		r.Message = msgRegisteredAdmin
	}
	r.NeedsVerification = !asAdmin
	r.Principal = resp.User
	return r
}

func registerFailure(err error) Result {
	server := apiclient.ServerMessage(err)
	kind := kindFromAPI(apiclient.KindOf(err))
	lower := strings.ToLower(server)

	switch {
	case strings.Contains(lower, "already exists"):
		return fail(kind, msgEmailTaken)
	case strings.Contains(lower, "duplicate entry") && strings.Contains(lower, "vehicle_number"):
		return fail(kind, msgVehicleTaken)
	case strings.Contains(lower, "duplicate entry"):
		return fail(kind, msgDuplicate)
	case kind == KindUnreachable:
		return fail(kind, msgUnreachable)
	default:
		return fail(kind, orDefault(server, msgRegisterFailed))
	}
}

// Logout clears storage and memory and resets every view. It always ends
// signed out; a storage failure is reported in the result.
func (s *Store) Logout(ctx context.Context) Result {
	s.mu.Lock()
	// An interrupted caller must not leave storage behind once memory is cleared.
	err := s.backend.Delete(context.WithoutCancel(ctx), storage.KeyToken, storage.KeyUser)
	s.principal = nil
	s.loading = false
	s.mu.Unlock()

	s.notify()
	s.navigator().Reset()

	if err != nil {
		s.logger.WithError(err).Error("failed to clear session storage")
		return fail(KindStorage, msgLogoutStorage)
	}
	s.logger.Info("signed out")
	return ok(msgLoggedOut)
}

// Expire is the unauthorized hook: the server rejected the token.
func (s *Store) Expire() {
	s.mu.Lock()
	had := s.principal != nil
	err := s.backend.Delete(context.Background(), storage.KeyToken, storage.KeyUser)
	s.principal = nil
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		s.logger.WithError(err).Error("failed to clear expired session")
	}
	if had {
		s.logger.Warn("session expired")
	}
	s.notify()
	s.navigator().RedirectToLogin()
}

// UpdateProfile merges the set fields into the principal and persists it.
// Identifier, role and token are never changed.
func (s *Store) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) Result {
	s.mu.Lock()
	if s.principal == nil {
		s.mu.Unlock()
		return fail(KindUnauthenticated, msgLoginRequired)
	}
	next := update.Apply(s.principal)
	err := s.persistLocked(ctx, next, false)
	s.mu.Unlock()

	if err != nil {
		s.logger.WithError(err).Error("failed to save profile")
		return fail(KindStorage, msgSaveFailed)
	}

	s.notify()
	r := ok(msgProfileUpdated)
	r.Principal = next.Clone()
	return r
}

// SaveProfile sends profile changes to the server, then merges the server's
// copy of the user locally.
func (s *Store) SaveProfile(ctx context.Context, update domain.ProfileUpdate) Result {
	current := s.Session().Principal
	if current == nil {
		return fail(KindUnauthenticated, msgLoginRequired)
	}

	merged := update.Apply(current)
	if err := validate.Struct(validate.ProfileForm{
		Name:          merged.Name,
		PhoneNumber:   merged.PhoneNumber,
		VehicleNumber: merged.VehicleNumber,
		VehicleType:   merged.VehicleType,
	}); err != nil {
		return fail(KindValidation, err.Error())
	}

	returned, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		kind := kindFromAPI(apiclient.KindOf(err))
		if kind == KindUnreachable {
			return fail(kind, msgUnreachable)
		}
		return fail(kind, orDefault(apiclient.ServerMessage(err), msgProfileFailed))
	}

	if returned != nil {
		update = presentFields(returned)
	}
	return s.UpdateProfile(ctx, update)
}

// presentFields builds an update from the non-empty editable fields of p.
func presentFields(p *domain.Principal) domain.ProfileUpdate {
	var u domain.ProfileUpdate
	set := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}
	u.Name = set(p.Name)
	u.Email = set(p.Email)
	u.PhoneNumber = set(p.PhoneNumber)
	u.VehicleNumber = set(p.VehicleNumber)
	u.VehicleType = set(p.VehicleType)
	return u
}

// RequestPasswordReset asks the server to email a one-time code. The code
// is valid for ten minutes; the server enforces that.
func (s *Store) RequestPasswordReset(ctx context.Context, email string) Result {
	email = strings.TrimSpace(email)
	if err := validate.Struct(validate.ResetRequestForm{Email: email}); err != nil {
		return fail(KindValidation, err.Error())
	}

	if _, err := s.api.RequestPasswordReset(ctx, email); err != nil {
		return apiFailure(err, msgOTPFailed)
	}
	return ok(msgOTPSent)
}

// ConfirmPasswordReset sets a new password with the emailed code in a
// single request carrying exactly email, code and new password.
func (s *Store) ConfirmPasswordReset(ctx context.Context, email, otp, newPassword string) Result {
	email = strings.TrimSpace(email)
	if err := validate.Struct(validate.ResetConfirmForm{
		Email:           email,
		OTP:             otp,
		NewPassword:     newPassword,
		ConfirmPassword: newPassword,
	}); err != nil {
		return fail(KindValidation, err.Error())
	}

	_, err := s.api.ConfirmPasswordReset(ctx, apiclient.ResetConfirmRequest{
		Email:       email,
		OTP:         otp,
		NewPassword: newPassword,
	})
	if err != nil {
		return apiFailure(err, msgPasswordResetFail)
	}
	return ok(msgPasswordReset)
}

// VerifyEmail confirms an address with the token from the verification link.
func (s *Store) VerifyEmail(ctx context.Context, token string) Result {
	token = strings.TrimSpace(token)
	if token == "" {
		return fail(KindValidation, msgNoVerifyToken)
	}

	if _, err := s.api.VerifyEmail(ctx, token); err != nil {
		kind := kindFromAPI(apiclient.KindOf(err))
		if kind == KindUnreachable {
			return fail(kind, msgVerifyUnreachable)
		}
		return fail(kind, msgVerifyFailed)
	}
	return ok(msgVerified)
}

func apiFailure(err error, fallback string) Result {
	kind := kindFromAPI(apiclient.KindOf(err))
	if kind == KindUnreachable {
		return fail(kind, msgUnreachable)
	}
	return fail(kind, orDefault(apiclient.ServerMessage(err), fallback))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
