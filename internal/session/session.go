package session

import "github.com/evbook/evbook/internal/domain"

// Session is a read-only snapshot of the authentication state.
type Session struct {
	Principal *domain.Principal
	Loading   bool
}

// IsAuthenticated reports whether a principal is signed in.
func (s Session) IsAuthenticated() bool {
	return s.Principal != nil
}

// IsAdministrative reports whether the principal holds an administrative role.
func (s Session) IsAdministrative() bool {
	return s.Principal.IsAdministrative()
}

// Satisfies reports whether the session meets capability c.
func (s Session) Satisfies(c domain.Capability) bool {
	switch c {
	case domain.CapabilityPublic:
		return true
	case domain.CapabilityAuthenticated:
		return s.IsAuthenticated()
	case domain.CapabilityAdministrative:
		return s.IsAdministrative()
	default:
		return false
	}
}

// Navigator performs the navigation side effects of logout and expiry.
type Navigator interface {
	// Reset discards all view state and returns to the application root.
	Reset()
	// RedirectToLogin shows the login view.
	RedirectToLogin()
}

// NopNavigator ignores navigation requests.
type NopNavigator struct{}

// Reset implements Navigator
func (NopNavigator) Reset() {}

// RedirectToLogin implements Navigator
func (NopNavigator) RedirectToLogin() {}
