// Package guard decides which views a session may open.
package guard

import (
	"strings"

	"github.com/evbook/evbook/internal/domain"
	"github.com/evbook/evbook/internal/session"
)

// Decision is the outcome of a guard check.
type Decision string

const (
	// DecisionWait means the session is still loading; render a placeholder.
	DecisionWait Decision = "wait"
	// DecisionRedirectLogin means the view is not permitted; show login.
	DecisionRedirectLogin Decision = "redirect_login"
	// DecisionRender means the view may be shown.
	DecisionRender Decision = "render"
)

// AnnotationCapability is the cobra annotation key naming the capability a
// command requires.
const AnnotationCapability = "evbook.capability"

// Route paths.
const (
	PathHome           = "/"
	PathLogin          = "/login"
	PathRegister       = "/register"
	PathForgotPassword = "/forgot-password"
	PathVerifyEmail    = "/verify-email"
	PathUserDashboard  = "/user/dashboard"
	PathAdminDashboard = "/admin/dashboard"
)

// Route is an entry of the route table.
type Route struct {
	Path       string
	Title      string
	Capability domain.Capability
}

var routes = []Route{
	{Path: PathHome, Title: "Home", Capability: domain.CapabilityPublic},
	{Path: PathLogin, Title: "Login", Capability: domain.CapabilityPublic},
	{Path: PathRegister, Title: "Register", Capability: domain.CapabilityPublic},
	{Path: PathForgotPassword, Title: "Forgot Password", Capability: domain.CapabilityPublic},
	{Path: PathVerifyEmail, Title: "Verify Email", Capability: domain.CapabilityPublic},
	{Path: PathUserDashboard, Title: "Dashboard", Capability: domain.CapabilityAuthenticated},
	{Path: PathAdminDashboard, Title: "Admin Dashboard", Capability: domain.CapabilityAdministrative},
}

// Routes returns a copy of the route table.
func Routes() []Route {
	return append([]Route(nil), routes...)
}

// Resolve finds the route for path. Unknown paths resolve to home. Query
// strings and trailing slashes are ignored.
func Resolve(path string) Route {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	for _, r := range routes {
		if r.Path == path {
			return r
		}
	}
	return routes[0]
}

// Check decides whether sess may render a view that needs capability c.
// It never redirects while the session is loading.
func Check(sess session.Session, c domain.Capability) Decision {
	if sess.Loading {
		return DecisionWait
	}
	if !sess.Satisfies(c) {
		return DecisionRedirectLogin
	}
	return DecisionRender
}

// Navigate resolves path and checks it against sess.
func Navigate(sess session.Session, path string) (Route, Decision) {
	r := Resolve(path)
	return r, Check(sess, r.Capability)
}

// Home returns the landing route for a signed-in session.
func Home(sess session.Session) string {
	switch {
	case sess.IsAdministrative():
		return PathAdminDashboard
	case sess.IsAuthenticated():
		return PathUserDashboard
	default:
		return PathHome
	}
}

// CapabilityOf reads the capability annotation. Commands without one are
// public.
func CapabilityOf(annotations map[string]string) domain.Capability {
	return domain.ParseCapability(annotations[AnnotationCapability])
}

// Require returns the annotation map for a command needing c.
func Require(c domain.Capability) map[string]string {
	return map[string]string{AnnotationCapability: c.String()}
}
