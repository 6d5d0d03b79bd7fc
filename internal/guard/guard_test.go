package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evbook/evbook/internal/domain"
	"github.com/evbook/evbook/internal/session"
)

var (
	loading = session.Session{Loading: true}
	anon    = session.Session{}
	user    = session.Session{Principal: &domain.Principal{ID: "1", Role: domain.RoleUser}}
	manager = session.Session{Principal: &domain.Principal{ID: "2", Role: domain.RoleStationManager}}
	super   = session.Session{Principal: &domain.Principal{ID: "3", Role: domain.RoleSuperAdmin}}
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		sess session.Session
		cap  domain.Capability
		want Decision
	}{
		{"loading public", loading, domain.CapabilityPublic, DecisionWait},
		{"loading admin", loading, domain.CapabilityAdministrative, DecisionWait},
		{"anon public", anon, domain.CapabilityPublic, DecisionRender},
		{"anon authenticated", anon, domain.CapabilityAuthenticated, DecisionRedirectLogin},
		{"anon admin", anon, domain.CapabilityAdministrative, DecisionRedirectLogin},
		{"user authenticated", user, domain.CapabilityAuthenticated, DecisionRender},
		{"user admin", user, domain.CapabilityAdministrative, DecisionRedirectLogin},
		{"manager admin", manager, domain.CapabilityAdministrative, DecisionRender},
		{"super admin", super, domain.CapabilityAdministrative, DecisionRender},
		{"admin authenticated", super, domain.CapabilityAuthenticated, DecisionRender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.sess, tt.cap))
		})
	}
}

func TestNavigate_AdminRouteUnauthenticated(t *testing.T) {
	r, d := Navigate(anon, "/admin/dashboard")
	assert.Equal(t, PathAdminDashboard, r.Path)
	assert.Equal(t, DecisionRedirectLogin, d)

	_, d = Navigate(loading, "/admin/dashboard")
	assert.Equal(t, DecisionWait, d)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", PathHome},
		{"/login", PathLogin},
		{"/login/", PathLogin},
		{"/verify-email?token=abc", PathVerifyEmail},
		{"/user/dashboard", PathUserDashboard},
		{"/admin/dashboard#pending", PathAdminDashboard},
		{"/nowhere", PathHome},
		{"", PathHome},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.path).Path)
		})
	}
}

func TestRoutes_Copy(t *testing.T) {
	rs := Routes()
	rs[0].Path = "/changed"
	assert.Equal(t, PathHome, Resolve("/").Path)
	assert.Len(t, Routes(), 7)
}

func TestHome(t *testing.T) {
	assert.Equal(t, PathHome, Home(anon))
	assert.Equal(t, PathUserDashboard, Home(user))
	assert.Equal(t, PathAdminDashboard, Home(manager))
}

func TestCapabilityAnnotations(t *testing.T) {
	assert.Equal(t, domain.CapabilityPublic, CapabilityOf(nil))
	assert.Equal(t, domain.CapabilityAuthenticated, CapabilityOf(Require(domain.CapabilityAuthenticated)))
	assert.Equal(t, domain.CapabilityAdministrative, CapabilityOf(Require(domain.CapabilityAdministrative)))
}
