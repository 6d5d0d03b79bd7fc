package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles the API assigns.
type Role int

const (
	// RoleUser is an ordinary EV driver.
	RoleUser Role = iota
	// RoleSuperAdmin manages every station and account.
	RoleSuperAdmin
	// RoleStationManager manages stations, slots and bookings.
	RoleStationManager
)

// Wire names used by the API.
const (
	roleNameUser           = "user"
	roleNameSuperAdmin     = "super admin"
	roleNameStationManager = "station manager"
)

// ParseRole parses the wire role string. Unknown values are an error.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case roleNameUser, "":
		return RoleUser, nil
	case roleNameSuperAdmin, "super_admin", "superadmin":
		return RoleSuperAdmin, nil
	case roleNameStationManager, "station_manager":
		return RoleStationManager, nil
	default:
		return RoleUser, fmt.Errorf("unknown role %q", s)
	}
}

// RoleFromWire combines the role string with the legacy isAdmin flag. An admin
// flag without a recognised administrative role maps to RoleSuperAdmin.
func RoleFromWire(role string, isAdmin bool) Role {
	r, err := ParseRole(role)
	if err != nil {
		r = RoleUser
	}
	if isAdmin && !r.IsAdministrative() {
		return RoleSuperAdmin
	}
	return r
}

// AdminRoles lists the roles an administrator can register with.
func AdminRoles() []Role {
	return []Role{RoleSuperAdmin, RoleStationManager}
}

// IsAdministrative reports whether the role may use administrative views.
func (r Role) IsAdministrative() bool {
	switch r {
	case RoleSuperAdmin, RoleStationManager:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}

// String returns the wire name of the role
func (r Role) String() string {
	switch r {
	case RoleSuperAdmin:
		return roleNameSuperAdmin
	case RoleStationManager:
		return roleNameStationManager
	default:
		return roleNameUser
	}
}

// MarshalText implements encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
