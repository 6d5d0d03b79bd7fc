package domain

// Capability is what a view requires of the current session.
type Capability int

const (
	// CapabilityPublic needs nothing.
	CapabilityPublic Capability = iota
	// CapabilityAuthenticated needs a signed-in principal.
	CapabilityAuthenticated
	// CapabilityAdministrative needs a principal with an administrative role.
	CapabilityAdministrative
)

// String returns the string representation
func (c Capability) String() string {
	switch c {
	case CapabilityPublic:
		return "public"
	case CapabilityAuthenticated:
		return "authenticated"
	case CapabilityAdministrative:
		return "administrative"
	default:
		return "unknown"
	}
}

// ParseCapability parses a capability name; unknown names are public.
func ParseCapability(s string) Capability {
	switch s {
	case "authenticated":
		return CapabilityAuthenticated
	case "administrative":
		return CapabilityAdministrative
	default:
		return CapabilityPublic
	}
}
