package domain

import (
	"encoding/json"
)

// Principal is the authenticated identity. The token travels with it in
// memory but is persisted under its own key and never serialized here.
type Principal struct {
	ID            ID
	Name          string
	Email         string
	Role          Role
	PhoneNumber   string
	VehicleNumber string
	VehicleType   string
	Verified      bool

	Token string
}

type principalWire struct {
	UserID        ID      `json:"user_id,omitempty"`
	AdminID       ID      `json:"admin_id,omitempty"`
	LegacyID      ID      `json:"id,omitempty"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Role          string  `json:"role,omitempty"`
	IsAdmin       Flag    `json:"isAdmin,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	VehicleNumber *string `json:"vehicle_number,omitempty"`
	VehicleType   *string `json:"vehicle_type,omitempty"`
	IsVerified    Flag    `json:"is_verified,omitempty"`
}

// UnmarshalJSON accepts the identifier as user_id, admin_id or id.
func (p *Principal) UnmarshalJSON(data []byte) error {
	var w principalWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id := w.UserID
	if id.IsZero() {
		id = w.AdminID
	}
	if id.IsZero() {
		id = w.LegacyID
	}

	*p = Principal{
		ID:            id,
		Name:          w.Name,
		Email:         w.Email,
		Role:          RoleFromWire(w.Role, bool(w.IsAdmin)),
		PhoneNumber:   deref(w.PhoneNumber),
		VehicleNumber: deref(w.VehicleNumber),
		VehicleType:   deref(w.VehicleType),
		Verified:      bool(w.IsVerified),
	}
	return nil
}

// MarshalJSON always writes the identifier as user_id.
func (p Principal) MarshalJSON() ([]byte, error) {
	w := principalWire{
		UserID:     p.ID,
		Name:       p.Name,
		Email:      p.Email,
		Role:       p.Role.String(),
		IsAdmin:    Flag(p.Role.IsAdministrative()),
		IsVerified: Flag(p.Verified),
	}
	if p.PhoneNumber != "" {
		w.PhoneNumber = &p.PhoneNumber
	}
	if p.VehicleNumber != "" {
		w.VehicleNumber = &p.VehicleNumber
	}
	if p.VehicleType != "" {
		w.VehicleType = &p.VehicleType
	}
	return json.Marshal(w)
}

// IsAdministrative reports whether the principal holds an administrative role.
func (p *Principal) IsAdministrative() bool {
	return p != nil && p.Role.IsAdministrative()
}

// Clone returns a copy that shares nothing with p.
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// ProfileUpdate holds the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	VehicleNumber *string `json:"vehicle_number,omitempty"`
	VehicleType   *string `json:"vehicle_type,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.PhoneNumber == nil &&
		u.VehicleNumber == nil && u.VehicleType == nil
}

// Apply merges the set fields into a copy of p. Identifier, role and token
// are never touched.
func (u ProfileUpdate) Apply(p *Principal) *Principal {
	next := p.Clone()
	if next == nil {
		return nil
	}
	if u.Name != nil {
		next.Name = *u.Name
	}
	if u.Email != nil {
		next.Email = *u.Email
	}
	if u.PhoneNumber != nil {
		next.PhoneNumber = *u.PhoneNumber
	}
	if u.VehicleNumber != nil {
		next.VehicleNumber = *u.VehicleNumber
	}
	if u.VehicleType != nil {
		next.VehicleType = *u.VehicleType
	}
	return next
}

// Registration is the payload of the register endpoints.
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	VehicleNumber   string `json:"vehicle_number,omitempty"`
	VehicleType     string `json:"vehicle_type,omitempty"`
	Role            string `json:"role,omitempty"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
