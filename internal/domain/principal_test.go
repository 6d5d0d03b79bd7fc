package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipal_UnmarshalIdentifierAliases(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID ID
	}{
		{"user_id number", `{"user_id": 42, "name": "Asha"}`, "42"},
		{"admin_id string", `{"admin_id": "a-7", "name": "Ravi"}`, "a-7"},
		{"legacy id", `{"id": 9, "name": "Old"}`, "9"},
		{"user_id wins", `{"user_id": 1, "admin_id": 2, "id": 3}`, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Principal
			require.NoError(t, json.Unmarshal([]byte(tt.input), &p))
			assert.Equal(t, tt.wantID, p.ID)
		})
	}
}

func TestPrincipal_MarshalWritesUserID(t *testing.T) {
	var p Principal
	require.NoError(t, json.Unmarshal([]byte(`{"admin_id": 5, "name": "Ravi", "role": "station manager"}`), &p))

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, 5, raw["user_id"])
	assert.NotContains(t, raw, "admin_id")
	assert.NotContains(t, raw, "token")
	assert.Equal(t, "station manager", raw["role"])
}

func TestPrincipal_TokenNeverSerialized(t *testing.T) {
	p := Principal{ID: "1", Name: "Asha", Token: "secret-token"}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-token")
}

func TestPrincipal_RoundTripPreservesFields(t *testing.T) {
	p := Principal{
		ID:            "12",
		Name:          "Asha",
		Email:         "asha@example.com",
		Role:          RoleUser,
		PhoneNumber:   "9876543210",
		VehicleNumber: "KA01AB1234",
		VehicleType:   "car",
		Verified:      true,
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got Principal
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, p, got)
}

func TestPrincipal_NullableFields(t *testing.T) {
	var p Principal
	require.NoError(t, json.Unmarshal([]byte(`{"user_id":1,"phone_number":null,"is_verified":1}`), &p))
	assert.Empty(t, p.PhoneNumber)
	assert.True(t, p.Verified)
}

func TestPrincipal_IsAdministrative(t *testing.T) {
	var nilPrincipal *Principal
	assert.False(t, nilPrincipal.IsAdministrative())
	assert.False(t, (&Principal{Role: RoleUser}).IsAdministrative())
	assert.True(t, (&Principal{Role: RoleSuperAdmin}).IsAdministrative())
	assert.True(t, (&Principal{Role: RoleStationManager}).IsAdministrative())
}

func TestProfileUpdate_Apply(t *testing.T) {
	original := &Principal{
		ID:    "7",
		Name:  "Old",
		Email: "old@example.com",
		Role:  RoleUser,
		Token: "tok",
	}
	name := "New"

	updated := ProfileUpdate{Name: &name}.Apply(original)

	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "old@example.com", updated.Email)
	assert.Equal(t, ID("7"), updated.ID)
	assert.Equal(t, "tok", updated.Token)
	assert.Equal(t, "Old", original.Name, "original must not be mutated")

	assert.Nil(t, ProfileUpdate{Name: &name}.Apply(nil))
	assert.True(t, ProfileUpdate{}.IsEmpty())
	assert.False(t, ProfileUpdate{Name: &name}.IsEmpty())
}

func TestRegistration_ConfirmNotSent(t *testing.T) {
	data, err := json.Marshal(Registration{Name: "A", Email: "a@b.co", Password: "Abc123", ConfirmPassword: "Abc123"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "confirm")
	assert.NotContains(t, string(data), "role")
}
