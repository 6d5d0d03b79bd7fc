package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingStatus(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"pending", false},
		{"approved", false},
		{"rejected", false},
		{"cancelled", false},
		{"Pending", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := NewBookingStatus(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, got.String())
		})
	}
}

func TestBookingStatus_IsCancellable(t *testing.T) {
	assert.True(t, BookingPending.IsCancellable())
	assert.False(t, BookingApproved.IsCancellable())
	assert.False(t, BookingCancelled.IsCancellable())
}

func TestBooking_DecodesWireShape(t *testing.T) {
	input := `{
		"booking_id": 11,
		"slot_id": 3,
		"slot_number": 2,
		"station_id": "st-1",
		"station_name": "Central",
		"booking_date": "2026-10-20",
		"start_time": "10:00",
		"end_time": "11:00",
		"booking_status": "pending",
		"payment_status": "unpaid"
	}`

	var b Booking
	require.NoError(t, json.Unmarshal([]byte(input), &b))
	assert.Equal(t, ID("11"), b.ID)
	assert.Equal(t, ID("st-1"), b.StationID)
	assert.Equal(t, BookingPending, b.Status)
	assert.Equal(t, 2, b.SlotNumber)
}

func TestAccount_FlagForms(t *testing.T) {
	var accounts []Account
	require.NoError(t, json.Unmarshal([]byte(`[
		{"user_id": 1, "is_blocked": 1, "is_verified": true},
		{"user_id": 2, "is_blocked": "0", "is_verified": false},
		{"user_id": 3}
	]`), &accounts))

	require.Len(t, accounts, 3)
	assert.True(t, bool(accounts[0].Blocked))
	assert.True(t, bool(accounts[0].Verified))
	assert.False(t, bool(accounts[1].Blocked))
	assert.False(t, bool(accounts[2].Blocked))

	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &f))
}

func TestID_JSON(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[1, "abc", null, 12345678901]`), &ids))
	assert.Equal(t, []ID{"1", "abc", "", "12345678901"}, ids)

	data, err := json.Marshal([]ID{"7", "x-1"})
	require.NoError(t, err)
	assert.JSONEq(t, `[7, "x-1"]`, string(data))
	assert.True(t, ID("").IsZero())
}

func TestSlot_IsAvailable(t *testing.T) {
	assert.True(t, Slot{Status: "available"}.IsAvailable())
	assert.False(t, Slot{Status: "occupied"}.IsAvailable())
}
