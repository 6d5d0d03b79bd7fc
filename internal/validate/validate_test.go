package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evbook/evbook/internal/domain"
)

func messageOf(t *testing.T, form any) string {
	t.Helper()
	err := Struct(form)
	if err == nil {
		return ""
	}
	var verr *Error
	require.True(t, errors.As(err, &verr), "expected *validate.Error, got %T", err)
	return verr.Message
}

func TestLoginForm(t *testing.T) {
	tests := []struct {
		name string
		form LoginForm
		want string
	}{
		{"valid", LoginForm{Email: "asha@example.com", Password: "secret1"}, ""},
		{"empty email", LoginForm{Password: "secret1"}, "Please enter your email address"},
		{"bad email", LoginForm{Email: "not-an-email", Password: "secret1"}, "Please enter a valid email address"},
		{"short password", LoginForm{Email: "asha@example.com", Password: "abc"}, "Password must be at least 6 characters long"},
		{"empty password wins over bad email", LoginForm{Email: "bad"}, "Please enter your password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, messageOf(t, tt.form))
		})
	}
}

func TestRegisterForm(t *testing.T) {
	valid := RegisterForm{
		Name:            "Asha",
		Email:           "asha@example.com",
		Password:        "Secret1",
		ConfirmPassword: "Secret1",
		PhoneNumber:     "9876543210",
		VehicleNumber:   "KA-01-AB-1234",
	}

	tests := []struct {
		name   string
		mutate func(f *RegisterForm)
		want   string
	}{
		{"valid", func(f *RegisterForm) {}, ""},
		{"bad email", func(f *RegisterForm) { f.Email = "asha@" }, "Please enter a valid email address"},
		{"short password", func(f *RegisterForm) { f.Password, f.ConfirmPassword = "Ab1", "Ab1" }, "Password must be at least 6 characters long"},
		{"no lowercase", func(f *RegisterForm) { f.Password, f.ConfirmPassword = "SECRET1", "SECRET1" }, "Password must contain at least one lowercase letter"},
		{"no uppercase", func(f *RegisterForm) { f.Password, f.ConfirmPassword = "secret1", "secret1" }, "Password must contain at least one uppercase letter"},
		{"no digit", func(f *RegisterForm) { f.Password, f.ConfirmPassword = "Secrets", "Secrets" }, "Password must contain at least one number"},
		{"mismatch", func(f *RegisterForm) { f.ConfirmPassword = "Secret2" }, "Passwords do not match"},
		{"bad phone", func(f *RegisterForm) { f.PhoneNumber = "12345" }, "Phone number must be exactly 10 digits"},
		{"bad vehicle", func(f *RegisterForm) { f.VehicleNumber = "12AB" }, "Please enter a valid vehicle number (e.g., AB12CD3456)"},
		{"optional fields empty", func(f *RegisterForm) { f.PhoneNumber, f.VehicleNumber = "", "" }, ""},
		{"admin without role", func(f *RegisterForm) { f.Admin = true }, "Please select an admin role"},
		{"admin bad role", func(f *RegisterForm) { f.Admin, f.Role = true, "janitor" }, "Please select an admin role"},
		{"admin with role", func(f *RegisterForm) { f.Admin, f.Role = true, "station manager" }, ""},
		{"missing name", func(f *RegisterForm) { f.Name = "" }, "Please enter your name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			assert.Equal(t, tt.want, messageOf(t, f))
		})
	}
}

func TestRegisterFormFrom(t *testing.T) {
	f := RegisterFormFrom(domain.Registration{Name: "A", Email: "a@b.co", Role: "super admin"}, true)
	assert.True(t, f.Admin)
	assert.Equal(t, "super admin", f.Role)
	assert.Equal(t, "a@b.co", f.Email)
}

func TestResetForms(t *testing.T) {
	assert.Equal(t, "Please enter your email address", messageOf(t, ResetRequestForm{}))
	assert.Equal(t, "Please enter a valid email address", messageOf(t, ResetRequestForm{Email: "nope"}))
	assert.Equal(t, "", messageOf(t, ResetRequestForm{Email: "a@b.co"}))

	tests := []struct {
		name string
		form ResetConfirmForm
		want string
	}{
		{"valid", ResetConfirmForm{"a@b.co", "123456", "newpass", "newpass"}, ""},
		{"missing otp", ResetConfirmForm{"a@b.co", "", "newpass", "newpass"}, "Please fill in all fields"},
		{"missing confirm beats bad otp", ResetConfirmForm{"a@b.co", "12", "newpass", ""}, "Please fill in all fields"},
		{"short otp", ResetConfirmForm{"a@b.co", "123", "newpass", "newpass"}, "Please enter the 6-digit code from your email"},
		{"short password", ResetConfirmForm{"a@b.co", "123456", "abc", "abc"}, "Password must be at least 6 characters long"},
		{"mismatch", ResetConfirmForm{"a@b.co", "123456", "newpass", "newpas2"}, "Passwords do not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, messageOf(t, tt.form))
		})
	}
}

func TestBookingForm(t *testing.T) {
	valid := BookingForm{StationID: "1", SlotID: "2", Date: "2026-10-20", StartTime: "10:00", EndTime: "11:30"}
	assert.Equal(t, "", messageOf(t, valid))

	noSlot := valid
	noSlot.SlotID = ""
	assert.Equal(t, "Please select a slot", messageOf(t, noSlot))

	badDate := valid
	badDate.Date = "20/10/2026"
	assert.Equal(t, "Booking date must look like 2025-01-31", messageOf(t, badDate))

	backwards := valid
	backwards.EndTime = "09:00"
	assert.Equal(t, "End time must be after start time", messageOf(t, backwards))

	badClock := valid
	badClock.StartTime = "25:00"
	assert.Equal(t, "Start time must be a time like 14:30", messageOf(t, badClock))
}

func TestStationAndSlotForms(t *testing.T) {
	assert.Equal(t, "", messageOf(t, StationForm{Name: "S", Location: "L", TotalSlots: 2, ChargingType: "fast", Status: "active"}))
	assert.Equal(t, "Please enter the station name", messageOf(t, StationForm{Location: "L", TotalSlots: 2, ChargingType: "fast", Status: "active"}))
	assert.Contains(t, messageOf(t, StationForm{Name: "S", Location: "L", TotalSlots: 2, ChargingType: "warp", Status: "active"}), "fast slow")

	assert.Equal(t, "Please select a station", messageOf(t, SlotForm{Number: 1, Status: "available"}))
	assert.Equal(t, "", messageOf(t, SlotForm{StationID: "1", Number: 1, Status: "available"}))
	assert.Equal(t, "", messageOf(t, ProfileForm{Name: "Asha"}))
}

func TestIsVehicleNumber(t *testing.T) {
	for _, ok := range []string{"KA01AB1234", "KA-01-AB-1234", "ka 1 a 1234", " MH12DE1433 "} {
		assert.True(t, IsVehicleNumber(ok), ok)
	}
	for _, bad := range []string{"", "K01AB1234", "KA01AB123", "KA001AB1234", "KA01ABC1234"} {
		assert.False(t, IsVehicleNumber(bad), bad)
	}
}

func TestSanitizeOTP(t *testing.T) {
	assert.Equal(t, "123456", SanitizeOTP("12a3b456789"))
	assert.Equal(t, "12", SanitizeOTP("1-2"))
	assert.Equal(t, "", SanitizeOTP("abc"))
	assert.Equal(t, "9876543210", SanitizePhone("+91 98765-43210x"[3:]))
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("a@b.co"))
	assert.False(t, IsEmail("a b@c.d"))
	assert.False(t, IsEmail("a@b"))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "phone number", humanize("PhoneNumber"))
	assert.Equal(t, "otp", humanize("OTP"))
	assert.Equal(t, "station id", humanize("StationID"))
}
