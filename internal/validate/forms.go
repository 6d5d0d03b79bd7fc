package validate

import "github.com/evbook/evbook/internal/domain"

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `validate:"required,emailaddr"`
	Password string `validate:"required,min=6"`
}

// Messages implements Messager
func (LoginForm) Messages() map[string]string {
	return map[string]string{
		"Email.required":    "Please enter your email address",
		"Password.required": "Please enter your password",
	}
}

// RegisterForm is the sign-up form for users and administrators.
type RegisterForm struct {
	Admin           bool
	Name            string `validate:"required"`
	Email           string `validate:"required,emailaddr"`
	Password        string `validate:"required,min=6,strongpw"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	PhoneNumber     string `validate:"omitempty,phone"`
	VehicleNumber   string `validate:"omitempty,vehicle"`
	VehicleType     string
	Role            string `validate:"required_if=Admin true,omitempty,oneof='super admin' 'station manager'"`
}

// Messages implements Messager
func (RegisterForm) Messages() map[string]string {
	return map[string]string{
		"Email.required":           "Please enter your email address",
		"Password.required":        "Please enter a password",
		"ConfirmPassword.required": "Please confirm your password",
		"Role.required_if":         "Please select an admin role",
		"Role.oneof":               "Please select an admin role",
	}
}

// RegisterFormFrom builds the form from a registration payload.
func RegisterFormFrom(reg domain.Registration, admin bool) RegisterForm {
	return RegisterForm{
		Admin:           admin,
		Name:            reg.Name,
		Email:           reg.Email,
		Password:        reg.Password,
		ConfirmPassword: reg.ConfirmPassword,
		PhoneNumber:     reg.PhoneNumber,
		VehicleNumber:   reg.VehicleNumber,
		VehicleType:     reg.VehicleType,
		Role:            reg.Role,
	}
}

// ResetRequestForm is the first step of the password reset.
type ResetRequestForm struct {
	Email string `validate:"required,emailaddr"`
}

// Messages implements Messager
func (ResetRequestForm) Messages() map[string]string {
	return map[string]string{
		"Email.required": "Please enter your email address",
	}
}

// ResetConfirmForm is the second step of the password reset.
type ResetConfirmForm struct {
	Email           string `validate:"required"`
	OTP             string `validate:"required,otp"`
	NewPassword     string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=NewPassword"`
}

// Messages implements Messager
func (ResetConfirmForm) Messages() map[string]string {
	return map[string]string{
		"Email.required":           "Please fill in all fields",
		"OTP.required":             "Please fill in all fields",
		"NewPassword.required":     "Please fill in all fields",
		"ConfirmPassword.required": "Please fill in all fields",
	}
}

// ProfileForm is the editable profile.
type ProfileForm struct {
	Name          string `validate:"required"`
	PhoneNumber   string `validate:"omitempty,phone"`
	VehicleNumber string `validate:"omitempty,vehicle"`
	VehicleType   string
}

// StationForm is the administrator's station editor.
type StationForm struct {
	Name         string `validate:"required"`
	Location     string `validate:"required"`
	TotalSlots   int    `validate:"gt=0"`
	ChargingType string `validate:"oneof=fast slow"`
	Status       string `validate:"oneof=active inactive maintenance"`
}

// Messages implements Messager
func (StationForm) Messages() map[string]string {
	return map[string]string{
		"Name.required":     "Please enter the station name",
		"Location.required": "Please enter the station location",
	}
}

// SlotForm is the administrator's slot editor.
type SlotForm struct {
	StationID string `validate:"required"`
	Number    int    `validate:"gt=0"`
	Status    string `validate:"oneof=available occupied maintenance"`
}

// Messages implements Messager
func (SlotForm) Messages() map[string]string {
	return map[string]string{
		"StationID.required": "Please select a station",
	}
}

// BookingForm is the booking modal.
type BookingForm struct {
	StationID string `validate:"required"`
	SlotID    string `validate:"required"`
	Date      string `validate:"required,datetime=2006-01-02"`
	StartTime string `validate:"required,clock"`
	EndTime   string `validate:"required,clock"`
}

// Messages implements Messager
func (BookingForm) Messages() map[string]string {
	return map[string]string{
		"StationID.required": "Please select a station",
		"SlotID.required":    "Please select a slot",
		"Date.required":      "Please select a booking date",
		"Date.datetime":      "Booking date must look like 2025-01-31",
		"StartTime.required": "Please select a start time",
		"EndTime.required":   "Please select an end time",
		"EndTime.after":      "End time must be after start time",
	}
}
