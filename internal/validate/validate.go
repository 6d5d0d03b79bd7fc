// Package validate checks form input before any request is sent and turns
// failures into the messages shown to the user.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe   = regexp.MustCompile(`^\d{10}$`)
	otpRe     = regexp.MustCompile(`^\d{6}$`)
	vehicleRe = regexp.MustCompile(`(?i)^[A-Z]{2}[-\s]?[0-9]{1,2}[-\s]?[A-Z]{1,2}[-\s]?[0-9]{4}$`)
	timeRe    = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// Error is a validation failure of one form field.
type Error struct {
	Field   string
	Tag     string
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Messager lets a form override messages by "Field.tag" or "Field".
type Messager interface {
	Messages() map[string]string
}

// Validator wraps go-playground/validator with the evbook rules registered.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the custom tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "emailaddr", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "otp", func(fl validator.FieldLevel) bool {
		return otpRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "vehicle", func(fl validator.FieldLevel) bool {
		return IsVehicleNumber(fl.Field().String())
	})
	mustRegister(v, "strongpw", func(fl validator.FieldLevel) bool {
		return passwordStrengthProblem(fl.Field().String()) == ""
	})
	mustRegister(v, "clock", func(fl validator.FieldLevel) bool {
		return timeRe.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(bookingWindow, BookingForm{})
	return &Validator{v: v}
}

// bookingWindow rejects bookings whose end time is not after the start time.
func bookingWindow(sl validator.StructLevel) {
	f, ok := sl.Current().Interface().(BookingForm)
	if !ok || !timeRe.MatchString(f.StartTime) || !timeRe.MatchString(f.EndTime) {
		return
	}
	if f.EndTime <= f.StartTime {
		sl.ReportError(f.EndTime, "EndTime", "EndTime", "after", "StartTime")
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %s: %v", tag, err))
	}
}

var (
	defaultValidator *Validator
	defaultOnce      sync.Once
)

// Default returns the process-wide Validator.
func Default() *Validator {
	defaultOnce.Do(func() { defaultValidator = New() })
	return defaultValidator
}

// Struct validates form with the default Validator.
func Struct(form any) error {
	return Default().Struct(form)
}

// Struct validates form and returns the first failure as *Error, or nil.
// Missing required fields are reported before any other failure; otherwise
// fields are checked in declaration order.
func (val *Validator) Struct(form any) error {
	err := val.v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	for _, candidate := range verrs {
		if strings.HasPrefix(candidate.Tag(), "required") {
			fe = candidate
			break
		}
	}

	var overrides map[string]string
	if m, ok := asMessager(form); ok {
		overrides = m.Messages()
	}
	return &Error{
		Field:   fe.Field(),
		Tag:     fe.Tag(),
		Message: message(fe, overrides),
	}
}

func asMessager(form any) (Messager, bool) {
	m, ok := form.(Messager)
	return m, ok
}

// message converts a single FieldError into the user-facing message.
func message(fe validator.FieldError, overrides map[string]string) string {
	if msg, ok := overrides[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := overrides[fe.Field()]; ok {
		return msg
	}

	field := humanize(fe.Field())
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("Please enter your %s", field)
	case "emailaddr", "email":
		return "Please enter a valid email address"
	case "min":
		if strings.Contains(strings.ToLower(fe.Field()), "password") {
			return fmt.Sprintf("Password must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", capitalize(field), fe.Param())
	case "strongpw":
		return passwordStrengthProblem(fmt.Sprint(fe.Value()))
	case "eqfield":
		return "Passwords do not match"
	case "phone":
		return "Phone number must be exactly 10 digits"
	case "vehicle":
		return "Please enter a valid vehicle number (e.g., AB12CD3456)"
	case "otp":
		return "Please enter the 6-digit code from your email"
	case "clock":
		return fmt.Sprintf("%s must be a time like 14:30", capitalize(field))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", capitalize(field), fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s", capitalize(field), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", capitalize(field))
	}
}

// passwordStrengthProblem returns the first unmet rule, or "".
func passwordStrengthProblem(pw string) string {
	var lower, upper, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	switch {
	case !lower:
		return "Password must contain at least one lowercase letter"
	case !upper:
		return "Password must contain at least one uppercase letter"
	case !digit:
		return "Password must contain at least one number"
	}
	return ""
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsVehicleNumber reports whether s has the AB12CD3456 shape, with optional
// dash or space separators.
func IsVehicleNumber(s string) bool {
	return vehicleRe.MatchString(strings.TrimSpace(s))
}

// SanitizeOTP keeps only digits and truncates to six.
func SanitizeOTP(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 6 {
				break
			}
		}
	}
	return b.String()
}

// SanitizePhone keeps only digits and truncates to ten.
func SanitizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 10 {
				break
			}
		}
	}
	return b.String()
}

// humanize turns "PhoneNumber" into "phone number".
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			prev := rune(field[i-1])
			if !unicode.IsUpper(prev) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
