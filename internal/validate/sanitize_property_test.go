package validate

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TestSanitizeOTPProperties checks the invariants for arbitrary input
func TestSanitizeOTPProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")
		got := SanitizeOTP(input)

		if len(got) > 6 {
			t.Fatalf("SanitizeOTP(%q) = %q, longer than 6", input, got)
		}
		if digitsOf(got) != got {
			t.Fatalf("SanitizeOTP(%q) = %q, contains non-digits", input, got)
		}
		if !strings.HasPrefix(digitsOf(input), got) {
			t.Fatalf("SanitizeOTP(%q) = %q, not a prefix of the input digits", input, got)
		}
		if SanitizeOTP(got) != got {
			t.Fatalf("SanitizeOTP is not idempotent for %q", input)
		}
	})
}

// TestSanitizedOTPValidates checks that six sanitized digits always pass the otp rule
func TestSanitizedOTPValidates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		code := rapid.StringMatching(`[0-9]{6}`).Draw(t, "code")
		noise := rapid.StringMatching(`[ -]{0,3}`).Draw(t, "noise")
		split := rapid.IntRange(0, 6).Draw(t, "split")

		typed := code[:split] + noise + code[split:]
		if got := SanitizeOTP(typed); got != code {
			t.Fatalf("SanitizeOTP(%q) = %q, want %q", typed, got, code)
		}
		form := ResetConfirmForm{Email: "ada@example.com", OTP: SanitizeOTP(typed), NewPassword: "Secret1", ConfirmPassword: "Secret1"}
		if err := Struct(form); err != nil {
			t.Fatalf("sanitized code %q rejected: %v", typed, err)
		}
	})
}

// TestSanitizePhoneProperties checks the phone sanitizer keeps at most ten digits
func TestSanitizePhoneProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")
		got := SanitizePhone(input)

		if len(got) > 10 || digitsOf(got) != got || !strings.HasPrefix(digitsOf(input), got) {
			t.Fatalf("SanitizePhone(%q) = %q", input, got)
		}
	})
}
