package log

import "strings"

// Redacted replaces the value of any credential-looking field.
const Redacted = "[REDACTED]"

var credentialKeys = []string{
	"password",
	"new_password",
	"token",
	"otp",
	"authorization",
	"jwt_secret",
}

type redactor map[string]struct{}

func newRedactor(extra []string) redactor {
	r := make(redactor, len(credentialKeys)+len(extra))
	for _, k := range credentialKeys {
		r[k] = struct{}{}
	}
	for _, k := range extra {
		r[strings.ToLower(k)] = struct{}{}
	}
	return r
}

func (r redactor) sensitive(key string) bool {
	key = strings.ToLower(key)
	if _, ok := r[key]; ok {
		return true
	}
	return strings.HasSuffix(key, "_token") || strings.HasSuffix(key, "_password")
}

// apply masks sensitive values in a key/value list. The input slice is
// never modified.
func (r redactor) apply(args []any) []any {
	var out []any
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || !r.sensitive(key) {
			continue
		}
		if out == nil {
			out = append([]any(nil), args...)
		}
		if s, isStr := args[i+1].(string); isStr && s == "" {
			continue
		}
		out[i+1] = Redacted
	}
	if out == nil {
		return args
	}
	return out
}
