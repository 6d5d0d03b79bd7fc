package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withPromptEnv(t *testing.T, env map[string]string, terminal bool) {
	t.Helper()
	origEnv, origTerm := getenv, isTerminal
	t.Cleanup(func() { getenv, isTerminal = origEnv, origTerm })
	getenv = func(k string) string { return env[k] }
	isTerminal = func() bool { return terminal }
}

func TestShouldPrompt(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		terminal bool
		want     bool
	}{
		{"terminal", nil, true, true},
		{"piped", nil, false, false},
		{"ci", map[string]string{"CI": "true"}, true, false},
		{"github actions", map[string]string{"GITHUB_ACTIONS": "true"}, true, false},
		{"opted out", map[string]string{"EVBOOK_NO_PROMPT": "1"}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withPromptEnv(t, tt.env, tt.terminal)
			assert.Equal(t, tt.want, ShouldPrompt())
		})
	}
}

func TestFillSkipsWithoutTerminal(t *testing.T) {
	withPromptEnv(t, nil, false)

	value := ""
	require.NoError(t, Fill(&value, EmailPrompt))
	assert.Empty(t, value)

	value = "ana@example.com"
	withPromptEnv(t, nil, true)
	require.NoError(t, Fill(&value, EmailPrompt))
	assert.Equal(t, "ana@example.com", value)
}

func TestPromptFinish(t *testing.T) {
	v, err := EmailPrompt.finish("  ana@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", v)

	_, err = EmailPrompt.finish("   ")
	assert.EqualError(t, err, "email is required")

	_, err = EmailPrompt.finish("not-an-email")
	assert.EqualError(t, err, "enter a valid email address")

	v, err = PasswordPrompt.finish(" pass word ")
	require.NoError(t, err)
	assert.Equal(t, " pass word ", v, "secrets are kept verbatim")

	v, err = Prompt{Title: "Phone", Optional: true}.finish("")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestCheckOTP(t *testing.T) {
	assert.NoError(t, checkOTP(""))
	assert.NoError(t, checkOTP("123456"))
	assert.NoError(t, checkOTP("123 456"))
	assert.Error(t, checkOTP("12345"))
}

func TestChooseNeedsOptions(t *testing.T) {
	_, err := Choose("Admin role:", nil)
	assert.Error(t, err)
}
