package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/evbook/evbook/internal/validate"
)

// Prompt is a single question asked on the terminal by CLI commands that
// were run without the matching flag.
type Prompt struct {
	Title       string
	Placeholder string
	Secret      bool
	Optional    bool
	// Check runs while the user types; its error is shown under the field.
	Check func(string) error
}

// Questions shared by several commands.
var (
	EmailPrompt    = Prompt{Title: "Email", Placeholder: "you@example.com", Check: checkEmail}
	PasswordPrompt = Prompt{Title: "Password", Secret: true}
	OTPPrompt      = Prompt{Title: "Code", Placeholder: "6 digits", Check: checkOTP}
)

func checkEmail(s string) error {
	if s = strings.TrimSpace(s); s != "" && !validate.IsEmail(s) {
		return errors.New("enter a valid email address")
	}
	return nil
}

func checkOTP(s string) error {
	if s != "" && len(validate.SanitizeOTP(s)) != 6 {
		return errors.New("the code has 6 digits")
	}
	return nil
}

func (p Prompt) finish(raw string) (string, error) {
	v := raw
	if !p.Secret {
		v = strings.TrimSpace(v)
	}
	if v == "" && !p.Optional {
		return "", fmt.Errorf("%s is required", strings.ToLower(p.Title))
	}
	if p.Check != nil && v != "" {
		if err := p.Check(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

// Ask shows p and returns the answer.
func Ask(p Prompt) (string, error) {
	var value string
	input := huh.NewInput().
		Title(p.Title + ":").
		Placeholder(p.Placeholder).
		Value(&value)
	if p.Secret {
		input = input.EchoMode(huh.EchoModePassword)
	}
	if p.Check != nil {
		input = input.Validate(p.Check)
	}
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", promptErr(err)
	}
	return p.finish(value)
}

// Fill asks p only when *value is empty and prompting is possible. An
// empty value left behind is reported later by form validation.
func Fill(value *string, p Prompt) error {
	if *value != "" || !ShouldPrompt() {
		return nil
	}
	v, err := Ask(p)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

// Confirm asks a yes/no question that defaults to no.
func Confirm(question string) (bool, error) {
	var ok bool
	field := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)
	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return false, promptErr(err)
	}
	return ok, nil
}

// Choose lets the user pick one of options.
func Choose(title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errors.New("nothing to choose from")
	}
	var picked string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&picked)
	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", promptErr(err)
	}
	return picked, nil
}

// ErrAborted is returned when the user leaves a prompt with ctrl+c.
var ErrAborted = errors.New("prompt aborted")

func promptErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return fmt.Errorf("prompt failed: %w", err)
}

// Prompting is off in CI and when EVBOOK_NO_PROMPT is set.
var noPromptEnv = []string{
	"EVBOOK_NO_PROMPT",
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"BUILDKITE",
}

var (
	getenv     = os.Getenv
	isTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	}
)

// ShouldPrompt reports whether commands may ask questions or open the UI.
func ShouldPrompt() bool {
	for _, key := range noPromptEnv {
		if getenv(key) != "" {
			return false
		}
	}
	return isTerminal()
}
