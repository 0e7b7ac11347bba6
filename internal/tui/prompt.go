package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// LoginInput is what the login form collects.
type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
}

// loginForm builds the huh form bound to in.
func loginForm(in *LoginInput) *huh.Form {
	email := huh.NewInput().
		Title("Email").
		Placeholder("admin@example.com").
		Validate(validateEmail).
		Value(&in.Email)

	password := huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Validate(validatePassword).
		Value(&in.Password)

	remember := huh.NewConfirm().
		Title("Remember me on this machine?").
		Description("No keeps the session only until you log out of this computer.").
		Affirmative("Yes").
		Negative("No").
		Value(&in.RememberMe)

	return huh.NewForm(huh.NewGroup(email, password, remember))
}

// PromptCredentials asks for email, password and the remember-me choice.
// Fields already set in defaults are pre-filled.
func PromptCredentials(defaults LoginInput) (LoginInput, error) {
	in := defaults
	if err := loginForm(&in).Run(); err != nil {
		return LoginInput{}, fmt.Errorf("prompt failed: %w", err)
	}
	in.Email = strings.TrimSpace(in.Email)
	return in, nil
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if s == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt returns true if prompts should be shown based on environment
// Prompts are disabled in CI environments or when stdin is not a terminal
func ShouldPrompt() bool {
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"BUILDKITE",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}

	return IsInteractive()
}
