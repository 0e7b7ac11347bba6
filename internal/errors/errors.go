package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeInvalidCredentials ErrorCode = "AUTH-001"
	ErrCodeWrongAudience      ErrorCode = "AUTH-002"
	ErrCodeNotVerified        ErrorCode = "AUTH-003"
	ErrCodeAccessDenied       ErrorCode = "AUTH-004"
	ErrCodeBackendUnavailable ErrorCode = "AUTH-005"
	ErrCodeCredentialsMissing ErrorCode = "AUTH-006"

	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeNotLoggedIn    ErrorCode = "SESSION-001"
	ErrCodeProfileRefresh ErrorCode = "SESSION-002"

	// Navigation errors (NAV-001 to NAV-099)
	ErrCodeViewDenied  ErrorCode = "NAV-001"
	ErrCodeViewUnknown ErrorCode = "NAV-002"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
	ErrCodeConfigParse   ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
)

// BackofficeError represents an enhanced error with code, suggestions, and documentation
type BackofficeError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *BackofficeError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *BackofficeError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the code as a string so loggers can report it
// without importing this package's types.
func (e *BackofficeError) ErrorCode() string {
	return string(e.Code)
}

// New creates a new BackofficeError
func New(code ErrorCode, message string) *BackofficeError {
	return &BackofficeError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new BackofficeError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *BackofficeError {
	return &BackofficeError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *BackofficeError) WithSuggestion(suggestion string) *BackofficeError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *BackofficeError) WithSuggestions(suggestions ...string) *BackofficeError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *BackofficeError) WithDocs(url string) *BackofficeError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewInvalidCredentialsError creates the generic wrong email/password error
func NewInvalidCredentialsError(cause error) *BackofficeError {
	return Wrap(ErrCodeInvalidCredentials, "invalid email or password", cause).
		WithSuggestion("Check the email address and password and try again").
		WithSuggestion("Use the password recovery page if you no longer know your password")
}

// NewNotVerifiedError creates an email-verification-outstanding error
func NewNotVerifiedError(cause error) *BackofficeError {
	return Wrap(ErrCodeNotVerified, "this account's email address has not been verified yet", cause).
		WithSuggestion("Open the verification link sent to your inbox, then sign in again")
}

// NewAccessDeniedError creates an insufficient-privilege error.
// The message must stay distinct from the invalid-credentials one.
func NewAccessDeniedError(role string) *BackofficeError {
	msg := "access denied: this account does not have the privilege level required for the admin panel"
	if role != "" {
		msg = fmt.Sprintf("%s (role: %s)", msg, role)
	}
	return New(ErrCodeAccessDenied, msg).
		WithSuggestion("Ask a super administrator to grant your account the admin role")
}

// NewWrongAudienceError creates an error for an account that belongs to a different login portal
func NewWrongAudienceError(cause error) *BackofficeError {
	return Wrap(ErrCodeWrongAudience, "this account cannot sign in through this portal", cause).
		WithSuggestion("Sign in with an administrator or developer account")
}

// NewBackendUnavailableError creates a transport failure error
func NewBackendUnavailableError(baseURL string, cause error) *BackofficeError {
	return Wrap(ErrCodeBackendUnavailable, fmt.Sprintf("could not reach the backend at %s", baseURL), cause).
		WithSuggestion("Check your network connection").
		WithSuggestion("Set BACKOFFICE_API_URL or api.base_url if the backend moved")
}

// NewCredentialsMissingError creates an error for non-interactive logins without credentials
func NewCredentialsMissingError(flag string) *BackofficeError {
	return New(ErrCodeCredentialsMissing, fmt.Sprintf("--%s is required when not running interactively", flag)).
		WithSuggestion(fmt.Sprintf("Pass --%s or run the command from a terminal", flag))
}

// NewNotLoggedInError creates a no-session error
func NewNotLoggedInError() *BackofficeError {
	return New(ErrCodeNotLoggedIn, "not logged in").
		WithSuggestion("Run 'backoffice login' to sign in")
}

// NewProfileRefreshError creates an error for a failed profile read-modify-write
func NewProfileRefreshError(cause error) *BackofficeError {
	return Wrap(ErrCodeProfileRefresh, "failed to refresh the stored profile", cause).
		WithSuggestion("Run 'backoffice status' to inspect the current session")
}

// NewViewDeniedError creates an error for a view outside the role's navigation
func NewViewDeniedError(view, fallback string) *BackofficeError {
	return New(ErrCodeViewDenied, fmt.Sprintf("view %q is not available to your role, showing %q instead", view, fallback)).
		WithSuggestion("Run 'backoffice nav' to list the views you can open")
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(details string) *BackofficeError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Run 'backoffice config view' to inspect the effective configuration")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *BackofficeError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *BackofficeError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
