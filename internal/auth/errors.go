package auth

import (
	"errors"
	"fmt"
)

// Error codes of the sign-in taxonomy.
const (
	// ErrInvalidCredentials: the email/password matched no account of the audience.
	ErrInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	// ErrWrongAudience: valid credentials for an account of the other audience.
	ErrWrongAudience = "AUTH_WRONG_AUDIENCE"
	// ErrNotVerified: the account's email verification is outstanding.
	ErrNotVerified = "AUTH_NOT_VERIFIED"
	// ErrAccessDenied: signed in, but the role may not use the admin panel.
	ErrAccessDenied = "AUTH_ACCESS_DENIED"
	// ErrTransportFailure: network or server failure unrelated to credentials.
	ErrTransportFailure = "AUTH_TRANSPORT_FAILURE"
)

// AuthError represents a classified sign-in failure.
type AuthError struct {
	// Code is one of the Err* constants
	Code string

	// Message is a human-readable error message
	Message string

	// Context provides additional details about the error
	Context map[string]interface{}

	// Cause is the underlying error that caused this error
	Cause error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns Code. It lets the logger report the code.
func (e *AuthError) ErrorCode() string {
	return e.Code
}

// NewError creates a new AuthError.
func NewError(code, message string, context map[string]interface{}) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// WrapError wraps an existing error with an AuthError.
func WrapError(code, message string, cause error, context map[string]interface{}) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Context: context,
		Cause:   cause,
	}
}

// IsAuthError checks if err is, or wraps, an AuthError with the given code.
func IsAuthError(err error, code string) bool {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code == code
	}
	return false
}

func (e *AuthError) withContext(key string, value interface{}) *AuthError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *AuthError) contextString(key string) string {
	if s, ok := e.Context[key].(string); ok {
		return s
	}
	return ""
}
