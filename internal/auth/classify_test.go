package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/backoffice/internal/platform"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"401", apiErr(401, "Unauthorized"), ErrInvalidCredentials},
		{"400", apiErr(400, "Bad request"), ErrInvalidCredentials},
		{"404 user", apiErr(404, "User not found"), ErrInvalidCredentials},
		{"invalid credentials text", errors.New("Invalid credentials"), ErrInvalidCredentials},
		{"incorrect password text", errors.New("Incorrect password"), ErrInvalidCredentials},
		{"not an admin", apiErr(401, "You are not an admin"), ErrWrongAudience},
		{"not a developer", apiErr(400, "Access denied: not a developer account"), ErrWrongAudience},
		{"use other portal", apiErr(401, "Please use the developer login"), ErrWrongAudience},
		{"bare 403", apiErr(403, "Forbidden"), ErrWrongAudience},
		{"not verified 403", apiErr(403, "Please verify your email before logging in"), ErrNotVerified},
		{"not verified 401", apiErr(401, "Email not verified"), ErrNotVerified},
		{"verification text", errors.New("verification pending"), ErrNotVerified},
		{"500", apiErr(500, "Internal server error"), ErrTransportFailure},
		{"500 mentioning verification", apiErr(500, "Email verification service unavailable"), ErrTransportFailure},
		{"503 mentioning credentials", apiErr(503, "Invalid credentials store"), ErrTransportFailure},
		{"credential wording with verify", apiErr(401, "Invalid credentials. Please verify your email and password."), ErrInvalidCredentials},
		{"403 invalid password", apiErr(403, "Invalid email or password"), ErrInvalidCredentials},
		{"verification service text", errors.New("verification service says hello"), ErrTransportFailure},
		{"transport", &platform.TransportError{Method: "POST", URL: "http://x/api", Err: errors.New("connection refused")}, ErrTransportFailure},
		{"deadline", fmt.Errorf("login: %w", context.DeadlineExceeded), ErrTransportFailure},
		{"undecodable", errors.New("failed to decode response: EOF"), ErrTransportFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.want, got.Code)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_NilAndPassthrough(t *testing.T) {
	assert.Nil(t, Classify(nil))

	original := NewError(ErrAccessDenied, "denied", nil)
	assert.Same(t, original, Classify(fmt.Errorf("wrapped: %w", original)))
}

func TestClassify_TransportKeepsURL(t *testing.T) {
	err := Classify(&platform.TransportError{Method: "POST", URL: "http://api.test/api/admin/login", Err: errors.New("refused")})
	assert.Equal(t, "http://api.test/api/admin/login", err.Context["url"])
}

func TestIsAuthError(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewError(ErrNotVerified, "x", nil))
	assert.True(t, IsAuthError(err, ErrNotVerified))
	assert.False(t, IsAuthError(err, ErrWrongAudience))
	assert.False(t, IsAuthError(errors.New("plain"), ErrNotVerified))
}

func TestAuthError_ErrorCode(t *testing.T) {
	err := WrapError(ErrWrongAudience, "wrong portal", errors.New("cause"), nil)
	assert.Equal(t, ErrWrongAudience, err.ErrorCode())
	assert.Contains(t, err.Error(), "caused by: cause")
}
