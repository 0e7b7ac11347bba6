package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/backoffice/internal/platform"
)

// The API reports audience and verification problems only in the message
// text, and the two login endpoints word them differently. These fragments
// are matched case-insensitively.
var (
	verificationPhrases = []string{
		"not verified",
		"unverified",
		"verify your email before",
		"verify your email first",
		"verify your email address",
		"verification pending",
		"pending verification",
		"verification required",
	}

	wrongAudiencePhrases = []string{
		"not an admin",
		"not a developer",
		"not a super admin",
		"not authorized to access",
		"wrong portal",
		"use the developer login",
		"use the admin login",
	}

	credentialSubjects = []string{"credential", "password", "email"}
	credentialVerbs    = []string{"invalid", "incorrect", "wrong"}
)

// Classify maps an error from the login or profile endpoints to the sign-in
// taxonomy. It returns nil for a nil error and err itself when it already is
// an *AuthError.
func Classify(err error) *AuthError {
	if err == nil {
		return nil
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}

	var transportErr *platform.TransportError
	if errors.As(err, &transportErr) {
		return WrapError(ErrTransportFailure, "could not reach the backend", err, map[string]interface{}{
			"url": transportErr.URL,
		})
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return WrapError(ErrTransportFailure, "request was cancelled", err, nil)
	}

	status := platform.StatusCode(err)
	msg := strings.ToLower(err.Error())
	ctx := map[string]interface{}{}
	if status != 0 {
		ctx["status"] = status
	}

	// A server error is never an answer about the account, whatever it says.
	switch {
	case status >= http.StatusInternalServerError:
		return WrapError(ErrTransportFailure, "the backend could not complete the request", err, ctx)

	case containsAny(msg, credentialVerbs) && containsAny(msg, credentialSubjects):
		return WrapError(ErrInvalidCredentials, "invalid email or password", err, ctx)

	case containsAny(msg, verificationPhrases):
		return WrapError(ErrNotVerified, "email address not verified", err, ctx)

	case containsAny(msg, wrongAudiencePhrases),
		status == http.StatusForbidden:
		return WrapError(ErrWrongAudience, "account belongs to a different login portal", err, ctx)

	case status == http.StatusBadRequest,
		status == http.StatusUnauthorized,
		status == http.StatusNotFound:
		return WrapError(ErrInvalidCredentials, "invalid email or password", err, ctx)

	default:
		return WrapError(ErrTransportFailure, "the backend could not complete the request", err, ctx)
	}
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
