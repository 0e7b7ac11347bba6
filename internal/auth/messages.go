package auth

import (
	"errors"

	boerrors "github.com/felixgeelhaar/backoffice/internal/errors"
)

// UserError converts a sign-in failure into the error shown to the person at
// the terminal, with suggestions. BackofficeErrors pass through unchanged.
func UserError(err error) *boerrors.BackofficeError {
	if err == nil {
		return nil
	}

	var boErr *boerrors.BackofficeError
	if errors.As(err, &boErr) {
		return boErr
	}

	authErr := Classify(err)
	switch authErr.Code {
	case ErrInvalidCredentials:
		return boerrors.NewInvalidCredentialsError(authErr)
	case ErrWrongAudience:
		return boerrors.NewWrongAudienceError(authErr)
	case ErrNotVerified:
		return boerrors.NewNotVerifiedError(authErr)
	case ErrAccessDenied:
		return boerrors.NewAccessDeniedError(authErr.contextString("role"))
	default:
		target := authErr.contextString("url")
		if target == "" {
			target = "the configured API"
		}
		return boerrors.NewBackendUnavailableError(target, authErr)
	}
}

// UserMessage is the one-line message for err.
func UserMessage(err error) string {
	if u := UserError(err); u != nil {
		return u.Message
	}
	return ""
}
