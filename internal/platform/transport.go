package platform

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/backoffice/internal/telemetry"
)

// RequestIDHeader carries a correlation id on every outbound request.
const RequestIDHeader = "X-Request-ID"

// TokenSource yields the current bearer token, or "" when signed out.
// *session.Store implements it.
type TokenSource interface {
	Token() string
}

// Authenticator is an http.RoundTripper that attaches the bearer token of
// the current session to every request. It never blocks a request: without
// a token, or when the token source fails, the request goes out
// unauthenticated and the API decides.
type Authenticator struct {
	tokens TokenSource
	next   http.RoundTripper
}

// NewAuthenticator wraps next. A nil next means http.DefaultTransport.
func NewAuthenticator(tokens TokenSource, next http.RoundTripper) *Authenticator {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Authenticator{tokens: tokens, next: next}
}

// RoundTrip implements http.RoundTripper. The caller's request is not
// modified.
func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	if token := a.token(); token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.NewString())
	}
	telemetry.InjectHeaders(out.Context(), out.Header)

	return a.next.RoundTrip(out)
}

func (a *Authenticator) token() (token string) {
	if a.tokens == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			token = ""
		}
	}()
	return a.tokens.Token()
}
