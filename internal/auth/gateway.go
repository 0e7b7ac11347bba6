// Package auth signs administrators in against the back-office API.
//
// The Gateway performs one login call against one audience endpoint. The
// Flow builds the sign-in operation on top of it: a bounded fallback across
// the two audiences, role resolution, and the privilege check.
package auth

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/backoffice/internal/log"
	"github.com/felixgeelhaar/backoffice/internal/platform"
	"github.com/felixgeelhaar/backoffice/internal/session"
	"github.com/felixgeelhaar/backoffice/internal/telemetry"
)

// Audience selects a login endpoint.
type Audience string

const (
	// AudienceAdmin is the login endpoint for admin accounts.
	AudienceAdmin Audience = "admin"
	// AudienceDeveloper is the login endpoint for developer (super admin) accounts.
	AudienceDeveloper Audience = "developer"
)

// Other returns the opposite audience.
func (a Audience) Other() Audience {
	if a == AudienceDeveloper {
		return AudienceAdmin
	}
	return AudienceDeveloper
}

// Credential is an email/password pair. It is never persisted.
type Credential struct {
	Email    string
	Password string
}

// LoginClient calls a login endpoint. *platform.Client implements it.
type LoginClient interface {
	Login(ctx context.Context, path string, req platform.LoginRequest) (*platform.LoginResponse, error)
}

// SessionStore is the part of *session.Store the sign-in code needs.
type SessionStore interface {
	Persist(sess session.Session, rememberMe bool)
	Read() *session.Session
	Clear()
	UpdateUser(fn func(*session.User)) bool
}

// Gateway turns a login response into a persisted session.
type Gateway struct {
	client    LoginClient
	store     SessionStore
	endpoints platform.Endpoints
	logger    *log.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithGatewayLogger sets the gateway's logger.
func WithGatewayLogger(logger *log.Logger) GatewayOption {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGateway creates a gateway. Empty endpoint fields use the defaults.
func NewGateway(client LoginClient, store SessionStore, endpoints platform.Endpoints, opts ...GatewayOption) *Gateway {
	defaults := platform.DefaultEndpoints()
	if endpoints.AdminLogin == "" {
		endpoints.AdminLogin = defaults.AdminLogin
	}
	if endpoints.DeveloperLogin == "" {
		endpoints.DeveloperLogin = defaults.DeveloperLogin
	}

	g := &Gateway{
		client:    client,
		store:     store,
		endpoints: endpoints,
		logger:    log.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With("component", "auth.gateway")
	return g
}

// Path returns the login endpoint of aud.
func (g *Gateway) Path(aud Audience) string {
	if aud == AudienceDeveloper {
		return g.endpoints.DeveloperLogin
	}
	return g.endpoints.AdminLogin
}

// Login signs cred in against aud. On success the session is persisted with
// exactly the caller's rememberMe; on failure nothing is persisted and the
// error is an *AuthError.
func (g *Gateway) Login(ctx context.Context, cred Credential, aud Audience, rememberMe bool) (_ *session.Session, err error) {
	ctx, span := telemetry.StartLoginSpan(ctx, string(aud))
	defer func() {
		var code string
		if authErr, ok := err.(*AuthError); ok {
			code = authErr.Code
		}
		telemetry.RecordError(span, err, code)
		span.End()
	}()

	email := strings.TrimSpace(cred.Email)
	if email == "" || cred.Password == "" {
		return nil, NewError(ErrInvalidCredentials, "email and password are required", map[string]interface{}{
			"audience": string(aud),
		})
	}

	resp, err := g.client.Login(ctx, g.Path(aud), platform.LoginRequest{Email: email, Password: cred.Password})
	if err != nil {
		authErr := Classify(err).withContext("audience", string(aud))
		g.logger.DebugContext(ctx, "login rejected", "audience", string(aud), "code", authErr.Code)
		return nil, authErr
	}

	token := resp.BearerToken()
	if token == "" {
		return nil, NewError(ErrTransportFailure, "login response did not include a token", map[string]interface{}{
			"audience": string(aud),
		})
	}

	sess := session.Session{
		Token:      token,
		User:       sessionUser(resp.User),
		RememberMe: rememberMe,
	}
	g.store.Persist(sess, rememberMe)
	g.logger.DebugContext(ctx, "login accepted", "audience", string(aud), "fingerprint", session.Fingerprint(token))
	return &sess, nil
}

func sessionUser(u *platform.User) *session.User {
	if u == nil {
		return nil
	}
	return &session.User{
		ID:    string(u.ID),
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
