// Package session persists the signed-in admin session.
//
// A session lives in exactly one of two scopes: durable, which survives
// restarts ("remember me"), or ephemeral, which is gone when the login
// session of the machine ends. Which scope holds the record is the only
// signal of the remember-me choice that the rest of the program needs.
package session

// User is the account record returned by the backend at login.
// Role is the raw backend string; callers resolve it with authz.Resolve.
type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Session is the persisted {token, user, rememberMe} triple.
// A Session with an empty Token is no session at all.
type Session struct {
	Token      string `json:"token"`
	User       *User  `json:"user"`
	RememberMe bool   `json:"rememberMe"`
}

// Authenticated reports whether the session carries a token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Scope identifies one of the two storage lifetimes.
type Scope int

const (
	// ScopeDurable survives restarts.
	ScopeDurable Scope = iota
	// ScopeEphemeral is cleared when the machine's login session ends.
	ScopeEphemeral
)

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case ScopeDurable:
		return "durable"
	case ScopeEphemeral:
		return "ephemeral"
	default:
		return "unknown"
	}
}

func (s Scope) other() Scope {
	if s == ScopeDurable {
		return ScopeEphemeral
	}
	return ScopeDurable
}

// scopeFor maps the remember-me choice to a scope.
func scopeFor(rememberMe bool) Scope {
	if rememberMe {
		return ScopeDurable
	}
	return ScopeEphemeral
}
