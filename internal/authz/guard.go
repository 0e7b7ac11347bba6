package authz

import (
	"github.com/felixgeelhaar/backoffice/internal/session"
)

// Outcome is the verdict of a guarded navigation.
type Outcome int

const (
	// Allow renders the requested view.
	Allow Outcome = iota
	// RedirectToLogin is returned for protected views without a session.
	RedirectToLogin
	// RedirectToDefault sends the session to its role's home view.
	RedirectToDefault
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToDefault:
		return "redirect-to-default"
	default:
		return "unknown"
	}
}

// Decision is the result of Guard.Check.
type Decision struct {
	Outcome Outcome
	// View is the view that was requested.
	View View
	// Target is the view to render: View itself on Allow, otherwise the
	// redirect destination.
	Target View
	// Role is the resolved role, empty when there is no session.
	Role Role
}

// SessionReader provides the current session. *session.Store implements it.
type SessionReader interface {
	Read() *session.Session
}

// Guard decides whether the current session may render a view.
// It holds no state of its own: every Check reads the session again.
type Guard struct {
	sessions SessionReader
}

// NewGuard creates a guard over sessions.
func NewGuard(sessions SessionReader) *Guard {
	return &Guard{sessions: sessions}
}

// Check decides the navigation to v. It never fails; denial is a redirect.
func (g *Guard) Check(v View) Decision {
	if IsPublic(v) {
		return Decision{Outcome: Allow, View: v, Target: v, Role: g.role()}
	}

	sess := g.sessions.Read()
	if !sess.Authenticated() {
		return Decision{Outcome: RedirectToLogin, View: v, Target: ViewLogin}
	}

	role := RoleOf(sess)
	profile := ProfileFor(role)
	if profile.Allows(v) {
		return Decision{Outcome: Allow, View: v, Target: v, Role: role}
	}
	return Decision{Outcome: RedirectToDefault, View: v, Target: profile.Home, Role: role}
}

func (g *Guard) role() Role {
	sess := g.sessions.Read()
	if !sess.Authenticated() {
		return ""
	}
	return RoleOf(sess)
}

// RoleOf resolves the role of sess. A session without a user record is a
// RoleUser session.
func RoleOf(sess *session.Session) Role {
	if sess == nil || sess.User == nil {
		return RoleUser
	}
	return Resolve(sess.User.Role)
}
