package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/backoffice/internal/platform"
	"github.com/felixgeelhaar/backoffice/internal/session"
)

// Pinger reports the HTTP status of the API root. *platform.Client implements it.
type Pinger interface {
	Ping(ctx context.Context) (int, error)
}

// APIChecker verifies the back-office API answers at all. Any HTTP status
// below 500 counts as reachable.
type APIChecker struct {
	api Pinger
}

// NewAPIChecker creates the api-reachable check.
func NewAPIChecker(api Pinger) *APIChecker {
	return &APIChecker{api: api}
}

func (c *APIChecker) Name() string { return "api-reachable" }

func (c *APIChecker) Check(ctx context.Context) *Result {
	status, err := c.api.Ping(ctx)
	if err != nil {
		r := Unhealthy("back-office API is not reachable").WithDetail("error", err.Error())
		var te *platform.TransportError
		if errors.As(err, &te) {
			r.WithDetail("url", te.URL)
		}
		return r
	}
	if status >= http.StatusInternalServerError {
		return Degraded(fmt.Sprintf("back-office API answered %d", status)).WithDetail("status", status)
	}
	return Healthy("back-office API is reachable").WithDetail("status", status)
}

// ScopeChecker verifies a session scope directory and its record are private
// to the current user.
type ScopeChecker struct {
	name string
	dir  string
	key  string
}

// NewScopeChecker creates a check named name for the record key under dir.
func NewScopeChecker(name, dir, key string) *ScopeChecker {
	return &ScopeChecker{name: name, dir: dir, key: key}
}

func (c *ScopeChecker) Name() string { return c.name }

func (c *ScopeChecker) Check(ctx context.Context) *Result {
	info, err := os.Stat(c.dir)
	if os.IsNotExist(err) {
		return Healthy("directory not created yet").WithDetail("dir", c.dir)
	}
	if err != nil {
		return Unhealthy("cannot inspect directory").WithDetail("dir", c.dir).WithDetail("error", err.Error())
	}
	if !info.IsDir() {
		return Unhealthy("path is not a directory").WithDetail("dir", c.dir)
	}
	if info.Mode().Perm()&0o077 != 0 {
		return Degraded("directory is accessible by other users").
			WithDetail("dir", c.dir).
			WithDetail("mode", info.Mode().Perm().String())
	}

	record := filepath.Join(c.dir, c.key+".json")
	rinfo, err := os.Stat(record)
	switch {
	case os.IsNotExist(err):
		return Healthy("no session stored").WithDetail("dir", c.dir)
	case err != nil:
		return Unhealthy("cannot inspect session record").WithDetail("file", record).WithDetail("error", err.Error())
	case rinfo.Mode().Perm()&0o077 != 0:
		return Degraded("session record is readable by other users").
			WithDetail("file", record).
			WithDetail("mode", rinfo.Mode().Perm().String())
	}
	return Healthy("session record is private").WithDetail("file", record)
}

// SessionReader provides the stored session. *session.Store implements it.
type SessionReader interface {
	Read() *session.Session
}

// TokenChecker reports whether the stored token has passed its expiry.
// Tokens that are not JWTs are reported healthy with an unknown expiry.
type TokenChecker struct {
	sessions SessionReader
	now      func() time.Time
}

// NewTokenChecker creates the session-token check.
func NewTokenChecker(sessions SessionReader) *TokenChecker {
	return &TokenChecker{sessions: sessions, now: time.Now}
}

func (c *TokenChecker) Name() string { return "session-token" }

func (c *TokenChecker) Check(ctx context.Context) *Result {
	sess := c.sessions.Read()
	if !sess.Authenticated() {
		return Healthy("no stored session")
	}

	fp := session.Fingerprint(sess.Token)
	exp, ok := session.PeekExpiry(sess.Token)
	if !ok {
		return Healthy("stored token has no readable expiry").WithDetail("fingerprint", fp)
	}
	if !exp.After(c.now()) {
		return Degraded("stored token has expired, sign in again").
			WithDetail("fingerprint", fp).
			WithDetail("expired_at", exp.UTC().Format(time.RFC3339))
	}
	return Healthy("stored token is valid").
		WithDetail("fingerprint", fp).
		WithDetail("expires_at", exp.UTC().Format(time.RFC3339))
}
