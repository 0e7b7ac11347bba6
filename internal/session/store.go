package session

import (
	"encoding/json"
	"sync"

	"github.com/felixgeelhaar/backoffice/internal/log"
)

// DefaultKey is the record name used in both scopes.
const DefaultKey = "adminAuth"

// Store is the only component that touches the session backends.
//
// None of its methods return errors: persistence is best effort, and an
// unreadable or malformed record reads as "no session". Persist, Clear and
// UpdateUser are serialised so the write/clear pair is never interleaved
// with another writer in this process.
type Store struct {
	mu       sync.Mutex
	backends [2]Backend
	key      string
	logger   *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the record name.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used to report swallowed failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store over the durable and ephemeral backends.
func NewStore(durable, ephemeral Backend, opts ...Option) *Store {
	s := &Store{
		backends: [2]Backend{ScopeDurable: durable, ScopeEphemeral: ephemeral},
		key:      DefaultKey,
		logger:   log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session")
	return s
}

// Persist writes sess into the durable scope when rememberMe is true and the
// ephemeral scope otherwise, then removes the record from the other scope.
// The removal runs even when the write failed. The stored remember-me flag
// is the argument, not sess.RememberMe.
func (s *Store) Persist(sess Session, rememberMe bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := scopeFor(rememberMe)
	sess.RememberMe = rememberMe

	data, err := json.Marshal(sess)
	if err != nil {
		s.logger.Warn("encoding session failed", "error", err)
	} else if err := s.backends[target].Save(s.key, data); err != nil {
		s.logger.Warn("persisting session failed", "scope", target.String(), "error", err)
	}

	s.remove(target.other())
	s.logger.Debug("session persisted", "scope", target.String(), "fingerprint", Fingerprint(sess.Token))
}

// Read returns the durable record if present, else the ephemeral one, else nil.
func (s *Store) Read() *Session {
	sess, _ := s.read()
	return sess
}

// Token returns the bearer token of the current session, or "".
func (s *Store) Token() string {
	if sess := s.Read(); sess != nil {
		return sess.Token
	}
	return ""
}

// Scope reports which scope currently holds the session.
func (s *Store) Scope() (Scope, bool) {
	sess, scope := s.read()
	return scope, sess != nil
}

// Clear removes the record from both scopes. It is idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(ScopeDurable)
	s.remove(ScopeEphemeral)
	s.logger.Debug("session cleared")
}

// UpdateUser applies fn to the stored user and writes the record back into
// the scope it was read from. The token and remember-me flag are untouched.
// It returns false, without writing, when there is no session.
func (s *Store) UpdateUser(fn func(*User)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, scope := s.read()
	if sess == nil {
		return false
	}
	if sess.User == nil {
		sess.User = &User{}
	}
	fn(sess.User)

	data, err := json.Marshal(sess)
	if err != nil {
		s.logger.Warn("encoding session failed", "error", err)
		return false
	}
	if err := s.backends[scope].Save(s.key, data); err != nil {
		s.logger.Warn("updating session user failed", "scope", scope.String(), "error", err)
		return false
	}
	return true
}

func (s *Store) read() (*Session, Scope) {
	for _, scope := range []Scope{ScopeDurable, ScopeEphemeral} {
		if sess := s.load(scope); sess != nil {
			return sess, scope
		}
	}
	return nil, ScopeDurable
}

func (s *Store) load(scope Scope) *Session {
	backend := s.backends[scope]
	if backend == nil {
		return nil
	}

	data, found, err := backend.Load(s.key)
	if err != nil {
		s.logger.Warn("reading session failed", "scope", scope.String(), "error", err)
		return nil
	}
	if !found {
		return nil
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.Debug("ignoring malformed session record", "scope", scope.String(), "error", err)
		return nil
	}
	if sess.Token == "" {
		return nil
	}
	return &sess
}

func (s *Store) remove(scope Scope) {
	backend := s.backends[scope]
	if backend == nil {
		return
	}
	if err := backend.Remove(s.key); err != nil {
		s.logger.Warn("clearing session scope failed", "scope", scope.String(), "error", err)
	}
}
