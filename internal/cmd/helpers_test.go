package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type account struct {
	password string
	portal   string // "admin" or "developer"
	user     map[string]any
}

// fakeAPI serves the two login endpoints and the profile endpoint.
type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]*account
	tokens   map[string]string // token -> email
	calls    []string
	parents  []string // traceparent header of each login call
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{
		accounts: map[string]*account{
			"admin@example.com": {password: "secret", portal: "admin", user: map[string]any{
				"id": 1, "email": "admin@example.com", "name": "Ada", "role": "admin",
			}},
			"dev@example.com": {password: "secret", portal: "developer", user: map[string]any{
				"id": "d-7", "email": "dev@example.com", "name": "Grace", "role": "developer",
			}},
			"shopper@example.com": {password: "secret", portal: "admin", user: map[string]any{
				"id": 9, "email": "shopper@example.com", "name": "Sam", "role": "user",
			}},
		},
		tokens: map[string]string{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/login", api.login("admin"))
	mux.HandleFunc("/api/developer/login", api.login("developer"))
	mux.HandleFunc("/api/admin/profile", api.profile)
	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Close)
	return api
}

func (a *fakeAPI) login(portal string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		a.mu.Lock()
		defer a.mu.Unlock()
		a.calls = append(a.calls, r.URL.Path)
		a.parents = append(a.parents, r.Header.Get("traceparent"))

		acct, ok := a.accounts[req.Email]
		switch {
		case !ok || acct.password != req.Password:
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
		case acct.portal != portal:
			writeJSON(w, http.StatusForbidden, map[string]any{"message": "Wrong portal for this account"})
		default:
			token := signedToken(req.Email)
			a.tokens[token] = req.Email
			writeJSON(w, http.StatusOK, map[string]any{"accessToken": token, "user": acct.user})
		}
	}
}

func (a *fakeAPI) profile(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	email, ok := a.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
		return
	}
	acct := a.accounts[email]

	if r.Method == http.MethodPut {
		var upd map[string]string
		_ = json.NewDecoder(r.Body).Decode(&upd)
		for k, v := range upd {
			acct.user[k] = v
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": acct.user})
}

func (a *fakeAPI) loginCalls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

func (a *fakeAPI) traceParents() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.parents...)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func signedToken(subject string) string {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		panic(err)
	}
	return s
}

// testEnv isolates config and session directories and points the CLI at api.
type testEnv struct {
	t          *testing.T
	configPath string
	durable    string
	ephemeral  string
}

func newTestEnv(t *testing.T, api *fakeAPI) *testEnv {
	t.Helper()
	root := t.TempDir()
	env := &testEnv{
		t:          t,
		configPath: filepath.Join(root, "config.yaml"),
		durable:    filepath.Join(root, "durable"),
		ephemeral:  filepath.Join(root, "ephemeral"),
	}
	t.Setenv("CI", "true")
	t.Setenv("BACKOFFICE_DURABLE_DIR", env.durable)
	t.Setenv("BACKOFFICE_EPHEMERAL_DIR", env.ephemeral)
	t.Setenv("BACKOFFICE_LOG_LEVEL", "error")
	t.Setenv("BACKOFFICE_TRACE", "")
	if api != nil {
		t.Setenv("BACKOFFICE_API_URL", api.URL)
	}
	return env
}

// run executes the CLI and returns its stdout.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	out, _, err := e.runBoth(args...)
	return out, err
}

// runBoth executes the CLI and returns its stdout and stderr.
func (e *testEnv) runBoth(args ...string) (string, string, error) {
	e.t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err)
	return out
}
