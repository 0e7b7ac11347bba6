package auth

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/backoffice/internal/platform"
	"github.com/felixgeelhaar/backoffice/internal/session"
)

// fakeClient answers login calls per endpoint path.
type fakeClient struct {
	mu        sync.Mutex
	responses map[string]fakeAnswer
	calls     []string
}

type fakeAnswer struct {
	resp *platform.LoginResponse
	err  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{responses: make(map[string]fakeAnswer)}
}

func (c *fakeClient) on(path string, resp *platform.LoginResponse, err error) *fakeClient {
	c.responses[path] = fakeAnswer{resp: resp, err: err}
	return c
}

func (c *fakeClient) Login(_ context.Context, path string, _ platform.LoginRequest) (*platform.LoginResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, path)

	answer, ok := c.responses[path]
	if !ok {
		return nil, &platform.APIError{StatusCode: 404, Message: "User not found"}
	}
	return answer.resp, answer.err
}

const (
	adminPath     = "/api/admin/login"
	developerPath = "/api/developer/login"
)

func tokenFor(token, role string) *platform.LoginResponse {
	return &platform.LoginResponse{
		Token: token,
		User:  &platform.User{ID: "u-1", Email: "a@b.com", Role: role},
	}
}

func apiErr(status int, msg string) error {
	return &platform.APIError{StatusCode: status, Message: msg}
}

type storeFixture struct {
	store     *session.Store
	durable   *session.MemoryBackend
	ephemeral *session.MemoryBackend
}

func newStoreFixture() storeFixture {
	d := session.NewMemoryBackend()
	e := session.NewMemoryBackend()
	return storeFixture{store: session.NewStore(d, e), durable: d, ephemeral: e}
}

func (f storeFixture) records() int {
	n := 0
	for _, b := range []session.Backend{f.durable, f.ephemeral} {
		if _, found, _ := b.Load(session.DefaultKey); found {
			n++
		}
	}
	return n
}

type fakeProfiles struct {
	user    *platform.User
	err     error
	updated *platform.ProfileUpdate
}

func (p *fakeProfiles) Profile(context.Context) (*platform.User, error) {
	return p.user, p.err
}

func (p *fakeProfiles) UpdateProfile(_ context.Context, u platform.ProfileUpdate) (*platform.User, error) {
	p.updated = &u
	if p.err != nil {
		return nil, p.err
	}
	out := *p.user
	if u.Name != "" {
		out.Name = u.Name
	}
	if u.Email != "" {
		out.Email = u.Email
	}
	return &out, nil
}
