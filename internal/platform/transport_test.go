package platform

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type panickingToken struct{}

func (panickingToken) Token() string { panic("storage unavailable") }

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func captureTransport(seen **http.Request) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		*seen = r
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})
}

func TestAuthenticator_AttachesBearer(t *testing.T) {
	var seen *http.Request
	a := NewAuthenticator(staticToken("T1"), captureTransport(&seen))

	req := httptest.NewRequest(http.MethodGet, "http://api.test/orders", nil)
	_, err := a.RoundTrip(req)
	require.NoError(t, err)

	assert.Equal(t, "Bearer T1", seen.Header.Get("Authorization"))
	assert.Empty(t, req.Header.Get("Authorization"), "caller's request must not be modified")
}

func TestAuthenticator_NoTokenSendsUnauthenticated(t *testing.T) {
	sources := map[string]TokenSource{
		"empty token": staticToken(""),
		"nil source":  nil,
		"panicking":   panickingToken{},
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			var seen *http.Request
			a := NewAuthenticator(src, captureTransport(&seen))

			req := httptest.NewRequest(http.MethodGet, "http://api.test/orders", nil)
			resp, err := a.RoundTrip(req)
			require.NoError(t, err)
			require.NotNil(t, resp)

			require.NotNil(t, seen, "request must still be sent")
			assert.Empty(t, seen.Header.Get("Authorization"))
		})
	}
}

func TestAuthenticator_RequestID(t *testing.T) {
	var seen *http.Request
	a := NewAuthenticator(staticToken(""), captureTransport(&seen))

	_, err := a.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api.test/", nil))
	require.NoError(t, err)
	_, err = uuid.Parse(seen.Header.Get(RequestIDHeader))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "http://api.test/", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	_, err = a.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, "caller-id", seen.Header.Get(RequestIDHeader))
}

func TestAuthenticator_ReadsTokenPerRequest(t *testing.T) {
	token := "A"
	src := tokenFunc(func() string { return token })
	var seen *http.Request
	a := NewAuthenticator(src, captureTransport(&seen))

	_, _ = a.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api.test/", nil))
	assert.Equal(t, "Bearer A", seen.Header.Get("Authorization"))

	token = ""
	_, _ = a.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api.test/", nil))
	assert.Empty(t, seen.Header.Get("Authorization"))
}

type tokenFunc func() string

func (f tokenFunc) Token() string { return f() }
