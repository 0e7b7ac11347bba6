package platform

import (
	"context"
	"net/http"
)

// ProfileUpdate changes the signed-in account. Empty fields are omitted.
type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// profileEnvelope accepts both a bare user object and {"user": {...}}.
type profileEnvelope struct {
	Wrapped *User  `json:"user"`
	ID      ID     `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
}

func (e *profileEnvelope) user() *User {
	if e.Wrapped != nil {
		return e.Wrapped
	}
	return &User{ID: e.ID, Email: e.Email, Name: e.Name, Role: e.Role}
}

// Profile fetches the signed-in account.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.endpoints.Profile, nil)
	if err != nil {
		return nil, err
	}

	var env profileEnvelope
	if err := parseResponse(resp, &env); err != nil {
		return nil, err
	}
	return env.user(), nil
}

// UpdateProfile sends changes to the signed-in account and returns the
// account as the API stored it.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, c.endpoints.Profile, update)
	if err != nil {
		return nil, err
	}

	var env profileEnvelope
	if err := parseResponse(resp, &env); err != nil {
		return nil, err
	}
	return env.user(), nil
}
