package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// LoginRequest is the body of both login endpoints.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is a successful login. The API names the token either
// accessToken or token depending on the endpoint.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	Token       string `json:"token"`
	User        *User  `json:"user"`
	Message     string `json:"message"`
}

// BearerToken returns the first non-empty of AccessToken and Token.
func (r *LoginResponse) BearerToken() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// User is an account as the API reports it.
type User struct {
	ID    ID     `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// ID accepts both JSON strings and numbers.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Login posts credentials to path, one of the audience login endpoints.
// A 2xx response without a token is reported as an *APIError so callers
// never mistake it for a session.
func (c *Client) Login(ctx context.Context, path string, req LoginRequest) (*LoginResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, err
	}

	var loginResp LoginResponse
	if err := parseResponse(resp, &loginResp); err != nil {
		return nil, err
	}

	if loginResp.BearerToken() == "" {
		msg := loginResp.Message
		if msg == "" {
			msg = "login response did not include a token"
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return &loginResp, nil
}
