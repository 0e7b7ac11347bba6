package exitcode

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type codedErr string

func (c codedErr) Error() string     { return "coded: " + string(c) }
func (c codedErr) ErrorCode() string { return string(c) }

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"UsageError", UsageError, 2},
		{"ConfigError", ConfigError, 3},
		{"ViewDenied", ViewDenied, 4},
		{"AuthError", AuthError, 5},
		{"NetworkError", NetworkError, 6},
		{"Interrupted", Interrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("Exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error returns success", nil, Success},
		{"cancelled", fmt.Errorf("login: %w", context.Canceled), Interrupted},
		{"invalid credentials code", codedErr("AUTH_INVALID_CREDENTIALS"), AuthError},
		{"access denied code", codedErr("AUTH-004"), AuthError},
		{"not logged in code", codedErr("SESSION-001"), AuthError},
		{"transport code", codedErr("AUTH_TRANSPORT_FAILURE"), NetworkError},
		{"backend unavailable code", fmt.Errorf("wrapped: %w", codedErr("AUTH-005")), NetworkError},
		{"credentials missing code", codedErr("AUTH-006"), UsageError},
		{"view denied code", codedErr("NAV-001"), ViewDenied},
		{"view unknown code", codedErr("NAV-002"), UsageError},
		{"config code", codedErr("CONFIG-001"), ConfigError},
		{"unmapped code falls back to message", codedErr("IO-001"), GeneralError},
		{"unauthorized message", errors.New("401 unauthorized"), AuthError},
		{"connection message", errors.New("connection refused"), NetworkError},
		{"timeout message", errors.New("request timeout"), NetworkError},
		{"unknown command", errors.New(`unknown command "foo" for "backoffice"`), UsageError},
		{"arg count", errors.New("accepts 1 arg(s), received 0"), UsageError},
		{"generic", errors.New("something broke"), GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.expected {
				t.Errorf("DetermineExitCode(%v) = %d, want %d", tt.err, got, tt.expected)
			}
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	for _, code := range []int{Success, GeneralError, UsageError, ConfigError, ViewDenied, AuthError, NetworkError, Interrupted} {
		if GetExitCodeDescription(code) == "Unknown error" {
			t.Errorf("code %d has no description", code)
		}
	}
	if GetExitCodeDescription(99) != "Unknown error" {
		t.Error("unexpected description for unknown code")
	}
}
