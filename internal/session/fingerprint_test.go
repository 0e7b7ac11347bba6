package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	assert.Empty(t, Fingerprint(""))

	a := Fingerprint("token-a")
	assert.Len(t, a, 16)
	assert.Equal(t, a, Fingerprint("token-a"))
	assert.NotEqual(t, a, Fingerprint("token-b"))
	assert.NotContains(t, a, "token")
}

func TestPeekExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("any-key"))
	require.NoError(t, err)

	got, ok := PeekExpiry(signed)
	require.True(t, ok)
	assert.True(t, exp.Equal(got))
}

func TestPeekExpiry_NotAJWT(t *testing.T) {
	for _, token := range []string{"", "opaque-token", "a.b.c"} {
		_, ok := PeekExpiry(token)
		assert.False(t, ok, token)
	}
}

func TestPeekExpiry_NoExpClaim(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u-1"}).
		SignedString([]byte("any-key"))
	require.NoError(t, err)

	_, ok := PeekExpiry(signed)
	assert.False(t, ok)
}
