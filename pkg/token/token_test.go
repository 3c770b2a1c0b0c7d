package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return signed
}

func TestExpiresAt(t *testing.T) {
	inspector := NewInspector(30 * time.Second)

	tokenString := signedToken(t, time.Hour)
	exp, err := inspector.ExpiresAt(tokenString)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)
}

func TestExpiresAt_Malformed(t *testing.T) {
	inspector := NewInspector(30 * time.Second)

	_, err := inspector.ExpiresAt("not-a-token")
	assert.Error(t, err)
}

func TestExpiresAt_NoExpiryClaim(t *testing.T) {
	inspector := NewInspector(30 * time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "42"})
	signed, err := token.SignedString([]byte("upstream-secret"))
	require.NoError(t, err)

	_, err = inspector.ExpiresAt(signed)
	assert.Error(t, err)
}

func TestNeedsRefresh(t *testing.T) {
	inspector := NewInspector(30 * time.Second)

	tests := []struct {
		name      string
		expiresIn time.Duration
		expected  bool
	}{
		{"Fresh token", time.Hour, false},
		{"Already expired", -time.Minute, true},
		{"Inside leeway window", 10 * time.Second, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, inspector.NeedsRefresh(signedToken(t, tc.expiresIn)))
		})
	}
}

func TestNeedsRefresh_Malformed(t *testing.T) {
	inspector := NewInspector(30 * time.Second)
	assert.True(t, inspector.NeedsRefresh("garbage"))
}
