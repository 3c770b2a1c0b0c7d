package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Inspector reads expiry information out of bearer tokens issued by the
// upstream auth service. The gateway does not hold the upstream signing
// secret, so tokens are parsed without signature verification: the only
// decision made here is "refresh before sending or not", and the upstream
// re-validates every token anyway.
type Inspector struct {
	leeway time.Duration
	parser *jwt.Parser
}

// NewInspector creates a token inspector. Tokens within leeway of their
// expiry are treated as already expired so a refresh happens before the
// upstream would reject the request.
func NewInspector(leeway time.Duration) *Inspector {
	return &Inspector{
		leeway: leeway,
		parser: jwt.NewParser(),
	}
}

// ExpiresAt returns the expiry timestamp of the token.
func (i *Inspector) ExpiresAt(tokenString string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read token expiry: %w", err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("token carries no expiry claim")
	}

	return exp.Time, nil
}

// NeedsRefresh reports whether the token should be refreshed before use.
// Malformed tokens count as needing refresh; the refresh attempt is what
// surfaces the real error.
func (i *Inspector) NeedsRefresh(tokenString string) bool {
	exp, err := i.ExpiresAt(tokenString)
	if err != nil {
		return true
	}
	return time.Now().Add(i.leeway).After(exp)
}
