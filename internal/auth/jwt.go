package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "arcgate"

// Claims identify a server-side session. The session id travels as the
// JWT ID; everything else about the user stays on the server.
type Claims struct {
	jwt.RegisteredClaims
}

// SessionID returns the session id carried by the token
func (c *Claims) SessionID() string {
	return c.ID
}

// MintSessionToken signs a token for sessionID that expires at expiresAt
func MintSessionToken(sessionID, secret string, issuedAt, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	return token.SignedString([]byte(secret))
}

// ParseSessionToken verifies the signature and expiry of tokenStr
func ParseSessionToken(tokenStr, secret string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid && c.ID != "" {
		return c, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
