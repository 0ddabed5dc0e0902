package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer mints the HS256 bearer tokens consumed by Verifier.
type TokenIssuer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    t.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.TTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}
