package transport

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller extracted from the connection token.
type Identity struct {
	UserID int64
	Role   string
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken validates the bearer token and extracts the caller identity.
// The subject claim carries the numeric user id.
func ParseToken(token, secret string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("parse token: %w", err)
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return Identity{}, fmt.Errorf("invalid token claims")
	}
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("token subject is not a user id: %w", err)
	}
	if c.Role == "" {
		return Identity{}, fmt.Errorf("token missing role claim")
	}
	return Identity{UserID: userID, Role: c.Role}, nil
}
