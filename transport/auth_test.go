package transport

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, subject, role string, method jwt.SigningMethod) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestParseToken(t *testing.T) {
	req := require.New(t)

	token := signToken(t, "42", "support", jwt.SigningMethodHS256)
	identity, err := ParseToken(token, testSecret)
	req.NoError(err)
	req.Equal(int64(42), identity.UserID)
	req.Equal("support", identity.Role)
}

func TestParseToken_Rejections(t *testing.T) {
	req := require.New(t)

	// Wrong secret
	token := signToken(t, "42", "support", jwt.SigningMethodHS256)
	_, err := ParseToken(token, "other-secret")
	req.Error(err)

	// Non-numeric subject
	token = signToken(t, "alice", "support", jwt.SigningMethodHS256)
	_, err = ParseToken(token, testSecret)
	req.Error(err)

	// Missing role claim
	token = signToken(t, "42", "", jwt.SigningMethodHS256)
	_, err = ParseToken(token, testSecret)
	req.Error(err)

	// Garbage in
	_, err = ParseToken("not-a-token", testSecret)
	req.Error(err)

	// Expired
	expired := jwt.MapClaims{
		"sub":  "42",
		"role": "support",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}
	tok, signErr := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(testSecret))
	req.NoError(signErr)
	_, err = ParseToken(tok, testSecret)
	req.Error(err)
}
