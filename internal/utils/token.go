package utils // token minting helpers

import (
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// NewAccessToken builds and signs an HS256 JWT for a user. The token is
// handed to the client verbatim and stored server-side; the stored row is
// what authorizes requests, the signature just keeps the string
// self-describing and tamper-evident. Claims: subject (sub) and issued-at
// (iat). There is no exp claim — a session ends when its row is deleted
// on logout.
func NewAccessToken(secret string, userID uint64) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
