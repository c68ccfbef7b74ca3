// Package auth implements the credential side of the gateway: the
// server-side session store with sliding expiry, the signed cookie token
// that carries a session id, and the per-address rate limiter for
// authentication attempts.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kofany/sshm.io/internal/common"
)

// Claims carries the session id inside the cookie token. Expiry is not a
// claim: the sliding deadline lives in the server-side session store, the
// signature only proves the cookie was minted by this server.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// GenerateSessionToken signs a cookie token for the given session id.
func GenerateSessionToken(sessionID string, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		SessionID: sessionID,
	})
	return token.SignedString(secretKey)
}

// SessionIDFromToken verifies the signature and returns the embedded
// session id. Junk or foreign cookies fail here, before the store is
// consulted.
func SessionIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrInvalidToken
	}
	if !token.Valid || claims.SessionID == "" {
		return "", common.ErrInvalidToken
	}
	return claims.SessionID, nil
}
