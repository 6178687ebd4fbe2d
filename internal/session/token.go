package session

import (
	"errors" // Error values
	"time"   // Token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

var errInvalidToken = errors.New("invalid session token")

// Claims identify a server-side session. The token only proves the cookie was
// issued by us; the session itself lives in the store and can be revoked.
type Claims struct {
	SessionID            string `json:"sid"` // Key of the session record
	jwt.RegisteredClaims        // Standard JWT claims
}

// signToken creates a signed token for a session
func signToken(sessionID string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Token expires with the session
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(secret)                          // Sign the token with the secret
}

// parseToken parses and validates a token string, returning its session id
func parseToken(tokenStr string, secret []byte) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return secret, nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.SessionID != "" {
		return claims.SessionID, nil
	}
	return "", errInvalidToken
}
