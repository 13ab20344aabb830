// Package tokenizer implements session tokens as HMAC-signed JWTs. A token
// is stateless: signature plus expiry decide validity, independent of any
// session state on the node.
package tokenizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sui-direct/node/core"
	"github.com/sui-direct/node/ports"
)

// DefaultExpiry is how long an issued session token stays valid.
const DefaultExpiry = 30 * 24 * time.Hour

// JWTTokenizer signs and verifies session tokens with a process-wide secret.
type JWTTokenizer struct {
	secret []byte
	expiry time.Duration
}

// NewJWTTokenizer creates a tokenizer with the default 30-day expiry.
func NewJWTTokenizer(secret []byte) ports.Tokenizer {
	return &JWTTokenizer{secret: secret, expiry: DefaultExpiry}
}

// NewJWTTokenizerWithExpiry is used by tests that need short-lived tokens.
func NewJWTTokenizerWithExpiry(secret []byte, expiry time.Duration) ports.Tokenizer {
	return &JWTTokenizer{secret: secret, expiry: expiry}
}

// Issue signs a session token embedding the given claims.
func (t *JWTTokenizer) Issue(claims core.SessionClaims) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.PublicKey,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
		Data: claims,
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// Expiry is reported as core.ErrTokenExpired so callers can distinguish it;
// every other failure collapses into core.ErrInvalidToken.
func (t *JWTTokenizer) Verify(tokenStr string) (*core.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &sessionTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, core.ErrTokenExpired
		}
		return nil, core.ErrInvalidToken
	}
	if !token.Valid {
		return nil, core.ErrInvalidToken
	}

	claims, ok := token.Claims.(*sessionTokenClaims)
	if !ok || claims.Data.PublicKey == "" {
		return nil, core.ErrInvalidToken
	}
	return &claims.Data, nil
}
