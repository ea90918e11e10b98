package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for every verification failure: malformed
// token, bad signature, wrong key, or unexpected signing method. Callers
// must not be able to tell these apart.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the statements carried by a signed token.
type Claims struct {
	jwt.RegisteredClaims
	Access string `json:"access"`
}

// TokenCodec signs and verifies compact HS256 bearer tokens over a
// process-wide secret. Tokens carry the subject id, the token class, an
// issued-at timestamp, and a unique jti so two logins in the same second
// still produce distinct token strings.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a TokenCodec signing with the given secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Sign produces a signed token for the given subject id and token class.
func (c *TokenCodec) Sign(subjectID, access string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subjectID,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
		Access: access,
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and returns its claims.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Access == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
