// Package token validates the HS256 bearer tokens door scanners present.
package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"onsite/internal/platform/middleware"
)

// Validator checks scanner tokens signed with the shared HS256 key.
type Validator struct {
	key []byte
}

// NewValidator builds a Validator from the configured signing key.
func NewValidator(key string) *Validator {
	return &Validator{key: []byte(key)}
}

// ValidateToken parses and verifies a scanner token. The subject claim
// identifies the scanner installation; expiry is enforced by the parser.
func (v *Validator) ValidateToken(tokenString string) (*middleware.ScannerClaims, error) {
	if len(v.key) == 0 {
		return nil, errors.New("scanner auth not configured")
	}

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return nil, errors.New("token missing subject")
	}

	return &middleware.ScannerClaims{ScannerID: subject}, nil
}
