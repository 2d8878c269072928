// Package auth binds the portal to its external identity providers and
// issues the local session token once a provider has vouched for a user.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"

	// CookieName is the session cookie set after a successful login.
	CookieName = "auth_token"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload of the session token. Subject carries the provider
// uid of the user.
type Claims struct {
	Role  string `json:"role"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs claims with HS256 and sets the issue and expiry times.
func IssueToken(key []byte, claims Claims, ttl time.Duration) (string, error) {
	if len(key) == 0 {
		return "", errors.New("jwt key is not configured")
	}
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates the signature, the algorithm and the expiry.
func ParseToken(key []byte, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleAdmin && claims.Role != RoleCustomer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
