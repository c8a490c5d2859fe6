// Package jwttoken issues and validates the bearer tokens accepted by the
// admin API.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails signature
// verification, is expired, or carries claims of the wrong shape.
var ErrInvalidToken = errors.New("jwttoken: invalid or expired token")

// Claims identifies the caller of an admin API request.
type Claims struct {
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}

// Service issues and validates HS256-signed admin tokens.
type Service struct {
	signingKey []byte
	issuer     string
}

// NewService builds a Service. An empty signingKey means admin auth is
// disabled at the caller's discretion (see internal/platform/httpmiddleware).
func NewService(signingKey, issuer string) *Service {
	return &Service{signingKey: []byte(signingKey), issuer: issuer}
}

// Issue mints a token for subject valid for ttl.
func (s *Service) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(s.signingKey)
}

// Validate parses and verifies tokenString, returning its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
