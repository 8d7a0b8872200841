package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"psicocitas-web/internal/models"
)

// SessionClaims are carried by the session cookie. The record itself stays
// server-side; the token only names it.
type SessionClaims struct {
	SessionID string      `json:"sid"`
	Role      models.Role `json:"rol"`
	jwt.RegisteredClaims
}

// PendingClaims carry a sealed user between sign-in and profile completion.
type PendingClaims struct {
	Sealed string `json:"pending"`
	jwt.RegisteredClaims
}

// NewRegisteredClaims fills the standard claims for a token valid for ttl.
func NewRegisteredClaims(subject string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Subject:   subject,
	}
}

// SignToken signs claims with HS256.
func SignToken(claims jwt.Claims, secretKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses tokenString into claims and checks signature and expiry.
func ValidateToken(tokenString string, claims jwt.Claims, secretKey string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return fmt.Errorf("invalid token")
	}

	return nil
}
