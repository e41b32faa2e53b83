package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"resgen.org/internal/apperr"
	"resgen.org/internal/config"
)

// Claims is the verified access-token claim set.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// MakeJWT signs an HS256 access token for userID valid for ttl. The token is
// self-contained: verification needs only the secret, no storage round-trip,
// which is why access tokens stay short-lived and unrevocable.
func MakeJWT(userID string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    config.Issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateJWT verifies signature, issuer, subject and expiry. Every failure
// surfaces as Unauthorized; expiry is deliberately indistinguishable from any
// other invalid token so the validity window leaks nothing.
func ValidateJWT(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Claims{}, apperr.Wrap(apperr.Unauthorized, "invalid token", err)
	}

	registered, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return Claims{}, apperr.New(apperr.Unauthorized, "invalid token")
	}
	if registered.Issuer != config.Issuer {
		return Claims{}, apperr.New(apperr.Unauthorized, "invalid issuer")
	}
	if registered.Subject == "" {
		return Claims{}, apperr.New(apperr.Unauthorized, "token missing user ID")
	}

	claims := Claims{
		Subject: registered.Subject,
		Issuer:  registered.Issuer,
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims, nil
}
