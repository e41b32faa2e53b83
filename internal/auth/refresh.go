package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// MakeRefreshToken returns an opaque 256-bit random token, hex encoded.
// Uniqueness is entropy-based; the store does not enforce a constraint.
func MakeRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
