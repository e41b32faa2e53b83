package auth

import "time"

// User is the identity anchor every other row references.
type User struct {
	ID             string
	Username       string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RefreshToken is a persisted long-lived credential. One row per issuance;
// the only mutation ever applied is setting RevokedAt.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
