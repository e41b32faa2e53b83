package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"resgen.org/internal/auth"
)

// SaveRefreshToken persists a freshly issued refresh token. The returned row
// confirms the write; a missing row is a storage invariant violation the
// caller turns into a failed login.
func (s *Store) SaveRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) (*auth.RefreshToken, error) {
	row := s.db.QueryRowContext(ctx, `
		insert into refresh_tokens(token, user_id, expires_at)
		values ($1, $2, $3)
		returning token, user_id, expires_at, revoked_at, created_at, updated_at`,
		token, userID, expiresAt,
	)
	var rt auth.RefreshToken
	var revokedAt sql.NullTime
	if err := row.Scan(&rt.Token, &rt.UserID, &rt.ExpiresAt, &revokedAt, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return nil, err
	}
	if revokedAt.Valid {
		rt.RevokedAt = &revokedAt.Time
	}
	return &rt, nil
}

// UserForRefreshToken resolves a token to its owner, filtered to unrevoked
// and unexpired rows. Absence is a normal outcome and returns (nil, nil).
func (s *Store) UserForRefreshToken(ctx context.Context, token string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx, `
		select u.id, u.username, u.hashed_password, u.created_at, u.updated_at
		from users u
		inner join refresh_tokens rt on u.id = rt.user_id
		where rt.token = $1 and rt.revoked_at is null and rt.expires_at > now()
		limit 1`, token)
	return scanUser(row)
}

// RevokeRefreshToken stamps revoked_at on the matching row. Zero rows
// matched is an error: an unknown token cannot be told apart from an
// already-revoked one here.
func (s *Store) RevokeRefreshToken(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx, `
		update refresh_tokens
		set revoked_at = now(), updated_at = now()
		where token = $1 and revoked_at is null`, token)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New("no refresh token rows matched")
	}
	return nil
}
