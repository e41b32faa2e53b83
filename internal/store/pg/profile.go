package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"resgen.org/internal/resume"
)

// UpsertProfile inserts the profile or replaces it wholesale on user_id
// conflict.
func (s *Store) UpsertProfile(ctx context.Context, p *resume.Profile) (*resume.Profile, error) {
	skills, err := json.Marshal(emptyIfNil(p.Skills))
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		insert into user_profiles(user_id, name, title, target_role, email, phone, skills)
		values ($1, $2, $3, $4, $5, $6, $7)
		on conflict (user_id) do update
		set name = excluded.name,
		    title = excluded.title,
		    target_role = excluded.target_role,
		    email = excluded.email,
		    phone = excluded.phone,
		    skills = excluded.skills,
		    updated_at = now()
		returning user_id, name, title, target_role, email, phone, skills, created_at, updated_at`,
		p.UserID, p.Name, p.Title, p.TargetRole, p.Email, p.Phone, skills,
	)
	return scanProfile(row)
}

// GetProfile returns the profile row or (nil, nil) when absent.
func (s *Store) GetProfile(ctx context.Context, userID string) (*resume.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		select user_id, name, title, target_role, email, phone, skills, created_at, updated_at
		from user_profiles where user_id = $1`, userID)
	return scanProfile(row)
}

// DeleteProfile removes the profile and reports whether a row existed.
func (s *Store) DeleteProfile(ctx context.Context, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `delete from user_profiles where user_id = $1`, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanProfile(row *sql.Row) (*resume.Profile, error) {
	var p resume.Profile
	var skills []byte
	err := row.Scan(&p.UserID, &p.Name, &p.Title, &p.TargetRole, &p.Email, &p.Phone, &skills, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skills, &p.Skills); err != nil {
		return nil, err
	}
	return &p, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
