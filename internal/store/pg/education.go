package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"resgen.org/internal/resume"
)

const educationColumns = `id, user_id, school, credential, year, created_at, updated_at`

// UpsertEducations writes a batch inside one transaction, mirroring the
// experience batch shape.
func (s *Store) UpsertEducations(ctx context.Context, rows []*resume.Education) ([]*resume.Education, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	results := make([]*resume.Education, 0, len(rows))
	for _, edu := range rows {
		if edu.ID == "" {
			edu.ID = uuid.NewString()
		}
		row := tx.QueryRowContext(ctx, `
			insert into educations(id, user_id, school, credential, year)
			values ($1, $2, $3, $4, $5)
			on conflict (id) do update
			set school = excluded.school,
			    credential = excluded.credential,
			    year = excluded.year,
			    updated_at = now()
			returning `+educationColumns,
			edu.ID, edu.UserID, edu.School, edu.Credential, edu.Year,
		)
		saved, err := scanEducation(row)
		if err != nil {
			return nil, err
		}
		results = append(results, saved)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return results, nil
}

// ListEducations returns all rows for the user, most recent credential first.
func (s *Store) ListEducations(ctx context.Context, userID string) ([]*resume.Education, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+educationColumns+`
		from educations where user_id = $1
		order by year desc nulls last`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*resume.Education{}
	for rows.Next() {
		edu, err := scanEducation(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, edu)
	}
	return results, rows.Err()
}

// GetEducation returns one row or (nil, nil) when absent.
func (s *Store) GetEducation(ctx context.Context, id string) (*resume.Education, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+educationColumns+`
		from educations where id = $1`, id)
	edu, err := scanEducation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return edu, err
}

// UpdateEducation replaces the row, or returns (nil, nil) for an unknown id.
func (s *Store) UpdateEducation(ctx context.Context, edu *resume.Education) (*resume.Education, error) {
	row := s.db.QueryRowContext(ctx, `
		update educations
		set school = $2, credential = $3, year = $4, updated_at = now()
		where id = $1
		returning `+educationColumns,
		edu.ID, edu.School, edu.Credential, edu.Year,
	)
	saved, err := scanEducation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return saved, err
}

// DeleteEducation removes one row and returns it, or (nil, nil) when absent.
func (s *Store) DeleteEducation(ctx context.Context, id string) (*resume.Education, error) {
	row := s.db.QueryRowContext(ctx, `
		delete from educations where id = $1
		returning `+educationColumns, id)
	edu, err := scanEducation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return edu, err
}

// DeleteEducations removes every row for the user.
func (s *Store) DeleteEducations(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `delete from educations where user_id = $1`, userID)
	return err
}

func scanEducation(row rowScanner) (*resume.Education, error) {
	var edu resume.Education
	var year sql.NullInt64
	err := row.Scan(&edu.ID, &edu.UserID, &edu.School, &edu.Credential, &year, &edu.CreatedAt, &edu.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if year.Valid {
		y := int(year.Int64)
		edu.Year = &y
	}
	return &edu, nil
}
