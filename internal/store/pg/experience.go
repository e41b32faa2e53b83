package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"resgen.org/internal/resume"
)

const experienceColumns = `id, user_id, company, title, location, start_date, end_date, bullets, sort_order, created_at, updated_at`

// UpsertExperiences writes a batch inside one transaction. Rows without an
// id are inserted fresh; rows carrying an id replace the stored version.
func (s *Store) UpsertExperiences(ctx context.Context, rows []*resume.Experience) ([]*resume.Experience, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	results := make([]*resume.Experience, 0, len(rows))
	for _, exp := range rows {
		if exp.ID == "" {
			exp.ID = uuid.NewString()
		}
		bullets, err := json.Marshal(emptyIfNil(exp.Bullets))
		if err != nil {
			return nil, err
		}
		row := tx.QueryRowContext(ctx, `
			insert into experiences(id, user_id, company, title, location, start_date, end_date, bullets, sort_order)
			values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			on conflict (id) do update
			set company = excluded.company,
			    title = excluded.title,
			    location = excluded.location,
			    start_date = excluded.start_date,
			    end_date = excluded.end_date,
			    bullets = excluded.bullets,
			    sort_order = excluded.sort_order,
			    updated_at = now()
			returning `+experienceColumns,
			exp.ID, exp.UserID, exp.Company, exp.Title, exp.Location, exp.StartDate, exp.EndDate, bullets, exp.SortOrder,
		)
		saved, err := scanExperienceRow(row)
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

// ListExperiences returns all rows for the user ordered for display.
func (s *Store) ListExperiences(ctx context.Context, userID string) ([]*resume.Experience, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+experienceColumns+`
		from experiences where user_id = $1
		order by sort_order asc, start_date desc`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*resume.Experience{}
	for rows.Next() {
		exp, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, exp)
	}
	return results, rows.Err()
}

// GetExperience returns one row or (nil, nil) when absent.
func (s *Store) GetExperience(ctx context.Context, id string) (*resume.Experience, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+experienceColumns+`
		from experiences where id = $1`, id)
	exp, err := scanExperienceRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return exp, err
}

// UpdateExperience replaces the row and returns it, or (nil, nil) when the
// id is unknown.
func (s *Store) UpdateExperience(ctx context.Context, exp *resume.Experience) (*resume.Experience, error) {
	bullets, err := json.Marshal(emptyIfNil(exp.Bullets))
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		update experiences
		set company = $2, title = $3, location = $4, start_date = $5,
		    end_date = $6, bullets = $7, sort_order = $8, updated_at = now()
		where id = $1
		returning `+experienceColumns,
		exp.ID, exp.Company, exp.Title, exp.Location, exp.StartDate, exp.EndDate, bullets, exp.SortOrder,
	)
	saved, err := scanExperienceRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return saved, err
}

// DeleteExperience removes one row and returns it, or (nil, nil) when absent.
func (s *Store) DeleteExperience(ctx context.Context, id string) (*resume.Experience, error) {
	row := s.db.QueryRowContext(ctx, `
		delete from experiences where id = $1
		returning `+experienceColumns, id)
	exp, err := scanExperienceRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return exp, err
}

// DeleteExperiences removes every row for the user.
func (s *Store) DeleteExperiences(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `delete from experiences where user_id = $1`, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExperience(row rowScanner) (*resume.Experience, error) {
	var exp resume.Experience
	var bullets []byte
	err := row.Scan(&exp.ID, &exp.UserID, &exp.Company, &exp.Title, &exp.Location,
		&exp.StartDate, &exp.EndDate, &bullets, &exp.SortOrder, &exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bullets, &exp.Bullets); err != nil {
		return nil, err
	}
	return &exp, nil
}

func scanExperienceRow(row *sql.Row) (*resume.Experience, error) {
	return scanExperience(row)
}
