package pg

import (
	"context"

	"github.com/google/uuid"

	"resgen.org/internal/resume"
)

// SaveDraft persists a generated resume body for later retrieval.
func (s *Store) SaveDraft(ctx context.Context, userID string, targetRole *string, bodyJSON string) (*resume.Draft, error) {
	row := s.db.QueryRowContext(ctx, `
		insert into resume_drafts(id, user_id, target_role, body_json)
		values ($1, $2, $3, $4)
		returning id, user_id, target_role, body_json, created_at, updated_at`,
		uuid.NewString(), userID, targetRole, bodyJSON,
	)
	var d resume.Draft
	if err := row.Scan(&d.ID, &d.UserID, &d.TargetRole, &d.BodyJSON, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDrafts returns the user's drafts, newest first.
func (s *Store) ListDrafts(ctx context.Context, userID string) ([]*resume.Draft, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, user_id, target_role, body_json, created_at, updated_at
		from resume_drafts where user_id = $1
		order by created_at desc`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*resume.Draft{}
	for rows.Next() {
		var d resume.Draft
		if err := rows.Scan(&d.ID, &d.UserID, &d.TargetRole, &d.BodyJSON, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, &d)
	}
	return results, rows.Err()
}
