// Package pg implements the persistence layer on PostgreSQL through
// database/sql and the pgx stdlib driver. Row-absent lookups return
// (nil, nil); callers decide whether absence is an error.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"resgen.org/internal/auth"
)

// Store wraps the shared connection pool.
type Store struct {
	db *sql.DB
}

// Config carries pool tuning handed down from the service configuration.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Open builds the pool. The connection is verified lazily; readiness checks
// ping it.
func Open(cfg Config) (*Store, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return &Store{db: db}, nil
}

// New wraps an existing pool (used by tests with sqlmock).
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

var _ auth.Store = (*Store)(nil)

// CreateUser inserts a new user. A username conflict yields (nil, nil), not
// an error, matching the conflict-tolerant insert of the original schema.
func (s *Store) CreateUser(ctx context.Context, username, hashedPassword string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx, `
		insert into users(id, username, hashed_password)
		values ($1, $2, $3)
		on conflict (username) do nothing
		returning id, username, hashed_password, created_at, updated_at`,
		uuid.NewString(), username, hashedPassword,
	)
	return scanUser(row)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, username, hashed_password, created_at, updated_at
		from users where username = $1`, username)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, username, hashed_password, created_at, updated_at
		from users where id = $1`, id)
	return scanUser(row)
}

// UpdateUser replaces username and password hash. Returns (nil, nil) when the
// user row no longer exists.
func (s *Store) UpdateUser(ctx context.Context, id, username, hashedPassword string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx, `
		update users
		set username = $2, hashed_password = $3, updated_at = now()
		where id = $1
		returning id, username, hashed_password, created_at, updated_at`,
		id, username, hashedPassword,
	)
	return scanUser(row)
}

// Reset removes every user; owned rows cascade. Dev-platform only, enforced
// at the handler.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `delete from users`)
	return err
}

func scanUser(row *sql.Row) (*auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Username, &u.HashedPassword, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
