package auth

import (
	"context"
	"time"

	"resgen.org/internal/apperr"
)

// Store is the persistence surface the auth service needs. Lookups where
// absence is a normal outcome return (nil, nil); the service decides whether
// absence is an error.
type Store interface {
	CreateUser(ctx context.Context, username, hashedPassword string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	UpdateUser(ctx context.Context, id, username, hashedPassword string) (*User, error)

	SaveRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) (*RefreshToken, error)
	UserForRefreshToken(ctx context.Context, token string) (*User, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// Service implements the login, refresh, revoke and account flows on top of
// a Store. The signing secret and durations are fixed at construction.
type Service struct {
	store      Store
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option configures Service behavior.
type Option func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the auth service.
func NewService(store Store, secret string, accessTTL, refreshTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		store:      store,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginResult carries everything the login endpoint returns.
type LoginResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
}

// Register hashes the password and creates the user. The insert is
// conflict-tolerant; a username collision yields no row back and is reported
// as a storage failure, matching the create contract.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "unable to create user", err)
	}
	user, err := s.store.CreateUser(ctx, username, hashed)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "unable to create user", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.Internal, "unable to create user")
	}
	return user, nil
}

// Login verifies the credentials, mints an access token and durably stores a
// fresh refresh token. The refresh-token write must succeed before anything
// is returned: a client never receives an access token without a matching
// stored refresh token.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "internal error", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.Unauthorized, "invalid username or password")
	}
	if !VerifyPassword(password, user.HashedPassword) {
		return nil, apperr.New(apperr.Unauthorized, "invalid password")
	}

	accessToken, err := MakeJWT(user.ID, s.accessTTL, s.secret)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "internal error", err)
	}
	refreshToken, err := MakeRefreshToken()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "internal error", err)
	}

	saved, err := s.store.SaveRefreshToken(ctx, user.ID, refreshToken, s.now().Add(s.refreshTTL))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "unable to save refresh token", err)
	}
	if saved == nil {
		return nil, apperr.New(apperr.Internal, "unable to save refresh token")
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh resolves an unrevoked, unexpired refresh token to its owner and
// mints a new access token for the same subject.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	user, err := s.store.UserForRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "internal error", err)
	}
	if user == nil {
		return "", apperr.New(apperr.Unauthorized, "invalid refresh token")
	}
	accessToken, err := MakeJWT(user.ID, s.accessTTL, s.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "internal error", err)
	}
	return accessToken, nil
}

// Revoke marks the refresh token revoked. A token the store has never seen
// is indistinguishable from an already-revoked one and surfaces as a storage
// failure.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	if err := s.store.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return apperr.Wrap(apperr.Internal, "unable to revoke token", err)
	}
	return nil
}

// UpdateUser rehashes the password and updates username and credentials of
// the authenticated user.
func (s *Service) UpdateUser(ctx context.Context, userID, username, password string) (*User, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "internal error", err)
	}
	user, err := s.store.UpdateUser(ctx, userID, username, hashed)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "internal error", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	return user, nil
}

// Authenticate validates an access token and returns the subject user id.
func (s *Service) Authenticate(tokenString string) (string, error) {
	claims, err := ValidateJWT(tokenString, s.secret)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
