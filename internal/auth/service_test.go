package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"resgen.org/internal/apperr"
)

// stubStore is a minimal in-memory Store for service tests.
type stubStore struct {
	users    map[string]*User // by username
	refresh  map[string]*RefreshToken
	saveErr  error
	revokeFn func(token string) error
}

func newStubStore() *stubStore {
	return &stubStore{
		users:   map[string]*User{},
		refresh: map[string]*RefreshToken{},
	}
}

func (s *stubStore) CreateUser(_ context.Context, username, hashedPassword string) (*User, error) {
	if _, exists := s.users[username]; exists {
		return nil, nil
	}
	u := &User{ID: "id-" + username, Username: username, HashedPassword: hashedPassword}
	s.users[username] = u
	return u, nil
}

func (s *stubStore) GetUserByUsername(_ context.Context, username string) (*User, error) {
	return s.users[username], nil
}

func (s *stubStore) GetUserByID(_ context.Context, id string) (*User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubStore) UpdateUser(_ context.Context, id, username, hashedPassword string) (*User, error) {
	for old, u := range s.users {
		if u.ID == id {
			delete(s.users, old)
			u.Username = username
			u.HashedPassword = hashedPassword
			s.users[username] = u
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubStore) SaveRefreshToken(_ context.Context, userID, token string, expiresAt time.Time) (*RefreshToken, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	rt := &RefreshToken{Token: token, UserID: userID, ExpiresAt: expiresAt}
	s.refresh[token] = rt
	return rt, nil
}

func (s *stubStore) UserForRefreshToken(_ context.Context, token string) (*User, error) {
	rt, ok := s.refresh[token]
	if !ok || rt.RevokedAt != nil || !rt.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return s.GetUserByID(context.Background(), rt.UserID)
}

func (s *stubStore) RevokeRefreshToken(_ context.Context, token string) error {
	if s.revokeFn != nil {
		return s.revokeFn(token)
	}
	rt, ok := s.refresh[token]
	if !ok {
		return errors.New("no rows updated")
	}
	now := time.Now()
	rt.RevokedAt = &now
	return nil
}

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	return NewService(store, "unit-test-secret", time.Hour, 24*time.Hour)
}

func registerAndLogin(t *testing.T, svc *Service) *LoginResult {
	t.Helper()
	if _, err := svc.Register(t.Context(), "alice", "correct-horse-battery"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	res, err := svc.Login(t.Context(), "alice", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return res
}

func TestLoginIssuesVerifiableTokens(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)

	res := registerAndLogin(t, svc)

	userID, err := svc.Authenticate(res.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if userID != res.User.ID {
		t.Fatalf("subject %s does not match user %s", userID, res.User.ID)
	}
	if _, ok := store.refresh[res.RefreshToken]; !ok {
		t.Fatal("refresh token was not persisted")
	}
	if len(res.RefreshToken) != 64 {
		t.Fatalf("expected 32-byte hex refresh token, got %d chars", len(res.RefreshToken))
	}
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	svc := newTestService(t, newStubStore())
	_, err := svc.Login(t.Context(), "nobody", "whatever")
	if !apperr.IsKind(err, apperr.Unauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)
	if _, err := svc.Register(t.Context(), "alice", "correct-horse-battery"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Login(t.Context(), "alice", "wrong-password")
	if !apperr.IsKind(err, apperr.Unauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestLoginFailsWhollyWhenRefreshSaveFails(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)
	if _, err := svc.Register(t.Context(), "alice", "correct-horse-battery"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	store.saveErr = errors.New("disk full")
	_, err := svc.Login(t.Context(), "alice", "correct-horse-battery")
	if !apperr.IsKind(err, apperr.Internal) {
		t.Fatalf("expected Internal when persistence fails, got %v", err)
	}
}

func TestRefreshMintsTokenForSameSubject(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)
	res := registerAndLogin(t, svc)

	token, err := svc.Refresh(t.Context(), res.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	userID, err := svc.Authenticate(token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if userID != res.User.ID {
		t.Fatalf("refreshed token subject %s, want %s", userID, res.User.ID)
	}
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)
	res := registerAndLogin(t, svc)

	if err := svc.Revoke(t.Context(), res.RefreshToken); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	_, err := svc.Refresh(t.Context(), res.RefreshToken)
	if !apperr.IsKind(err, apperr.Unauthorized) {
		t.Fatalf("expected Unauthorized after revocation, got %v", err)
	}
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)
	res := registerAndLogin(t, svc)

	store.refresh[res.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)
	_, err := svc.Refresh(t.Context(), res.RefreshToken)
	if !apperr.IsKind(err, apperr.Unauthorized) {
		t.Fatalf("expected Unauthorized for expired token, got %v", err)
	}
}

func TestRevokeUnknownTokenFails(t *testing.T) {
	svc := newTestService(t, newStubStore())
	err := svc.Revoke(t.Context(), "never-issued")
	if !apperr.IsKind(err, apperr.Internal) {
		t.Fatalf("expected Internal for unknown token, got %v", err)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := newTestService(t, newStubStore())
	_, err := svc.UpdateUser(t.Context(), "missing-id", "bob", "new-password-123")
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestMakeRefreshTokenIsHexAndUnique(t *testing.T) {
	a, err := MakeRefreshToken()
	if err != nil {
		t.Fatalf("MakeRefreshToken: %v", err)
	}
	b, err := MakeRefreshToken()
	if err != nil {
		t.Fatalf("MakeRefreshToken: %v", err)
	}
	if a == b {
		t.Fatal("two refresh tokens collided")
	}
	for _, c := range a {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Fatalf("non-hex character %q in token", c)
		}
	}
}
