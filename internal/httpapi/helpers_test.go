package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"resgen.org/internal/auth"
	"resgen.org/internal/resume"
)

// memStore backs the handler tests with maps instead of Postgres. It
// implements both the auth store and the data store contracts.
type memStore struct {
	mu          sync.Mutex
	users       map[string]*auth.User
	refresh     map[string]*auth.RefreshToken
	profiles    map[string]*resume.Profile
	experiences map[string]*resume.Experience
	educations  map[string]*resume.Education
	resetCalls  int
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]*auth.User),
		refresh:     make(map[string]*auth.RefreshToken),
		profiles:    make(map[string]*resume.Profile),
		experiences: make(map[string]*resume.Experience),
		educations:  make(map[string]*resume.Education),
	}
}

func (m *memStore) CreateUser(_ context.Context, username, hashedPassword string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return nil, nil
		}
	}
	now := time.Now().UTC()
	user := &auth.User{
		ID:             uuid.NewString(),
		Username:       username,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *memStore) UpdateUser(_ context.Context, id, username, hashedPassword string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	user.Username = username
	user.HashedPassword = hashedPassword
	user.UpdatedAt = time.Now().UTC()
	return user, nil
}

func (m *memStore) SaveRefreshToken(_ context.Context, userID, token string, expiresAt time.Time) (*auth.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	rt := &auth.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.refresh[token] = rt
	return rt, nil
}

func (m *memStore) UserForRefreshToken(_ context.Context, token string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.refresh[token]
	if !ok || rt.RevokedAt != nil || rt.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	return m.users[rt.UserID], nil
}

func (m *memStore) RevokeRefreshToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.refresh[token]
	if !ok || rt.RevokedAt != nil {
		return errors.New("no refresh token rows matched")
	}
	now := time.Now().UTC()
	rt.RevokedAt = &now
	rt.UpdatedAt = now
	return nil
}

func (m *memStore) UpsertProfile(_ context.Context, p *resume.Profile) (*resume.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	stored := *p
	if existing, ok := m.profiles[p.UserID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.profiles[p.UserID] = &stored
	return &stored, nil
}

func (m *memStore) GetProfile(_ context.Context, userID string) (*resume.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[userID], nil
}

func (m *memStore) DeleteProfile(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.profiles[userID]
	delete(m.profiles, userID)
	return ok, nil
}

func (m *memStore) UpsertExperiences(_ context.Context, rows []*resume.Experience) ([]*resume.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	results := make([]*resume.Experience, 0, len(rows))
	for _, exp := range rows {
		stored := *exp
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		stored.CreatedAt = now
		stored.UpdatedAt = now
		m.experiences[stored.ID] = &stored
		results = append(results, &stored)
	}
	return results, nil
}

func (m *memStore) ListExperiences(_ context.Context, userID string) ([]*resume.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := []*resume.Experience{}
	for _, exp := range m.experiences {
		if exp.UserID == userID {
			results = append(results, exp)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].SortOrder < results[j].SortOrder })
	return results, nil
}

func (m *memStore) GetExperience(_ context.Context, id string) (*resume.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.experiences[id], nil
}

func (m *memStore) UpdateExperience(_ context.Context, exp *resume.Experience) (*resume.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.experiences[exp.ID]
	if !ok {
		return nil, nil
	}
	stored := *exp
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	m.experiences[exp.ID] = &stored
	return &stored, nil
}

func (m *memStore) DeleteExperience(_ context.Context, id string) (*resume.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.experiences[id]
	if !ok {
		return nil, nil
	}
	delete(m.experiences, id)
	return exp, nil
}

func (m *memStore) DeleteExperiences(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, exp := range m.experiences {
		if exp.UserID == userID {
			delete(m.experiences, id)
		}
	}
	return nil
}

func (m *memStore) UpsertEducations(_ context.Context, rows []*resume.Education) ([]*resume.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	results := make([]*resume.Education, 0, len(rows))
	for _, edu := range rows {
		stored := *edu
		if stored.ID == "" {
			stored.ID = uuid.NewString()
		}
		stored.CreatedAt = now
		stored.UpdatedAt = now
		m.educations[stored.ID] = &stored
		results = append(results, &stored)
	}
	return results, nil
}

func (m *memStore) ListEducations(_ context.Context, userID string) ([]*resume.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := []*resume.Education{}
	for _, edu := range m.educations {
		if edu.UserID == userID {
			results = append(results, edu)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		yi, yj := 0, 0
		if results[i].Year != nil {
			yi = *results[i].Year
		}
		if results[j].Year != nil {
			yj = *results[j].Year
		}
		return yi > yj
	})
	return results, nil
}

func (m *memStore) GetEducation(_ context.Context, id string) (*resume.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.educations[id], nil
}

func (m *memStore) UpdateEducation(_ context.Context, edu *resume.Education) (*resume.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.educations[edu.ID]
	if !ok {
		return nil, nil
	}
	stored := *edu
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	m.educations[edu.ID] = &stored
	return &stored, nil
}

func (m *memStore) DeleteEducation(_ context.Context, id string) (*resume.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	edu, ok := m.educations[id]
	if !ok {
		return nil, nil
	}
	delete(m.educations, id)
	return edu, nil
}

func (m *memStore) DeleteEducations(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, edu := range m.educations {
		if edu.UserID == userID {
			delete(m.educations, id)
		}
	}
	return nil
}

func (m *memStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCalls++
	m.users = make(map[string]*auth.User)
	m.refresh = make(map[string]*auth.RefreshToken)
	m.profiles = make(map[string]*resume.Profile)
	m.experiences = make(map[string]*resume.Experience)
	m.educations = make(map[string]*resume.Education)
	return nil
}

// stubResumes replaces the generation pipeline in handler tests.
type stubResumes struct {
	result *resume.Resume
	err    error
	drafts []*resume.Draft
}

func (s *stubResumes) GenerateDraft(_ context.Context, _ string) (*resume.Resume, error) {
	return s.result, s.err
}

func (s *stubResumes) Drafts(_ context.Context, _ string) ([]*resume.Draft, error) {
	return s.drafts, nil
}

type apiClient struct {
	baseURL string
	client  *http.Client
	t       *testing.T
	store   *memStore
	resumes *stubResumes
}

func newTestAPI(t *testing.T, platform string) *apiClient {
	t.Helper()

	store := newMemStore()
	resumes := &stubResumes{
		result: &resume.Resume{Headline: "Test Candidate"},
	}
	authSvc := auth.NewService(store, "test-secret", time.Hour, 24*time.Hour)

	api := New(Config{
		Auth:          authSvc,
		Resumes:       resumes,
		Store:         store,
		Platform:      platform,
		Version:       "test",
		MaxBodyBytes:  1 << 20,
		RateBurst:     1000,
		RatePerSecond: 1000,
	})

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &apiClient{
		baseURL: srv.URL,
		client:  srv.Client(),
		t:       t,
		store:   store,
		resumes: resumes,
	}
}

func (c *apiClient) do(method, path string, body any, headers map[string]string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) post(path string, body any, headers map[string]string) *http.Response {
	return c.do(http.MethodPost, path, body, headers)
}

func (c *apiClient) get(path string, headers map[string]string) *http.Response {
	return c.do(http.MethodGet, path, nil, headers)
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// registerAndLogin provisions a user and returns the issued tokens.
func (c *apiClient) registerAndLogin(username, password string) (accessToken, refreshToken string) {
	c.t.Helper()

	resp := c.post("/api/users", map[string]string{"username": username, "password": password}, nil)
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = c.post("/api/login", map[string]string{"username": username, "password": password}, nil)
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	}
	decodeBody(c.t, resp, &result)
	return result.Token, result.RefreshToken
}
