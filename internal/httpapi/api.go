package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"resgen.org/api/spec"
	"resgen.org/internal/apperr"
	"resgen.org/internal/auth"
	"resgen.org/internal/obs"
	"resgen.org/internal/resume"
)

// ReadyProbe pings the database for readiness checks.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// DataStore is the persistence surface the handlers use directly.
type DataStore interface {
	UpsertProfile(ctx context.Context, p *resume.Profile) (*resume.Profile, error)
	GetProfile(ctx context.Context, userID string) (*resume.Profile, error)
	DeleteProfile(ctx context.Context, userID string) (bool, error)

	UpsertExperiences(ctx context.Context, rows []*resume.Experience) ([]*resume.Experience, error)
	ListExperiences(ctx context.Context, userID string) ([]*resume.Experience, error)
	GetExperience(ctx context.Context, id string) (*resume.Experience, error)
	UpdateExperience(ctx context.Context, exp *resume.Experience) (*resume.Experience, error)
	DeleteExperience(ctx context.Context, id string) (*resume.Experience, error)
	DeleteExperiences(ctx context.Context, userID string) error

	UpsertEducations(ctx context.Context, rows []*resume.Education) ([]*resume.Education, error)
	ListEducations(ctx context.Context, userID string) ([]*resume.Education, error)
	GetEducation(ctx context.Context, id string) (*resume.Education, error)
	UpdateEducation(ctx context.Context, edu *resume.Education) (*resume.Education, error)
	DeleteEducation(ctx context.Context, id string) (*resume.Education, error)
	DeleteEducations(ctx context.Context, userID string) error

	Reset(ctx context.Context) error
}

// ResumeService generates resumes and lists stored drafts.
type ResumeService interface {
	GenerateDraft(ctx context.Context, userID string) (*resume.Resume, error)
	Drafts(ctx context.Context, userID string) ([]*resume.Draft, error)
}

// Config wires the API's collaborators.
type Config struct {
	Auth       *auth.Service
	Resumes    ResumeService
	Store      DataStore
	ReadyProbe ReadyProbe
	Platform   string
	Version    string

	MaxBodyBytes  int64
	RateBurst     int
	RatePerSecond int
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	auth       *auth.Service
	resumes    ResumeService
	store      DataStore
	readyProbe ReadyProbe
	platform   string
	version    string

	maxBodyBytes int64
	rateBurst    int
	ratePerSec   int
}

func New(cfg Config) *API {
	a := &API{
		mux:          http.NewServeMux(),
		auth:         cfg.Auth,
		resumes:      cfg.Resumes,
		store:        cfg.Store,
		readyProbe:   cfg.ReadyProbe,
		platform:     cfg.Platform,
		version:      cfg.Version,
		maxBodyBytes: cfg.MaxBodyBytes,
		rateBurst:    cfg.RateBurst,
		ratePerSec:   cfg.RatePerSecond,
	}
	if a.maxBodyBytes <= 0 {
		a.maxBodyBytes = 1 << 20
	}

	// auth flows
	a.mux.HandleFunc("/api/login", a.handleLogin)
	a.mux.HandleFunc("/api/refresh", a.handleRefresh)
	a.mux.HandleFunc("/api/revoke", a.handleRevoke)

	// account: register is public, update is not
	a.mux.HandleFunc("/api/users", a.handleUsers)

	// protected resources
	a.mux.Handle("/api/users/profile", a.requireAuth(a.handleProfile))
	a.mux.Handle("/api/users/experience", a.requireAuth(a.handleExperienceCollection))
	a.mux.Handle("/api/users/experience/", a.requireAuth(a.handleExperienceResource))
	a.mux.Handle("/api/users/education", a.requireAuth(a.handleEducationCollection))
	a.mux.Handle("/api/users/education/", a.requireAuth(a.handleEducationResource))
	a.mux.Handle("/api/resume", a.requireAuth(a.handleResume))
	a.mux.Handle("/api/resume/pdf", a.requireAuth(a.handleResumePDF))
	a.mux.Handle("/api/resume/drafts", a.requireAuth(a.handleResumeDrafts))

	// health/ready/info
	a.mux.HandleFunc("/api/healthz", a.Healthz)
	a.mux.HandleFunc("/api/readyz", a.Ready)
	a.mux.HandleFunc("/api/info", a.Info)

	// admin
	a.mux.HandleFunc("/admin/reset", a.handleReset)

	// OpenAPI YAML
	a.mux.HandleFunc("/openapi.yaml", a.OpenAPISpec)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = obs.Instrument(a.mux)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	if a.rateBurst > 0 && a.ratePerSec > 0 {
		h = RateLimit(h, a.rateBurst, a.ratePerSec)
	}
	h = CORS(h)
	h = SecurityHeaders(h)
	h = Logging(h)
	h = RequestID(h)
	return h
}

// --- probes ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "resgen-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "resgen-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

func (a *API) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(spec.OpenAPI)
}

func (a *API) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if a.platform != "dev" {
		writeError(w, r, http.StatusForbidden, "reset is only allowed on the dev platform")
		return
	}
	if err := a.store.Reset(r.Context()); err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

// handleError renders a tagged application error at the HTTP boundary.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.From(err)
	writeError(w, r, e.Kind.Status(), e.Message)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}
