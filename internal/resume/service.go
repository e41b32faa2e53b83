package resume

import (
	"context"

	"resgen.org/internal/apperr"
	"resgen.org/internal/obs"
)

// Store is the persistence surface the resume service reads and writes.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	ListExperiences(ctx context.Context, userID string) ([]*Experience, error)
	ListEducations(ctx context.Context, userID string) ([]*Education, error)
	SaveDraft(ctx context.Context, userID string, targetRole *string, bodyJSON string) (*Draft, error)
	ListDrafts(ctx context.Context, userID string) ([]*Draft, error)
}

// Generator is the text-generation collaborator behind an interface so
// handler tests can stub the model.
type Generator interface {
	Generate(ctx context.Context, req *GenerateRequest) (*Resume, string, error)
}

// Service assembles candidate data, calls the generator and persists drafts.
type Service struct {
	store     Store
	generator Generator
}

// NewService constructs the resume service.
func NewService(store Store, generator Generator) *Service {
	return &Service{store: store, generator: generator}
}

// BuildRequest hydrates the user's profile, experiences and educations into
// a generation request. Missing profile fields become empty strings; the
// model prompt tolerates sparse candidates.
func (s *Service) BuildRequest(ctx context.Context, userID string) (*GenerateRequest, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "internal error", err)
	}
	experiences, err := s.store.ListExperiences(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "internal error", err)
	}
	educations, err := s.store.ListEducations(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "internal error", err)
	}

	req := &GenerateRequest{
		Experience: make([]RequestExperience, 0, len(experiences)),
		Education:  make([]RequestEducation, 0, len(educations)),
	}
	if profile != nil {
		req.Name = profile.Name
		req.Title = deref(profile.Title)
		req.TargetRole = deref(profile.TargetRole)
		req.Contact = Contact{
			Email: deref(profile.Email),
			Phone: deref(profile.Phone),
		}
	}
	for _, exp := range experiences {
		req.Experience = append(req.Experience, RequestExperience{
			Company:      exp.Company,
			Location:     deref(exp.Location),
			Title:        exp.Title,
			StartDate:    exp.StartDate,
			EndDate:      deref(exp.EndDate),
			Achievements: exp.Bullets,
		})
	}
	for _, edu := range educations {
		req.Education = append(req.Education, RequestEducation{
			School: edu.School,
			Degree: edu.Credential,
			Year:   edu.Year,
		})
	}
	return req, nil
}

// GenerateDraft runs the full pipeline: hydrate, generate, persist. Draft
// persistence is best-effort; a storage hiccup must not discard a generation
// the caller already paid for.
func (s *Service) GenerateDraft(ctx context.Context, userID string) (*Resume, error) {
	req, err := s.BuildRequest(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, body, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var targetRole *string
	if req.TargetRole != "" {
		targetRole = &req.TargetRole
	}
	if _, err := s.store.SaveDraft(ctx, userID, targetRole, body); err != nil {
		obs.LogRequest(map[string]any{
			"level":   "warn",
			"msg":     "resume draft save failed",
			"user_id": userID,
			"error":   err.Error(),
		})
	}
	return result, nil
}

// Drafts lists the stored drafts for the user, newest first.
func (s *Service) Drafts(ctx context.Context, userID string) ([]*Draft, error) {
	drafts, err := s.store.ListDrafts(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "internal error", err)
	}
	return drafts, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
