package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"resgen.org/internal/resume"
)

type experienceRequest struct {
	ID        string   `json:"id"`
	Company   string   `json:"company"`
	Title     string   `json:"title"`
	Location  *string  `json:"location"`
	StartDate string   `json:"startDate"`
	EndDate   *string  `json:"endDate"`
	Bullets   []string `json:"bullets"`
	SortOrder *int     `json:"sortOrder"`
}

func (req *experienceRequest) validate() string {
	if strings.TrimSpace(req.Company) == "" {
		return "company is required"
	}
	if strings.TrimSpace(req.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(req.StartDate) == "" {
		return "startDate is required"
	}
	return ""
}

// toRow converts the request into a store row. A missing sortOrder falls
// back to the row's position in the submitted batch.
func (req *experienceRequest) toRow(userID string, index int) *resume.Experience {
	sortOrder := index
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	return &resume.Experience{
		ID:        req.ID,
		UserID:    userID,
		Company:   strings.TrimSpace(req.Company),
		Title:     strings.TrimSpace(req.Title),
		Location:  req.Location,
		StartDate: strings.TrimSpace(req.StartDate),
		EndDate:   req.EndDate,
		Bullets:   req.Bullets,
		SortOrder: sortOrder,
	}
}

// decodeBatch accepts either a single object or an array of objects, the
// shape the original API tolerates.
func decodeExperienceBatch(w http.ResponseWriter, r *http.Request) ([]*experienceRequest, error) {
	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var reqs []*experienceRequest
		if err := json.Unmarshal(raw, &reqs); err != nil {
			return nil, err
		}
		return reqs, nil
	}
	var req experienceRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return []*experienceRequest{&req}, nil
}

func (a *API) handleExperienceCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.upsertExperiences(w, r)
	case http.MethodGet:
		a.listExperiences(w, r)
	case http.MethodDelete:
		a.deleteAllExperiences(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (a *API) handleExperienceResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/users/experience/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		a.updateExperience(w, r, id)
	case http.MethodDelete:
		a.deleteExperience(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) upsertExperiences(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	reqs, err := decodeExperienceBatch(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(reqs) == 0 {
		writeError(w, r, http.StatusBadRequest, "at least one experience is required")
		return
	}

	rows := make([]*resume.Experience, 0, len(reqs))
	for i, req := range reqs {
		if msg := req.validate(); msg != "" {
			writeError(w, r, http.StatusBadRequest, msg)
			return
		}
		rows = append(rows, req.toRow(userID, i))
	}

	saved, err := a.store.UpsertExperiences(r.Context(), rows)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (a *API) listExperiences(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	rows, err := a.store.ListExperiences(r.Context(), userID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) updateExperience(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req experienceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	existing, err := a.store.GetExperience(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil || existing.UserID != userID {
		writeError(w, r, http.StatusBadRequest, "invalid experience id")
		return
	}

	// keep the stored ordering unless the request sets one
	row := req.toRow(userID, existing.SortOrder)
	row.ID = id

	saved, err := a.store.UpdateExperience(r.Context(), row)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if saved == nil {
		writeError(w, r, http.StatusBadRequest, "invalid experience id")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (a *API) deleteExperience(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	existing, err := a.store.GetExperience(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil || existing.UserID != userID {
		writeError(w, r, http.StatusBadRequest, "invalid experience id")
		return
	}

	deleted, err := a.store.DeleteExperience(r.Context(), id)
	if err != nil || deleted == nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Experience deleted successfully",
		"experience": deleted,
	})
}

func (a *API) deleteAllExperiences(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := a.store.DeleteExperiences(r.Context(), userID); err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
