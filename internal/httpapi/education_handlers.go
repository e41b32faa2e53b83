package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"resgen.org/internal/resume"
)

type educationRequest struct {
	ID         string `json:"id"`
	School     string `json:"school"`
	Credential string `json:"credential"`
	Year       *int   `json:"year"`
}

func (req *educationRequest) validate() string {
	if strings.TrimSpace(req.School) == "" {
		return "school is required"
	}
	if strings.TrimSpace(req.Credential) == "" {
		return "credential is required"
	}
	return ""
}

func (req *educationRequest) toRow(userID string) *resume.Education {
	return &resume.Education{
		ID:         req.ID,
		UserID:     userID,
		School:     strings.TrimSpace(req.School),
		Credential: strings.TrimSpace(req.Credential),
		Year:       req.Year,
	}
}

func decodeEducationBatch(w http.ResponseWriter, r *http.Request) ([]*educationRequest, error) {
	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var reqs []*educationRequest
		if err := json.Unmarshal(raw, &reqs); err != nil {
			return nil, err
		}
		return reqs, nil
	}
	var req educationRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return []*educationRequest{&req}, nil
}

func (a *API) handleEducationCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.upsertEducations(w, r)
	case http.MethodGet:
		a.listEducations(w, r)
	case http.MethodDelete:
		a.deleteAllEducations(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (a *API) handleEducationResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/users/education/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		a.updateEducation(w, r, id)
	case http.MethodDelete:
		a.deleteEducation(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) upsertEducations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	reqs, err := decodeEducationBatch(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(reqs) == 0 {
		writeError(w, r, http.StatusBadRequest, "at least one education is required")
		return
	}

	rows := make([]*resume.Education, 0, len(reqs))
	for _, req := range reqs {
		if msg := req.validate(); msg != "" {
			writeError(w, r, http.StatusBadRequest, msg)
			return
		}
		rows = append(rows, req.toRow(userID))
	}

	saved, err := a.store.UpsertEducations(r.Context(), rows)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (a *API) listEducations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	rows, err := a.store.ListEducations(r.Context(), userID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) updateEducation(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req educationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	existing, err := a.store.GetEducation(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil || existing.UserID != userID {
		writeError(w, r, http.StatusBadRequest, "invalid education id")
		return
	}

	row := req.toRow(userID)
	row.ID = id

	saved, err := a.store.UpdateEducation(r.Context(), row)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if saved == nil {
		writeError(w, r, http.StatusBadRequest, "invalid education id")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (a *API) deleteEducation(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	existing, err := a.store.GetEducation(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil || existing.UserID != userID {
		writeError(w, r, http.StatusBadRequest, "invalid education id")
		return
	}

	deleted, err := a.store.DeleteEducation(r.Context(), id)
	if err != nil || deleted == nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Education deleted successfully",
		"education": deleted,
	})
}

func (a *API) deleteAllEducations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := a.store.DeleteEducations(r.Context(), userID); err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
