package httpapi

import (
	"net/http"
	"strings"

	"resgen.org/internal/resume"
)

type profileRequest struct {
	Name       string   `json:"name"`
	Title      *string  `json:"title"`
	TargetRole *string  `json:"targetRole"`
	Email      *string  `json:"email"`
	Phone      *string  `json:"phone"`
	Skills     []string `json:"skills"`
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost, http.MethodPut:
		a.upsertProfile(w, r)
	case http.MethodGet:
		a.getProfile(w, r)
	case http.MethodDelete:
		a.deleteProfile(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) upsertProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	if emptyStr(req.Email) && emptyStr(req.Phone) {
		writeError(w, r, http.StatusBadRequest, "email or phone is required")
		return
	}

	profile, err := a.store.UpsertProfile(r.Context(), &resume.Profile{
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		Title:      req.Title,
		TargetRole: req.TargetRole,
		Email:      req.Email,
		Phone:      req.Phone,
		Skills:     req.Skills,
	})
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (a *API) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	profile, err := a.store.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if profile == nil {
		writeError(w, r, http.StatusBadRequest, "unable to retrieve user profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (a *API) deleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if _, err := a.store.DeleteProfile(r.Context(), userID); err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func emptyStr(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
