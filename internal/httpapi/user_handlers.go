package httpapi

import (
	"net/http"
	"strings"

	"resgen.org/internal/audit"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func validateCredentials(req *credentialsRequest) string {
	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 3 {
		return "username must be at least 3 characters"
	}
	if len(req.Password) < 8 {
		return "password must be at least 8 characters"
	}
	return ""
}

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.registerUser(w, r)
	case http.MethodPut:
		a.updateUser(w, r)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodPut)
	}
}

func (a *API) registerUser(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateCredentials(&req); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	user, err := a.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "user.registered", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// updateUser is the one /api/users verb behind the gate; the collection
// route is registered publicly for registration, so the token check happens
// here rather than in middleware.
func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUserID(w, r)
		if !ok {
			return
		}

		var req credentialsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if msg := validateCredentials(&req); msg != "" {
			writeError(w, r, http.StatusBadRequest, msg)
			return
		}

		user, err := a.auth.UpdateUser(r.Context(), userID, req.Username, req.Password)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(user))
	}).ServeHTTP(w, r)
}
