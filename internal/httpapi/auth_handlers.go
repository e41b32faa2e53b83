package httpapi

import (
	"net/http"
	"strings"
	"time"

	"resgen.org/internal/audit"
	"resgen.org/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type loginResponse struct {
	userResponse
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	result, err := a.auth.Login(r.Context(), username, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"user_id":  result.User.ID,
		"username": result.User.Username,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		userResponse: toUserResponse(result.User),
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	token, err := auth.GetBearerToken(r.Header)
	if err != nil {
		handleError(w, r, err)
		return
	}

	accessToken, err := a.auth.Refresh(r.Context(), token)
	if err != nil {
		handleError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.refresh", nil)

	writeJSON(w, http.StatusOK, map[string]string{"token": accessToken})
}

func (a *API) handleRevoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	token, err := auth.GetBearerToken(r.Header)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := a.auth.Revoke(r.Context(), token); err != nil {
		handleError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.revoke", nil)

	w.WriteHeader(http.StatusNoContent)
}
