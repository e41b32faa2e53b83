package httpapi

import (
	"net/http"

	"resgen.org/internal/auth"
)

// requireAuth gates a handler behind a valid access token. A request with no
// Authorization header is unauthenticated (401); one with a header that is
// not `Bearer <token>` shaped is malformed (400); a bad or expired token is
// unauthenticated (401). On success the user id rides the request context.
func (a *API) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token, err := auth.GetBearerToken(r.Header)
		if err != nil {
			handleError(w, r, err)
			return
		}

		userID, err := a.auth.Authenticate(token)
		if err != nil {
			handleError(w, r, err)
			return
		}

		ctx := auth.ContextWithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUserID pulls the authenticated subject off the context. Handlers
// registered behind requireAuth can rely on it being present.
func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}
