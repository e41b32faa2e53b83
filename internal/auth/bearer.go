package auth

import (
	"net/http"
	"strings"

	"resgen.org/internal/apperr"
)

// GetBearerToken pulls the token out of the Authorization header. An absent
// header means no credentials were offered (Unauthorized); a header that is
// present but not of the `Bearer <token>` shape is malformed client input
// (BadRequest). The distinction is part of the API contract.
func GetBearerToken(h http.Header) (string, error) {
	header := h.Get("Authorization")
	if header == "" {
		return "", apperr.New(apperr.Unauthorized, "malformed authorization header")
	}
	return extractBearerToken(header)
}

func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 3)
	if len(parts) < 2 || parts[0] != "Bearer" {
		return "", apperr.New(apperr.BadRequest, "malformed authorization header")
	}
	if parts[1] == "" {
		return "", apperr.New(apperr.BadRequest, "token not present in header")
	}
	return parts[1], nil
}
