package httpapi

import (
	"net/http"
	"strconv"

	"resgen.org/internal/audit"
	"resgen.org/internal/resume"
)

func (a *API) handleResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	result, err := a.resumes.GenerateDraft(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "resume.generated", map[string]any{
		"format": "json",
	})

	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleResumePDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	result, err := a.resumes.GenerateDraft(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	doc, err := resume.RenderPDF(result)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "resume.generated", map[string]any{
		"format": "pdf",
	})

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="resume.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (a *API) handleResumeDrafts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	drafts, err := a.resumes.Drafts(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, drafts)
}
