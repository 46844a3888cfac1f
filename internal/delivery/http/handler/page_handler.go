package handler

import (
	"net/http"

	"github.com/carewell-health/carewell/pkg/response"
)

// PageHandler stands in for the frontend renderer: every path that makes
// it through the access gate receives the application shell. Page
// content itself is rendered client-side.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Shell(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "OK", map[string]string{
		"path": r.URL.Path,
	})
}
