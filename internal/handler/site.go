package handler

import (
	"net/http"
	"strconv"

	"github.com/hampi-heritage/quest/backend/internal/domain"
)

// Pagination echoes the applied paging parameters alongside list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// SiteListResponse is the body of GET /sites.
type SiteListResponse struct {
	Data       []domain.HeritageSite `json:"data"`
	Pagination Pagination            `json:"pagination"`
}

// ListSites handles GET /sites.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListSites(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	sites, total, err := s.sites.List(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SiteListResponse{
		Data: sites,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetSite handles GET /sites/{siteID}.
func (s *Server) GetSite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "siteID")
	if !ok {
		requestError(w, "site ID must be a UUID")
		return
	}

	site, err := s.sites.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

// queryInt parses an integer query parameter, returning nil when absent or
// malformed so domain.NewPaginationParams applies its default.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
