package handler

import (
	"net/http"
	"strconv"

	"github.com/hampi-heritage/quest/backend/internal/domain"
	"github.com/hampi-heritage/quest/backend/internal/middleware"
)

// ProfileResponse is the body of GET /profile: the stored profile plus the
// level breakdown derived from total XP.
type ProfileResponse struct {
	Profile     domain.Profile     `json:"profile"`
	Progression domain.Progression `json:"progression"`
}

// GetProfile handles GET /profile.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.UserID(r.Context())
	profile, progression, err := s.profiles.Get(r.Context(), actorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{Profile: profile, Progression: progression})
}

// GetLeaderboard handles GET /leaderboard.
// ?limit= overrides the configured default size; the service caps it at 100.
// The leaderboard is public and needs no authentication.
func (s *Server) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	profiles, err := s.profiles.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}
