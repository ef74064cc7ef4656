package handler

import (
	"net/http"

	"github.com/hampi-heritage/quest/backend/internal/middleware"
)

// ListAchievements handles GET /achievements.
// The catalog is public; it renders for signed-out visitors too.
func (s *Server) ListAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := s.achievements.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, achievements)
}

// ListEarnedAchievements handles GET /achievements/earned.
func (s *Server) ListEarnedAchievements(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.UserID(r.Context())
	earned, err := s.achievements.ListEarned(r.Context(), actorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, earned)
}

// ClaimAchievement handles POST /achievements/{achievementID}/claim.
func (s *Server) ClaimAchievement(w http.ResponseWriter, r *http.Request) {
	achievementID, ok := pathUUID(r, "achievementID")
	if !ok {
		requestError(w, "achievement ID must be a UUID")
		return
	}

	actorID, _ := middleware.UserID(r.Context())
	award, err := s.achievements.Award(r.Context(), actorID, achievementID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, award)
}
