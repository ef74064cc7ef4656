// Package handler implements the HTTP handlers for the Heritage Quest API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, site.go, checkin.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hampi-heritage/quest/backend/internal/domain"
	"github.com/hampi-heritage/quest/backend/internal/geo"
	"github.com/hampi-heritage/quest/backend/internal/guide"
)

// SiteServicer defines the catalog operations the site handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type SiteServicer interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.HeritageSite, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.HeritageSite, int64, error)
}

// CheckinServicer defines the check-in and passport operations the check-in
// handler depends on.
type CheckinServicer interface {
	Evaluate(ctx context.Context, siteID uuid.UUID, current geo.Coordinate) (geo.ProximityResult, error)
	CollectByProximity(ctx context.Context, actorID, siteID uuid.UUID, current geo.Coordinate) (domain.PassportStamp, geo.ProximityResult, error)
	CollectByQR(ctx context.Context, actorID uuid.UUID, code string) (domain.PassportStamp, error)
	ListStamps(ctx context.Context, actorID uuid.UUID) ([]domain.PassportStamp, error)
}

// AchievementServicer defines the achievement operations the achievement
// handler depends on.
type AchievementServicer interface {
	List(ctx context.Context) ([]domain.Achievement, error)
	ListEarned(ctx context.Context, actorID uuid.UUID) ([]domain.UserAchievement, error)
	Award(ctx context.Context, actorID, achievementID uuid.UUID) (domain.UserAchievement, error)
}

// ProfileServicer defines the profile and leaderboard operations the profile
// handler depends on.
type ProfileServicer interface {
	Get(ctx context.Context, actorID uuid.UUID) (domain.Profile, domain.Progression, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.Profile, error)
}

// GuideServicer defines the conversational guide operation the guide handler
// depends on.
type GuideServicer interface {
	Chat(ctx context.Context, actorID uuid.UUID, history []guide.Message) (string, error)
}

// Server holds the handlers for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	sites        SiteServicer
	checkins     CheckinServicer
	achievements AchievementServicer
	profiles     ProfileServicer
	guide        GuideServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(sites SiteServicer, checkins CheckinServicer, achievements AchievementServicer, profiles ProfileServicer, guide GuideServicer) *Server {
	return &Server{
		sites:        sites,
		checkins:     checkins,
		achievements: achievements,
		profiles:     profiles,
		guide:        guide,
	}
}

// Routes returns the API route table as a chi router.
// Cross-cutting middleware (request IDs, logging, CORS, auth) is applied by
// main.go around this router, not here, so tests exercise bare routes.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Get("/sites", s.ListSites)
	r.Get("/sites/{siteID}", s.GetSite)

	r.Get("/checkin/proximity/{siteID}", s.EvaluateProximity)
	r.Post("/checkin/proximity", s.CollectByProximity)
	r.Post("/checkin/qr", s.CollectByQR)
	r.Get("/stamps", s.ListStamps)

	r.Get("/achievements", s.ListAchievements)
	r.Get("/achievements/earned", s.ListEarnedAchievements)
	r.Post("/achievements/{achievementID}/claim", s.ClaimAchievement)

	r.Get("/profile", s.GetProfile)
	r.Get("/leaderboard", s.GetLeaderboard)

	r.Post("/guide/chat", s.GuideChat)

	return r
}

// pathUUID extracts and parses a UUID path parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}
