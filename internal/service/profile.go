package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hampi-heritage/quest/backend/internal/domain"
	"github.com/hampi-heritage/quest/backend/internal/repo"
)

// ProfileService exposes a user's gamification profile and the leaderboard.
type ProfileService struct {
	profiles     repo.ProfileRepo
	defaultLimit int
}

// NewProfileService constructs a ProfileService.
// defaultLimit is the leaderboard size used when the caller passes none.
func NewProfileService(profiles repo.ProfileRepo, defaultLimit int) *ProfileService {
	return &ProfileService{profiles: profiles, defaultLimit: defaultLimit}
}

// Get returns the actor's profile together with its level breakdown.
func (s *ProfileService) Get(ctx context.Context, actorID uuid.UUID) (domain.Profile, domain.Progression, error) {
	if actorID == uuid.Nil {
		return domain.Profile{}, domain.Progression{}, fmt.Errorf("service.ProfileService.Get: %w", domain.ErrNotAuthenticated)
	}
	profile, err := s.profiles.GetByUserID(ctx, actorID)
	if err != nil {
		return domain.Profile{}, domain.Progression{}, fmt.Errorf("service.ProfileService.Get: %w", err)
	}
	return profile, domain.ProgressionFor(profile.TotalXP), nil
}

// Leaderboard returns the top profiles by total XP.
// limit <= 0 falls back to the configured default; the ceiling is 100.
func (s *ProfileService) Leaderboard(ctx context.Context, limit int) ([]domain.Profile, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > 100 {
		limit = 100
	}

	profiles, err := s.profiles.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service.ProfileService.Leaderboard: %w", err)
	}
	if profiles == nil {
		return []domain.Profile{}, nil
	}
	return profiles, nil
}
