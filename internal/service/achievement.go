package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hampi-heritage/quest/backend/internal/domain"
	"github.com/hampi-heritage/quest/backend/internal/observability"
	"github.com/hampi-heritage/quest/backend/internal/repo"
)

// AchievementService implements the award workflow and the automatic
// evaluation of progress-based achievements after a check-in.
type AchievementService struct {
	uow          repo.UnitOfWork
	achievements repo.AchievementRepo
}

// NewAchievementService constructs an AchievementService.
func NewAchievementService(uow repo.UnitOfWork, achievements repo.AchievementRepo) *AchievementService {
	return &AchievementService{uow: uow, achievements: achievements}
}

// List returns the full achievement catalog, rarest first.
func (s *AchievementService) List(ctx context.Context) ([]domain.Achievement, error) {
	achievements, err := s.achievements.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.AchievementService.List: %w", err)
	}
	if achievements == nil {
		return []domain.Achievement{}, nil
	}
	return achievements, nil
}

// ListEarned returns the actor's earned achievements, most recent first.
func (s *AchievementService) ListEarned(ctx context.Context, actorID uuid.UUID) ([]domain.UserAchievement, error) {
	if actorID == uuid.Nil {
		return nil, fmt.Errorf("service.AchievementService.ListEarned: %w", domain.ErrNotAuthenticated)
	}
	earned, err := s.achievements.ListEarned(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("service.AchievementService.ListEarned: %w", err)
	}
	if earned == nil {
		return []domain.UserAchievement{}, nil
	}
	return earned, nil
}

// Award grants an achievement to an authenticated actor.
//
// Preconditions, first failure wins: actor authenticated, achievement
// exists, not already earned. The award insert and the profile XP/level
// update commit as one transaction with the profile row locked; the UNIQUE
// constraint on user_achievements is the authoritative duplicate check.
func (s *AchievementService) Award(ctx context.Context, actorID, achievementID uuid.UUID) (domain.UserAchievement, error) {
	if actorID == uuid.Nil {
		return domain.UserAchievement{}, fmt.Errorf("service.AchievementService.Award: %w", domain.ErrNotAuthenticated)
	}

	achievement, err := s.achievements.GetByID(ctx, achievementID)
	if err != nil {
		return domain.UserAchievement{}, fmt.Errorf("service.AchievementService.Award: %w", err)
	}

	// Fast path only; the insert inside the transaction decides for real.
	if _, err := s.achievements.FindEarned(ctx, actorID, achievementID); err == nil {
		return domain.UserAchievement{}, fmt.Errorf("service.AchievementService.Award: %w", domain.ErrAlreadyEarned)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.UserAchievement{}, fmt.Errorf("service.AchievementService.Award: %w", err)
	}

	reward := achievement.XPReward
	if reward <= 0 {
		reward = domain.DefaultXPReward
	}

	var award domain.UserAchievement
	err = s.uow.WithTx(ctx, func(r repo.RepoSet) error {
		p, err := r.Profiles.GetByUserIDForUpdate(ctx, actorID)
		if err != nil {
			return err
		}

		award, err = r.Achievements.InsertEarned(ctx, actorID, achievementID)
		if err != nil {
			return err
		}

		newXP := p.TotalXP + reward
		_, err = r.Profiles.ApplyProgress(ctx, actorID, newXP, domain.LevelFor(newXP), p.SitesVisited)
		return err
	})
	if err != nil {
		return domain.UserAchievement{}, fmt.Errorf("service.AchievementService.Award: %w", err)
	}

	observability.RecordAchievementAwarded(achievement.Rarity)
	return award, nil
}

// EvaluateProgress awards every unearned achievement whose sites_visited or
// total_xp requirement is satisfied by the given profile snapshot. XP
// granted by one award can satisfy the next, so requirements are re-checked
// against the running total. Concurrent evaluators may race to the same
// award; the loser's ErrAlreadyEarned is swallowed.
func (s *AchievementService) EvaluateProgress(ctx context.Context, actorID uuid.UUID, profile domain.Profile) ([]domain.UserAchievement, error) {
	if actorID == uuid.Nil {
		return nil, fmt.Errorf("service.AchievementService.EvaluateProgress: %w", domain.ErrNotAuthenticated)
	}

	catalog, err := s.achievements.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.AchievementService.EvaluateProgress: %w", err)
	}
	earned, err := s.achievements.ListEarned(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("service.AchievementService.EvaluateProgress: %w", err)
	}

	earnedIDs := make(map[uuid.UUID]bool, len(earned))
	for _, ua := range earned {
		earnedIDs[ua.AchievementID] = true
	}

	awarded := []domain.UserAchievement{}
	for _, a := range catalog {
		if earnedIDs[a.ID] || !a.MetBy(profile) {
			continue
		}

		award, err := s.Award(ctx, actorID, a.ID)
		if errors.Is(err, domain.ErrAlreadyEarned) {
			continue
		}
		if err != nil {
			return awarded, fmt.Errorf("service.AchievementService.EvaluateProgress: %w", err)
		}

		awarded = append(awarded, award)
		reward := a.XPReward
		if reward <= 0 {
			reward = domain.DefaultXPReward
		}
		profile.TotalXP += reward
		profile.Level = domain.LevelFor(profile.TotalXP)
	}
	return awarded, nil
}
