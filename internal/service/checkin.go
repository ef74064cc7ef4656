// Package service contains the business logic for the Heritage Quest API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hampi-heritage/quest/backend/internal/domain"
	"github.com/hampi-heritage/quest/backend/internal/geo"
	"github.com/hampi-heritage/quest/backend/internal/observability"
	"github.com/hampi-heritage/quest/backend/internal/repo"
)

// CheckinService implements the stamp-collection workflow: proximity
// evaluation, QR resolution, and the transactional stamp + XP grant.
type CheckinService struct {
	uow          repo.UnitOfWork
	sites        repo.SiteRepo
	stamps       repo.StampRepo
	achievements *AchievementService
	radiusMeters float64
}

// NewCheckinService constructs a CheckinService.
// radiusMeters is the configured check-in radius — there is no default here;
// the value always comes from configuration.
// achievements may be nil, disabling auto-evaluation after collects.
func NewCheckinService(uow repo.UnitOfWork, sites repo.SiteRepo, stamps repo.StampRepo, achievements *AchievementService, radiusMeters float64) *CheckinService {
	return &CheckinService{
		uow:          uow,
		sites:        sites,
		stamps:       stamps,
		achievements: achievements,
		radiusMeters: radiusMeters,
	}
}

// Evaluate computes the proximity of a position to a site without side
// effects. It drives the closeness bar in the client.
// Returns domain.ErrNotFound when the site does not exist.
func (s *CheckinService) Evaluate(ctx context.Context, siteID uuid.UUID, current geo.Coordinate) (geo.ProximityResult, error) {
	site, err := s.sites.GetByID(ctx, siteID)
	if err != nil {
		return geo.ProximityResult{}, fmt.Errorf("service.CheckinService.Evaluate: %w", err)
	}
	sitePos := geo.Coordinate{Latitude: site.Latitude, Longitude: site.Longitude}
	return geo.Evaluate(current, sitePos, s.radiusMeters), nil
}

// Collect runs the stamp-collection workflow for an authenticated actor.
//
// Preconditions, first failure wins: actor authenticated, site exists,
// stamp not already collected. On success the stamp insert and the profile
// XP/level/visit-count update commit as one transaction with the profile
// row locked, so concurrent collects for the same user serialize and a
// duplicate insert is rejected by the UNIQUE constraint — never by the
// pre-check alone.
func (s *CheckinService) Collect(ctx context.Context, actorID, siteID uuid.UUID) (domain.PassportStamp, error) {
	if actorID == uuid.Nil {
		return domain.PassportStamp{}, fmt.Errorf("service.CheckinService.Collect: %w", domain.ErrNotAuthenticated)
	}

	site, err := s.sites.GetByID(ctx, siteID)
	if err != nil {
		return domain.PassportStamp{}, fmt.Errorf("service.CheckinService.Collect: %w", err)
	}

	// Fast-path duplicate check for a friendly error without opening a
	// transaction. The constraint inside the transaction stays authoritative.
	if _, err := s.stamps.Find(ctx, actorID, siteID); err == nil {
		return domain.PassportStamp{}, fmt.Errorf("service.CheckinService.Collect: %w", domain.ErrAlreadyCollected)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.PassportStamp{}, fmt.Errorf("service.CheckinService.Collect: %w", err)
	}

	reward := site.XPReward
	if reward <= 0 {
		reward = domain.DefaultXPReward
	}

	var (
		stamp   domain.PassportStamp
		profile domain.Profile
	)
	err = s.uow.WithTx(ctx, func(r repo.RepoSet) error {
		p, err := r.Profiles.GetByUserIDForUpdate(ctx, actorID)
		if err != nil {
			return err
		}

		stamp, err = r.Stamps.Insert(ctx, actorID, siteID)
		if err != nil {
			return err
		}

		newXP := p.TotalXP + reward
		profile, err = r.Profiles.ApplyProgress(ctx, actorID, newXP, domain.LevelFor(newXP), p.SitesVisited+1)
		return err
	})
	if err != nil {
		return domain.PassportStamp{}, fmt.Errorf("service.CheckinService.Collect: %w", err)
	}

	observability.RecordStampCollected(site.Category)

	// Newly crossed thresholds (sites visited, total XP) may unlock
	// achievements. A failure here never undoes the check-in.
	if s.achievements != nil {
		if _, err := s.achievements.EvaluateProgress(ctx, actorID, profile); err != nil {
			slog.WarnContext(ctx, "achievement evaluation after collect failed",
				"user_id", actorID, "site_id", siteID, "error", err)
		}
	}

	return stamp, nil
}

// CollectByProximity evaluates the actor's position against the site and, if
// within the configured radius, runs the collection workflow. The proximity
// result is returned in all cases so the client can render distance feedback
// alongside the outcome.
func (s *CheckinService) CollectByProximity(ctx context.Context, actorID, siteID uuid.UUID, current geo.Coordinate) (domain.PassportStamp, geo.ProximityResult, error) {
	result, err := s.Evaluate(ctx, siteID, current)
	if err != nil {
		return domain.PassportStamp{}, geo.ProximityResult{}, err
	}
	if !result.WithinRadius {
		return domain.PassportStamp{}, result,
			fmt.Errorf("service.CheckinService.CollectByProximity: %w: get within %.0fm to check in", domain.ErrValidation, s.radiusMeters)
	}

	stamp, err := s.Collect(ctx, actorID, siteID)
	if err != nil {
		return domain.PassportStamp{}, result, err
	}
	return stamp, result, nil
}

// CollectByQR resolves a scanned QR payload to a site and runs the
// collection workflow. A payload without the heritage prefix or with a
// malformed ID is a validation error, not a server fault.
func (s *CheckinService) CollectByQR(ctx context.Context, actorID uuid.UUID, code string) (domain.PassportStamp, error) {
	siteID, err := domain.ParseQRCode(code)
	if err != nil {
		return domain.PassportStamp{}, fmt.Errorf("service.CheckinService.CollectByQR: %w", err)
	}
	return s.Collect(ctx, actorID, siteID)
}

// ListStamps returns the actor's passport stamps, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CheckinService) ListStamps(ctx context.Context, actorID uuid.UUID) ([]domain.PassportStamp, error) {
	if actorID == uuid.Nil {
		return nil, fmt.Errorf("service.CheckinService.ListStamps: %w", domain.ErrNotAuthenticated)
	}
	stamps, err := s.stamps.ListByUser(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("service.CheckinService.ListStamps: %w", err)
	}
	if stamps == nil {
		return []domain.PassportStamp{}, nil
	}
	return stamps, nil
}
