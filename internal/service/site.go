package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hampi-heritage/quest/backend/internal/domain"
	"github.com/hampi-heritage/quest/backend/internal/repo"
)

// SiteService exposes read access to the heritage-site catalog.
type SiteService struct {
	sites repo.SiteRepo
}

// NewSiteService constructs a SiteService backed by the provided SiteRepo.
func NewSiteService(sites repo.SiteRepo) *SiteService {
	return &SiteService{sites: sites}
}

// GetByID returns a single site by ID.
func (s *SiteService) GetByID(ctx context.Context, id uuid.UUID) (domain.HeritageSite, error) {
	site, err := s.sites.GetByID(ctx, id)
	if err != nil {
		return domain.HeritageSite{}, fmt.Errorf("service.SiteService.GetByID: %w", err)
	}
	return site, nil
}

// List returns one page of the catalog ordered by name plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *SiteService) List(ctx context.Context, p domain.PaginationParams) ([]domain.HeritageSite, int64, error) {
	sites, total, err := s.sites.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.SiteService.List: %w", err)
	}
	if sites == nil {
		sites = []domain.HeritageSite{}
	}
	return sites, total, nil
}
