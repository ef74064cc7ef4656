package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hampi-heritage/quest/backend/internal/domain"
	"github.com/hampi-heritage/quest/backend/internal/guide"
	"github.com/hampi-heritage/quest/backend/internal/observability"
	"github.com/hampi-heritage/quest/backend/internal/repo"
)

// Generator is the slice of the text-generation client the guide needs.
// Defined here, in the consumer, so tests can inject a canned generator.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, history []guide.Message) (string, error)
}

// GuideService answers traveller questions through the upstream
// text-generation API, grounded in the actor's passport state.
type GuideService struct {
	generator Generator
	sites     repo.SiteRepo
	stamps    repo.StampRepo
}

// NewGuideService constructs a GuideService.
func NewGuideService(generator Generator, sites repo.SiteRepo, stamps repo.StampRepo) *GuideService {
	return &GuideService{generator: generator, sites: sites, stamps: stamps}
}

// Chat sends the conversation to the guide model with the actor's visited /
// unvisited site context prepended to the system prompt. actorID may be
// uuid.Nil for anonymous visitors, whose context lists every site as
// unvisited. Rate limiting upstream surfaces as domain.ErrRateLimited and
// is never retried here.
func (s *GuideService) Chat(ctx context.Context, actorID uuid.UUID, history []guide.Message) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("service.GuideService.Chat: %w: at least one message is required", domain.ErrValidation)
	}

	catalog, err := s.sites.List(ctx)
	if err != nil {
		return "", fmt.Errorf("service.GuideService.Chat: %w", err)
	}

	visited := map[uuid.UUID]bool{}
	if actorID != uuid.Nil {
		stamps, err := s.stamps.ListByUser(ctx, actorID)
		if err != nil {
			return "", fmt.Errorf("service.GuideService.Chat: %w", err)
		}
		for _, st := range stamps {
			visited[st.SiteID] = true
		}
	}

	system := guide.SystemPrompt + "\n\n" + guide.BuildContext(catalog, visited)

	reply, err := s.generator.Generate(ctx, system, history)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			observability.RecordGuideRequest("rate_limited")
		} else {
			observability.RecordGuideRequest("error")
		}
		return "", fmt.Errorf("service.GuideService.Chat: %w", err)
	}

	observability.RecordGuideRequest("ok")
	return reply, nil
}
