package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hampi-heritage/quest/backend/internal/domain"
	"github.com/hampi-heritage/quest/backend/internal/repo"
	"github.com/hampi-heritage/quest/backend/internal/service"
)

func testAchievement(requirementType string, value, reward int) domain.Achievement {
	return domain.Achievement{
		ID:               uuid.New(),
		Name:             "Test Badge",
		Category:         "exploration",
		XPReward:         reward,
		RequirementType:  requirementType,
		RequirementValue: value,
		Rarity:           "common",
	}
}

// notEarned is a FindEarned that reports no existing award.
func notEarned(_ context.Context, _, _ uuid.UUID) (domain.UserAchievement, error) {
	return domain.UserAchievement{}, domain.ErrNotFound
}

// awardFixture wires an AchievementService whose transaction succeeds, and
// records what ApplyProgress received.
type awardFixture struct {
	svc          *service.AchievementService
	uow          *mockUnitOfWork
	achievements *mockAchievementRepo
	appliedXP    int
	appliedLevel int
	appliedVisit int
}

func newAwardFixture(t *testing.T, catalog []domain.Achievement, profile domain.Profile) *awardFixture {
	t.Helper()
	f := &awardFixture{}

	byID := map[uuid.UUID]domain.Achievement{}
	for _, a := range catalog {
		byID[a.ID] = a
	}

	f.achievements = &mockAchievementRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Achievement, error) {
			a, ok := byID[id]
			if !ok {
				return domain.Achievement{}, domain.ErrNotFound
			}
			return a, nil
		},
		list: func(_ context.Context) ([]domain.Achievement, error) {
			return catalog, nil
		},
		findEarned: notEarned,
		listEarned: func(_ context.Context, _ uuid.UUID) ([]domain.UserAchievement, error) {
			return nil, nil
		},
	}

	txAchievements := &mockAchievementRepo{
		insertEarned: func(_ context.Context, userID, achievementID uuid.UUID) (domain.UserAchievement, error) {
			return domain.UserAchievement{ID: uuid.New(), UserID: userID, AchievementID: achievementID, EarnedAt: time.Now().UTC()}, nil
		},
	}
	txProfiles := &mockProfileRepo{
		getByUserIDForUpdate: func(_ context.Context, userID uuid.UUID) (domain.Profile, error) {
			if userID != profile.UserID {
				return domain.Profile{}, domain.ErrNotFound
			}
			// Reflect previous grants within this test run.
			p := profile
			if f.appliedXP > 0 {
				p.TotalXP = f.appliedXP
				p.Level = f.appliedLevel
			}
			return p, nil
		},
		applyProgress: func(_ context.Context, _ uuid.UUID, totalXP, level, sitesVisited int) (domain.Profile, error) {
			f.appliedXP = totalXP
			f.appliedLevel = level
			f.appliedVisit = sitesVisited
			p := profile
			p.TotalXP = totalXP
			p.Level = level
			return p, nil
		},
	}

	f.uow = &mockUnitOfWork{repos: repo.RepoSet{Achievements: txAchievements, Profiles: txProfiles}}
	f.svc = service.NewAchievementService(f.uow, f.achievements)
	return f
}

// ---- Award -----------------------------------------------------------------

func TestAchievementService_Award_GrantsXP(t *testing.T) {
	userID := uuid.New()
	badge := testAchievement(domain.RequirementSitesVisited, 5, 200)
	f := newAwardFixture(t, []domain.Achievement{badge}, testProfile(userID, 400, 5))

	award, err := f.svc.Award(context.Background(), userID, badge.ID)

	require.NoError(t, err)
	assert.Equal(t, badge.ID, award.AchievementID)
	assert.Equal(t, 600, f.appliedXP)
	assert.Equal(t, 2, f.appliedLevel, "400+200 XP crosses the level-2 threshold")
	assert.Equal(t, 5, f.appliedVisit, "awards never change the visit count")
}

func TestAchievementService_Award_Anonymous(t *testing.T) {
	badge := testAchievement(domain.RequirementTotalXP, 500, 100)
	f := newAwardFixture(t, []domain.Achievement{badge}, testProfile(uuid.New(), 0, 0))

	_, err := f.svc.Award(context.Background(), uuid.Nil, badge.ID)

	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Zero(t, f.uow.calls)
}

func TestAchievementService_Award_UnknownAchievement(t *testing.T) {
	userID := uuid.New()
	f := newAwardFixture(t, nil, testProfile(userID, 0, 0))

	_, err := f.svc.Award(context.Background(), userID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.uow.calls)
}

func TestAchievementService_Award_AlreadyEarnedFastPath(t *testing.T) {
	userID := uuid.New()
	badge := testAchievement(domain.RequirementSitesVisited, 1, 50)
	f := newAwardFixture(t, []domain.Achievement{badge}, testProfile(userID, 0, 1))
	f.achievements.findEarned = func(_ context.Context, _, _ uuid.UUID) (domain.UserAchievement, error) {
		return domain.UserAchievement{ID: uuid.New(), UserID: userID, AchievementID: badge.ID}, nil
	}

	_, err := f.svc.Award(context.Background(), userID, badge.ID)

	assert.ErrorIs(t, err, domain.ErrAlreadyEarned)
	assert.Zero(t, f.uow.calls, "duplicate short-circuits before the transaction")
}

// ---- EvaluateProgress ------------------------------------------------------

func TestAchievementService_EvaluateProgress_CascadingXP(t *testing.T) {
	// First Steps pushes the XP total over Rising Star's threshold, so one
	// check-in can unlock both in a single evaluation pass.
	userID := uuid.New()
	firstSteps := testAchievement(domain.RequirementSitesVisited, 1, 50)
	risingStar := testAchievement(domain.RequirementTotalXP, 500, 100)
	profile := testProfile(userID, 460, 1)
	f := newAwardFixture(t, []domain.Achievement{firstSteps, risingStar}, profile)

	awarded, err := f.svc.EvaluateProgress(context.Background(), userID, profile)

	require.NoError(t, err)
	require.Len(t, awarded, 2)
	assert.Equal(t, firstSteps.ID, awarded[0].AchievementID)
	assert.Equal(t, risingStar.ID, awarded[1].AchievementID)
	assert.Equal(t, 610, f.appliedXP, "460 + 50 + 100")
	assert.Equal(t, 2, f.uow.calls, "one transaction per award")
}

func TestAchievementService_EvaluateProgress_SkipsUnmet(t *testing.T) {
	userID := uuid.New()
	distant := testAchievement(domain.RequirementSitesVisited, 10, 500)
	profile := testProfile(userID, 100, 2)
	f := newAwardFixture(t, []domain.Achievement{distant}, profile)

	awarded, err := f.svc.EvaluateProgress(context.Background(), userID, profile)

	require.NoError(t, err)
	assert.Empty(t, awarded)
	assert.Zero(t, f.uow.calls)
}

func TestAchievementService_EvaluateProgress_SkipsEarned(t *testing.T) {
	userID := uuid.New()
	badge := testAchievement(domain.RequirementSitesVisited, 1, 50)
	profile := testProfile(userID, 100, 2)
	f := newAwardFixture(t, []domain.Achievement{badge}, profile)
	f.achievements.listEarned = func(_ context.Context, _ uuid.UUID) ([]domain.UserAchievement, error) {
		return []domain.UserAchievement{{UserID: userID, AchievementID: badge.ID}}, nil
	}

	awarded, err := f.svc.EvaluateProgress(context.Background(), userID, profile)

	require.NoError(t, err)
	assert.Empty(t, awarded)
}

func TestAchievementService_EvaluateProgress_SwallowsRaceLoss(t *testing.T) {
	// A concurrent evaluator commits the same award first; the constraint
	// error must be swallowed, not surfaced.
	userID := uuid.New()
	badge := testAchievement(domain.RequirementSitesVisited, 1, 50)
	profile := testProfile(userID, 100, 2)
	f := newAwardFixture(t, []domain.Achievement{badge}, profile)
	f.uow.repos.Achievements = &mockAchievementRepo{
		insertEarned: func(_ context.Context, _, _ uuid.UUID) (domain.UserAchievement, error) {
			return domain.UserAchievement{}, domain.ErrAlreadyEarned
		},
	}

	awarded, err := f.svc.EvaluateProgress(context.Background(), userID, profile)

	require.NoError(t, err)
	assert.Empty(t, awarded)
}

// ---- List / ListEarned -----------------------------------------------------

func TestAchievementService_List_EmptyIsNonNil(t *testing.T) {
	achievements := &mockAchievementRepo{
		list: func(_ context.Context) ([]domain.Achievement, error) { return nil, nil },
	}
	svc := service.NewAchievementService(&mockUnitOfWork{}, achievements)

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAchievementService_ListEarned_Anonymous(t *testing.T) {
	svc := service.NewAchievementService(&mockUnitOfWork{}, &mockAchievementRepo{})

	_, err := svc.ListEarned(context.Background(), uuid.Nil)

	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}
