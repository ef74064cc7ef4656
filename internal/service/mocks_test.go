package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/hampi-heritage/quest/backend/internal/domain"
	"github.com/hampi-heritage/quest/backend/internal/repo"
)

// Hand-written test doubles for the repo interfaces.
// Each method is a function field — set only the ones your test needs.
// This is idiomatic Go: no mock generation library required for simple cases.

type mockSiteRepo struct {
	getByID   func(ctx context.Context, id uuid.UUID) (domain.HeritageSite, error)
	list      func(ctx context.Context) ([]domain.HeritageSite, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.HeritageSite, int64, error)
}

func (m *mockSiteRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.HeritageSite, error) {
	return m.getByID(ctx, id)
}
func (m *mockSiteRepo) List(ctx context.Context) ([]domain.HeritageSite, error) {
	return m.list(ctx)
}
func (m *mockSiteRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.HeritageSite, int64, error) {
	return m.listPaged(ctx, p)
}

var _ repo.SiteRepo = (*mockSiteRepo)(nil)

type mockStampRepo struct {
	find       func(ctx context.Context, userID, siteID uuid.UUID) (domain.PassportStamp, error)
	insert     func(ctx context.Context, userID, siteID uuid.UUID) (domain.PassportStamp, error)
	listByUser func(ctx context.Context, userID uuid.UUID) ([]domain.PassportStamp, error)
}

func (m *mockStampRepo) Find(ctx context.Context, userID, siteID uuid.UUID) (domain.PassportStamp, error) {
	return m.find(ctx, userID, siteID)
}
func (m *mockStampRepo) Insert(ctx context.Context, userID, siteID uuid.UUID) (domain.PassportStamp, error) {
	return m.insert(ctx, userID, siteID)
}
func (m *mockStampRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PassportStamp, error) {
	return m.listByUser(ctx, userID)
}

var _ repo.StampRepo = (*mockStampRepo)(nil)

type mockProfileRepo struct {
	create               func(ctx context.Context, p domain.Profile) (domain.Profile, error)
	getByUserID          func(ctx context.Context, userID uuid.UUID) (domain.Profile, error)
	getByUserIDForUpdate func(ctx context.Context, userID uuid.UUID) (domain.Profile, error)
	applyProgress        func(ctx context.Context, userID uuid.UUID, totalXP, level, sitesVisited int) (domain.Profile, error)
	leaderboard          func(ctx context.Context, limit int) ([]domain.Profile, error)
}

func (m *mockProfileRepo) Create(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	return m.create(ctx, p)
}
func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (domain.Profile, error) {
	return m.getByUserID(ctx, userID)
}
func (m *mockProfileRepo) GetByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (domain.Profile, error) {
	return m.getByUserIDForUpdate(ctx, userID)
}
func (m *mockProfileRepo) ApplyProgress(ctx context.Context, userID uuid.UUID, totalXP, level, sitesVisited int) (domain.Profile, error) {
	return m.applyProgress(ctx, userID, totalXP, level, sitesVisited)
}
func (m *mockProfileRepo) Leaderboard(ctx context.Context, limit int) ([]domain.Profile, error) {
	return m.leaderboard(ctx, limit)
}

var _ repo.ProfileRepo = (*mockProfileRepo)(nil)

type mockAchievementRepo struct {
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Achievement, error)
	list         func(ctx context.Context) ([]domain.Achievement, error)
	findEarned   func(ctx context.Context, userID, achievementID uuid.UUID) (domain.UserAchievement, error)
	insertEarned func(ctx context.Context, userID, achievementID uuid.UUID) (domain.UserAchievement, error)
	listEarned   func(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error)
}

func (m *mockAchievementRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Achievement, error) {
	return m.getByID(ctx, id)
}
func (m *mockAchievementRepo) List(ctx context.Context) ([]domain.Achievement, error) {
	return m.list(ctx)
}
func (m *mockAchievementRepo) FindEarned(ctx context.Context, userID, achievementID uuid.UUID) (domain.UserAchievement, error) {
	return m.findEarned(ctx, userID, achievementID)
}
func (m *mockAchievementRepo) InsertEarned(ctx context.Context, userID, achievementID uuid.UUID) (domain.UserAchievement, error) {
	return m.insertEarned(ctx, userID, achievementID)
}
func (m *mockAchievementRepo) ListEarned(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error) {
	return m.listEarned(ctx, userID)
}

var _ repo.AchievementRepo = (*mockAchievementRepo)(nil)

// mockUnitOfWork runs the workflow function against the given RepoSet without
// any transaction, standing in for repo.NewUnitOfWork in unit tests.
type mockUnitOfWork struct {
	repos repo.RepoSet
	// calls counts how many times WithTx was entered.
	calls int
}

func (m *mockUnitOfWork) WithTx(_ context.Context, fn func(repo.RepoSet) error) error {
	m.calls++
	return fn(m.repos)
}

var _ repo.UnitOfWork = (*mockUnitOfWork)(nil)
