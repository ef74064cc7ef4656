package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hampi-heritage/quest/backend/internal/domain"
)

// AchievementRepo defines persistence for the achievement catalog and the
// user_achievements award table.
type AchievementRepo interface {
	// GetByID retrieves a single achievement by its UUID primary key.
	// Returns domain.ErrNotFound if no achievement with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Achievement, error)

	// List returns the whole catalog, rarest first.
	List(ctx context.Context) ([]domain.Achievement, error)

	// FindEarned retrieves the award for a (userID, achievementID) pair.
	// Returns domain.ErrNotFound if the user has not earned it.
	FindEarned(ctx context.Context, userID, achievementID uuid.UUID) (domain.UserAchievement, error)

	// InsertEarned records an award with earned_at set by the database.
	// Returns domain.ErrAlreadyEarned when UNIQUE(user_id, achievement_id)
	// fires — this is the authoritative duplicate check.
	InsertEarned(ctx context.Context, userID, achievementID uuid.UUID) (domain.UserAchievement, error)

	// ListEarned returns all of a user's awards, most recent first.
	ListEarned(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error)
}

// pgAchievementRepo is the Postgres implementation of AchievementRepo.
type pgAchievementRepo struct {
	db db
}

// NewAchievementRepo constructs an AchievementRepo backed by the provided db connection.
func NewAchievementRepo(db db) AchievementRepo {
	return &pgAchievementRepo{db: db}
}

const achievementColumns = `id, name, description, category, xp_reward,
		requirement_type, requirement_value, rarity, created_at`

func (r *pgAchievementRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Achievement, error) {
	const q = `
		SELECT ` + achievementColumns + `
		FROM achievements
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanAchievement(row)
	if err != nil {
		return domain.Achievement{}, fmt.Errorf("repo.AchievementRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns the catalog ordered rarest-first, then by name.
// The rarity CASE keeps the order semantic rather than alphabetical.
func (r *pgAchievementRepo) List(ctx context.Context) ([]domain.Achievement, error) {
	const q = `
		SELECT ` + achievementColumns + `
		FROM achievements
		ORDER BY CASE rarity
			WHEN 'legendary' THEN 0
			WHEN 'epic'      THEN 1
			WHEN 'rare'      THEN 2
			ELSE 3
		END, name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.AchievementRepo.List: %w", err)
	}
	defer rows.Close()

	achievements := []domain.Achievement{}
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AchievementRepo.List: scan: %w", err)
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AchievementRepo.List: rows: %w", err)
	}
	return achievements, nil
}

func (r *pgAchievementRepo) FindEarned(ctx context.Context, userID, achievementID uuid.UUID) (domain.UserAchievement, error) {
	const q = `
		SELECT id, user_id, achievement_id, earned_at
		FROM user_achievements
		WHERE user_id = @user_id AND achievement_id = @achievement_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "achievement_id": achievementID})
	result, err := scanUserAchievement(row)
	if err != nil {
		return domain.UserAchievement{}, fmt.Errorf("repo.AchievementRepo.FindEarned: %w", err)
	}
	return result, nil
}

func (r *pgAchievementRepo) InsertEarned(ctx context.Context, userID, achievementID uuid.UUID) (domain.UserAchievement, error) {
	const q = `
		INSERT INTO user_achievements (user_id, achievement_id)
		VALUES (@user_id, @achievement_id)
		RETURNING id, user_id, achievement_id, earned_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "achievement_id": achievementID})
	result, err := scanUserAchievement(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.UserAchievement{}, fmt.Errorf("repo.AchievementRepo.InsertEarned: %w", domain.ErrAlreadyEarned)
		}
		return domain.UserAchievement{}, fmt.Errorf("repo.AchievementRepo.InsertEarned: %w", err)
	}
	return result, nil
}

func (r *pgAchievementRepo) ListEarned(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error) {
	const q = `
		SELECT id, user_id, achievement_id, earned_at
		FROM user_achievements
		WHERE user_id = @user_id
		ORDER BY earned_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.AchievementRepo.ListEarned: %w", err)
	}
	defer rows.Close()

	earned := []domain.UserAchievement{}
	for rows.Next() {
		ua, err := scanUserAchievement(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AchievementRepo.ListEarned: scan: %w", err)
		}
		earned = append(earned, ua)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AchievementRepo.ListEarned: rows: %w", err)
	}
	return earned, nil
}

// scanAchievement maps a single database row into a domain.Achievement.
func scanAchievement(s scanner) (domain.Achievement, error) {
	var (
		a           domain.Achievement
		id          pgtype.UUID
		description pgtype.Text
	)
	err := s.Scan(&id, &a.Name, &description, &a.Category, &a.XPReward,
		&a.RequirementType, &a.RequirementValue, &a.Rarity, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Achievement{}, domain.ErrNotFound
		}
		return domain.Achievement{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.Description = description.String
	return a, nil
}

// scanUserAchievement maps a single database row into a domain.UserAchievement.
func scanUserAchievement(s scanner) (domain.UserAchievement, error) {
	var (
		ua                domain.UserAchievement
		id, userID, achID pgtype.UUID
	)
	err := s.Scan(&id, &userID, &achID, &ua.EarnedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserAchievement{}, domain.ErrNotFound
		}
		return domain.UserAchievement{}, err
	}
	ua.ID = uuid.UUID(id.Bytes)
	ua.UserID = uuid.UUID(userID.Bytes)
	ua.AchievementID = uuid.UUID(achID.Bytes)
	return ua, nil
}
