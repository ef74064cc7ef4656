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

// ProfileRepo defines the persistence operations for user profiles.
// The profile row is the only mutable shared state in the system; every
// XP-granting workflow must read it via GetByUserIDForUpdate inside a
// transaction so concurrent grants for the same user serialize instead of
// overwriting each other.
type ProfileRepo interface {
	// Create inserts a new profile row. The identity provider owns user_id;
	// this service only seeds the gamification state that hangs off it.
	Create(ctx context.Context, p domain.Profile) (domain.Profile, error)

	// GetByUserID retrieves a profile by the owning user's ID.
	// Returns domain.ErrNotFound if no profile exists for that user.
	GetByUserID(ctx context.Context, userID uuid.UUID) (domain.Profile, error)

	// GetByUserIDForUpdate is GetByUserID with a row lock (SELECT ... FOR
	// UPDATE). Call it only inside a transaction; the lock holds until
	// commit or rollback.
	GetByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (domain.Profile, error)

	// ApplyProgress overwrites the gamification fields of a profile and
	// returns the updated record. Returns domain.ErrNotFound if no profile
	// exists for that user.
	ApplyProgress(ctx context.Context, userID uuid.UUID, totalXP, level, sitesVisited int) (domain.Profile, error)

	// Leaderboard returns up to limit profiles ordered by total_xp descending.
	Leaderboard(ctx context.Context, limit int) ([]domain.Profile, error)
}

// pgProfileRepo is the Postgres implementation of ProfileRepo.
type pgProfileRepo struct {
	db db
}

// NewProfileRepo constructs a ProfileRepo backed by the provided db connection.
func NewProfileRepo(db db) ProfileRepo {
	return &pgProfileRepo{db: db}
}

const profileColumns = `id, user_id, username, display_name,
		total_xp, level, sites_visited, created_at, updated_at`

func (r *pgProfileRepo) Create(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	const q = `
		INSERT INTO profiles (user_id, username, display_name, total_xp, level, sites_visited)
		VALUES (@user_id, @username, @display_name, @total_xp, @level, @sites_visited)
		RETURNING ` + profileColumns

	args := pgx.NamedArgs{
		"user_id":       p.UserID,
		"username":      p.Username,
		"display_name":  p.DisplayName,
		"total_xp":      p.TotalXP,
		"level":         p.Level,
		"sites_visited": p.SitesVisited,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (domain.Profile, error) {
	const q = `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID})
	result, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.GetByUserID: %w", err)
	}
	return result, nil
}

func (r *pgProfileRepo) GetByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (domain.Profile, error) {
	const q = `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = @user_id
		FOR UPDATE`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID})
	result, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.GetByUserIDForUpdate: %w", err)
	}
	return result, nil
}

func (r *pgProfileRepo) ApplyProgress(ctx context.Context, userID uuid.UUID, totalXP, level, sitesVisited int) (domain.Profile, error) {
	const q = `
		UPDATE profiles
		SET total_xp      = @total_xp,
		    level         = @level,
		    sites_visited = @sites_visited,
		    updated_at    = now()
		WHERE user_id = @user_id
		RETURNING ` + profileColumns

	args := pgx.NamedArgs{
		"user_id":       userID,
		"total_xp":      totalXP,
		"level":         level,
		"sites_visited": sitesVisited,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.ApplyProgress: %w", err)
	}
	return result, nil
}

func (r *pgProfileRepo) Leaderboard(ctx context.Context, limit int) ([]domain.Profile, error) {
	const q = `
		SELECT ` + profileColumns + `
		FROM profiles
		ORDER BY total_xp DESC, created_at ASC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.ProfileRepo.Leaderboard: %w", err)
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ProfileRepo.Leaderboard: scan: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ProfileRepo.Leaderboard: rows: %w", err)
	}
	return profiles, nil
}

// scanProfile maps a single database row into a domain.Profile.
func scanProfile(s scanner) (domain.Profile, error) {
	var (
		p                     domain.Profile
		id, userID            pgtype.UUID
		username, displayName pgtype.Text
	)
	err := s.Scan(&id, &userID, &username, &displayName,
		&p.TotalXP, &p.Level, &p.SitesVisited, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.UserID = uuid.UUID(userID.Bytes)
	p.Username = username.String
	p.DisplayName = displayName.String
	return p, nil
}
