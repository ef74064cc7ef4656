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

// StampRepo defines the persistence operations for passport stamps.
// Stamps are append-only: there is no update or delete.
type StampRepo interface {
	// Find retrieves the stamp for a (userID, siteID) pair.
	// Returns domain.ErrNotFound if the user has not collected that site.
	Find(ctx context.Context, userID, siteID uuid.UUID) (domain.PassportStamp, error)

	// Insert creates a stamp with collected_at set by the database.
	// Returns domain.ErrAlreadyCollected when the UNIQUE(user_id, site_id)
	// constraint fires — this is the authoritative duplicate check.
	Insert(ctx context.Context, userID, siteID uuid.UUID) (domain.PassportStamp, error)

	// ListByUser returns all of a user's stamps, most recent first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PassportStamp, error)
}

// pgStampRepo is the Postgres implementation of StampRepo.
type pgStampRepo struct {
	db db
}

// NewStampRepo constructs a StampRepo backed by the provided db connection.
func NewStampRepo(db db) StampRepo {
	return &pgStampRepo{db: db}
}

func (r *pgStampRepo) Find(ctx context.Context, userID, siteID uuid.UUID) (domain.PassportStamp, error) {
	const q = `
		SELECT id, user_id, site_id, collected_at
		FROM passport_stamps
		WHERE user_id = @user_id AND site_id = @site_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "site_id": siteID})
	result, err := scanStamp(row)
	if err != nil {
		return domain.PassportStamp{}, fmt.Errorf("repo.StampRepo.Find: %w", err)
	}
	return result, nil
}

func (r *pgStampRepo) Insert(ctx context.Context, userID, siteID uuid.UUID) (domain.PassportStamp, error) {
	const q = `
		INSERT INTO passport_stamps (user_id, site_id)
		VALUES (@user_id, @site_id)
		RETURNING id, user_id, site_id, collected_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "site_id": siteID})
	result, err := scanStamp(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.PassportStamp{}, fmt.Errorf("repo.StampRepo.Insert: %w", domain.ErrAlreadyCollected)
		}
		return domain.PassportStamp{}, fmt.Errorf("repo.StampRepo.Insert: %w", err)
	}
	return result, nil
}

func (r *pgStampRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PassportStamp, error) {
	const q = `
		SELECT id, user_id, site_id, collected_at
		FROM passport_stamps
		WHERE user_id = @user_id
		ORDER BY collected_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.StampRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	stamps := []domain.PassportStamp{}
	for rows.Next() {
		st, err := scanStamp(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StampRepo.ListByUser: scan: %w", err)
		}
		stamps = append(stamps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StampRepo.ListByUser: rows: %w", err)
	}
	return stamps, nil
}

// scanStamp maps a single database row into a domain.PassportStamp.
func scanStamp(s scanner) (domain.PassportStamp, error) {
	var (
		st         domain.PassportStamp
		id, userID pgtype.UUID
		siteID     pgtype.UUID
	)
	err := s.Scan(&id, &userID, &siteID, &st.CollectedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PassportStamp{}, domain.ErrNotFound
		}
		return domain.PassportStamp{}, err
	}
	st.ID = uuid.UUID(id.Bytes)
	st.UserID = uuid.UUID(userID.Bytes)
	st.SiteID = uuid.UUID(siteID.Bytes)
	return st, nil
}
