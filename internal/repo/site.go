// Package repo contains all database access logic for the Heritage Quest API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hampi-heritage/quest/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. It is also what lets the
// unit-of-work hand transaction-bound repos to the check-in workflow.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SiteRepo defines read access to the heritage-site catalog.
// The catalog is seeded by migrations; this service never writes to it.
type SiteRepo interface {
	// GetByID retrieves a single site by its UUID primary key.
	// Returns domain.ErrNotFound if no site with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.HeritageSite, error)

	// List returns the whole catalog ordered by name.
	List(ctx context.Context) ([]domain.HeritageSite, error)

	// ListPaged returns one page of the catalog ordered by name and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.HeritageSite, int64, error)
}

// pgSiteRepo is the Postgres implementation of SiteRepo.
type pgSiteRepo struct {
	db db
}

// NewSiteRepo constructs a SiteRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewSiteRepo(db db) SiteRepo {
	return &pgSiteRepo{db: db}
}

const siteColumns = `id, name, description, short_description, category,
		latitude, longitude, xp_reward, difficulty,
		estimated_duration, best_time_to_visit, created_at, updated_at`

// GetByID retrieves a site by primary key.
func (r *pgSiteRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.HeritageSite, error) {
	const q = `
		SELECT ` + siteColumns + `
		FROM heritage_sites
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanSite(row)
	if err != nil {
		return domain.HeritageSite{}, fmt.Errorf("repo.SiteRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns the full catalog ordered by name.
func (r *pgSiteRepo) List(ctx context.Context) ([]domain.HeritageSite, error) {
	const q = `
		SELECT ` + siteColumns + `
		FROM heritage_sites
		ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.SiteRepo.List: %w", err)
	}
	defer rows.Close()

	sites := []domain.HeritageSite{}
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SiteRepo.List: scan: %w", err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SiteRepo.List: rows: %w", err)
	}
	return sites, nil
}

// ListPaged returns one page of the catalog ordered by name plus the total count.
// The count runs against the same snapshot, so page arithmetic is consistent.
func (r *pgSiteRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.HeritageSite, int64, error) {
	const countQ = `SELECT count(*) FROM heritage_sites`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.SiteRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT ` + siteColumns + `
		FROM heritage_sites
		ORDER BY name
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.SiteRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	sites := []domain.HeritageSite{}
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.SiteRepo.ListPaged: scan: %w", err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.SiteRepo.ListPaged: rows: %w", err)
	}
	return sites, total, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanSite maps a single database row into a domain.HeritageSite.
// Nullable text columns come back as empty strings on the domain type.
func scanSite(s scanner) (domain.HeritageSite, error) {
	var (
		site                          domain.HeritageSite
		id                            pgtype.UUID
		description, shortDescription pgtype.Text
		estimatedDuration, bestTime   pgtype.Text
	)

	err := s.Scan(&id, &site.Name, &description, &shortDescription, &site.Category,
		&site.Latitude, &site.Longitude, &site.XPReward, &site.Difficulty,
		&estimatedDuration, &bestTime, &site.CreatedAt, &site.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.HeritageSite{}, domain.ErrNotFound
		}
		return domain.HeritageSite{}, err
	}

	site.ID = uuid.UUID(id.Bytes)
	site.Description = description.String
	site.ShortDescription = shortDescription.String
	site.EstimatedDuration = estimatedDuration.String
	site.BestTimeToVisit = bestTime.String
	return site, nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505). The stamp and achievement repos use this to
// turn constraint hits into their domain duplicate errors.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
