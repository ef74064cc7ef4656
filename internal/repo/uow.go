package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepoSet bundles every repository bound to a single database handle.
// Inside UnitOfWork.WithTx the handle is one transaction, so a workflow can
// lock the profile row, insert a stamp, and update the profile as a unit.
type RepoSet struct {
	Sites        SiteRepo
	Stamps       StampRepo
	Profiles     ProfileRepo
	Achievements AchievementRepo
}

// NewRepoSet builds a RepoSet over any db handle (pool, conn, or tx).
// Exported for integration tests that want a tx-bound set directly.
func NewRepoSet(db db) RepoSet {
	return RepoSet{
		Sites:        NewSiteRepo(db),
		Stamps:       NewStampRepo(db),
		Profiles:     NewProfileRepo(db),
		Achievements: NewAchievementRepo(db),
	}
}

// UnitOfWork runs a function against repositories bound to one transaction.
// The XP-granting workflows depend on this interface rather than on
// *pgxpool.Pool so unit tests can run fn against mock repos with no database.
type UnitOfWork interface {
	// WithTx begins a transaction, runs fn with a tx-bound RepoSet, and
	// commits iff fn returns nil. Any error from fn rolls the whole unit
	// back — a stamp is never left behind without its XP grant.
	WithTx(ctx context.Context, fn func(RepoSet) error) error
}

// pgUnitOfWork is the pgxpool-backed UnitOfWork.
type pgUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork constructs a UnitOfWork over the given pool.
func NewUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &pgUnitOfWork{pool: pool}
}

func (u *pgUnitOfWork) WithTx(ctx context.Context, fn func(RepoSet) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.UnitOfWork.WithTx: begin: %w", err)
	}
	// Rollback after commit is a harmless no-op.
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(NewRepoSet(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.UnitOfWork.WithTx: commit: %w", err)
	}
	return nil
}
