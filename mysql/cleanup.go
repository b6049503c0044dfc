package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/telesim/dispatch"
)

const (
	defaultCleanupLimit      = 10000
	defaultCleanupEvery      = time.Hour
	defaultCleanupLockPrefix = "jobs:cleanup:"
)

// CleanupOptions defines how to delete terminal jobs.
type CleanupOptions struct {
	// Before removes jobs that reached a terminal state before this
	// timestamp (required). Delivered jobs are matched on delivered_at,
	// abandoned jobs on updated_at.
	Before time.Time
	// Limit caps the number of rows deleted per call (0 uses the default).
	Limit int
	// IncludeAbandoned removes abandoned jobs in addition to delivered ones.
	IncludeAbandoned bool
}

// CleanupResult reports how many rows were removed.
type CleanupResult struct {
	Delivered int64
	Abandoned int64
}

// Cleanup removes delivered jobs (and optionally abandoned jobs) older than
// opts.Before.
func (s *Store) Cleanup(ctx context.Context, opts CleanupOptions) (CleanupResult, error) {
	if opts.Before.IsZero() {
		return CleanupResult{}, ErrCleanupBeforeRequired
	}
	limit := opts.Limit
	if limit == 0 {
		limit = defaultCleanupLimit
	}
	if limit < 0 {
		return CleanupResult{}, ErrCleanupLimitInvalid
	}

	remaining := limit
	delivered, err := s.cleanupByStatus(ctx, dispatch.StatusDelivered, "delivered_at", opts.Before, remaining)
	if err != nil {
		return CleanupResult{}, err
	}
	remaining -= int(delivered)

	var abandoned int64
	if opts.IncludeAbandoned && remaining > 0 {
		abandoned, err = s.cleanupByStatus(ctx, dispatch.StatusAbandoned, "updated_at", opts.Before, remaining)
		if err != nil {
			return CleanupResult{}, err
		}
	}

	return CleanupResult{Delivered: delivered, Abandoned: abandoned}, nil
}

func (s *Store) cleanupByStatus(ctx context.Context, status dispatch.Status, tsColumn string, before time.Time, limit int) (int64, error) {
	query := fmt.Sprintf(
		"DELETE FROM %s WHERE status = ? AND %s < ? LIMIT ?",
		s.table,
		tsColumn,
	)

	res, err := s.db.ExecContext(ctx, query, status, before, limit)
	if err != nil {
		return 0, fmt.Errorf("jobs mysql: cleanup delete failed: %w", err)
	}

	return res.RowsAffected()
}

// CleanupMaintainerConfig controls periodic cleanup of terminal jobs.
type CleanupMaintainerConfig struct {
	// Table is the jobs table name.
	Table string
	// Retention removes jobs older than now-retention (required).
	Retention time.Duration
	// CheckEvery is the interval between cleanup runs.
	CheckEvery time.Duration
	// Limit caps the number of rows deleted per run (0 uses the default).
	Limit int
	// IncludeAbandoned removes abandoned jobs in addition to delivered ones.
	IncludeAbandoned bool
	// LockName is the advisory lock name. Defaults to jobs:cleanup:<table>.
	LockName string
	// Clock overrides the time source (useful for tests).
	Clock dispatch.Clock
	// Logger receives warnings about cleanup failures.
	Logger dispatch.Logger
}

// CleanupMaintainer runs periodic cleanup of terminal jobs.
type CleanupMaintainer struct {
	store *Store
	cfg   CleanupMaintainerConfig
}

// NewCleanupMaintainer creates a cleanup maintainer with defaults applied.
func NewCleanupMaintainer(db *sql.DB, cfg CleanupMaintainerConfig) (*CleanupMaintainer, error) {
	if db == nil {
		return nil, ErrDBRequired
	}
	if cfg.Retention <= 0 {
		return nil, ErrCleanupRetentionInvalid
	}
	if cfg.Clock == nil {
		cfg.Clock = dispatch.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = dispatch.NopLogger{}
	}
	if cfg.CheckEvery <= 0 {
		cfg.CheckEvery = defaultCleanupEvery
	}
	if cfg.Limit == 0 {
		cfg.Limit = defaultCleanupLimit
	}
	if cfg.Limit < 0 {
		return nil, ErrCleanupLimitInvalid
	}

	store, err := NewStore(db, WithTable(cfg.Table), WithClock(cfg.Clock))
	if err != nil {
		return nil, err
	}
	cfg.Table = store.table
	if cfg.LockName == "" {
		cfg.LockName = defaultCleanupLockPrefix + store.table
	}

	return &CleanupMaintainer{store: store, cfg: cfg}, nil
}

// RunOnce performs a single cleanup pass under the advisory lock.
func (m *CleanupMaintainer) RunOnce(ctx context.Context) (CleanupResult, error) {
	locked, err := m.acquireLock(ctx)
	if err != nil {
		return CleanupResult{}, err
	}
	if !locked {
		m.cfg.Logger.Debug("cleanup lock held elsewhere", "lock", m.cfg.LockName)

		return CleanupResult{}, nil
	}
	defer m.releaseLock(ctx)

	before := m.cfg.Clock.Now().Add(-m.cfg.Retention)

	return m.store.Cleanup(ctx, CleanupOptions{
		Before:           before,
		Limit:            m.cfg.Limit,
		IncludeAbandoned: m.cfg.IncludeAbandoned,
	})
}

// Run performs cleanup passes until the context ends.
func (m *CleanupMaintainer) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.CheckEvery)
	defer ticker.Stop()

	for {
		result, err := m.RunOnce(ctx)
		if err != nil {
			m.cfg.Logger.Warn("cleanup run failed", "err", err)
		} else if result.Delivered > 0 || result.Abandoned > 0 {
			m.cfg.Logger.Info("cleanup removed jobs",
				"delivered", result.Delivered, "abandoned", result.Abandoned)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (m *CleanupMaintainer) acquireLock(ctx context.Context) (bool, error) {
	var got sql.NullInt64
	if err := m.store.db.QueryRowContext(ctx, "SELECT GET_LOCK(?, 0)", m.cfg.LockName).Scan(&got); err != nil {
		return false, fmt.Errorf("jobs mysql: acquire cleanup lock failed: %w", err)
	}

	return got.Valid && got.Int64 == 1, nil
}

func (m *CleanupMaintainer) releaseLock(ctx context.Context) {
	if _, err := m.store.db.ExecContext(ctx, "SELECT RELEASE_LOCK(?)", m.cfg.LockName); err != nil {
		m.cfg.Logger.Warn("release cleanup lock failed", "err", err)
	}
}
