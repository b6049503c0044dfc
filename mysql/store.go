package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/telesim/dispatch"
)

const maxErrorLen = 1024

// Store implements dispatch.JobStore on MySQL using polling + SKIP LOCKED.
type Store struct {
	db      *sql.DB
	cfg     Config
	queries queries
	table   string
}

var _ dispatch.JobStore = (*Store)(nil)
var _ dispatch.PendingCounter = (*Store)(nil)

// NewStore constructs a MySQL store with validated configuration.
func NewStore(db *sql.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrDBRequired
	}

	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	table, err := sanitizeTableName(cfg.Table)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:      db,
		cfg:     cfg,
		queries: newQueries(table),
		table:   table,
	}, nil
}

// MustNewStore constructs a MySQL store or panics on error.
func MustNewStore(db *sql.DB, opts ...Option) *Store {
	store, err := NewStore(db, opts...)
	if err != nil {
		panic(err)
	}

	return store
}

// EnsureSchema creates the jobs table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl, err := Schema(s.table)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("jobs mysql: create table failed: %w", err)
	}

	return nil
}

// Enqueue implements dispatch.JobStore.
func (s *Store) Enqueue(ctx context.Context, job dispatch.Job) error {
	_, err := s.db.ExecContext(
		ctx,
		s.queries.insert,
		job.ID[:],
		job.Slot,
		job.Text,
		job.CreatedAt,
		job.NextAttemptAt,
	)
	if err != nil {
		return fmt.Errorf("jobs mysql: insert failed: %w", err)
	}

	return nil
}

// Claim implements dispatch.JobStore. It locks one due pending row, moves it
// to attempting, and returns it.
func (s *Store) Claim(ctx context.Context, now time.Time) (dispatch.Job, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return dispatch.Job{}, fmt.Errorf("jobs mysql: begin tx failed: %w", err)
	}

	job, err := s.selectDue(ctx, tx, now)
	if err != nil {
		rollbackErr := tx.Rollback()
		if errors.Is(err, dispatch.ErrNoJobs) {
			return dispatch.Job{}, dispatch.ErrNoJobs
		}

		return dispatch.Job{}, errors.Join(err, rollbackErr)
	}

	if _, err := tx.ExecContext(
		ctx,
		s.queries.markAttempt,
		dispatch.StatusAttempting,
		job.ID[:],
		dispatch.StatusPending,
	); err != nil {
		rollbackErr := tx.Rollback()

		return dispatch.Job{}, errors.Join(fmt.Errorf("jobs mysql: claim update failed: %w", err), rollbackErr)
	}

	if err := tx.Commit(); err != nil {
		return dispatch.Job{}, fmt.Errorf("jobs mysql: claim commit failed: %w", err)
	}

	job.Status = dispatch.StatusAttempting

	return job, nil
}

func (s *Store) selectDue(ctx context.Context, tx *sql.Tx, now time.Time) (dispatch.Job, error) {
	row := tx.QueryRowContext(ctx, s.queries.selectDue, dispatch.StatusPending, now)

	var (
		rawID         []byte
		slot          int
		body          string
		attempts      int
		createdAt     time.Time
		nextAttemptAt time.Time
	)
	if err := row.Scan(&rawID, &slot, &body, &attempts, &createdAt, &nextAttemptAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dispatch.Job{}, dispatch.ErrNoJobs
		}

		return dispatch.Job{}, fmt.Errorf("jobs mysql: scan failed: %w", err)
	}

	id, err := uuid.FromBytes(rawID)
	if err != nil {
		return dispatch.Job{}, fmt.Errorf("jobs mysql: invalid job id: %w", err)
	}

	return dispatch.Job{
		ID:            id,
		Slot:          slot,
		Text:          body,
		Status:        dispatch.StatusPending,
		Attempts:      attempts,
		CreatedAt:     createdAt,
		NextAttemptAt: nextAttemptAt,
	}, nil
}

// Release implements dispatch.JobStore.
func (s *Store) Release(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, s.queries.release, "release",
		dispatch.StatusPending, id[:], dispatch.StatusAttempting)
}

// MarkDelivered implements dispatch.JobStore.
func (s *Store) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, s.queries.markDelivered, "mark delivered",
		dispatch.StatusDelivered, s.cfg.Clock.Now(), id[:], dispatch.StatusAttempting)
}

// MarkRetry implements dispatch.JobStore.
func (s *Store) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, nextAttempt time.Time, cause error) error {
	return s.transition(ctx, s.queries.markRetry, "mark retry",
		dispatch.StatusPending, attempts, nextAttempt, truncateError(cause), id[:], dispatch.StatusAttempting)
}

// MarkAbandoned implements dispatch.JobStore.
func (s *Store) MarkAbandoned(ctx context.Context, id uuid.UUID, cause error) error {
	return s.transition(ctx, s.queries.markAbandoned, "mark abandoned",
		dispatch.StatusAbandoned, truncateError(cause), id[:], dispatch.StatusAttempting)
}

// Cancel implements dispatch.JobStore. Terminal jobs are left untouched; an
// id with no row reports dispatch.ErrJobNotFound.
func (s *Store) Cancel(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(
		ctx,
		s.queries.cancel,
		dispatch.StatusAbandoned,
		"cancelled",
		id[:],
		dispatch.StatusPending,
		dispatch.StatusAttempting,
	)
	if err != nil {
		return fmt.Errorf("jobs mysql: cancel failed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("jobs mysql: cancel rows failed: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Zero rows means either an already terminal job or a missing one.
	var one int
	if err := s.db.QueryRowContext(ctx, s.queries.exists, id[:]).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: cancel", dispatch.ErrJobNotFound)
		}

		return fmt.Errorf("jobs mysql: cancel lookup failed: %w", err)
	}

	return nil
}

// Recover implements dispatch.JobStore.
func (s *Store) Recover(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, s.queries.recover, dispatch.StatusPending, dispatch.StatusAttempting)
	if err != nil {
		return 0, fmt.Errorf("jobs mysql: recover failed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("jobs mysql: recover rows failed: %w", err)
	}

	return int(affected), nil
}

// PendingCount returns the number of pending jobs.
func (s *Store) PendingCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, s.queries.countPending, dispatch.StatusPending).Scan(&count); err != nil {
		return 0, fmt.Errorf("jobs mysql: pending count failed: %w", err)
	}

	return count, nil
}

func (s *Store) transition(ctx context.Context, query, op string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("jobs mysql: %s failed: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("jobs mysql: %s rows failed: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", dispatch.ErrJobNotFound, op)
	}

	return nil
}

func truncateError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	if utf8.RuneCountInString(msg) <= maxErrorLen {
		return msg
	}

	runes := []rune(msg)
	if len(runes) <= maxErrorLen {
		return msg
	}

	return string(runes[:maxErrorLen])
}
