package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobStore persists notification jobs and serializes their state transitions.
//
// Implementations must apply every transition as a compare-and-set on the
// job's current status, so that concurrent workers can settle distinct jobs
// in parallel while a single job is only ever moved by one of them.
type JobStore interface {
	// Enqueue persists a new pending job.
	Enqueue(ctx context.Context, job Job) error
	// Claim atomically moves one due pending job to attempting and returns it.
	// It returns ErrNoJobs when no job is due at the provided time.
	Claim(ctx context.Context, now time.Time) (Job, error)
	// Release moves an attempting job back to pending without counting an
	// attempt. Used when delivery was aborted before an outcome was known.
	Release(ctx context.Context, id uuid.UUID) error
	// MarkDelivered moves an attempting job to the delivered terminal state.
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	// MarkRetry moves an attempting job back to pending with the updated
	// attempt count and next-attempt schedule.
	MarkRetry(ctx context.Context, id uuid.UUID, attempts int, nextAttempt time.Time, cause error) error
	// MarkAbandoned moves an attempting job to the abandoned terminal state.
	MarkAbandoned(ctx context.Context, id uuid.UUID, cause error) error
	// Cancel abandons a job regardless of whether it is pending or attempting.
	// Cancelling a terminal job is a no-op; an unknown id returns
	// ErrJobNotFound.
	Cancel(ctx context.Context, id uuid.UUID) error
	// Recover moves jobs stranded in the attempting state (for example by a
	// process crash) back to pending and returns how many were recovered.
	Recover(ctx context.Context) (int, error)
}

// PendingCounter provides a total count of pending jobs.
type PendingCounter interface {
	// PendingCount returns the current number of pending jobs.
	PendingCount(ctx context.Context) (int, error)
}
