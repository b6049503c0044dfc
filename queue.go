package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FailureHandler is called when a delivery attempt returns an error.
type FailureHandler func(ctx context.Context, job Job, err error)

// Queue claims due jobs from a JobStore and invokes a Handler for each.
//
// A job moves through pending → attempting → {delivered | abandoned}, looping
// back to pending on retryable failures with a linear backoff schedule. Jobs
// are independent: workers settle them concurrently and no ordering is
// guaranteed between jobs, including jobs for the same slot.
type Queue struct {
	store   JobStore
	handler Handler
	cfg     QueueConfig

	pendingMu sync.Mutex
	pendingAt time.Time
}

// NewQueue constructs a Queue with defaults and optional settings.
func NewQueue(store JobStore, handler Handler, opts ...QueueOption) *Queue {
	if store == nil {
		panic("dispatch: nil JobStore")
	}
	if handler == nil {
		panic("dispatch: nil Handler")
	}

	var cfg QueueConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	return &Queue{
		store:   store,
		handler: handler,
		cfg:     cfg,
	}
}

// Enqueue persists a new pending job for the given slot and returns its ID.
// Identical text enqueued twice produces two independent jobs.
func (q *Queue) Enqueue(ctx context.Context, slot int, text string) (uuid.UUID, error) {
	if text == "" {
		return uuid.Nil, ErrEmptyText
	}
	if slot < 0 {
		return uuid.Nil, ErrInvalidSlot
	}

	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("dispatch: generate id failed: %w", err)
	}

	now := q.cfg.Clock.Now()
	job := Job{
		ID:            id,
		Slot:          slot,
		Text:          text,
		Status:        StatusPending,
		CreatedAt:     now,
		NextAttemptAt: now,
	}

	if err := q.store.Enqueue(ctx, job); err != nil {
		return uuid.Nil, fmt.Errorf("dispatch: enqueue failed: %w", err)
	}

	q.cfg.Metrics.AddEnqueued(1)
	q.cfg.Logger.Debug("job enqueued", "id", id, "slot", slot)

	return id, nil
}

// Cancel abandons a job, aborting any scheduled retry. Cancelling a job that
// already reached a terminal state is a no-op; an unknown id returns
// ErrJobNotFound.
func (q *Queue) Cancel(ctx context.Context, id uuid.UUID) error {
	return q.store.Cancel(ctx, id)
}

// Run recovers stranded jobs and starts the delivery loop with the configured
// number of workers. It blocks until the context is cancelled or a worker
// fails irrecoverably.
func (q *Queue) Run(ctx context.Context) error {
	recovered, err := q.store.Recover(ctx)
	if err != nil {
		return fmt.Errorf("dispatch: recover failed: %w", err)
	}
	if recovered > 0 {
		q.cfg.Logger.Info("recovered stranded jobs", "count", recovered)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, q.cfg.Workers)
	var wg sync.WaitGroup

	for i := 0; i < q.cfg.Workers; i++ {
		wg.Add(1)
		workerID := i
		go func() {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("%w: %v", ErrWorkerPanic, rec)
					q.cfg.Logger.Error("dispatch worker panic", "worker", workerID, "panic", rec)
					errCh <- err
					cancel()
				}
			}()

			if err := q.runWorker(ctx); err != nil && !errors.Is(err, context.Canceled) {
				q.cfg.Logger.Error("dispatch worker error", "worker", workerID, "err", err)
				errCh <- err
				cancel()
			}
		}()
	}

	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return err
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

// ProcessOnce claims and settles a single due job. It reports whether a job
// was processed.
func (q *Queue) ProcessOnce(ctx context.Context) (bool, error) {
	job, err := q.store.Claim(ctx, q.cfg.Clock.Now())
	if err != nil {
		if errors.Is(err, ErrNoJobs) {
			q.maybeRecordPending(ctx)

			return false, nil
		}

		return false, err
	}

	if err := q.deliver(ctx, job); err != nil {
		return false, err
	}

	return true, nil
}

func (q *Queue) runWorker(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := q.cfg.Network.Await(ctx); err != nil {
			return err
		}

		processed, err := q.ProcessOnce(ctx)
		if err != nil {
			return err
		}
		if !processed {
			if sleepErr := q.sleep(ctx, q.cfg.PollInterval); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

// deliver runs one attempt for a claimed job and applies the resulting state
// transition. The claim is released untouched when the surrounding context is
// cancelled before an outcome is known.
func (q *Queue) deliver(ctx context.Context, job Job) error {
	start := time.Now()
	handleCtx := ctx
	cancel := func() {}
	if q.cfg.HandlerTimeout > 0 {
		handleCtx, cancel = context.WithTimeout(ctx, q.cfg.HandlerTimeout)
	}
	err := q.handler.Handle(handleCtx, job)
	cancel()
	q.cfg.Metrics.ObserveDeliveryDuration(time.Since(start))

	if err == nil {
		if markErr := q.store.MarkDelivered(ctx, job.ID); markErr != nil {
			if q.settledElsewhere(job, markErr) {
				return nil
			}

			return fmt.Errorf("dispatch: mark delivered failed: %w", markErr)
		}
		q.cfg.Metrics.AddDelivered(1)
		q.cfg.Logger.Info("job delivered", "id", job.ID, "slot", job.Slot, "attempts", job.Attempts+1)

		return nil
	}

	if ctx.Err() != nil {
		releaseCtx := context.WithoutCancel(ctx)
		if relErr := q.store.Release(releaseCtx, job.ID); relErr != nil && !q.settledElsewhere(job, relErr) {
			return errors.Join(ctx.Err(), fmt.Errorf("dispatch: release failed: %w", relErr))
		}

		return ctx.Err()
	}

	return q.settleFailure(ctx, job, err)
}

func (q *Queue) settleFailure(ctx context.Context, job Job, err error) error {
	if q.cfg.ErrorHandler != nil {
		q.cfg.ErrorHandler(ctx, job, err)
	}

	attempts := job.Attempts + 1
	action := q.cfg.FailureClassifier(ctx, job, err)

	if action == FailureAbandon {
		return q.abandon(ctx, job, attempts, err, "fatal failure")
	}
	if attempts >= q.cfg.MaxAttempts {
		return q.abandon(ctx, job, attempts, err, "attempt ceiling reached")
	}

	nextAt := q.cfg.Clock.Now().Add(q.cfg.BackoffBase * time.Duration(attempts))
	if markErr := q.store.MarkRetry(ctx, job.ID, attempts, nextAt, err); markErr != nil {
		if q.settledElsewhere(job, markErr) {
			return nil
		}

		return fmt.Errorf("dispatch: mark retry failed: %w", markErr)
	}
	q.cfg.Metrics.AddRetries(1)
	q.cfg.Logger.Warn("job retry scheduled",
		"id", job.ID, "slot", job.Slot, "attempts", attempts, "next_attempt_at", nextAt, "err", err)

	return nil
}

func (q *Queue) abandon(ctx context.Context, job Job, attempts int, cause error, reason string) error {
	if markErr := q.store.MarkAbandoned(ctx, job.ID, cause); markErr != nil {
		if q.settledElsewhere(job, markErr) {
			return nil
		}

		return fmt.Errorf("dispatch: mark abandoned failed: %w", markErr)
	}
	q.cfg.Metrics.AddAbandoned(1)
	q.cfg.Logger.Error("job abandoned",
		"id", job.ID, "slot", job.Slot, "attempts", attempts, "reason", reason, "err", cause)

	return nil
}

// settledElsewhere reports whether a transition on a claimed job missed its
// CAS because the job was settled concurrently, typically by Cancel while the
// delivery attempt was still in flight. The worker drops its outcome and
// moves on.
func (q *Queue) settledElsewhere(job Job, err error) bool {
	if !errors.Is(err, ErrJobNotFound) {
		return false
	}
	q.cfg.Logger.Debug("job settled concurrently, outcome dropped", "id", job.ID, "slot", job.Slot)

	return true
}

func (q *Queue) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (q *Queue) maybeRecordPending(ctx context.Context) {
	counter, ok := q.store.(PendingCounter)
	if !ok {
		return
	}
	if q.cfg.PendingInterval <= 0 {
		return
	}
	if ctx.Err() != nil {
		return
	}

	now := q.cfg.Clock.Now()
	q.pendingMu.Lock()
	nextAllowed := q.pendingAt.Add(q.cfg.PendingInterval)
	if !q.pendingAt.IsZero() && now.Before(nextAllowed) {
		q.pendingMu.Unlock()

		return
	}
	q.pendingAt = now
	q.pendingMu.Unlock()

	count, err := counter.PendingCount(ctx)
	if err != nil {
		q.cfg.Logger.Warn("pending count failed", "err", err)

		return
	}

	q.cfg.Metrics.SetPending(count)
}
