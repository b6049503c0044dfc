package dispatch

import "context"

// FailureAction defines how a failed delivery attempt should be handled.
type FailureAction int

const (
	// FailureRetry schedules another attempt after the backoff delay.
	FailureRetry FailureAction = iota
	// FailureAbandon terminates the job immediately without further attempts.
	FailureAbandon
)

// FailureClassifier decides whether a delivery failure is retryable.
type FailureClassifier func(ctx context.Context, job Job, err error) FailureAction

// Transport-level failures (timeouts, resets, DNS) carry no classification
// marker, so anything unrecognized is treated as transient.
func defaultFailureClassifier(context.Context, Job, error) FailureAction {
	return FailureRetry
}
