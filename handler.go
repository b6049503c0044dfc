package dispatch

import "context"

// Handler performs a single delivery attempt for a job.
type Handler interface {
	// Handle attempts delivery once and returns an error on failure.
	Handle(ctx context.Context, job Job) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, job Job) error

// Handle implements Handler.
func (fn HandlerFunc) Handle(ctx context.Context, job Job) error {
	return fn(ctx, job)
}
