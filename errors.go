package dispatch

import "errors"

var (
	// ErrNoJobs signals that no due jobs are available for claiming.
	ErrNoJobs = errors.New("dispatch has no due jobs")
	// ErrEmptyText is returned when enqueuing a job with no text.
	ErrEmptyText = errors.New("dispatch job text is required")
	// ErrInvalidSlot is returned when enqueuing a job with a negative slot.
	ErrInvalidSlot = errors.New("dispatch job slot must not be negative")
	// ErrJobNotFound is returned by stores when the referenced job does not
	// exist or is not in the expected state for the transition.
	ErrJobNotFound = errors.New("dispatch job not found")
	// ErrWorkerPanic indicates a queue worker panic.
	ErrWorkerPanic = errors.New("dispatch worker panic")
)
