package dispatch

import (
	"time"

	"github.com/google/uuid"
)

// Job is a durable unit of pending outbound notification work.
//
// A job is owned by its store from creation until it reaches a terminal
// status. The only mutation across retries is the attempt counter and the
// schedule for the next attempt.
type Job struct {
	ID            uuid.UUID
	Slot          int
	Text          string
	Status        Status
	Attempts      int
	LastError     string
	CreatedAt     time.Time
	NextAttemptAt time.Time
}
