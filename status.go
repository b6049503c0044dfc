package dispatch

// Status represents the lifecycle state of a notification job.
type Status int16

const (
	// StatusPending indicates the job is waiting for a delivery attempt.
	StatusPending Status = 0
	// StatusAttempting indicates a worker has claimed the job and a delivery
	// attempt is in flight.
	StatusAttempting Status = 1
	// StatusDelivered indicates the job was delivered successfully (terminal).
	StatusDelivered Status = 2
	// StatusAbandoned indicates the job hit a fatal failure or exhausted its
	// attempts (terminal).
	StatusAbandoned Status = -1
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusAbandoned
}
