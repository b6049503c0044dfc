package dispatch

import "time"

// Metrics captures queue-level telemetry.
type Metrics interface {
	// ObserveDeliveryDuration records the time a delivery attempt took.
	ObserveDeliveryDuration(duration time.Duration)
	// AddEnqueued increments the count of enqueued jobs.
	AddEnqueued(count int)
	// AddDelivered increments the count of delivered jobs.
	AddDelivered(count int)
	// AddRetries increments the count of scheduled retries.
	AddRetries(count int)
	// AddAbandoned increments the count of abandoned jobs.
	AddAbandoned(count int)
	// SetPending updates the current pending job count.
	SetPending(count int)
}

// NopMetrics is a no-op metrics recorder.
type NopMetrics struct{}

// ObserveDeliveryDuration implements Metrics.
func (NopMetrics) ObserveDeliveryDuration(time.Duration) {}

// AddEnqueued implements Metrics.
func (NopMetrics) AddEnqueued(int) {}

// AddDelivered implements Metrics.
func (NopMetrics) AddDelivered(int) {}

// AddRetries implements Metrics.
func (NopMetrics) AddRetries(int) {}

// AddAbandoned implements Metrics.
func (NopMetrics) AddAbandoned(int) {}

// SetPending implements Metrics.
func (NopMetrics) SetPending(int) {}
