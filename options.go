package dispatch

import "time"

const (
	defaultPollInterval = time.Second
	defaultWorkers      = 2
	defaultBackoffBase  = 15 * time.Second
	defaultMaxAttempts  = 10
	defaultPendingCheck = 0
)

// QueueConfig defines how the Queue claims and delivers jobs.
type QueueConfig struct {
	Workers           int
	PollInterval      time.Duration
	BackoffBase       time.Duration
	MaxAttempts       int
	HandlerTimeout    time.Duration
	Network           Monitor
	Clock             Clock
	ErrorHandler      FailureHandler
	Logger            Logger
	Metrics           Metrics
	FailureClassifier FailureClassifier
	PendingInterval   time.Duration
}

func (c QueueConfig) withDefaults() QueueConfig {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = defaultBackoffBase
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.Network == nil {
		c.Network = AlwaysOnline{}
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Logger == nil {
		c.Logger = NopLogger{}
	}
	if c.Metrics == nil {
		c.Metrics = NopMetrics{}
	}
	if c.FailureClassifier == nil {
		c.FailureClassifier = defaultFailureClassifier
	}
	if c.PendingInterval <= 0 {
		c.PendingInterval = defaultPendingCheck
	}

	return c
}

// QueueOption configures Queue behavior.
type QueueOption func(*QueueConfig)

// WithWorkers sets the number of concurrent delivery workers.
func WithWorkers(count int) QueueOption {
	return func(c *QueueConfig) {
		c.Workers = count
	}
}

// WithPollInterval sets the delay between empty claim polls.
func WithPollInterval(interval time.Duration) QueueOption {
	return func(c *QueueConfig) {
		c.PollInterval = interval
	}
}

// WithBackoffBase sets the linear backoff unit. A job's next attempt is
// scheduled base×attempts after the failure.
func WithBackoffBase(base time.Duration) QueueOption {
	return func(c *QueueConfig) {
		c.BackoffBase = base
	}
}

// WithMaxAttempts sets the attempt ceiling after which a job is abandoned
// even when failures remain retryable.
func WithMaxAttempts(limit int) QueueOption {
	return func(c *QueueConfig) {
		c.MaxAttempts = limit
	}
}

// WithHandlerTimeout sets a per-attempt delivery timeout.
func WithHandlerTimeout(timeout time.Duration) QueueOption {
	return func(c *QueueConfig) {
		c.HandlerTimeout = timeout
	}
}

// WithNetworkMonitor sets the connectivity gate for delivery attempts.
func WithNetworkMonitor(monitor Monitor) QueueOption {
	return func(c *QueueConfig) {
		c.Network = monitor
	}
}

// WithClock sets the Queue clock.
func WithClock(clock Clock) QueueOption {
	return func(c *QueueConfig) {
		c.Clock = clock
	}
}

// WithErrorHandler registers a callback for delivery failures.
func WithErrorHandler(handler FailureHandler) QueueOption {
	return func(c *QueueConfig) {
		c.ErrorHandler = handler
	}
}

// WithLogger sets the queue logger.
func WithLogger(logger Logger) QueueOption {
	return func(c *QueueConfig) {
		c.Logger = logger
	}
}

// WithMetrics sets the queue metrics recorder.
func WithMetrics(metrics Metrics) QueueOption {
	return func(c *QueueConfig) {
		c.Metrics = metrics
	}
}

// WithFailureClassifier sets the classifier for retry/abandon decisions.
func WithFailureClassifier(classifier FailureClassifier) QueueOption {
	return func(c *QueueConfig) {
		c.FailureClassifier = classifier
	}
}

// WithPendingInterval sets the minimum interval between pending count samples.
// Use a positive value to enable sampling or zero to keep it disabled.
// The default is disabled.
func WithPendingInterval(interval time.Duration) QueueOption {
	return func(c *QueueConfig) {
		c.PendingInterval = interval
	}
}
