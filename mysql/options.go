package mysql

import "github.com/telesim/dispatch"

const defaultTable = "notification_jobs"

// Config defines store behavior.
type Config struct {
	// Table is the jobs table name. Use schema.table for a non-default schema.
	Table string
	// Clock overrides the time source (useful for tests).
	Clock dispatch.Clock
}

func (c Config) withDefaults() Config {
	if c.Table == "" {
		c.Table = defaultTable
	}
	if c.Clock == nil {
		c.Clock = dispatch.SystemClock{}
	}

	return c
}

// Option configures the store.
type Option func(*Config)

// WithTable sets the jobs table name.
func WithTable(table string) Option {
	return func(c *Config) {
		c.Table = table
	}
}

// WithClock sets the store clock.
func WithClock(clock dispatch.Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}
