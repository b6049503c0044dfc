package dispatch

import (
	"context"
	"net"
	"time"
)

const (
	defaultProbeTimeout  = 3 * time.Second
	defaultProbeInterval = 5 * time.Second
)

// Monitor reports network availability. The queue holds back delivery
// attempts while the monitor reports offline and resumes when connectivity
// returns.
type Monitor interface {
	// Online reports whether the network is currently available.
	Online() bool
	// Await blocks until the network is available or the context ends.
	Await(ctx context.Context) error
}

// AlwaysOnline assumes connectivity. It is the default monitor.
type AlwaysOnline struct{}

// Online implements Monitor.
func (AlwaysOnline) Online() bool { return true }

// Await implements Monitor.
func (AlwaysOnline) Await(ctx context.Context) error { return ctx.Err() }

// DialMonitor probes a TCP address to detect connectivity.
type DialMonitor struct {
	// Address is the host:port to dial, e.g. "api.telegram.org:443".
	Address string
	// Timeout bounds a single probe dial (defaults to 3s).
	Timeout time.Duration
	// Interval is the delay between probes while offline (defaults to 5s).
	Interval time.Duration
}

// Online implements Monitor by dialing the probe address once.
func (m *DialMonitor) Online() bool {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	conn, err := net.DialTimeout("tcp", m.Address, timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()

	return true
}

// Await implements Monitor by probing until a dial succeeds.
func (m *DialMonitor) Await(ctx context.Context) error {
	interval := m.Interval
	if interval <= 0 {
		interval = defaultProbeInterval
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.Online() {
			return nil
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case <-timer.C:
		}
	}
}
