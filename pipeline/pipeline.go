// Package pipeline wires classified telephony events into durable
// notification jobs and supplies the delivery handler for the dispatch queue.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/telesim/dispatch"
	"github.com/telesim/dispatch/event"
	"github.com/telesim/dispatch/line"
)

// Settings is the routing configuration: the bot token and the chat id per
// line slot. It is read fresh at send time so configuration changes apply to
// in-flight retries.
type Settings struct {
	BotToken      string
	ChannelBySlot map[int]string
}

// SettingsProvider returns the current routing configuration. Callers must
// not cache the result across jobs.
type SettingsProvider interface {
	// Settings returns the current routing configuration.
	Settings(ctx context.Context) (Settings, error)
}

// Enqueuer accepts formatted notification text for durable delivery.
type Enqueuer interface {
	// Enqueue persists a new pending job for the slot.
	Enqueue(ctx context.Context, slot int, text string) (uuid.UUID, error)
}

// Pipeline classifies incoming telephony events, resolves their line,
// formats notification text, and enqueues one job per event.
type Pipeline struct {
	registry *line.Registry
	queue    Enqueuer
	states   *event.StateCache
	logger   dispatch.Logger
}

// New constructs a Pipeline.
func New(registry *line.Registry, queue Enqueuer, logger dispatch.Logger) *Pipeline {
	if registry == nil {
		panic("pipeline: nil Registry")
	}
	if queue == nil {
		panic("pipeline: nil Enqueuer")
	}
	if logger == nil {
		logger = dispatch.NopLogger{}
	}

	return &Pipeline{
		registry: registry,
		queue:    queue,
		states:   event.NewStateCache(),
		logger:   logger,
	}
}

// OnSMS handles an incoming text message and enqueues its notification.
func (p *Pipeline) OnSMS(ctx context.Context, subscriptionID int, sender, body string) error {
	ln := p.registry.Resolve(subscriptionID)
	text := event.Format(event.SMS{Line: ln, Sender: sender, Body: body})

	id, err := p.queue.Enqueue(ctx, ln.Slot, text)
	if err != nil {
		return fmt.Errorf("pipeline: enqueue sms notification: %w", err)
	}
	p.logger.Info("sms notification enqueued", "job", id, "slot", ln.Slot, "sender", sender)

	return nil
}

// OnCallState handles a phone-state transition. A state equal to the slot's
// previously seen state is suppressed; only a transition to idle (call ended)
// produces a notification.
func (p *Pipeline) OnCallState(ctx context.Context, subscriptionID int, state event.CallState, number string) error {
	ln := p.registry.Resolve(subscriptionID)

	if p.states.Suppress(ln.Slot, state) {
		p.logger.Debug("repeated call state suppressed", "slot", ln.Slot, "state", state)

		return nil
	}
	if state != event.CallStateIdle {
		return nil
	}

	text := event.Format(event.Call{Line: ln, Number: number})

	id, err := p.queue.Enqueue(ctx, ln.Slot, text)
	if err != nil {
		return fmt.Errorf("pipeline: enqueue call notification: %w", err)
	}
	p.logger.Info("call notification enqueued", "job", id, "slot", ln.Slot, "number", number)

	return nil
}
