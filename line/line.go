// Package line resolves hardware subscription identifiers to logical line
// slots and human-readable labels.
package line

import "fmt"

// Line is an immutable snapshot of one communication line. Slot is the
// stable key used for routing; label, carrier, and number are best-effort
// descriptive fields.
type Line struct {
	Slot    int
	Label   string
	Carrier string
	Number  string
}

// Subscription is one active telephony subscription as reported by the host
// platform.
type Subscription struct {
	ID      int
	Slot    int
	Label   string
	Carrier string
	Number  string
}

// Provider lists the active telephony subscriptions. Implementations may
// fail when the platform denies access to telephony metadata; the Registry
// degrades to fallback lines in that case.
type Provider interface {
	// ActiveSubscriptions returns the currently active subscriptions.
	ActiveSubscriptions() ([]Subscription, error)
}

// StaticProvider serves a fixed subscription table, typically loaded from
// configuration.
type StaticProvider struct {
	Subscriptions []Subscription
}

// ActiveSubscriptions implements Provider.
func (p StaticProvider) ActiveSubscriptions() ([]Subscription, error) {
	return p.Subscriptions, nil
}

// Registry resolves subscription IDs to Lines, falling back to synthetic
// defaults when metadata is unavailable. It never returns an error: absent
// data must not block notification delivery.
type Registry struct {
	provider Provider
}

// NewRegistry constructs a Registry over the given provider.
func NewRegistry(provider Provider) *Registry {
	if provider == nil {
		panic("line: nil Provider")
	}

	return &Registry{provider: provider}
}

// Resolve returns the Line for a subscription ID. An unknown ID or a
// provider failure degrades to the slot-0 fallback.
func (r *Registry) Resolve(subscriptionID int) Line {
	subs, err := r.provider.ActiveSubscriptions()
	if err != nil {
		return fallbackLine(0)
	}

	for _, sub := range subs {
		if sub.ID == subscriptionID {
			return lineFromSubscription(sub)
		}
	}

	return fallbackLine(0)
}

// Lines returns the active lines keyed by slot, for read-only display. A
// provider failure degrades to a two-slot fallback map; a provider that
// succeeds with no active subscriptions yields an empty map.
func (r *Registry) Lines() map[int]Line {
	subs, err := r.provider.ActiveSubscriptions()
	if err != nil {
		return map[int]Line{
			0: fallbackLine(0),
			1: fallbackLine(1),
		}
	}

	lines := make(map[int]Line, len(subs))
	for _, sub := range subs {
		lines[sub.Slot] = lineFromSubscription(sub)
	}

	return lines
}

func lineFromSubscription(sub Subscription) Line {
	label := sub.Label
	if label == "" {
		label = defaultLabel(sub.Slot)
	}
	carrier := sub.Carrier
	if carrier == "" {
		carrier = "Unknown"
	}

	return Line{
		Slot:    sub.Slot,
		Label:   label,
		Carrier: carrier,
		Number:  sub.Number,
	}
}

func fallbackLine(slot int) Line {
	return Line{
		Slot:    slot,
		Label:   defaultLabel(slot),
		Carrier: "Unknown",
	}
}

func defaultLabel(slot int) string {
	return fmt.Sprintf("SIM %d", slot+1)
}
