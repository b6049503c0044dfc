package line

import (
	"errors"
	"testing"
)

type failingProvider struct{}

func (failingProvider) ActiveSubscriptions() ([]Subscription, error) {
	return nil, errors.New("permission denied")
}

func TestResolveKnownSubscription(t *testing.T) {
	registry := NewRegistry(StaticProvider{Subscriptions: []Subscription{
		{ID: 7, Slot: 1, Label: "Work", Carrier: "Acme Mobile", Number: "+15550001"},
	}})

	got := registry.Resolve(7)
	want := Line{Slot: 1, Label: "Work", Carrier: "Acme Mobile", Number: "+15550001"}
	if got != want {
		t.Fatalf("Resolve(7) = %+v, want %+v", got, want)
	}
}

func TestResolveUnknownSubscriptionFallsBack(t *testing.T) {
	registry := NewRegistry(StaticProvider{Subscriptions: []Subscription{
		{ID: 7, Slot: 1, Label: "Work"},
	}})

	got := registry.Resolve(42)
	if got.Slot != 0 || got.Label != "SIM 1" || got.Carrier != "Unknown" {
		t.Fatalf("Resolve(42) = %+v, want slot-0 fallback", got)
	}
}

func TestResolveProviderFailureFallsBack(t *testing.T) {
	registry := NewRegistry(failingProvider{})

	got := registry.Resolve(7)
	if got.Slot != 0 || got.Label != "SIM 1" || got.Carrier != "Unknown" {
		t.Fatalf("Resolve(7) = %+v, want slot-0 fallback", got)
	}
}

func TestResolveFillsMissingLabelAndCarrier(t *testing.T) {
	registry := NewRegistry(StaticProvider{Subscriptions: []Subscription{
		{ID: 3, Slot: 1},
	}})

	got := registry.Resolve(3)
	if got.Label != "SIM 2" {
		t.Fatalf("Resolve(3).Label = %q, want %q", got.Label, "SIM 2")
	}
	if got.Carrier != "Unknown" {
		t.Fatalf("Resolve(3).Carrier = %q, want %q", got.Carrier, "Unknown")
	}
}

func TestLinesKeyedBySlot(t *testing.T) {
	registry := NewRegistry(StaticProvider{Subscriptions: []Subscription{
		{ID: 1, Slot: 0, Label: "Personal"},
		{ID: 2, Slot: 1, Label: "Work"},
	}})

	lines := registry.Lines()
	if len(lines) != 2 {
		t.Fatalf("Lines() returned %d entries, want 2", len(lines))
	}
	if lines[0].Label != "Personal" || lines[1].Label != "Work" {
		t.Fatalf("Lines() = %+v, wrong labels", lines)
	}
}

func TestLinesEmptySubscriptionsReturnsEmptyMap(t *testing.T) {
	registry := NewRegistry(StaticProvider{})

	if lines := registry.Lines(); len(lines) != 0 {
		t.Fatalf("Lines() = %+v, want empty map when no subscriptions are active", lines)
	}
}

func TestLinesProviderFailureReturnsTwoSlotFallback(t *testing.T) {
	registry := NewRegistry(failingProvider{})

	lines := registry.Lines()
	if len(lines) != 2 {
		t.Fatalf("Lines() returned %d entries, want 2", len(lines))
	}
	if lines[0].Label != "SIM 1" || lines[1].Label != "SIM 2" {
		t.Fatalf("Lines() = %+v, want fallback labels", lines)
	}
}
