package event

import (
	"sync"
	"testing"
)

func TestStateCacheSuppressesRepeatedState(t *testing.T) {
	cache := NewStateCache()

	if cache.Suppress(0, CallStateRinging) {
		t.Fatal("first state was suppressed")
	}
	if !cache.Suppress(0, CallStateRinging) {
		t.Fatal("repeated state was not suppressed")
	}
	if cache.Suppress(0, CallStateIdle) {
		t.Fatal("changed state was suppressed")
	}
	if cache.Suppress(0, CallStateRinging) {
		t.Fatal("state differing from the last one was suppressed")
	}
}

func TestStateCacheIsolatesSlots(t *testing.T) {
	cache := NewStateCache()

	cache.Suppress(0, CallStateIdle)
	if cache.Suppress(1, CallStateIdle) {
		t.Fatal("state on slot 1 was suppressed by slot 0 history")
	}
}

func TestStateCacheConcurrentAccess(t *testing.T) {
	cache := NewStateCache()

	var wg sync.WaitGroup
	for slot := 0; slot < 4; slot++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				cache.Suppress(slot, CallStateRinging)
				cache.Suppress(slot, CallStateIdle)
			}
		}(slot)
	}
	wg.Wait()
}
