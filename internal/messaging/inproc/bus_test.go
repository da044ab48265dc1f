package inproc

import (
	"testing"

	"formicarium/internal/domain"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	bus := New(4)
	a := bus.Subscribe("a")
	b := bus.Subscribe("b")

	bus.Publish(domain.Snapshot{Generation: 7})

	for name, ch := range map[string]<-chan domain.Snapshot{"a": a, "b": b} {
		select {
		case snap := <-ch:
			if snap.Generation != 7 {
				t.Fatalf("%s: generation %d, want 7", name, snap.Generation)
			}
		default:
			t.Fatalf("%s: no snapshot delivered", name)
		}
	}
}

func TestSlowSubscriberDropsFrames(t *testing.T) {
	bus := New(2)
	ch := bus.Subscribe("slow")

	for gen := uint64(1); gen <= 5; gen++ {
		bus.Publish(domain.Snapshot{Generation: gen})
	}

	// only the first two frames fit; the rest were dropped, not blocked on
	if got := len(ch); got != 2 {
		t.Fatalf("buffered frames: got %d, want 2", got)
	}
	if snap := <-ch; snap.Generation != 1 {
		t.Fatalf("first frame: got generation %d, want 1", snap.Generation)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := New(2)
	ch := bus.Subscribe("gone")
	bus.Unsubscribe("gone")

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after unsubscribe")
	}

	// a second unsubscribe is a no-op
	bus.Unsubscribe("gone")
}

func TestSubscribeIsIdempotent(t *testing.T) {
	bus := New(2)
	first := bus.Subscribe("m")
	second := bus.Subscribe("m")
	if first != second {
		t.Fatalf("resubscribing should return the same channel")
	}
}
