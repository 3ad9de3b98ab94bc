package booking

import (
	"context"
	"testing"
	"time"
)

func TestRegistryReturnsSameControllerPerVisitor(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(func() *Controller {
		return New(Options{Backend: &fakeBackend{}, Location: time.UTC, Now: clock.Now})
	}, time.Hour, clock.Now)

	a := r.Get("a")
	if r.Get("a") != a {
		t.Fatal("expected the same controller for the same visitor")
	}
	if r.Get("b") == a {
		t.Fatal("visitors must not share controllers")
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d", r.Len())
	}
}

func TestRegistrySweepEvictsIdleVisitors(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(func() *Controller {
		return New(Options{Backend: &fakeBackend{}, Location: time.UTC, Now: clock.Now})
	}, 30*time.Minute, clock.Now)

	r.Get("idle")
	clock.Advance(20 * time.Minute)
	_ = r.Get("active").SetField("firstName", "Ana")
	clock.Advance(15 * time.Minute)

	if n := r.Sweep(); n != 1 {
		t.Fatalf("Sweep() removed %d, want 1", n)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	if got := r.Get("active").Draft().Get("firstName"); got != "Ana" {
		t.Fatalf("active visitor lost their draft: %q", got)
	}
}

func TestRegistrySweepKeepsInFlightSubmissions(t *testing.T) {
	clock := newFakeClock()
	b := &fakeBackend{started: make(chan struct{}, 1), release: make(chan struct{})}
	r := NewRegistry(func() *Controller {
		return New(Options{Backend: b, Location: time.UTC, Now: clock.Now})
	}, time.Minute, clock.Now)

	c := r.Get("v")
	fillValid(t, c, clock)
	done := make(chan struct{})
	go func() {
		c.Submit(context.Background())
		close(done)
	}()
	<-b.started

	clock.Advance(time.Hour)
	if n := r.Sweep(); n != 0 {
		t.Fatalf("Sweep() evicted a submitting controller")
	}
	close(b.release)
	<-done
}

func TestRegistryLookupAndBlankDoNotTrack(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(func() *Controller {
		return New(Options{Backend: &fakeBackend{}, Location: time.UTC, Now: clock.Now})
	}, time.Hour, clock.Now)

	if _, ok := r.Lookup("a"); ok {
		t.Fatal("Lookup found a visitor that never posted")
	}
	if b := r.Blank(); b == nil || b.Status().State != Idle {
		t.Fatal("Blank should return an idle controller")
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}

	a := r.Get("a")
	if got, ok := r.Lookup("a"); !ok || got != a {
		t.Fatal("Lookup should return the registered controller")
	}
}
