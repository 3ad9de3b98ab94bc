package booking

import (
	"sync"
	"time"
)

// Registry hands out one Controller per visitor and forgets visitors that have
// been idle longer than the TTL.
type Registry struct {
	newController func() *Controller
	ttl           time.Duration
	now           func() time.Time

	mu    sync.Mutex
	items map[string]*Controller
}

func NewRegistry(newController func() *Controller, ttl time.Duration, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		newController: newController,
		ttl:           ttl,
		now:           now,
		items:         make(map[string]*Controller),
	}
}

// Get returns the visitor's controller, creating it on first use.
func (r *Registry) Get(visitorID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[visitorID]
	if !ok {
		c = r.newController()
		r.items[visitorID] = c
	}
	return c
}

// Lookup returns the visitor's controller without creating one.
func (r *Registry) Lookup(visitorID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[visitorID]
	return c, ok
}

// Blank returns a fresh controller that is not tracked, for rendering an empty form
// to visitors who have not interacted with it yet.
func (r *Registry) Blank() *Controller {
	return r.newController()
}

// Sweep drops idle controllers and returns how many were removed.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, c := range r.items {
		seen, droppable := c.idleSince()
		if droppable && seen.Before(cutoff) {
			delete(r.items, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
