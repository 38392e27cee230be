package asset

import "sync"

// InteractionGate coordinates sound items blocked on the first user
// gesture. Platforms that refuse to start playback without a gesture
// park their items here; a single Fire releases all of them at once.
// The waiting count feeds the status surface so a UI can show an
// approximate "waiting for interaction" indicator.
type InteractionGate struct {
	mu      sync.Mutex
	waiters []chan struct{}
}

// NewInteractionGate creates a new gate
func NewInteractionGate() *InteractionGate {
	return &InteractionGate{}
}

// Wait registers a one-shot listener released by the next Fire
func (g *InteractionGate) Wait() <-chan struct{} {
	ch := make(chan struct{})
	g.mu.Lock()
	g.waiters = append(g.waiters, ch)
	g.mu.Unlock()
	return ch
}

// Fire signals that a user interaction occurred and releases every
// registered listener
func (g *InteractionGate) Fire() {
	g.mu.Lock()
	waiters := g.waiters
	g.waiters = nil
	g.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
}

// Waiting returns the number of listeners currently registered
func (g *InteractionGate) Waiting() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.waiters)
}
