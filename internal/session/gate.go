package session

import (
	"context"
	"sync"
)

// Gate blocks network-dependent operations until the user session is
// established. The authentication flow itself lives outside this module;
// whatever performs it calls Open exactly once.
type Gate struct {
	once  sync.Once
	ready chan struct{}
}

// NewGate returns a closed gate.
func NewGate() *Gate {
	return &Gate{ready: make(chan struct{})}
}

// Open marks the session as established. Safe to call more than once.
func (g *Gate) Open() {
	g.once.Do(func() { close(g.ready) })
}

// Await blocks until the gate is open or ctx is done.
func (g *Gate) Await(ctx context.Context) error {
	select {
	case <-g.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
