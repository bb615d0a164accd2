package session

import (
	"context"
	"sync"
)

// Gate serializes review admission. At most one caller holds the gate; the
// rest queue in arrival order. The zero value is ready to use.
type Gate struct {
	mu      sync.Mutex
	held    bool
	waiters []chan struct{}
}

// NewGate creates a Gate.
func NewGate() *Gate {
	return &Gate{}
}

// Acquire blocks until the caller owns the gate or the context is done.
// Admission is strictly FIFO: callers proceed in the order they arrived.
func (g *Gate) Acquire(ctx context.Context) error {
	g.mu.Lock()
	if !g.held {
		g.held = true
		g.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	g.waiters = append(g.waiters, ch)
	g.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		for i, w := range g.waiters {
			if w == ch {
				g.waiters = append(g.waiters[:i], g.waiters[i+1:]...)
				g.mu.Unlock()
				return ctx.Err()
			}
		}
		g.mu.Unlock()
		// The slot was handed over between ctx firing and cleanup; pass it
		// on so the queue keeps moving.
		g.Release()
		return ctx.Err()
	}
}

// Release hands the gate to the next waiter, or frees it when the queue is
// empty. Must only be called by the current holder.
func (g *Gate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.waiters) > 0 {
		next := g.waiters[0]
		g.waiters = g.waiters[1:]
		close(next) // ownership transfers; held stays true
		return
	}
	g.held = false
}
