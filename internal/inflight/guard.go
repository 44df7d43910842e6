// Package inflight guards against duplicate concurrent mutations.
// A double-clicked submit otherwise produces two in-flight requests
// and, without server-side dedupe, two records.
package inflight

import (
	"errors"
	"sync"
)

// ErrInFlight is returned when a mutation for the same key is already
// running.
var ErrInFlight = errors.New("operation already in flight")

// Guard allows at most one running mutation per key.
type Guard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{active: make(map[string]struct{})}
}

// Begin claims key for the caller. It returns a release func on
// success and ErrInFlight when the key is already claimed. The release
// func must be called exactly once, normally via defer.
func (g *Guard) Begin(key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return nil, ErrInFlight
	}
	g.active[key] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.active, key)
		g.mu.Unlock()
	}, nil
}
