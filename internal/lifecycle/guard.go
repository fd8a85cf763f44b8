// Package lifecycle tracks whether the context that owns some state is still
// around, so late asynchronous results can be dropped instead of applied.
package lifecycle

import "sync"

// Guard is alive from construction until Teardown. It does not cancel work in
// flight; it only gates the effects of that work.
type Guard struct {
	mu    sync.RWMutex
	alive bool
	done  chan struct{}
}

func New() *Guard {
	return &Guard{alive: true, done: make(chan struct{})}
}

func (g *Guard) Alive() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.alive
}

// Teardown marks the guard dead. Calls after the first are no-ops. It waits
// for any Run in progress to return.
func (g *Guard) Teardown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.alive {
		return
	}
	g.alive = false
	close(g.done)
}

// Done is closed by the first Teardown.
func (g *Guard) Done() <-chan struct{} {
	return g.done
}

// Run calls fn only if the guard is alive and holds off Teardown until fn
// returns. fn must not call Teardown. It reports whether fn ran.
func (g *Guard) Run(fn func()) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.alive {
		return false
	}
	fn()
	return true
}
