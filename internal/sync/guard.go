package sync

import "sync"

// scopeGuard enforces at-most-one-in-flight per scope. It is the whole
// concurrency story for the coordinator: operations on different scopes run
// freely in parallel, and overlapping writes are made safe by the message
// store's dedup-on-insert, not by locking.
type scopeGuard struct {
	mu      sync.Mutex
	running map[string]bool
}

func newScopeGuard() *scopeGuard {
	return &scopeGuard{running: map[string]bool{}}
}

// begin marks the scope Running. It reports false when the scope is already
// Running, in which case the caller must drop the trigger.
func (g *scopeGuard) begin(scope string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running[scope] {
		return false
	}
	g.running[scope] = true
	return true
}

// end returns the scope to Idle.
func (g *scopeGuard) end(scope string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, scope)
}
