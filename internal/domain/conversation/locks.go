package conversation

import "sync"

// turnGuard admits at most one in-flight turn per project. Admission is
// non-blocking: a second caller fails immediately instead of queueing behind
// a slow generation.
type turnGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newTurnGuard() *turnGuard {
	return &turnGuard{active: make(map[string]struct{})}
}

// tryAcquire claims the project for a turn. It returns a release func and
// true on success, or nil and false when a turn is already running.
func (g *turnGuard) tryAcquire(projectID string) (func(), bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[projectID]; busy {
		return nil, false
	}
	g.active[projectID] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, projectID)
			g.mu.Unlock()
		})
	}
	return release, true
}
