package interview

import (
	"sync"

	"golang.org/x/sync/semaphore"
)

// inflightGuard allows one outstanding generation request per interview.
// A second request arriving while one is pending is dropped, not queued, so
// duplicate assistant turns can never race the same session state.
type inflightGuard struct {
	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{sems: make(map[string]*semaphore.Weighted)}
}

// tryAcquire reports whether the interview's slot was free.
func (g *inflightGuard) tryAcquire(interviewID string) bool {
	g.mu.Lock()
	sem, ok := g.sems[interviewID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		g.sems[interviewID] = sem
	}
	g.mu.Unlock()
	return sem.TryAcquire(1)
}

func (g *inflightGuard) release(interviewID string) {
	g.mu.Lock()
	sem := g.sems[interviewID]
	g.mu.Unlock()
	if sem != nil {
		sem.Release(1)
	}
}
