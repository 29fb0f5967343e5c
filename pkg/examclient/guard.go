package examclient

import (
	"errors"
	"sync"
)

// ErrInFlight is returned when the same action is triggered again before
// the previous request for it has finished.
var ErrInFlight = errors.New("request already in flight")

// guard allows at most one in-flight request per action key.
type guard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func (g *guard) acquire(key string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy == nil {
		g.busy = map[string]struct{}{}
	}
	if _, ok := g.busy[key]; ok {
		return nil, ErrInFlight
	}
	g.busy[key] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.busy, key)
		g.mu.Unlock()
	}, nil
}

// Busy reports whether a request for key is currently in flight.
func (g *guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.busy[key]
	return ok
}
