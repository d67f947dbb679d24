package rep

import (
	"sync"
)

// Guarded serializes access to a Table with a mutex. Use it when one
// table must be shared across native threads, for example a host
// driving several guest instances from a worker pool. Hosts running one
// table per guest instance do not need it.
type Guarded[T any] struct {
	table Table[T]
	mu    sync.Mutex
}

// NewGuarded creates an empty mutex-guarded table.
func NewGuarded[T any]() *Guarded[T] {
	g := &Guarded[T]{}
	g.table.firstVacant = noVacant
	return g
}

// Add stores v and returns its handle.
func (g *Guarded[T]) Add(v T) Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.table.Add(v)
}

// Get returns the value stored under h.
func (g *Guarded[T]) Get(h Handle) (T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.table.Get(h)
}

// Remove vacates h and returns the value it held.
func (g *Guarded[T]) Remove(h Handle) (T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.table.Remove(h)
}

// Len returns the number of live values.
func (g *Guarded[T]) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.table.Len()
}
