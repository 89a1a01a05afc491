package registry

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Lazy wraps a service that is looked up on first access.
// This is useful for components built before the service they depend on is
// registered, or for deferring an expensive factory until it is needed.
//
// Get and IsResolved may be called from several goroutines provided the
// underlying Provider serializes its own lookups.
type Lazy[T any] struct {
	provider Provider
	once     sync.Once
	value    T
	found    bool
	resolved atomic.Bool
}

// NewLazy creates a new lazy lookup of T through p.
func NewLazy[T any](p Provider) *Lazy[T] {
	return &Lazy[T]{provider: p}
}

// Get resolves the service and returns it.
// The lookup happens only once; subsequent calls return the cached result,
// including a miss.
func (l *Lazy[T]) Get() (T, bool) {
	l.once.Do(func() {
		l.value, l.found = Resolve[T](l.provider)
		l.resolved.Store(true)
	})

	return l.value, l.found
}

// MustGet resolves the service and returns it, panicking if it is not available.
func (l *Lazy[T]) MustGet() T {
	value, ok := l.Get()
	if !ok {
		panic(fmt.Sprintf("lazy service %s not available", l.ID()))
	}

	return value
}

// IsResolved returns true if the lookup has happened.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// ID returns the identifier being looked up.
func (l *Lazy[T]) ID() ServiceID {
	return IDOf[T]()
}
