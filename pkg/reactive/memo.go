package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo is a cached derived value with automatic dependency tracking. The
// computation runs lazily on Get and re-runs only after a tracked dependency
// actually changed (its version moved); redundant writes upstream never
// trigger recomputation. A Memo is itself subscribable, so derived values
// chain.
type Memo[T any] struct {
	core signalCore

	compute func() T

	valueMu sync.RWMutex
	value   T

	// valid is false until the first Get and after any dependency change.
	valid atomic.Bool

	sourcesMu sync.Mutex
	sources   []*signalCore

	equal func(T, T) bool

	// computing guards against self-referential computations.
	computing atomic.Bool
}

// NewMemo creates a memo over compute. Nothing runs until the first Get.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		core:    signalCore{id: nextID()},
		compute: compute,
	}
}

// Get returns the memo's value, recomputing first if a dependency changed
// since the last computation. Subscribes the current tracked listener.
func (m *Memo[T]) Get() T {
	m.core.track()

	if !m.valid.Load() {
		m.recompute()
	}

	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// Peek returns the value without subscribing. Still recomputes when stale.
func (m *Memo[T]) Peek() T {
	if !m.valid.Load() {
		m.recompute()
	}
	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// MarkDirty invalidates the cached value and propagates downstream. With a
// custom equality the memo recomputes immediately and propagates only when
// the new value differs under it, matching how Signal.Set suppresses
// no-change writes; without one, invalidation stays lazy and the next Get
// recomputes. Implements Listener; called when a tracked dependency
// changes.
func (m *Memo[T]) MarkDirty() {
	if !m.valid.CompareAndSwap(true, false) {
		return
	}
	if m.equal == nil {
		m.core.notify()
		return
	}

	m.valueMu.RLock()
	prev := m.value
	m.valueMu.RUnlock()

	m.recompute()
	if !m.valid.Load() {
		// Circular recompute kept the stale value; nothing to report.
		return
	}

	m.valueMu.RLock()
	next := m.value
	m.valueMu.RUnlock()
	if m.equal(prev, next) {
		return
	}
	m.core.notify()
}

// ID implements Listener.
func (m *Memo[T]) ID() uint64 { return m.core.id }

// addSource implements sourceTracker.
func (m *Memo[T]) addSource(src *signalCore) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()
	for _, s := range m.sources {
		if s == src {
			return
		}
	}
	m.sources = append(m.sources, src)
}

// WithEquals configures a custom equality for change detection. A memo
// with custom equality trades laziness for precision: a dependency change
// recomputes right away so an unchanged result never reaches subscribers.
func (m *Memo[T]) WithEquals(fn func(T, T) bool) *Memo[T] {
	m.equal = fn
	return m
}

func (m *Memo[T]) recompute() {
	if m.computing.Swap(true) {
		// Circular dependency: keep the stale value rather than recurse.
		return
	}
	defer m.computing.Store(false)

	// Drop old dependency edges; the computation records the new set.
	m.sourcesMu.Lock()
	for _, src := range m.sources {
		src.unsubscribe(m)
	}
	m.sources = m.sources[:0]
	m.sourcesMu.Unlock()

	old := swapListener(m)
	defer swapListener(old)
	next := m.compute()

	m.valueMu.Lock()
	m.value = next
	m.valueMu.Unlock()

	m.valid.Store(true)
}

var _ sourceTracker = (*Memo[int])(nil)
var _ sourceTracker = (*Effect)(nil)
