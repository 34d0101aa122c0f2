package reactive

import "sync"

// Ref is a mutable box whose contents survive re-renders without
// participating in reactivity: writing a Ref never schedules anything.
// Typical uses are layout-node handles and scroll positions.
type Ref[T any] struct {
	mu    sync.RWMutex
	value T
	set   bool
}

// NewRef creates a free-standing ref. Inside a component, use UseRef so the
// ref keeps its identity across renders.
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{value: initial}
}

// Current returns the stored value.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set stores a value. No notification is emitted.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
	r.set = true
}

// IsSet reports whether Set has been called since creation or Clear.
func (r *Ref[T]) IsSet() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.set
}

// Clear resets the ref to the zero value.
func (r *Ref[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	r.value = zero
	r.set = false
}
