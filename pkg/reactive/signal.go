package reactive

import (
	"log/slog"
	"reflect"
	"sync"
)

// signalCore is the type-erased half of Signal and Memo: identity plus the
// subscriber set. Subscribers are deduplicated by listener ID.
type signalCore struct {
	id uint64

	subMu sync.RWMutex
	subs  []Listener
}

func (c *signalCore) subscribe(l Listener) {
	if l == nil {
		return
	}
	c.subMu.Lock()
	defer c.subMu.Unlock()

	lid := l.ID()
	for _, existing := range c.subs {
		if existing.ID() == lid {
			return
		}
	}
	c.subs = append(c.subs, l)
}

func (c *signalCore) unsubscribe(l Listener) {
	if l == nil {
		return
	}
	c.subMu.Lock()
	defer c.subMu.Unlock()

	lid := l.ID()
	for i, existing := range c.subs {
		if existing.ID() == lid {
			c.subs[i] = c.subs[len(c.subs)-1]
			c.subs = c.subs[:len(c.subs)-1]
			return
		}
	}
}

// notify marks every subscriber dirty. The subscriber list is copied before
// notification so no lock is held while listeners run. Inside a batch the
// notifications queue and fire once, deduplicated, when the batch ends.
func (c *signalCore) notify() {
	c.subMu.RLock()
	subs := make([]Listener, len(c.subs))
	copy(subs, c.subs)
	c.subMu.RUnlock()

	if batchDepth() > 0 {
		for _, sub := range subs {
			queuePending(sub)
		}
		return
	}
	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// track registers the current listener, if any, as a subscriber and reports
// the dependency edge to the listener so it can unsubscribe on re-run.
func (c *signalCore) track() {
	l := currentListener()
	if l == nil {
		return
	}
	c.subscribe(l)
	if src, ok := l.(sourceTracker); ok {
		src.addSource(c)
	}
}

// sourceTracker is implemented by listeners (effects, memos) that keep a
// reverse edge to their dependencies for re-subscription.
type sourceTracker interface {
	Listener
	addSource(*signalCore)
}

// Signal is a reactive cell. Every handle returned by UseSignal or NewSignal
// shares the same underlying cell; handles may be captured by closures that
// outlive the render that created them. Reading during a tracked computation
// subscribes the computation; writing notifies subscribers unless the new
// value equals the old one.
type Signal[T any] struct {
	core signalCore

	mu      sync.RWMutex
	value   T
	version uint64

	// owner is the scope alive when the signal was created, nil for
	// free-standing signals. Writes after the owner unmounts are dropped.
	owner *Owner

	// equal overrides the default value comparison.
	equal func(T, T) bool
}

// NewSignal creates a signal with the given initial value. If called while a
// component scope is current, writes after that scope unmounts become no-ops.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		core:  signalCore{id: nextID()},
		value: initial,
		owner: currentOwner(),
	}
}

// Get returns the current value. Called during a tracked computation it also
// subscribes the computation to future changes.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	// Tracking happens after the value lock is released; subscribing can
	// re-enter listener code.
	s.core.track()
	return value
}

// Peek returns the current value without subscribing anyone.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Version returns the change counter. It increments exactly when a write
// actually changes the value.
func (s *Signal[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Set replaces the value. Subscribers are notified only when the value
// changed under the signal's equality; redundant writes are free. Writes
// through a handle whose owning instance has unmounted are dropped with a
// warning: closures holding such handles are legal and must not crash.
func (s *Signal[T]) Set(value T) {
	if s.stale("Set") {
		return
	}
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
		s.version++
	}
	s.mu.Unlock()

	if changed {
		s.core.notify()
	}
}

// Update applies a read-modify-write atomically, with Set's notification
// semantics.
func (s *Signal[T]) Update(fn func(T) T) {
	if s.stale("Update") {
		return
	}
	s.mu.Lock()
	next := fn(s.value)
	changed := !s.equals(s.value, next)
	if changed {
		s.value = next
		s.version++
	}
	s.mu.Unlock()

	if changed {
		s.core.notify()
	}
}

// WithEquals configures a custom equality function, for values where
// reflect.DeepEqual is too expensive or has the wrong semantics.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the signal's unique identifier.
func (s *Signal[T]) ID() uint64 {
	return s.core.id
}

func (s *Signal[T]) stale(op string) bool {
	if s.owner != nil && s.owner.IsDisposed() {
		slog.Warn("lumen: write to signal of unmounted instance dropped",
			"op", op, "signal", s.core.id)
		return true
	}
	return false
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return valueEqual(a, b)
}

// valueEqual compares with == for the common scalar types and falls back to
// reflect.DeepEqual for everything else. Shared by signals, memos, and
// effect dependency fingerprints.
func valueEqual[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
