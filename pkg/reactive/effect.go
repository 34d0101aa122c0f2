package reactive

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Effect is a side effect tied to a dependency set. Two flavors exist:
//
//   - Hook effects (UseEffect, UseEffectCleanup, OnMount) carry an explicit
//     dependency fingerprint. At render time the fingerprint is compared by
//     value equality against the previous run's; unchanged means skip,
//     changed or first render means a deferred re-run.
//   - Tracked effects (NewEffect) capture dependencies automatically from
//     the signal reads their body performs, and re-run when any of them
//     change.
//
// In both flavors the cleanup returned by the previous run executes strictly
// before the body re-runs, and exactly once at unmount if the effect never
// re-ran. Effect bodies never execute inside a render pass; they run in the
// scheduler's post-render phase.
type Effect struct {
	id    uint64
	owner *Owner

	// body is refreshed every render for hook effects so the latest
	// closure (and its captured props) runs.
	body    func() Cleanup
	cleanup Cleanup

	// tracked selects automatic dependency capture over fingerprints.
	tracked bool

	// deps is the fingerprint of the last run; staged holds the fingerprint
	// recorded by the render that scheduled the next run.
	deps   []any
	staged []any
	ran    bool

	sourcesMu sync.Mutex
	sources   []*signalCore

	pending  atomic.Bool
	disposed atomic.Bool
}

// NewEffect creates a tracked effect owned by the current scope. Outside a
// render it runs immediately; during a render the first run is deferred to
// the post-render phase like every other effect execution.
func NewEffect(body func() Cleanup) *Effect {
	e := &Effect{
		id:      nextID(),
		owner:   currentOwner(),
		body:    body,
		tracked: true,
	}
	if e.owner != nil {
		e.owner.registerEffect(e)
	}

	if inRender() && e.owner != nil {
		e.pending.Store(true)
		e.owner.scheduleEffect(e)
	} else {
		e.pending.Store(true)
		_ = e.run()
	}
	return e
}

// MarkDirty schedules a tracked effect to re-run. Ownerless effects (created
// outside any component scope) have no post-render phase to defer to and
// re-run immediately. Implements Listener.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.pending.CompareAndSwap(false, true) {
		if e.owner != nil {
			e.owner.scheduleEffect(e)
		} else {
			_ = e.run()
		}
	}
}

// ID implements Listener.
func (e *Effect) ID() uint64 { return e.id }

// schedule queues a hook effect whose fingerprint changed (or that never
// ran). The new fingerprint is staged and committed when the run starts, so
// a panicking body is not retried forever.
func (e *Effect) schedule(deps []any) {
	e.staged = deps
	if e.pending.CompareAndSwap(false, true) && e.owner != nil {
		e.owner.scheduleEffect(e)
	}
}

// run executes cleanup-then-body. Panics become errors so one failing effect
// cannot corrupt unrelated instances; the scheduler aggregates them.
func (e *Effect) run() (err error) {
	if e.disposed.Load() {
		return nil
	}
	e.pending.Store(false)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lumen: effect %d panicked: %v", e.id, r)
		}
	}()

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	if e.tracked {
		e.resubscribe()
		return err
	}

	e.deps = e.staged
	e.staged = nil
	e.ran = true

	// Hook effect bodies read signals without subscribing; their re-run
	// condition is the fingerprint alone.
	old := swapListener(nil)
	defer swapListener(old)
	e.cleanup = e.body()
	return err
}

// resubscribe drops the previous run's dependency edges and runs the body
// with tracking active, capturing the new dependency set.
func (e *Effect) resubscribe() {
	e.sourcesMu.Lock()
	for _, src := range e.sources {
		src.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	old := swapListener(e)
	defer swapListener(old)
	e.cleanup = e.body()
}

// addSource records a dependency edge. Called from signal reads while this
// effect is the current listener.
func (e *Effect) addSource(src *signalCore) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	for _, s := range e.sources {
		if s == src {
			return
		}
	}
	e.sources = append(e.sources, src)
}

// dispose runs the stored cleanup once and severs all dependency edges.
func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, src := range e.sources {
		src.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// depsEqual compares two dependency fingerprints element-wise by value
// equality. Length mismatch is a change (and, for hook effects, usually a
// hook-order bug the slot store reports separately).
func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valueEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// OnUnmount registers fn to run when the current scope is disposed.
func OnUnmount(fn func()) {
	if o := currentOwner(); o != nil {
		o.OnCleanup(fn)
	}
}
