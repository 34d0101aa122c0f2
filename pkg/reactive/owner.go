package reactive

import (
	"sync"
	"sync/atomic"
)

// Owner is the reactive scope of one component instance. It stores the
// instance's hook slots, the effects and cleanups it registered, the context
// values it provides, and its child scopes. Disposing an Owner disposes the
// whole subtree: children first (in reverse creation order), then effects
// (in slot order, running their stored cleanups exactly once), then manual
// cleanups in reverse registration order.
type Owner struct {
	id     uint64
	parent *Owner

	childrenMu sync.Mutex
	children   []*Owner

	effectsMu sync.Mutex
	effects   []*Effect

	cleanupsMu sync.Mutex
	cleanups   []func()

	// pendingEffects queue between a render pass and the post-render
	// effect phase. Populated during render, drained by the scheduler.
	pendingMu      sync.Mutex
	pendingEffects []*Effect

	// values are the context bindings this scope provides to descendants.
	valuesMu sync.RWMutex
	values   map[any]any

	disposed atomic.Bool

	// Hook slot store. Only the render goroutine touches these: render and
	// hook bookkeeping are never concurrent for one instance.
	slots  []slot
	cursor int
	// sealed flips after the first complete render; from then on the slot
	// sequence length and kinds are fixed.
	sealed bool
	// rendering is true between StartRender and EndRender/AbortRender.
	rendering bool
}

// NewOwner creates a scope under parent, or a root scope when parent is nil.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}
	if parent != nil {
		parent.addChild(o)
	}
	return o
}

// ID returns the scope's unique identifier.
func (o *Owner) ID() uint64 { return o.id }

// Parent returns the enclosing scope, nil at the root.
func (o *Owner) Parent() *Owner { return o.parent }

// IsDisposed reports whether the scope has been disposed.
func (o *Owner) IsDisposed() bool { return o.disposed.Load() }

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

func (o *Owner) registerEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}
	o.effectsMu.Lock()
	defer o.effectsMu.Unlock()
	o.effects = append(o.effects, e)
}

// OnCleanup registers fn to run when the scope is disposed. Registering on
// an already-disposed scope runs fn immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		fn()
		return
	}
	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// scheduleEffect queues an effect for the post-render phase. Disposed scopes
// drop the request: an unmounted instance's pending effects never run.
func (o *Owner) scheduleEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}
	o.pendingMu.Lock()
	defer o.pendingMu.Unlock()
	o.pendingEffects = append(o.pendingEffects, e)
}

// RunPendingEffects drains and runs this scope's queued effects, then
// recurses into child scopes. Effect panics are isolated: a failing body
// does not stop later effects, and every failure is returned to the caller.
// Signal writes made by effect bodies queue invalidations for the next
// batch; they cannot re-enter the render pass that just completed.
func (o *Owner) RunPendingEffects() []error {
	if o.disposed.Load() {
		return nil
	}

	o.pendingMu.Lock()
	effects := o.pendingEffects
	o.pendingEffects = nil
	o.pendingMu.Unlock()

	var errs []error
	for _, e := range effects {
		if !e.pending.Load() {
			continue
		}
		if err := e.run(); err != nil {
			errs = append(errs, err)
		}
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.childrenMu.Unlock()

	for _, child := range children {
		errs = append(errs, child.RunPendingEffects()...)
	}
	return errs
}

// HasPendingEffects reports whether this scope or any descendant has queued
// effects.
func (o *Owner) HasPendingEffects() bool {
	if o.disposed.Load() {
		return false
	}

	o.pendingMu.Lock()
	has := len(o.pendingEffects) > 0
	o.pendingMu.Unlock()
	if has {
		return true
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.childrenMu.Unlock()

	for _, child := range children {
		if child.HasPendingEffects() {
			return true
		}
	}
	return false
}

// Dispose tears the scope down. Idempotent. Stored effect cleanups run
// exactly once, in slot order; pending effect runs are discarded; context
// bindings vanish with the scope.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.effectsMu.Lock()
	effects := o.effects
	o.effects = nil
	o.effectsMu.Unlock()

	for _, e := range effects {
		e.dispose()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	o.pendingMu.Lock()
	o.pendingEffects = nil
	o.pendingMu.Unlock()

	o.valuesMu.Lock()
	o.values = nil
	o.valuesMu.Unlock()
}

// StartRender rewinds the slot cursor for a render of this instance and
// marks the goroutine as rendering. Always paired with EndRender.
func (o *Owner) StartRender() {
	beginRender()
	o.rendering = true
	o.cursor = 0
}

// EndRender closes a render. The first complete render seals the slot
// sequence; later renders that consumed fewer slots than recorded reordered
// or skipped a hook call and raise *HookOrderViolation.
func (o *Owner) EndRender() {
	endRender()
	o.rendering = false

	if !o.sealed {
		o.sealed = true
		return
	}
	if o.cursor < len(o.slots) {
		panic(&HookOrderViolation{Index: o.cursor, Want: o.slots[o.cursor].kind})
	}
}

// AbortRender unwinds the render-phase counter when a render panicked
// between StartRender and EndRender. Safe to call after EndRender already
// ran. Called by the scheduler's recover path.
func (o *Owner) AbortRender() {
	if o.rendering {
		endRender()
		o.rendering = false
	}
}

// SlotCount returns the number of hook slots the instance has recorded.
// Used by devtools.
func (o *Owner) SlotCount() int { return len(o.slots) }

// SlotKinds returns the kind of each hook slot in call order. Used by
// devtools to show what state a component holds.
func (o *Owner) SlotKinds() []SlotKind {
	kinds := make([]SlotKind, len(o.slots))
	for i, s := range o.slots {
		kinds[i] = s.kind
	}
	return kinds
}
