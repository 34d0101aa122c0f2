package reactive

import (
	"runtime"
	"sync"
)

// trackState holds the reactive bookkeeping for one goroutine: which owner
// adopts newly created primitives, which listener is capturing dependency
// reads, and the write-batch state. Keeping it per goroutine lets several
// windows render concurrently without sharing mutable state.
type trackState struct {
	// owner adopts signals, effects, and context bindings created while set.
	owner *Owner

	// listener captures signal reads. nil means reads are untracked.
	listener Listener

	// renderDepth is > 0 while a component render is on the stack.
	renderDepth int

	// batchDepth is > 0 inside Batch. Notifications queue instead of firing.
	batchDepth int

	// pending accumulates listeners to notify when the outermost batch ends.
	pending []Listener
}

// states maps goroutine ID to its trackState.
var states sync.Map

// goroutineID extracts the current goroutine's ID from the runtime stack
// header ("goroutine <id> ..."). Implementation detail, never exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] < '0' || buf[i] > '9' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func currentState() *trackState {
	gid := goroutineID()
	if st, ok := states.Load(gid); ok {
		return st.(*trackState)
	}
	st := &trackState{}
	states.Store(gid, st)
	return st
}

func currentListener() Listener {
	return currentState().listener
}

// swapListener installs l and returns the previous listener so callers can
// defer-restore it. The push/pop discipline must hold on every exit path,
// panics included; all callers restore via defer.
func swapListener(l Listener) Listener {
	st := currentState()
	old := st.listener
	st.listener = l
	return old
}

func currentOwner() *Owner {
	return currentState().owner
}

func swapOwner(o *Owner) *Owner {
	st := currentState()
	old := st.owner
	st.owner = o
	return old
}

func beginRender() { currentState().renderDepth++ }
func endRender()   { currentState().renderDepth-- }

// inRender reports whether a component render is active on this goroutine.
// Effects created during render are deferred to the post-render phase.
func inRender() bool { return currentState().renderDepth > 0 }

// WithOwner runs fn with owner adopting any primitives it creates. Use it
// when handing work to a goroutine that must create state belonging to a
// specific component scope.
func WithOwner(owner *Owner, fn func()) {
	old := swapOwner(owner)
	defer swapOwner(old)
	fn()
}

// WithListener runs fn with l capturing every signal read made inside.
// Nested calls stack: the inner listener sees the inner reads only.
func WithListener(l Listener, fn func()) {
	old := swapListener(l)
	defer swapListener(old)
	fn()
}
