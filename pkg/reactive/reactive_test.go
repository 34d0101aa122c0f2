package reactive

import (
	"errors"
	"fmt"
	"sync"
)

// testListener counts MarkDirty notifications.
type testListener struct {
	id    uint64
	mu    sync.Mutex
	dirty int
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dirty++
}

func (l *testListener) ID() uint64 { return l.id }

func (l *testListener) dirtyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirty
}

// renderPass simulates one render of an instance the way the scheduler
// drives it: owner current, listener tracking, cursor rewound, hook-order
// panics converted to errors.
func renderPass(o *Owner, l Listener, body func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			o.AbortRender()
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("render panic: %v", r)
		}
	}()

	WithOwner(o, func() {
		o.StartRender()
		WithListener(l, body)
		o.EndRender()
	})
	return nil
}

// flushEffects drains the post-render effect phase for a scope tree.
func flushEffects(o *Owner) []error {
	return o.RunPendingEffects()
}

func isHookOrder(err error) bool {
	var hov *HookOrderViolation
	return errors.As(err, &hov)
}
