package reactive

import (
	"errors"
	"fmt"
)

// ErrMissingProvider is returned by Context.Require when no ancestor
// provided a value. Consumers that can live with the default should use
// Use or UseOK instead.
var ErrMissingProvider = errors.New("lumen: no context provider in scope")

// ErrNoOwner is raised (via panic, recovered by the scheduler) when a hook
// is called outside a component render.
var ErrNoOwner = errors.New("lumen: hook called outside component render")

// HookOrderViolation reports a hook call sequence that differs from the
// instance's first render: a different slot kind at the same position, a
// hook call past the recorded sequence, or a render that ended before
// consuming all recorded slots. It is raised by panic during render and
// converted to an error by the scheduler, aborting only the offending
// instance.
type HookOrderViolation struct {
	Index int      // slot position of the mismatch
	Want  SlotKind // kind recorded on the first render (0 if none)
	Got   SlotKind // kind requested by the current render (0 if the render ended early)
}

func (e *HookOrderViolation) Error() string {
	switch {
	case e.Want == 0:
		return fmt.Sprintf("lumen: hook order changed: extra %s hook at slot %d", e.Got, e.Index)
	case e.Got == 0:
		return fmt.Sprintf("lumen: hook order changed: render stopped before %s slot %d", e.Want, e.Index)
	default:
		return fmt.Sprintf("lumen: hook order changed at slot %d: recorded %s, got %s", e.Index, e.Want, e.Got)
	}
}
