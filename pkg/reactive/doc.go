// Package reactive provides the state and hooks runtime for Lumen.
//
// Components are plain functions. State that must survive re-renders lives
// in hook slots owned by the component instance, keyed by call order:
//
//	func Counter() *markup.Node {
//	    count := reactive.UseSignal(0)
//	    doubled := reactive.UseMemo(func() int { return count.Get() * 2 })
//	    reactive.UseEffect(func() {
//	        slog.Info("count changed", "doubled", doubled)
//	    }, count.Get())
//	    ...
//	}
//
// Reading a Signal during a tracked computation (a component render, a memo
// computation) subscribes the current listener automatically; writing a
// Signal marks all subscribers dirty, which the render scheduler coalesces
// into a single re-render per instance.
//
// Hooks MUST be called unconditionally and in the same order on every render
// of an instance. Violations are detected by the slot store and abort the
// offending instance's render with a *HookOrderViolation rather than
// silently corrupting hook identity.
//
// Effects never run inside the render pass that scheduled them. They queue on
// the owning scope and run in a post-render phase, with any cleanup returned
// by the previous run invoked strictly before the body re-runs, and exactly
// once more when the instance unmounts.
package reactive
