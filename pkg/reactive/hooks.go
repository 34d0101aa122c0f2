package reactive

// Hook entry points. Each resolves against the rendering instance's slot
// store at the current call-order position, so hook calls must be
// unconditional and identically ordered on every render of an instance.

// UseSignal returns a signal whose identity is stable across renders of the
// calling instance. The initial value is used on the first render only.
func UseSignal[T any](initial T) *Signal[T] {
	o := requireOwner()
	v := o.getOrInitSlot(SlotSignal, func() any { return NewSignal(initial) })
	return slotValue[*Signal[T]](o, SlotSignal, v)
}

// UseSignalFunc is UseSignal for initial values that are expensive to build:
// init runs on the first render only.
func UseSignalFunc[T any](init func() T) *Signal[T] {
	o := requireOwner()
	v := o.getOrInitSlot(SlotSignal, func() any { return NewSignal(init()) })
	return slotValue[*Signal[T]](o, SlotSignal, v)
}

// UseState returns the current value and a setter, backed by a persistent
// signal. Reading through UseState subscribes the rendering instance, so a
// set re-renders it.
func UseState[T any](initial T) (T, func(T)) {
	sig := UseSignal(initial)
	return sig.Get(), sig.Set
}

// UseRef returns a render-stable mutable box. Writing it never re-renders.
func UseRef[T any](initial T) *Ref[T] {
	o := requireOwner()
	v := o.getOrInitSlot(SlotRef, func() any { return NewRef(initial) })
	return slotValue[*Ref[T]](o, SlotRef, v)
}

// UseEffect schedules body for the post-render phase when the dependency
// fingerprint differs from the previous run's (compared by value equality),
// or on the instance's first render. With no deps the body runs once, on
// mount. The body runs after the render pass settles, never inside it.
func UseEffect(body func(), deps ...any) {
	UseEffectCleanup(func() Cleanup {
		body()
		return nil
	}, deps...)
}

// UseEffectCleanup is UseEffect for bodies that acquire something: the
// returned cleanup runs strictly before the next body run and exactly once
// at unmount.
func UseEffectCleanup(body func() Cleanup, deps ...any) {
	o := requireOwner()
	v := o.getOrInitSlot(SlotEffect, func() any {
		e := &Effect{id: nextID(), owner: o}
		o.registerEffect(e)
		return e
	})
	e := slotValue[*Effect](o, SlotEffect, v)

	// Latest closure wins, so the run sees this render's captures.
	e.body = body

	if !e.ran || !depsEqual(e.deps, deps) {
		e.schedule(deps)
	}
}

// OnMount runs body once, after the instance's first render.
func OnMount(body func()) {
	UseEffect(body)
}

// OnMountCleanup is OnMount with a cleanup that runs at unmount.
func OnMountCleanup(body func() Cleanup) {
	UseEffectCleanup(body)
}

// UseDerived returns a render-stable memo over compute. Dependencies are
// tracked automatically from the signal reads compute performs; the memo
// recomputes only after one of them changes.
func UseDerived[T any](compute func() T) *Memo[T] {
	o := requireOwner()
	v := o.getOrInitSlot(SlotMemo, func() any { return NewMemo(compute) })
	m := slotValue[*Memo[T]](o, SlotMemo, v)
	m.compute = compute
	return m
}

// UseMemo returns the current value of a derived computation, subscribing
// the rendering instance so a dependency change re-renders it.
func UseMemo[T any](compute func() T) T {
	return UseDerived(compute).Get()
}

// UseCallback returns a render-stable function. The stored function is
// replaced only when the dependency fingerprint changes, so descendants
// handed the callback keep a stable identity between unrelated renders.
func UseCallback[F any](fn F, deps ...any) F {
	o := requireOwner()
	v := o.getOrInitSlot(SlotCallback, func() any {
		return &callbackCell{fn: fn, deps: deps}
	})
	cell := slotValue[*callbackCell](o, SlotCallback, v)

	if !depsEqual(cell.deps, deps) {
		cell.fn = fn
		cell.deps = deps
	}
	return slotValue[F](o, SlotCallback, cell.fn)
}

type callbackCell struct {
	fn   any
	deps []any
}
