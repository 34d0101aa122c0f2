package reactive

// SlotKind tags the hook state stored at one call-order position. The kind
// sequence of an instance is fixed by its first render; any later render
// requesting a different kind at the same position has reordered or skipped
// a hook call.
type SlotKind uint8

const (
	SlotSignal SlotKind = iota + 1
	SlotRef
	SlotEffect
	SlotMemo
	SlotContext
	SlotCallback
)

func (k SlotKind) String() string {
	switch k {
	case SlotSignal:
		return "Signal"
	case SlotRef:
		return "Ref"
	case SlotEffect:
		return "Effect"
	case SlotMemo:
		return "Memo"
	case SlotContext:
		return "Context"
	case SlotCallback:
		return "Callback"
	default:
		return "Unknown"
	}
}

// slot is one persistent hook cell: a kind tag and the cell payload.
type slot struct {
	kind  SlotKind
	value any
}

// getOrInitSlot returns the hook cell at the current cursor position,
// creating it via init on the instance's first render. The slot sequence is
// append-only: creation is only legal while the sequence is still growing at
// its tail. A kind mismatch, an extra hook after the sequence sealed, or a
// type-parameter mismatch caught by the caller all raise *HookOrderViolation
// via panic; the scheduler recovers it and aborts this instance's render
// without touching other instances.
func (o *Owner) getOrInitSlot(kind SlotKind, init func() any) any {
	idx := o.cursor
	o.cursor++

	if idx < len(o.slots) {
		s := &o.slots[idx]
		if s.kind != kind {
			panic(&HookOrderViolation{Index: idx, Want: s.kind, Got: kind})
		}
		return s.value
	}

	if o.sealed {
		panic(&HookOrderViolation{Index: idx, Got: kind})
	}

	v := init()
	o.slots = append(o.slots, slot{kind: kind, value: v})
	return v
}

// slotValue asserts the payload type of a hook cell. A failed assertion
// means two renders disagreed about the hook at this position even though
// the kind tag matched (e.g. UseSignal[int] then UseSignal[string]).
func slotValue[V any](o *Owner, kind SlotKind, v any) V {
	typed, ok := v.(V)
	if !ok {
		panic(&HookOrderViolation{Index: o.cursor - 1, Want: kind, Got: kind})
	}
	return typed
}

// requireOwner returns the rendering instance's scope, panicking when a hook
// is called outside a component render.
func requireOwner() *Owner {
	o := currentOwner()
	if o == nil {
		panic(ErrNoOwner)
	}
	return o
}
