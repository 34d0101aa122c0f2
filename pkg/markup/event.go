package markup

// Event carries the payload of an input event dispatched to a handler. X
// and Y are document coordinates for pointer events; Key is set for
// keyboard events; Value is set for input and change events.
type Event struct {
	Type  string
	Key   string
	Value string
	X, Y  float64
}

// event binds an event name to a handler.
func event(name string, handler Handler) EventHandler {
	return EventHandler{Event: name, Handler: handler}
}

// Mouse events

// OnClick handles click events.
func OnClick(handler Handler) EventHandler { return event("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler Handler) EventHandler { return event("dblclick", handler) }

// OnMouseDown handles mousedown events.
func OnMouseDown(handler Handler) EventHandler { return event("mousedown", handler) }

// OnMouseUp handles mouseup events.
func OnMouseUp(handler Handler) EventHandler { return event("mouseup", handler) }

// OnMouseMove handles mousemove events.
func OnMouseMove(handler Handler) EventHandler { return event("mousemove", handler) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter(handler Handler) EventHandler { return event("mouseenter", handler) }

// OnMouseLeave handles mouseleave events.
func OnMouseLeave(handler Handler) EventHandler { return event("mouseleave", handler) }

// OnContextMenu handles contextmenu (right-click) events.
func OnContextMenu(handler Handler) EventHandler { return event("contextmenu", handler) }

// OnWheel handles wheel events.
func OnWheel(handler Handler) EventHandler { return event("wheel", handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler Handler) EventHandler { return event("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler Handler) EventHandler { return event("keyup", handler) }

// Form events

// OnInput handles input events (fired as the value changes).
func OnInput(handler Handler) EventHandler { return event("input", handler) }

// OnChange handles change events (fired when the value is committed).
func OnChange(handler Handler) EventHandler { return event("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler Handler) EventHandler { return event("submit", handler) }

// OnFocus handles focus events.
func OnFocus(handler Handler) EventHandler { return event("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler Handler) EventHandler { return event("blur", handler) }
