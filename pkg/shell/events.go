package shell

import "github.com/lumen-dev/lumen/pkg/markup"

// InputEvent is a user input delivered by the host loop. NodeID may be
// empty for pointer events, in which case the target is resolved by
// hit-testing the window's document.
type InputEvent struct {
	Window WindowHandle
	Type   string // event name without the "on" prefix, e.g. "click"
	NodeID string
	Key    string
	Value  string
	X, Y   float64
}

func (e InputEvent) markupEvent() markup.Event {
	return markup.Event{
		Type:  e.Type,
		Key:   e.Key,
		Value: e.Value,
		X:     e.X,
		Y:     e.Y,
	}
}
