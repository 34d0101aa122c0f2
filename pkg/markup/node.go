package markup

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement   Kind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindComponent             // Nested component
	KindRaw                   // Raw HTML (dangerous)
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Node is a document tree node. Attrs hold rendered attributes; Handlers
// hold event callbacks and never appear in serialized output.
type Node struct {
	Kind     Kind
	Tag      string             // Element tag name (e.g., "div")
	Attrs    map[string]any     // Rendered attributes
	Handlers map[string]Handler // Event name ("click") to callback
	Children []*Node
	Key      string    // Reconciliation key
	Text     string    // For KindText and KindRaw
	Comp     Component // For KindComponent
	ID       string    // Node ID (assigned during serialization)
}

// IsInteractive reports whether this node has event handlers and needs a
// node ID for event routing.
func (n *Node) IsInteractive() bool {
	return n != nil && n.Kind == KindElement && len(n.Handlers) > 0
}

// Attr is a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty reports whether this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Handler is an event callback.
type Handler func(Event)

// EventHandler binds a named event to a callback on the node it is passed
// to.
type EventHandler struct {
	Event   string // "click", "input", etc.
	Handler Handler
}

// Component is anything that can render to a Node.
type Component interface {
	Render() *Node
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *Node
}

// Render implements Component.
func (f *FuncComponent) Render() *Node {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *Node) Component {
	return &FuncComponent{render: render}
}
