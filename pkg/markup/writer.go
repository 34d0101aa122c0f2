package markup

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

// Writer serializes a Node tree to HTML. Interactive elements get a
// generated node ID written as data-node-id, and their handlers are
// collected into a registry the caller can use to route input events.
// A Writer is reused across frames; call Reset between documents so IDs
// stay aligned with the handler registry.
type Writer struct {
	idCounter uint32
	handlers  map[string]Handler
}

// NewWriter creates a Writer with an empty handler registry.
func NewWriter() *Writer {
	return &Writer{handlers: make(map[string]Handler)}
}

// String serializes a Node tree to a complete HTML string.
func (wr *Writer) String(node *Node) (string, error) {
	var buf bytes.Buffer
	if err := wr.WriteTo(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteTo streams a Node tree to the given writer.
func (wr *Writer) WriteTo(w io.Writer, node *Node) error {
	return wr.writeNode(w, node)
}

// Handlers returns the handler registry collected during serialization.
// The map keys are in the format "id_event" (e.g., "n1_click").
func (wr *Writer) Handlers() map[string]Handler {
	return wr.handlers
}

// Lookup returns the handler for a node ID and event name.
func (wr *Writer) Lookup(id, event string) (Handler, bool) {
	h, ok := wr.handlers[id+"_"+event]
	return h, ok
}

// Reset clears the ID counter and handler registry for reuse.
func (wr *Writer) Reset() {
	wr.idCounter = 0
	wr.handlers = make(map[string]Handler)
}

func (wr *Writer) writeNode(w io.Writer, node *Node) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case KindElement:
		return wr.writeElement(w, node)
	case KindText:
		_, err := io.WriteString(w, escapeHTML(node.Text))
		return err
	case KindFragment:
		for _, child := range node.Children {
			if err := wr.writeNode(w, child); err != nil {
				return err
			}
		}
		return nil
	case KindComponent:
		// Component nodes are expanded by the runtime before serialization,
		// each under its own hook scope. Rendering one here would run its
		// body with no scope at all.
		return fmt.Errorf("unexpanded component node (key %q)", node.Key)
	case KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

func (wr *Writer) writeElement(w io.Writer, node *Node) error {
	if _, err := fmt.Fprintf(w, "<%s", node.Tag); err != nil {
		return err
	}
	if err := wr.writeAttributes(w, node); err != nil {
		return err
	}

	if node.IsInteractive() {
		id := wr.nextID()
		node.ID = id
		if _, err := fmt.Fprintf(w, ` data-node-id="%s"`, id); err != nil {
			return err
		}
		for event, handler := range node.Handlers {
			wr.handlers[id+"_"+event] = handler
		}
	}

	if IsVoidElement(node.Tag) {
		_, err := io.WriteString(w, ">")
		return err
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := wr.writeNode(w, child); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "</%s>", node.Tag)
	return err
}

func (wr *Writer) writeAttributes(w io.Writer, node *Node) error {
	if len(node.Attrs) == 0 {
		return nil
	}

	// Sort keys for deterministic output.
	keys := make([]string, 0, len(node.Attrs))
	for key := range node.Attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Attrs[key]

		if isBooleanAttr(key) {
			if boolValue, ok := value.(bool); ok {
				if boolValue {
					if _, err := fmt.Fprintf(w, " %s", key); err != nil {
						return err
					}
				}
				continue
			}
		}

		strValue := attrToString(value)
		if strValue == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(strValue)); err != nil {
			return err
		}
	}
	return nil
}

func (wr *Writer) nextID() string {
	wr.idCounter++
	return fmt.Sprintf("n%d", wr.idCounter)
}

func attrToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
