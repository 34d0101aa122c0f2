// Package markup builds the HTML document trees that components render and
// the engine consumes. Nodes are plain values assembled with element
// constructors (Div, Button, ...) and attribute helpers; event handlers
// attach to nodes and are collected by the Writer when a tree is
// serialized, keyed by generated node IDs so the shell can route input
// events back to the component that declared them.
package markup
