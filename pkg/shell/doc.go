// Package shell hosts the windowed side of a lumen application: the window
// manager, the surface renderer, native menus, and the glue that pumps
// input events through component handlers and flushed documents through the
// layout engine to the screen.
//
// The layout engine, the compositor, and the platform window loop are
// opaque services behind the DocumentEngine, Presenter, and HostLoop
// interfaces. The shell owns their sequencing, not their internals.
package shell
