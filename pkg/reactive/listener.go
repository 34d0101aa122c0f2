package reactive

// Listener is anything that reacts to a dependency change.
// Component instances, memos, and effects all implement it.
type Listener interface {
	// MarkDirty notifies the listener that a dependency changed.
	// Component instances schedule a re-render, memos invalidate their
	// cached value, effects schedule a re-run.
	MarkDirty()

	// ID returns a unique identifier, used to deduplicate notifications
	// within a batch.
	ID() uint64
}

// Cleanup is returned by an effect body to release whatever the body
// acquired. It runs before the effect re-runs and once at unmount.
type Cleanup func()
