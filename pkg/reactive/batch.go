package reactive

// Batch groups signal writes so that each affected listener is notified at
// most once, after the outermost batch ends. Writes inside the batch queue
// their notifications; a listener subscribed to several written signals
// still gets a single MarkDirty and observes only the final values.
//
// Batches nest; only the outermost completion flushes.
//
//	reactive.Batch(func() {
//	    first.Set("Ada")
//	    last.Set("Lovelace")
//	})
func Batch(fn func()) {
	st := currentState()
	st.batchDepth++

	defer func() {
		st.batchDepth--
		if st.batchDepth == 0 {
			flushPending(st)
		}
	}()

	fn()
}

// Untracked runs fn with dependency tracking suspended: signal reads inside
// do not subscribe the current listener. For a single read, Peek is clearer.
func Untracked(fn func()) {
	old := swapListener(nil)
	defer swapListener(old)
	fn()
}

func batchDepth() int {
	return currentState().batchDepth
}

func queuePending(l Listener) {
	st := currentState()
	st.pending = append(st.pending, l)
}

// flushPending deduplicates queued listeners by ID and notifies each once.
func flushPending(st *trackState) {
	pending := st.pending
	st.pending = nil
	if len(pending) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(pending))
	for _, l := range pending {
		id := l.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		l.MarkDirty()
	}
}
