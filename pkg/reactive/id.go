package reactive

import "sync/atomic"

// idCounter feeds unique IDs to every reactive primitive.
var idCounter atomic.Uint64

// nextID returns a process-unique, monotonically increasing ID.
func nextID() uint64 {
	return idCounter.Add(1)
}
