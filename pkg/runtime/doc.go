// Package runtime mounts components and drives their re-renders. Each
// mounted component gets an Instance that owns a reactive scope; signal
// writes mark instances dirty through the reactive listener interface, and
// the Scheduler batches dirty instances into a flush: parents before
// children, each render isolated from its siblings' failures, effects
// deferred until every render in the batch has finished.
package runtime
