package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	lumenerrors "github.com/lumen-dev/lumen/internal/errors"
)

// Default tracer name for lumen applications.
const defaultTracerName = "lumen"

// FlushError aggregates the failures of one flush. A failing instance
// never prevents its siblings from rendering; the scheduler collects every
// error and returns them together.
type FlushError struct {
	Errors []error
}

func (e *FlushError) Error() string {
	if len(e.Errors) == 1 {
		return "flush: " + e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("flush: %d errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap supports errors.Is/As over the collected failures.
func (e *FlushError) Unwrap() []error {
	return e.Errors
}

// FlushSummary describes one completed flush, for devtools listeners.
type FlushSummary struct {
	Renders  int
	Errors   int
	Duration time.Duration
}

// Scheduler batches invalidated instances and re-renders them. Invalidate
// (via Instance.MarkDirty) is safe from any goroutine; Flush runs on the
// host loop.
type Scheduler struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *Metrics

	mu     sync.Mutex
	queue  []*Instance
	queued map[uint64]struct{}

	rootsMu sync.Mutex
	roots   []*Instance

	instMu    sync.RWMutex
	instances map[string]*Instance

	hooksMu    sync.Mutex
	flushHooks []func(FlushSummary)
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger sets the scheduler's logger.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics sink. Without it the scheduler records
// nothing.
func WithMetrics(m *Metrics) SchedulerOption {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithTracerName sets the tracer name used for flush spans. The tracer
// resolves from the global OpenTelemetry provider.
func WithTracerName(name string) SchedulerOption {
	return func(s *Scheduler) {
		s.tracer = otel.Tracer(name)
	}
}

// NewScheduler creates a Scheduler.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		logger:    slog.Default().With("component", "scheduler"),
		tracer:    otel.Tracer(defaultTracerName),
		queued:    make(map[uint64]struct{}),
		instances: make(map[string]*Instance),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount mounts component as a root instance: first render, child mounts,
// then the mount effects. The instance is live even if the first render
// failed; the error reports what went wrong.
func (s *Scheduler) Mount(component Component) (*Instance, error) {
	inst := newInstance(component, nil, s)
	s.register(inst)

	s.rootsMu.Lock()
	s.roots = append(s.roots, inst)
	s.rootsMu.Unlock()

	var errs []error
	if err := inst.render(); err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, inst.reconcileChildren()...)
	}
	errs = append(errs, inst.Owner.RunPendingEffects()...)

	if len(errs) > 0 {
		for _, err := range errs {
			s.logger.Error("mount failed", "instance", inst.InstanceID, "err", err)
		}
		return inst, &FlushError{Errors: errs}
	}
	return inst, nil
}

// Unmount disposes a root instance and its subtree.
func (s *Scheduler) Unmount(inst *Instance) {
	s.rootsMu.Lock()
	for i, r := range s.roots {
		if r == inst {
			s.roots = append(s.roots[:i], s.roots[i+1:]...)
			break
		}
	}
	s.rootsMu.Unlock()

	inst.Dispose()
}

// Roots returns the mounted root instances.
func (s *Scheduler) Roots() []*Instance {
	s.rootsMu.Lock()
	defer s.rootsMu.Unlock()
	roots := make([]*Instance, len(s.roots))
	copy(roots, s.roots)
	return roots
}

// Instances returns a snapshot of every live instance, for devtools.
func (s *Scheduler) Instances() []*Instance {
	s.instMu.RLock()
	defer s.instMu.RUnlock()
	out := make([]*Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		out = append(out, inst)
	}
	return out
}

// OnFlush registers a callback invoked after every flush with work.
func (s *Scheduler) OnFlush(fn func(FlushSummary)) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.flushHooks = append(s.flushHooks, fn)
}

// HasWork reports whether a flush would do anything: invalidated
// instances, or tracked effects queued on a root scope by a dependency
// change that dirtied no instance.
func (s *Scheduler) HasWork() bool {
	s.mu.Lock()
	queued := len(s.queue) > 0
	s.mu.Unlock()
	return queued || s.hasPendingEffects()
}

func (s *Scheduler) hasPendingEffects() bool {
	for _, root := range s.Roots() {
		if root.Owner != nil && root.Owner.HasPendingEffects() {
			return true
		}
	}
	return false
}

// enqueue records an invalidated instance, once per flush cycle.
func (s *Scheduler) enqueue(inst *Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.queued[inst.ID()]; ok {
		return
	}
	s.queued[inst.ID()] = struct{}{}
	s.queue = append(s.queue, inst)
}

func (s *Scheduler) register(inst *Instance) {
	s.instMu.Lock()
	s.instances[inst.InstanceID] = inst
	s.instMu.Unlock()
	if s.metrics != nil {
		s.metrics.InstanceMounted()
	}
}

func (s *Scheduler) unregister(inst *Instance) {
	s.instMu.Lock()
	delete(s.instances, inst.InstanceID)
	s.instMu.Unlock()
	if s.metrics != nil {
		s.metrics.InstanceDisposed()
	}
}

// Flush re-renders every invalidated instance, then runs the effects those
// renders queued. Ancestors render before descendants (dirty descendants of
// equal depth keep their invalidation order); instances invalidated by an
// ancestor's re-render in the same batch render once, not twice. A panic in
// one instance's render is logged and returned but does not stop the batch.
// Invalidations caused by effect bodies stay queued for the next flush.
func (s *Scheduler) Flush(ctx context.Context) error {
	s.mu.Lock()
	batch := s.queue
	s.queue = nil
	s.queued = make(map[uint64]struct{})
	s.mu.Unlock()

	// An empty render batch can still carry work: a tracked effect whose
	// dependency changed without dirtying any instance is queued on its
	// owner and needs the effect phase.
	if len(batch) == 0 && !s.hasPendingEffects() {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "lumen.flush",
		trace.WithAttributes(attribute.Int("lumen.dirty_count", len(batch))))
	defer span.End()

	start := time.Now()

	// Parents before children; equal depth keeps invalidation order.
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].depth < batch[j].depth
	})

	var errs []error
	renders := 0
	for _, inst := range batch {
		if inst.IsDisposed() {
			continue
		}
		// An ancestor's re-render may have remounted or cleaned this
		// instance within the same batch; the CAS also rearms MarkDirty.
		if !inst.dirty.CompareAndSwap(true, false) {
			continue
		}
		renders++
		for _, err := range s.renderInstance(ctx, inst) {
			errs = append(errs, err)
			s.logger.Error("render failed", "instance", inst.InstanceID, "err", err)
		}
	}

	effectErrs := s.runEffects(ctx)
	for _, err := range effectErrs {
		s.logger.Error("effect failed", "err", err)
	}
	errs = append(errs, effectErrs...)

	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.FlushCompleted(renders, len(errs), duration)
	}

	if len(errs) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d failures", len(errs)))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.Int("lumen.renders", renders))

	summary := FlushSummary{Renders: renders, Errors: len(errs), Duration: duration}
	s.hooksMu.Lock()
	hooks := make([]func(FlushSummary), len(s.flushHooks))
	copy(hooks, s.flushHooks)
	s.hooksMu.Unlock()
	for _, fn := range hooks {
		fn(summary)
	}

	if len(errs) > 0 {
		return &FlushError{Errors: errs}
	}
	return nil
}

func (s *Scheduler) renderInstance(ctx context.Context, inst *Instance) []error {
	_, span := s.tracer.Start(ctx, "lumen.render",
		trace.WithAttributes(attribute.String("lumen.instance", inst.InstanceID)))
	defer span.End()

	if err := inst.render(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return []error{err}
	}
	errs := inst.reconcileChildren()
	for _, err := range errs {
		span.RecordError(err)
	}
	if len(errs) > 0 {
		span.SetStatus(codes.Error, errs[0].Error())
	}
	return errs
}

// runEffects drains the post-render effect queues of every root scope.
func (s *Scheduler) runEffects(ctx context.Context) []error {
	_, span := s.tracer.Start(ctx, "lumen.effects")
	defer span.End()

	var errs []error
	for _, root := range s.Roots() {
		if root.Owner == nil {
			continue
		}
		for _, err := range root.Owner.RunPendingEffects() {
			errs = append(errs, fmt.Errorf("%w: %v", lumenerrors.New("E004"), err))
		}
	}
	if s.metrics != nil && len(errs) > 0 {
		s.metrics.EffectErrors(len(errs))
	}
	return errs
}
