package runtime

import (
	"errors"
	"fmt"
	"sync/atomic"

	lumenerrors "github.com/lumen-dev/lumen/internal/errors"
	"github.com/lumen-dev/lumen/pkg/markup"
	"github.com/lumen-dev/lumen/pkg/reactive"
)

// Component is the interface for renderable components.
// Components produce markup trees that represent the UI.
type Component interface {
	// Render returns the markup tree for this component.
	Render() *markup.Node
}

// FuncComponent wraps a render function as a Component.
type FuncComponent func() *markup.Node

// Render calls the wrapped function.
func (f FuncComponent) Render() *markup.Node {
	return f()
}

// Instance is a mounted component with its state: the reactive scope its
// hooks live in, its place in the instance tree, and the markup it last
// produced.
type Instance struct {
	// InstanceID is the unique instance identifier.
	InstanceID string

	// Component is the component being rendered.
	Component Component

	// Owner is the reactive scope for this instance's hooks and effects.
	Owner *reactive.Owner

	// Parent is the parent instance (nil for a root).
	Parent *Instance

	depth int

	// dirty indicates the instance needs re-rendering.
	dirty    atomic.Bool
	disposed atomic.Bool

	sched *Scheduler

	// lastTree is the markup produced by the most recent successful render.
	lastTree *markup.Node

	// children are the mounted child instances, aligned one-to-one with the
	// component nodes of lastTree in document order.
	children []*childMount
}

type childMount struct {
	key  string
	inst *Instance
}

var _ reactive.Listener = (*Instance)(nil)

var instanceIDCounter atomic.Uint64

func generateInstanceID() string {
	return fmt.Sprintf("c%d", instanceIDCounter.Add(1))
}

func newInstance(component Component, parent *Instance, sched *Scheduler) *Instance {
	var parentOwner *reactive.Owner
	depth := 0
	if parent != nil {
		parentOwner = parent.Owner
		depth = parent.depth + 1
	}
	return &Instance{
		InstanceID: generateInstanceID(),
		Component:  component,
		Owner:      reactive.NewOwner(parentOwner),
		Parent:     parent,
		depth:      depth,
		sched:      sched,
	}
}

// render runs the component under its scope with dependency tracking and
// hook slot discipline. A panic (including a hook order violation) becomes
// an error and leaves the previous tree in place.
func (c *Instance) render() (err error) {
	if c.Component == nil || c.disposed.Load() {
		return nil
	}

	var tree *markup.Node
	defer func() {
		if r := recover(); r != nil {
			c.Owner.AbortRender()
			err = fmt.Errorf("render %s: %w: %v", c.InstanceID, renderCode(r), r)
		}
	}()

	reactive.WithOwner(c.Owner, func() {
		c.Owner.StartRender()
		reactive.WithListener(c, func() {
			tree = c.Component.Render()
		})
		c.Owner.EndRender()
	})

	c.lastTree = tree
	return nil
}

// renderCode classifies a recovered render panic into its registered
// error code: hook order violations, hooks called outside a render scope,
// and everything else a component body can throw.
func renderCode(r any) error {
	if _, ok := r.(*reactive.HookOrderViolation); ok {
		return lumenerrors.New("E002")
	}
	if err, ok := r.(error); ok && errors.Is(err, reactive.ErrNoOwner) {
		return lumenerrors.New("E001")
	}
	return lumenerrors.New("E040")
}

// MarkDirty implements reactive.Listener. It is safe to call from any
// goroutine; the first call until the next flush wins.
func (c *Instance) MarkDirty() {
	if c.disposed.Load() {
		return
	}
	if c.dirty.CompareAndSwap(false, true) {
		if c.sched != nil {
			c.sched.enqueue(c)
		}
	}
}

// ID implements reactive.Listener.
func (c *Instance) ID() uint64 {
	if c.Owner != nil {
		return c.Owner.ID()
	}
	return 0
}

// IsDirty reports whether the instance has a pending re-render.
func (c *Instance) IsDirty() bool {
	return c.dirty.Load()
}

// Depth returns the instance's distance from its root.
func (c *Instance) Depth() int { return c.depth }

// LastTree returns the markup of the most recent successful render, with
// child component nodes unexpanded.
func (c *Instance) LastTree() *markup.Node {
	return c.lastTree
}

// Expanded returns the instance's markup with every child component node
// replaced by that child's own expanded markup. This is the document the
// engine consumes.
func (c *Instance) Expanded() *markup.Node {
	next := 0
	return c.expandNode(c.lastTree, &next)
}

func (c *Instance) expandNode(node *markup.Node, next *int) *markup.Node {
	if node == nil {
		return nil
	}
	if node.Kind == markup.KindComponent {
		if *next < len(c.children) {
			child := c.children[*next]
			*next++
			return child.inst.Expanded()
		}
		*next++
		return nil
	}
	if len(node.Children) == 0 {
		return node
	}
	out := *node
	out.Children = make([]*markup.Node, 0, len(node.Children))
	for _, child := range node.Children {
		if expanded := c.expandNode(child, next); expanded != nil {
			out.Children = append(out.Children, expanded)
		}
	}
	return &out
}

// componentNodes collects the component nodes of a tree in document order.
// Component nodes are leaves of the parent's tree; their contents belong to
// the child instance.
func componentNodes(node *markup.Node, out []*markup.Node) []*markup.Node {
	if node == nil {
		return out
	}
	if node.Kind == markup.KindComponent {
		return append(out, node)
	}
	for _, child := range node.Children {
		out = componentNodes(child, out)
	}
	return out
}

// reconcileChildren pairs the component nodes of the new tree with existing
// child instances. Keyed nodes match any previous child with the same key;
// unkeyed nodes match by position. Matched children keep their state;
// unmatched nodes mount fresh instances (rendered immediately); previous
// children with no match unmount.
func (c *Instance) reconcileChildren() []error {
	nodes := componentNodes(c.lastTree, nil)

	prev := c.children
	used := make([]bool, len(prev))
	next := make([]*childMount, 0, len(nodes))

	var errs []error
	for i, node := range nodes {
		var match *childMount
		if node.Key != "" {
			for j, old := range prev {
				if !used[j] && old.key == node.Key {
					match = old
					used[j] = true
					break
				}
			}
		} else if i < len(prev) && !used[i] && prev[i].key == "" {
			match = prev[i]
			used[i] = true
		}

		if match != nil {
			match.inst.Component = node.Comp
			next = append(next, match)
			continue
		}

		child := newInstance(node.Comp, c, c.sched)
		if c.sched != nil {
			c.sched.register(child)
		}
		if err := child.render(); err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, child.reconcileChildren()...)
		}
		next = append(next, &childMount{key: node.Key, inst: child})
	}

	// Dispose only after the new child list is in place: Dispose reaches
	// back through Parent.removeChild, and prev aliases c.children, so
	// disposing mid-scan would shift the entries still being ranged over.
	var unmounted []*Instance
	for j, old := range prev {
		if !used[j] {
			unmounted = append(unmounted, old.inst)
		}
	}
	c.children = next
	for _, inst := range unmounted {
		inst.Dispose()
	}
	return errs
}

// Dispose unmounts the instance and its subtree. Effect cleanups run
// exactly once through the owner; pending renders and effects are dropped.
func (c *Instance) Dispose() {
	if c.disposed.Swap(true) {
		return
	}

	for i := len(c.children) - 1; i >= 0; i-- {
		c.children[i].inst.Dispose()
	}
	c.children = nil

	if c.Owner != nil {
		c.Owner.Dispose()
	}
	if c.sched != nil {
		c.sched.unregister(c)
	}
	if c.Parent != nil {
		c.Parent.removeChild(c)
	}

	c.Component = nil
	c.lastTree = nil
}

// IsDisposed reports whether the instance has been unmounted.
func (c *Instance) IsDisposed() bool {
	return c.disposed.Load()
}

func (c *Instance) removeChild(child *Instance) {
	for i, m := range c.children {
		if m.inst == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}
