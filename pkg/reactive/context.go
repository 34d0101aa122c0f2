package reactive

// Context carries an ambient value from a providing instance to every
// descendant, resolved by nearest-provider search up the scope chain. A
// descendant providing the same context shadows it for its own subtree
// without affecting siblings, and a provider's binding disappears when the
// providing instance unmounts.
//
//	var Theme = reactive.CreateContext(ThemePalette{Primary: "#007bff"})
//
//	// ancestor render:
//	Theme.Provide(ThemePalette{Primary: "#569cd6"})
//
//	// descendant render, any depth below:
//	palette := Theme.Use()
type Context[T any] struct {
	key any
	def T
}

// contextKey makes each Context its own unique lookup key, so two contexts
// of the same value type never collide.
type contextKey[T any] struct{ ctx *Context[T] }

// CreateContext creates a context whose Use returns def when no ancestor
// provided a value.
func CreateContext[T any](def T) *Context[T] {
	c := &Context[T]{def: def}
	c.key = contextKey[T]{ctx: c}
	return c
}

// Provide binds value for the calling instance's subtree. It is a hook:
// call it unconditionally during render. Re-renders update the binding in
// place through the same slot.
func (c *Context[T]) Provide(value T) {
	o := requireOwner()
	o.getOrInitSlot(SlotContext, func() any { return c.key })
	o.setValue(c.key, value)
}

// Use returns the nearest provided value, or the context default when no
// ancestor provides one. A missing provider is an absence, never an error.
// Use performs no writes and holds no slot, so unlike other hooks it may be
// called conditionally, and from effects or event handlers.
func (c *Context[T]) Use() T {
	v, ok := c.lookup()
	if !ok {
		return c.def
	}
	return v
}

// UseOK is Use distinguishing "provided" from "defaulted".
func (c *Context[T]) UseOK() (T, bool) {
	return c.lookup()
}

// Require returns the nearest provided value, or ErrMissingProvider when
// no ancestor provides one. For consumers whose default would be wrong
// rather than merely absent.
func (c *Context[T]) Require() (T, error) {
	v, ok := c.lookup()
	if !ok {
		var zero T
		return zero, ErrMissingProvider
	}
	return v, nil
}

// Default returns the context's default value.
func (c *Context[T]) Default() T { return c.def }

func (c *Context[T]) lookup() (T, bool) {
	for o := currentOwner(); o != nil; o = o.parent {
		if o.IsDisposed() {
			continue
		}
		if v, ok := o.getValue(c.key); ok {
			typed, ok := v.(T)
			if ok {
				return typed, true
			}
		}
	}
	var zero T
	return zero, false
}

func (o *Owner) setValue(key, value any) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()
	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

func (o *Owner) getValue(key any) (any, bool) {
	o.valuesMu.RLock()
	defer o.valuesMu.RUnlock()
	if o.values == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}
