package thicket

// Component is an attachable unit of data or behavior owned by exactly one
// Entity at a time. Implementations embed ComponentBase, which supplies the
// owner back-reference and the unexported attach hooks.
type Component interface {
	// Owner returns the entity this component is attached to, or nil.
	// The reference is an observation link only; it never controls lifetime.
	Owner() *Entity

	attach(e *Entity) bool
	detach()
}

// Disposer is implemented by components that hold resources which must be
// released when their owning entity removes or destroys them.
type Disposer interface {
	Dispose()
}

// Updater is implemented by components that want a per-frame tick from
// Scene.Update.
type Updater interface {
	Update(dt float64)
}

// ComponentBase carries the owner back-reference. Embed it in every
// component type.
type ComponentBase struct {
	owner *Entity
}

// Owner returns the owning entity, or nil if the component is detached.
func (b *ComponentBase) Owner() *Entity {
	return b.owner
}

// attach records the owner. Only succeeds while the component is unowned,
// so a component can never be shared between two entities.
func (b *ComponentBase) attach(e *Entity) bool {
	if b.owner != nil || e == nil {
		return false
	}
	b.owner = e
	return true
}

func (b *ComponentBase) detach() {
	b.owner = nil
}

// Sibling looks up another component on c's owner by name and checks that it
// satisfies T. Returns (zero, false) when c is detached, the name is unused,
// or the stored component has a different capability.
func Sibling[T any](c Component, name string) (T, bool) {
	if c == nil {
		var zero T
		return zero, false
	}
	return GetComponent[T](c.Owner(), name)
}
