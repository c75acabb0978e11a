package thicket

import (
	"maps"
	"slices"

	"github.com/TheBitDrifter/mask"
)

// entityIDCounter is not atomic; thicket is single-threaded.
var entityIDCounter uint64

func nextEntityID() uint64 {
	entityIDCounter++
	return entityIDCounter
}

// Entity is a named scene node that owns a set of named components. Every
// entity owns a TransformComponent registered as "transform" from the moment
// it is created.
type Entity struct {
	Tree

	// Name is a display name; it does not need to be unique.
	Name string

	id         uint64
	components map[string]Component
	caps       mask.Mask
	transform  *TransformComponent
	store      EntityStore
	destroyed  bool
}

// NewEntity creates an entity with a fresh ID and an identity transform.
func NewEntity(name string) *Entity {
	e := &Entity{
		Name:       name,
		id:         nextEntityID(),
		components: make(map[string]Component, 4),
	}
	e.transform = NewTransformComponent()
	e.transform.attach(e)
	e.components[ComponentTransform] = e.transform
	e.refreshCapabilities()
	return e
}

// ID returns the entity's stable, process-unique identifier. Never 0.
func (e *Entity) ID() uint64 {
	return e.id
}

// Transform returns the entity's reserved transform component.
func (e *Entity) Transform() *TransformComponent {
	return e.transform
}

// AddComponent attaches c under name and takes ownership of it. It returns
// false, leaving the entity unchanged, when name is already in use, c is nil,
// c already belongs to an entity, or the entity has been destroyed.
func (e *Entity) AddComponent(name string, c Component) bool {
	if globalDebug {
		debugCheckDestroyed(e, "AddComponent")
	}
	if e.destroyed || isNilValue(c) {
		return false
	}
	if _, exists := e.components[name]; exists {
		return false
	}
	if !c.attach(e) {
		return false
	}
	e.components[name] = c
	e.refreshCapabilities()
	e.emit(EventComponentAdded, name)
	return true
}

// RemoveComponent disposes and erases the component registered under name.
// It returns false when no such component exists. The reserved transform
// component cannot be removed.
func (e *Entity) RemoveComponent(name string) bool {
	if globalDebug {
		debugCheckDestroyed(e, "RemoveComponent")
	}
	if name == ComponentTransform {
		return false
	}
	c, ok := e.components[name]
	if !ok {
		return false
	}
	delete(e.components, name)
	releaseComponent(c)
	e.refreshCapabilities()
	e.emit(EventComponentRemoved, name)
	return true
}

// Component returns the component registered under name.
func (e *Entity) Component(name string) (Component, bool) {
	if e == nil {
		return nil, false
	}
	c, ok := e.components[name]
	return c, ok
}

// HasComponent reports whether a component is registered under name.
func (e *Entity) HasComponent(name string) bool {
	_, ok := e.Component(name)
	return ok
}

// NumComponents returns the number of owned components, transform included.
func (e *Entity) NumComponents() int {
	return len(e.components)
}

// ComponentNames returns the registered names in sorted order.
func (e *Entity) ComponentNames() []string {
	return slices.Sorted(maps.Keys(e.components))
}

// GetComponent looks up the component registered under name on e and checks
// that it satisfies T. It returns (zero, false) if e is nil, the name is
// unused, or the stored component does not satisfy T.
func GetComponent[T any](e *Entity, name string) (T, bool) {
	var zero T
	c, ok := e.Component(name)
	if !ok {
		return zero, false
	}
	typed, ok := c.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Capabilities returns the union of capabilities of the entity and its
// components.
func (e *Entity) Capabilities() mask.Mask {
	return e.caps
}

// Supports reports whether the entity or one of its components satisfies c.
func (e *Entity) Supports(c Capability) bool {
	return e.caps.ContainsAll(CapabilityMask(c))
}

// Destroy disposes every owned component exactly once. Subsequent calls are
// no-ops. Children are not owned and are left untouched. Destroy does not
// unlink the entity from its parents; use Scene.DestroyEntity for that.
func (e *Entity) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	for _, name := range e.ComponentNames() {
		releaseComponent(e.components[name])
	}
	clear(e.components)
	e.transform = nil
	var none mask.Mask
	e.caps = none
}

// IsDestroyed reports whether Destroy has been called.
func (e *Entity) IsDestroyed() bool {
	return e.destroyed
}

func (e *Entity) refreshCapabilities() {
	caps := []Capability{CapEntity}
	for _, c := range e.components {
		caps = append(caps, capabilitiesOf(c)...)
	}
	e.caps = CapabilityMask(caps...)
}

func (e *Entity) emit(typ EntityEventType, component string) {
	if e.store == nil {
		return
	}
	e.store.EmitEvent(EntityEvent{
		Type:      typ,
		EntityID:  e.id,
		Entity:    e.Name,
		Component: component,
	})
}

// releaseComponent disposes c if it holds resources and clears its owner.
func releaseComponent(c Component) {
	if d, ok := c.(Disposer); ok {
		d.Dispose()
	}
	c.detach()
}
