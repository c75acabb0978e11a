package ecs

import (
	"slices"

	"github.com/phanxgames/thicket"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EntityEventType is the Donburi event type for thicket entity lifecycle
// events. Subscribe to this in your ECS systems.
var EntityEventType = events.NewEventType[thicket.EntityEvent]()

// EntityRefData mirrors a thicket entity inside a Donburi world.
type EntityRefData struct {
	ID         uint64
	Name       string
	Components []string
}

// EntityRef is the Donburi component carried by every mirrored entity.
var EntityRef = donburi.NewComponentType[EntityRefData]()

// DonburiStore implements thicket.EntityStore on a Donburi world. Every
// event is published to EntityEventType; in addition each thicket entity is
// mirrored as a Donburi entity carrying EntityRef, so systems can query
// thicket entities with Donburi queries.
type DonburiStore struct {
	world    donburi.World
	entities map[uint64]donburi.Entity
}

var _ thicket.EntityStore = (*DonburiStore)(nil)

// NewDonburiStore creates a store backed by world. Events are consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{
		world:    world,
		entities: make(map[uint64]donburi.Entity),
	}
}

// EmitEvent updates the mirror and publishes event.
func (s *DonburiStore) EmitEvent(event thicket.EntityEvent) {
	switch event.Type {
	case thicket.EventEntityCreated:
		s.mirror(event)
	case thicket.EventEntityDestroyed:
		if de, ok := s.entities[event.EntityID]; ok {
			if s.world.Valid(de) {
				s.world.Remove(de)
			}
			delete(s.entities, event.EntityID)
		}
	case thicket.EventComponentAdded, thicket.EventComponentRemoved:
		ref := s.ref(event)
		if ref == nil {
			break
		}
		if event.Type == thicket.EventComponentAdded {
			if !slices.Contains(ref.Components, event.Component) {
				ref.Components = append(ref.Components, event.Component)
				slices.Sort(ref.Components)
			}
		} else {
			ref.Components = slices.DeleteFunc(ref.Components, func(n string) bool {
				return n == event.Component
			})
		}
	}
	EntityEventType.Publish(s.world, event)
}

// Lookup returns the Donburi entity mirroring the thicket entity id.
func (s *DonburiStore) Lookup(id uint64) (donburi.Entity, bool) {
	de, ok := s.entities[id]
	if !ok || !s.world.Valid(de) {
		return 0, false
	}
	return de, true
}

func (s *DonburiStore) mirror(event thicket.EntityEvent) {
	if _, exists := s.entities[event.EntityID]; exists {
		return
	}
	de := s.world.Create(EntityRef)
	EntityRef.SetValue(s.world.Entry(de), EntityRefData{
		ID:         event.EntityID,
		Name:       event.Entity,
		Components: []string{thicket.ComponentTransform},
	})
	s.entities[event.EntityID] = de
}

// ref returns the mirror data for the event's entity, creating the mirror
// if the entity was registered before the store was attached.
func (s *DonburiStore) ref(event thicket.EntityEvent) *EntityRefData {
	if _, ok := s.Lookup(event.EntityID); !ok {
		s.mirror(event)
	}
	de := s.entities[event.EntityID]
	if !s.world.Valid(de) {
		return nil
	}
	return EntityRef.Get(s.world.Entry(de))
}
