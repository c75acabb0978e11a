// Package ecs bridges thicket entity lifecycle events into a [Donburi]
// world.
//
// [NewDonburiStore] publishes every [thicket.EntityEvent] (entity created or
// destroyed, component added or removed) as a typed Donburi event and keeps
// a mirror entity carrying [EntityRef] for each live thicket entity.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
