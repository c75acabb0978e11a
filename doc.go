// Package thicket is the entity, component and scene-graph core of a small
// real-time renderer built on [Ebitengine].
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	device := thicket.NewEbitenDevice()
//	scene := thicket.NewScene(device)
//	scene.SetCamera(thicket.NewPerspectiveCamera(45, 16.0/9, 0.1, 100))
//	// ... add entities ...
//	thicket.Run(scene, thicket.RunConfig{Title: "My Game", Width: 1280, Height: 720})
//
// # Entities and components
//
// An [Entity] is a named node that owns named components. Every entity is
// created with a [TransformComponent] under "transform". Components embed
// [ComponentBase]; a component belongs to at most one entity and learns its
// owner only when attached.
//
//	quad := scene.NewEntity("quad", nil)
//	quad.Transform().SetPosition(-4, 0, 0)
//	quad.AddComponent(thicket.ComponentRenderer, thicket.NewQuadRenderer(device, thicket.Color{R: 1, A: 1}))
//
// Retrieval is checked: [GetComponent] returns (zero, false) when the name
// is unused or the stored component has a different type.
//
// # Hierarchy
//
// Nodes embed [Tree], which holds ordered, non-owning child references.
// [Traverse] walks below a root breadth-first and calls a typed visitor for
// every matching node. The [Scene] owns entities; [Scene.DestroyEntity]
// unlinks and disposes them.
//
// # Rendering
//
// [SceneRenderer] compiles one shader program and draws every entity that
// has a transform and a [RendererComponent] under "renderer", using the
// view-projection of a [PerspectiveCamera] or [OrthographicCamera]. GPU
// resources go through the [Device] interface; [EbitenDevice] is the
// shipped backend.
//
// # Services
//
// [Scene.Update] ticks the [InputManager], the [AssetManager] and any added
// [Service] once per frame, then the camera and every [Updater] component.
// Entity lifecycle events can be bridged into a Donburi world with the
// thicket/ecs package.
//
// [Ebitengine]: https://ebitengine.org
package thicket
