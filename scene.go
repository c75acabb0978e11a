package thicket

import (
	"maps"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// SceneCamera is a camera a Scene can render with and animate.
type SceneCamera interface {
	ViewProjector
	Update(dt float32)
}

// Scene is the top-level object: it owns the entity registry, the root of
// the hierarchy, the per-frame services and the renderer.
//
// Trees hold non-owning references; the scene's registry is the only owner
// of entities. Removing an entity goes through DestroyEntity, which unlinks
// it from every parent it can reach from the root.
type Scene struct {
	// ClearColor fills the target before each render pass.
	ClearColor Color
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	root     *SceneTree
	entities map[uint64]*Entity
	device   Device
	renderer *SceneRenderer
	camera   SceneCamera
	store    EntityStore
	debug    bool

	services Services
	input    *InputManager
	assets   *AssetManager

	initTried       bool
	testRunner      *TestRunner
	screenshotQueue []string
}

// NewScene creates a scene rendering through device with the embedded
// shaders. The input and asset services are registered first, in that
// order.
func NewScene(device Device) *Scene {
	s := &Scene{
		ClearColor:    DefaultClearColor,
		ScreenshotDir: "screenshots",
		root:          NewSceneTree("root"),
		entities:      make(map[uint64]*Entity),
		device:        device,
		renderer:      NewSceneRenderer(device, DefaultShaderPaths()),
		input:         NewInputManager(nil),
		assets:        NewAssetManager(device),
	}
	s.services.Add(s.input)
	s.services.Add(s.assets)
	return s
}

// Root returns the root grouping node.
func (s *Scene) Root() *SceneTree {
	return s.root
}

// Device returns the device the scene renders through.
func (s *Scene) Device() Device {
	return s.device
}

// --- Entities ---

// NewEntity creates an entity, registers it and appends it under parent.
// A nil parent means the scene root.
func (s *Scene) NewEntity(name string, parent Node) *Entity {
	e := NewEntity(name)
	s.Adopt(e)
	if isNilNode(parent) {
		parent = s.root
	}
	parent.TreeNode().AddChild(e)
	return e
}

// Adopt registers an entity created elsewhere. It does not link it into
// the hierarchy. Returns false for nil, destroyed or already registered
// entities.
func (s *Scene) Adopt(e *Entity) bool {
	if e == nil || e.destroyed {
		return false
	}
	if _, exists := s.entities[e.id]; exists {
		return false
	}
	s.entities[e.id] = e
	e.store = s.store
	e.emit(EventEntityCreated, "")
	return true
}

// DestroyEntity unlinks e from every parent reachable from the root or from
// another registered entity, disposes its components and drops it from the
// registry. Its children are not destroyed.
func (s *Scene) DestroyEntity(e *Entity) {
	if e == nil || e.destroyed {
		return
	}
	unlink := func(t *Tree) { t.removeAll(e) }
	eachTree(&s.root.Tree, unlink)
	for _, other := range s.entities {
		if other != e {
			other.removeAll(e)
		}
	}
	e.emit(EventEntityDestroyed, "")
	e.Destroy()
	delete(s.entities, e.id)
}

// Entity returns the registered entity with the given ID.
func (s *Scene) Entity(id uint64) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// NumEntities returns the number of registered entities.
func (s *Scene) NumEntities() int {
	return len(s.entities)
}

// Entities returns every registered entity ordered by ID.
func (s *Scene) Entities() []*Entity {
	ids := slices.Sorted(maps.Keys(s.entities))
	out := make([]*Entity, len(ids))
	for i, id := range ids {
		out[i] = s.entities[id]
	}
	return out
}

// Query returns the registered entities supporting every capability in
// caps, ordered by ID.
func (s *Scene) Query(caps ...Capability) []*Entity {
	want := CapabilityMask(caps...)
	var out []*Entity
	for _, e := range s.Entities() {
		if e.caps.ContainsAll(want) {
			out = append(out, e)
		}
	}
	return out
}

// --- Services ---

// Services returns the service container.
func (s *Scene) Services() *Services {
	return &s.services
}

// AddService registers svc to be ticked by Update after the built-in
// services.
func (s *Scene) AddService(svc Service) {
	s.services.Add(svc)
}

// Input returns the scene's input manager.
func (s *Scene) Input() *InputManager {
	return s.input
}

// Assets returns the scene's asset manager.
func (s *Scene) Assets() *AssetManager {
	return s.assets
}

// --- Rendering ---

// Renderer returns the scene renderer.
func (s *Scene) Renderer() *SceneRenderer {
	return s.renderer
}

// SetRenderer replaces the scene renderer. The previous renderer is cleaned
// up.
func (s *Scene) SetRenderer(r *SceneRenderer) {
	if s.renderer != nil && s.renderer != r {
		s.renderer.Cleanup()
	}
	s.renderer = r
	s.initTried = false
	if r != nil {
		r.SetCamera(s.camera)
		r.SetDebug(s.debug)
	}
}

// SetCamera sets the camera used for rendering and ticked by Update. A
// typed nil pointer clears the camera.
func (s *Scene) SetCamera(cam SceneCamera) {
	if isNilValue(cam) {
		cam = nil
	}
	s.camera = cam
	if s.renderer != nil {
		s.renderer.SetCamera(cam)
	}
}

// Camera returns the current camera, or nil.
func (s *Scene) Camera() SceneCamera {
	return s.camera
}

// Update runs one simulation step: the test runner, every service in
// registration order, the camera, then every Updater component in entity
// ID order.
func (s *Scene) Update(dt float64) {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.services.Update(dt)
	if s.camera != nil {
		s.camera.Update(float32(dt))
	}
	for _, e := range s.Entities() {
		for _, name := range e.ComponentNames() {
			if u, ok := e.components[name].(Updater); ok {
				u.Update(dt)
			}
		}
	}
}

// Render clears the target and draws the hierarchy. The renderer is
// initialized on first use; if that fails the scene renders nothing and
// does not retry until SetRenderer is called.
func (s *Scene) Render() {
	r := s.renderer
	if r == nil {
		return
	}
	r.Clear(s.ClearColor)
	if !r.Initialized() && !s.initTried {
		s.initTried = true
		if err := r.Initialize(); err != nil {
			Logger().Warn("scene: renderer unavailable", zap.Error(err))
		}
	}
	r.Render(s.root)
}

// Draw renders into screen and writes any queued screenshots. The device
// must be an *EbitenDevice for screen to be used as the render target.
func (s *Scene) Draw(screen *ebiten.Image) {
	if d, ok := s.device.(*EbitenDevice); ok {
		d.SetTarget(screen)
		d.ResetStats()
	}
	s.Render()
	if screen != nil {
		s.flushScreenshots(screen)
	}
}

// --- Configuration ---

// SetEntityStore sets the optional event sink for entity lifecycle events
// and propagates it to every registered entity. Entities registered before
// the store was attached are replayed to it in ID order: a created event,
// then one component added event per component other than the transform.
func (s *Scene) SetEntityStore(store EntityStore) {
	if isNilValue(store) {
		store = nil
	}
	s.store = store
	for _, e := range s.Entities() {
		e.store = store
		e.emit(EventEntityCreated, "")
		for _, name := range e.ComponentNames() {
			if name != ComponentTransform {
				e.emit(EventComponentAdded, name)
			}
		}
	}
}

// SetDebugMode enables or disables debug mode. When enabled, mutating a
// destroyed entity panics, cycle and child count warnings are logged, and
// per-frame render stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if s.renderer != nil {
		s.renderer.SetDebug(enabled)
	}
}

// Close destroys every registered entity, cleans up the renderer and stops
// asset watching.
func (s *Scene) Close() error {
	for _, e := range s.Entities() {
		s.DestroyEntity(e)
	}
	if s.renderer != nil {
		s.renderer.Cleanup()
	}
	return s.assets.Close()
}
