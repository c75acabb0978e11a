package thicket

import (
	"image/color"

	"github.com/TheBitDrifter/mask"
	"github.com/go-gl/mathgl/mgl32"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// DefaultClearColor is the color the frame is cleared to when none is configured.
var DefaultClearColor = Color{0.1, 0.1, 0.1, 1}

// ColorFrom converts any color.Color (e.g. golang.org/x/image/colornames) into
// a straight-alpha Color.
func ColorFrom(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float32(n.R) / 255,
		G: float32(n.G) / 255,
		B: float32(n.B) / 255,
		A: float32(n.A) / 255,
	}
}

// Vec4 returns the color as an mgl32.Vec4 in RGBA order.
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	return mgl32.Clamp(v, 0, 1)
}

// Reserved component names looked up by the renderer.
const (
	ComponentTransform = "transform" // always present, created with the entity
	ComponentRenderer  = "renderer"  // RendererComponent drawn by SceneRenderer
	ComponentTexture   = "texture"   // optional Texture2DComponent looked up by renderers
)

// Capability identifies a behavioral contract a node or component may satisfy.
// Capabilities are checked at the point of use, never assumed from a type.
type Capability uint32

const (
	CapEntity    Capability = iota // node is an *Entity
	CapTransform                   // *TransformComponent
	CapRenderer                    // RendererComponent
	CapTexture                     // *Texture2DComponent
	CapUpdater                     // Updater, ticked by Scene.Update
)

// String returns a readable name for the capability.
func (c Capability) String() string {
	switch c {
	case CapEntity:
		return "entity"
	case CapTransform:
		return "transform"
	case CapRenderer:
		return "renderer"
	case CapTexture:
		return "texture"
	case CapUpdater:
		return "updater"
	default:
		return "unknown"
	}
}

// CapabilityMask builds a bitmask with one bit marked per capability.
func CapabilityMask(caps ...Capability) mask.Mask {
	var m mask.Mask
	for _, c := range caps {
		m.Mark(uint32(c))
	}
	return m
}

// capabilitiesOf reports the capabilities a single component satisfies.
func capabilitiesOf(c Component) []Capability {
	var caps []Capability
	if _, ok := c.(*TransformComponent); ok {
		caps = append(caps, CapTransform)
	}
	if _, ok := c.(RendererComponent); ok {
		caps = append(caps, CapRenderer)
	}
	if _, ok := c.(*Texture2DComponent); ok {
		caps = append(caps, CapTexture)
	}
	if _, ok := c.(Updater); ok {
		caps = append(caps, CapUpdater)
	}
	return caps
}

// Supports reports whether node n satisfies capability c. A nil node supports
// nothing. Component capabilities are answered from the entity's mask; a node
// that is not an entity supports none of them.
func Supports(n Node, c Capability) bool {
	if n == nil {
		return false
	}
	e, ok := n.(*Entity)
	if !ok || e == nil {
		return false
	}
	if c == CapEntity {
		return true
	}
	return e.Supports(c)
}

// EntityEventType identifies a kind of entity lifecycle event.
type EntityEventType uint8

const (
	EventEntityCreated    EntityEventType = iota // entity registered with a scene
	EventEntityDestroyed                         // entity destroyed through its scene
	EventComponentAdded                          // AddComponent succeeded
	EventComponentRemoved                        // RemoveComponent succeeded
)

// EntityEvent carries entity lifecycle data for the ECS bridge.
type EntityEvent struct {
	Type      EntityEventType
	EntityID  uint64
	Entity    string
	Component string
}

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, entity lifecycle events are forwarded to it.
type EntityStore interface {
	EmitEvent(event EntityEvent)
}
