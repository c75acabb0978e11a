package thicket

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// RendererComponent is the capability SceneRenderer looks for under the
// "renderer" name. Implementations own their GPU geometry.
type RendererComponent interface {
	Component

	// Initialize creates GPU resources. Idempotent.
	Initialize()
	// Render draws with program p and the given model matrix, initializing
	// first if needed.
	Render(p Program, model mgl32.Mat4)
	// Cleanup releases GPU resources. Safe to call more than once; a later
	// Render initializes again.
	Cleanup()
	// Initialized reports whether GPU resources are currently held.
	Initialized() bool
}

// Uniform names set by QuadRenderer.
const (
	uniformModel          = "model"
	uniformViewProjection = "viewProjection"
	uniformColour         = "colour"
	uniformUseTexture     = "useTexture"
	uniformTextureSampler = "textureSampler"
)

// QuadRenderer draws a unit quad scaled by the entity transform. The colour
// is used as a solid fill, or as a tint when the entity also carries a
// valid Texture2DComponent under "texture".
type QuadRenderer struct {
	ComponentBase

	device      Device
	mesh        Mesh
	colour      Color
	initialized bool
}

// NewQuadRenderer creates a quad renderer that allocates its mesh on device.
func NewQuadRenderer(device Device, colour Color) *QuadRenderer {
	return &QuadRenderer{device: device, colour: colour}
}

// Initialize uploads the quad mesh. Failures are logged and leave the
// renderer uninitialized, so Render stays a no-op.
func (q *QuadRenderer) Initialize() {
	if q.initialized {
		return
	}
	if q.device == nil {
		Logger().Error("quad renderer: initialize", zap.Error(ErrNoDevice))
		return
	}
	mesh, err := q.device.NewMesh(quadVertices, quadIndices)
	if err != nil {
		Logger().Error("quad renderer: initialize", zap.Error(err))
		return
	}
	q.mesh = mesh
	q.initialized = true
}

// Render draws the quad. The texture path is chosen per draw by probing the
// owner for a valid "texture" component.
func (q *QuadRenderer) Render(p Program, model mgl32.Mat4) {
	if p == nil || !p.Valid() {
		return
	}
	if !q.initialized {
		q.Initialize()
		if !q.initialized {
			return
		}
	}

	tex, ok := Sibling[*Texture2DComponent](q, ComponentTexture)
	hasTexture := ok && tex.Valid()

	p.Use()
	p.SetMat4(uniformModel, model)
	p.SetVec4(uniformColour, q.colour.Vec4())
	if hasTexture {
		p.SetInt(uniformUseTexture, 1)
		p.SetInt(uniformTextureSampler, 0)
		tex.Texture().Bind(0)
	} else {
		p.SetInt(uniformUseTexture, 0)
	}

	q.mesh.Draw()

	if hasTexture {
		tex.Texture().Unbind()
	}
}

// Cleanup releases the quad mesh.
func (q *QuadRenderer) Cleanup() {
	if q.mesh != nil {
		q.mesh.Release()
		q.mesh = nil
	}
	q.initialized = false
}

// Initialized reports whether the mesh is uploaded.
func (q *QuadRenderer) Initialized() bool {
	return q.initialized
}

// Dispose releases GPU resources when the owning entity drops the component.
func (q *QuadRenderer) Dispose() {
	q.Cleanup()
}

// SetColour sets the solid colour, or the tint for textured quads.
func (q *QuadRenderer) SetColour(c Color) {
	q.colour = c
}

// Colour returns the current colour.
func (q *QuadRenderer) Colour() Color {
	return q.colour
}
