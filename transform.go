package thicket

import "github.com/go-gl/mathgl/mgl32"

// TransformComponent places an entity in world space. Every entity owns one
// under the reserved name "transform".
type TransformComponent struct {
	ComponentBase

	Position mgl32.Vec3
	Scale    mgl32.Vec3
}

// NewTransformComponent returns a transform at the origin with unit scale.
func NewTransformComponent() *TransformComponent {
	return &TransformComponent{Scale: mgl32.Vec3{1, 1, 1}}
}

// --- Transform property setters ---

// SetPosition sets the world position.
func (t *TransformComponent) SetPosition(x, y, z float32) {
	t.Position = mgl32.Vec3{x, y, z}
}

// Translate offsets the world position.
func (t *TransformComponent) Translate(dx, dy, dz float32) {
	t.Position = t.Position.Add(mgl32.Vec3{dx, dy, dz})
}

// SetScale sets the per-axis scale.
func (t *TransformComponent) SetScale(sx, sy, sz float32) {
	t.Scale = mgl32.Vec3{sx, sy, sz}
}

// ModelMatrix returns Translate(Position) * Scale(Scale).
//
// No rotation is applied; renderable entities are laid out in 2D even though
// the camera is fully 3D.
func (t *TransformComponent) ModelMatrix() mgl32.Mat4 {
	return modelMatrix(t.Position, t.Scale)
}

// modelMatrix builds a column-major translation + non-uniform scale matrix.
//
//	| sx  0   0   tx |
//	| 0   sy  0   ty |
//	| 0   0   sz  tz |
//	| 0   0   0   1  |
func modelMatrix(pos, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}
