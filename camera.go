package thicket

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera defaults.
const (
	DefaultYaw   float32 = -90
	DefaultPitch float32 = 0

	maxPitch float32 = 89
	minZoom  float32 = 0.01
)

var worldUp = mgl32.Vec3{0, 1, 0}

// ViewProjector supplies the combined view-projection matrix for a render
// pass. Camera and its variants implement it.
type ViewProjector interface {
	ViewProjectionMatrix() mgl32.Mat4
}

// scrollAnim holds an active ScrollTo tween per axis.
type scrollAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// Camera is a free-look camera positioned in world space. Orientation is
// given by yaw and pitch in degrees; the default yaw of -90 looks down -Z.
//
// Every setter recomputes the basis, the view matrix and the view-projection
// matrix before returning, so ViewProjectionMatrix always equals
// ProjectionMatrix * ViewMatrix.
type Camera struct {
	position mgl32.Vec3
	yaw      float32
	pitch    float32

	front mgl32.Vec3
	right mgl32.Vec3
	up    mgl32.Vec3

	projection     mgl32.Mat4
	view           mgl32.Mat4
	viewProjection mgl32.Mat4

	followTarget *Entity
	followOffset mgl32.Vec3
	followLerp   float32

	scroll *scrollAnim
}

func newCamera() Camera {
	c := Camera{
		yaw:        DefaultYaw,
		pitch:      DefaultPitch,
		projection: mgl32.Ident4(),
	}
	c.updateVectors()
	return c
}

// --- Setters ---

// SetPosition moves the camera to p.
func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
	c.updateMatrices()
}

// MoveForward moves along the camera's front vector.
func (c *Camera) MoveForward(distance float32) {
	c.position = c.position.Add(c.front.Mul(distance))
	c.updateMatrices()
}

// MoveRight moves along the camera's right vector.
func (c *Camera) MoveRight(distance float32) {
	c.position = c.position.Add(c.right.Mul(distance))
	c.updateMatrices()
}

// MoveUp moves along the world up axis, independent of pitch.
func (c *Camera) MoveUp(distance float32) {
	c.position = c.position.Add(worldUp.Mul(distance))
	c.updateMatrices()
}

// SetRotation sets yaw and pitch in degrees. Pitch is clamped to [-89, 89].
func (c *Camera) SetRotation(yaw, pitch float32) {
	c.yaw = yaw
	c.pitch = mgl32.Clamp(pitch, -maxPitch, maxPitch)
	c.updateVectors()
}

// ProcessMouseMovement applies a mouse delta scaled by sensitivity: moving
// right turns right, moving down looks down.
func (c *Camera) ProcessMouseMovement(dx, dy, sensitivity float32) {
	c.SetRotation(c.yaw+dx*sensitivity, c.pitch-dy*sensitivity)
}

// --- Animation ---

// Follow makes Update track target's transform position plus offset. A lerp
// of 1 snaps; smaller values trail behind.
func (c *Camera) Follow(target *Entity, offset mgl32.Vec3, lerp float32) {
	c.followTarget = target
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the position to (x, y, z) over duration seconds. A nil
// easeFn uses linear easing.
func (c *Camera) ScrollTo(x, y, z, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	target := mgl32.Vec3{x, y, z}
	a := &scrollAnim{}
	for i := range a.tweens {
		a.tweens[i] = gween.New(c.position[i], target[i], duration, easeFn)
	}
	c.scroll = a
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scroll != nil
}

// Update advances follow and scroll animations by dt seconds.
func (c *Camera) Update(dt float32) {
	prev := c.position

	if t := c.followTarget; t != nil {
		if t.IsDestroyed() {
			c.followTarget = nil
		} else {
			goal := t.Transform().Position.Add(c.followOffset)
			c.position = c.position.Add(goal.Sub(c.position).Mul(c.followLerp))
		}
	}

	if a := c.scroll; a != nil {
		for i, tw := range a.tweens {
			if a.done[i] {
				continue
			}
			val, done := tw.Update(dt)
			c.position[i] = val
			a.done[i] = done
		}
		if a.done[0] && a.done[1] && a.done[2] {
			c.scroll = nil
		}
	}

	if c.position != prev {
		c.updateMatrices()
	}
}

// --- Getters ---

// Position returns the world position.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// Yaw returns the yaw in degrees.
func (c *Camera) Yaw() float32 { return c.yaw }

// Pitch returns the pitch in degrees.
func (c *Camera) Pitch() float32 { return c.pitch }

// Front returns the unit view direction.
func (c *Camera) Front() mgl32.Vec3 { return c.front }

// Right returns the unit right vector.
func (c *Camera) Right() mgl32.Vec3 { return c.right }

// Up returns the unit camera up vector.
func (c *Camera) Up() mgl32.Vec3 { return c.up }

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 { return c.projection }

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 { return c.view }

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() mgl32.Mat4 { return c.viewProjection }

// --- Internal ---

// updateVectors recomputes the orthonormal basis from yaw and pitch, then
// the matrices.
func (c *Camera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.yaw))
	pitch := float64(mgl32.DegToRad(c.pitch))
	front := mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}
	c.front = safeNormalize(front, mgl32.Vec3{0, 0, -1})
	c.right = safeNormalize(c.front.Cross(worldUp), mgl32.Vec3{1, 0, 0})
	c.up = safeNormalize(c.right.Cross(c.front), worldUp)
	c.updateMatrices()
}

func (c *Camera) updateMatrices() {
	c.view = mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
	c.viewProjection = c.projection.Mul4(c.view)
}

func (c *Camera) setProjection(p mgl32.Mat4) {
	c.projection = p
	c.updateMatrices()
}

// safeNormalize returns v normalized, or fallback when v is too short to
// normalize reliably.
func safeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < 0.0001 {
		return fallback
	}
	return v.Normalize()
}

// --- Perspective ---

// PerspectiveCamera is a Camera with a perspective projection.
type PerspectiveCamera struct {
	Camera

	fov, aspect, near, far float32
}

// NewPerspectiveCamera creates a perspective camera at the origin. fov is the
// vertical field of view in degrees.
func NewPerspectiveCamera(fov, aspect, near, far float32) *PerspectiveCamera {
	c := &PerspectiveCamera{Camera: newCamera()}
	c.SetPerspective(fov, aspect, near, far)
	return c
}

// SetPerspective replaces the projection parameters.
func (c *PerspectiveCamera) SetPerspective(fov, aspect, near, far float32) {
	c.fov, c.aspect, c.near, c.far = fov, aspect, near, far
	c.setProjection(mgl32.Perspective(mgl32.DegToRad(fov), aspect, near, far))
}

// FOV returns the vertical field of view in degrees.
func (c *PerspectiveCamera) FOV() float32 { return c.fov }

// Aspect returns the aspect ratio.
func (c *PerspectiveCamera) Aspect() float32 { return c.aspect }

// --- Orthographic ---

// OrthographicCamera is a Camera with an orthographic projection. Zoom
// divides the projection bounds.
type OrthographicCamera struct {
	Camera

	left, right, bottom, top, near, far float32
	zoom                                float32
}

// NewOrthographicCamera creates an orthographic camera at the origin with
// zoom 1.
func NewOrthographicCamera(left, right, bottom, top, near, far float32) *OrthographicCamera {
	c := &OrthographicCamera{Camera: newCamera(), zoom: 1}
	c.SetOrthographic(left, right, bottom, top, near, far)
	return c
}

// SetOrthographic replaces the unzoomed projection bounds.
func (c *OrthographicCamera) SetOrthographic(left, right, bottom, top, near, far float32) {
	c.left, c.right, c.bottom, c.top, c.near, c.far = left, right, bottom, top, near, far
	c.updateProjection()
}

// SetZoom sets the zoom factor, clamped to a minimum of 0.01. NaN clamps
// to the minimum too.
func (c *OrthographicCamera) SetZoom(zoom float32) {
	if !(zoom >= minZoom) {
		zoom = minZoom
	}
	c.zoom = zoom
	c.updateProjection()
}

// Zoom returns the zoom factor.
func (c *OrthographicCamera) Zoom() float32 { return c.zoom }

func (c *OrthographicCamera) updateProjection() {
	z := c.zoom
	c.setProjection(mgl32.Ortho(c.left/z, c.right/z, c.bottom/z, c.top/z, c.near, c.far))
}
