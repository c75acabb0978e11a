package thicket

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Program is a linked shader program. Uniform setters take GL-style names
// ("model", "viewProjection", "colour"); backends translate them as needed.
// Setters on an invalid program are no-ops.
type Program interface {
	// Use makes this the active program for subsequent mesh draws.
	Use()
	SetMat4(name string, m mgl32.Mat4)
	SetVec3(name string, v mgl32.Vec3)
	SetVec4(name string, v mgl32.Vec4)
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	Valid() bool
	// Dispose releases the compiled program. It is invalid afterwards and
	// further calls do nothing.
	Dispose()
}

// Texture is a GPU texture that can be bound to a texture unit.
type Texture interface {
	Bind(unit int)
	Unbind()
	Valid() bool
	Width() int
	Height() int
	Channels() int
	// Dispose releases the GPU memory. The texture is invalid afterwards.
	Dispose()
}

// Mesh is an uploaded vertex/index buffer pair.
type Mesh interface {
	// Draw issues one indexed draw call using the active program and the
	// textures currently bound.
	Draw()
	// Release frees the buffers. Safe to call more than once.
	Release()
}

// Device creates GPU resources and owns the active pipeline state.
type Device interface {
	NewProgram(vertexSrc, fragmentSrc []byte) (Program, error)
	NewTexture(img image.Image) (Texture, error)
	NewMesh(vertices []Vertex, indices []uint16) (Mesh, error)
	Clear(c Color)
}

// Vertex is a mesh vertex: object-space position and texture coordinate.
// Texture coordinates have their origin at the bottom-left.
type Vertex struct {
	Position mgl32.Vec3
	UV       mgl32.Vec2
}

// maxTextureUnits is the number of texture units a device exposes.
const maxTextureUnits = 4

// quadVertices is a unit quad centered on the origin.
var quadVertices = []Vertex{
	{Position: mgl32.Vec3{-0.5, -0.5, 0}, UV: mgl32.Vec2{0, 0}}, // bottom-left
	{Position: mgl32.Vec3{0.5, -0.5, 0}, UV: mgl32.Vec2{1, 0}},  // bottom-right
	{Position: mgl32.Vec3{0.5, 0.5, 0}, UV: mgl32.Vec2{1, 1}},   // top-right
	{Position: mgl32.Vec3{-0.5, 0.5, 0}, UV: mgl32.Vec2{0, 1}},  // top-left
}

// quadIndices draws the quad as two counter-clockwise triangles.
var quadIndices = []uint16{
	0, 1, 2,
	0, 2, 3,
}

// imageChannels returns the number of color channels stored by img's
// concrete type.
func imageChannels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16, *image.Alpha, *image.Alpha16:
		return 1
	case *image.YCbCr:
		return 3
	default:
		return 4
	}
}
