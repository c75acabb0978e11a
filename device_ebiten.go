package thicket

import (
	"errors"
	"fmt"
	"image"
	"unicode"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// ErrNoTarget is returned by drawing operations when the device has no
// target image.
var ErrNoTarget = errors.New("thicket: device has no target image")

// EbitenDevice implements Device on top of Ebitengine.
//
// Kage has no programmable vertex stage, so the device runs the vertex stage
// on the CPU: each mesh vertex is transformed by the active program's
// "viewProjection" and "model" uniforms, mapped from NDC to target pixels,
// and shaded by the Kage program with the remaining uniforms. The vertex
// source passed to NewProgram is the Kage prelude (package clause and shared
// uniform declarations); the fragment source supplies Fragment.
type EbitenDevice struct {
	target  *ebiten.Image
	program *ebitenProgram
	units   [maxTextureUnits]*ebitenTexture

	drawCalls int
}

// NewEbitenDevice creates a device. Call SetTarget before drawing.
func NewEbitenDevice() *EbitenDevice {
	return &EbitenDevice{}
}

// SetTarget sets the image subsequent draws and clears render into.
func (d *EbitenDevice) SetTarget(img *ebiten.Image) {
	d.target = img
}

// Target returns the current target image.
func (d *EbitenDevice) Target() *ebiten.Image {
	return d.target
}

// DrawCalls returns the number of mesh draws issued since the last call to
// ResetStats.
func (d *EbitenDevice) DrawCalls() int {
	return d.drawCalls
}

// ResetStats zeroes the draw-call counter.
func (d *EbitenDevice) ResetStats() {
	d.drawCalls = 0
}

// NewProgram compiles vertexSrc followed by fragmentSrc as one Kage program.
func (d *EbitenDevice) NewProgram(vertexSrc, fragmentSrc []byte) (Program, error) {
	if len(fragmentSrc) == 0 {
		return nil, fmt.Errorf("compile program: %w", ErrShaderSource)
	}
	src := make([]byte, 0, len(vertexSrc)+len(fragmentSrc)+1)
	src = append(src, vertexSrc...)
	src = append(src, '\n')
	src = append(src, fragmentSrc...)
	shader, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("compile program: %w", err)
	}
	return &ebitenProgram{
		device:   d,
		shader:   shader,
		mat4s:    map[string]mgl32.Mat4{},
		uniforms: map[string]any{},
	}, nil
}

// NewTexture uploads img as a texture.
func (d *EbitenDevice) NewTexture(img image.Image) (Texture, error) {
	if img == nil {
		return nil, errors.New("upload texture: nil image")
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("upload texture: empty image %dx%d", b.Dx(), b.Dy())
	}
	return &ebitenTexture{
		device:   d,
		img:      ebiten.NewImageFromImage(img),
		width:    b.Dx(),
		height:   b.Dy(),
		channels: imageChannels(img),
	}, nil
}

// NewMesh copies the vertex and index data into a mesh.
func (d *EbitenDevice) NewMesh(vertices []Vertex, indices []uint16) (Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, errors.New("create mesh: no geometry")
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return nil, fmt.Errorf("create mesh: index %d out of range (%d vertices)", i, len(vertices))
		}
	}
	return &ebitenMesh{
		device:   d,
		vertices: append([]Vertex(nil), vertices...),
		indices:  append([]uint16(nil), indices...),
		buf:      make([]ebiten.Vertex, len(vertices)),
	}, nil
}

// Clear fills the target with c.
func (d *EbitenDevice) Clear(c Color) {
	if d.target == nil {
		return
	}
	d.target.Fill(c.toRGBA())
}

// --- Program ---

type ebitenProgram struct {
	device   *EbitenDevice
	shader   *ebiten.Shader
	mat4s    map[string]mgl32.Mat4 // kept for the CPU vertex stage
	uniforms map[string]any        // passed to Kage, keyed by exported name
}

func (p *ebitenProgram) Use() {
	if !p.Valid() {
		return
	}
	p.device.program = p
}

func (p *ebitenProgram) Valid() bool {
	return p != nil && p.shader != nil
}

func (p *ebitenProgram) Dispose() {
	if !p.Valid() {
		return
	}
	if p.device != nil && p.device.program == p {
		p.device.program = nil
	}
	p.shader.Deallocate()
	p.shader = nil
}

func (p *ebitenProgram) SetMat4(name string, m mgl32.Mat4) {
	if !p.Valid() {
		return
	}
	p.mat4s[name] = m
	p.uniforms[kageUniformName(name)] = m[:]
}

func (p *ebitenProgram) SetVec3(name string, v mgl32.Vec3) {
	if !p.Valid() {
		return
	}
	p.uniforms[kageUniformName(name)] = []float32{v[0], v[1], v[2]}
}

func (p *ebitenProgram) SetVec4(name string, v mgl32.Vec4) {
	if !p.Valid() {
		return
	}
	p.uniforms[kageUniformName(name)] = []float32{v[0], v[1], v[2], v[3]}
}

func (p *ebitenProgram) SetInt(name string, v int32) {
	if !p.Valid() {
		return
	}
	p.uniforms[kageUniformName(name)] = v
}

func (p *ebitenProgram) SetFloat(name string, v float32) {
	if !p.Valid() {
		return
	}
	p.uniforms[kageUniformName(name)] = v
}

// mat4 returns the named matrix, or identity if it was never set.
func (p *ebitenProgram) mat4(name string) mgl32.Mat4 {
	if m, ok := p.mat4s[name]; ok {
		return m
	}
	return mgl32.Ident4()
}

// kageUniformName exports a GL-style uniform name, since Kage only exposes
// uniforms whose names start with an upper-case letter.
func kageUniformName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// --- Texture ---

type ebitenTexture struct {
	device   *EbitenDevice
	img      *ebiten.Image
	width    int
	height   int
	channels int
}

func (t *ebitenTexture) Bind(unit int) {
	if !t.Valid() || unit < 0 || unit >= maxTextureUnits {
		return
	}
	t.device.units[unit] = t
}

func (t *ebitenTexture) Unbind() {
	for i, bound := range t.device.units {
		if bound == t {
			t.device.units[i] = nil
		}
	}
}

func (t *ebitenTexture) Valid() bool   { return t != nil && t.img != nil }
func (t *ebitenTexture) Width() int    { return t.width }
func (t *ebitenTexture) Height() int   { return t.height }
func (t *ebitenTexture) Channels() int { return t.channels }

func (t *ebitenTexture) Dispose() {
	if t.img == nil {
		return
	}
	t.Unbind()
	t.img.Deallocate()
	t.img = nil
}

// --- Mesh ---

type ebitenMesh struct {
	device   *EbitenDevice
	vertices []Vertex
	indices  []uint16
	buf      []ebiten.Vertex // reused per draw
	released bool
}

func (m *ebitenMesh) Draw() {
	d := m.device
	p := d.program
	if m.released || p == nil || d.target == nil {
		return
	}
	b := d.target.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())

	mvp := p.mat4("viewProjection").Mul4(p.mat4("model"))

	var tw, th float32
	tex := d.units[0]
	if tex != nil {
		tw, th = float32(tex.width), float32(tex.height)
	}

	for i, v := range m.vertices {
		x, y := projectVertex(mvp, v.Position, w, h)
		m.buf[i] = ebiten.Vertex{
			DstX:   x + float32(b.Min.X),
			DstY:   y + float32(b.Min.Y),
			SrcX:   v.UV.X() * tw,
			SrcY:   (1 - v.UV.Y()) * th,
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		}
	}

	opts := &ebiten.DrawTrianglesShaderOptions{Uniforms: p.uniforms}
	if tex != nil {
		opts.Images[0] = tex.img
	}
	d.target.DrawTrianglesShader(m.buf, m.indices, p.shader, opts)
	d.drawCalls++
}

func (m *ebitenMesh) Release() {
	m.released = true
	m.vertices = nil
	m.indices = nil
	m.buf = nil
}

// projectVertex applies mvp to pos and maps the resulting NDC coordinates to
// a w×h pixel target with its origin at the top-left.
func projectVertex(mvp mgl32.Mat4, pos mgl32.Vec3, w, h float32) (x, y float32) {
	clip := mvp.Mul4x1(pos.Vec4(1))
	cw := clip.W()
	if cw == 0 {
		cw = 1
	}
	return ndcToPixel(clip.X()/cw, clip.Y()/cw, w, h)
}

// ndcToPixel maps normalized device coordinates in [-1, 1] to pixels.
// NDC y points up; pixel y points down.
func ndcToPixel(nx, ny, w, h float32) (x, y float32) {
	return (nx + 1) * 0.5 * w, (1 - ny) * 0.5 * h
}
