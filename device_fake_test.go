package thicket

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// fakeDevice records every resource it creates and every draw it receives.
type fakeDevice struct {
	programs []*fakeProgram
	textures []*fakeTexture
	meshes   []*fakeMesh
	clears   []Color

	active *fakeProgram
	units  [maxTextureUnits]*fakeTexture
	draws  []fakeDraw

	programErr error
	meshErr    error
}

// fakeDraw is a snapshot of pipeline state at one Mesh.Draw.
type fakeDraw struct {
	mesh     *fakeMesh
	program  *fakeProgram
	mat4s    map[string]mgl32.Mat4
	vec4s    map[string]mgl32.Vec4
	ints     map[string]int32
	texture  *fakeTexture
	sequence int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{}
}

func (d *fakeDevice) NewProgram(vs, fs []byte) (Program, error) {
	if d.programErr != nil {
		return nil, d.programErr
	}
	if len(fs) == 0 {
		return nil, ErrShaderSource
	}
	p := &fakeProgram{
		device: d,
		vs:     string(vs),
		fs:     string(fs),
		mat4s:  map[string]mgl32.Mat4{},
		vec3s:  map[string]mgl32.Vec3{},
		vec4s:  map[string]mgl32.Vec4{},
		ints:   map[string]int32{},
		floats: map[string]float32{},
	}
	d.programs = append(d.programs, p)
	return p, nil
}

func (d *fakeDevice) NewTexture(img image.Image) (Texture, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	b := img.Bounds()
	t := &fakeTexture{device: d, width: b.Dx(), height: b.Dy(), channels: imageChannels(img), valid: true}
	d.textures = append(d.textures, t)
	return t, nil
}

func (d *fakeDevice) NewMesh(vertices []Vertex, indices []uint16) (Mesh, error) {
	if d.meshErr != nil {
		return nil, d.meshErr
	}
	m := &fakeMesh{device: d, vertices: len(vertices), indices: len(indices)}
	d.meshes = append(d.meshes, m)
	return m, nil
}

func (d *fakeDevice) Clear(c Color) {
	d.clears = append(d.clears, c)
}

type fakeProgram struct {
	device   *fakeDevice
	vs, fs   string
	mat4s    map[string]mgl32.Mat4
	vec3s    map[string]mgl32.Vec3
	vec4s    map[string]mgl32.Vec4
	ints     map[string]int32
	floats   map[string]float32
	uses     int
	disposed int
}

func (p *fakeProgram) Use()                              { p.uses++; p.device.active = p }
func (p *fakeProgram) SetMat4(name string, m mgl32.Mat4) { p.mat4s[name] = m }
func (p *fakeProgram) SetVec3(name string, v mgl32.Vec3) { p.vec3s[name] = v }
func (p *fakeProgram) SetVec4(name string, v mgl32.Vec4) { p.vec4s[name] = v }
func (p *fakeProgram) SetInt(name string, v int32)       { p.ints[name] = v }
func (p *fakeProgram) SetFloat(name string, v float32)   { p.floats[name] = v }
func (p *fakeProgram) Valid() bool                       { return p.disposed == 0 }
func (p *fakeProgram) Dispose()                          { p.disposed++ }

type fakeTexture struct {
	device                  *fakeDevice
	width, height, channels int
	valid                   bool
	disposed                int
}

func (t *fakeTexture) Bind(unit int) {
	if unit >= 0 && unit < maxTextureUnits {
		t.device.units[unit] = t
	}
}

func (t *fakeTexture) Unbind() {
	for i, b := range t.device.units {
		if b == t {
			t.device.units[i] = nil
		}
	}
}

func (t *fakeTexture) Valid() bool   { return t.valid }
func (t *fakeTexture) Width() int    { return t.width }
func (t *fakeTexture) Height() int   { return t.height }
func (t *fakeTexture) Channels() int { return t.channels }
func (t *fakeTexture) Dispose()      { t.disposed++; t.valid = false }

type fakeMesh struct {
	device            *fakeDevice
	vertices, indices int
	released          int
}

func (m *fakeMesh) Draw() {
	d := m.device
	p := d.active
	draw := fakeDraw{mesh: m, program: p, texture: d.units[0], sequence: len(d.draws)}
	if p != nil {
		draw.mat4s = maps.Clone(p.mat4s)
		draw.vec4s = maps.Clone(p.vec4s)
		draw.ints = maps.Clone(p.ints)
	}
	d.draws = append(d.draws, draw)
}

func (m *fakeMesh) Release() { m.released++ }

// --- helpers shared by tests ---

const matEpsilon = 1e-5

func assertMat4Near(t *testing.T, name string, got, want mgl32.Mat4) {
	t.Helper()
	if !got.ApproxEqualThreshold(want, matEpsilon) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec3Near(t *testing.T, name string, got, want mgl32.Vec3) {
	t.Helper()
	if !got.ApproxEqualThreshold(want, matEpsilon) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// writeTestPNG writes a w×h opaque PNG into dir and returns its path.
func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range w * h {
		img.Set(i%w, i/w, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeTestShaders writes name.vert and name.frag into dir.
func writeTestShaders(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".vert"), []byte("//kage:unit pixels\npackage main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".frag"), []byte("func Fragment() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}
