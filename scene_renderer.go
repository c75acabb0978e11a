package thicket

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// ShaderPaths locates the scene shader pair. Sources are read from FS when
// set, otherwise from the OS file system.
type ShaderPaths struct {
	Dir      string
	Vertex   string
	Fragment string
	FS       fs.FS
}

// DefaultShaderPaths returns the embedded scene shaders.
func DefaultShaderPaths() ShaderPaths {
	return ShaderPaths{
		Dir:      "shaders/",
		Vertex:   "scene.vert",
		Fragment: "scene.frag",
		FS:       Shaders,
	}
}

func (p ShaderPaths) read(name string) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if p.FS != nil {
		b, err = fs.ReadFile(p.FS, path.Join(p.Dir, name))
	} else {
		b, err = os.ReadFile(filepath.Join(p.Dir, name))
	}
	if err != nil {
		return nil, fmt.Errorf("read shader %s: %w", name, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("read shader %s: %w", name, ErrShaderSource)
	}
	return b, nil
}

// SceneRenderer draws every renderable entity under a root node with one
// shader program and the view-projection of a camera.
//
// An entity is renderable when it has a transform and a RendererComponent
// registered as "renderer". Everything else is walked past silently.
type SceneRenderer struct {
	device      Device
	paths       ShaderPaths
	program     Program
	camera      ViewProjector
	initialized bool

	debug     bool
	lastStats renderStats
}

// NewSceneRenderer creates an uninitialized renderer. Call Initialize once a
// device context exists.
func NewSceneRenderer(device Device, paths ShaderPaths) *SceneRenderer {
	return &SceneRenderer{device: device, paths: paths}
}

// Initialize loads and compiles the shader program. It is idempotent. On
// failure the error is logged and returned, and the renderer stays
// uninitialized so Render remains a no-op.
func (r *SceneRenderer) Initialize() error {
	if r.initialized {
		return nil
	}
	if err := r.compile(); err != nil {
		Logger().Error("scene renderer: initialize failed",
			zap.String("vertex", r.paths.Vertex),
			zap.String("fragment", r.paths.Fragment),
			zap.Error(err))
		return err
	}
	r.initialized = true
	return nil
}

func (r *SceneRenderer) compile() error {
	if r.device == nil {
		return fmt.Errorf("scene renderer: %w", ErrNoDevice)
	}
	vs, err := r.paths.read(r.paths.Vertex)
	if err != nil {
		return err
	}
	fsrc, err := r.paths.read(r.paths.Fragment)
	if err != nil {
		return err
	}
	prog, err := r.device.NewProgram(vs, fsrc)
	if err != nil {
		return err
	}
	r.program = prog
	return nil
}

// Initialized reports whether the shader program is ready.
func (r *SceneRenderer) Initialized() bool {
	return r.initialized
}

// SetShaderPaths changes where shaders are loaded from. An initialized
// renderer recompiles immediately and disposes the replaced program; on
// failure it keeps the previous program.
func (r *SceneRenderer) SetShaderPaths(paths ShaderPaths) error {
	r.paths = paths
	if !r.initialized {
		return nil
	}
	prev := r.program
	if err := r.compile(); err != nil {
		r.program = prev
		Logger().Error("scene renderer: reload shaders failed", zap.Error(err))
		return err
	}
	if prev != nil && prev != r.program {
		prev.Dispose()
	}
	return nil
}

// Cleanup disposes the shader program and returns the renderer to the
// uninitialized state. Calling it again does nothing.
func (r *SceneRenderer) Cleanup() {
	if r.program != nil {
		r.program.Dispose()
		r.program = nil
	}
	r.initialized = false
}

// ShaderPaths returns the configured shader locations.
func (r *SceneRenderer) ShaderPaths() ShaderPaths {
	return r.paths
}

// SetCamera sets the camera used by Render. The renderer does not own it.
// A typed nil pointer is stored as no camera.
func (r *SceneRenderer) SetCamera(cam ViewProjector) {
	if isNilValue(cam) {
		cam = nil
	}
	r.camera = cam
}

// Camera returns the current camera, or nil.
func (r *SceneRenderer) Camera() ViewProjector {
	return r.camera
}

// Program returns the compiled program, or nil before Initialize succeeds.
func (r *SceneRenderer) Program() Program {
	return r.program
}

// Clear fills the render target with c.
func (r *SceneRenderer) Clear(c Color) {
	if r.device == nil {
		return
	}
	r.device.Clear(c)
}

// SetDebug turns per-frame stats logging on or off.
func (r *SceneRenderer) SetDebug(enabled bool) {
	r.debug = enabled
}

// Render draws every renderable entity below root breadth-first. It does
// nothing unless the renderer is initialized, a camera is set and root is
// non-nil. The tree must not be modified while Render runs.
func (r *SceneRenderer) Render(root Node) {
	if !r.initialized || r.camera == nil || isNilNode(root) {
		return
	}
	if r.program == nil || !r.program.Valid() {
		return
	}

	var stats renderStats
	var t0 time.Time
	if r.debug {
		t0 = time.Now()
	}

	r.program.Use()
	r.program.SetMat4(uniformViewProjection, r.camera.ViewProjectionMatrix())

	Traverse(root, func(e *Entity) {
		stats.entitiesVisited++
		t := e.Transform()
		if t == nil {
			return
		}
		rc, ok := GetComponent[RendererComponent](e, ComponentRenderer)
		if !ok {
			return
		}
		rc.Render(r.program, t.ModelMatrix())
		stats.drawCalls++
	})

	if r.debug {
		stats.traverseTime = time.Since(t0)
		stats.debugLog()
	}
	r.lastStats = stats
}
