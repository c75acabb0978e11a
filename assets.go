package thicket

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"weak"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// AssetCache lazily constructs assets by id and caches them weakly: an asset
// stays cached only while something else holds a pointer to it. Once every
// holder drops it, the next Get loads it again.
//
// The id to path table is shared, not copied; ids registered after the cache
// is created are visible to it.
type AssetCache[T any] struct {
	paths   map[string]string
	load    func(path string) (*T, error)
	entries map[string]weak.Pointer[T]
}

// NewAssetCache creates a cache over paths using load to construct assets.
func NewAssetCache[T any](paths map[string]string, load func(path string) (*T, error)) *AssetCache[T] {
	if paths == nil {
		paths = make(map[string]string)
	}
	return &AssetCache[T]{
		paths:   paths,
		load:    load,
		entries: make(map[string]weak.Pointer[T]),
	}
}

// Get returns the live cached asset for id, or loads it. It returns nil for
// an unknown id or when loading fails; load failures are logged.
func (c *AssetCache[T]) Get(id string) *T {
	if wp, ok := c.entries[id]; ok {
		if v := wp.Value(); v != nil {
			return v
		}
		delete(c.entries, id)
	}
	path, ok := c.paths[id]
	if !ok {
		return nil
	}
	v, err := c.load(path)
	if err != nil {
		Logger().Error("asset cache: load failed",
			zap.String("id", id), zap.String("path", path), zap.Error(err))
		return nil
	}
	if v == nil {
		return nil
	}
	c.entries[id] = weak.Make(v)
	return v
}

// Cached reports whether a live asset is cached for id.
func (c *AssetCache[T]) Cached(id string) bool {
	wp, ok := c.entries[id]
	return ok && wp.Value() != nil
}

// Unload drops the cache entry for id. Holders keep their pointers.
func (c *AssetCache[T]) Unload(id string) {
	delete(c.entries, id)
}

// --- Asset types ---

// AssetType classifies a registered asset.
type AssetType uint8

const (
	AssetTexture AssetType = iota
	AssetMesh
	AssetShader
	AssetAudio
	AssetAnimation
)

var assetTypeNames = [...]string{
	AssetTexture:   "texture",
	AssetMesh:      "mesh",
	AssetShader:    "shader",
	AssetAudio:     "audio",
	AssetAnimation: "animation",
}

func (t AssetType) String() string {
	if int(t) < len(assetTypeNames) {
		return assetTypeNames[t]
	}
	return "unknown"
}

// ParseAssetType looks up an asset type by name, ignoring case.
func ParseAssetType(name string) (AssetType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range assetTypeNames {
		if n == name {
			return AssetType(t), true
		}
	}
	return 0, false
}

// UnmarshalYAML decodes an asset type from its name.
func (t *AssetType) UnmarshalYAML(node *yaml.Node) error {
	parsed, ok := ParseAssetType(node.Value)
	if !ok {
		return fmt.Errorf("line %d: unknown asset type %q", node.Line, node.Value)
	}
	*t = parsed
	return nil
}

// MarshalYAML encodes an asset type by name.
func (t AssetType) MarshalYAML() (any, error) {
	return t.String(), nil
}

// TextureAsset is a cached texture and the path it was loaded from. The
// texture is disposed by the AssetManager once the asset is collected, so
// hold the *TextureAsset for as long as the texture is in use.
type TextureAsset struct {
	Path    string
	Texture Texture
}

// ShaderAsset is a cached program. Path is the common stem; the sources are
// Path+".vert" and Path+".frag". Like TextureAsset, the program is disposed
// after the asset is collected.
type ShaderAsset struct {
	Path    string
	Program Program
}

// AssetEntry is one line of an asset manifest.
type AssetEntry struct {
	ID   string    `yaml:"id"`
	Path string    `yaml:"path"`
	Type AssetType `yaml:"type"`
}

type assetManifest struct {
	Assets []AssetEntry `yaml:"assets"`
}

// --- Manager ---

// AssetManager resolves asset ids to loaded resources. Textures and shaders
// share one id to path table and are cached weakly; LoadSync pins an asset
// so it survives until UnloadSync.
//
// With Watch, files changed on disk are reloaded on the next Update.
//
// GPU resources of collected assets are queued by the garbage collector and
// disposed on the frame thread during Update.
type AssetManager struct {
	device Device

	paths    map[string]string
	types    map[string]AssetType
	textures *AssetCache[TextureAsset]
	shaders  *AssetCache[ShaderAsset]
	pinned   map[string]any

	watcher  *fileWatcher
	onReload func(id string)

	releaseMu sync.Mutex
	released  []Disposer
}

// NewAssetManager creates an asset manager that uploads through device.
func NewAssetManager(device Device) *AssetManager {
	m := &AssetManager{
		device: device,
		paths:  make(map[string]string),
		types:  make(map[string]AssetType),
		pinned: make(map[string]any),
	}
	m.textures = NewAssetCache(m.paths, m.loadTexture)
	m.shaders = NewAssetCache(m.paths, m.loadShader)
	return m
}

func (m *AssetManager) loadTexture(path string) (*TextureAsset, error) {
	tex, err := LoadTexture(m.device, path)
	if err != nil {
		return nil, err
	}
	asset := &TextureAsset{Path: path, Texture: tex}
	runtime.AddCleanup(asset, m.queueRelease, Disposer(tex))
	return asset, nil
}

func (m *AssetManager) loadShader(path string) (*ShaderAsset, error) {
	if m.device == nil {
		return nil, fmt.Errorf("load shader %s: %w", path, ErrNoDevice)
	}
	dir, stem := filepath.Split(path)
	paths := ShaderPaths{Dir: dir, Vertex: stem + ".vert", Fragment: stem + ".frag"}
	vs, err := paths.read(paths.Vertex)
	if err != nil {
		return nil, err
	}
	fs, err := paths.read(paths.Fragment)
	if err != nil {
		return nil, err
	}
	prog, err := m.device.NewProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("load shader %s: %w", path, err)
	}
	asset := &ShaderAsset{Path: path, Program: prog}
	runtime.AddCleanup(asset, m.queueRelease, Disposer(prog))
	return asset, nil
}

// queueRelease runs on the cleanup goroutine.
func (m *AssetManager) queueRelease(d Disposer) {
	m.releaseMu.Lock()
	m.released = append(m.released, d)
	m.releaseMu.Unlock()
}

// disposeReleased disposes the resources of collected assets.
func (m *AssetManager) disposeReleased() int {
	m.releaseMu.Lock()
	pending := m.released
	m.released = nil
	m.releaseMu.Unlock()
	for _, d := range pending {
		d.Dispose()
	}
	return len(pending)
}

// Register maps id to path without loading anything. Re-registering an id
// replaces its path and drops any cached instance.
func (m *AssetManager) Register(id, path string, typ AssetType) {
	m.paths[id] = path
	m.types[id] = typ
	m.textures.Unload(id)
	m.shaders.Unload(id)
}

// Path returns the path registered for id.
func (m *AssetManager) Path(id string) (string, bool) {
	p, ok := m.paths[id]
	return p, ok
}

// LoadSync registers id, loads it immediately and pins it.
func (m *AssetManager) LoadSync(path string, typ AssetType, id string) error {
	m.Register(id, path, typ)
	return m.pin(id)
}

func (m *AssetManager) pin(id string) error {
	var asset any
	switch m.types[id] {
	case AssetTexture:
		if t := m.textures.Get(id); t != nil {
			asset = t
		}
	case AssetShader:
		if s := m.shaders.Get(id); s != nil {
			asset = s
		}
	default:
		return fmt.Errorf("load %s: unsupported asset type %s", id, m.types[id])
	}
	if asset == nil {
		return fmt.Errorf("load %s from %s: failed", id, m.paths[id])
	}
	m.pinned[id] = asset
	return nil
}

// UnloadSync unpins id and drops it from the caches. The id stays
// registered, so a later lookup loads it again. The GPU resource is
// disposed once no holder is left.
func (m *AssetManager) UnloadSync(id string) error {
	if _, ok := m.paths[id]; !ok {
		return fmt.Errorf("unload %s: %w", id, ErrUnknownAsset)
	}
	delete(m.pinned, id)
	m.textures.Unload(id)
	m.shaders.Unload(id)
	return nil
}

// Texture returns the texture registered under id, loading it on demand.
// It returns nil for unknown ids, non-texture ids and load failures.
func (m *AssetManager) Texture(id string) *TextureAsset {
	if typ, ok := m.types[id]; !ok || typ != AssetTexture {
		return nil
	}
	return m.textures.Get(id)
}

// Shader returns the shader registered under id, loading it on demand.
func (m *AssetManager) Shader(id string) *ShaderAsset {
	if typ, ok := m.types[id]; !ok || typ != AssetShader {
		return nil
	}
	return m.shaders.Get(id)
}

// LoadManifest registers every entry of a YAML manifest:
//
//	assets:
//	  - id: crate
//	    path: assets/crate.png
//	    type: texture
//
// Nothing is loaded until first use.
func (m *AssetManager) LoadManifest(r io.Reader) error {
	var manifest assetManifest
	if err := yaml.NewDecoder(r).Decode(&manifest); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse asset manifest: %w", err)
	}
	m.RegisterAll(manifest.Assets)
	return nil
}

// RegisterAll registers each entry. Entries without an id or path are
// skipped with a warning.
func (m *AssetManager) RegisterAll(entries []AssetEntry) {
	for _, e := range entries {
		if e.ID == "" || e.Path == "" {
			Logger().Warn("asset manager: skipping incomplete entry",
				zap.String("id", e.ID), zap.String("path", e.Path))
			continue
		}
		m.Register(e.ID, e.Path, e.Type)
	}
}

// --- Hot reload ---

// Watch reloads assets whose files change under dirs. Reloads happen on the
// frame thread during Update.
func (m *AssetManager) Watch(dirs ...string) error {
	if m.watcher != nil {
		return errors.New("asset manager: already watching")
	}
	w, err := newFileWatcher(dirs...)
	if err != nil {
		return fmt.Errorf("asset manager: watch: %w", err)
	}
	m.watcher = w
	return nil
}

// OnReload sets a callback invoked with the id of every reloaded asset.
func (m *AssetManager) OnReload(fn func(id string)) {
	m.onReload = fn
}

// Update disposes collected assets and drains pending file changes. It
// implements Service.
func (m *AssetManager) Update(dt float64) {
	m.disposeReleased()
	if m.watcher == nil {
		return
	}
	for {
		select {
		case name := <-m.watcher.Events:
			m.fileChanged(name)
		case err := <-m.watcher.Errors:
			Logger().Warn("asset manager: watch error", zap.Error(err))
		default:
			return
		}
	}
}

// fileChanged invalidates every id backed by file and re-pins the pinned
// ones.
func (m *AssetManager) fileChanged(file string) {
	for _, id := range m.idsForFile(file) {
		m.textures.Unload(id)
		m.shaders.Unload(id)
		if _, ok := m.pinned[id]; ok {
			delete(m.pinned, id)
			if err := m.pin(id); err != nil {
				Logger().Error("asset manager: reload failed", zap.String("id", id), zap.Error(err))
				continue
			}
		}
		Logger().Info("asset reloaded", zap.String("id", id), zap.String("file", file))
		if m.onReload != nil {
			m.onReload(id)
		}
	}
}

func (m *AssetManager) idsForFile(file string) []string {
	file = filepath.Clean(file)
	var ids []string
	for id, p := range m.paths {
		switch {
		case sameFile(p, file):
		case m.types[id] == AssetShader && (sameFile(p+".vert", file) || sameFile(p+".frag", file)):
		default:
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func sameFile(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// Close disposes collected assets and stops watching. Live cached assets
// are kept.
func (m *AssetManager) Close() error {
	m.disposeReleased()
	if m.watcher == nil {
		return nil
	}
	err := m.watcher.Close()
	m.watcher = nil
	return err
}
