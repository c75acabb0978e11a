package thicket

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// WindowConfig sizes and titles the window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// ShaderConfig locates the scene shader pair on disk. An empty Dir selects
// the embedded shaders.
type ShaderConfig struct {
	Dir      string `yaml:"dir"`
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

// Config is the application configuration, usually read from YAML. Fields
// missing from the document keep their DefaultConfig values.
type Config struct {
	Window        WindowConfig `yaml:"window"`
	Shaders       ShaderConfig `yaml:"shaders"`
	Assets        []AssetEntry `yaml:"assets"`
	ClearColor    []float32    `yaml:"clearColor"`
	LogLevel      string       `yaml:"logLevel"`
	Debug         bool         `yaml:"debug"`
	ScreenshotDir string       `yaml:"screenshotDir"`
	WatchAssets   []string     `yaml:"watchAssets"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:  "thicket",
			Width:  1280,
			Height: 720,
		},
		Shaders: ShaderConfig{
			Vertex:   "scene.vert",
			Fragment: "scene.frag",
		},
		ClearColor:    []float32{DefaultClearColor.R, DefaultClearColor.G, DefaultClearColor.B, DefaultClearColor.A},
		LogLevel:      "warn",
		ScreenshotDir: "screenshots",
	}
}

// LoadConfig decodes YAML from r over DefaultConfig. An empty document
// yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads the YAML config at path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if n := len(c.ClearColor); n != 0 && n != 3 && n != 4 {
		return fmt.Errorf("config: clearColor needs 3 or 4 components, got %d", n)
	}
	return nil
}

// Clear returns ClearColor as a Color. Three components imply alpha 1; an
// empty list gives DefaultClearColor.
func (c Config) Clear() Color {
	switch len(c.ClearColor) {
	case 3:
		return Color{c.ClearColor[0], c.ClearColor[1], c.ClearColor[2], 1}
	case 4:
		return Color{c.ClearColor[0], c.ClearColor[1], c.ClearColor[2], c.ClearColor[3]}
	default:
		return DefaultClearColor
	}
}

// ShaderPaths converts the shader settings for NewSceneRenderer.
func (c Config) ShaderPaths() ShaderPaths {
	p := DefaultShaderPaths()
	if c.Shaders.Vertex != "" {
		p.Vertex = c.Shaders.Vertex
	}
	if c.Shaders.Fragment != "" {
		p.Fragment = c.Shaders.Fragment
	}
	if c.Shaders.Dir != "" {
		p.Dir = c.Shaders.Dir
		p.FS = nil
	}
	return p
}

// Apply sets the package log level and debug flag and configures scene.
func (c Config) Apply(scene *Scene) {
	SetLogLevel(c.LogLevel)
	if scene == nil {
		return
	}
	scene.ClearColor = c.Clear()
	scene.ScreenshotDir = c.ScreenshotDir
	scene.SetDebugMode(c.Debug)
	scene.Assets().RegisterAll(c.Assets)
}
