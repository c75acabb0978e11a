package thicket

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig holds optional configuration for Run.
type RunConfig struct {
	// Title sets the window title.
	Title string
	// Width and Height set the window size and logical screen size.
	Width, Height int
	// ShowFPS registers a FrameStats service that logs FPS and TPS.
	ShowFPS bool
	// ExitOnEscape ends the loop when Escape is pressed.
	ExitOnEscape bool
}

// RunConfigFrom builds a RunConfig from the window section of cfg.
func RunConfigFrom(cfg Config) RunConfig {
	return RunConfig{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	}
}

// Run is a convenience entry point that creates a window and runs the
// frame loop: scene.Update with a fixed step of 1/TPS, then scene.Draw.
// Input is read from Ebitengine. Run blocks until the window closes.
func Run(scene *Scene, cfg RunConfig) error {
	if scene == nil {
		return errors.New("thicket: run: nil scene")
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 480
	}
	ebiten.SetWindowSize(w, h)

	scene.Input().SetSource(EbitenInputSource{})
	if cfg.ShowFPS {
		scene.AddService(NewFrameStats())
	}

	err := ebiten.RunGame(&gameShell{scene: scene, cfg: cfg, width: w, height: h})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// gameShell wraps a Scene to satisfy ebiten.Game.
type gameShell struct {
	scene         *Scene
	cfg           RunConfig
	width, height int
}

func (g *gameShell) Update() error {
	g.scene.Update(1.0 / float64(ebiten.TPS()))
	if g.cfg.ExitOnEscape && g.scene.Input().IsKeyJustPressed(KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *gameShell) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
