package thicket

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// FrameStats measures frame timing. Every Interval seconds it recomputes
// the frame rate and logs it at info level alongside Ebitengine's measured
// FPS and TPS.
type FrameStats struct {
	// Interval is the reporting period in seconds. Zero means 0.5.
	Interval float64

	elapsed float64
	frames  int
	fps     float64
	total   int
}

// NewFrameStats creates a stats service reporting every half second.
func NewFrameStats() *FrameStats {
	return &FrameStats{Interval: 0.5}
}

// Update implements Service.
func (s *FrameStats) Update(dt float64) {
	s.total++
	s.frames++
	s.elapsed += dt

	interval := s.Interval
	if interval <= 0 {
		interval = 0.5
	}
	if s.elapsed < interval {
		return
	}
	s.fps = float64(s.frames) / s.elapsed
	s.frames = 0
	s.elapsed = 0

	Logger().Info("frame stats",
		zap.Float64("fps", s.fps),
		zap.Float64("actualFPS", ebiten.ActualFPS()),
		zap.Float64("actualTPS", ebiten.ActualTPS()),
	)
}

// FPS returns the frame rate measured over the last complete interval.
func (s *FrameStats) FPS() float64 {
	return s.fps
}

// Frames returns the number of updates seen.
func (s *FrameStats) Frames() int {
	return s.total
}
