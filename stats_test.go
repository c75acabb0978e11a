package thicket

import "testing"

func TestFrameStats(t *testing.T) {
	s := NewFrameStats()
	for range 10 {
		s.Update(0.04)
	}
	if s.Frames() != 10 {
		t.Errorf("Frames = %d, want 10", s.Frames())
	}
	if s.FPS() != 0 {
		t.Errorf("FPS = %v before the interval elapses, want 0", s.FPS())
	}
	for range 3 {
		s.Update(0.04)
	}
	if !approxEqual(float32(s.FPS()), 25, 1e-3) {
		t.Errorf("FPS = %v, want 25", s.FPS())
	}
}

func TestFrameStatsZeroInterval(t *testing.T) {
	s := &FrameStats{}
	s.Update(0.25)
	s.Update(0.25)
	if !approxEqual(float32(s.FPS()), 4, 1e-3) {
		t.Errorf("FPS = %v, want 4", s.FPS())
	}
}
