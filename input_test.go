package thicket

import "testing"

// stubSource is an InputSource driven directly by tests.
type stubSource struct {
	keys    map[Key]bool
	buttons map[MouseButton]bool
	x, y    float64
}

func newStubSource() *stubSource {
	return &stubSource{keys: map[Key]bool{}, buttons: map[MouseButton]bool{}}
}

func (s *stubSource) KeyPressed(k Key) bool                 { return s.keys[k] }
func (s *stubSource) MouseButtonPressed(b MouseButton) bool { return s.buttons[b] }
func (s *stubSource) CursorPosition() (float64, float64)    { return s.x, s.y }

func TestInputKeyTransitions(t *testing.T) {
	src := newStubSource()
	m := NewInputManager(src)

	src.keys[KeyW] = true
	m.Update(0)
	if !m.IsKeyPressed(KeyW) || !m.IsKeyJustPressed(KeyW) {
		t.Error("W should be pressed and just pressed")
	}

	m.Update(0)
	if !m.IsKeyPressed(KeyW) || m.IsKeyJustPressed(KeyW) {
		t.Error("W held: pressed but not just pressed")
	}

	src.keys[KeyW] = false
	m.Update(0)
	if m.IsKeyPressed(KeyW) || !m.IsKeyJustReleased(KeyW) {
		t.Error("W should be just released")
	}

	m.Update(0)
	if m.IsKeyJustReleased(KeyW) {
		t.Error("release edge lasts one frame")
	}
}

func TestInputMouseButtons(t *testing.T) {
	src := newStubSource()
	m := NewInputManager(src)

	src.buttons[MouseButtonRight] = true
	m.Update(0)
	if !m.IsMouseButtonJustPressed(MouseButtonRight) {
		t.Error("right button should be just pressed")
	}
	if m.IsMouseButtonPressed(MouseButtonLeft) {
		t.Error("left button should be up")
	}
	src.buttons[MouseButtonRight] = false
	m.Update(0)
	if !m.IsMouseButtonJustReleased(MouseButtonRight) {
		t.Error("right button should be just released")
	}
}

func TestInputCursorDelta(t *testing.T) {
	src := newStubSource()
	m := NewInputManager(src)

	src.x, src.y = 100, 50
	m.Update(0)
	if dx, dy := m.CursorDelta(); dx != 0 || dy != 0 {
		t.Errorf("first sample delta = (%v, %v), want (0, 0)", dx, dy)
	}

	src.x, src.y = 110, 45
	m.Update(0)
	if x, y := m.CursorPosition(); x != 110 || y != 45 {
		t.Errorf("position = (%v, %v), want (110, 45)", x, y)
	}
	if dx, dy := m.CursorDelta(); dx != 10 || dy != -5 {
		t.Errorf("delta = (%v, %v), want (10, -5)", dx, dy)
	}
}

func TestInputOutOfRangeIsFalse(t *testing.T) {
	m := NewInputManager(nil)
	m.Update(0)
	if m.IsKeyPressed(keyCount) || m.IsMouseButtonPressed(mouseButtonCount) {
		t.Error("out of range queries should be false")
	}
	m.InjectKey(keyCount, true)
	m.InjectMouseButton(mouseButtonCount, true)
	if m.PendingInjections() != 0 {
		t.Error("out of range injections should be dropped")
	}
}

func TestInputInjectionOnePerFrame(t *testing.T) {
	m := NewInputManager(nil)
	m.InjectKeyTap(KeySpace)
	if m.PendingInjections() != 2 {
		t.Fatalf("pending = %d, want 2", m.PendingInjections())
	}

	m.Update(0)
	if !m.IsKeyJustPressed(KeySpace) {
		t.Error("frame 1: space should be just pressed")
	}
	m.Update(0)
	if !m.IsKeyJustReleased(KeySpace) {
		t.Error("frame 2: space should be just released")
	}
	if m.PendingInjections() != 0 {
		t.Errorf("pending = %d, want 0", m.PendingInjections())
	}
}

func TestInputInjectionHeldUntilReleased(t *testing.T) {
	src := newStubSource()
	m := NewInputManager(src)
	m.InjectMouseButton(MouseButtonLeft, true)
	for range 3 {
		m.Update(0)
	}
	if !m.IsMouseButtonPressed(MouseButtonLeft) {
		t.Error("injected press should persist")
	}
	m.InjectMouseButton(MouseButtonLeft, false)
	m.Update(0)
	if m.IsMouseButtonPressed(MouseButtonLeft) {
		t.Error("injected release should clear the button")
	}

	// Real state still wins when the synthetic one is up.
	src.buttons[MouseButtonLeft] = true
	m.Update(0)
	if !m.IsMouseButtonPressed(MouseButtonLeft) {
		t.Error("device press should be visible")
	}
}

func TestInputActions(t *testing.T) {
	src := newStubSource()
	m := NewInputManager(src)
	m.BindKey("jump", KeySpace)
	m.BindMouseButton("jump", MouseButtonLeft)

	src.buttons[MouseButtonLeft] = true
	m.Update(0)
	if !m.IsActionPressed("jump") || !m.IsActionJustPressed("jump") {
		t.Error("jump should fire from the mouse binding")
	}

	src.buttons[MouseButtonLeft] = false
	src.keys[KeySpace] = true
	m.Update(0)
	if !m.IsActionPressed("jump") {
		t.Error("jump should fire from the key binding")
	}
	if !m.IsActionJustReleased("jump") {
		t.Error("mouse release should report jump just released")
	}

	m.UnbindAction("jump")
	if m.IsActionPressed("jump") {
		t.Error("unbound action should be false")
	}
	if m.IsActionPressed("missing") {
		t.Error("unknown action should be false")
	}
}

func TestInputSetSource(t *testing.T) {
	m := NewInputManager(nil)
	m.Update(0)
	src := newStubSource()
	src.keys[KeyEscape] = true
	m.SetSource(src)
	m.Update(0)
	if !m.IsKeyJustPressed(KeyEscape) {
		t.Error("new source should be sampled")
	}
}

func TestParseKeyAndButton(t *testing.T) {
	for k := Key(0); k < keyCount; k++ {
		got, ok := ParseKey(k.String())
		if !ok || got != k {
			t.Errorf("ParseKey(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if k, ok := ParseKey(" SHIFT "); !ok || k != KeyShift {
		t.Errorf("ParseKey(SHIFT) = %v, %v", k, ok)
	}
	if _, ok := ParseKey("f13"); ok {
		t.Error("unknown key should not parse")
	}
	if keyCount.String() != "unknown" {
		t.Errorf("out of range key = %q", keyCount.String())
	}

	if b, ok := ParseMouseButton("Middle"); !ok || b != MouseButtonMiddle {
		t.Errorf("ParseMouseButton(Middle) = %v, %v", b, ok)
	}
	if _, ok := ParseMouseButton("back"); ok {
		t.Error("unknown button should not parse")
	}
	if MouseButtonRight.String() != "right" {
		t.Errorf("MouseButtonRight = %q", MouseButtonRight.String())
	}
}
