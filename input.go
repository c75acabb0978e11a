package thicket

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Key identifies a keyboard key tracked by InputManager.
type Key uint8

const (
	KeyA Key = iota
	KeyS
	KeyD
	KeyW
	KeyQ
	KeyE
	KeySpace
	KeyShift
	KeyEscape
	KeyEnter
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	keyCount
)

var keyNames = [keyCount]string{
	KeyA: "a", KeyS: "s", KeyD: "d", KeyW: "w", KeyQ: "q", KeyE: "e",
	KeySpace: "space", KeyShift: "shift", KeyEscape: "escape", KeyEnter: "enter",
	KeyUp: "up", KeyDown: "down", KeyLeft: "left", KeyRight: "right",
}

// String returns the lower-case key name.
func (k Key) String() string {
	if k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// ParseKey looks up a key by its String name, ignoring case.
func ParseKey(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return Key(k), true
		}
	}
	return 0, false
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle

	mouseButtonCount
)

var mouseButtonNames = [mouseButtonCount]string{
	MouseButtonLeft: "left", MouseButtonRight: "right", MouseButtonMiddle: "middle",
}

// String returns the lower-case button name.
func (b MouseButton) String() string {
	if b >= mouseButtonCount {
		return "unknown"
	}
	return mouseButtonNames[b]
}

// ParseMouseButton looks up a button by its String name, ignoring case.
func ParseMouseButton(name string) (MouseButton, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for b, n := range mouseButtonNames {
		if n == name {
			return MouseButton(b), true
		}
	}
	return 0, false
}

// InputSource reports the raw device state sampled once per frame.
type InputSource interface {
	KeyPressed(k Key) bool
	MouseButtonPressed(b MouseButton) bool
	CursorPosition() (x, y float64)
}

// EbitenInputSource reads input from Ebitengine.
type EbitenInputSource struct{}

var ebitenKeys = [keyCount][]ebiten.Key{
	KeyA:      {ebiten.KeyA},
	KeyS:      {ebiten.KeyS},
	KeyD:      {ebiten.KeyD},
	KeyW:      {ebiten.KeyW},
	KeyQ:      {ebiten.KeyQ},
	KeyE:      {ebiten.KeyE},
	KeySpace:  {ebiten.KeySpace},
	KeyShift:  {ebiten.KeyShift, ebiten.KeyShiftLeft, ebiten.KeyShiftRight},
	KeyEscape: {ebiten.KeyEscape},
	KeyEnter:  {ebiten.KeyEnter, ebiten.KeyNumpadEnter},
	KeyUp:     {ebiten.KeyArrowUp},
	KeyDown:   {ebiten.KeyArrowDown},
	KeyLeft:   {ebiten.KeyArrowLeft},
	KeyRight:  {ebiten.KeyArrowRight},
}

var ebitenMouseButtons = [mouseButtonCount]ebiten.MouseButton{
	MouseButtonLeft:   ebiten.MouseButtonLeft,
	MouseButtonRight:  ebiten.MouseButtonRight,
	MouseButtonMiddle: ebiten.MouseButtonMiddle,
}

func (EbitenInputSource) KeyPressed(k Key) bool {
	if k >= keyCount {
		return false
	}
	for _, ek := range ebitenKeys[k] {
		if ebiten.IsKeyPressed(ek) {
			return true
		}
	}
	return false
}

func (EbitenInputSource) MouseButtonPressed(b MouseButton) bool {
	if b >= mouseButtonCount {
		return false
	}
	return ebiten.IsMouseButtonPressed(ebitenMouseButtons[b])
}

func (EbitenInputSource) CursorPosition() (x, y float64) {
	cx, cy := ebiten.CursorPosition()
	return float64(cx), float64(cy)
}

// syntheticInputEvent is one injected key or button transition.
type syntheticInputEvent struct {
	key     Key
	button  MouseButton
	isMouse bool
	pressed bool
}

type binding struct {
	key     Key
	button  MouseButton
	isMouse bool
}

// InputManager samples an InputSource once per frame and answers pressed,
// just-pressed and just-released queries against that snapshot. Named
// actions can be bound to keys and mouse buttons.
//
// Synthetic transitions queued with InjectKey and InjectMouseButton are
// applied one per Update, on top of the real device state. A nil source
// makes the manager purely synthetic.
type InputManager struct {
	source InputSource

	keys, prevKeys       [keyCount]bool
	buttons, prevButtons [mouseButtonCount]bool
	heldKeys             [keyCount]bool
	heldButtons          [mouseButtonCount]bool

	cursorX, cursorY float64
	deltaX, deltaY   float64
	sampled          bool

	bindings    map[string][]binding
	injectQueue []syntheticInputEvent
}

// NewInputManager creates a manager reading from source, which may be nil.
func NewInputManager(source InputSource) *InputManager {
	return &InputManager{
		source:   source,
		bindings: make(map[string][]binding),
	}
}

// SetSource replaces the device source.
func (m *InputManager) SetSource(source InputSource) {
	m.source = source
}

// Update takes a new snapshot. It implements Service.
func (m *InputManager) Update(dt float64) {
	m.prevKeys = m.keys
	m.prevButtons = m.buttons

	if len(m.injectQueue) > 0 {
		evt := m.injectQueue[0]
		copy(m.injectQueue, m.injectQueue[1:])
		m.injectQueue = m.injectQueue[:len(m.injectQueue)-1]
		if evt.isMouse {
			m.heldButtons[evt.button] = evt.pressed
		} else {
			m.heldKeys[evt.key] = evt.pressed
		}
	}

	for k := range m.keys {
		m.keys[k] = m.heldKeys[k] || (m.source != nil && m.source.KeyPressed(Key(k)))
	}
	for b := range m.buttons {
		m.buttons[b] = m.heldButtons[b] || (m.source != nil && m.source.MouseButtonPressed(MouseButton(b)))
	}

	if m.source != nil {
		x, y := m.source.CursorPosition()
		if m.sampled {
			m.deltaX, m.deltaY = x-m.cursorX, y-m.cursorY
		}
		m.cursorX, m.cursorY = x, y
		m.sampled = true
	}
}

// --- Keys ---

// IsKeyPressed reports whether k is down this frame.
func (m *InputManager) IsKeyPressed(k Key) bool {
	return k < keyCount && m.keys[k]
}

// IsKeyJustPressed reports whether k went down this frame.
func (m *InputManager) IsKeyJustPressed(k Key) bool {
	return k < keyCount && m.keys[k] && !m.prevKeys[k]
}

// IsKeyJustReleased reports whether k went up this frame.
func (m *InputManager) IsKeyJustReleased(k Key) bool {
	return k < keyCount && !m.keys[k] && m.prevKeys[k]
}

// --- Mouse ---

// IsMouseButtonPressed reports whether b is down this frame.
func (m *InputManager) IsMouseButtonPressed(b MouseButton) bool {
	return b < mouseButtonCount && m.buttons[b]
}

// IsMouseButtonJustPressed reports whether b went down this frame.
func (m *InputManager) IsMouseButtonJustPressed(b MouseButton) bool {
	return b < mouseButtonCount && m.buttons[b] && !m.prevButtons[b]
}

// IsMouseButtonJustReleased reports whether b went up this frame.
func (m *InputManager) IsMouseButtonJustReleased(b MouseButton) bool {
	return b < mouseButtonCount && !m.buttons[b] && m.prevButtons[b]
}

// CursorPosition returns the cursor position in window pixels.
func (m *InputManager) CursorPosition() (x, y float64) {
	return m.cursorX, m.cursorY
}

// CursorDelta returns how far the cursor moved since the previous frame.
func (m *InputManager) CursorDelta() (dx, dy float64) {
	return m.deltaX, m.deltaY
}

// --- Actions ---

// BindKey adds k as a trigger for action.
func (m *InputManager) BindKey(action string, k Key) {
	m.bindings[action] = append(m.bindings[action], binding{key: k})
}

// BindMouseButton adds b as a trigger for action.
func (m *InputManager) BindMouseButton(action string, b MouseButton) {
	m.bindings[action] = append(m.bindings[action], binding{button: b, isMouse: true})
}

// UnbindAction removes every trigger for action.
func (m *InputManager) UnbindAction(action string) {
	delete(m.bindings, action)
}

// IsActionPressed reports whether any trigger of action is down.
func (m *InputManager) IsActionPressed(action string) bool {
	return m.anyBinding(action, m.IsKeyPressed, m.IsMouseButtonPressed)
}

// IsActionJustPressed reports whether any trigger of action went down this
// frame.
func (m *InputManager) IsActionJustPressed(action string) bool {
	return m.anyBinding(action, m.IsKeyJustPressed, m.IsMouseButtonJustPressed)
}

// IsActionJustReleased reports whether any trigger of action went up this
// frame.
func (m *InputManager) IsActionJustReleased(action string) bool {
	return m.anyBinding(action, m.IsKeyJustReleased, m.IsMouseButtonJustReleased)
}

func (m *InputManager) anyBinding(action string, key func(Key) bool, button func(MouseButton) bool) bool {
	for _, b := range m.bindings[action] {
		if b.isMouse {
			if button(b.button) {
				return true
			}
		} else if key(b.key) {
			return true
		}
	}
	return false
}

// --- Injection ---

// InjectKey queues a synthetic key transition, applied on a later Update.
func (m *InputManager) InjectKey(k Key, pressed bool) {
	if k >= keyCount {
		return
	}
	m.injectQueue = append(m.injectQueue, syntheticInputEvent{key: k, pressed: pressed})
}

// InjectMouseButton queues a synthetic button transition.
func (m *InputManager) InjectMouseButton(b MouseButton, pressed bool) {
	if b >= mouseButtonCount {
		return
	}
	m.injectQueue = append(m.injectQueue, syntheticInputEvent{button: b, isMouse: true, pressed: pressed})
}

// InjectKeyTap queues a press followed by a release. Consumes two frames.
func (m *InputManager) InjectKeyTap(k Key) {
	m.InjectKey(k, true)
	m.InjectKey(k, false)
}

// PendingInjections returns the number of queued synthetic transitions.
func (m *InputManager) PendingInjections() int {
	return len(m.injectQueue)
}
