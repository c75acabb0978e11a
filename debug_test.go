package thicket

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// observeLogs installs an observing logger for the duration of the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })
	return logs
}

func withDebug(t *testing.T) {
	t.Helper()
	globalDebug = true
	t.Cleanup(func() { globalDebug = false })
}

func TestDebugCheckDestroyedMessage(t *testing.T) {
	e := NewEntity("ghost")
	e.Destroy()
	defer func() {
		r := recover()
		msg, _ := r.(string)
		if !strings.Contains(msg, "Frobnicate") || !strings.Contains(msg, `"ghost"`) {
			t.Errorf("panic = %v", r)
		}
	}()
	debugCheckDestroyed(e, "Frobnicate")
}

func TestDebugCheckDestroyedLiveEntity(t *testing.T) {
	debugCheckDestroyed(NewEntity("alive"), "AddComponent")
}

func TestDebugChildCountWarning(t *testing.T) {
	logs := observeLogs(t)
	withDebug(t)

	root := NewSceneTree("root")
	for range debugMaxChildCount + 1 {
		root.AddChild(NewSceneTree("leaf"))
	}
	if n := logs.FilterMessage("node has too many children").Len(); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}
}

func TestDebugCycleWarning(t *testing.T) {
	logs := observeLogs(t)
	withDebug(t)

	a, b := NewEntity("a"), NewEntity("b")
	a.AddChild(b)
	b.AddChild(a)
	if logs.FilterMessageSnippet("cycle").Len() != 1 {
		t.Errorf("expected one cycle warning, got %v", logs.All())
	}
}

func TestNoDebugChecksWhenOff(t *testing.T) {
	logs := observeLogs(t)
	a, b := NewEntity("a"), NewEntity("b")
	a.AddChild(b)
	b.AddChild(a)
	if logs.Len() != 0 {
		t.Errorf("unexpected logs: %v", logs.All())
	}
}

func TestRenderStatsLogged(t *testing.T) {
	logs := observeLogs(t)
	r, dev := newTestRenderer(t)
	r.SetDebug(true)
	r.SetCamera(NewPerspectiveCamera(45, 1, 0.1, 100))
	root := NewSceneTree("root")
	e := NewEntity("e")
	e.AddComponent(ComponentRenderer, NewQuadRenderer(dev, ColorWhite))
	root.AddChild(e)

	r.Render(root)
	entries := logs.FilterMessage("render").All()
	if len(entries) != 1 {
		t.Fatalf("render logs = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["drawCalls"] != int64(1) || fields["entities"] != int64(1) {
		t.Errorf("fields = %v", fields)
	}
}
