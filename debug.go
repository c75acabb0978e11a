package thicket

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// globalDebug mirrors the most recently set Scene debug flag so that tree and
// entity operations (which lack a Scene pointer) can check it cheaply. Only
// valid with a single Scene.
var globalDebug bool

// renderStats holds per-frame timing and draw metrics. Only populated when
// debug mode is on.
type renderStats struct {
	traverseTime    time.Duration
	entitiesVisited int
	drawCalls       int
}

// debugLog writes render stats at debug level.
func (s renderStats) debugLog() {
	Logger().Debug("render",
		zap.Duration("traverse", s.traverseTime),
		zap.Int("entities", s.entitiesVisited),
		zap.Int("drawCalls", s.drawCalls),
	)
}

// debugCheckDestroyed panics with a descriptive message when a destroyed
// entity is mutated. Callers only invoke it in debug mode.
func debugCheckDestroyed(e *Entity, op string) {
	if e.destroyed {
		panic(fmt.Sprintf("thicket debug: %s on destroyed entity %q (ID was %d)", op, e.Name, e.id))
	}
}

// debugMaxChildCount is the child count above which AddChild warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(t *Tree) {
	if len(t.children) > debugMaxChildCount {
		Logger().Warn("node has too many children",
			zap.Int("children", len(t.children)),
			zap.Int("threshold", debugMaxChildCount),
		)
	}
}
