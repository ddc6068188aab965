package arbor

import (
	"fmt"
	"os"
)

// globalDebug enables the extra hierarchy checks. Off by default; the release
// path pays nothing beyond a branch.
var globalDebug bool

// SetDebugMode toggles debug checks for the whole process. In debug mode,
// caller contract violations that release builds reject with a false return
// (for example reparenting across scenes) panic with a descriptive message,
// and structural warnings are printed to stderr.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// DebugMode reports whether debug checks are enabled.
func DebugMode() bool { return globalDebug }

// debugCheckSameScene panics in debug mode when an operation mixes entities
// from two different scenes. In release mode callers reject with false and
// this is a no-op.
func debugCheckSameScene(a, b Entity, op string) {
	if !globalDebug {
		return
	}
	panic(fmt.Sprintf("arbor debug: %s: entities %q and %q belong to different scenes",
		op, a.Name(), b.Name()))
}

// debugCheckTreeDepth warns on stderr if an entity's ancestor chain exceeds
// the threshold after a reparent.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(e Entity) {
	depth := 0
	for cur := e; cur.Valid(); cur = cur.scene.transformOf(cur).parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[arbor] warning: tree depth %d exceeds %d (entity %q)\n",
			depth, debugMaxTreeDepth, e.Name())
	}
}

// debugCheckChildCount warns on stderr if a transform has more than 1000
// direct children.
const debugMaxChildCount = 1000

func debugCheckChildCount(t *Transform) {
	if len(t.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[arbor] warning: entity %q has %d children (threshold %d)\n",
			t.Owner().Name(), len(t.children), debugMaxChildCount)
	}
}
