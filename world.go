package arbor

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// World is the top-level registry: it owns every scene, indexes them by UUID
// and by name, and drives the frame loop. One World per game or simulation is
// the intended shape, but nothing stops several from coexisting.
type World struct {
	// Scenes is the transition controller for which scene is current.
	Scenes *SceneManager

	logger *zap.Logger

	scenes map[uuid.UUID]*Scene
	byName map[string][]*Scene
}

// WorldOption configures a World at construction time.
type WorldOption func(*World)

// WithLogger installs a structured logger for lifecycle and transition
// events. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) WorldOption {
	return func(w *World) { w.logger = logger }
}

// NewWorld creates an empty world with no current scene.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		logger: zap.NewNop(),
		scenes: make(map[uuid.UUID]*Scene),
		byName: make(map[string][]*Scene),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.Scenes = &SceneManager{world: w}
	return w
}

// NewScene registers a new inert scene under the given name. Names need not
// be unique; the scene's UUID is the primary key. The scene holds no storage
// until its first Init.
func (w *World) NewScene(name string) *Scene {
	s := newScene(w, name)
	w.scenes[s.id] = s
	w.byName[name] = append(w.byName[name], s)
	w.logger.Info("scene registered", zap.String("scene", name), zap.Stringer("uuid", s.id))
	return s
}

// TryGetScene resolves a scene UUID. Returns (nil, false) when unknown.
func (w *World) TryGetScene(id uuid.UUID) (*Scene, bool) {
	s, ok := w.scenes[id]
	return s, ok
}

// ScenesByName returns every registered scene with the given name, in
// registration order. The returned slice must not be mutated.
func (w *World) ScenesByName(name string) []*Scene {
	return w.byName[name]
}

// SceneCount returns the number of registered scenes.
func (w *World) SceneCount() int { return len(w.scenes) }

// Step advances the current scene by one frame: commit any pending scene
// transition, run the three system phases in order, then flush the
// destruction queue. ctx is passed through to every system phase untouched;
// it typically carries per-frame data such as the delta time. No-op while no
// scene is current.
func (w *World) Step(ctx any) {
	w.Scenes.CommitTransition(ctx)

	cur := w.Scenes.Current()
	if cur == nil {
		return
	}
	cur.Process(ctx)
	cur.ProcessPhysics(ctx)
	cur.ProcessGUI(ctx)
	cur.ProcessEntityCleanup()
}
