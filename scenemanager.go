package arbor

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SceneManager controls which of a world's scenes is current. Transitions are
// requested at any point during a frame but commit only at the next frame
// boundary, so a scene never tears itself down mid-dispatch.
//
// Requesting the current scene again is a reload: the scene is cleaned up and
// initialized fresh, keeping its identity and registered systems.
type SceneManager struct {
	world   *World
	current *Scene
	target  *Scene
}

// Current returns the active scene, or nil before the first transition
// commits.
func (m *SceneManager) Current() *Scene { return m.current }

// Pending reports whether a transition is waiting for the next frame
// boundary.
func (m *SceneManager) Pending() bool { return m.target != nil }

// TryRequestTransition queues a transition to the given scene. Returns false
// and logs a warning for a nil scene or one belonging to another world. A
// second request before the commit overrides the first, with a warning.
func (m *SceneManager) TryRequestTransition(s *Scene) bool {
	if s == nil {
		m.world.logger.Warn("transition requested to nil scene")
		return false
	}
	if s.world != m.world {
		m.world.logger.Warn("transition requested to a scene from another world",
			zap.String("scene", s.name))
		return false
	}
	if m.target != nil {
		m.world.logger.Warn("pending transition overridden",
			zap.String("previous", m.target.name),
			zap.String("next", s.name))
	}
	m.target = s
	return true
}

// TryRequestTransitionByName queues a transition to the first registered
// scene with the given name. Returns false when no scene has that name.
func (m *SceneManager) TryRequestTransitionByName(name string) bool {
	scenes := m.world.ScenesByName(name)
	if len(scenes) == 0 {
		m.world.logger.Warn("transition requested to unknown scene name",
			zap.String("scene", name))
		return false
	}
	return m.TryRequestTransition(scenes[0])
}

// TryRequestTransitionByUUID queues a transition to the scene with the given
// UUID. Returns false when the UUID is unknown.
func (m *SceneManager) TryRequestTransitionByUUID(id uuid.UUID) bool {
	s, ok := m.world.TryGetScene(id)
	if !ok {
		m.world.logger.Warn("transition requested to unknown scene uuid",
			zap.Stringer("uuid", id))
		return false
	}
	return m.TryRequestTransition(s)
}

// TryRequestReload queues a teardown and re-init of the current scene.
// Returns false when no scene is current.
func (m *SceneManager) TryRequestReload() bool {
	if m.current == nil {
		m.world.logger.Warn("reload requested with no current scene")
		return false
	}
	return m.TryRequestTransition(m.current)
}

// CommitTransition applies the pending transition, if any: the outgoing scene
// is cleaned up, then the incoming scene is initialized. Called by
// [World.Step] at the top of each frame; callers driving scenes manually may
// call it directly. ctx is forwarded to both scenes' lifecycle hooks.
func (m *SceneManager) CommitTransition(ctx any) {
	if m.target == nil {
		return
	}
	next := m.target
	m.target = nil

	if m.current != nil {
		m.world.logger.Info("scene transition",
			zap.String("from", m.current.name),
			zap.String("to", next.name))
		m.current.Cleanup(ctx)
	} else {
		m.world.logger.Info("scene transition",
			zap.String("to", next.name))
	}

	m.current = next
	next.Init(ctx)
}
