package arbor

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sceneState tracks where a scene is in its lifecycle. Storage exists only
// while active; handle and component operations outside that window fail
// loudly rather than silently.
type sceneState uint8

const (
	sceneCreated sceneState = iota
	sceneActive
	sceneTornDown
)

// Scene owns one isolated world of entities: storage, the transform forest,
// the destruction queue, and the system scheduler. Scenes never share
// entities; handles are bound to the scene that created them.
//
// A scene is created inert, populated during Init (typically via OnEnter),
// stepped through the frame phases while active, and emptied by Cleanup. A
// torn-down scene may be initialized again, which is how reloads work: same
// identity and systems, fresh storage.
type Scene struct {
	world *World
	id    uuid.UUID
	name  string
	state sceneState

	store        *componentStore
	entityUUIDs  map[uint32]uuid.UUID
	uuidToEntity map[uuid.UUID]Entity

	systems     map[reflect.Type]System
	order       []System
	dispatching bool

	// OnEnter runs at the end of Init, after storage is live; use it to
	// populate the scene. OnExit runs at the start of Cleanup, while
	// storage is still live.
	OnEnter func(s *Scene, ctx any)
	OnExit  func(s *Scene, ctx any)
}

func newScene(world *World, name string) *Scene {
	return &Scene{
		world:   world,
		id:      uuid.New(),
		name:    name,
		systems: make(map[reflect.Type]System),
	}
}

// Name returns the scene's display name. Names need not be unique.
func (s *Scene) Name() string { return s.name }

// UUID returns the scene's stable identifier.
func (s *Scene) UUID() uuid.UUID { return s.id }

// World returns the world that owns this scene, or nil for a standalone scene.
func (s *Scene) World() *World { return s.world }

// Active reports whether the scene's storage is live.
func (s *Scene) Active() bool { return s.state == sceneActive }

// --- Lifecycle ---

// Init brings the scene to the active state: allocates fresh storage, then
// runs OnEnter. Panics if the scene is already active. Initializing a
// torn-down scene is allowed and starts it empty again.
func (s *Scene) Init(ctx any) {
	if s.state == sceneActive {
		panic(fmt.Sprintf("arbor: Init on already active scene %q", s.name))
	}
	s.store = newComponentStore(s)
	s.entityUUIDs = make(map[uint32]uuid.UUID)
	s.uuidToEntity = make(map[uuid.UUID]Entity)
	s.state = sceneActive

	s.logger().Info("scene initialized", zap.String("scene", s.name), zap.Stringer("uuid", s.id))

	if s.OnEnter != nil {
		s.OnEnter(s, ctx)
	}
}

// Cleanup tears the scene down: runs OnExit, then releases storage in bulk.
// Every outstanding handle into the scene goes stale at once. Registered
// systems survive teardown so a later Init finds them in place. No-op unless
// the scene is active.
func (s *Scene) Cleanup(ctx any) {
	if s.state != sceneActive {
		return
	}
	if s.OnExit != nil {
		s.OnExit(s, ctx)
	}

	s.store = nil
	s.entityUUIDs = nil
	s.uuidToEntity = nil
	s.state = sceneTornDown

	s.logger().Info("scene torn down", zap.String("scene", s.name), zap.Stringer("uuid", s.id))
}

// mustStore returns the live storage, panicking when the scene is not active.
// Using storage outside its window is a lifecycle bug in the caller, not a
// recoverable condition.
func (s *Scene) mustStore() *componentStore {
	if s.state != sceneActive {
		panic(fmt.Sprintf("arbor: scene %q storage accessed outside its active window", s.name))
	}
	return s.store
}

func (s *Scene) logger() *zap.Logger {
	if s.world != nil {
		return s.world.logger
	}
	return zap.NewNop()
}

// --- Entities ---

// CreateEntity allocates a new entity and returns a builder for fluent setup.
// The entity is live immediately, carries a fresh UUID, an empty Name, and an
// identity Transform, and is a root of the transform forest.
func (s *Scene) CreateEntity() *EntityBuilder {
	st := s.mustStore()
	e := st.createRow()

	id := uuid.New()
	s.entityUUIDs[e.index] = id
	s.uuidToEntity[id] = e

	TryAddComponent[Name](e)
	t, _ := TryAddComponent[Transform](e)
	t.init()

	return &EntityBuilder{entity: e}
}

// EntityCount returns the number of live entities in the scene.
func (s *Scene) EntityCount() int {
	return len(s.mustStore().rows) - len(s.store.free)
}

// TryGetEntityByUUID resolves a UUID back to a live handle. Returns
// (zero, false) when no live entity carries the UUID.
func (s *Scene) TryGetEntityByUUID(id uuid.UUID) (Entity, bool) {
	s.mustStore()
	e, ok := s.uuidToEntity[id]
	if !ok || !e.Valid() {
		return Entity{}, false
	}
	return e, true
}

// EntitiesByName returns every live entity whose display name equals name.
// Names are not unique, so this can return any number of matches; iteration
// order is unspecified.
func (s *Scene) EntitiesByName(name string) []Entity {
	var out []Entity
	Query(s, func(e Entity, n *Name) {
		if n.Value == name {
			out = append(out, e)
		}
	})
	return out
}

// transformOf returns the Transform of an entity known to be live. Internal
// fast path for hierarchy code; missing Transform means the storage invariant
// broke.
func (s *Scene) transformOf(e Entity) *Transform {
	set, ok := s.store.comps[reflect.TypeFor[Transform]()]
	if !ok {
		panic("arbor: entity has no Transform component")
	}
	t := set.(*typedSet[Transform]).get(e.index)
	if t == nil {
		panic("arbor: entity has no Transform component")
	}
	return t
}

// destroyEntity erases one row immediately: UUID mappings first, then the
// storage row. Callers are responsible for hierarchy consistency; normal code
// goes through [Entity.MarkForDestruction] and the cleanup pass instead.
func (s *Scene) destroyEntity(e Entity) {
	if id, ok := s.entityUUIDs[e.index]; ok {
		delete(s.uuidToEntity, id)
		delete(s.entityUUIDs, e.index)
	}
	s.store.destroyRow(e.index)
}

// --- Frame phases ---

// Process dispatches the logic phase to every enabled system in execution
// order.
func (s *Scene) Process(ctx any) { s.dispatch(phaseLogic, ctx) }

// ProcessPhysics dispatches the physics phase.
func (s *Scene) ProcessPhysics(ctx any) { s.dispatch(phasePhysics, ctx) }

// ProcessGUI dispatches the GUI phase.
func (s *Scene) ProcessGUI(ctx any) { s.dispatch(phaseGUI, ctx) }

// ProcessEntityCleanup destroys every entity marked with [DestroyTag], each
// together with its entire transform subtree. Subtrees come down in
// post-order (children before parents), and each marked root is detached from
// its parent first so no surviving children list retains a stale handle.
// A frame with nothing marked costs one empty snapshot.
func (s *Scene) ProcessEntityCleanup() {
	st := s.mustStore()
	set, ok := st.tags[reflect.TypeFor[DestroyTag]()]
	if !ok || set.count() == 0 {
		return
	}

	// Snapshot before any destruction: destroyRow mutates the tag set.
	marked := make([]Entity, 0, set.count())
	for _, idx := range set.dense {
		marked = append(marked, st.entityAt(idx))
	}

	for _, root := range marked {
		// Already destroyed as part of an earlier root's subtree.
		if !root.Valid() {
			continue
		}
		rt := s.transformOf(root)

		doomed := make([]Entity, 0, len(rt.children)+1)
		for e := range rt.Traverse(PostOrder) {
			doomed = append(doomed, e)
		}

		rt.TrySetParent(Entity{})
		for _, e := range doomed {
			s.destroyEntity(e)
		}
	}
}
