package arbor

import (
	"github.com/google/uuid"
)

// Entity is a handle to one row of a scene's storage: the owning scene, a
// row index, and a generation counter. The zero Entity is invalid. Handles
// are cheap values; copying one never copies entity data.
//
// A handle goes stale when its row is erased — the generation check in
// [Entity.Valid] catches reuse of the index by a later entity.
type Entity struct {
	scene *Scene
	index uint32
	gen   uint32
}

// Valid reports whether the handle still refers to a live row in an active
// scene. Stale handles (erased row, generation mismatch, torn-down scene)
// report false.
func (e Entity) Valid() bool {
	if e.scene == nil || e.scene.state != sceneActive {
		return false
	}
	st := e.scene.store
	if int(e.index) >= len(st.rows) {
		return false
	}
	m := st.rows[e.index]
	return m.alive && m.gen == e.gen
}

// Scene returns the scene that owns this entity, or nil for the zero handle.
func (e Entity) Scene() *Scene { return e.scene }

// UUID returns the stable identifier assigned to this entity at creation,
// or uuid.Nil if the handle is stale.
func (e Entity) UUID() uuid.UUID {
	if !e.Valid() {
		return uuid.Nil
	}
	return e.scene.entityUUIDs[e.index]
}

// Name returns the entity's display name, or "" for a stale handle.
func (e Entity) Name() string {
	if n, ok := TryGetComponent[Name](e); ok {
		return n.Value
	}
	return ""
}

// SetName updates the entity's display name. No-op on a stale handle.
func (e Entity) SetName(name string) {
	if n, ok := TryGetComponent[Name](e); ok {
		n.Value = name
	}
}

// Transform returns the entity's Transform component. Every entity created
// through [Scene.CreateEntity] has one; panics if it is missing.
func (e Entity) Transform() *Transform {
	t, ok := TryGetComponent[Transform](e)
	if !ok {
		panic("arbor: entity has no Transform component")
	}
	return t
}

// MarkForDestruction queues this entity (and, at teardown time, its whole
// transform subtree) for destruction at the next frame boundary. Idempotent;
// silent no-op on a stale handle, which tolerates uncoordinated
// double-marking.
func (e Entity) MarkForDestruction() {
	if !e.Valid() {
		return
	}
	TryAddTag[DestroyTag](e)
}
