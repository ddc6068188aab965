package arbor

import (
	"fmt"
	"reflect"
)

// rowMeta tracks liveness of one entity row. Generations start at 1 and bump
// on erasure, so a stale handle can never match a recycled index.
type rowMeta struct {
	gen   uint32
	alive bool
}

// componentStore is a scene's type-erased storage: row metadata plus one
// sparse set per component or tag type. It exists only while the scene is
// active; [Scene.mustStore] guards every access.
type componentStore struct {
	scene *Scene
	rows  []rowMeta
	free  []uint32 // recycled row indexes

	comps map[reflect.Type]componentSet
	tags  map[reflect.Type]*tagSet
}

func newComponentStore(scene *Scene) *componentStore {
	return &componentStore{
		scene: scene,
		comps: make(map[reflect.Type]componentSet),
		tags:  make(map[reflect.Type]*tagSet),
	}
}

// componentSet is the type-erased face of a typedSet, enough for row
// destruction and view intersection.
type componentSet interface {
	removeRow(idx uint32) bool
	hasRow(idx uint32) bool
	rowIDs() []uint32
	count() int
}

// createRow allocates an entity row, recycling a free index when one exists.
func (st *componentStore) createRow() Entity {
	var idx uint32
	if n := len(st.free); n > 0 {
		idx = st.free[n-1]
		st.free = st.free[:n-1]
		st.rows[idx].alive = true
	} else {
		idx = uint32(len(st.rows))
		st.rows = append(st.rows, rowMeta{gen: 1, alive: true})
	}
	return Entity{scene: st.scene, index: idx, gen: st.rows[idx].gen}
}

// destroyRow erases every component and tag on the row, bumps its generation,
// and recycles the index. Stale handles into the row are invalid afterwards.
func (st *componentStore) destroyRow(idx uint32) {
	for _, set := range st.comps {
		set.removeRow(idx)
	}
	for _, set := range st.tags {
		set.removeRow(idx)
	}
	st.rows[idx].gen++
	st.rows[idx].alive = false
	st.free = append(st.free, idx)
}

// entityAt rebuilds the live handle for a row index.
func (st *componentStore) entityAt(idx uint32) Entity {
	return Entity{scene: st.scene, index: idx, gen: st.rows[idx].gen}
}

// --- typedSet ---

// typedSet is a sparse set for one component type: sparse maps row index to
// dense position (-1 when absent), dense and items hold the packed rows.
// Removal swap-fills from the back, so pointers into items stay valid only
// until the next add or remove of the same type.
type typedSet[T any] struct {
	sparse []int32
	dense  []uint32
	items  []T
}

func (s *typedSet[T]) ensure(idx uint32) {
	for int(idx) >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
}

func (s *typedSet[T]) add(idx uint32) *T {
	s.ensure(idx)
	s.sparse[idx] = int32(len(s.dense))
	s.dense = append(s.dense, idx)
	var zero T
	s.items = append(s.items, zero)
	return &s.items[len(s.items)-1]
}

func (s *typedSet[T]) get(idx uint32) *T {
	if int(idx) >= len(s.sparse) {
		return nil
	}
	pos := s.sparse[idx]
	if pos < 0 {
		return nil
	}
	return &s.items[pos]
}

func (s *typedSet[T]) removeRow(idx uint32) bool {
	if int(idx) >= len(s.sparse) {
		return false
	}
	pos := s.sparse[idx]
	if pos < 0 {
		return false
	}
	last := len(s.dense) - 1
	if int(pos) < last {
		s.dense[pos] = s.dense[last]
		s.items[pos] = s.items[last]
		s.sparse[s.dense[pos]] = pos
	}
	s.dense = s.dense[:last]
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]
	s.sparse[idx] = -1
	return true
}

func (s *typedSet[T]) hasRow(idx uint32) bool {
	return int(idx) < len(s.sparse) && s.sparse[idx] >= 0
}

func (s *typedSet[T]) rowIDs() []uint32 { return s.dense }
func (s *typedSet[T]) count() int       { return len(s.dense) }

// tagSet is a sparse set without payload. Presence is the whole story.
type tagSet struct {
	sparse []int32
	dense  []uint32
}

func (s *tagSet) ensure(idx uint32) {
	for int(idx) >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
}

func (s *tagSet) add(idx uint32) {
	s.ensure(idx)
	s.sparse[idx] = int32(len(s.dense))
	s.dense = append(s.dense, idx)
}

func (s *tagSet) removeRow(idx uint32) bool {
	if int(idx) >= len(s.sparse) {
		return false
	}
	pos := s.sparse[idx]
	if pos < 0 {
		return false
	}
	last := len(s.dense) - 1
	if int(pos) < last {
		s.dense[pos] = s.dense[last]
		s.sparse[s.dense[pos]] = pos
	}
	s.dense = s.dense[:last]
	s.sparse[idx] = -1
	return true
}

func (s *tagSet) hasRow(idx uint32) bool {
	return int(idx) < len(s.sparse) && s.sparse[idx] >= 0
}

func (s *tagSet) rowIDs() []uint32 { return s.dense }
func (s *tagSet) count() int       { return len(s.dense) }

// --- typed access helpers ---

func setFor[T any](st *componentStore) *typedSet[T] {
	t := reflect.TypeFor[T]()
	if set, ok := st.comps[t]; ok {
		return set.(*typedSet[T])
	}
	set := &typedSet[T]{}
	st.comps[t] = set
	return set
}

func tagSetFor[T Tag](st *componentStore) *tagSet {
	t := reflect.TypeFor[T]()
	if set, ok := st.tags[t]; ok {
		return set
	}
	if t.Size() != 0 {
		panic(fmt.Sprintf("arbor: tag type %s has data fields; use a component instead", t))
	}
	set := &tagSet{}
	st.tags[t] = set
	return set
}

// --- component operations ---

// TryAddComponent attaches a zero-valued T to the entity and returns a
// pointer to it. Returns (nil, false) if the handle is stale or the entity
// already has a T. The component's owner back-reference is set before the
// pointer is returned.
//
// The pointer stays valid until the next add or remove of the same component
// type on any entity in the scene.
func TryAddComponent[T any, PT interface {
	*T
	Component
}](e Entity) (*T, bool) {
	if e.scene == nil {
		return nil, false
	}
	st := e.scene.mustStore()
	if !e.Valid() {
		return nil, false
	}
	set := setFor[T](st)
	if set.hasRow(e.index) {
		return nil, false
	}
	ptr := set.add(e.index)
	PT(ptr).setOwner(e)
	return ptr, true
}

// TryGetComponent returns a pointer to the entity's T, or (nil, false) if the
// handle is stale or no T is attached. Same pointer-validity caveat as
// [TryAddComponent].
func TryGetComponent[T any](e Entity) (*T, bool) {
	if e.scene == nil {
		return nil, false
	}
	st := e.scene.mustStore()
	if !e.Valid() {
		return nil, false
	}
	set, ok := st.comps[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	ptr := set.(*typedSet[T]).get(e.index)
	if ptr == nil {
		return nil, false
	}
	return ptr, true
}

// HasComponent reports whether the entity has a T attached.
func HasComponent[T any](e Entity) bool {
	_, ok := TryGetComponent[T](e)
	return ok
}

// TryRemoveComponent detaches the entity's T. Returns false (no-op) if the
// handle is stale or no T is attached. The component's owner back-reference
// is cleared before removal.
func TryRemoveComponent[T any](e Entity) bool {
	ptr, ok := TryGetComponent[T](e)
	if !ok {
		return false
	}
	if c, isComp := any(ptr).(Component); isComp {
		c.setOwner(Entity{})
	}
	set := e.scene.store.comps[reflect.TypeFor[T]()]
	return set.removeRow(e.index)
}

// --- tag operations ---

// TryAddTag marks the entity with tag T. Returns false if the handle is
// stale or the tag is already present.
func TryAddTag[T Tag](e Entity) bool {
	if e.scene == nil {
		return false
	}
	st := e.scene.mustStore()
	if !e.Valid() {
		return false
	}
	set := tagSetFor[T](st)
	if set.hasRow(e.index) {
		return false
	}
	set.add(e.index)
	return true
}

// HasTag reports whether the entity carries tag T.
func HasTag[T Tag](e Entity) bool {
	if e.scene == nil {
		return false
	}
	st := e.scene.mustStore()
	if !e.Valid() {
		return false
	}
	set, ok := st.tags[reflect.TypeFor[T]()]
	return ok && set.hasRow(e.index)
}

// TryRemoveTag clears tag T from the entity. Returns false (no-op) if the
// handle is stale or the tag is absent.
func TryRemoveTag[T Tag](e Entity) bool {
	if e.scene == nil {
		return false
	}
	st := e.scene.mustStore()
	if !e.Valid() {
		return false
	}
	set, ok := st.tags[reflect.TypeFor[T]()]
	if !ok {
		return false
	}
	return set.removeRow(e.index)
}
