package arbor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is the distinguished spatial component every entity carries:
// local position, rotation, and scale relative to the parent, plus the
// parent/children links that form the scene's transform forest.
//
// The local (model) and local-to-world matrices are cached behind independent
// dirty flags. Mutating a local field marks this transform's model and world
// dirty and eagerly marks world dirty on every descendant, so matrix reads
// stay O(1) amortized and a write pays O(subtree) at most.
//
// Links are mutated only through TrySetParent, TryAddChild, TryRemoveChild,
// and the sibling-index methods — never by direct field assignment.
type Transform struct {
	ComponentBase

	pos mgl64.Vec3
	scl mgl64.Vec3
	rot mgl64.Quat

	parent   Entity
	children []Entity

	model      mgl64.Mat4
	world      mgl64.Mat4
	modelDirty bool
	worldDirty bool
}

// init establishes the identity transform. Called by Scene.CreateEntity;
// a Transform that skipped it would carry a zero scale.
func (t *Transform) init() {
	t.pos = mgl64.Vec3{}
	t.scl = mgl64.Vec3{1, 1, 1}
	t.rot = mgl64.QuatIdent()
	t.modelDirty = true
	t.worldDirty = true
}

// --- Local fields ---

// Pos returns the local position relative to the parent.
func (t *Transform) Pos() mgl64.Vec3 { return t.pos }

// SetPos sets the local position and marks this subtree's world matrices dirty.
func (t *Transform) SetPos(p mgl64.Vec3) {
	t.pos = p
	t.setDirty()
}

// Scale returns the local scale relative to the parent.
func (t *Transform) Scale() mgl64.Vec3 { return t.scl }

// SetScale sets the local scale and marks this subtree's world matrices dirty.
func (t *Transform) SetScale(s mgl64.Vec3) {
	t.scl = s
	t.setDirty()
}

// Rot returns the local rotation quaternion.
func (t *Transform) Rot() mgl64.Quat { return t.rot }

// SetRot sets the local rotation and marks this subtree's world matrices dirty.
func (t *Transform) SetRot(q mgl64.Quat) {
	t.rot = q
	t.setDirty()
}

// SetEulerAnglesRad sets the local rotation from Euler angles in radians
// (pitch, yaw, roll applied in XYZ order).
func (t *Transform) SetEulerAnglesRad(angles mgl64.Vec3) {
	t.SetRot(mgl64.AnglesToQuat(angles.X(), angles.Y(), angles.Z(), mgl64.XYZ))
}

// EulerAnglesRad returns the local rotation as Euler angles in radians,
// inverse of [Transform.SetEulerAnglesRad]. Near gimbal lock (pitch close to
// ±π/2) the decomposition is not unique.
func (t *Transform) EulerAnglesRad() mgl64.Vec3 {
	return eulerFromQuat(t.rot)
}

// eulerFromQuat recovers XYZ-order Euler angles from a rotation quaternion.
func eulerFromQuat(q mgl64.Quat) mgl64.Vec3 {
	m := q.Mat4()
	sy := m.At(0, 2)
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	return mgl64.Vec3{
		math.Atan2(-m.At(1, 2), m.At(2, 2)),
		math.Asin(sy),
		math.Atan2(-m.At(0, 1), m.At(0, 0)),
	}
}

// SetEulerAnglesDeg sets the local rotation from Euler angles in degrees.
func (t *Transform) SetEulerAnglesDeg(angles mgl64.Vec3) {
	t.SetEulerAnglesRad(mgl64.Vec3{
		mgl64.DegToRad(angles.X()),
		mgl64.DegToRad(angles.Y()),
		mgl64.DegToRad(angles.Z()),
	})
}

// --- Matrices ---

// ModelMatrix returns the local-to-parent matrix T(pos)·R(rot)·S(scale),
// recomputing only when a local field changed since the last read.
func (t *Transform) ModelMatrix() mgl64.Mat4 {
	if t.modelDirty {
		t.model = mgl64.Translate3D(t.pos.X(), t.pos.Y(), t.pos.Z()).
			Mul4(t.rot.Mat4()).
			Mul4(mgl64.Scale3D(t.scl.X(), t.scl.Y(), t.scl.Z()))
		t.modelDirty = false
	}
	return t.model
}

// WorldMatrix returns the local-to-world matrix parent.world · model (for a
// root, world == model), recomputing only when this transform or an ancestor
// changed since the last read.
func (t *Transform) WorldMatrix() mgl64.Mat4 {
	if t.worldDirty {
		if t.parent.Valid() {
			t.world = t.parent.scene.transformOf(t.parent).WorldMatrix().Mul4(t.ModelMatrix())
		} else {
			t.world = t.ModelMatrix()
		}
		t.worldDirty = false
	}
	return t.world
}

// setDirty marks the model and world matrices stale after a local-field
// mutation and propagates world staleness down the subtree.
func (t *Transform) setDirty() {
	t.modelDirty = true
	t.setWorldDirty()
}

// setWorldDirty marks the world matrix stale on this transform and every
// descendant. Propagation happens at mutation time, not read time.
func (t *Transform) setWorldDirty() {
	t.worldDirty = true
	for _, child := range t.children {
		if child.Valid() {
			child.scene.transformOf(child).setWorldDirty()
		}
	}
}

// --- Parent management ---

// Parent returns the parent entity, or the zero Entity for a root.
func (t *Transform) Parent() Entity { return t.parent }

// HasParent reports whether parent is this transform's current parent.
func (t *Transform) HasParent(parent Entity) bool { return t.parent == parent }

// TrySetParent reparents this transform. Passing the zero Entity detaches it
// to a root. Returns true without mutating anything when the parent is
// already newParent.
//
// Fails — with no mutation — when the owner or newParent handle is stale,
// when newParent belongs to a different scene (a caller contract violation;
// panics in debug mode), when newParent is the owner itself, or when
// newParent is a descendant of the owner (the reparent would close a cycle).
// The cycle check walks newParent's ancestor chain, O(depth).
//
// On success the owner is unlinked from its old parent's children, appended
// to the new parent's children, and the moved subtree's world matrices are
// marked dirty.
func (t *Transform) TrySetParent(newParent Entity) bool {
	owner := t.Owner()
	if !owner.Valid() {
		return false
	}

	if newParent == (Entity{}) {
		if t.parent == (Entity{}) {
			return true
		}
		t.unlinkFromParent(owner)
		t.parent = Entity{}
		t.setWorldDirty()
		return true
	}

	if !newParent.Valid() {
		return false
	}
	if newParent.scene != owner.scene {
		debugCheckSameScene(owner, newParent, "TrySetParent")
		return false
	}
	if newParent == owner {
		return false
	}
	if t.parent == newParent {
		return true
	}
	// Reject cycles: newParent must not be below owner.
	for cur := newParent; cur.Valid(); cur = cur.scene.transformOf(cur).parent {
		if cur == owner {
			return false
		}
	}

	t.unlinkFromParent(owner)
	t.parent = newParent
	np := newParent.scene.transformOf(newParent)
	np.children = append(np.children, owner)
	t.setWorldDirty()
	if globalDebug {
		debugCheckTreeDepth(owner)
		debugCheckChildCount(np)
	}
	return true
}

// unlinkFromParent removes owner from the current parent's children list.
// No-op for roots. Uses copy+zero to avoid retaining a stale handle in the
// backing array.
func (t *Transform) unlinkFromParent(owner Entity) {
	if !t.parent.Valid() {
		return
	}
	pt := t.parent.scene.transformOf(t.parent)
	for i, c := range pt.children {
		if c == owner {
			copy(pt.children[i:], pt.children[i+1:])
			pt.children[len(pt.children)-1] = Entity{}
			pt.children = pt.children[:len(pt.children)-1]
			return
		}
	}
}

// --- Child management ---

// HasChild reports whether child is a direct child of this transform.
func (t *Transform) HasChild(child Entity) bool {
	for _, c := range t.children {
		if c == child {
			return true
		}
	}
	return false
}

// TryGetChild returns the child at index, or (zero, false) when out of range.
func (t *Transform) TryGetChild(index int) (Entity, bool) {
	if index < 0 || index >= len(t.children) {
		return Entity{}, false
	}
	return t.children[index], true
}

// Children returns the child list. The returned slice MUST NOT be mutated by
// the caller.
func (t *Transform) Children() []Entity { return t.children }

// ChildCount returns the number of direct children.
func (t *Transform) ChildCount() int { return len(t.children) }

// TryAddChild makes child a direct child of this transform, expressed as a
// reparent of the child. Same failure conditions as [Transform.TrySetParent].
func (t *Transform) TryAddChild(child Entity) bool {
	if !child.Valid() {
		return false
	}
	if child.scene != t.Owner().scene {
		debugCheckSameScene(t.Owner(), child, "TryAddChild")
		return false
	}
	return child.scene.transformOf(child).TrySetParent(t.Owner())
}

// TryRemoveChild detaches child to a root. Returns false if child is not a
// direct child of this transform.
func (t *Transform) TryRemoveChild(child Entity) bool {
	if !t.HasChild(child) {
		return false
	}
	if !child.Valid() {
		return false
	}
	return child.scene.transformOf(child).TrySetParent(Entity{})
}

// TryRemoveChildAt detaches the child at index to a root. Returns false when
// index is out of range.
func (t *Transform) TryRemoveChildAt(index int) bool {
	child, ok := t.TryGetChild(index)
	if !ok {
		return false
	}
	return t.TryRemoveChild(child)
}

// --- Sibling management ---

// SiblingIndex returns this transform's position within its parent's
// children, or 0 for a root.
func (t *Transform) SiblingIndex() int {
	if !t.parent.Valid() {
		return 0
	}
	siblings := t.parent.scene.transformOf(t.parent).children
	for i, c := range siblings {
		if c == t.Owner() {
			return i
		}
	}
	return 0
}

// TrySetSiblingIndex reorders this transform within its parent's children,
// clamping index to [0, childCount]. Returns false for a root.
//
// Panics if the transform claims a parent but is absent from that parent's
// children list — that is hierarchy corruption, a core bug rather than a
// caller error, and it is raised in release builds too.
func (t *Transform) TrySetSiblingIndex(index int) bool {
	if !t.parent.Valid() {
		return false
	}
	owner := t.Owner()
	pt := t.parent.scene.transformOf(t.parent)
	cur := -1
	for i, c := range pt.children {
		if c == owner {
			cur = i
			break
		}
	}
	if cur < 0 {
		panic("arbor: hierarchy corruption: entity claims a parent but is not in the parent's children list")
	}

	copy(pt.children[cur:], pt.children[cur+1:])
	pt.children = pt.children[:len(pt.children)-1]

	if index < 0 {
		index = 0
	}
	if index > len(pt.children) {
		index = len(pt.children)
	}
	pt.children = append(pt.children, Entity{})
	copy(pt.children[index+1:], pt.children[index:])
	pt.children[index] = owner
	return true
}

// TrySetAsFirstSibling moves this transform to the front of its parent's
// children. Returns false for a root.
func (t *Transform) TrySetAsFirstSibling() bool {
	return t.TrySetSiblingIndex(0)
}

// TrySetAsLastSibling moves this transform to the back of its parent's
// children. Returns false for a root.
func (t *Transform) TrySetAsLastSibling() bool {
	if !t.parent.Valid() {
		return false
	}
	return t.TrySetSiblingIndex(t.parent.scene.transformOf(t.parent).ChildCount())
}

// --- Relationship queries ---

// IsChildOf reports whether parent is this transform's direct parent.
func (t *Transform) IsChildOf(parent Entity) bool { return t.parent == parent }

// IsDescendantOf reports whether ancestor appears anywhere up this
// transform's parent chain.
func (t *Transform) IsDescendantOf(ancestor Entity) bool {
	if !ancestor.Valid() {
		return false
	}
	for cur := t.parent; cur.Valid(); cur = cur.scene.transformOf(cur).parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// IsAncestorOf reports whether descendant appears anywhere below this
// transform.
func (t *Transform) IsAncestorOf(descendant Entity) bool {
	return descendant.Valid() &&
		descendant.scene.transformOf(descendant).IsDescendantOf(t.Owner())
}

// Root returns the topmost ancestor, or the owner itself for a root.
func (t *Transform) Root() Entity {
	cur := t.Owner()
	for {
		ct := cur.scene.transformOf(cur)
		if !ct.parent.Valid() {
			return cur
		}
		cur = ct.parent
	}
}
