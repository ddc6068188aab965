package arbor

import "github.com/go-gl/mathgl/mgl64"

// EntityBuilder is the fluent return of [Scene.CreateEntity]. The entity is
// already live; each With method mutates it in place and returns the builder,
// so setup chains read in one line:
//
//	player := scene.CreateEntity().
//		WithName("player").
//		WithPos(mgl64.Vec3{0, 2, 0}).
//		WithParent(level).
//		Entity()
//
// Component and tag attachment use the package-level [WithComponent] and
// [WithTag], since methods cannot introduce type parameters.
type EntityBuilder struct {
	entity Entity
}

// Entity unwraps the built handle.
func (b *EntityBuilder) Entity() Entity { return b.entity }

// WithName sets the entity's display name.
func (b *EntityBuilder) WithName(name string) *EntityBuilder {
	b.entity.SetName(name)
	return b
}

// WithParent parents the entity under parent. Invalid reparent requests
// (stale parent, cross-scene, cycle) are ignored and leave the entity a root.
func (b *EntityBuilder) WithParent(parent Entity) *EntityBuilder {
	b.entity.Transform().TrySetParent(parent)
	return b
}

// WithPos sets the local position.
func (b *EntityBuilder) WithPos(p mgl64.Vec3) *EntityBuilder {
	b.entity.Transform().SetPos(p)
	return b
}

// WithScale sets the local scale.
func (b *EntityBuilder) WithScale(s mgl64.Vec3) *EntityBuilder {
	b.entity.Transform().SetScale(s)
	return b
}

// WithRot sets the local rotation.
func (b *EntityBuilder) WithRot(q mgl64.Quat) *EntityBuilder {
	b.entity.Transform().SetRot(q)
	return b
}

// WithEulerAnglesRad sets the local rotation from Euler angles in radians.
func (b *EntityBuilder) WithEulerAnglesRad(angles mgl64.Vec3) *EntityBuilder {
	b.entity.Transform().SetEulerAnglesRad(angles)
	return b
}

// WithEulerAnglesDeg sets the local rotation from Euler angles in degrees.
func (b *EntityBuilder) WithEulerAnglesDeg(angles mgl64.Vec3) *EntityBuilder {
	b.entity.Transform().SetEulerAnglesDeg(angles)
	return b
}

// WithComponent attaches a component of type T initialized to value. If the
// entity already has a T the existing component keeps its state. The owner
// back-reference always points at the built entity, whatever value carried.
func WithComponent[T any, PT interface {
	*T
	Component
}](b *EntityBuilder, value T) *EntityBuilder {
	ptr, ok := TryAddComponent[T, PT](b.entity)
	if ok {
		*ptr = value
		PT(ptr).setOwner(b.entity)
	}
	return b
}

// WithTag marks the built entity with tag T. Idempotent.
func WithTag[T Tag](b *EntityBuilder) *EntityBuilder {
	TryAddTag[T](b.entity)
	return b
}
