package arbor

// Component is the contract for data-bearing component types. Satisfy it by
// embedding [ComponentBase] in a struct with at least one data field:
//
//	type Health struct {
//		arbor.ComponentBase
//		Current, Max int
//	}
//
// The store wires the owning-entity back-reference on add and clears it on
// remove; application code never assigns it.
type Component interface {
	setOwner(Entity)

	// Owner returns the entity this component is attached to, or the zero
	// Entity if the component is detached.
	Owner() Entity
}

// ComponentBase carries the owning-entity back-reference for a component.
// Embed it as the first field of every component struct.
type ComponentBase struct {
	owner Entity
}

func (b *ComponentBase) setOwner(e Entity) { b.owner = e }

// Owner returns the entity this component is attached to.
func (b *ComponentBase) Owner() Entity { return b.owner }

// Tag is the contract for zero-size marker types. Satisfy it by embedding
// [TagBase] in an empty struct:
//
//	type Frozen struct{ arbor.TagBase }
//
// Tags carry presence only — the store keeps no payload for them. A tag type
// with data fields is rejected at registration.
type Tag interface {
	isTag()
}

// TagBase marks a struct as a tag. Embed it in an empty struct.
type TagBase struct{}

func (TagBase) isTag() {}

// Name holds an entity's display name. Attached to every entity on creation;
// read and written through [Entity.Name] and [Entity.SetName].
type Name struct {
	ComponentBase
	Value string
}

// DestroyTag marks an entity for deferred destruction. Added by
// [Entity.MarkForDestruction] and consumed by [Scene.ProcessEntityCleanup]
// at the frame boundary.
type DestroyTag struct {
	TagBase
}
