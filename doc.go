// Package arbor is an embeddable entity-component scene runtime for
// real-time applications.
//
// Arbor provides scoped entity/component storage, a hierarchical spatial
// transform graph with cached matrix derivation, deferred entity destruction,
// and an ordered system scheduler. Application code defines data-only
// components and behavior-only systems and composes them per scene — an
// isolated simulation context such as a menu or a level.
//
// # Quick start
//
// Create a [World], register a scene, and drive it once per frame with
// [World.Step]:
//
//	world := arbor.NewWorld()
//	scene := world.NewScene("level-1")
//	scene.OnEnter = func(s *arbor.Scene, ctx any) {
//		s.CreateEntity().WithName("player").WithPos(mgl64.Vec3{0, 1, 0})
//	}
//	world.Scenes.TryRequestTransition(scene)
//	for running {
//		world.Step(frameCtx)
//	}
//
// # Entities and components
//
// An [Entity] is a generation-checked handle into its scene's storage; it
// holds no data itself. Components are plain structs embedding
// [ComponentBase]; tags are zero-size markers embedding [TagBase]. Attach and
// query them with the generic package functions:
//
//	type Velocity struct {
//		arbor.ComponentBase
//		V mgl64.Vec3
//	}
//
//	vel, ok := arbor.TryAddComponent[Velocity](e)
//	arbor.Query2(scene, func(e arbor.Entity, t *arbor.Transform, v *Velocity) {
//		t.SetPos(t.Pos().Add(v.V.Mul(dt)))
//	})
//
// # Transform hierarchy
//
// Every entity carries a [Transform]: local position, rotation, and scale
// plus parent/children links forming a rooted forest. Model and world
// matrices are cached behind dirty flags; a local mutation eagerly marks the
// whole affected subtree so reads stay O(1) amortized. Reparenting is
// cycle-safe and rejects cross-scene handles.
//
// # Systems and frames
//
// Systems embed [SystemBase], override the phase methods they care about,
// and are dispatched in ExecutionOrder across three phases per frame: logic,
// physics, and GUI. Destruction is deferred: [Entity.MarkForDestruction]
// tags an entity, and the scene tears down marked subtrees bottom-up at the
// frame boundary.
//
// Arbor is single-threaded by design: one logical thread of control mutates
// a scene, and the frame is the coordination unit. Vector, quaternion, and
// matrix values are [mgl64] types from github.com/go-gl/mathgl.
//
// [mgl64]: https://pkg.go.dev/github.com/go-gl/mathgl/mgl64
package arbor
