package arbor

import (
	"fmt"
	"reflect"
)

// System is a behavior unit dispatched by its scene once per frame across
// three ordered phases. Implementations embed [SystemBase] and override what
// they need:
//
//	type Gravity struct {
//		arbor.SystemBase
//	}
//
//	func (g *Gravity) ProcessPhysics(ctx any) { ... }
//
// At most one instance per concrete System type is registered per scene.
// Systems must not add or remove scheduler entries from within their own
// phase call.
type System interface {
	// Init runs once when the system is registered.
	Init(s *Scene)
	// Cleanup runs once when the system is removed or the scene tears down.
	Cleanup(s *Scene)

	// Process runs during the logic phase.
	Process(ctx any)
	// ProcessPhysics runs during the physics phase.
	ProcessPhysics(ctx any)
	// ProcessGUI runs during the GUI phase.
	ProcessGUI(ctx any)

	// ExecutionOrder keys dispatch order: lower runs first, ties keep
	// registration order.
	ExecutionOrder() int
	// Enabled gates phase dispatch. Disabled systems are skipped without
	// re-running Init or Cleanup.
	Enabled() bool
}

// SystemBase provides no-op lifecycle and phase methods, execution order 0,
// and an enabled flag defaulting to true. Embed it in every system.
type SystemBase struct {
	disabled bool
}

func (b *SystemBase) Init(*Scene)         {}
func (b *SystemBase) Cleanup(*Scene)      {}
func (b *SystemBase) Process(any)         {}
func (b *SystemBase) ProcessPhysics(any)  {}
func (b *SystemBase) ProcessGUI(any)      {}
func (b *SystemBase) ExecutionOrder() int { return 0 }

// Enabled reports whether the system participates in phase dispatch.
func (b *SystemBase) Enabled() bool { return !b.disabled }

// SetEnabled toggles phase dispatch for the system. Never triggers Init or
// Cleanup.
func (b *SystemBase) SetEnabled(enabled bool) { b.disabled = !enabled }

// TryAddSystem zero-constructs a system of type S, registers it with the
// scene, and calls its Init. Returns false if a system of that concrete type
// is already registered. For systems needing constructor state, build the
// instance yourself and use [Scene.TryAddSystemInstance].
func TryAddSystem[S any, PS interface {
	*S
	System
}](s *Scene) bool {
	return s.tryAddSystem(PS(new(S)), reflect.TypeFor[S]())
}

// TryRemoveSystem removes the registered system of type S, calling its
// Cleanup first. Returns false if no such system is registered.
func TryRemoveSystem[S any](s *Scene) bool {
	return s.tryRemoveSystem(reflect.TypeFor[S]())
}

// HasSystem reports whether a system of type S is registered with the scene.
func HasSystem[S any](s *Scene) bool {
	_, ok := s.systems[reflect.TypeFor[S]()]
	return ok
}

// TryAddSystemInstance registers a pre-built system instance, keyed by its
// concrete type, and calls its Init. Returns false if a system of that type
// is already registered.
func (s *Scene) TryAddSystemInstance(sys System) bool {
	return s.tryAddSystem(sys, concreteSystemType(sys))
}

func concreteSystemType(sys System) reflect.Type {
	t := reflect.TypeOf(sys)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func (s *Scene) tryAddSystem(sys System, key reflect.Type) bool {
	if s.dispatching {
		panic("arbor: cannot add a system from within a phase dispatch")
	}
	if _, exists := s.systems[key]; exists {
		return false
	}
	s.systems[key] = sys

	// Sorted insertion on ExecutionOrder; equal keys go after existing
	// entries so ties keep registration order.
	pos := len(s.order)
	for i, existing := range s.order {
		if existing.ExecutionOrder() > sys.ExecutionOrder() {
			pos = i
			break
		}
	}
	s.order = append(s.order, nil)
	copy(s.order[pos+1:], s.order[pos:])
	s.order[pos] = sys

	sys.Init(s)
	return true
}

func (s *Scene) tryRemoveSystem(key reflect.Type) bool {
	if s.dispatching {
		panic("arbor: cannot remove a system from within a phase dispatch")
	}
	sys, ok := s.systems[key]
	if !ok {
		return false
	}
	sys.Cleanup(s)
	delete(s.systems, key)

	for i, existing := range s.order {
		if existing == sys {
			copy(s.order[i:], s.order[i+1:])
			s.order[len(s.order)-1] = nil
			s.order = s.order[:len(s.order)-1]
			return true
		}
	}
	// Present in the type map but missing from the order vector: the two
	// indexes diverged, which is a scheduler bug, never a caller error.
	panic(fmt.Sprintf("arbor: scheduler corruption: system %s registered but absent from dispatch order", key))
}

type systemPhase uint8

const (
	phaseLogic systemPhase = iota
	phasePhysics
	phaseGUI
)

// dispatch runs one phase over the order vector, skipping disabled systems.
func (s *Scene) dispatch(phase systemPhase, ctx any) {
	s.mustStore()
	s.dispatching = true
	defer func() { s.dispatching = false }()

	for _, sys := range s.order {
		if !sys.Enabled() {
			continue
		}
		switch phase {
		case phaseLogic:
			sys.Process(ctx)
		case phasePhysics:
			sys.ProcessPhysics(ctx)
		case phaseGUI:
			sys.ProcessGUI(ctx)
		}
	}
}
