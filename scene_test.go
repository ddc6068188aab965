package arbor

import (
	"testing"

	"github.com/google/uuid"
)

// newTestScene returns an active standalone scene, torn down when the test
// ends.
func newTestScene(t *testing.T) *Scene {
	t.Helper()
	s := newScene(nil, "test")
	s.Init(nil)
	t.Cleanup(func() {
		if s.Active() {
			s.Cleanup(nil)
		}
	})
	return s
}

// --- Lifecycle ---

func TestSceneLifecycle(t *testing.T) {
	s := newScene(nil, "level")
	if s.Active() {
		t.Fatal("scene active before Init")
	}

	entered, exited := 0, 0
	s.OnEnter = func(sc *Scene, ctx any) {
		entered++
		sc.CreateEntity().WithName("spawned")
	}
	s.OnExit = func(sc *Scene, ctx any) { exited++ }

	s.Init(nil)
	if !s.Active() {
		t.Fatal("scene not active after Init")
	}
	if entered != 1 {
		t.Errorf("OnEnter ran %d times, want 1", entered)
	}
	if got := s.EntityCount(); got != 1 {
		t.Errorf("entity count = %d, want 1 (from OnEnter)", got)
	}

	s.Cleanup(nil)
	if s.Active() {
		t.Error("scene still active after Cleanup")
	}
	if exited != 1 {
		t.Errorf("OnExit ran %d times, want 1", exited)
	}

	// Teardown is idempotent.
	s.Cleanup(nil)
	if exited != 1 {
		t.Error("OnExit ran again on a torn-down scene")
	}

	// A torn-down scene can come back, empty.
	s.Init(nil)
	if got := s.EntityCount(); got != 1 {
		t.Errorf("entity count after re-Init = %d, want 1 (OnEnter repopulates)", got)
	}
	s.Cleanup(nil)
}

func TestSceneDoubleInitPanics(t *testing.T) {
	s := newTestScene(t)
	defer func() {
		if recover() == nil {
			t.Error("Init on an active scene did not panic")
		}
	}()
	s.Init(nil)
}

func TestStorageAccessOutsideActiveWindowPanics(t *testing.T) {
	s := newScene(nil, "inert")
	defer func() {
		if recover() == nil {
			t.Error("CreateEntity on an uninitialized scene did not panic")
		}
	}()
	s.CreateEntity()
}

func TestHandlesGoStaleOnCleanup(t *testing.T) {
	s := newScene(nil, "short")
	s.Init(nil)
	e := s.CreateEntity().Entity()
	if !e.Valid() {
		t.Fatal("fresh entity invalid")
	}
	s.Cleanup(nil)
	if e.Valid() {
		t.Error("handle still valid after scene teardown")
	}
}

// --- Entity identity ---

func TestEntityUUIDRegistry(t *testing.T) {
	s := newTestScene(t)
	e := s.CreateEntity().WithName("hero").Entity()

	id := e.UUID()
	if id == uuid.Nil {
		t.Fatal("entity has nil UUID")
	}
	got, ok := s.TryGetEntityByUUID(id)
	if !ok || got != e {
		t.Errorf("TryGetEntityByUUID(%v) = %v, %v", id, got, ok)
	}

	e.MarkForDestruction()
	s.ProcessEntityCleanup()

	if _, ok := s.TryGetEntityByUUID(id); ok {
		t.Error("destroyed entity still resolvable by UUID")
	}
	if e.UUID() != uuid.Nil {
		t.Error("stale handle still reports a UUID")
	}
}

func TestEntityUUIDsAreDistinct(t *testing.T) {
	s := newTestScene(t)
	a := s.CreateEntity().Entity()
	b := s.CreateEntity().Entity()
	if a.UUID() == b.UUID() {
		t.Error("two entities share a UUID")
	}
}

func TestEntitiesByName(t *testing.T) {
	s := newTestScene(t)
	a := s.CreateEntity().WithName("enemy").Entity()
	b := s.CreateEntity().WithName("enemy").Entity()
	s.CreateEntity().WithName("player")

	got := s.EntitiesByName("enemy")
	if len(got) != 2 {
		t.Fatalf("EntitiesByName returned %d entities, want 2", len(got))
	}
	seen := map[Entity]bool{got[0]: true, got[1]: true}
	if !seen[a] || !seen[b] {
		t.Errorf("EntitiesByName = %v, want {a, b}", got)
	}

	if extra := s.EntitiesByName("missing"); len(extra) != 0 {
		t.Errorf("EntitiesByName for unknown name = %v, want empty", extra)
	}

	a.MarkForDestruction()
	s.ProcessEntityCleanup()
	if got := s.EntitiesByName("enemy"); len(got) != 1 || got[0] != b {
		t.Errorf("EntitiesByName after destruction = %v, want [b]", got)
	}
}

func TestEntityNames(t *testing.T) {
	s := newTestScene(t)
	e := s.CreateEntity().WithName("first").Entity()
	if got := e.Name(); got != "first" {
		t.Errorf("name = %q, want %q", got, "first")
	}
	e.SetName("second")
	if got := e.Name(); got != "second" {
		t.Errorf("name = %q, want %q", got, "second")
	}

	anon := s.CreateEntity().Entity()
	if got := anon.Name(); got != "" {
		t.Errorf("unnamed entity name = %q, want empty", got)
	}
}

// --- Deferred destruction ---

func TestDestructionCascadesThroughSubtree(t *testing.T) {
	s := newTestScene(t)
	//        n1
	//      /    \
	//    n2      n3
	//   /  \    /  \
	//  n4  n5  n6  n7
	n1 := s.CreateEntity().WithName("n1").Entity()
	n2 := s.CreateEntity().WithName("n2").WithParent(n1).Entity()
	n3 := s.CreateEntity().WithName("n3").WithParent(n1).Entity()
	n4 := s.CreateEntity().WithName("n4").WithParent(n2).Entity()
	n5 := s.CreateEntity().WithName("n5").WithParent(n2).Entity()
	n6 := s.CreateEntity().WithName("n6").WithParent(n3).Entity()
	n7 := s.CreateEntity().WithName("n7").WithParent(n3).Entity()
	outsider := s.CreateEntity().WithName("outsider").Entity()

	n1.MarkForDestruction()
	s.ProcessEntityCleanup()

	for _, e := range []Entity{n1, n2, n3, n4, n5, n6, n7} {
		if e.Valid() {
			t.Errorf("entity %q survived subtree destruction", e.Name())
		}
	}
	if !outsider.Valid() {
		t.Error("unrelated entity destroyed")
	}
	if got := s.EntityCount(); got != 1 {
		t.Errorf("entity count = %d, want 1", got)
	}
}

func TestDestructionDetachesFromSurvivingParent(t *testing.T) {
	s := newTestScene(t)
	parent := s.CreateEntity().Entity()
	child := s.CreateEntity().WithParent(parent).Entity()

	child.MarkForDestruction()
	s.ProcessEntityCleanup()

	if got := parent.Transform().ChildCount(); got != 0 {
		t.Errorf("surviving parent child count = %d, want 0", got)
	}
}

func TestDestructionIsDeferredUntilCleanup(t *testing.T) {
	s := newTestScene(t)
	e := s.CreateEntity().Entity()
	e.MarkForDestruction()
	if !e.Valid() {
		t.Error("marked entity destroyed before the cleanup pass")
	}
	s.ProcessEntityCleanup()
	if e.Valid() {
		t.Error("marked entity survived the cleanup pass")
	}
}

func TestDoubleMarkingIsIdempotent(t *testing.T) {
	s := newTestScene(t)
	parent := s.CreateEntity().Entity()
	child := s.CreateEntity().WithParent(parent).Entity()

	// Mark both the root and a node inside its subtree, then mark again.
	parent.MarkForDestruction()
	child.MarkForDestruction()
	parent.MarkForDestruction()

	s.ProcessEntityCleanup()
	if parent.Valid() || child.Valid() {
		t.Error("double-marked subtree not fully destroyed")
	}
}

func TestEmptyCleanupIsNoOp(t *testing.T) {
	s := newTestScene(t)
	e := s.CreateEntity().Entity()
	s.ProcessEntityCleanup()
	if !e.Valid() {
		t.Error("unmarked entity destroyed by an empty cleanup pass")
	}
}

func TestStaleHandleAfterDestructionAndReuse(t *testing.T) {
	s := newTestScene(t)
	old := s.CreateEntity().WithName("old").Entity()
	old.MarkForDestruction()
	s.ProcessEntityCleanup()

	// The recycled row must not resurrect the stale handle.
	fresh := s.CreateEntity().WithName("fresh").Entity()
	if fresh.index != old.index {
		t.Fatalf("expected index reuse, got %d and %d", old.index, fresh.index)
	}
	if old.Valid() {
		t.Error("stale handle valid after index reuse")
	}
	if !fresh.Valid() {
		t.Error("fresh handle invalid")
	}
	if got := old.Name(); got != "" {
		t.Errorf("stale handle read name %q through recycled row", got)
	}
}
