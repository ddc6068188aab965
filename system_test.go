package arbor

import "testing"

// journal collects call labels so tests can assert order across systems and
// phases.
type journal struct {
	entries []string
}

type physicsSys struct {
	SystemBase
	j     *journal
	order int
}

func (p *physicsSys) Init(*Scene)         { p.j.entries = append(p.j.entries, "physics.init") }
func (p *physicsSys) Cleanup(*Scene)      { p.j.entries = append(p.j.entries, "physics.cleanup") }
func (p *physicsSys) Process(any)         { p.j.entries = append(p.j.entries, "physics.process") }
func (p *physicsSys) ProcessPhysics(any)  { p.j.entries = append(p.j.entries, "physics.physics") }
func (p *physicsSys) ExecutionOrder() int { return p.order }

type guiSys struct {
	SystemBase
	j     *journal
	order int
}

func (g *guiSys) Process(any)         { g.j.entries = append(g.j.entries, "gui.process") }
func (g *guiSys) ProcessGUI(any)      { g.j.entries = append(g.j.entries, "gui.gui") }
func (g *guiSys) ExecutionOrder() int { return g.order }

type zeroSys struct {
	SystemBase
	calls int
}

func (z *zeroSys) Process(any) { z.calls++ }

// --- Registration ---

func TestAddSystemUniquePerType(t *testing.T) {
	s := newTestScene(t)
	if !TryAddSystem[zeroSys](s) {
		t.Fatal("first add failed")
	}
	if TryAddSystem[zeroSys](s) {
		t.Error("duplicate system type accepted")
	}
	if !HasSystem[zeroSys](s) {
		t.Error("HasSystem false after add")
	}
}

func TestAddSystemInstance(t *testing.T) {
	s := newTestScene(t)
	j := &journal{}
	sys := &physicsSys{j: j}
	if !s.TryAddSystemInstance(sys) {
		t.Fatal("instance add failed")
	}
	if len(j.entries) != 1 || j.entries[0] != "physics.init" {
		t.Errorf("journal = %v, want [physics.init]", j.entries)
	}
	// Instance add and generic add share the type key.
	if TryAddSystem[physicsSys](s) {
		t.Error("generic add accepted a type already registered by instance")
	}
}

func TestRemoveSystemRunsCleanup(t *testing.T) {
	s := newTestScene(t)
	j := &journal{}
	s.TryAddSystemInstance(&physicsSys{j: j})

	if !TryRemoveSystem[physicsSys](s) {
		t.Fatal("remove failed")
	}
	if got := j.entries[len(j.entries)-1]; got != "physics.cleanup" {
		t.Errorf("last journal entry = %q, want physics.cleanup", got)
	}
	if HasSystem[physicsSys](s) {
		t.Error("system still registered after removal")
	}
	if TryRemoveSystem[physicsSys](s) {
		t.Error("removing an unregistered system reported success")
	}
}

// --- Dispatch ---

func TestDispatchRespectsExecutionOrder(t *testing.T) {
	s := newTestScene(t)
	j := &journal{}
	// Register out of order; dispatch must sort by ExecutionOrder.
	s.TryAddSystemInstance(&guiSys{j: j, order: 10})
	s.TryAddSystemInstance(&physicsSys{j: j, order: -5})

	j.entries = nil
	s.Process(nil)
	assertOrder(t, j.entries, []string{"physics.process", "gui.process"})
}

func TestDispatchPhasesAreIndependent(t *testing.T) {
	s := newTestScene(t)
	j := &journal{}
	s.TryAddSystemInstance(&physicsSys{j: j})
	s.TryAddSystemInstance(&guiSys{j: j, order: 1})

	j.entries = nil
	s.ProcessPhysics(nil)
	assertOrder(t, j.entries, []string{"physics.physics"})

	j.entries = nil
	s.ProcessGUI(nil)
	assertOrder(t, j.entries, []string{"gui.gui"})
}

func TestDisabledSystemIsSkipped(t *testing.T) {
	s := newTestScene(t)
	sys := &zeroSys{}
	s.TryAddSystemInstance(sys)

	sys.SetEnabled(false)
	s.Process(nil)
	if sys.calls != 0 {
		t.Errorf("disabled system ran %d times", sys.calls)
	}

	sys.SetEnabled(true)
	s.Process(nil)
	if sys.calls != 1 {
		t.Errorf("re-enabled system ran %d times, want 1", sys.calls)
	}
}

func TestTiedExecutionOrderKeepsRegistrationOrder(t *testing.T) {
	s := newTestScene(t)
	j := &journal{}
	s.TryAddSystemInstance(&physicsSys{j: j, order: 3})
	s.TryAddSystemInstance(&guiSys{j: j, order: 3})

	j.entries = nil
	s.Process(nil)
	assertOrder(t, j.entries, []string{"physics.process", "gui.process"})
}

// --- Scheduler mutation guards ---

type selfMutatingSys struct {
	SystemBase
	scene *Scene
}

func (m *selfMutatingSys) Process(any) {
	TryAddSystem[zeroSys](m.scene)
}

func TestAddSystemDuringDispatchPanics(t *testing.T) {
	s := newTestScene(t)
	s.TryAddSystemInstance(&selfMutatingSys{scene: s})

	defer func() {
		if recover() == nil {
			t.Error("scheduler mutation mid-dispatch did not panic")
		}
	}()
	s.Process(nil)
}

func TestSystemsSurviveSceneReload(t *testing.T) {
	s := newScene(nil, "reloadable")
	s.Init(nil)
	sys := &zeroSys{}
	s.TryAddSystemInstance(sys)

	s.Cleanup(nil)
	s.Init(nil)
	defer s.Cleanup(nil)

	if !HasSystem[zeroSys](s) {
		t.Fatal("system lost across teardown and re-init")
	}
	s.Process(nil)
	if sys.calls != 1 {
		t.Errorf("system ran %d times after reload, want 1", sys.calls)
	}
}
