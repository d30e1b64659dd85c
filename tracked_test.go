package kiroku_test

import (
	"testing"

	"github.com/edwinsyarief/kiroku"
)

// --- Test Components ---
type Position struct{ X, Y float32 }
type Velocity struct{ VX, VY float32 }
type Health struct{ Current, Max int }
type UnregisteredComponent struct{}

// --- Test Suite Setup ---
func setupWorld(_ *testing.T) *kiroku.World {
	kiroku.ResetGlobalRegistry()
	kiroku.RegisterComponent[Position]()
	kiroku.RegisterComponent[Velocity]()
	kiroku.RegisterComponent[Health]()
	return kiroku.NewWorld(64)
}

// flagsFor collects the three tracker readings for one entity. The found
// result is false if no tracker query yielded the entity at all.
func flagsFor[T any](t *testing.T, w *kiroku.World, e kiroku.Entity) (added, mutated, changed, found bool) {
	t.Helper()
	qa := kiroku.NewAdded[T](w)
	for qa.Next() {
		if qa.Entity() == e {
			added = qa.Get()
			found = true
		}
	}
	qm := kiroku.NewMutated[T](w)
	for qm.Next() {
		if qm.Entity() == e {
			mutated = qm.Get()
		}
	}
	qc := kiroku.NewChanged[T](w)
	for qc.Next() {
		if qc.Entity() == e {
			changed = qc.Get()
		}
	}
	return added, mutated, changed, found
}

// go test -run ^TestAddedAfterCreate$ . -count 1
func TestAddedAfterCreate(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()
	kiroku.SetComponent(world, e, Position{X: 123})

	added, mutated, changed, found := flagsFor[Position](t, world, e)
	if !found {
		t.Fatal("entity with Position not yielded by tracker queries")
	}
	if !added {
		t.Error("expected Added to read true for a freshly attached component")
	}
	if mutated {
		t.Error("expected Mutated to read false before any exclusive access")
	}
	if !changed {
		t.Error("expected Changed to read true for a freshly attached component")
	}

	q := kiroku.NewAdded[Position](world)
	for q.Next() {
		if q.Entity() == e && q.Value().X != 123 {
			t.Errorf("expected Value().X == 123, got %v", q.Value().X)
		}
	}
}

// go test -run ^TestClearTrackersResetsFlags$ . -count 1
func TestClearTrackersResetsFlags(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()
	kiroku.SetComponent(world, e, Position{X: 123})

	world.ClearTrackers()

	added, mutated, changed, found := flagsFor[Position](t, world, e)
	if !found {
		t.Fatal("entity with Position not yielded by tracker queries")
	}
	if added || mutated || changed {
		t.Errorf("expected all flags false after ClearTrackers, got added=%v mutated=%v changed=%v", added, mutated, changed)
	}
}

// go test -run ^TestMutatedAfterWrite$ . -count 1
func TestMutatedAfterWrite(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()
	kiroku.SetComponent(world, e, Position{X: 123})
	world.ClearTrackers()

	p, ok := kiroku.GetComponentMut[Position](world, e)
	if !ok {
		t.Fatal("GetComponentMut failed to find the component")
	}
	p.X = 42

	q := kiroku.NewChanged[Position](world)
	for q.Next() {
		if q.Entity() != e {
			continue
		}
		if q.Value().X != 42 {
			t.Errorf("expected Value().X == 42, got %v", q.Value().X)
		}
		if !q.Get() {
			t.Error("expected Changed to read true after an exclusive write")
		}
	}

	added, mutated, _, _ := flagsFor[Position](t, world, e)
	if added {
		t.Error("expected Added to read false for a component that was only written")
	}
	if !mutated {
		t.Error("expected Mutated to read true after an exclusive write")
	}
}

// go test -run ^TestFlagsStayClearedAfterSecondReset$ . -count 1
func TestFlagsStayClearedAfterSecondReset(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()
	kiroku.SetComponent(world, e, Position{X: 123})
	world.ClearTrackers()

	p, _ := kiroku.GetComponentMut[Position](world, e)
	p.X = 42
	world.ClearTrackers()

	_, _, changed, found := flagsFor[Position](t, world, e)
	if !found {
		t.Fatal("entity with Position not yielded by tracker queries")
	}
	if changed {
		t.Error("expected Changed to read false again after a second ClearTrackers")
	}
}

// go test -run ^TestMutatedRegardlessOfValueChange$ . -count 1
func TestMutatedRegardlessOfValueChange(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()
	kiroku.SetComponent(world, e, Position{X: 7})
	world.ClearTrackers()

	// Obtain a write-capable pointer but store the same value.
	p, _ := kiroku.GetComponentMut[Position](world, e)
	p.X = 7

	_, mutated, _, _ := flagsFor[Position](t, world, e)
	if !mutated {
		t.Error("expected Mutated to read true even when the value did not change")
	}
}

// go test -run ^TestAbsentComponentExcludesArchetype$ . -count 1
func TestAbsentComponentExcludesArchetype(t *testing.T) {
	world := setupWorld(t)
	f := world.CreateEntity()
	kiroku.SetComponent(world, f, Position{X: 1})
	g := world.CreateEntity()
	kiroku.SetComponent(world, g, Position{X: 2})
	kiroku.SetComponent(world, g, Velocity{VX: 3})

	q := kiroku.NewAdded[Velocity](world)
	for q.Next() {
		if q.Entity() == f {
			t.Fatal("entity without Velocity must never appear in Added[Velocity] results")
		}
	}

	_, _, _, found := flagsFor[Velocity](t, world, f)
	if found {
		t.Error("expected trackers to exclude the archetype lacking the component, not yield false")
	}
	_, _, _, found = flagsFor[Velocity](t, world, g)
	if !found {
		t.Error("expected trackers to yield the entity that has the component")
	}
}

// go test -run ^TestChangedMatchesAddedOrMutated$ . -count 1
func TestChangedMatchesAddedOrMutated(t *testing.T) {
	world := setupWorld(t)

	// untouched since reset
	e1 := world.CreateEntity()
	kiroku.SetComponent(world, e1, Position{})
	// mutated only
	e2 := world.CreateEntity()
	kiroku.SetComponent(world, e2, Position{})
	world.ClearTrackers()
	p, _ := kiroku.GetComponentMut[Position](world, e2)
	p.Y = 1
	// added only
	e3 := world.CreateEntity()
	kiroku.SetComponent(world, e3, Position{})
	// added and mutated
	e4 := world.CreateEntity()
	kiroku.SetComponent(world, e4, Position{})
	p, _ = kiroku.GetComponentMut[Position](world, e4)
	p.Y = 2

	for _, e := range []kiroku.Entity{e1, e2, e3, e4} {
		added, mutated, changed, found := flagsFor[Position](t, world, e)
		if !found {
			t.Fatalf("entity %v not yielded by tracker queries", e)
		}
		if changed != (added || mutated) {
			t.Errorf("entity %v: changed=%v but added=%v mutated=%v", e, changed, added, mutated)
		}
	}
}

// go test -run ^TestFlagsSurviveArchetypeMove$ . -count 1
func TestFlagsSurviveArchetypeMove(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()
	kiroku.SetComponent(world, e, Position{X: 5})
	world.ClearTrackers()

	p, _ := kiroku.GetComponentMut[Position](world, e)
	p.X = 6

	// Moving the entity to the (Position, Velocity) archetype must carry the
	// Position flags along with the data.
	v, ok := kiroku.AddComponent[Velocity](world, e)
	if !ok {
		t.Fatal("failed to add Velocity")
	}
	v.VX = 1

	added, mutated, _, found := flagsFor[Position](t, world, e)
	if !found {
		t.Fatal("entity not yielded by Position trackers after archetype move")
	}
	if added {
		t.Error("expected Position to stay not-added across the move")
	}
	if !mutated {
		t.Error("expected Position mutated flag to survive the archetype move")
	}

	added, mutated, _, _ = flagsFor[Velocity](t, world, e)
	if !added {
		t.Error("expected the newly attached Velocity to read added")
	}
	if mutated {
		t.Error("expected the newly attached Velocity to read not-mutated")
	}

	got, _ := kiroku.GetComponent[Position](world, e)
	if got.X != 6 {
		t.Errorf("Position data corrupted by archetype move, got %v", got.X)
	}
}

// go test -run ^TestFlagsFollowSwapRemove$ . -count 1
func TestFlagsFollowSwapRemove(t *testing.T) {
	world := setupWorld(t)
	e1 := world.CreateEntity()
	kiroku.SetComponent(world, e1, Position{X: 1})
	e2 := world.CreateEntity()
	kiroku.SetComponent(world, e2, Position{X: 2})
	e3 := world.CreateEntity()
	kiroku.SetComponent(world, e3, Position{X: 3})
	world.ClearTrackers()

	p, _ := kiroku.GetComponentMut[Position](world, e3)
	p.X = 30

	// Removing e1 swaps the last row (e3) into its place; e3's flags must
	// travel with it.
	world.RemoveEntity(e1)

	_, mutated, _, found := flagsFor[Position](t, world, e3)
	if !found {
		t.Fatal("swapped entity not yielded by trackers")
	}
	if !mutated {
		t.Error("expected mutated flag to follow the swapped row")
	}
	_, mutated, _, _ = flagsFor[Position](t, world, e2)
	if mutated {
		t.Error("expected untouched entity to stay not-mutated after the swap")
	}
	got, _ := kiroku.GetComponent[Position](world, e3)
	if got.X != 30 {
		t.Errorf("expected swapped row to keep its data, got %v", got.X)
	}
}

// go test -run ^TestSetComponentExistingMarksMutated$ . -count 1
func TestSetComponentExistingMarksMutated(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()
	kiroku.SetComponent(world, e, Position{X: 1})
	world.ClearTrackers()

	kiroku.SetComponent(world, e, Position{X: 2})

	added, mutated, _, _ := flagsFor[Position](t, world, e)
	if added {
		t.Error("overwriting an existing component must not mark it added")
	}
	if !mutated {
		t.Error("overwriting an existing component must mark it mutated")
	}
}

// go test -run ^TestAddComponentExistingMarksMutated$ . -count 1
func TestAddComponentExistingMarksMutated(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()
	kiroku.SetComponent(world, e, Position{X: 1})
	world.ClearTrackers()

	// AddComponent on an entity that already has the component hands out a
	// write-capable pointer to the existing value.
	if _, ok := kiroku.AddComponent[Position](world, e); !ok {
		t.Fatal("AddComponent failed on existing component")
	}

	_, mutated, _, _ := flagsFor[Position](t, world, e)
	if !mutated {
		t.Error("expected existing component to be marked mutated by AddComponent")
	}
}

// go test -run ^TestReadsDoNotSetFlags$ . -count 1
func TestReadsDoNotSetFlags(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()
	kiroku.SetComponent(world, e, Position{X: 1})
	world.ClearTrackers()

	if _, ok := kiroku.GetComponent[Position](world, e); !ok {
		t.Fatal("GetComponent failed")
	}
	f := kiroku.NewFilter[Position](world)
	for f.Next() {
		_ = f.Get()
	}
	// Tracker reads themselves must not set flags either.
	q := kiroku.NewChanged[Position](world)
	for q.Next() {
		_ = q.Get()
		_ = q.Value()
	}

	_, _, changed, _ := flagsFor[Position](t, world, e)
	if changed {
		t.Error("expected reads to leave all flags untouched")
	}
}

// go test -run ^TestFilterMutGetMarksMutated$ . -count 1
func TestFilterMutGetMarksMutated(t *testing.T) {
	world := setupWorld(t)
	e := world.CreateEntity()
	kiroku.SetComponent(world, e, Position{X: 1})
	world.ClearTrackers()

	f := kiroku.NewFilterMut[Position](world)
	for f.Next() {
		f.Get().X += 1
	}

	_, mutated, _, _ := flagsFor[Position](t, world, e)
	if !mutated {
		t.Error("expected FilterMut.Get to mark the row mutated")
	}
}

// go test -run ^TestClearTrackersCoversAllArchetypes$ . -count 1
func TestClearTrackersCoversAllArchetypes(t *testing.T) {
	world := setupWorld(t)
	e1 := world.CreateEntity()
	kiroku.SetComponent(world, e1, Position{})
	e2 := world.CreateEntity()
	kiroku.SetComponent(world, e2, Position{})
	kiroku.SetComponent(world, e2, Velocity{})
	e3 := world.CreateEntity()
	kiroku.SetComponent(world, e3, Health{Current: 10})

	// No tracker query has touched these archetypes before the reset.
	world.ClearTrackers()

	for _, e := range []kiroku.Entity{e1, e2} {
		if _, _, changed, _ := flagsFor[Position](t, world, e); changed {
			t.Errorf("entity %v: Position flags not cleared", e)
		}
	}
	if _, _, changed, _ := flagsFor[Velocity](t, world, e2); changed {
		t.Error("Velocity flags not cleared")
	}
	if _, _, changed, _ := flagsFor[Health](t, world, e3); changed {
		t.Error("Health flags not cleared")
	}
}
