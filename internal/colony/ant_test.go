package colony

import (
	"errors"
	"testing"

	"formicarium/internal/sim"
)

func newTestEnv(t *testing.T) *sim.Environment {
	t.Helper()
	env, err := sim.NewEnvironment(sim.Dimension{Width: 10, Height: 10}, 42)
	if err != nil {
		t.Fatalf("new environment: %v", err)
	}
	return env
}

func newTestAnt(t *testing.T, env *sim.Environment, at sim.Location, params AntParams) *Ant {
	t.Helper()
	ant := NewAnt(env.NextID(), at, env.Dimension(), params, env.Rand())
	if err := env.Insert(ant); err != nil {
		t.Fatalf("insert ant: %v", err)
	}
	return ant
}

func defaultParams() AntParams {
	return AntParams{
		MemoryCapacity:     5,
		MaxConcentration:   10,
		ConcentrationDecay: 2,
		ReinforceRatio:     0.1,
	}
}

func TestReactRequiresNeighborhood(t *testing.T) {
	env := newTestEnv(t)
	ant := newTestAnt(t, env, sim.Location{X: 5, Y: 5}, defaultParams())

	if err := ant.React(nil); !errors.Is(err, ErrNoNeighborhood) {
		t.Fatalf("got %v, want ErrNoNeighborhood", err)
	}
}

func TestConcentrationFloorsAtZero(t *testing.T) {
	env := newTestEnv(t)
	params := defaultParams()
	params.MaxConcentration = 1
	params.ConcentrationDecay = 5
	ant := newTestAnt(t, env, sim.Location{X: 5, Y: 5}, params)

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}
	if got := ant.Concentration(); got != 0 {
		t.Fatalf("concentration: got %d, want 0", got)
	}
	if deposits := ant.Offspring(); len(deposits) != 0 {
		t.Fatalf("ant with no budget emitted %d deposits", len(deposits))
	}
}

func TestPickupTogglesActivity(t *testing.T) {
	env := newTestEnv(t)
	at := sim.Location{X: 5, Y: 5}
	ant := newTestAnt(t, env, at, defaultParams())
	morsel := NewMorsel(env.NextID(), at, 1)
	if err := env.Insert(morsel); err != nil {
		t.Fatalf("insert morsel: %v", err)
	}

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}

	if ant.Activity() != Carrying {
		t.Fatalf("activity after pickup: got %s, want carrying", ant.Activity())
	}
	if got := morsel.Strength(); got != 0 {
		t.Fatalf("morsel supply after pickup: got %d, want 0", got)
	}
	// pickup refills the budget before the per-tick decay applies
	if got, want := ant.Concentration(), 10-2; got != want {
		t.Fatalf("concentration after pickup: got %d, want %d", got, want)
	}
	// the memory reset happens after the current tile was recorded
	if ant.Remembers(at) {
		t.Fatalf("memory should be cleared on pickup")
	}

	deposits := ant.Offspring()
	if len(deposits) != 1 {
		t.Fatalf("got %d deposits, want 1", len(deposits))
	}
	if deposits[0].Scent != sim.ScentFood {
		t.Fatalf("carrying ant should claim a food marker, got %s", deposits[0].Scent)
	}
	if deposits[0].Location != at || deposits[0].Strength != 8 {
		t.Fatalf("unexpected deposit %+v", deposits[0])
	}
}

func TestExhaustedMorselDoesNotTriggerPickup(t *testing.T) {
	env := newTestEnv(t)
	at := sim.Location{X: 5, Y: 5}
	ant := newTestAnt(t, env, at, defaultParams())
	if err := env.Insert(NewMorsel(env.NextID(), at, 0)); err != nil {
		t.Fatalf("insert morsel: %v", err)
	}

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}
	if ant.Activity() != Foraging {
		t.Fatalf("activity: got %s, want foraging", ant.Activity())
	}
	// standing on any target still refills the budget
	if got, want := ant.Concentration(), 10-2; got != want {
		t.Fatalf("concentration: got %d, want %d", got, want)
	}
}

func TestDeliveryStoresFood(t *testing.T) {
	env := newTestEnv(t)
	at := sim.Location{X: 5, Y: 5}
	ant := newTestAnt(t, env, at, defaultParams())
	ant.activity = Carrying
	nest := NewNest(env.NextID(), at)
	if err := env.Insert(nest); err != nil {
		t.Fatalf("insert nest: %v", err)
	}

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}

	if got := nest.Storage(); got != 1 {
		t.Fatalf("nest storage: got %d, want 1", got)
	}
	if ant.Activity() != Foraging {
		t.Fatalf("activity after delivery: got %s, want foraging", ant.Activity())
	}
	if ant.Remembers(at) {
		t.Fatalf("memory should be cleared on delivery")
	}
}

func TestForagingAntAtNestDoesNotStore(t *testing.T) {
	env := newTestEnv(t)
	at := sim.Location{X: 5, Y: 5}
	ant := newTestAnt(t, env, at, defaultParams())
	nest := NewNest(env.NextID(), at)
	if err := env.Insert(nest); err != nil {
		t.Fatalf("insert nest: %v", err)
	}

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}
	if got := nest.Storage(); got != 0 {
		t.Fatalf("nest storage: got %d, want 0", got)
	}
	if ant.Activity() != Foraging {
		t.Fatalf("activity: got %s, want foraging", ant.Activity())
	}
}

func TestReinforceColonyMarkerWithBonus(t *testing.T) {
	env := newTestEnv(t)
	at := sim.Location{X: 5, Y: 5}
	ant := newTestAnt(t, env, at, defaultParams())
	marker, err := env.PlaceTrail(sim.ScentColony, at, 100)
	if err != nil {
		t.Fatalf("place trail: %v", err)
	}

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}

	// budget after decay plus one tenth of the existing strength
	if got, want := marker.Strength(), 100+8+10; got != want {
		t.Fatalf("marker strength: got %d, want %d", got, want)
	}
	if deposits := ant.Offspring(); len(deposits) != 0 {
		t.Fatalf("reinforcing ant should not claim a new deposit")
	}
}

func TestReinforceFoodMarkerWithoutBonus(t *testing.T) {
	env := newTestEnv(t)
	at := sim.Location{X: 5, Y: 5}
	ant := newTestAnt(t, env, at, defaultParams())
	ant.activity = Carrying
	marker, err := env.PlaceTrail(sim.ScentFood, at, 100)
	if err != nil {
		t.Fatalf("place trail: %v", err)
	}

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}
	if got, want := marker.Strength(), 100+8; got != want {
		t.Fatalf("marker strength: got %d, want %d", got, want)
	}
}

func TestSuppressWipesLocalMaximum(t *testing.T) {
	env := newTestEnv(t)
	at := sim.Location{X: 5, Y: 5}
	ant := newTestAnt(t, env, at, defaultParams())
	// a food marker with no stronger neighbor misleads foraging ants
	marker, err := env.PlaceTrail(sim.ScentFood, at, 50)
	if err != nil {
		t.Fatalf("place trail: %v", err)
	}

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}
	if got := marker.Strength(); got != 0 {
		t.Fatalf("local maximum should be wiped, got strength %d", got)
	}
}

func TestSuppressSkipsWhenStrongerNeighborExists(t *testing.T) {
	env := newTestEnv(t)
	at := sim.Location{X: 5, Y: 5}
	ant := newTestAnt(t, env, at, defaultParams())
	marker, err := env.PlaceTrail(sim.ScentFood, at, 50)
	if err != nil {
		t.Fatalf("place trail: %v", err)
	}
	if _, err := env.PlaceTrail(sim.ScentFood, sim.Location{X: 6, Y: 5}, 60); err != nil {
		t.Fatalf("place neighbor trail: %v", err)
	}

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}
	if got := marker.Strength(); got == 0 {
		t.Fatalf("marker on an ascending gradient should survive")
	}
}

func TestSuppressSkipsWhenTargetVisible(t *testing.T) {
	env := newTestEnv(t)
	at := sim.Location{X: 5, Y: 5}
	ant := newTestAnt(t, env, at, defaultParams())
	marker, err := env.PlaceTrail(sim.ScentFood, at, 50)
	if err != nil {
		t.Fatalf("place trail: %v", err)
	}
	if err := env.Insert(NewMorsel(env.NextID(), sim.Location{X: 6, Y: 5}, 3)); err != nil {
		t.Fatalf("insert morsel: %v", err)
	}

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}
	if got := marker.Strength(); got == 0 {
		t.Fatalf("marker next to a live target should survive")
	}
}

func TestMovesTowardsVisibleMorsel(t *testing.T) {
	env := newTestEnv(t)
	ant := newTestAnt(t, env, sim.Location{X: 5, Y: 5}, defaultParams())
	target := sim.Location{X: 6, Y: 5}
	if err := env.Insert(NewMorsel(env.NextID(), target, 3)); err != nil {
		t.Fatalf("insert morsel: %v", err)
	}

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}
	if ant.Location() != target {
		t.Fatalf("location: got %+v, want %+v", ant.Location(), target)
	}
}

func TestFollowsStrongestUnrememberedTrail(t *testing.T) {
	env := newTestEnv(t)
	ant := newTestAnt(t, env, sim.Location{X: 5, Y: 5}, defaultParams())
	weak := sim.Location{X: 4, Y: 4}
	strong := sim.Location{X: 6, Y: 6}
	if _, err := env.PlaceTrail(sim.ScentFood, weak, 5); err != nil {
		t.Fatalf("place weak trail: %v", err)
	}
	if _, err := env.PlaceTrail(sim.ScentFood, strong, 9); err != nil {
		t.Fatalf("place strong trail: %v", err)
	}

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}
	if ant.Location() != strong {
		t.Fatalf("location: got %+v, want %+v", ant.Location(), strong)
	}
}

func TestRememberedTilesAreSkippedWhenFollowingTrails(t *testing.T) {
	env := newTestEnv(t)
	ant := newTestAnt(t, env, sim.Location{X: 5, Y: 5}, defaultParams())
	weak := sim.Location{X: 4, Y: 4}
	strong := sim.Location{X: 6, Y: 6}
	if _, err := env.PlaceTrail(sim.ScentFood, weak, 5); err != nil {
		t.Fatalf("place weak trail: %v", err)
	}
	if _, err := env.PlaceTrail(sim.ScentFood, strong, 9); err != nil {
		t.Fatalf("place strong trail: %v", err)
	}
	ant.memory.Insert(strong)

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}
	if ant.Location() != weak {
		t.Fatalf("location: got %+v, want %+v", ant.Location(), weak)
	}
}

func TestCarryingAntHeadsHomeward(t *testing.T) {
	env := newTestEnv(t)
	nest := sim.Location{X: 5, Y: 5}
	ant := newTestAnt(t, env, nest, defaultParams())
	ant.activity = Carrying
	ant.location = sim.Location{X: 1, Y: 8}

	before := ant.Location()
	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}
	after := ant.Location()

	dim := env.Dimension()
	if after.ManhattanDistance(before, dim) > 2 {
		t.Fatalf("homeward step moved more than one tile per axis: %+v -> %+v", before, after)
	}
}

func TestCarryingAntAtNestLocationStaysPut(t *testing.T) {
	env := newTestEnv(t)
	nest := sim.Location{X: 5, Y: 5}
	ant := newTestAnt(t, env, nest, defaultParams())
	ant.activity = Carrying

	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}
	if ant.Location() != nest {
		t.Fatalf("ant moved off the nest tile to %+v", ant.Location())
	}
}

func TestIsLost(t *testing.T) {
	env := newTestEnv(t)
	at := sim.Location{X: 5, Y: 5}
	ant := newTestAnt(t, env, at, defaultParams())

	ant.concentration = 0
	if !ant.isLost(env.NeighborhoodAt(ant)) {
		t.Fatalf("ant with no budget and no trail should be lost")
	}

	if _, err := env.PlaceTrail(sim.ScentColony, at, 5); err != nil {
		t.Fatalf("place trail: %v", err)
	}
	if ant.isLost(env.NeighborhoodAt(ant)) {
		t.Fatalf("ant standing on a trail is not lost")
	}

	ant.concentration = 3
	if ant.isLost(env.NeighborhoodAt(ant)) {
		t.Fatalf("ant with budget left is not lost")
	}
}

func TestRoleResetsOnReact(t *testing.T) {
	env := newTestEnv(t)
	ant := newTestAnt(t, env, sim.Location{X: 5, Y: 5}, defaultParams())

	ant.PromoteLeader()
	if ant.Role() != Leader {
		t.Fatalf("role after promotion: got %s, want leader", ant.Role())
	}
	if err := ant.React(env.NeighborhoodAt(ant)); err != nil {
		t.Fatalf("react: %v", err)
	}
	if ant.Role() != Follower {
		t.Fatalf("role after react: got %s, want follower", ant.Role())
	}
}
