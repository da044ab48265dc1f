package colony

import (
	"errors"
	"math/rand"

	"formicarium/internal/sim"
)

// Activity is the ant's persistent goal mode.
type Activity uint8

const (
	// Foraging ants search the grid for a morsel.
	Foraging Activity = iota
	// Carrying ants bring one unit of food back to the nest.
	Carrying
)

func (a Activity) String() string {
	if a == Carrying {
		return "carrying"
	}
	return "foraging"
}

// Scent is the trail scent the ant lays while in this activity: a foraging
// ant marks the way back to the colony it came from, a carrying ant marks
// the way to the food it found.
func (a Activity) Scent() sim.Scent {
	if a == Carrying {
		return sim.ScentFood
	}
	return sim.ScentColony
}

// TargetKind is the entity kind the activity seeks.
func (a Activity) TargetKind() sim.Kind {
	if a == Carrying {
		return sim.KindNest
	}
	return sim.KindMorsel
}

// TargetScent is the scent that leads to the activity's target.
func (a Activity) TargetScent() sim.Scent {
	if a == Carrying {
		return sim.ScentColony
	}
	return sim.ScentFood
}

// Role is the ephemeral per-tick role that resolves trail write contention
// between ants sharing a tile. Every ant starts each tick as a Follower;
// the environment promotes the single winning writer of a contested tile.
type Role uint8

const (
	Follower Role = iota
	Leader
)

func (r Role) String() string {
	if r == Leader {
		return "leader"
	}
	return "follower"
}

// ErrNoNeighborhood reports a React call without a neighborhood view. It is
// an integration error of the scheduler, never a runtime condition.
var ErrNoNeighborhood = errors.New("colony: ant reacted without a neighborhood")

// AntParams are the per-ant tunables taken from the colony configuration.
type AntParams struct {
	// MemoryCapacity is the number of visited locations the ant remembers.
	MemoryCapacity int
	// MaxConcentration is the trail-marking budget restored whenever the
	// ant reaches a target.
	MaxConcentration int
	// ConcentrationDecay is subtracted from the budget every tick.
	ConcentrationDecay int
	// ReinforceRatio is the positive-feedback bonus applied when
	// strengthening an existing colony-bound marker, as a fraction of the
	// marker's current strength.
	ReinforceRatio float64
}

// Ant is the foraging agent. Each tick it checks its own tile for targets,
// reinforces or lays the trail scent of its activity, wipes misleading
// local trail maxima, and moves one step towards its goal.
type Ant struct {
	id            int64
	location      sim.Location
	nest          sim.Location
	dim           sim.Dimension
	activity      Activity
	role          Role
	concentration int
	memory        *Memory
	params        AntParams
	rng           *rand.Rand
	pending       []sim.Deposit
}

// NewAnt creates a foraging ant born at the nest with a full concentration
// budget.
func NewAnt(id int64, nest sim.Location, dim sim.Dimension, params AntParams, rng *rand.Rand) *Ant {
	return &Ant{
		id:            id,
		location:      nest,
		nest:          nest,
		dim:           dim,
		activity:      Foraging,
		role:          Follower,
		concentration: params.MaxConcentration,
		memory:        NewMemory(params.MemoryCapacity),
		params:        params,
		rng:           rng,
	}
}

func (a *Ant) ID() int64 {
	return a.id
}

func (a *Ant) Kind() sim.Kind {
	return sim.KindAnt
}

func (a *Ant) Location() sim.Location {
	return a.location
}

// Activity reports the ant's current goal mode, for presentation and
// statistics.
func (a *Ant) Activity() Activity {
	return a.activity
}

// Role reports the ant's role during the last tick.
func (a *Ant) Role() Role {
	return a.role
}

// Concentration is the remaining trail-marking budget.
func (a *Ant) Concentration() int {
	return a.concentration
}

// Remembers reports whether the ant recently visited the location.
func (a *Ant) Remembers(loc sim.Location) bool {
	return a.memory.Contains(loc)
}

// React runs one decision cycle against the committed neighborhood view.
func (a *Ant) React(n *sim.Neighborhood) error {
	if n == nil {
		return ErrNoNeighborhood
	}
	a.role = Follower
	a.memory.Insert(a.location)

	a.assessTargets(n)
	a.reinforceTrail(n)
	a.suppressTrail(n)
	a.moveTowards(a.activity.TargetKind(), n)
	return nil
}

// Offspring drains the trail deposits emitted during the last React.
func (a *Ant) Offspring() []sim.Deposit {
	out := a.pending
	a.pending = nil
	return out
}

// PromoteLeader is called by the environment when this ant wins a contested
// deposit resolution; the role resets to Follower on the next React.
func (a *Ant) PromoteLeader() {
	a.role = Leader
}

// assessTargets handles arrival at a nest or morsel sharing the ant's own
// tile: food drop-off, pickup, the activity switch and the concentration
// reset that standing on any target grants.
func (a *Ant) assessTargets(n *sim.Neighborhood) {
	for _, ent := range n.Center().Entities() {
		switch target := ent.(type) {
		case *Nest:
			if a.activity == Carrying {
				target.Store()
				a.activity = Foraging
				a.memory.Clear()
			}
			a.concentration = a.params.MaxConcentration
		case *Morsel:
			if a.activity == Foraging && target.Take() {
				a.activity = Carrying
				a.memory.Clear()
			}
			a.concentration = a.params.MaxConcentration
		}
	}
}

// reinforceTrail strengthens the marker of the activity's scent on the
// ant's own tile, or claims a fresh deposit when the tile has none and the
// ant still has budget. The environment commits at most one claim per tile
// and scent each tick.
func (a *Ant) reinforceTrail(n *sim.Neighborhood) {
	a.concentration -= a.params.ConcentrationDecay
	if a.concentration < 0 {
		a.concentration = 0
	}

	scent := a.activity.Scent()
	if marker, ok := n.Center().Trail(scent); ok {
		increase := a.concentration
		if scent == sim.ScentColony {
			// positive feedback on return paths that already proved out
			increase += int(float64(marker.Strength()) * a.params.ReinforceRatio)
		}
		marker.SetStrength(marker.Strength() + increase)
		return
	}

	if a.concentration > 0 {
		a.pending = append(a.pending, sim.Deposit{
			Scent:    scent,
			Location: a.location,
			Strength: a.concentration,
		})
	}
}

// suppressTrail wipes the target-bound marker on the ant's own tile when it
// is strictly stronger than every same-scent marker in the ring and no
// target is in sight: such a local maximum attracts other ants into a dead
// end.
func (a *Ant) suppressTrail(n *sim.Neighborhood) {
	if n.ContainsKind(a.activity.TargetKind()) {
		return
	}

	scent := a.activity.TargetScent()
	marker, ok := n.Center().Trail(scent)
	if !ok {
		return
	}

	best := 0
	for _, tile := range n.Ring() {
		if m, ok := tile.Trail(scent); ok && m.Strength() > best {
			best = m.Strength()
		}
	}
	if marker.Strength() > best {
		marker.SetStrength(0)
	}
}

// moveTowards advances the ant a single step towards the given target kind:
// straight at a visible target, along the strongest unremembered trail of
// the target's scent, homeward by dead reckoning when carrying or lost, or
// randomly otherwise.
func (a *Ant) moveTowards(kind sim.Kind, n *sim.Neighborhood) {
	dest, ok := a.visibleTarget(kind, n)
	if !ok {
		dest, ok = a.strongestTrail(kind, n)
	}

	switch {
	case ok:
		a.location = a.location.TranslateTowards(dest, a.dim)
	case a.activity == Carrying || a.isLost(n):
		a.moveTowardsNest()
	default:
		a.moveRandomly()
	}
}

// visibleTarget returns the location of the first entity of the given kind
// found in the surrounding ring.
func (a *Ant) visibleTarget(kind sim.Kind, n *sim.Neighborhood) (sim.Location, bool) {
	for _, tile := range n.Ring() {
		if _, ok := tile.FirstOfKind(kind); ok {
			return tile.Location(), true
		}
	}
	return sim.Location{}, false
}

// strongestTrail returns the ring tile carrying the strongest marker of the
// scent that leads to the given kind, skipping tiles the ant remembers
// visiting to stay out of local maxima it has already explored.
func (a *Ant) strongestTrail(kind sim.Kind, n *sim.Neighborhood) (sim.Location, bool) {
	scent, ok := kind.SeekScent()
	if !ok {
		return sim.Location{}, false
	}

	var dest sim.Location
	best := -1
	for _, tile := range n.Ring() {
		if a.memory.Contains(tile.Location()) {
			continue
		}
		marker, ok := tile.Trail(scent)
		if !ok {
			continue
		}
		if marker.Strength() >= best {
			best = marker.Strength()
			dest = tile.Location()
		}
	}
	if best < 0 {
		return sim.Location{}, false
	}
	return dest, true
}

// isLost reports whether the ant has no marking budget left and no trail of
// any scent on its own tile to rely on.
func (a *Ant) isLost(n *sim.Neighborhood) bool {
	if a.concentration > 0 {
		return false
	}
	for _, ent := range n.Center().Entities() {
		if _, ok := ent.Kind().TrailScent(); ok {
			return false
		}
	}
	return true
}

// moveTowardsNest dead-reckons one step homeward with an inaccuracy
// proportional to the remaining distance: the ant aims at a random point on
// the ring of a uniformly random sub-distance around the nest, so its
// heading sharpens as it closes in.
func (a *Ant) moveTowardsNest() {
	dist := a.location.ManhattanDistance(a.nest, a.dim)
	if dist == 0 {
		return
	}
	offsets := sim.Border(a.rng.Intn(dist))
	aim := a.nest.Translate(offsets[a.rng.Intn(len(offsets))], a.dim)
	a.location = a.location.TranslateTowards(aim, a.dim)
}

// moveRandomly steps to a random adjacent tile, preferring tiles the ant
// does not remember. When every neighbor is remembered it gives up on
// avoidance and takes a fully random step, possibly staying in place.
func (a *Ant) moveRandomly() {
	offsets := sim.Border(sim.SensingRadius)
	a.rng.Shuffle(len(offsets), func(i, j int) {
		offsets[i], offsets[j] = offsets[j], offsets[i]
	})

	for _, off := range offsets {
		loc := a.location.Translate(off, a.dim)
		if !a.memory.Contains(loc) {
			a.location = loc
			return
		}
	}

	off := sim.Offset{X: a.rng.Intn(3) - 1, Y: a.rng.Intn(3) - 1}
	a.location = a.location.Translate(off, a.dim)
}
