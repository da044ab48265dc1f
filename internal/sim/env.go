package sim

import (
	"fmt"
	"math/rand"
	"sort"
)

// SensingRadius is the fixed distance at which agents perceive their
// surroundings: the single ring of adjacent tiles.
const SensingRadius = 1

// Environment is the discrete-tick simulation substrate. It owns the torus
// grid, allocates entity identities, schedules every agent exactly once per
// generation, ages trail markers and commits the deposits agents emit.
//
// A generation is the atomic unit of progress: agents react one after the
// other, in stable id order, against the tile index committed at the start
// of the step. The only same-tick write surface is an agent's own tile.
type Environment struct {
	dim    Dimension
	rng    *rand.Rand
	nextID int64
	gen    uint64

	agents []Agent
	static []Entity
	trails map[trailKey]*TrailMarker

	index map[Location][]Entity
}

type trailKey struct {
	location Location
	scent    Scent
}

// NewEnvironment creates an empty grid of the given dimension. The seed
// drives every random decision taken inside the environment.
func NewEnvironment(dim Dimension, seed int64) (*Environment, error) {
	if dim.Width <= 0 || dim.Height <= 0 {
		return nil, fmt.Errorf("invalid grid dimension %dx%d", dim.Width, dim.Height)
	}
	return &Environment{
		dim:    dim,
		rng:    rand.New(rand.NewSource(seed)),
		trails: make(map[trailKey]*TrailMarker),
	}, nil
}

// Dimension returns the size of the grid.
func (e *Environment) Dimension() Dimension {
	return e.dim
}

// Rand is the seeded random source shared by the environment and its
// agents.
func (e *Environment) Rand() *rand.Rand {
	return e.rng
}

// NextID allocates a unique, monotonically increasing entity identity.
func (e *Environment) NextID() int64 {
	e.nextID++
	return e.nextID
}

// Generation is the number of completed steps.
func (e *Environment) Generation() uint64 {
	return e.gen
}

// Insert adds an entity to the grid. Agents are scheduled on every
// following step; ids are expected to be allocated through NextID, which
// keeps the agent schedule in insertion order.
func (e *Environment) Insert(ent Entity) error {
	if !e.dim.Contains(ent.Location()) {
		return fmt.Errorf("entity %d (%s) outside grid bounds at %+v", ent.ID(), ent.Kind(), ent.Location())
	}
	if agent, ok := ent.(Agent); ok {
		e.agents = append(e.agents, agent)
	} else {
		e.static = append(e.static, ent)
	}
	return nil
}

// PlaceTrail creates a marker on the given tile. It is the only write path
// for new markers, so the one-marker-per-scent-per-tile invariant holds by
// construction.
func (e *Environment) PlaceTrail(scent Scent, loc Location, strength int) (*TrailMarker, error) {
	if !e.dim.Contains(loc) {
		return nil, fmt.Errorf("trail marker outside grid bounds at %+v", loc)
	}
	if strength <= 0 {
		return nil, fmt.Errorf("trail marker with non-positive strength %d", strength)
	}
	key := trailKey{location: loc, scent: scent}
	if _, ok := e.trails[key]; ok {
		return nil, fmt.Errorf("duplicate %s marker at %+v", scent, loc)
	}
	marker := &TrailMarker{
		id:       e.NextID(),
		scent:    scent,
		location: loc,
		strength: strength,
	}
	e.trails[key] = marker
	return marker, nil
}

// TrailAt returns the live marker with the given scent on a tile, if any.
func (e *Environment) TrailAt(loc Location, scent Scent) (*TrailMarker, bool) {
	marker, ok := e.trails[trailKey{location: loc, scent: scent}]
	return marker, ok
}

// Trails returns every live marker in a stable order.
func (e *Environment) Trails() []*TrailMarker {
	out := make([]*TrailMarker, 0, len(e.trails))
	for _, marker := range e.trails {
		out = append(out, marker)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// TrailCount is the number of live markers on the grid.
func (e *Environment) TrailCount() int {
	return len(e.trails)
}

// Agents returns the scheduled agents in their stable order.
func (e *Environment) Agents() []Agent {
	return e.agents
}

// Statics returns the non-agent, non-marker entities (nest, morsels).
func (e *Environment) Statics() []Entity {
	return e.static
}

// EntitiesAt lists all entities currently occupying a tile.
func (e *Environment) EntitiesAt(loc Location) []Entity {
	e.rebuildIndex()
	return e.index[loc]
}

// NeighborhoodAt builds the view the given agent would receive on the next
// step. Exposed for agent-level tests; Step builds views internally.
func (e *Environment) NeighborhoodAt(agent Agent) *Neighborhood {
	e.rebuildIndex()
	return e.neighborhood(agent)
}

// Step advances the environment by one generation: every agent reacts once
// in stable order, markers age by one unit, and the deposits emitted during
// the step are resolved and committed. An error means an invariant was
// violated and the environment state is no longer trustworthy.
func (e *Environment) Step() error {
	e.rebuildIndex()

	type claim struct {
		agent   Agent
		deposit Deposit
	}
	var claims []claim
	for _, agent := range e.agents {
		if err := agent.React(e.neighborhood(agent)); err != nil {
			return fmt.Errorf("agent %d react at generation %d: %w", agent.ID(), e.gen, err)
		}
		deposits := agent.Offspring()
		if len(deposits) > 1 {
			return fmt.Errorf("agent %d emitted %d trail markers in a single generation", agent.ID(), len(deposits))
		}
		for _, dep := range deposits {
			claims = append(claims, claim{agent: agent, deposit: dep})
		}
	}

	// markers age by one unit per generation, independent of any agent
	for key, marker := range e.trails {
		marker.SetStrength(marker.Strength() - 1)
		if marker.Strength() == 0 {
			delete(e.trails, key)
		}
	}

	// spent food sources leave the grid the same way expired markers do;
	// a lingering empty morsel would keep attracting foraging ants
	kept := e.static[:0]
	for _, ent := range e.static {
		if p, ok := ent.(Perishable); ok && p.Strength() == 0 {
			continue
		}
		kept = append(kept, ent)
	}
	e.static = kept

	// Writer resolution: for every tile and scent the claimant with the
	// lowest id wins, independent of the order agents were scheduled in.
	// The winner of a contested tile is the tick's leader.
	winners := make(map[trailKey]claim)
	contested := make(map[trailKey]bool)
	for _, c := range claims {
		key := trailKey{location: c.deposit.Location, scent: c.deposit.Scent}
		prev, ok := winners[key]
		if !ok {
			winners[key] = c
			continue
		}
		contested[key] = true
		if c.agent.ID() < prev.agent.ID() {
			winners[key] = c
		}
	}
	// commit in grid order so marker ids only depend on the seed
	keys := make([]trailKey, 0, len(winners))
	for key := range winners {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.location.Y != b.location.Y {
			return a.location.Y < b.location.Y
		}
		if a.location.X != b.location.X {
			return a.location.X < b.location.X
		}
		return a.scent < b.scent
	})
	for _, key := range keys {
		c := winners[key]
		if _, ok := e.trails[key]; ok {
			continue
		}
		if c.deposit.Strength <= 0 {
			continue
		}
		if _, err := e.PlaceTrail(key.scent, key.location, c.deposit.Strength); err != nil {
			return fmt.Errorf("commit trail deposit: %w", err)
		}
		if contested[key] {
			c.agent.PromoteLeader()
		}
	}

	e.gen++
	return nil
}

func (e *Environment) rebuildIndex() {
	e.index = make(map[Location][]Entity, len(e.static)+len(e.agents)+len(e.trails))
	for _, ent := range e.static {
		e.index[ent.Location()] = append(e.index[ent.Location()], ent)
	}
	for _, marker := range e.Trails() {
		e.index[marker.Location()] = append(e.index[marker.Location()], marker)
	}
	for _, agent := range e.agents {
		e.index[agent.Location()] = append(e.index[agent.Location()], agent)
	}
}

// neighborhood builds the agent's view from the current tile index. The
// center tile excludes the agent itself: co-located entities are "the
// others" from the agent's point of view.
func (e *Environment) neighborhood(agent Agent) *Neighborhood {
	at := agent.Location()
	center := Tile{location: at}
	for _, ent := range e.index[at] {
		if ent == Entity(agent) {
			continue
		}
		center.entities = append(center.entities, ent)
	}

	offsets := Border(SensingRadius)
	ring := make([]Tile, 0, len(offsets))
	for _, off := range offsets {
		loc := at.Translate(off, e.dim)
		ring = append(ring, Tile{location: loc, entities: e.index[loc]})
	}
	return &Neighborhood{center: center, ring: ring}
}
