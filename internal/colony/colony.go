package colony

import (
	"fmt"

	"formicarium/internal/sim"
)

// Params describes a complete colony setup.
type Params struct {
	// Dimension is the size of the toroidal grid.
	Dimension sim.Dimension
	// NestLocation places the single nest.
	NestLocation sim.Location
	// Ants is the number of ants born at the nest.
	Ants int
	// AntParams tunes every ant identically.
	AntParams AntParams
	// Morsels is the number of food piles scattered over the grid.
	Morsels int
	// MorselSupply is the food units each pile holds.
	MorselSupply int
	// Seed drives all randomness, making a run reproducible.
	Seed int64
}

// Colony owns the environment and the entities of one simulation run.
type Colony struct {
	env    *sim.Environment
	nest   *Nest
	ants   []*Ant
	supply uint64
}

// New builds the environment, the nest, the ants born at the nest and the
// morsels scattered at seeded-random locations.
func New(params Params) (*Colony, error) {
	if params.Ants <= 0 {
		return nil, fmt.Errorf("colony: ant count must be positive, got %d", params.Ants)
	}
	if params.Morsels < 0 {
		return nil, fmt.Errorf("colony: morsel count must be non-negative, got %d", params.Morsels)
	}
	if !params.Dimension.Contains(params.NestLocation) {
		return nil, fmt.Errorf("colony: nest location %v outside grid %dx%d",
			params.NestLocation, params.Dimension.Width, params.Dimension.Height)
	}

	env, err := sim.NewEnvironment(params.Dimension, params.Seed)
	if err != nil {
		return nil, err
	}

	nest := NewNest(env.NextID(), params.NestLocation)
	if err := env.Insert(nest); err != nil {
		return nil, fmt.Errorf("colony: placing nest: %w", err)
	}

	ants := make([]*Ant, 0, params.Ants)
	for i := 0; i < params.Ants; i++ {
		ant := NewAnt(env.NextID(), params.NestLocation, params.Dimension, params.AntParams, env.Rand())
		if err := env.Insert(ant); err != nil {
			return nil, fmt.Errorf("colony: placing ant: %w", err)
		}
		ants = append(ants, ant)
	}

	rng := env.Rand()
	for i := 0; i < params.Morsels; i++ {
		loc := sim.Location{
			X: rng.Intn(params.Dimension.Width),
			Y: rng.Intn(params.Dimension.Height),
		}
		morsel := NewMorsel(env.NextID(), loc, params.MorselSupply)
		if err := env.Insert(morsel); err != nil {
			return nil, fmt.Errorf("colony: placing morsel: %w", err)
		}
	}

	supply := uint64(params.Morsels) * uint64(params.MorselSupply)
	return &Colony{env: env, nest: nest, ants: ants, supply: supply}, nil
}

// Step advances the simulation by one generation.
func (c *Colony) Step() error {
	return c.env.Step()
}

// Generation is the number of completed steps.
func (c *Colony) Generation() uint64 {
	return c.env.Generation()
}

// Dimension is the grid size.
func (c *Colony) Dimension() sim.Dimension {
	return c.env.Dimension()
}

// Stored is the food delivered to the nest so far.
func (c *Colony) Stored() uint64 {
	return c.nest.Storage()
}

// TotalSupply is the grand total of food the run started with.
func (c *Colony) TotalSupply() uint64 {
	return c.supply
}

// Over reports whether every unit of food has been brought home.
func (c *Colony) Over() bool {
	return c.Stored() == c.TotalSupply()
}

// Counts tallies ants per activity.
func (c *Colony) Counts() (foraging, carrying int) {
	for _, ant := range c.ants {
		if ant.Activity() == Carrying {
			carrying++
		} else {
			foraging++
		}
	}
	return foraging, carrying
}

// Ants exposes the agents for presentation.
func (c *Colony) Ants() []*Ant {
	return c.ants
}

// Nest exposes the nest for presentation.
func (c *Colony) Nest() *Nest {
	return c.nest
}

// Morsels lists the remaining food piles.
func (c *Colony) Morsels() []*Morsel {
	var out []*Morsel
	for _, ent := range c.env.Statics() {
		if morsel, ok := ent.(*Morsel); ok && morsel.Strength() > 0 {
			out = append(out, morsel)
		}
	}
	return out
}

// Trails lists the live scent markers in a stable order.
func (c *Colony) Trails() []*sim.TrailMarker {
	return c.env.Trails()
}

// TrailCount is the number of live scent markers.
func (c *Colony) TrailCount() int {
	return c.env.TrailCount()
}
