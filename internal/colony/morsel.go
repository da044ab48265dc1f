package colony

import "formicarium/internal/sim"

// Morsel is a finite food source. Its remaining supply shares the strength
// representation used by trail markers; once exhausted it stops satisfying
// pickups but stays on the grid.
type Morsel struct {
	id       int64
	location sim.Location
	supply   int
}

// NewMorsel creates a food source holding the given supply.
func NewMorsel(id int64, loc sim.Location, supply int) *Morsel {
	if supply < 0 {
		supply = 0
	}
	return &Morsel{id: id, location: loc, supply: supply}
}

func (m *Morsel) ID() int64 {
	return m.id
}

func (m *Morsel) Kind() sim.Kind {
	return sim.KindMorsel
}

func (m *Morsel) Location() sim.Location {
	return m.location
}

// Strength is the remaining supply.
func (m *Morsel) Strength() int {
	return m.supply
}

// SetStrength overwrites the remaining supply, flooring at zero.
func (m *Morsel) SetStrength(v int) {
	if v < 0 {
		v = 0
	}
	m.supply = v
}

// Take removes one unit of supply. It reports false once the morsel is
// exhausted, so co-located ants cannot take more food than the morsel
// actually holds.
func (m *Morsel) Take() bool {
	if m.supply <= 0 {
		return false
	}
	m.supply--
	return true
}
