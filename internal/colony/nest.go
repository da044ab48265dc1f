package colony

import (
	"math"

	"formicarium/internal/sim"
)

// Nest is the colony home. Carrying ants drop one unit of food into it on
// arrival; its storage counter never decreases.
type Nest struct {
	id       int64
	location sim.Location
	storage  uint64
}

// NewNest creates an empty nest at the given location.
func NewNest(id int64, loc sim.Location) *Nest {
	return &Nest{id: id, location: loc}
}

func (n *Nest) ID() int64 {
	return n.id
}

func (n *Nest) Kind() sim.Kind {
	return sim.KindNest
}

func (n *Nest) Location() sim.Location {
	return n.location
}

// Store increments the food storage by a single unit, saturating at the
// maximum representable value.
func (n *Nest) Store() {
	if n.storage < math.MaxUint64 {
		n.storage++
	}
}

// Storage is the total amount of food delivered so far.
func (n *Nest) Storage() uint64 {
	return n.storage
}
