package sim

// Kind enumerates the closed set of entity kinds that can occupy a tile.
type Kind uint8

const (
	KindAnt Kind = iota
	KindNest
	KindMorsel
	KindColonyTrail
	KindFoodTrail
)

func (k Kind) String() string {
	switch k {
	case KindAnt:
		return "ant"
	case KindNest:
		return "nest"
	case KindMorsel:
		return "morsel"
	case KindColonyTrail:
		return "colony-trail"
	case KindFoodTrail:
		return "food-trail"
	default:
		return "unknown"
	}
}

// Scent tags what a trail marker signals.
type Scent uint8

const (
	// ScentColony leads back to the nest.
	ScentColony Scent = iota
	// ScentFood leads to a food source.
	ScentFood
)

func (s Scent) String() string {
	if s == ScentColony {
		return "colony"
	}
	return "food"
}

// TrailKind returns the marker kind that carries the scent.
func (s Scent) TrailKind() Kind {
	if s == ScentColony {
		return KindColonyTrail
	}
	return KindFoodTrail
}

// TrailScent reports the scent carried by a marker kind.
func (k Kind) TrailScent() (Scent, bool) {
	switch k {
	case KindColonyTrail:
		return ScentColony, true
	case KindFoodTrail:
		return ScentFood, true
	default:
		return 0, false
	}
}

// SeekScent reports the scent an agent follows to find entities of kind k.
func (k Kind) SeekScent() (Scent, bool) {
	switch k {
	case KindNest:
		return ScentColony, true
	case KindMorsel:
		return ScentFood, true
	default:
		return 0, false
	}
}

// Entity is anything that occupies a tile of the grid.
type Entity interface {
	ID() int64
	Kind() Kind
	Location() Location
}

// Perishable is an entity whose remaining strength decays or is consumed.
// Trail markers (scent strength) and food sources (remaining supply) share
// this representation; strength never goes below zero.
type Perishable interface {
	Entity
	Strength() int
	SetStrength(int)
}

// Agent is an entity driven by the per-generation scheduler.
type Agent interface {
	Entity

	// React runs one decision cycle against the agent's view of its
	// neighborhood. A nil neighborhood is an integration error and must be
	// reported, not tolerated.
	React(n *Neighborhood) error

	// Offspring drains the trail deposits emitted during the last React.
	// Emitting more than one deposit per generation violates the scheduler
	// contract.
	Offspring() []Deposit

	// PromoteLeader is invoked by the environment when the agent wins a
	// contested deposit resolution for its tile.
	PromoteLeader()
}

// Deposit is a claim to lay a new trail marker, emitted by an agent during
// its React. The environment commits at most one claim per tile and scent
// each generation.
type Deposit struct {
	Scent    Scent
	Location Location
	Strength int
}
