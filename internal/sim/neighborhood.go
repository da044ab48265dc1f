package sim

// Tile is the committed content of one grid location at the start of a
// generation.
type Tile struct {
	location Location
	entities []Entity
}

func (t Tile) Location() Location {
	return t.location
}

func (t Tile) Entities() []Entity {
	return t.entities
}

// FirstOfKind returns the first entity of the given kind on the tile.
func (t Tile) FirstOfKind(k Kind) (Entity, bool) {
	for _, ent := range t.entities {
		if ent.Kind() == k {
			return ent, true
		}
	}
	return nil, false
}

// Trail returns the marker with the given scent on this tile, if any.
func (t Tile) Trail(s Scent) (*TrailMarker, bool) {
	ent, ok := t.FirstOfKind(s.TrailKind())
	if !ok {
		return nil, false
	}
	marker, ok := ent.(*TrailMarker)
	return marker, ok
}

// Neighborhood is an agent's view of the grid for one generation: its own
// tile plus the ring of tiles at the sensing radius. The agent may mutate
// entities on the center tile; ring tiles are read-only.
type Neighborhood struct {
	center Tile
	ring   []Tile
}

// Center is the tile the agent stands on, excluding the agent itself.
func (n *Neighborhood) Center() Tile {
	return n.center
}

// Ring holds the tiles at the sensing radius around the center.
func (n *Neighborhood) Ring() []Tile {
	return n.ring
}

// ContainsKind reports whether any tile of the view holds an entity of the
// given kind.
func (n *Neighborhood) ContainsKind(k Kind) bool {
	if _, ok := n.center.FirstOfKind(k); ok {
		return true
	}
	for _, tile := range n.ring {
		if _, ok := tile.FirstOfKind(k); ok {
			return true
		}
	}
	return false
}
