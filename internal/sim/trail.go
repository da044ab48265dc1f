package sim

// TrailMarker is a decaying scent deposit pinned to one tile. Markers are
// owned by the environment: agents read and reinforce the markers on their
// own tile, the environment ages every marker by one unit per generation
// and removes it once its strength reaches zero.
type TrailMarker struct {
	id       int64
	scent    Scent
	location Location
	strength int
}

func (m *TrailMarker) ID() int64 {
	return m.id
}

func (m *TrailMarker) Kind() Kind {
	return m.scent.TrailKind()
}

func (m *TrailMarker) Location() Location {
	return m.location
}

// Scent reports what the marker signals.
func (m *TrailMarker) Scent() Scent {
	return m.scent
}

// Strength is the remaining lifetime of the marker.
func (m *TrailMarker) Strength() int {
	return m.strength
}

// SetStrength overwrites the remaining lifetime, flooring at zero.
func (m *TrailMarker) SetStrength(v int) {
	if v < 0 {
		v = 0
	}
	m.strength = v
}
