package sim

// Location identifies a single tile of the grid.
type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Offset is a relative displacement between tiles.
type Offset struct {
	X int
	Y int
}

// Dimension is the size of the grid in tiles. The grid is a torus: every
// coordinate wraps around both edges.
type Dimension struct {
	Width  int
	Height int
}

// Tiles returns the total number of tiles in the grid.
func (d Dimension) Tiles() int {
	return d.Width * d.Height
}

// Contains reports whether the location lies within the grid bounds before
// any wrapping is applied.
func (d Dimension) Contains(loc Location) bool {
	return loc.X >= 0 && loc.X < d.Width && loc.Y >= 0 && loc.Y < d.Height
}

// Wrap maps an arbitrary coordinate pair onto the torus.
func (d Dimension) Wrap(loc Location) Location {
	return Location{X: wrap(loc.X, d.Width), Y: wrap(loc.Y, d.Height)}
}

// Translate moves the location by the given offset, wrapping around the
// grid edges.
func (l Location) Translate(off Offset, dim Dimension) Location {
	return dim.Wrap(Location{X: l.X + off.X, Y: l.Y + off.Y})
}

// TranslateTowards moves the location a single step towards dest along the
// shortest wrapped path: at most one unit per axis.
func (l Location) TranslateTowards(dest Location, dim Dimension) Location {
	step := Offset{
		X: sign(shortestDelta(l.X, dest.X, dim.Width)),
		Y: sign(shortestDelta(l.Y, dest.Y, dim.Height)),
	}
	return l.Translate(step, dim)
}

// ManhattanDistance is the wrapped Manhattan distance between two locations.
func (l Location) ManhattanDistance(other Location, dim Dimension) int {
	dx := shortestDelta(l.X, other.X, dim.Width)
	dy := shortestDelta(l.Y, other.Y, dim.Height)
	return abs(dx) + abs(dy)
}

// Border returns every offset at Chebyshev distance exactly magnitude from
// the origin. Border(0) is the zero offset alone.
func Border(magnitude int) []Offset {
	if magnitude <= 0 {
		return []Offset{{}}
	}
	offsets := make([]Offset, 0, 8*magnitude)
	for x := -magnitude; x <= magnitude; x++ {
		for y := -magnitude; y <= magnitude; y++ {
			if abs(x) == magnitude || abs(y) == magnitude {
				offsets = append(offsets, Offset{X: x, Y: y})
			}
		}
	}
	return offsets
}

// shortestDelta returns the signed smallest displacement from a to b along
// a wrapped axis of the given span.
func shortestDelta(a, b, span int) int {
	d := wrap(b-a, span)
	if d > span/2 {
		d -= span
	}
	return d
}

func wrap(v, span int) int {
	m := v % span
	if m < 0 {
		m += span
	}
	return m
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
