// internal/board/index.go
//
// Reflection index for the hidden board.
// Responsibilities:
//   - Direction vocabulary for wave travel (grid is Y-down).
//   - Classify, for every occupied cell and every entering direction, the
//     piece edge the wave meets first: straight, slash or backslash.
//
// The classification works on the piece polygons in half-cell units: the
// wave's travel line through a cell runs at an odd half-unit offset, so
// every crossing with a polygon edge lands on integer coordinates and the
// nearest-edge decision is exact.

package board

import "github.com/orapamine/go-server/internal/geometry"

// Direction is a unit travel direction on the grid.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Delta returns the per-step cell offset. Y grows downward.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

// Opposite returns the reversed direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "right"
	}
}

// EdgeShape is the orientation class of the piece edge a wave meets.
type EdgeShape int

const (
	// EdgeStraight is an axis-aligned face: the wave reverses.
	EdgeStraight EdgeShape = iota
	// EdgeSlash is a 45° face on an x−y=const line: a downward wave
	// deflects rightward (component swap).
	EdgeSlash
	// EdgeBackslash is a 45° face on an x+y=const line: a downward wave
	// deflects leftward (negated component swap).
	EdgeBackslash
)

// Reflect returns the outgoing direction for a wave that entered moving d
// and met an edge of shape s.
func (s EdgeShape) Reflect(d Direction) Direction {
	dx, dy := d.Delta()
	switch s {
	case EdgeSlash:
		dx, dy = dy, dx
	case EdgeBackslash:
		dx, dy = -dy, -dx
	default:
		dx, dy = -dx, -dy
	}
	return fromDelta(dx, dy)
}

func fromDelta(dx, dy int) Direction {
	switch {
	case dy < 0:
		return DirUp
	case dy > 0:
		return DirDown
	case dx < 0:
		return DirLeft
	default:
		return DirRight
	}
}

// cellEntry records which piece covers a cell and, per entering direction,
// the edge shape the wave meets there.
type cellEntry struct {
	piece *PlacedPiece
	edges [4]EdgeShape
}

// edgeShapes classifies the first edge met inside the cell for each of the
// four entering directions.
func edgeShapes(poly geometry.Polygon, c geometry.Cell) [4]EdgeShape {
	var out [4]EdgeShape
	for _, d := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		out[d] = firstEdge(poly, c, d)
	}
	return out
}

// firstEdge finds the polygon edge with the smallest crossing distance
// along the wave's travel line through cell c when entering moving d.
// A tie between edges of different shapes is a corner hit and reverses the
// wave like a straight face. If no edge crosses within the cell the entry
// is unreachable from empty space; it also defaults to straight.
func firstEdge(poly geometry.Polygon, c geometry.Cell, d Direction) EdgeShape {
	dx, dy := d.Delta()
	// Entry point of the travel line on the cell boundary, half-units.
	ex := 2*c.X + 1 - dx
	ey := 2*c.Y + 1 - dy

	best := 3 // beyond the 2-half-unit cell span
	shape := EdgeStraight
	tie := false

	n := len(poly)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		s, es, ok := crossing(a, b, ex, ey, dx, dy)
		if !ok || s > 2 {
			continue
		}
		switch {
		case s < best:
			best, shape, tie = s, es, false
		case s == best && es != shape:
			tie = true
		}
	}
	if tie || best > 2 {
		return EdgeStraight
	}
	return shape
}

// crossing intersects edge a-b with the ray from (ex,ey) along (dx,dy) and
// returns the distance s ≥ 0 in half-units plus the edge's shape class.
// Straight faces lie on even lines and travel lines on odd offsets, so a
// parallel edge never coincides with the ray and every reported crossing is
// an exact integer.
func crossing(a, b geometry.Point, ex, ey, dx, dy int) (s int, shape EdgeShape, ok bool) {
	switch {
	case a.Y == b.Y: // horizontal face
		if dy == 0 {
			return 0, 0, false
		}
		s = (a.Y - ey) * dy
		x := ex // travel is vertical, x fixed
		if s < 0 || !between(x, a.X, b.X) {
			return 0, 0, false
		}
		return s, EdgeStraight, true
	case a.X == b.X: // vertical face
		if dx == 0 {
			return 0, 0, false
		}
		s = (a.X - ex) * dx
		if s < 0 || !between(ey, a.Y, b.Y) {
			return 0, 0, false
		}
		return s, EdgeStraight, true
	case a.X-a.Y == b.X-b.Y: // slash, x−y = const
		k := a.X - a.Y
		if dy != 0 {
			y := ex - k // crossing y on the vertical travel line x=ex
			s = (y - ey) * dy
			if s < 0 || !between(y, a.Y, b.Y) {
				return 0, 0, false
			}
		} else {
			x := k + ey
			s = (x - ex) * dx
			if s < 0 || !between(x, a.X, b.X) {
				return 0, 0, false
			}
		}
		return s, EdgeSlash, true
	default: // backslash, x+y = const
		k := a.X + a.Y
		if dy != 0 {
			y := k - ex
			s = (y - ey) * dy
			if s < 0 || !between(y, a.Y, b.Y) {
				return 0, 0, false
			}
		} else {
			x := k - ey
			s = (x - ex) * dx
			if s < 0 || !between(x, a.X, b.X) {
				return 0, 0, false
			}
		}
		return s, EdgeBackslash, true
	}
}

// between reports v ∈ [lo,hi] for unordered bounds, endpoints included so
// corner hits register on both adjoining edges.
func between(v, p, q int) bool {
	if p > q {
		p, q = q, p
	}
	return p <= v && v <= q
}
