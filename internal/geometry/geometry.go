// internal/geometry/geometry.go
//
// Geometry engine for piece placement.
// Responsibilities:
//   - Exact rotation of piece polygons by multiples of 90°.
//   - Computing the set of grid cells a piece covers at a given anchor and
//     rotation (center-sampling rule).
//
// All arithmetic is integer (half-cell units), so rotation and occupancy
// are exact: no floating point, no epsilons.

package geometry

// Point is a polygon vertex in half-cell units.
type Point struct {
	X int
	Y int
}

// Polygon is an ordered vertex list (closed implicitly).
type Polygon []Point

// Cell is an integer grid cell position.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rotation is a piece orientation in degrees.
type Rotation int

const (
	Rot0   Rotation = 0
	Rot90  Rotation = 90
	Rot180 Rotation = 180
	Rot270 Rotation = 270
)

// ValidRotation reports whether r is one of the four orientations.
func ValidRotation(r Rotation) bool {
	switch r {
	case Rot0, Rot90, Rot180, Rot270:
		return true
	}
	return false
}

// Rotate returns poly rotated about the origin. The four angles substitute
// sin/cos with {0, ±1}: 90° maps (x,y)→(−y,x), 180° negates both axes,
// 270° maps (x,y)→(y,−x).
func Rotate(poly Polygon, r Rotation) Polygon {
	out := make(Polygon, len(poly))
	for i, p := range poly {
		switch r {
		case Rot90:
			out[i] = Point{-p.Y, p.X}
		case Rot180:
			out[i] = Point{-p.X, -p.Y}
		case Rot270:
			out[i] = Point{p.Y, -p.X}
		default:
			out[i] = p
		}
	}
	return out
}

// PlacedPolygon returns the piece's polygon rotated and translated to its
// anchor cell, in absolute half-cell units.
func PlacedPolygon(k PieceKind, anchor Cell, r Rotation) Polygon {
	poly := Rotate(ReferencePolygon(k), r)
	for i := range poly {
		poly[i].X += 2 * anchor.X
		poly[i].Y += 2 * anchor.Y
	}
	return poly
}

// OccupiedCells computes which grid cells the piece covers when placed at
// anchor with rotation r. A cell is occupied iff its center lies inside
// the polygon (even-odd rule); the catalog polygons are laid out so a
// center is never on an edge, making the test exact. The result always has
// exactly CellArea(k) cells.
func OccupiedCells(k PieceKind, anchor Cell, r Rotation) []Cell {
	poly := PlacedPolygon(k, anchor, r)

	minX, maxX := poly[0].X, poly[0].X
	minY, maxY := poly[0].Y, poly[0].Y
	for _, p := range poly[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	var cells []Cell
	for cy := floorDiv(minY, 2); cy*2 < maxY; cy++ {
		for cx := floorDiv(minX, 2); cx*2 < maxX; cx++ {
			// Cell center in half-units: (2cx+1, 2cy+1).
			if pointInPolygon(2*cx+1, 2*cy+1, poly) {
				cells = append(cells, Cell{cx, cy})
			}
		}
	}
	return cells
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// pointInPolygon is the even-odd crossing test with integer arithmetic.
// The comparison against the edge's crossing abscissa is cross-multiplied
// to avoid division. Points on edges never occur for catalog polygons.
func pointInPolygon(px, py int, poly Polygon) bool {
	inside := false
	n := len(poly)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		if (a.Y > py) == (b.Y > py) {
			continue
		}
		// Edge crosses the horizontal line through the point; flip when
		// the crossing lies strictly to the right of the point:
		// px < a.X + (py-a.Y)(b.X-a.X)/(b.Y-a.Y).
		dy := b.Y - a.Y
		lhs := (px - a.X) * dy
		rhs := (py - a.Y) * (b.X - a.X)
		if (dy > 0 && lhs < rhs) || (dy < 0 && lhs > rhs) {
			inside = !inside
		}
	}
	return inside
}
