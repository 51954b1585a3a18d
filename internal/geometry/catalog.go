// internal/geometry/catalog.go
//
// Canonical piece catalog for the Orapa Mine tangram set.
// Declares, for each of the seven piece kinds, the reference polygon in its
// unrotated orientation, the number of grid cells it occupies, and its
// default color tag.
//
// Coordinate conventions:
//   - Coordinates are in HALF-CELL units (one grid cell is 2×2 half-units),
//     so every vertex is an exact integer and rotation never drifts.
//   - X grows rightward, Y grows downward; the anchor cell maps to the
//     half-unit origin.
//   - Straight edges lie on whole-cell lines (even half-units); 45° edges
//     lie on half-cell diagonals (x±y odd). Cell centers sit at odd
//     half-unit pairs, so a center is never on an edge and the
//     center-sampling occupancy rule is exact for every rotation.

package geometry

import "github.com/orapamine/go-server/internal/mixer"

// PieceKind identifies one of the seven tangram pieces.
type PieceKind string

const (
	LargeTriangleA PieceKind = "large_triangle_a"
	LargeTriangleB PieceKind = "large_triangle_b"
	MediumTriangle PieceKind = "medium_triangle"
	SmallTriangle  PieceKind = "small_triangle"
	Square         PieceKind = "square"
	Parallelogram  PieceKind = "parallelogram"
	PetroleumBlock PieceKind = "petroleum"
)

// Kinds lists every piece kind in catalog order.
func Kinds() []PieceKind {
	return []PieceKind{
		LargeTriangleA, LargeTriangleB, MediumTriangle, SmallTriangle,
		Square, Parallelogram, PetroleumBlock,
	}
}

// ValidKind reports whether k names a cataloged piece.
func ValidKind(k PieceKind) bool {
	_, ok := catalog[k]
	return ok
}

type pieceDef struct {
	polygon Polygon
	area    int
	color   mixer.PieceColor
}

// largeTriangle: isosceles right triangle, hypotenuse 4 cells along the
// grid, apex 2 cells high. Both 45° faces lie on half-cell diagonals.
//
//	  /\
//	 /  \
//	/____\
var largeTriangle = Polygon{{-1, 0}, {7, 0}, {3, 4}}

// mediumTriangle: 45°-45°-90° faces with a 3-cell base. The ideal 2√2
// hypotenuse cannot be grid-aligned, so the base is stretched to 3 cells to
// keep both slants on half-cell diagonals; it still covers exactly 2 cells.
var mediumTriangle = Polygon{{-1, 0}, {5, 0}, {2, 3}}

// smallTriangle: legs √2, hypotenuse 2 cells along the grid.
var smallTriangle = Polygon{{-1, 0}, {3, 0}, {1, 2}}

// square: side √2, rotated 45° (a diamond spanning two cells vertically).
//
//	/\
//	\/
var squareDiamond = Polygon{{1, 0}, {3, 2}, {1, 4}, {-1, 2}}

// parallelogram: 2-cell base, 1 cell tall, slanted ends.
//
//	 ____
//	/___/
var parallelogramPoly = Polygon{{-1, 0}, {3, 0}, {5, 2}, {1, 2}}

// petroleumBlock: plain 1×2 rectangle; absorbs any wave that reaches it.
var petroleumBlock = Polygon{{0, 0}, {2, 0}, {2, 4}, {0, 4}}

var catalog = map[PieceKind]pieceDef{
	LargeTriangleA: {largeTriangle, 4, mixer.PieceWhite},
	LargeTriangleB: {largeTriangle, 4, mixer.PieceBlue},
	MediumTriangle: {mediumTriangle, 2, mixer.PieceYellow},
	SmallTriangle:  {smallTriangle, 1, mixer.PieceTransparent},
	Square:         {squareDiamond, 2, mixer.PieceWhite},
	Parallelogram:  {parallelogramPoly, 2, mixer.PieceRed},
	PetroleumBlock: {petroleumBlock, 2, mixer.PieceBlack},
}

// ReferencePolygon returns the piece's unrotated polygon in half-cell
// units. The returned slice is a copy.
func ReferencePolygon(k PieceKind) Polygon {
	def := catalog[k]
	out := make(Polygon, len(def.polygon))
	copy(out, def.polygon)
	return out
}

// CellArea returns the number of grid cells the piece occupies. This is an
// invariant of the kind: OccupiedCells yields exactly this many cells for
// every rotation and anchor.
func CellArea(k PieceKind) int { return catalog[k].area }

// DefaultColor returns the piece's color tag from the physical game set.
// PetroleumBlock is always black (absorbing).
func DefaultColor(k PieceKind) mixer.PieceColor { return catalog[k].color }
