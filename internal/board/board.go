// internal/board/board.go
//
// Hidden board: the director's piece layout on a w×h grid.
// Responsibilities:
//   - Validate placements (catalog kind, color, rotation, bounds, overlap).
//   - Maintain an immutable piece set; Place and Remove return new boards.
//   - Index occupied cells so the wave tracer can look up, in O(1), which
//     piece a wave entered and which edge shape it meets.

package board

import (
	"errors"
	"fmt"

	"github.com/orapamine/go-server/internal/geometry"
	"github.com/orapamine/go-server/internal/mixer"
)

var (
	ErrOutOfBounds = errors.New("piece extends outside the board")
	ErrOverlap     = errors.New("piece overlaps an existing piece")
	ErrBadPiece    = errors.New("invalid piece")
)

// PlacedPiece is one piece of the hidden layout. X,Y anchor the piece's
// reference cell; Rotation turns it about that anchor.
type PlacedPiece struct {
	Kind     geometry.PieceKind `json:"kind"`
	Color    mixer.PieceColor   `json:"color"`
	X        int                `json:"x"`
	Y        int                `json:"y"`
	Rotation geometry.Rotation  `json:"rotation"`
}

// Anchor returns the piece's anchor cell.
func (p PlacedPiece) Anchor() geometry.Cell { return geometry.Cell{X: p.X, Y: p.Y} }

// Cells returns the grid cells the piece covers.
func (p PlacedPiece) Cells() []geometry.Cell {
	return geometry.OccupiedCells(p.Kind, p.Anchor(), p.Rotation)
}

// Board is an immutable piece layout. The zero value is unusable; construct
// with New and derive new layouts with Place / Remove.
type Board struct {
	width  int
	height int
	pieces []PlacedPiece
	index  map[geometry.Cell]*cellEntry
}

// New returns an empty board of the given dimensions.
func New(width, height int) (*Board, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("board dimensions %dx%d out of range", width, height)
	}
	return &Board{
		width:  width,
		height: height,
		index:  map[geometry.Cell]*cellEntry{},
	}, nil
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// Pieces returns a copy of the placed pieces in placement order.
func (b *Board) Pieces() []PlacedPiece {
	out := make([]PlacedPiece, len(b.pieces))
	copy(out, b.pieces)
	return out
}

// InBounds reports whether the cell lies on the board.
func (b *Board) InBounds(c geometry.Cell) bool {
	return c.X >= 0 && c.X < b.width && c.Y >= 0 && c.Y < b.height
}

// Validate checks p against the catalog, the board edge and the existing
// pieces. ignore, when non-nil, names a piece exempt from the overlap check
// (used when moving a piece during setup).
func (b *Board) Validate(p PlacedPiece, ignore *PlacedPiece) error {
	if !geometry.ValidKind(p.Kind) {
		return fmt.Errorf("%w: unknown kind %q", ErrBadPiece, p.Kind)
	}
	if !mixer.ValidPieceColor(p.Color) {
		return fmt.Errorf("%w: unknown color %q", ErrBadPiece, p.Color)
	}
	if !geometry.ValidRotation(p.Rotation) {
		return fmt.Errorf("%w: rotation %d", ErrBadPiece, p.Rotation)
	}
	for _, c := range p.Cells() {
		if !b.InBounds(c) {
			return fmt.Errorf("%w: cell (%d,%d)", ErrOutOfBounds, c.X, c.Y)
		}
		if e, taken := b.index[c]; taken {
			if ignore != nil && *e.piece == *ignore {
				continue
			}
			return fmt.Errorf("%w at cell (%d,%d)", ErrOverlap, c.X, c.Y)
		}
	}
	return nil
}

// Place returns a new board with p added. The receiver is unchanged.
func (b *Board) Place(p PlacedPiece) (*Board, error) {
	if err := b.Validate(p, nil); err != nil {
		return nil, err
	}
	nb := b.clone()
	nb.pieces = append(nb.pieces, p)
	nb.addToIndex(&nb.pieces[len(nb.pieces)-1])
	return nb, nil
}

// Remove returns a new board without the first piece matching kind and
// color. Removing an absent piece returns the receiver unchanged.
func (b *Board) Remove(kind geometry.PieceKind, color mixer.PieceColor) *Board {
	at := -1
	for i, p := range b.pieces {
		if p.Kind == kind && p.Color == color {
			at = i
			break
		}
	}
	if at < 0 {
		return b
	}
	nb := &Board{
		width:  b.width,
		height: b.height,
		index:  map[geometry.Cell]*cellEntry{},
	}
	nb.pieces = make([]PlacedPiece, 0, len(b.pieces)-1)
	nb.pieces = append(nb.pieces, b.pieces[:at]...)
	nb.pieces = append(nb.pieces, b.pieces[at+1:]...)
	for i := range nb.pieces {
		nb.addToIndex(&nb.pieces[i])
	}
	return nb
}

// Cells returns a read-only snapshot of every occupied cell and the piece
// covering it, for rendering and serialization.
func (b *Board) Cells() map[geometry.Cell]PlacedPiece {
	out := make(map[geometry.Cell]PlacedPiece, len(b.index))
	for c, e := range b.index {
		out[c] = *e.piece
	}
	return out
}

// PieceAt returns the piece covering the cell, or nil.
func (b *Board) PieceAt(c geometry.Cell) *PlacedPiece {
	if e, ok := b.index[c]; ok {
		return e.piece
	}
	return nil
}

// EdgeAt returns the edge shape a wave meets when it enters cell c moving
// d. The second result is false when the cell is empty.
func (b *Board) EdgeAt(c geometry.Cell, d Direction) (EdgeShape, bool) {
	e, ok := b.index[c]
	if !ok {
		return EdgeStraight, false
	}
	return e.edges[d], true
}

func (b *Board) clone() *Board {
	nb := &Board{
		width:  b.width,
		height: b.height,
		pieces: make([]PlacedPiece, len(b.pieces)),
		index:  make(map[geometry.Cell]*cellEntry, len(b.index)),
	}
	copy(nb.pieces, b.pieces)
	for i := range nb.pieces {
		nb.addToIndex(&nb.pieces[i])
	}
	return nb
}

func (b *Board) addToIndex(p *PlacedPiece) {
	poly := geometry.PlacedPolygon(p.Kind, p.Anchor(), p.Rotation)
	for _, c := range p.Cells() {
		b.index[c] = &cellEntry{piece: p, edges: edgeShapes(poly, c)}
	}
}
