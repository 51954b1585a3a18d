// internal/wave/tracer.go
//
// Elastic wave tracer.
// Responsibilities:
//   - Walk a wave cell by cell from its entry label until it exits the
//     board, is absorbed by petroleum, or exceeds the reflection cap.
//   - Accumulate the wave's color through the mixer as pieces are hit.
//   - Record the traveled path as straight segments for replay in clients.
//
// The tracer only reads the board; all geometry decisions were precomputed
// into the board's reflection index.

package wave

import (
	"github.com/orapamine/go-server/internal/board"
	"github.com/orapamine/go-server/internal/geometry"
	"github.com/orapamine/go-server/internal/mixer"
)

// Outcome is how a trace ended.
type Outcome string

const (
	// OutcomeExited: the wave left the board through a border position.
	OutcomeExited Outcome = "exited"
	// OutcomeAbsorbed: the wave hit a petroleum block and never exits.
	OutcomeAbsorbed Outcome = "absorbed"
	// OutcomeReflectionLimit: the reflection cap was hit. Closed loops are
	// geometrically possible with enough mirrored faces, so this is a
	// terminal outcome rather than an error.
	OutcomeReflectionLimit Outcome = "reflection_limit"
)

// Segment is one straight leg of the wave's path, inclusive of both cells,
// carrying the wave's color while traveling it.
type Segment struct {
	From  geometry.Cell   `json:"from"`
	To    geometry.Cell   `json:"to"`
	Color mixer.WaveColor `json:"color"`
}

// Result is the full account of one traced wave.
type Result struct {
	Entry       string          `json:"entry"`
	Exit        string          `json:"exit,omitempty"`
	Color       mixer.WaveColor `json:"color"`
	Outcome     Outcome         `json:"outcome"`
	Reflections int             `json:"reflections"`
	Path        []Segment       `json:"path"`
}

// Options tune a trace.
type Options struct {
	// MaxReflections caps the number of edge hits before the trace is cut
	// off. Zero selects the default of 4*(w+h).
	MaxReflections int
	// Rule selects the white-piece mixing behavior.
	Rule mixer.Rule
}

// Trace fires a wave into the board at the given entry label.
func Trace(b *board.Board, label string, opts Options) (Result, error) {
	w, h := b.Width(), b.Height()
	entry, dir, err := DecodeLabel(label, w, h)
	if err != nil {
		return Result{}, err
	}
	maxRefl := opts.MaxReflections
	if maxRefl <= 0 {
		maxRefl = 4 * (w + h)
	}

	res := Result{Entry: label}
	var m mixer.Mixture

	pos := entry
	dx, dy := dir.Delta()
	pos.X -= dx // virtual start one step outside the border
	pos.Y -= dy
	segStart := entry

	for {
		dx, dy = dir.Delta()
		pos.X += dx
		pos.Y += dy

		if !b.InBounds(pos) {
			res.Path = append(res.Path, Segment{From: segStart, To: prevCell(pos, dir), Color: m.Color()})
			res.Exit = EncodeExit(pos, w, h)
			res.Color = m.Color()
			res.Outcome = OutcomeExited
			return res, nil
		}

		shape, hit := b.EdgeAt(pos, dir)
		if !hit {
			continue
		}
		piece := b.PieceAt(pos)
		res.Path = append(res.Path, Segment{From: segStart, To: pos, Color: m.Color()})
		m.Add(piece.Color, opts.Rule)
		if m.Absorbed() {
			res.Color = m.Color()
			res.Outcome = OutcomeAbsorbed
			return res, nil
		}

		res.Reflections++
		if res.Reflections > maxRefl {
			res.Color = m.Color()
			res.Outcome = OutcomeReflectionLimit
			return res, nil
		}
		dir = shape.Reflect(dir)
		segStart = pos
	}
}

// prevCell steps one cell back against the travel direction.
func prevCell(c geometry.Cell, d board.Direction) geometry.Cell {
	dx, dy := d.Delta()
	return geometry.Cell{X: c.X - dx, Y: c.Y - dy}
}
