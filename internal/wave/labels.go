// internal/wave/labels.go
//
// Border label codec. Every wave enters and exits the board at a labeled
// border position:
//   - top edge:    "1".."w"       left to right, wave travels down
//   - left edge:   "w+1".."w+h"   top to bottom, wave travels right
//   - bottom edge: "A".."A+w-1"   left to right, wave travels up
//   - right edge:  "A+w".."A+w+h-1" top to bottom, wave travels left
//
// Letters wrap the numeric range, so the scheme requires w+h ≤ 26.

package wave

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/orapamine/go-server/internal/board"
	"github.com/orapamine/go-server/internal/geometry"
)

var ErrUnknownLabel = errors.New("unknown entry label")

// DecodeLabel resolves a border label to the first cell the wave enters and
// its travel direction on a w×h board.
func DecodeLabel(label string, w, h int) (geometry.Cell, board.Direction, error) {
	if n, err := strconv.Atoi(label); err == nil {
		switch {
		case n >= 1 && n <= w:
			return geometry.Cell{X: n - 1, Y: 0}, board.DirDown, nil
		case n > w && n <= w+h:
			return geometry.Cell{X: 0, Y: n - w - 1}, board.DirRight, nil
		}
		return geometry.Cell{}, 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	if len(label) == 1 && label[0] >= 'A' && label[0] <= 'Z' {
		i := int(label[0] - 'A')
		switch {
		case i < w:
			return geometry.Cell{X: i, Y: h - 1}, board.DirUp, nil
		case i < w+h:
			return geometry.Cell{X: w - 1, Y: i - w}, board.DirLeft, nil
		}
	}
	return geometry.Cell{}, 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
}

// EncodeExit labels the border position a wave left through. c is the first
// cell outside the board after the final step.
func EncodeExit(c geometry.Cell, w, h int) string {
	switch {
	case c.Y < 0:
		return strconv.Itoa(c.X + 1)
	case c.X < 0:
		return strconv.Itoa(w + c.Y + 1)
	case c.Y >= h:
		return string(rune('A' + c.X))
	default:
		return string(rune('A' + w + c.Y))
	}
}

// Labels enumerates every border label: the numeric top and left edges
// first, then the lettered bottom and right edges.
func Labels(w, h int) []string {
	out := make([]string, 0, 2*(w+h))
	for n := 1; n <= w+h; n++ {
		out = append(out, strconv.Itoa(n))
	}
	for i := 0; i < w+h; i++ {
		out = append(out, string(rune('A'+i)))
	}
	return out
}
