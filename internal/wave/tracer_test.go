package wave

import (
	"errors"
	"testing"

	"github.com/orapamine/go-server/internal/board"
	"github.com/orapamine/go-server/internal/geometry"
	"github.com/orapamine/go-server/internal/mixer"
)

const testW, testH = 10, 8

func emptyBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.New(testW, testH)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func place(t *testing.T, b *board.Board, p board.PlacedPiece) *board.Board {
	t.Helper()
	nb, err := b.Place(p)
	if err != nil {
		t.Fatalf("Place(%+v): %v", p, err)
	}
	return nb
}

func TestDecodeLabelCorners(t *testing.T) {
	cases := []struct {
		label string
		cell  geometry.Cell
		dir   board.Direction
	}{
		{"1", geometry.Cell{X: 0, Y: 0}, board.DirDown},
		{"10", geometry.Cell{X: 9, Y: 0}, board.DirDown},
		{"11", geometry.Cell{X: 0, Y: 0}, board.DirRight},
		{"18", geometry.Cell{X: 0, Y: 7}, board.DirRight},
		{"A", geometry.Cell{X: 0, Y: 7}, board.DirUp},
		{"J", geometry.Cell{X: 9, Y: 7}, board.DirUp},
		{"K", geometry.Cell{X: 9, Y: 0}, board.DirLeft},
		{"R", geometry.Cell{X: 9, Y: 7}, board.DirLeft},
	}
	for _, tc := range cases {
		cell, dir, err := DecodeLabel(tc.label, testW, testH)
		if err != nil {
			t.Fatalf("DecodeLabel(%q): %v", tc.label, err)
		}
		if cell != tc.cell || dir != tc.dir {
			t.Fatalf("DecodeLabel(%q): got %v %v, want %v %v", tc.label, cell, dir, tc.cell, tc.dir)
		}
	}
}

func TestDecodeLabelRejectsUnknown(t *testing.T) {
	for _, label := range []string{"0", "19", "S", "Z", "", "AA", "a", "-3"} {
		if _, _, err := DecodeLabel(label, testW, testH); !errors.Is(err, ErrUnknownLabel) {
			t.Fatalf("DecodeLabel(%q): err=%v, want ErrUnknownLabel", label, err)
		}
	}
}

func TestLabelsCount(t *testing.T) {
	if got := len(Labels(testW, testH)); got != 2*(testW+testH) {
		t.Fatalf("Labels: got %d, want %d", got, 2*(testW+testH))
	}
}

// On an empty board every wave crosses straight through: white, zero
// reflections, and tracing back from the exit returns to the entry.
func TestTraceEmptyBoardIsInvolution(t *testing.T) {
	b := emptyBoard(t)
	for _, label := range Labels(testW, testH) {
		res, err := Trace(b, label, Options{})
		if err != nil {
			t.Fatalf("Trace(%q): %v", label, err)
		}
		if res.Outcome != OutcomeExited || res.Color != mixer.White || res.Reflections != 0 {
			t.Fatalf("Trace(%q): %+v", label, res)
		}
		if res.Exit == label {
			t.Fatalf("Trace(%q): exited through its own entry", label)
		}
		back, err := Trace(b, res.Exit, Options{})
		if err != nil {
			t.Fatalf("Trace(%q): %v", res.Exit, err)
		}
		if back.Exit != label {
			t.Fatalf("round trip %q -> %q -> %q", label, res.Exit, back.Exit)
		}
	}
}

func TestTraceEmptyBoardOppositeEdges(t *testing.T) {
	b := emptyBoard(t)
	cases := map[string]string{
		"1":  "A", // column 0, top to bottom
		"5":  "E",
		"11": "K", // row 0, left to right
		"18": "R",
	}
	for entry, exit := range cases {
		res, err := Trace(b, entry, Options{})
		if err != nil {
			t.Fatalf("Trace(%q): %v", entry, err)
		}
		if res.Exit != exit {
			t.Fatalf("Trace(%q): exit %q, want %q", entry, res.Exit, exit)
		}
	}
}

func TestTraceStraightFaceReversesWave(t *testing.T) {
	b := place(t, emptyBoard(t), board.PlacedPiece{
		Kind: geometry.Parallelogram, Color: mixer.PieceRed, X: 4, Y: 3,
	})
	res, err := Trace(b, "5", Options{}) // column 4, downward, onto the flat top
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if res.Outcome != OutcomeExited || res.Exit != "5" {
		t.Fatalf("want bounce back out of %q, got %+v", "5", res)
	}
	if res.Color != mixer.Red || res.Reflections != 1 {
		t.Fatalf("got color=%q reflections=%d, want red/1", res.Color, res.Reflections)
	}
}

func TestTraceSlantDeflectsNinetyDegrees(t *testing.T) {
	b := place(t, emptyBoard(t), board.PlacedPiece{
		Kind: geometry.LargeTriangleB, Color: mixer.PieceBlue, X: 2, Y: 2,
	})
	// Row 2 from the left hits the triangle's left slant and turns down.
	res, err := Trace(b, "13", Options{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if res.Outcome != OutcomeExited || res.Exit != "C" {
		t.Fatalf("want exit C, got %+v", res)
	}
	if res.Color != mixer.Blue || res.Reflections != 1 {
		t.Fatalf("got color=%q reflections=%d, want blue/1", res.Color, res.Reflections)
	}
	// The path has two legs: in along the row, then down and out.
	if len(res.Path) != 2 {
		t.Fatalf("path legs: got %d, want 2: %+v", len(res.Path), res.Path)
	}
	if res.Path[0].Color != mixer.White || res.Path[1].Color != mixer.Blue {
		t.Fatalf("leg colors: %+v", res.Path)
	}
	if res.Path[1].To != (geometry.Cell{X: 2, Y: 7}) {
		t.Fatalf("final leg ends at %+v, want (2,7)", res.Path[1].To)
	}
}

// A red triangle colors the wave, a white diamond behind it lightens it.
// The drop onto the diamond's top vertex reverses the wave, so it retraces
// its path, clips the triangle's slant once more, and leaves through its
// own entry.
func TestTraceWhitePieceLightens(t *testing.T) {
	b := emptyBoard(t)
	b = place(t, b, board.PlacedPiece{Kind: geometry.LargeTriangleA, Color: mixer.PieceRed, X: 2, Y: 2})
	b = place(t, b, board.PlacedPiece{Kind: geometry.Square, Color: mixer.PieceWhite, X: 2, Y: 5})
	res, err := Trace(b, "13", Options{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if res.Outcome != OutcomeExited || res.Exit != "13" {
		t.Fatalf("want exit 13, got %+v", res)
	}
	if res.Color != mixer.PastelRed || res.Reflections != 3 {
		t.Fatalf("got color=%q reflections=%d, want pastel_red/3", res.Color, res.Reflections)
	}
}

func TestTraceLegacyRuleIgnoresWhite(t *testing.T) {
	b := emptyBoard(t)
	b = place(t, b, board.PlacedPiece{Kind: geometry.LargeTriangleA, Color: mixer.PieceRed, X: 2, Y: 2})
	b = place(t, b, board.PlacedPiece{Kind: geometry.Square, Color: mixer.PieceWhite, X: 2, Y: 5})
	res, err := Trace(b, "13", Options{Rule: mixer.RulePassThrough})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if res.Color != mixer.Red {
		t.Fatalf("legacy rule: got %q, want red", res.Color)
	}
}

func TestTracePetroleumAbsorbs(t *testing.T) {
	b := place(t, emptyBoard(t), board.PlacedPiece{
		Kind: geometry.PetroleumBlock, Color: mixer.PieceBlack, X: 4, Y: 4,
	})
	res, err := Trace(b, "5", Options{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if res.Outcome != OutcomeAbsorbed || res.Exit != "" {
		t.Fatalf("want absorption with no exit, got %+v", res)
	}
}

// Two flat-topped faces trap a wave bouncing vertically between them, so
// the trace must end at the reflection cap instead of spinning forever.
func TestTraceReflectionLimit(t *testing.T) {
	b := emptyBoard(t)
	b = place(t, b, board.PlacedPiece{Kind: geometry.Parallelogram, Color: mixer.PieceRed, X: 5, Y: 2})
	b = place(t, b, board.PlacedPiece{Kind: geometry.Square, Color: mixer.PieceTransparent, X: 5, Y: 5})
	res, err := Trace(b, "P", Options{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if res.Outcome != OutcomeReflectionLimit {
		t.Fatalf("want reflection_limit, got %+v", res)
	}
	if res.Reflections != 4*(testW+testH)+1 {
		t.Fatalf("reflections: got %d, want cap+1=%d", res.Reflections, 4*(testW+testH)+1)
	}
}

func TestTraceCustomReflectionCap(t *testing.T) {
	b := emptyBoard(t)
	b = place(t, b, board.PlacedPiece{Kind: geometry.Parallelogram, Color: mixer.PieceRed, X: 5, Y: 2})
	b = place(t, b, board.PlacedPiece{Kind: geometry.Square, Color: mixer.PieceTransparent, X: 5, Y: 5})
	res, err := Trace(b, "P", Options{MaxReflections: 3})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if res.Outcome != OutcomeReflectionLimit || res.Reflections != 4 {
		t.Fatalf("got %+v, want reflection_limit after 4 hits", res)
	}
}

func TestTraceUnknownLabel(t *testing.T) {
	b := emptyBoard(t)
	if _, err := Trace(b, "Z", Options{}); !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("err=%v, want ErrUnknownLabel", err)
	}
}
