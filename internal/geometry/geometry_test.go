package geometry

import "testing"

var rotations = []Rotation{Rot0, Rot90, Rot180, Rot270}

func TestCellAreaInvariantAllKindsAllRotations(t *testing.T) {
	anchors := []Cell{{0, 0}, {3, 2}, {-5, 7}}
	for _, k := range Kinds() {
		for _, r := range rotations {
			for _, a := range anchors {
				cells := OccupiedCells(k, a, r)
				if len(cells) != CellArea(k) {
					t.Fatalf("%s rot=%d anchor=%v: got %d cells %v, want %d",
						k, r, a, len(cells), cells, CellArea(k))
				}
			}
		}
	}
}

func TestOccupiedCellsDistinct(t *testing.T) {
	for _, k := range Kinds() {
		for _, r := range rotations {
			seen := map[Cell]bool{}
			for _, c := range OccupiedCells(k, Cell{0, 0}, r) {
				if seen[c] {
					t.Fatalf("%s rot=%d: duplicate cell %v", k, r, c)
				}
				seen[c] = true
			}
		}
	}
}

func TestFullTurnRestoresOccupancy(t *testing.T) {
	for _, k := range Kinds() {
		base := ReferencePolygon(k)
		poly := base
		for i := 0; i < 4; i++ {
			poly = Rotate(poly, Rot90)
		}
		for i := range base {
			if poly[i] != base[i] {
				t.Fatalf("%s: four 90° turns changed vertex %d: %v != %v",
					k, i, poly[i], base[i])
			}
		}
	}
}

func TestRotateComposition(t *testing.T) {
	// Two 90° turns must equal one 180° turn.
	for _, k := range Kinds() {
		twice := Rotate(Rotate(ReferencePolygon(k), Rot90), Rot90)
		once := Rotate(ReferencePolygon(k), Rot180)
		for i := range once {
			if twice[i] != once[i] {
				t.Fatalf("%s: 90+90 != 180 at vertex %d", k, i)
			}
		}
	}
}

func TestOccupiedCellsTranslateWithAnchor(t *testing.T) {
	base := OccupiedCells(LargeTriangleA, Cell{0, 0}, Rot0)
	moved := OccupiedCells(LargeTriangleA, Cell{4, 3}, Rot0)
	if len(base) != len(moved) {
		t.Fatalf("cell counts differ: %d vs %d", len(base), len(moved))
	}
	want := map[Cell]bool{}
	for _, c := range base {
		want[Cell{c.X + 4, c.Y + 3}] = true
	}
	for _, c := range moved {
		if !want[c] {
			t.Fatalf("cell %v not a translation of the unanchored set", c)
		}
	}
}

func TestKnownOccupancies(t *testing.T) {
	cases := []struct {
		kind PieceKind
		want map[Cell]bool
	}{
		{LargeTriangleA, cellSet(Cell{0, 0}, Cell{1, 0}, Cell{2, 0}, Cell{1, 1})},
		{MediumTriangle, cellSet(Cell{0, 0}, Cell{1, 0})},
		{SmallTriangle, cellSet(Cell{0, 0})},
		{Square, cellSet(Cell{0, 0}, Cell{0, 1})},
		{Parallelogram, cellSet(Cell{0, 0}, Cell{1, 0})},
		{PetroleumBlock, cellSet(Cell{0, 0}, Cell{0, 1})},
	}
	for _, tc := range cases {
		got := OccupiedCells(tc.kind, Cell{0, 0}, Rot0)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.kind, got, tc.want)
		}
		for _, c := range got {
			if !tc.want[c] {
				t.Fatalf("%s: unexpected cell %v (want %v)", tc.kind, c, tc.want)
			}
		}
	}
}

func cellSet(cells ...Cell) map[Cell]bool {
	m := make(map[Cell]bool, len(cells))
	for _, c := range cells {
		m[c] = true
	}
	return m
}

func TestValidators(t *testing.T) {
	if !ValidKind(Square) || ValidKind(PieceKind("hexagon")) {
		t.Fatal("ValidKind misclassified")
	}
	if !ValidRotation(Rot270) || ValidRotation(Rotation(45)) {
		t.Fatal("ValidRotation misclassified")
	}
}
