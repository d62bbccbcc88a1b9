package domain

import (
	"errors"
	"reflect"
	"testing"
)

func newTestBoard(t *testing.T, size int) *Board {
	t.Helper()
	b, err := NewBoard(size, size, FullCoverageSize)
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	return b
}

func TestBoardCanPlace(t *testing.T) {
	b := newTestBoard(t, 9)
	if err := b.Place(MustParseShape("##"), 1, Coordinate{Row: 4, Col: 4}); err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	tests := []struct {
		name   string
		shape  Shape
		origin Coordinate
		want   bool
	}{
		{name: "empty corner", shape: MustParseShape("#"), origin: Coordinate{}, want: true},
		{name: "last cell", shape: MustParseShape("#"), origin: Coordinate{Row: 8, Col: 8}, want: true},
		{name: "overlap", shape: MustParseShape("#", "#"), origin: Coordinate{Row: 3, Col: 5}, want: false},
		{name: "hole fits around", shape: MustParseShape("#..#"), origin: Coordinate{Row: 4, Col: 3}, want: true},
		{name: "exceeds right edge", shape: MustParseShape("###"), origin: Coordinate{Row: 0, Col: 7}, want: false},
		{name: "exceeds bottom edge", shape: MustParseShape("#", "#"), origin: Coordinate{Row: 8, Col: 0}, want: false},
		{name: "negative origin", shape: MustParseShape("#"), origin: Coordinate{Row: -1, Col: 0}, want: false},
		{name: "bounding box exceeds edge", shape: MustParseShape("#."), origin: Coordinate{Row: 0, Col: 8}, want: false},
		{name: "no occupied cells", shape: MustParseShape(".."), origin: Coordinate{Row: 8, Col: 7}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.CanPlace(tt.shape, tt.origin); got != tt.want {
				t.Fatalf("CanPlace() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoardRejectedPlacementDoesNotMutate(t *testing.T) {
	b := newTestBoard(t, 9)
	if err := b.Place(MustParseShape("#"), 1, Coordinate{Row: 0, Col: 1}); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	before := b.Grid()

	// second cell collides with the patch at (0,1)
	err := b.Place(MustParseShape("##"), 2, Coordinate{Row: 0, Col: 0})
	if !errors.Is(err, ErrIllegalPlacement) {
		t.Fatalf("Place() error = %v, want ErrIllegalPlacement", err)
	}
	if !reflect.DeepEqual(b.Grid(), before) || b.EmptyCells() != 80 {
		t.Fatalf("rejected placement changed the board:\n%s", b)
	}

	if err := b.Place(MustParseShape("#", "#"), 2, Coordinate{Row: 0, Col: 0}); err != nil {
		t.Fatalf("retry Place() error = %v", err)
	}
	want := map[Coordinate]int{{Row: 0, Col: 1}: 1, {Row: 0, Col: 0}: 2, {Row: 1, Col: 0}: 2}
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			at := Coordinate{Row: r, Col: c}
			owner, ok := b.CellOwner(at)
			wantOwner, wantOK := want[at]
			if ok != wantOK || owner != wantOwner {
				t.Fatalf("CellOwner(%s) = %d, %v; want %d, %v", at, owner, ok, wantOwner, wantOK)
			}
		}
	}
	if b.EmptyCells() != 78 {
		t.Fatalf("EmptyCells() = %d, want 78", b.EmptyCells())
	}
}

func TestBoardEmptyShapeChangesNothing(t *testing.T) {
	b := newTestBoard(t, 9)
	before := b.Grid()

	if err := b.Place(MustParseShape(".."), 5, Coordinate{Row: 8, Col: 7}); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if b.EmptyCells() != 81 || !reflect.DeepEqual(b.Grid(), before) {
		t.Fatalf("empty shape changed the board:\n%s", b)
	}
	if _, ok := b.CellOwner(Coordinate{Row: 8, Col: 7}); ok {
		t.Fatal("CellOwner() reports an owner for an untouched cell")
	}
}

func TestBoardFullCoverageIsSticky(t *testing.T) {
	b := newTestBoard(t, 9)
	block := make([]string, 7)
	for i := range block {
		block[i] = "#######"
	}
	if err := b.Place(MustParseShape(block[:6]...), 1, Coordinate{Row: 1, Col: 1}); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if b.HasFullCoverage() {
		t.Fatal("6x7 area reported as full coverage")
	}
	if err := b.Place(MustParseShape(block[0]), 2, Coordinate{Row: 7, Col: 1}); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if !b.HasFullCoverage() {
		t.Fatalf("7x7 area not detected:\n%s", b)
	}
	if err := b.Place(MustParseShape("#"), 3, Coordinate{Row: 0, Col: 0}); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if !b.HasFullCoverage() {
		t.Fatal("full coverage flag was cleared")
	}
}

func TestBoardSmallerThanCoverageArea(t *testing.T) {
	b, err := NewBoard(5, 5, FullCoverageSize)
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	if err := b.Place(MustParseShape("#####", "#####", "#####", "#####", "#####"), 1, Coordinate{}); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if b.HasFullCoverage() || b.EmptyCells() != 0 {
		t.Fatalf("HasFullCoverage() = %v, EmptyCells() = %d", b.HasFullCoverage(), b.EmptyCells())
	}
}

func TestBoardSewTracksIncome(t *testing.T) {
	b := newTestBoard(t, 9)
	if err := b.Sew(mustPatch(1, 3, 2, 2, "##", "#."), Coordinate{}, 1); err != nil {
		t.Fatalf("Sew() error = %v", err)
	}
	if err := b.Sew(mustPatch(2, 1, 1, 1, "#"), Coordinate{Row: 5, Col: 5}, 0); err != nil {
		t.Fatalf("Sew() error = %v", err)
	}
	if b.Income() != 3 || len(b.Placements()) != 2 {
		t.Fatalf("Income() = %d, placements = %d", b.Income(), len(b.Placements()))
	}
	// rotation 1 of "##/#." is "##/.#"
	if !b.Occupied(Coordinate{Row: 1, Col: 1}) || b.Occupied(Coordinate{Row: 1, Col: 0}) {
		t.Fatalf("rotated patch sewn wrong:\n%s", b)
	}
	if err := b.Sew(mustPatch(3, 0, 0, 5, "#"), Coordinate{}, 0); !errors.Is(err, ErrIllegalPlacement) {
		t.Fatalf("Sew() over occupied cell error = %v", err)
	}
	if b.Income() != 3 {
		t.Fatalf("failed Sew changed income to %d", b.Income())
	}
}

func TestBoardHasRoom(t *testing.T) {
	b, err := NewBoard(3, 3, FullCoverageSize)
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	if err := b.Place(MustParseShape("###", "#..", "###"), 1, Coordinate{}); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	// free cells form a horizontal bar in the middle row
	vertical := mustPatch(2, 0, 0, 0, "#", "#")
	if !b.HasRoom(vertical) {
		t.Fatal("HasRoom() should find the rotated placement")
	}
	if b.HasRoom(mustPatch(3, 0, 0, 0, "###")) {
		t.Fatal("HasRoom() found space for a 3-cell bar")
	}
}
