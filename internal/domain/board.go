package domain

import (
	"fmt"
	"strings"
)

// Placement records where a patch was sewn.
type Placement struct {
	Patch    Patch
	Origin   Coordinate
	Rotation int
}

// Board is a player's quilt: a fixed width x height occupancy grid.
// Occupancy is monotonic; a covered cell is never freed.
type Board struct {
	width    int
	height   int
	coverage int    // side of the square area that earns the full coverage bonus
	filled   []bool // row-major
	owner    []int  // patch id per filled cell

	empty        int
	fullCoverage bool
	income       int
	placements   []Placement
}

// NewBoard returns an empty board. coverage is the side of the square area
// checked for the full coverage bonus.
func NewBoard(width, height, coverage int) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: board %dx%d", ErrInvalidSetup, width, height)
	}
	if coverage <= 0 {
		return nil, fmt.Errorf("%w: coverage area %d", ErrInvalidSetup, coverage)
	}
	return &Board{
		width:    width,
		height:   height,
		coverage: coverage,
		filled:   make([]bool, width*height),
		owner:    make([]int, width*height),
		empty:    width * height,
	}, nil
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// EmptyCells returns the number of uncovered cells.
func (b *Board) EmptyCells() int { return b.empty }

// HasFullCoverage reports whether a fully covered square area has ever existed.
func (b *Board) HasFullCoverage() bool { return b.fullCoverage }

// Income sums the income printed on every sewn patch.
func (b *Board) Income() int { return b.income }

// Placements lists sewn patches in placement order.
func (b *Board) Placements() []Placement {
	return append([]Placement(nil), b.placements...)
}

// Occupied reports whether the cell is covered. Out of bounds counts as covered.
func (b *Board) Occupied(c Coordinate) bool {
	if !c.InBounds(b.width, b.height) {
		return true
	}
	return b.filled[c.Row*b.width+c.Col]
}

// CellOwner returns the id of the patch covering c.
func (b *Board) CellOwner(c Coordinate) (int, bool) {
	if !c.InBounds(b.width, b.height) {
		return 0, false
	}
	i := c.Row*b.width + c.Col
	return b.owner[i], b.filled[i]
}

// CanPlace reports whether the shape's bounding box, translated by origin,
// lies inside the board and every occupied cell lands on an empty one.
// Shapes are rejected, not clipped.
func (b *Board) CanPlace(shape Shape, origin Coordinate) bool {
	if origin.Row < 0 || origin.Col < 0 ||
		origin.Row+shape.Height() > b.height || origin.Col+shape.Width() > b.width {
		return false
	}
	for _, cell := range shape.Cells() {
		if b.Occupied(cell.Add(origin)) {
			return false
		}
	}
	return true
}

// Place sews a patch. Callers are expected to check CanPlace first; an
// illegal placement returns ErrIllegalPlacement and leaves the board untouched.
func (b *Board) Place(shape Shape, patchID int, origin Coordinate) error {
	if !b.CanPlace(shape, origin) {
		return fmt.Errorf("%w: patch %d at %s", ErrIllegalPlacement, patchID, origin)
	}
	for _, cell := range shape.Cells() {
		at := cell.Add(origin)
		i := at.Row*b.width + at.Col
		b.filled[i] = true
		b.owner[i] = patchID
		b.empty--
	}
	if !b.fullCoverage {
		b.fullCoverage = b.scanFullCoverage()
	}
	return nil
}

// Sew places an oriented patch and records it for income and display.
func (b *Board) Sew(p Patch, origin Coordinate, rotation int) error {
	shape, err := p.Oriented(rotation)
	if err != nil {
		return err
	}
	if err := b.Place(shape, p.ID, origin); err != nil {
		return err
	}
	b.income += p.Income
	b.placements = append(b.placements, Placement{Patch: p, Origin: origin, Rotation: rotation})
	return nil
}

// HasRoom reports whether the patch fits anywhere in any orientation.
func (b *Board) HasRoom(p Patch) bool {
	shape := p.Shape
	for rot := 0; rot <= MaxRotation; rot++ {
		for r := 0; r <= b.height-shape.Height(); r++ {
			for c := 0; c <= b.width-shape.Width(); c++ {
				if b.CanPlace(shape, Coordinate{Row: r, Col: c}) {
					return true
				}
			}
		}
		shape = shape.Rotate()
	}
	return false
}

// Grid returns a copy of the occupancy matrix.
func (b *Board) Grid() [][]bool {
	grid := make([][]bool, b.height)
	for r := range grid {
		grid[r] = make([]bool, b.width)
		for c := range grid[r] {
			grid[r][c] = b.filled[r*b.width+c]
		}
	}
	return grid
}

func (b *Board) scanFullCoverage() bool {
	n := b.coverage
	if n > b.width || n > b.height {
		return false
	}
	if b.width*b.height-b.empty < n*n {
		return false
	}
	for top := 0; top+n <= b.height; top++ {
		for left := 0; left+n <= b.width; left++ {
			if b.windowCovered(top, left, n) {
				return true
			}
		}
	}
	return false
}

func (b *Board) windowCovered(top, left, n int) bool {
	for r := top; r < top+n; r++ {
		for c := left; c < left+n; c++ {
			if !b.filled[r*b.width+c] {
				return false
			}
		}
	}
	return true
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.height; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.width; c++ {
			if b.filled[r*b.width+c] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
