package domain

import (
	"fmt"
	"strings"
)

// Coordinate is a (row, column) cell on a board or inside a shape.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add translates c by the given offset.
func (c Coordinate) Add(offset Coordinate) Coordinate {
	return Coordinate{Row: c.Row + offset.Row, Col: c.Col + offset.Col}
}

// InBounds reports whether c lies inside a width x height grid.
func (c Coordinate) InBounds(width, height int) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < height && c.Col < width
}

// IsFirstRow reports whether c is on the top row.
func (c Coordinate) IsFirstRow() bool {
	return c.Row == 0
}

// IsLastRow reports whether c is on the bottom row of a grid with the given height.
func (c Coordinate) IsLastRow(height int) bool {
	return c.Row == height-1
}

// IsStartOfRow reports whether c is the leftmost cell of its row.
func (c Coordinate) IsStartOfRow() bool {
	return c.Col == 0
}

// IsBorder reports whether c sits on the last row or last column.
func (c Coordinate) IsBorder(width, height int) bool {
	return c.Col == width-1 || c.Row == height-1
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// Shape is an immutable width x height matrix of occupied cells, relative to
// the patch origin (top-left corner).
type Shape struct {
	width  int
	height int
	cells  []bool // row-major
}

// NewShape builds a shape from rows of booleans. All rows must share the same length.
func NewShape(rows [][]bool) (Shape, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Shape{}, fmt.Errorf("%w: empty shape", ErrMalformedPatch)
	}
	width := len(rows[0])
	cells := make([]bool, 0, width*len(rows))
	for i, row := range rows {
		if len(row) != width {
			return Shape{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedPatch, i, len(row), width)
		}
		cells = append(cells, row...)
	}
	return Shape{width: width, height: len(rows), cells: cells}, nil
}

// ParseShape reads a textual shape where '#' or '1' marks an occupied cell and
// '.' or '0' an empty one.
func ParseShape(lines []string) (Shape, error) {
	rows := make([][]bool, 0, len(lines))
	for i, line := range lines {
		row := make([]bool, 0, len(line))
		for _, r := range line {
			switch r {
			case '#', '1':
				row = append(row, true)
			case '.', '0':
				row = append(row, false)
			default:
				return Shape{}, fmt.Errorf("%w: line %d: unexpected %q", ErrMalformedPatch, i, r)
			}
		}
		rows = append(rows, row)
	}
	return NewShape(rows)
}

// MustParseShape is ParseShape for literals known to be valid.
func MustParseShape(lines ...string) Shape {
	s, err := ParseShape(lines)
	if err != nil {
		panic(err)
	}
	return s
}

// Width returns the number of columns.
func (s Shape) Width() int { return s.width }

// Height returns the number of rows.
func (s Shape) Height() int { return s.height }

// At reports whether the cell at row r, column c is occupied. Out of range is empty.
func (s Shape) At(r, c int) bool {
	if r < 0 || c < 0 || r >= s.height || c >= s.width {
		return false
	}
	return s.cells[r*s.width+c]
}

// Area returns the number of occupied cells.
func (s Shape) Area() int {
	n := 0
	for _, v := range s.cells {
		if v {
			n++
		}
	}
	return n
}

// Cells lists the occupied offsets in row-major order.
func (s Shape) Cells() []Coordinate {
	out := make([]Coordinate, 0, len(s.cells))
	for r := 0; r < s.height; r++ {
		for c := 0; c < s.width; c++ {
			if s.cells[r*s.width+c] {
				out = append(out, Coordinate{Row: r, Col: c})
			}
		}
	}
	return out
}

// Rotate returns the shape turned 90 degrees clockwise.
// The new cell (r, c) is the old cell (height-1-c, r).
func (s Shape) Rotate() Shape {
	out := Shape{width: s.height, height: s.width, cells: make([]bool, len(s.cells))}
	for r := 0; r < out.height; r++ {
		for c := 0; c < out.width; c++ {
			out.cells[r*out.width+c] = s.At(s.height-1-c, r)
		}
	}
	return out
}

// Rotated applies steps clockwise quarter turns. Valid steps are 0..MaxRotation.
func (s Shape) Rotated(steps int) (Shape, error) {
	if steps < 0 || steps > MaxRotation {
		return Shape{}, fmt.Errorf("%w: %d", ErrInvalidRotation, steps)
	}
	out := s
	for i := 0; i < steps; i++ {
		out = out.Rotate()
	}
	return out, nil
}

// Equal reports whether both shapes have the same dimensions and cells.
func (s Shape) Equal(other Shape) bool {
	if s.width != other.width || s.height != other.height {
		return false
	}
	for i := range s.cells {
		if s.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns a copy of the matrix, for read-only views.
func (s Shape) Rows() [][]bool {
	rows := make([][]bool, s.height)
	for r := range rows {
		rows[r] = append([]bool(nil), s.cells[r*s.width:(r+1)*s.width]...)
	}
	return rows
}

func (s Shape) String() string {
	var b strings.Builder
	for r := 0; r < s.height; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < s.width; c++ {
			if s.At(r, c) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}
