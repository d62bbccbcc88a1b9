package domain

import "fmt"

// Patch is an immutable catalog entry. Rotating a patch yields an oriented
// Shape, never a new Patch.
type Patch struct {
	ID     int
	Shape  Shape
	Cost   int // buttons
	Time   int // track squares to advance
	Income int // buttons paid on income squares while sewn on a board
	Asset  string
}

// NewPatch validates catalog values and returns the patch.
func NewPatch(id int, shape Shape, cost, time, income int, asset string) (Patch, error) {
	switch {
	case cost < 0:
		return Patch{}, fmt.Errorf("%w: patch %d: cost %d < 0", ErrMalformedPatch, id, cost)
	case time < 0:
		return Patch{}, fmt.Errorf("%w: patch %d: time %d < 0", ErrMalformedPatch, id, time)
	case income < 0:
		return Patch{}, fmt.Errorf("%w: patch %d: income %d < 0", ErrMalformedPatch, id, income)
	case shape.Width() == 0 || shape.Height() == 0:
		return Patch{}, fmt.Errorf("%w: patch %d: empty shape", ErrMalformedPatch, id)
	}
	return Patch{ID: id, Shape: shape, Cost: cost, Time: time, Income: income, Asset: asset}, nil
}

// BonusPatch is the 1x1 leather patch granted by track bonus squares.
func BonusPatch() Patch {
	return Patch{ID: BonusPatchID, Shape: MustParseShape("#")}
}

// CostsMoreThan10 groups expensive patches for display and scoring summaries.
func (p Patch) CostsMoreThan10() bool {
	return p.Cost >= 10
}

// Equal compares patches by id.
func (p Patch) Equal(other Patch) bool {
	return p.ID == other.ID
}

// Oriented returns the patch shape after the given clockwise quarter turns.
func (p Patch) Oriented(rotation int) (Shape, error) {
	return p.Shape.Rotated(rotation)
}

func (p Patch) String() string {
	return fmt.Sprintf("#%d %d/%d/%d\n%s", p.ID, p.Cost, p.Time, p.Income, p.Shape)
}

// ValidateCatalog rejects duplicate ids among the given patches.
func ValidateCatalog(patches []Patch) error {
	seen := make(map[int]struct{}, len(patches))
	for _, p := range patches {
		if p.ID == BonusPatchID {
			return fmt.Errorf("%w: id %d is reserved", ErrMalformedPatch, p.ID)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: duplicate id %d", ErrMalformedPatch, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
