package domain

import (
	"fmt"
	"math/rand"
	"sort"
)

// BonusKind identifies a one-time track reward.
type BonusKind string

const (
	// BonusLeatherPatch grants a 1x1 patch the mover must sew immediately.
	BonusLeatherPatch BonusKind = "patch"
	// BonusButtons grants buttons.
	BonusButtons BonusKind = "buttons"
)

// Bonus is a one-time reward printed on a track square.
type Bonus struct {
	Kind   BonusKind `json:"kind" yaml:"kind"`
	Amount int       `json:"amount,omitempty" yaml:"amount,omitempty"`
}

// Square is a single time track cell.
type Square struct {
	HasIncome bool
	Income    int // marker amount, paid as-is under IncomeFlat
	Bonus     *Bonus
	Claimed   bool
}

// TrackLayout fixes the markers of a track at construction.
type TrackLayout struct {
	Length  int
	Income  map[int]int   // position -> marker amount
	Bonuses map[int]Bonus // position -> one-time reward
}

// StandardLayout places income markers every six squares from square 5 and
// leather patches on squares 26, 32, 38, 44 and 50, keeping those within length.
func StandardLayout(length int, withPatches bool) TrackLayout {
	layout := TrackLayout{Length: length, Income: map[int]int{}, Bonuses: map[int]Bonus{}}
	for pos := 5; pos <= length; pos += 6 {
		layout.Income[pos] = 1
	}
	if withPatches {
		for pos := 26; pos <= 50 && pos <= length; pos += 6 {
			layout.Bonuses[pos] = Bonus{Kind: BonusLeatherPatch}
		}
	}
	return layout
}

// RandomLayout scatters length/6 income markers and, when requested,
// length/10 leather patches over distinct squares 1..length.
func RandomLayout(length int, withPatches bool, rng *rand.Rand) TrackLayout {
	layout := TrackLayout{Length: length, Income: map[int]int{}, Bonuses: map[int]Bonus{}}
	if length < 1 {
		return layout
	}
	for _, pos := range distinctPositions(length, length/6, rng) {
		layout.Income[pos] = 1
	}
	if withPatches {
		for _, pos := range distinctPositions(length, length/10, rng) {
			layout.Bonuses[pos] = Bonus{Kind: BonusLeatherPatch}
		}
	}
	return layout
}

func distinctPositions(length, n int, rng *rand.Rand) []int {
	picked := make(map[int]struct{}, n)
	out := make([]int, 0, n)
	for len(out) < n && len(out) < length {
		pos := rng.Intn(length) + 1
		if _, ok := picked[pos]; ok {
			continue
		}
		picked[pos] = struct{}{}
		out = append(out, pos)
	}
	return out
}

// Token is a player's marker on the track.
type Token struct {
	Position int
	Arrival  uint64 // move sequence number of the last arrival, 0 before any move
}

// Crossing summarises one token advance. Squares are counted from the origin
// (exclusive) to the destination (inclusive).
type Crossing struct {
	Seat          int
	From          int
	To            int
	IncomeSquares []int // positions of income markers crossed
	MarkerIncome  int   // sum of the crossed marker amounts
	Bonuses       []Bonus
	Clamped       bool // the requested move went past the final square
}

// Squares returns the number of squares crossed.
func (c Crossing) Squares() int {
	return c.To - c.From
}

// Track is the shared time board with one token per seat.
type Track struct {
	squares []Square // index 0..length
	tokens  []Token
	moves   uint64
}

// NewTrack builds a track whose final square is layout.Length.
func NewTrack(layout TrackLayout, players int) (*Track, error) {
	if layout.Length < 1 {
		return nil, fmt.Errorf("%w: track length %d", ErrInvalidSetup, layout.Length)
	}
	if players < 1 {
		return nil, fmt.Errorf("%w: %d players", ErrInvalidSetup, players)
	}
	t := &Track{
		squares: make([]Square, layout.Length+1),
		tokens:  make([]Token, players),
	}
	for pos, amount := range layout.Income {
		if pos < 1 || pos > layout.Length {
			return nil, fmt.Errorf("%w: income marker at %d outside 1..%d", ErrInvalidSetup, pos, layout.Length)
		}
		t.squares[pos].HasIncome = true
		t.squares[pos].Income = amount
	}
	for pos, bonus := range layout.Bonuses {
		if pos < 1 || pos > layout.Length {
			return nil, fmt.Errorf("%w: bonus at %d outside 1..%d", ErrInvalidSetup, pos, layout.Length)
		}
		b := bonus
		t.squares[pos].Bonus = &b
	}
	return t, nil
}

// Length returns the index of the final square.
func (t *Track) Length() int {
	return len(t.squares) - 1
}

// Square returns a copy of the square at pos.
func (t *Track) Square(pos int) Square {
	s := t.squares[pos]
	if s.Bonus != nil {
		b := *s.Bonus
		s.Bonus = &b
	}
	return s
}

// Position returns the seat's token position.
func (t *Track) Position(seat int) int {
	return t.tokens[seat].Position
}

// Token returns the seat's token.
func (t *Track) Token(seat int) Token {
	return t.tokens[seat]
}

// AtEnd reports whether the seat's token reached the final square.
func (t *Track) AtEnd(seat int) bool {
	return t.tokens[seat].Position == t.Length()
}

// AllAtEnd reports whether every token reached the final square.
func (t *Track) AllAtEnd() bool {
	for seat := range t.tokens {
		if !t.AtEnd(seat) {
			return false
		}
	}
	return true
}

// Advance moves the seat's token forward by steps squares, clamped to the final square.
func (t *Track) Advance(seat, steps int) (Crossing, error) {
	if steps < 0 {
		return Crossing{}, fmt.Errorf("%w: negative advance %d", ErrInvalidSetup, steps)
	}
	return t.AdvanceTo(seat, t.tokens[seat].Position+steps), nil
}

// AdvanceTo moves the seat's token to target, clamped to the final square.
// A target at or behind the token leaves it in place.
func (t *Track) AdvanceTo(seat, target int) Crossing {
	tok := &t.tokens[seat]
	c := Crossing{Seat: seat, From: tok.Position, To: tok.Position}
	if target > t.Length() {
		target = t.Length()
		c.Clamped = true
	}
	if target <= tok.Position {
		return c
	}

	for pos := tok.Position + 1; pos <= target; pos++ {
		sq := &t.squares[pos]
		if sq.HasIncome {
			c.IncomeSquares = append(c.IncomeSquares, pos)
			c.MarkerIncome += sq.Income
		}
		if sq.Bonus != nil && !sq.Claimed {
			sq.Claimed = true
			c.Bonuses = append(c.Bonuses, *sq.Bonus)
		}
	}

	t.moves++
	tok.Position = target
	tok.Arrival = t.moves
	c.To = target
	return c
}

// NextAhead returns the position of the closest other token at or ahead of the seat.
func (t *Track) NextAhead(seat int) int {
	own := t.tokens[seat].Position
	best := -1
	for other, tok := range t.tokens {
		if other == seat || tok.Position < own {
			continue
		}
		if best == -1 || tok.Position < best {
			best = tok.Position
		}
	}
	if best == -1 {
		return own
	}
	return best
}

// Order returns the seats still on the track, first to play first: smallest
// position, then the tie-break.
func (t *Track) Order(tie TieBreak) []int {
	seats := make([]int, 0, len(t.tokens))
	for seat := range t.tokens {
		if !t.AtEnd(seat) {
			seats = append(seats, seat)
		}
	}
	sort.SliceStable(seats, func(i, j int) bool {
		a, b := t.tokens[seats[i]], t.tokens[seats[j]]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if tie == TieBreakLastArrival && a.Arrival != b.Arrival {
			return a.Arrival > b.Arrival
		}
		return seats[i] < seats[j]
	})
	return seats
}

// Active returns the seat that plays next, or false when every token is at the end.
func (t *Track) Active(tie TieBreak) (int, bool) {
	order := t.Order(tie)
	if len(order) == 0 {
		return 0, false
	}
	return order[0], true
}
