package domain

import (
	"fmt"
	"math/rand"
)

// LayoutKind names how the track markers were placed.
type LayoutKind string

const (
	LayoutStandard LayoutKind = "standard"
	LayoutRandom   LayoutKind = "random"
	LayoutExplicit LayoutKind = "explicit"
)

// Rules holds every tunable of a game. Zero values are not meaningful; start
// from DefaultRules.
type Rules struct {
	Players       int
	BoardWidth    int
	BoardHeight   int
	TrackLength   int
	StartingMoney int

	CoverageSize           int
	EmptyCellPenalty       int
	FullCoverageBonus      int
	FirstArrivalBonus      int
	ExclusiveCoverageBonus bool // only the first player to cover the area scores it

	IncomeRule IncomeRule
	TieBreak   TieBreak

	// Layout overrides the standard track layout when non-nil. LayoutKind
	// records where it came from so a new track length can redraw it.
	Layout     *TrackLayout
	LayoutKind LayoutKind
	// LeatherPatches enables the 1x1 bonus patches of the standard layout.
	LeatherPatches bool
}

// DefaultRules returns the two-player rules on a 9x9 board with a 53-square track.
func DefaultRules() Rules {
	return Rules{
		Players:                DefaultPlayers,
		BoardWidth:             DefaultBoardSize,
		BoardHeight:            DefaultBoardSize,
		TrackLength:            DefaultTrackLength,
		StartingMoney:          StartingMoney,
		CoverageSize:           FullCoverageSize,
		EmptyCellPenalty:       EmptyCellPenalty,
		FullCoverageBonus:      FullCoverageBonus,
		FirstArrivalBonus:      FirstArrivalBonus,
		ExclusiveCoverageBonus: true,
		IncomeRule:             DefaultIncomeRule,
		TieBreak:               TieBreakLastArrival,
		LayoutKind:             LayoutStandard,
		LeatherPatches:         true,
	}
}

// Validate rejects rules no game can be built from.
func (r Rules) Validate() error {
	switch {
	case r.Players < 1:
		return fmt.Errorf("%w: %d players", ErrInvalidSetup, r.Players)
	case r.BoardWidth < 1 || r.BoardHeight < 1:
		return fmt.Errorf("%w: board %dx%d", ErrInvalidSetup, r.BoardWidth, r.BoardHeight)
	case r.TrackLength < 1:
		return fmt.Errorf("%w: track length %d", ErrInvalidSetup, r.TrackLength)
	case r.StartingMoney < 0:
		return fmt.Errorf("%w: starting money %d", ErrInvalidSetup, r.StartingMoney)
	case r.CoverageSize < 1:
		return fmt.Errorf("%w: coverage size %d", ErrInvalidSetup, r.CoverageSize)
	}
	switch r.IncomeRule {
	case IncomeOwnedPatches, IncomeFlat:
	default:
		return fmt.Errorf("%w: income rule %q", ErrInvalidSetup, r.IncomeRule)
	}
	switch r.TieBreak {
	case TieBreakLastArrival, TieBreakSeatOrder:
	default:
		return fmt.Errorf("%w: tie break %q", ErrInvalidSetup, r.TieBreak)
	}
	if r.Layout != nil && r.Layout.Length != r.TrackLength {
		return fmt.Errorf("%w: layout length %d, track length %d", ErrInvalidSetup, r.Layout.Length, r.TrackLength)
	}
	return nil
}

// TrackLayout returns the configured layout or the standard one.
func (r Rules) TrackLayout() TrackLayout {
	if r.Layout != nil {
		return *r.Layout
	}
	return StandardLayout(r.TrackLength, r.LeatherPatches)
}

// WithTrackLength returns the rules for a track of another length. A random
// layout is redrawn from rng; an explicit one cannot be stretched.
func (r Rules) WithTrackLength(length int, rng *rand.Rand) (Rules, error) {
	if length == r.TrackLength {
		return r, nil
	}
	r.TrackLength = length
	switch {
	case r.LayoutKind == LayoutRandom:
		layout := RandomLayout(length, r.LeatherPatches, rng)
		r.Layout = &layout
	case r.Layout != nil:
		return Rules{}, fmt.Errorf("%w: explicit layout is for %d squares, not %d", ErrInvalidSetup, r.Layout.Length, length)
	}
	return r, nil
}
