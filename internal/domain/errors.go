package domain

import "errors"

// Command errors. Every command validates before mutating, so any of these
// leaves the game untouched and the same player may retry.
var (
	// ErrInvalidSelection is returned when a patch is not in the current market window.
	ErrInvalidSelection = errors.New("patch is not in the market window")
	// ErrInsufficientFunds is returned when a patch costs more than the buyer holds.
	ErrInsufficientFunds = errors.New("not enough buttons")
	// ErrIllegalPlacement is returned when a shape overlaps occupied cells or leaves the board.
	ErrIllegalPlacement = errors.New("illegal placement")
	// ErrInvalidRotation is returned for rotation steps outside 0..3.
	ErrInvalidRotation = errors.New("rotation out of range")
	// ErrGameAlreadyOver is returned for commands issued after termination.
	ErrGameAlreadyOver = errors.New("game is already over")
	// ErrNotYourTurn is returned when a seat other than the active one issues a command.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrBonusPending is returned while the active player still has a bonus patch to place.
	ErrBonusPending = errors.New("bonus patch must be placed first")
	// ErrNoBonusPending is returned when no bonus patch awaits placement.
	ErrNoBonusPending = errors.New("no bonus patch to place")
	// ErrBonusPlaceable is returned when discarding a bonus patch that still fits.
	ErrBonusPlaceable = errors.New("bonus patch still fits on the board")
)

// Construction errors abort game setup before any turn is played.
var (
	// ErrMalformedPatch reports bad catalog data (negative values, ragged or empty shapes).
	ErrMalformedPatch = errors.New("malformed patch")
	// ErrInvalidSetup reports impossible game parameters.
	ErrInvalidSetup = errors.New("invalid game setup")
)
