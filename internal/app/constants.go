package app

import "time"

// Seat limits for a new game. The track comparison generalises past two
// tokens, so small tables are allowed.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// MaxRejectedDecisions bounds consecutive rejected presenter answers before
// the runner gives up on a turn.
const MaxRejectedDecisions = 16

// DefaultScorecardTTL is how long a signed scorecard stays valid.
const DefaultScorecardTTL = 30 * 24 * time.Hour
