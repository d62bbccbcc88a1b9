package domain

// Scoring and setup defaults. Rules read from configuration may override
// them; nothing else in the engine hardcodes these values.
const (
	// EmptyCellPenalty is subtracted from the score for each uncovered board cell.
	EmptyCellPenalty = 2
	// FullCoverageBonus is added once a fully covered square area exists on the board.
	FullCoverageBonus = 7
	// FirstArrivalBonus rewards the first token to reach the final square.
	FirstArrivalBonus = 0
	// FullCoverageSize is the side of the square area that earns FullCoverageBonus.
	FullCoverageSize = 7

	// StartingMoney is each player's balance at game start.
	StartingMoney = 5
	// DefaultBoardSize is the side of a personal board.
	DefaultBoardSize = 9
	// DefaultTrackLength is the index of the final track square.
	DefaultTrackLength = 53
	// DefaultPlayers is the number of competing tokens.
	DefaultPlayers = 2

	// MarketWindow is the number of patches offered after the neutral token.
	MarketWindow = 3
	// MaxRotation is the largest accepted clockwise quarter-turn count.
	MaxRotation = 3
	// LeapfrogIncomePerSquare is paid for each square crossed when passing.
	LeapfrogIncomePerSquare = 1

	// BonusPatchID identifies the 1x1 leather patch handed out by track bonuses.
	BonusPatchID = -1
)

// IncomeRule selects what an income square pays when a token crosses it.
type IncomeRule string

const (
	// IncomeOwnedPatches pays the sum of income printed on the patches already sewn on the board.
	IncomeOwnedPatches IncomeRule = "owned_patches"
	// IncomeFlat pays the amount printed on the track marker.
	IncomeFlat IncomeRule = "flat"

	// DefaultIncomeRule is the rule used when configuration does not pick one.
	DefaultIncomeRule = IncomeOwnedPatches
)

// TieBreak decides which of two tokens on the same square plays first.
type TieBreak string

const (
	// TieBreakLastArrival lets the token that arrived last play first.
	TieBreakLastArrival TieBreak = "last_arrival"
	// TieBreakSeatOrder lets the lower seat play first.
	TieBreakSeatOrder TieBreak = "seat_order"
)
