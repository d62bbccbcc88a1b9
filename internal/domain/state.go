package domain

// Phase represents the lifecycle stage of a game.
type Phase string

const (
	// PhaseAwaitingDecision waits for the active player to buy or pass.
	PhaseAwaitingDecision Phase = "awaiting_decision"
	// PhasePlacingBonus waits for the mover to sew a leather patch won on the track.
	PhasePlacingBonus Phase = "placing_bonus"
	// PhaseEnded is the state after every token reached the final square.
	PhaseEnded Phase = "ended"
)

// Action names what a committed command did.
type Action string

const (
	ActionBuy          Action = "buy"
	ActionPass         Action = "pass"
	ActionBonusPlace   Action = "bonus_place"
	ActionBonusDiscard Action = "bonus_discard"
)

// Player holds the state of one participant.
type Player struct {
	Seat  int // 0-based, also the setup order
	Money int
	Board *Board

	// FullCoverageBonus is set once the player is awarded the coverage tile.
	FullCoverageBonus bool
}

// NewPlayer seats a player with a starting balance and an empty board.
func NewPlayer(seat, money int, board *Board) *Player {
	return &Player{Seat: seat, Money: money, Board: board}
}

// CanAfford reports whether the player holds at least cost buttons.
func (p *Player) CanAfford(cost int) bool {
	return cost >= 0 && cost <= p.Money
}

// TurnResult describes what a committed command changed.
type TurnResult struct {
	Seat     int
	Action   Action
	Patch    *Patch
	Origin   Coordinate
	Rotation int

	Paid     int
	Crossing Crossing
	Income   int // buttons earned while moving, leapfrog credit included

	BonusButtons    int
	PendingPatches  int  // leather patches waiting to be sewn
	DiscardedBonus  int  // leather patch dropped from a full board
	CoverageAwarded bool // the coverage tile was awarded by this command
	GameOver        bool
}

// Score is a player's final tally.
type Score struct {
	Seat              int
	Money             int
	EmptyCells        int
	EmptyPenalty      int
	CoverageBonus     int
	FirstArrivalBonus int
	Total             int
}
