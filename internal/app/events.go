package app

import "patchwork/internal/domain"

// EventKind identifies emitted game events for presenters and logs.
type EventKind string

const (
	EventGameStarted         EventKind = "game_started"
	EventPatchBought         EventKind = "patch_bought"
	EventTurnPassed          EventKind = "turn_passed"
	EventIncomeCollected     EventKind = "income_collected"
	EventButtonsAwarded      EventKind = "buttons_awarded"
	EventBonusPatchPending   EventKind = "bonus_patch_pending"
	EventBonusPatchPlaced    EventKind = "bonus_patch_placed"
	EventBonusPatchDiscarded EventKind = "bonus_patch_discarded"
	EventFullCoverageAwarded EventKind = "full_coverage_awarded"
	EventPlayerReachedEnd    EventKind = "player_reached_end"
	EventGameEnded           EventKind = "game_ended"
)

// Event is an app event describing one consequence of a command.
type Event struct {
	Kind    EventKind
	Seat    int
	Payload any
}

type GameStartedPayload struct {
	GameID      string
	Players     int
	TrackLength int
	ActiveSeat  int
	Window      []domain.PatchView
}

type PatchBoughtPayload struct {
	Patch    domain.PatchView
	Origin   domain.Coordinate
	Rotation int
	Paid     int
	From     int
	To       int
}

type TurnPassedPayload struct {
	From    int
	To      int
	Squares int
}

type IncomeCollectedPayload struct {
	Amount        int
	IncomeSquares []int
}

type ButtonsAwardedPayload struct {
	Amount int
}

type BonusPatchPayload struct {
	Pending int
	Origin  domain.Coordinate
}

type GameEndedPayload struct {
	Winner    int
	Standings []domain.Score
}
