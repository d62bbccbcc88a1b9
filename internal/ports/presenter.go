package ports

import (
	"context"

	"patchwork/internal/domain"
)

// PurchaseDecision is the active player's answer to a purchase prompt.
type PurchaseDecision struct {
	Pass    bool
	PatchID int
}

// PlacementDecision is where and how to sew a patch.
// Discard is only honoured for leather patches that fit nowhere.
type PlacementDecision struct {
	Origin   domain.Coordinate
	Rotation int
	Discard  bool
}

// Presenter is the presentation capability set the turn loop drives. It only
// ever receives read-only views.
type Presenter interface {
	// DisplayTurn shows the game before the active player decides.
	DisplayTurn(ctx context.Context, view domain.GameView) error

	// DisplayScore shows the final standings, best first.
	DisplayScore(ctx context.Context, view domain.GameView, standings []domain.Score) error

	// PromptPurchase asks the active seat to buy an offered patch or pass.
	PromptPurchase(ctx context.Context, view domain.GameView, seat int) (PurchaseDecision, error)

	// PromptPlacement asks where to sew the chosen patch. A previous rejection,
	// if any, is passed in so the presenter can explain it.
	PromptPlacement(ctx context.Context, view domain.GameView, seat int, patch domain.PatchView, rejected error) (PlacementDecision, error)
}
