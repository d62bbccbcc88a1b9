package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"patchwork/internal/domain"
	"patchwork/internal/ports"
)

// Runner drives a game through a presenter until every token reaches the end.
type Runner struct {
	svc       *Service
	presenter ports.Presenter
	log       *zap.Logger
}

// NewRunner wires a presenter to the service.
func NewRunner(svc *Service, presenter ports.Presenter) *Runner {
	return &Runner{svc: svc, presenter: presenter, log: svc.log}
}

// Play runs the turn loop and returns the final standings. A presenter error
// or a cancelled context stops the loop between commands.
func (r *Runner) Play(ctx context.Context, game *domain.Game) ([]domain.Score, error) {
	rejections := 0
	for !game.IsOver() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if rejections >= MaxRejectedDecisions {
			return nil, fmt.Errorf("%w: game %s", ErrPresenterStuck, game.ID)
		}

		seat, ok := game.ActiveSeat()
		if !ok {
			break
		}
		var err error
		if game.Phase == domain.PhasePlacingBonus {
			err = r.bonusTurn(ctx, game, seat)
		} else {
			err = r.turn(ctx, game, seat)
		}

		switch {
		case err == nil:
			rejections = 0
		case isRejection(err):
			rejections++
			r.log.Debug("decision rejected", zap.String("game_id", game.ID), zap.Int("seat", seat), zap.Error(err))
		default:
			return nil, err
		}
	}

	standings := game.Standings()
	if err := r.presenter.DisplayScore(ctx, game.View(), standings); err != nil {
		return nil, fmt.Errorf("display score: %w", err)
	}
	return standings, nil
}

func (r *Runner) turn(ctx context.Context, game *domain.Game, seat int) error {
	view := game.View()
	if err := r.presenter.DisplayTurn(ctx, view); err != nil {
		return fmt.Errorf("display turn: %w", err)
	}
	decision, err := r.presenter.PromptPurchase(ctx, view, seat)
	if err != nil {
		return fmt.Errorf("prompt purchase: %w", err)
	}
	if decision.Pass {
		_, err := r.svc.Pass(ctx, game, seat)
		return err
	}

	patch, err := game.Market.Peek(decision.PatchID)
	if err != nil {
		return err
	}
	if !game.Players[seat].CanAfford(patch.Cost) {
		return fmt.Errorf("%w: patch %d", domain.ErrInsufficientFunds, patch.ID)
	}

	var rejected error
	for attempt := 0; attempt < MaxRejectedDecisions; attempt++ {
		placement, err := r.presenter.PromptPlacement(ctx, view, seat, domain.NewPatchView(patch), rejected)
		if err != nil {
			return fmt.Errorf("prompt placement: %w", err)
		}
		if placement.Discard {
			// back to the purchase prompt
			return domain.ErrInvalidSelection
		}
		_, err = r.svc.ChoosePatch(ctx, game, seat, patch.ID, placement.Origin, placement.Rotation)
		if err == nil || !isPlacementError(err) {
			return err
		}
		rejected = err
	}
	return rejected
}

func (r *Runner) bonusTurn(ctx context.Context, game *domain.Game, seat int) error {
	view := game.View()
	placement, err := r.presenter.PromptPlacement(ctx, view, seat, domain.NewPatchView(domain.BonusPatch()), nil)
	if err != nil {
		return fmt.Errorf("prompt placement: %w", err)
	}
	if placement.Discard {
		_, err = r.svc.DiscardBonusPatch(ctx, game, seat)
		return err
	}
	_, err = r.svc.PlaceBonusPatch(ctx, game, seat, placement.Origin)
	return err
}

func isPlacementError(err error) bool {
	return errors.Is(err, domain.ErrIllegalPlacement) || errors.Is(err, domain.ErrInvalidRotation)
}

func isRejection(err error) bool {
	return isPlacementError(err) ||
		errors.Is(err, domain.ErrInvalidSelection) ||
		errors.Is(err, domain.ErrInsufficientFunds) ||
		errors.Is(err, domain.ErrBonusPlaceable)
}
