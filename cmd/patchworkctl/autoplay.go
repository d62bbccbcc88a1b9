package main

import (
	"context"

	"patchwork/internal/domain"
	"patchwork/internal/ports"
)

// firstFit buys the first offered patch it can afford and sew, and sews it at
// the first free origin in row-major order, trying rotations in turn.
type firstFit struct{}

var _ ports.Presenter = firstFit{}

func (firstFit) DisplayTurn(context.Context, domain.GameView) error { return nil }

func (firstFit) DisplayScore(context.Context, domain.GameView, []domain.Score) error { return nil }

func (firstFit) PromptPurchase(_ context.Context, view domain.GameView, seat int) (ports.PurchaseDecision, error) {
	player := view.Players[seat]
	for _, offered := range view.Market {
		if offered.Cost > player.Money {
			continue
		}
		shape, err := domain.ParseShape(offered.Shape)
		if err != nil {
			return ports.PurchaseDecision{}, err
		}
		if _, _, ok := fit(player.Board, shape); ok {
			return ports.PurchaseDecision{PatchID: offered.ID}, nil
		}
	}
	return ports.PurchaseDecision{Pass: true}, nil
}

func (firstFit) PromptPlacement(_ context.Context, view domain.GameView, seat int, patch domain.PatchView, _ error) (ports.PlacementDecision, error) {
	shape, err := domain.ParseShape(patch.Shape)
	if err != nil {
		return ports.PlacementDecision{}, err
	}
	origin, rotation, ok := fit(view.Players[seat].Board, shape)
	if !ok {
		return ports.PlacementDecision{Discard: true}, nil
	}
	return ports.PlacementDecision{Origin: origin, Rotation: rotation}, nil
}

// fit finds the first origin and rotation at which shape lies on free cells.
// Presenters only see the read-only grid of a view, so this repeats the
// overlap check of Board.CanPlace on that grid.
func fit(board [][]bool, shape domain.Shape) (domain.Coordinate, int, bool) {
	height := len(board)
	if height == 0 {
		return domain.Coordinate{}, 0, false
	}
	width := len(board[0])
	for rotation := 0; rotation <= domain.MaxRotation; rotation++ {
		s, err := shape.Rotated(rotation)
		if err != nil {
			break
		}
		for r := 0; r+s.Height() <= height; r++ {
			for c := 0; c+s.Width() <= width; c++ {
				origin := domain.Coordinate{Row: r, Col: c}
				if free(board, s, origin) {
					return origin, rotation, true
				}
			}
		}
	}
	return domain.Coordinate{}, 0, false
}

func free(board [][]bool, s domain.Shape, origin domain.Coordinate) bool {
	for _, cell := range s.Cells() {
		at := origin.Add(cell)
		if board[at.Row][at.Col] {
			return false
		}
	}
	return true
}
