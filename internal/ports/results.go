package ports

import (
	"context"
	"time"

	"patchwork/internal/domain"
)

// GameResult is the settled outcome of a finished game.
type GameResult struct {
	GameID        string         `json:"game_id"`
	FinishedAt    time.Time      `json:"finished_at"`
	Players       int            `json:"players"`
	Turns         int            `json:"turns"`
	Winner        int            `json:"winner"`
	FirstFinisher int            `json:"first_finisher"`
	CatalogDigest string         `json:"catalog_digest,omitempty"`
	Standings     []domain.Score `json:"standings"`
}

// ResultsPort stores finished games.
type ResultsPort interface {
	// RecordResult stores one finished game. Recording the same game twice is an error.
	RecordResult(ctx context.Context, result GameResult) error

	// ListResults returns the most recent results, newest first.
	ListResults(ctx context.Context, limit int) ([]GameResult, error)
}
