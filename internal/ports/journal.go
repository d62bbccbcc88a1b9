package ports

import (
	"context"
	"time"

	"patchwork/internal/domain"
)

// JournalEntry records one committed command and the mover's state after it.
type JournalEntry struct {
	GameID   string             `json:"game_id"`
	Seq      int                `json:"seq"`
	At       time.Time          `json:"at"`
	Seat     int                `json:"seat"`
	Action   domain.Action      `json:"action"`
	PatchID  *int               `json:"patch_id,omitempty"`
	Origin   *domain.Coordinate `json:"origin,omitempty"`
	Rotation int                `json:"rotation,omitempty"`
	Paid     int                `json:"paid,omitempty"`
	Income   int                `json:"income,omitempty"`
	Money    int                `json:"money"`
	Position int                `json:"position"`
	Phase    domain.Phase       `json:"phase"`
}

// Journal appends committed commands for later inspection.
type Journal interface {
	Append(ctx context.Context, entry JournalEntry) error
}
