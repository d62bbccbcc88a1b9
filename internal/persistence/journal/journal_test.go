package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"patchwork/internal/domain"
	"patchwork/internal/ports"
)

func entry(game string, seq int, action domain.Action) ports.JournalEntry {
	return ports.JournalEntry{
		GameID:   game,
		Seq:      seq,
		At:       time.Date(2026, 3, 1, 12, 0, seq, 0, time.UTC),
		Seat:     seq % 2,
		Action:   action,
		Money:    5 + seq,
		Position: seq,
		Phase:    domain.PhaseAwaitingDecision,
	}
}

func TestWriterRoundTrip(t *testing.T) {
	ctx := context.Background()
	w := NewWriter(t.TempDir())

	id, origin := 7, domain.Coordinate{Row: 1, Col: 2}
	bought := entry("g1", 1, domain.ActionBuy)
	bought.PatchID, bought.Origin, bought.Rotation, bought.Paid = &id, &origin, 3, 4

	require.NoError(t, w.Append(ctx, bought))
	require.NoError(t, w.Append(ctx, entry("g2", 1, domain.ActionPass)))
	require.NoError(t, w.Append(ctx, entry("g1", 2, domain.ActionPass)))
	require.NoError(t, w.Close())

	got, err := ReadFile(w.Path("g1"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, bought, got[0])
	require.Equal(t, domain.ActionPass, got[1].Action)

	other, err := ReadFile(w.Path("g2"))
	require.NoError(t, err)
	require.Len(t, other, 1)
}

func TestWriterReopensClosedGame(t *testing.T) {
	ctx := context.Background()
	w := NewWriter(t.TempDir())

	require.NoError(t, w.Append(ctx, entry("g", 1, domain.ActionPass)))
	require.NoError(t, w.CloseGame("g"))
	require.NoError(t, w.CloseGame("g"))
	require.NoError(t, w.Append(ctx, entry("g", 2, domain.ActionBonusPlace)))
	require.NoError(t, w.Close())

	got, err := ReadFile(w.Path("g"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 2, got[1].Seq)
	require.Equal(t, domain.ActionBonusPlace, got[1].Action)
}

func TestWriterRejects(t *testing.T) {
	w := NewWriter(t.TempDir())

	require.Error(t, w.Append(context.Background(), ports.JournalEntry{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, w.Append(ctx, entry("g", 1, domain.ActionPass)), context.Canceled)

	require.NoError(t, w.Close())
	require.ErrorIs(t, w.Append(context.Background(), entry("g", 1, domain.ActionPass)), ErrClosed)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(NewWriter(t.TempDir()).Path("absent"))
	require.Error(t, err)
}
