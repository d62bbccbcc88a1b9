package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"patchwork/internal/domain"
	"patchwork/internal/ports"
)

const (
	rulesFile   = "../../configs/rules.yaml"
	catalogFile = "../../configs/patches.json"
)

func runCmd(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), args, &out))
	return out.Bytes()
}

func TestValidateShippedFiles(t *testing.T) {
	var got map[string]any
	require.NoError(t, json.Unmarshal(runCmd(t, "validate", "-rules", rulesFile, "-catalog", catalogFile), &got))
	require.Equal(t, "9x9", got["board"])
	require.EqualValues(t, 33, got["catalog_size"])
	require.Len(t, got["catalog_sha256"], 64)
}

func TestSimulateRecordsEverything(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "results.db")
	out := runCmd(t, "simulate",
		"-rules", rulesFile,
		"-catalog", catalogFile,
		"-games", "2",
		"-seed", "11",
		"-journal", filepath.Join(dir, "journal"),
		"-db", db,
		"-secret", "s3cret",
	)

	type simulated struct {
		Result    ports.GameResult `json:"result"`
		Journal   string           `json:"journal"`
		Scorecard string           `json:"scorecard"`
	}
	var games []simulated
	dec := json.NewDecoder(bytes.NewReader(out))
	for dec.More() {
		var s simulated
		require.NoError(t, dec.Decode(&s))
		games = append(games, s)
	}
	require.Len(t, games, 2)

	first := games[0]
	require.NotEmpty(t, first.Result.GameID)
	require.Len(t, first.Result.Standings, 2)
	require.Equal(t, first.Result.Winner, first.Result.Standings[0].Seat)

	var listed []ports.GameResult
	require.NoError(t, json.Unmarshal(runCmd(t, "results", "-db", db, "-limit", "0"), &listed))
	require.Len(t, listed, 2)

	lines := 0
	sc := bufio.NewScanner(bytes.NewReader(runCmd(t, "journal", first.Journal)))
	var last ports.JournalEntry
	for sc.Scan() {
		require.NoError(t, json.Unmarshal(sc.Bytes(), &last))
		lines++
	}
	require.Positive(t, lines)
	require.Equal(t, lines, last.Seq)
	require.Equal(t, domain.PhaseEnded, last.Phase)

	var card map[string]any
	require.NoError(t, json.Unmarshal(runCmd(t, "verify", "-secret", "s3cret", first.Scorecard), &card))
	require.Equal(t, first.Result.GameID, card["GameID"])

	require.Error(t, run(context.Background(), []string{"verify", "-secret", "wrong", first.Scorecard}, &bytes.Buffer{}))
}

func TestRunUsage(t *testing.T) {
	require.ErrorIs(t, run(context.Background(), nil, &bytes.Buffer{}), errUsage)
	require.ErrorIs(t, run(context.Background(), []string{"deal"}, &bytes.Buffer{}), errUsage)
	require.ErrorIs(t, run(context.Background(), []string{"journal"}, &bytes.Buffer{}), errUsage)
}
