package config

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"patchwork/internal/domain"
)

func writeRules(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestShippedRulesMatchDefaults(t *testing.T) {
	c, err := Load("../../configs/rules.yaml")
	require.NoError(t, err)
	require.Equal(t, Default(), c)

	rules, err := c.Rules(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Equal(t, domain.DefaultRules(), rules)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := writeRules(t, `
players: 3
economy:
  income_rule: flat
scoring:
  empty_cell_penalty: 1
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, c.Players)
	require.Equal(t, domain.IncomeFlat, c.Economy.IncomeRule)
	require.Equal(t, 1, c.Scoring.EmptyCellPenalty)
	require.Equal(t, domain.FullCoverageBonus, c.Scoring.FullCoverageBonus)
	require.Equal(t, domain.DefaultTrackLength, c.Track.Length)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown variant", body: "variant: deluxe\n"},
		{name: "unknown layout", body: "track:\n  layout: spiral\n"},
		{name: "unknown income rule", body: "economy:\n  income_rule: interest\n"},
		{name: "unknown tie break", body: "tie_break: coin_flip\n"},
		{name: "negative penalty", body: "scoring:\n  empty_cell_penalty: -2\n"},
		{name: "empty board", body: "board:\n  width: 0\n"},
		{name: "explicit without markers", body: "track:\n  layout: explicit\n"},
		{name: "marker past the end", body: "track:\n  layout: explicit\n  length: 10\n  income: {12: 1}\n"},
		{name: "unknown bonus", body: "track:\n  layout: explicit\n  bonuses: {3: {kind: gold}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeRules(t, tt.body))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Load(writeRules(t, "players: [1, 2\n"))
	require.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestExplicitLayout(t *testing.T) {
	c, err := Load(writeRules(t, `
track:
  layout: explicit
  length: 20
  income: {2: 2, 3: 3}
  bonuses:
    5: {kind: buttons, amount: 4}
    7: {kind: patch}
`))
	require.NoError(t, err)

	rules, err := c.Rules(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NotNil(t, rules.Layout)
	require.Equal(t, map[int]int{2: 2, 3: 3}, rules.Layout.Income)
	require.Equal(t, domain.Bonus{Kind: domain.BonusButtons, Amount: 4}, rules.Layout.Bonuses[5])
	require.Contains(t, rules.Layout.Bonuses, 7)
}

func TestBasicVariant(t *testing.T) {
	c := Default()
	c.Variant = VariantBasic
	require.NoError(t, c.Validate())
	require.True(t, c.BaseOnly())

	rules, err := c.Rules(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.False(t, rules.LeatherPatches)
	require.Zero(t, rules.FullCoverageBonus)
	require.Empty(t, rules.TrackLayout().Bonuses)
}

func TestRandomLayoutIsSeeded(t *testing.T) {
	c := Default()
	c.Track.Layout = LayoutRandom

	a, err := c.Rules(rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	b, err := c.Rules(rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	require.Equal(t, a.Layout, b.Layout)
	require.Len(t, a.Layout.Income, domain.DefaultTrackLength/6)
	require.Len(t, a.Layout.Bonuses, domain.DefaultTrackLength/10)
}
