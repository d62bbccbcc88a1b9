package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"patchwork/internal/domain"
)

func grid(lines ...string) [][]bool {
	out := make([][]bool, len(lines))
	for r, line := range lines {
		out[r] = make([]bool, len(line))
		for c, ch := range line {
			out[r][c] = ch == '#'
		}
	}
	return out
}

func TestFit(t *testing.T) {
	tests := []struct {
		name     string
		board    [][]bool
		shape    domain.Shape
		origin   domain.Coordinate
		rotation int
		ok       bool
	}{
		{name: "empty board", board: grid("...", "..."), shape: domain.MustParseShape("##"), ok: true},
		{name: "skips filled cells", board: grid("##.", "..."), shape: domain.MustParseShape("##"), origin: domain.Coordinate{Row: 1}, ok: true},
		{name: "rotates to fit", board: grid("#.", "#."), shape: domain.MustParseShape("##"), origin: domain.Coordinate{Col: 1}, rotation: 1, ok: true},
		{name: "only the last rotation fits", board: grid("#.", ".."), shape: domain.MustParseShape("#.", "##"), rotation: domain.MaxRotation, ok: true},
		{name: "full board", board: grid("##", "##"), shape: domain.MustParseShape("#"), ok: false},
		{name: "too large", board: grid("..", ".."), shape: domain.MustParseShape("###"), ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origin, rotation, ok := fit(tt.board, tt.shape)
			require.Equal(t, tt.ok, ok)
			if ok {
				require.Equal(t, tt.origin, origin)
				require.Equal(t, tt.rotation, rotation)
			}
		})
	}
}
