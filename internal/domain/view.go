package domain

// PatchView is a read-only copy of a patch for presentation.
type PatchView struct {
	ID              int      `json:"id"`
	Cost            int      `json:"cost"`
	Time            int      `json:"time"`
	Income          int      `json:"income"`
	CostsMoreThan10 bool     `json:"costs_more_than_10"`
	Shape           []string `json:"shape"`
	Asset           string   `json:"asset,omitempty"`
}

// PlayerView is a read-only snapshot of one seat.
type PlayerView struct {
	Seat              int      `json:"seat"`
	Money             int      `json:"money"`
	Position          int      `json:"position"`
	Income            int      `json:"income"`
	EmptyCells        int      `json:"empty_cells"`
	FullCoverageBonus bool     `json:"full_coverage_bonus"`
	Board             [][]bool `json:"board"`
}

// SquareView describes a marked track square.
type SquareView struct {
	Position int    `json:"position"`
	Income   int    `json:"income,omitempty"`
	Bonus    *Bonus `json:"bonus,omitempty"`
	Claimed  bool   `json:"claimed,omitempty"`
}

// GameView is everything a renderer may read. It shares no memory with the game.
type GameView struct {
	ID           string       `json:"id"`
	Phase        Phase        `json:"phase"`
	ActiveSeat   int          `json:"active_seat"`
	HasActive    bool         `json:"has_active"`
	TrackLength  int          `json:"track_length"`
	Squares      []SquareView `json:"squares"`
	Market       []PatchView  `json:"market"`
	MarketSize   int          `json:"market_size"`
	Players      []PlayerView `json:"players"`
	PendingBonus int          `json:"pending_bonus"`
	Scores       []Score      `json:"scores,omitempty"`
}

// NewPatchView copies a patch for presentation.
func NewPatchView(p Patch) PatchView {
	return PatchView{
		ID:              p.ID,
		Cost:            p.Cost,
		Time:            p.Time,
		Income:          p.Income,
		CostsMoreThan10: p.CostsMoreThan10(),
		Shape:           shapeLines(p.Shape),
		Asset:           p.Asset,
	}
}

func shapeLines(s Shape) []string {
	lines := make([]string, 0, s.Height())
	for _, row := range s.Rows() {
		buf := make([]byte, len(row))
		for c, on := range row {
			if on {
				buf[c] = '#'
			} else {
				buf[c] = '.'
			}
		}
		lines = append(lines, string(buf))
	}
	return lines
}

// View snapshots the game. Scores are filled in once the game is over.
func (g *Game) View() GameView {
	v := GameView{
		ID:           g.ID,
		Phase:        g.Phase,
		TrackLength:  g.Track.Length(),
		MarketSize:   g.Market.Len(),
		PendingBonus: g.pendingBonus,
	}
	v.ActiveSeat, v.HasActive = g.ActiveSeat()

	for pos := 1; pos <= g.Track.Length(); pos++ {
		sq := g.Track.Square(pos)
		if !sq.HasIncome && sq.Bonus == nil {
			continue
		}
		sv := SquareView{Position: pos, Bonus: sq.Bonus, Claimed: sq.Claimed}
		if sq.HasIncome {
			sv.Income = sq.Income
		}
		v.Squares = append(v.Squares, sv)
	}

	for _, p := range g.Market.WindowOfThree() {
		v.Market = append(v.Market, NewPatchView(p))
	}

	for _, p := range g.Players {
		v.Players = append(v.Players, PlayerView{
			Seat:              p.Seat,
			Money:             p.Money,
			Position:          g.Track.Position(p.Seat),
			Income:            p.Board.Income(),
			EmptyCells:        p.Board.EmptyCells(),
			FullCoverageBonus: p.FullCoverageBonus,
			Board:             p.Board.Grid(),
		})
	}

	if g.IsOver() {
		v.Scores = g.Standings()
	}
	return v
}
