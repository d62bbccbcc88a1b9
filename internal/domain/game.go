package domain

import (
	"fmt"
	"math/rand"
	"slices"
)

// Game is the turn-scheduling state machine. It owns the market, the track
// and every board; callers only read through View.
type Game struct {
	ID      string
	Phase   Phase
	Rules   Rules
	Players []*Player
	Track   *Track
	Market  *Market

	// Leather patches the bonus seat must sew before play resumes.
	pendingBonus int
	bonusSeat    int

	firstFinisher int // -1 until a token reaches the final square
	coverageOwner int // -1 until the coverage tile is awarded
	turns         int // buy and pass commands
	commands      int // every committed command
}

// NewGame seats the players, shuffles the market with rng and lays out the track.
func NewGame(id string, rules Rules, patches []Patch, rng *rand.Rand) (*Game, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateCatalog(patches); err != nil {
		return nil, err
	}
	track, err := NewTrack(rules.TrackLayout(), rules.Players)
	if err != nil {
		return nil, err
	}

	players := make([]*Player, rules.Players)
	for seat := range players {
		board, err := NewBoard(rules.BoardWidth, rules.BoardHeight, rules.CoverageSize)
		if err != nil {
			return nil, err
		}
		players[seat] = NewPlayer(seat, rules.StartingMoney, board)
	}

	market := NewMarket(patches)
	market.Shuffle(rng)

	return &Game{
		ID:            id,
		Phase:         PhaseAwaitingDecision,
		Rules:         rules,
		Players:       players,
		Track:         track,
		Market:        market,
		firstFinisher: -1,
		coverageOwner: -1,
	}, nil
}

// IsOver reports whether every token reached the final square.
func (g *Game) IsOver() bool {
	return g.Phase == PhaseEnded
}

// ActiveSeat returns the seat expected to act next. While a leather patch is
// pending that is the seat that won it.
func (g *Game) ActiveSeat() (int, bool) {
	switch g.Phase {
	case PhaseEnded:
		return 0, false
	case PhasePlacingBonus:
		return g.bonusSeat, true
	}
	return g.Track.Active(g.Rules.TieBreak)
}

// PendingBonusPatches returns how many leather patches wait to be sewn.
func (g *Game) PendingBonusPatches() int {
	return g.pendingBonus
}

// FirstFinisher returns the first seat to reach the final square.
func (g *Game) FirstFinisher() (int, bool) {
	return g.firstFinisher, g.firstFinisher >= 0
}

// Turns returns the number of committed buy and pass commands.
func (g *Game) Turns() int {
	return g.turns
}

// Commands returns the number of committed commands, leather patches included.
func (g *Game) Commands() int {
	return g.commands
}

func (g *Game) checkTurn(seat int) (*Player, error) {
	switch g.Phase {
	case PhaseEnded:
		return nil, ErrGameAlreadyOver
	case PhasePlacingBonus:
		return nil, fmt.Errorf("%w: seat %d", ErrBonusPending, g.bonusSeat)
	}
	active, ok := g.ActiveSeat()
	if !ok {
		return nil, ErrGameAlreadyOver
	}
	if seat != active {
		return nil, fmt.Errorf("%w: seat %d, active %d", ErrNotYourTurn, seat, active)
	}
	return g.Players[seat], nil
}

// ValidatePurchase runs every check ChoosePatch performs without committing.
func (g *Game) ValidatePurchase(seat, patchID int, origin Coordinate, rotation int) (Patch, Shape, error) {
	player, err := g.checkTurn(seat)
	if err != nil {
		return Patch{}, Shape{}, err
	}
	patch, err := g.Market.Peek(patchID)
	if err != nil {
		return Patch{}, Shape{}, err
	}
	shape, err := patch.Oriented(rotation)
	if err != nil {
		return Patch{}, Shape{}, err
	}
	if !player.CanAfford(patch.Cost) {
		return Patch{}, Shape{}, fmt.Errorf("%w: patch %d costs %d, seat %d holds %d",
			ErrInsufficientFunds, patchID, patch.Cost, seat, player.Money)
	}
	if !player.Board.CanPlace(shape, origin) {
		return Patch{}, Shape{}, fmt.Errorf("%w: patch %d rotation %d at %s",
			ErrIllegalPlacement, patchID, rotation, origin)
	}
	return patch, shape, nil
}

// ChoosePatch buys an offered patch, sews it at origin in the given rotation
// and advances the buyer by the patch's time cost. A rejected command leaves
// the game untouched.
func (g *Game) ChoosePatch(seat, patchID int, origin Coordinate, rotation int) (TurnResult, error) {
	if _, _, err := g.ValidatePurchase(seat, patchID, origin, rotation); err != nil {
		return TurnResult{}, err
	}
	player := g.Players[seat]

	patch, err := g.Market.Take(patchID, player)
	if err != nil {
		return TurnResult{}, err
	}
	player.Money -= patch.Cost
	if err := player.Board.Sew(patch, origin, rotation); err != nil {
		// unreachable after ValidatePurchase
		return TurnResult{}, err
	}

	crossing, err := g.Track.Advance(seat, patch.Time)
	if err != nil {
		return TurnResult{}, err
	}

	res := TurnResult{
		Seat:     seat,
		Action:   ActionBuy,
		Patch:    &patch,
		Origin:   origin,
		Rotation: rotation,
		Paid:     patch.Cost,
	}
	g.applyCrossing(player, crossing, &res)
	g.turns++
	g.finishCommand(player, &res)
	return res, nil
}

// Pass moves the active token to one square past the closest token ahead,
// crediting one button per square crossed plus any income squares.
func (g *Game) Pass(seat int) (TurnResult, error) {
	player, err := g.checkTurn(seat)
	if err != nil {
		return TurnResult{}, err
	}

	target := g.Track.NextAhead(seat) + 1
	crossing := g.Track.AdvanceTo(seat, target)
	player.Money += crossing.Squares() * LeapfrogIncomePerSquare

	res := TurnResult{Seat: seat, Action: ActionPass, Income: crossing.Squares() * LeapfrogIncomePerSquare}
	g.applyCrossing(player, crossing, &res)
	g.turns++
	g.finishCommand(player, &res)
	return res, nil
}

// PlaceBonusPatch sews a pending leather patch at origin.
func (g *Game) PlaceBonusPatch(seat int, origin Coordinate) (TurnResult, error) {
	player, err := g.checkBonus(seat)
	if err != nil {
		return TurnResult{}, err
	}
	patch := BonusPatch()
	if !player.Board.CanPlace(patch.Shape, origin) {
		return TurnResult{}, fmt.Errorf("%w: leather patch at %s", ErrIllegalPlacement, origin)
	}
	if err := player.Board.Sew(patch, origin, 0); err != nil {
		return TurnResult{}, err
	}
	g.pendingBonus--

	res := TurnResult{Seat: seat, Action: ActionBonusPlace, Patch: &patch, Origin: origin}
	g.finishCommand(player, &res)
	return res, nil
}

// DiscardBonusPatch drops a pending leather patch. It is only allowed once
// the board has no empty cell left.
func (g *Game) DiscardBonusPatch(seat int) (TurnResult, error) {
	player, err := g.checkBonus(seat)
	if err != nil {
		return TurnResult{}, err
	}
	if player.Board.HasRoom(BonusPatch()) {
		return TurnResult{}, fmt.Errorf("%w: seat %d", ErrBonusPlaceable, seat)
	}
	g.pendingBonus--

	res := TurnResult{Seat: seat, Action: ActionBonusDiscard, DiscardedBonus: 1}
	g.finishCommand(player, &res)
	return res, nil
}

func (g *Game) checkBonus(seat int) (*Player, error) {
	switch {
	case g.Phase == PhaseEnded:
		return nil, ErrGameAlreadyOver
	case g.Phase != PhasePlacingBonus:
		return nil, ErrNoBonusPending
	case seat != g.bonusSeat:
		return nil, fmt.Errorf("%w: seat %d, placing %d", ErrNotYourTurn, seat, g.bonusSeat)
	}
	return g.Players[seat], nil
}

// IncomeFor returns what the crossing pays under the game's income rule.
func (g *Game) IncomeFor(player *Player, c Crossing) int {
	if g.Rules.IncomeRule == IncomeFlat {
		return c.MarkerIncome
	}
	return len(c.IncomeSquares) * player.Board.Income()
}

func (g *Game) applyCrossing(player *Player, c Crossing, res *TurnResult) {
	res.Crossing = c
	income := g.IncomeFor(player, c)
	player.Money += income
	res.Income += income

	for _, b := range c.Bonuses {
		switch b.Kind {
		case BonusLeatherPatch:
			g.pendingBonus++
		case BonusButtons:
			player.Money += b.Amount
			res.BonusButtons += b.Amount
		}
	}
	if g.pendingBonus > 0 {
		g.bonusSeat = player.Seat
	}
	if g.firstFinisher < 0 && g.Track.AtEnd(player.Seat) {
		g.firstFinisher = player.Seat
	}
}

// finishCommand applies side effects and checks termination.
func (g *Game) finishCommand(player *Player, res *TurnResult) {
	g.commands++
	if player.Board.HasFullCoverage() && !player.FullCoverageBonus {
		if !g.Rules.ExclusiveCoverageBonus || g.coverageOwner < 0 {
			player.FullCoverageBonus = true
			res.CoverageAwarded = true
		}
		if g.coverageOwner < 0 {
			g.coverageOwner = player.Seat
		}
	}

	res.PendingPatches = g.pendingBonus

	switch {
	case g.pendingBonus > 0:
		g.Phase = PhasePlacingBonus
	case g.Track.AllAtEnd():
		g.Phase = PhaseEnded
	default:
		g.Phase = PhaseAwaitingDecision
	}
	res.GameOver = g.Phase == PhaseEnded
}

// Score tallies the player's points under the game's rules.
func (g *Game) Score(seat int) Score {
	p := g.Players[seat]
	s := Score{
		Seat:         seat,
		Money:        p.Money,
		EmptyCells:   p.Board.EmptyCells(),
		EmptyPenalty: g.Rules.EmptyCellPenalty * p.Board.EmptyCells(),
	}
	if p.FullCoverageBonus {
		s.CoverageBonus = g.Rules.FullCoverageBonus
	}
	if g.firstFinisher == seat {
		s.FirstArrivalBonus = g.Rules.FirstArrivalBonus
	}
	s.Total = s.Money - s.EmptyPenalty + s.CoverageBonus + s.FirstArrivalBonus
	return s
}

// Scores tallies every seat.
func (g *Game) Scores() []Score {
	out := make([]Score, len(g.Players))
	for seat := range g.Players {
		out[seat] = g.Score(seat)
	}
	return out
}

// Standings returns the scores best first. Equal totals go to the first
// player to reach the final square, then to seat order.
func (g *Game) Standings() []Score {
	scores := g.Scores()
	slices.SortStableFunc(scores, func(a, b Score) int {
		if a.Total != b.Total {
			return b.Total - a.Total
		}
		if a.Seat == g.firstFinisher {
			return -1
		}
		if b.Seat == g.firstFinisher {
			return 1
		}
		return a.Seat - b.Seat
	})
	return scores
}

// Winner returns the winning seat once the game is over.
func (g *Game) Winner() (int, bool) {
	if !g.IsOver() {
		return 0, false
	}
	return g.Standings()[0].Seat, true
}
