package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"patchwork/internal/domain"
	"patchwork/internal/ports"
)

// Service contains Patchwork use-cases operating on domain state.
type Service struct {
	rng     *rand.Rand
	log     *zap.Logger
	rules   domain.Rules
	catalog []domain.Patch
	digest  string

	journal ports.Journal
	results ports.ResultsPort
	now     func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithJournal appends every committed command to j.
func WithJournal(j ports.Journal) Option {
	return func(s *Service) { s.journal = j }
}

// WithResults records finished games in r.
func WithResults(r ports.ResultsPort) Option {
	return func(s *Service) { s.results = r }
}

// WithCatalogDigest tags recorded results with the catalog checksum.
func WithCatalogDigest(digest string) Option {
	return func(s *Service) { s.digest = digest }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService constructs a Service over a patch catalog. A nil rng is replaced
// by a time-seeded one.
func NewService(rules domain.Rules, catalog []domain.Patch, rng *rand.Rand, opts ...Option) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Service{
		rng:     rng,
		log:     zap.NewNop(),
		rules:   rules,
		catalog: append([]domain.Patch(nil), catalog...),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrNoPatches      = errors.New("patch catalog is empty")
	ErrPlayerCount    = errors.New("unsupported player count")
	ErrPresenterStuck = errors.New("presenter kept returning rejected decisions")
)

// NewGameParams overrides the configured rules for one game. Zero values keep
// the configured value.
type NewGameParams struct {
	Players     int
	BoardSize   int
	TrackLength int
}

// StartNewGame shuffles the market, seats the players and lays out the track.
func (s *Service) StartNewGame(ctx context.Context, params NewGameParams) (*domain.Game, []Event, error) {
	if len(s.catalog) == 0 {
		return nil, nil, ErrNoPatches
	}
	rules := s.rules
	if params.Players != 0 {
		rules.Players = params.Players
	}
	if rules.Players < MinPlayers || rules.Players > MaxPlayers {
		return nil, nil, fmt.Errorf("%w: %d", ErrPlayerCount, rules.Players)
	}
	if params.BoardSize != 0 {
		rules.BoardWidth, rules.BoardHeight = params.BoardSize, params.BoardSize
	}
	if params.TrackLength != 0 {
		var err error
		if rules, err = rules.WithTrackLength(params.TrackLength, s.rng); err != nil {
			return nil, nil, err
		}
	}

	game, err := domain.NewGame(uuid.NewString(), rules, s.catalog, s.rng)
	if err != nil {
		return nil, nil, err
	}
	active, _ := game.ActiveSeat()

	window := make([]domain.PatchView, 0, domain.MarketWindow)
	for _, p := range game.Market.WindowOfThree() {
		window = append(window, domain.NewPatchView(p))
	}

	s.log.Info("game started",
		zap.String("game_id", game.ID),
		zap.Int("players", rules.Players),
		zap.Int("board_size", rules.BoardWidth),
		zap.Int("track_length", rules.TrackLength),
		zap.String("income_rule", string(rules.IncomeRule)),
	)

	return game, []Event{{
		Kind: EventGameStarted,
		Seat: active,
		Payload: GameStartedPayload{
			GameID:      game.ID,
			Players:     rules.Players,
			TrackLength: game.Track.Length(),
			ActiveSeat:  active,
			Window:      window,
		},
	}}, nil
}

// ChoosePatch buys an offered patch and sews it on the seat's board.
func (s *Service) ChoosePatch(ctx context.Context, game *domain.Game, seat, patchID int, origin domain.Coordinate, rotation int) ([]Event, error) {
	res, err := game.ChoosePatch(seat, patchID, origin, rotation)
	if err != nil {
		s.rejected(game, seat, "choose_patch", err, zap.Int("patch_id", patchID))
		return nil, err
	}
	return s.commit(ctx, game, res), nil
}

// Pass leapfrogs the seat past the next token and collects income.
func (s *Service) Pass(ctx context.Context, game *domain.Game, seat int) ([]Event, error) {
	res, err := game.Pass(seat)
	if err != nil {
		s.rejected(game, seat, "pass", err)
		return nil, err
	}
	return s.commit(ctx, game, res), nil
}

// PlaceBonusPatch sews a pending leather patch.
func (s *Service) PlaceBonusPatch(ctx context.Context, game *domain.Game, seat int, origin domain.Coordinate) ([]Event, error) {
	res, err := game.PlaceBonusPatch(seat, origin)
	if err != nil {
		s.rejected(game, seat, "place_bonus_patch", err)
		return nil, err
	}
	return s.commit(ctx, game, res), nil
}

// DiscardBonusPatch drops a pending leather patch that fits nowhere.
func (s *Service) DiscardBonusPatch(ctx context.Context, game *domain.Game, seat int) ([]Event, error) {
	res, err := game.DiscardBonusPatch(seat)
	if err != nil {
		s.rejected(game, seat, "discard_bonus_patch", err)
		return nil, err
	}
	return s.commit(ctx, game, res), nil
}

func (s *Service) rejected(game *domain.Game, seat int, command string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("game_id", game.ID),
		zap.Int("seat", seat),
		zap.String("command", command),
		zap.Error(err),
	)
	s.log.Debug("command rejected", fields...)
}

// commit turns a committed result into events, journals it and settles the
// game once it is over. Persistence failures are logged; the command stands.
func (s *Service) commit(ctx context.Context, game *domain.Game, res domain.TurnResult) []Event {
	events := s.eventsFor(game, res)
	s.appendJournal(ctx, game, res)

	if res.GameOver {
		standings := game.Standings()
		winner, _ := game.Winner()
		events = append(events, Event{
			Kind:    EventGameEnded,
			Seat:    winner,
			Payload: GameEndedPayload{Winner: winner, Standings: standings},
		})
		s.log.Info("game ended",
			zap.String("game_id", game.ID),
			zap.Int("winner", winner),
			zap.Int("turns", game.Turns()),
		)
		s.settle(ctx, game)
	}
	return events
}

func (s *Service) eventsFor(game *domain.Game, res domain.TurnResult) []Event {
	var events []Event
	c := res.Crossing

	switch res.Action {
	case domain.ActionBuy:
		events = append(events, Event{Kind: EventPatchBought, Seat: res.Seat, Payload: PatchBoughtPayload{
			Patch:    domain.NewPatchView(*res.Patch),
			Origin:   res.Origin,
			Rotation: res.Rotation,
			Paid:     res.Paid,
			From:     c.From,
			To:       c.To,
		}})
	case domain.ActionPass:
		events = append(events, Event{Kind: EventTurnPassed, Seat: res.Seat, Payload: TurnPassedPayload{
			From:    c.From,
			To:      c.To,
			Squares: c.Squares(),
		}})
	case domain.ActionBonusPlace:
		events = append(events, Event{Kind: EventBonusPatchPlaced, Seat: res.Seat, Payload: BonusPatchPayload{
			Pending: res.PendingPatches,
			Origin:  res.Origin,
		}})
	}

	if res.Income > 0 {
		events = append(events, Event{Kind: EventIncomeCollected, Seat: res.Seat, Payload: IncomeCollectedPayload{
			Amount:        res.Income,
			IncomeSquares: c.IncomeSquares,
		}})
	}
	if res.BonusButtons > 0 {
		events = append(events, Event{Kind: EventButtonsAwarded, Seat: res.Seat, Payload: ButtonsAwardedPayload{Amount: res.BonusButtons}})
	}
	if res.DiscardedBonus > 0 {
		events = append(events, Event{Kind: EventBonusPatchDiscarded, Seat: res.Seat, Payload: BonusPatchPayload{Pending: res.PendingPatches}})
	}
	if res.PendingPatches > 0 && res.Action != domain.ActionBonusPlace && res.Action != domain.ActionBonusDiscard {
		events = append(events, Event{Kind: EventBonusPatchPending, Seat: res.Seat, Payload: BonusPatchPayload{Pending: res.PendingPatches}})
	}
	if res.CoverageAwarded {
		events = append(events, Event{Kind: EventFullCoverageAwarded, Seat: res.Seat})
	}
	if c.To != c.From && c.To == game.Track.Length() {
		events = append(events, Event{Kind: EventPlayerReachedEnd, Seat: res.Seat})
	}
	return events
}

func (s *Service) appendJournal(ctx context.Context, game *domain.Game, res domain.TurnResult) {
	if s.journal == nil {
		return
	}
	player := game.Players[res.Seat]
	entry := ports.JournalEntry{
		GameID:   game.ID,
		Seq:      game.Commands(),
		At:       s.now().UTC(),
		Seat:     res.Seat,
		Action:   res.Action,
		Rotation: res.Rotation,
		Paid:     res.Paid,
		Income:   res.Income + res.BonusButtons,
		Money:    player.Money,
		Position: game.Track.Position(res.Seat),
		Phase:    game.Phase,
	}
	if res.Patch != nil {
		id, origin := res.Patch.ID, res.Origin
		entry.PatchID, entry.Origin = &id, &origin
	}
	if err := s.journal.Append(ctx, entry); err != nil {
		s.log.Warn("journal append failed", zap.String("game_id", game.ID), zap.Error(err))
	}
}

func (s *Service) settle(ctx context.Context, game *domain.Game) {
	if s.results == nil {
		return
	}
	result, ok := s.Result(game)
	if !ok {
		return
	}
	if err := s.results.RecordResult(ctx, result); err != nil {
		s.log.Error("record result failed", zap.String("game_id", game.ID), zap.Error(err))
	}
}

// Result builds the settled outcome of a finished game.
func (s *Service) Result(game *domain.Game) (ports.GameResult, bool) {
	winner, ok := game.Winner()
	if !ok {
		return ports.GameResult{}, false
	}
	first, _ := game.FirstFinisher()
	return ports.GameResult{
		GameID:        game.ID,
		FinishedAt:    s.now().UTC(),
		Players:       len(game.Players),
		Turns:         game.Turns(),
		Winner:        winner,
		FirstFinisher: first,
		CatalogDigest: s.digest,
		Standings:     game.Standings(),
	}, true
}
