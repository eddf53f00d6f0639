package game

import (
	"fmt"

	"github.com/coder/quartz"

	"github.com/lox/bigtwo/bigtwo"
)

// Seats is the number of players in a game.
const Seats = bigtwo.Players

// Phase is the lifecycle state of an Engine
type Phase uint8

const (
	NotStarted Phase = iota
	InProgress
	Ended
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Move is an accepted turn: either a pass or a played hand
type Move struct {
	Player int
	Pass   bool
	Hand   bigtwo.Hand // zero for a pass
}

func (m Move) String() string {
	if m.Pass {
		return fmt.Sprintf("player %d passes", m.Player)
	}
	return fmt.Sprintf("player %d plays %s", m.Player, m.Hand)
}

// PlayerResult is one seat's outcome once the game has ended
type PlayerResult struct {
	Player    int  `json:"player"`
	Winner    bool `json:"winner"`
	CardsLeft int  `json:"cardsLeft"`
}

// Snapshot is a read-only view of the game for reporting
type Snapshot struct {
	Phase        Phase
	GameID       string
	ActivePlayer int
	TableTop     bigtwo.Hand // zero when nothing has been played
	CardCounts   [Seats]int
	Winner       int // -1 until the game has ended
	Results      []PlayerResult
}

// HasTableTop reports whether a hand is on the table
func (s Snapshot) HasTableTop() bool { return !s.TableTop.IsZero() }

// Engine enforces turn order and move legality for one table. It is not
// safe for concurrent use; callers serialize Start and SubmitMove.
type Engine struct {
	phase   Phase
	gameID  string
	active  int
	winner  int
	hands   [Seats]*bigtwo.CardList
	history []bigtwo.Hand

	bus    EventBus
	clock  quartz.Clock
	nextID func() string
}

// NewEngine creates an engine in the NotStarted phase
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		winner: -1,
		bus:    NewEventBus(),
		clock:  quartz.NewReal(),
		nextID: defaultGameIDs,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Events returns the bus the engine publishes on
func (e *Engine) Events() EventBus { return e.bus }

// Start discards any previous game and begins a new one from the dealt
// hands. Each hand must hold 13 cards and together they must form the
// 52-card deck. On error the engine keeps its previous state.
func (e *Engine) Start(hands [Seats][]bigtwo.Card) error {
	if err := bigtwo.ValidateDeal(hands); err != nil {
		return &ConfigError{Err: err}
	}

	var lists [Seats]*bigtwo.CardList
	for seat, cards := range hands {
		l, err := bigtwo.NewCardList(cards...)
		if err != nil {
			return &ConfigError{Err: fmt.Errorf("seat %d: %w", seat, err)}
		}
		l.Sort()
		lists[seat] = l
	}
	first := bigtwo.HolderOf(hands, bigtwo.ThreeOfDiamonds)
	if first < 0 {
		// Unreachable after ValidateDeal, kept so a bad deck never starts a game.
		return &ConfigError{Err: fmt.Errorf("no seat holds %s", bigtwo.ThreeOfDiamonds)}
	}

	e.hands = lists
	e.history = nil
	e.active = first
	e.winner = -1
	e.gameID = e.nextID()
	e.phase = InProgress

	e.bus.Publish(GameStartedEvent{
		GameID:      e.gameID,
		FirstPlayer: first,
		CardCounts:  e.cardCounts(),
		timestamp:   e.clock.Now(),
	})
	return nil
}

// SubmitMove plays the cards at the given indices of the player's sorted
// hand, or passes when selection is empty. Rejected moves return a
// *MoveError and leave the state untouched.
func (e *Engine) SubmitMove(player int, selection []int) (Move, error) {
	if e.phase != InProgress {
		return Move{}, &UsageError{Op: "submit move", Phase: e.phase}
	}
	if player != e.active {
		return Move{}, e.reject(player, ReasonOutOfTurn, nil)
	}

	top, hasTop := e.TableTop()

	if len(selection) == 0 {
		switch {
		case !hasTop:
			return Move{}, e.reject(player, ReasonPassOnEmptyTable, nil)
		case top.Owner() == player:
			return Move{}, e.reject(player, ReasonPassOnOwnHand, nil)
		}
		move := Move{Player: player, Pass: true}
		e.advance()
		e.publishAccepted(move)
		return move, nil
	}

	cards, err := e.hands[player].Select(selection)
	if err != nil {
		return Move{}, e.reject(player, ReasonBadSelection, err)
	}
	hand, err := bigtwo.NewHand(player, cards)
	if err != nil {
		return Move{}, e.reject(player, ReasonInvalidHand, err)
	}

	switch {
	case !hasTop:
		if !hand.Contains(bigtwo.ThreeOfDiamonds) {
			return Move{}, e.reject(player, ReasonMissingThreeOfDiamonds, nil)
		}
	case top.Owner() != player:
		ok, err := bigtwo.Beats(hand, top)
		if err != nil {
			return Move{}, fmt.Errorf("comparing against table: %w", err)
		}
		if !ok {
			return Move{}, e.reject(player, ReasonDoesNotBeat, nil)
		}
	}

	// Validation is complete; commit.
	e.hands[player].RemoveAll(hand.Cards())
	e.history = append(e.history, hand)
	move := Move{Player: player, Hand: hand}

	if e.hands[player].Len() == 0 {
		e.phase = Ended
		e.winner = player
		e.publishAccepted(move)
		e.bus.Publish(GameEndedEvent{
			GameID:    e.gameID,
			Winner:    player,
			Results:   e.Results(),
			timestamp: e.clock.Now(),
		})
		return move, nil
	}

	e.advance()
	e.publishAccepted(move)
	return move, nil
}

// CanPass reports whether a pass by player would currently be accepted
func (e *Engine) CanPass(player int) bool {
	if e.phase != InProgress || player != e.active {
		return false
	}
	top, ok := e.TableTop()
	return ok && top.Owner() != player
}

// Phase returns the lifecycle phase
func (e *Engine) Phase() Phase { return e.phase }

// GameID returns the ID assigned by the last successful Start
func (e *Engine) GameID() string { return e.gameID }

// ActivePlayer returns the seat whose turn it is
func (e *Engine) ActivePlayer() int { return e.active }

// Winner returns the winning seat, or -1 while no game has ended
func (e *Engine) Winner() int { return e.winner }

// TableTop returns the most recently played hand
func (e *Engine) TableTop() (bigtwo.Hand, bool) {
	if len(e.history) == 0 {
		return bigtwo.Hand{}, false
	}
	return e.history[len(e.history)-1], true
}

// History returns the hands played so far, oldest first
func (e *Engine) History() []bigtwo.Hand {
	return append([]bigtwo.Hand(nil), e.history...)
}

// PlayerCards returns a copy of a seat's remaining cards in play order
func (e *Engine) PlayerCards(player int) []bigtwo.Card {
	if player < 0 || player >= Seats {
		return nil
	}
	return e.hands[player].Cards()
}

// Results returns one record per seat once the game has ended, nil before
func (e *Engine) Results() []PlayerResult {
	if e.phase != Ended {
		return nil
	}
	out := make([]PlayerResult, Seats)
	for seat := range out {
		out[seat] = PlayerResult{
			Player:    seat,
			Winner:    seat == e.winner,
			CardsLeft: e.hands[seat].Len(),
		}
	}
	return out
}

// Snapshot captures the reporting view of the game
func (e *Engine) Snapshot() Snapshot {
	top, _ := e.TableTop()
	return Snapshot{
		Phase:        e.phase,
		GameID:       e.gameID,
		ActivePlayer: e.active,
		TableTop:     top,
		CardCounts:   e.cardCounts(),
		Winner:       e.winner,
		Results:      e.Results(),
	}
}

func (e *Engine) cardCounts() [Seats]int {
	var counts [Seats]int
	for seat, l := range e.hands {
		counts[seat] = l.Len()
	}
	return counts
}

func (e *Engine) advance() {
	e.active = (e.active + 1) % Seats
}

func (e *Engine) reject(player int, reason Reason, cause error) *MoveError {
	err := &MoveError{Player: player, Reason: reason, Err: cause}
	e.bus.Publish(MoveRejectedEvent{
		GameID:    e.gameID,
		Player:    player,
		Err:       err,
		timestamp: e.clock.Now(),
	})
	return err
}

func (e *Engine) publishAccepted(move Move) {
	next := e.active
	if e.phase == Ended {
		next = -1
	}
	e.bus.Publish(MoveAcceptedEvent{
		GameID:     e.gameID,
		Move:       move,
		NextPlayer: next,
		CardsLeft:  e.hands[move.Player].Len(),
		timestamp:  e.clock.Now(),
	})
}
