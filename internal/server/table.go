package server

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/bigtwo/bigtwo"
	"github.com/lox/bigtwo/internal/dealfile"
	"github.com/lox/bigtwo/internal/game"
	"github.com/lox/bigtwo/internal/randutil"
	"github.com/lox/bigtwo/internal/statistics"
)

// ErrTableClosed is returned when an action reaches a table that has stopped.
var ErrTableClosed = errors.New("table closed")

// Client is anything the table can send messages to
type Client interface {
	Send(msg *Message) error
}

type seat struct {
	client Client
	name   string
	ready  bool
}

// TableInfo is a summary of a table for health reporting
type TableInfo struct {
	Name    string `json:"name"`
	Players int    `json:"players"`
	Playing bool   `json:"playing"`
	GameID  string `json:"gameId,omitempty"`
}

// Table seats four players and runs their games. All state is owned by
// the goroutine in Run; every other method only queues an action for it.
type Table struct {
	name    string
	timeout time.Duration
	deal    *dealfile.Deal
	rng     *rand.Rand
	clock   quartz.Clock
	logger  *log.Logger

	actions chan func()
	done    chan struct{}

	// owned by the Run goroutine
	seats   [game.Seats]*seat
	bus     *game.SimpleEventBus
	engine  *game.Engine
	timer   *quartz.Timer
	turnSeq uint64
	stats   statistics.Statistics
}

// NewTable builds a table from its configuration. A configured deal file
// is read once here and replayed for every game.
func NewTable(cfg TableConfig, clock quartz.Clock, logger *log.Logger) (*Table, error) {
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	rng, seed := randutil.NewOrTime(cfg.Seed)

	t := &Table{
		name:    cfg.Name,
		timeout: timeout,
		rng:     rng,
		clock:   clock,
		logger:  logger.WithPrefix("table").With("table", cfg.Name),
		actions: make(chan func(), 64),
		done:    make(chan struct{}),
		bus:     game.NewEventBus(),
	}
	if cfg.DealFile != "" {
		deal, err := dealfile.Read(cfg.DealFile)
		if err != nil {
			return nil, err
		}
		t.deal = &deal
	}
	t.bus.Subscribe(t)
	t.logger.Debug("Table created", "seed", seed, "turnTimeout", timeout, "dealFile", cfg.DealFile)
	return t, nil
}

// Name returns the table name
func (t *Table) Name() string { return t.name }

// Run processes actions until ctx is cancelled
func (t *Table) Run(ctx context.Context) error {
	defer close(t.done)
	t.logger.Info("Table open")
	for {
		select {
		case <-ctx.Done():
			t.stopTimer()
			t.logger.Info("Table closed")
			return nil
		case fn := <-t.actions:
			fn()
		}
	}
}

func (t *Table) enqueue(fn func()) error {
	select {
	case t.actions <- fn:
		return nil
	case <-t.done:
		return ErrTableClosed
	}
}

// Join seats a client at the lowest free seat, or tells it the table is full
func (t *Table) Join(c Client, name string) error {
	return t.enqueue(func() { t.handleJoin(c, name) })
}

// Leave removes a client. Leaving mid-game aborts the game.
func (t *Table) Leave(c Client) error {
	return t.enqueue(func() { t.handleLeave(c) })
}

// Ready marks a seated client ready for the next game
func (t *Table) Ready(c Client) error {
	return t.enqueue(func() { t.handleReady(c) })
}

// Play submits the cards at the given indices of the client's hand
func (t *Table) Play(c Client, cards []int) error {
	return t.enqueue(func() { t.handleMove(c, cards) })
}

// Pass submits a pass
func (t *Table) Pass(c Client) error {
	return t.enqueue(func() { t.handleMove(c, nil) })
}

// Chat relays a line of text to everyone seated
func (t *Table) Chat(c Client, text string) error {
	return t.enqueue(func() { t.handleChat(c, text) })
}

// Info returns a summary of the table
func (t *Table) Info(ctx context.Context) (TableInfo, error) {
	reply := make(chan TableInfo, 1)
	if err := t.enqueue(func() { reply <- t.info() }); err != nil {
		return TableInfo{}, err
	}
	select {
	case info := <-reply:
		return info, nil
	case <-ctx.Done():
		return TableInfo{}, ctx.Err()
	case <-t.done:
		return TableInfo{}, ErrTableClosed
	}
}

// Stats returns the results of every game played at the table so far
func (t *Table) Stats(ctx context.Context) (statistics.Summary, error) {
	reply := make(chan statistics.Summary, 1)
	if err := t.enqueue(func() { reply <- t.stats.Summary() }); err != nil {
		return statistics.Summary{}, err
	}
	select {
	case sum := <-reply:
		return sum, nil
	case <-ctx.Done():
		return statistics.Summary{}, ctx.Err()
	case <-t.done:
		return statistics.Summary{}, ErrTableClosed
	}
}

func (t *Table) info() TableInfo {
	info := TableInfo{Name: t.name, Players: t.seated(), Playing: t.playing()}
	if info.Playing {
		info.GameID = t.engine.GameID()
	}
	return info
}

func (t *Table) handleJoin(c Client, name string) {
	if name == "" {
		t.sendError(c, "invalid_name", "player name required")
		return
	}
	if t.seatOf(c) >= 0 {
		t.sendError(c, "already_seated", "already seated at this table")
		return
	}
	idx := t.lowestFreeSeat()
	if idx < 0 {
		t.logger.Debug("Table full", "player", name)
		t.send(c, MessageTypeFull, FullData{Table: t.name})
		return
	}

	t.seats[idx] = &seat{client: c, name: name}
	t.logger.Info("Player joined", "seat", idx, "player", name)
	t.send(c, MessageTypeWelcome, WelcomeData{Table: t.name, Seat: idx, Players: t.seatInfo()})
	t.broadcastExcept(c, MessageTypePlayerJoined, PlayerJoinedData{Seat: idx, Name: name})
}

func (t *Table) handleLeave(c Client) {
	idx := t.seatOf(c)
	if idx < 0 {
		return
	}
	name := t.seats[idx].name
	t.seats[idx] = nil
	t.logger.Info("Player left", "seat", idx, "player", name)
	t.broadcast(MessageTypePlayerLeft, PlayerLeftData{Seat: idx, Name: name})

	if t.playing() {
		gameID := t.engine.GameID()
		t.abortGame()
		t.logger.Warn("Game aborted", "gameId", gameID, "seat", idx)
		t.broadcast(MessageTypeGameAborted, GameAbortedData{GameID: gameID, Reason: name + " left the table"})
	}
}

func (t *Table) handleReady(c Client) {
	idx := t.seatOf(c)
	if idx < 0 {
		t.sendError(c, "not_seated", "join the table first")
		return
	}
	if t.playing() {
		t.sendError(c, "game_in_progress", "a game is already running")
		return
	}
	if t.seats[idx].ready {
		return
	}
	t.seats[idx].ready = true
	t.broadcast(MessageTypePlayerReady, PlayerReadyData{Seat: idx})

	if t.allReady() {
		t.startGame()
	}
}

func (t *Table) handleMove(c Client, cards []int) {
	idx := t.seatOf(c)
	if idx < 0 {
		t.sendError(c, "not_seated", "join the table first")
		return
	}
	if !t.playing() {
		t.sendError(c, "no_game", "no game in progress")
		return
	}
	if _, err := t.engine.SubmitMove(idx, cards); err != nil {
		if _, illegal := game.IsIllegalMove(err); illegal {
			// Reported to the player by the MoveRejectedEvent handler.
			return
		}
		t.logger.Error("Move failed", "seat", idx, "error", err)
		t.sendError(c, "move_failed", err.Error())
	}
}

func (t *Table) handleChat(c Client, text string) {
	idx := t.seatOf(c)
	if idx < 0 {
		t.sendError(c, "not_seated", "join the table first")
		return
	}
	if text == "" {
		return
	}
	t.broadcast(MessageTypeChat, ChatBroadcastData{Seat: idx, Name: t.seats[idx].name, Text: text})
}

func (t *Table) handleTimeout(seq uint64) {
	if seq != t.turnSeq || !t.playing() {
		return
	}
	active := t.engine.ActivePlayer()
	if !t.engine.CanPass(active) {
		// Nothing can be played on the player's behalf, so just nudge.
		t.logger.Debug("Turn timeout, pass not allowed", "seat", active)
		t.armTimer()
		t.broadcast(MessageTypeTurnTimeout, TurnTimeoutData{Seat: active})
		return
	}

	t.logger.Debug("Turn timeout, passing", "seat", active)
	t.broadcast(MessageTypeTurnTimeout, TurnTimeoutData{Seat: active, Passed: true})
	if _, err := t.engine.SubmitMove(active, nil); err != nil {
		t.logger.Error("Automatic pass failed", "seat", active, "error", err)
	}
}

func (t *Table) startGame() {
	var hands [game.Seats][]bigtwo.Card
	if t.deal != nil {
		hands = *t.deal
	} else {
		hands = bigtwo.NewShuffledDeck(t.rng).Deal()
	}

	engine := game.NewEngine(game.WithEventBus(t.bus), game.WithClock(t.clock))
	t.engine = engine
	if err := engine.Start(hands); err != nil {
		t.engine = nil
		t.logger.Error("Failed to start game", "error", err)
		t.broadcast(MessageTypeError, ErrorData{Code: "start_failed", Message: err.Error()})
		t.clearReady()
	}
}

func (t *Table) abortGame() {
	t.stats.AddAbort()
	t.stopTimer()
	t.engine = nil
	t.clearReady()
}

// OnEvent turns engine events into table messages. It runs on the Run
// goroutine because the engine is only called from there.
func (t *Table) OnEvent(event game.GameEvent) {
	switch ev := event.(type) {
	case game.GameStartedEvent:
		t.logger.Info("Game started", "gameId", ev.GameID, "firstPlayer", ev.FirstPlayer)
		t.armTimer()
		t.broadcast(MessageTypeGameStarted, GameStartedData{GameID: ev.GameID, FirstPlayer: ev.FirstPlayer})
		t.broadcastState()

	case game.MoveAcceptedEvent:
		t.logger.Debug("Move accepted", "gameId", ev.GameID, "move", ev.Move)
		t.stats.AddMove(ev.Move)
		if ev.NextPlayer >= 0 {
			t.armTimer()
		}
		t.broadcast(MessageTypeMove, MoveData{
			GameID:     ev.GameID,
			Player:     ev.Move.Player,
			Pass:       ev.Move.Pass,
			Hand:       HandDataFromGame(ev.Move.Hand),
			NextPlayer: ev.NextPlayer,
			CardsLeft:  ev.CardsLeft,
		})
		t.broadcastState()

	case game.MoveRejectedEvent:
		t.logger.Debug("Move rejected", "gameId", ev.GameID, "seat", ev.Player, "reason", ev.Err.Reason)
		if s := t.seatAt(ev.Player); s != nil {
			t.send(s.client, MessageTypeMoveRejected, MoveRejectedData{
				Reason:  ev.Err.Reason,
				Message: ev.Err.Reason.String(),
			})
		}

	case game.GameEndedEvent:
		t.logger.Info("Game over", "gameId", ev.GameID, "winner", ev.Winner, "results", ev.Results)
		if err := t.stats.AddGame(ev.Results); err != nil {
			t.logger.Error("Failed to record results", "gameId", ev.GameID, "error", err)
		}
		t.stopTimer()
		t.clearReady()
		t.broadcast(MessageTypeGameOver, GameOverData{GameID: ev.GameID, Winner: ev.Winner, Results: ev.Results})
	}
}

func (t *Table) armTimer() {
	t.stopTimer()
	if t.timeout <= 0 {
		return
	}
	t.turnSeq++
	seq := t.turnSeq
	t.timer = t.clock.AfterFunc(t.timeout, func() {
		_ = t.enqueue(func() { t.handleTimeout(seq) })
	}, "table", "turn")
}

func (t *Table) stopTimer() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.turnSeq++
}

func (t *Table) playing() bool {
	return t.engine != nil && t.engine.Phase() == game.InProgress
}

func (t *Table) seatOf(c Client) int {
	for i, s := range t.seats {
		if s != nil && s.client == c {
			return i
		}
	}
	return -1
}

func (t *Table) seatAt(idx int) *seat {
	if idx < 0 || idx >= len(t.seats) {
		return nil
	}
	return t.seats[idx]
}

func (t *Table) lowestFreeSeat() int {
	for i, s := range t.seats {
		if s == nil {
			return i
		}
	}
	return -1
}

func (t *Table) seated() int {
	n := 0
	for _, s := range t.seats {
		if s != nil {
			n++
		}
	}
	return n
}

func (t *Table) allReady() bool {
	for _, s := range t.seats {
		if s == nil || !s.ready {
			return false
		}
	}
	return true
}

func (t *Table) clearReady() {
	for _, s := range t.seats {
		if s != nil {
			s.ready = false
		}
	}
}

func (t *Table) seatInfo() []SeatInfo {
	var out []SeatInfo
	for i, s := range t.seats {
		if s != nil {
			out = append(out, SeatInfo{Seat: i, Name: s.name, Ready: s.ready})
		}
	}
	return out
}

func (t *Table) broadcastState() {
	snap := t.engine.Snapshot()
	for i, s := range t.seats {
		if s != nil {
			t.send(s.client, MessageTypeState, StateFromSnapshot(snap, i, t.engine.PlayerCards(i)))
		}
	}
}

func (t *Table) broadcast(mt MessageType, data any) {
	t.broadcastExcept(nil, mt, data)
}

func (t *Table) broadcastExcept(skip Client, mt MessageType, data any) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		t.logger.Error("Failed to create message", "type", mt, "error", err)
		return
	}
	for i, s := range t.seats {
		if s == nil || s.client == skip {
			continue
		}
		if err := s.client.Send(msg); err != nil {
			t.logger.Warn("Failed to send message", "seat", i, "type", mt, "error", err)
		}
	}
}

func (t *Table) send(c Client, mt MessageType, data any) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		t.logger.Error("Failed to create message", "type", mt, "error", err)
		return
	}
	if err := c.Send(msg); err != nil {
		t.logger.Warn("Failed to send message", "type", mt, "error", err)
	}
}

func (t *Table) sendError(c Client, code, message string) {
	t.send(c, MessageTypeError, ErrorData{Code: code, Message: message})
}
