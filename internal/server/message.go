package server

import (
	"encoding/json"
	"time"

	"github.com/lox/bigtwo/bigtwo"
	"github.com/lox/bigtwo/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	msg := &Message{Type: messageType, Timestamp: time.Now()}
	if data == nil {
		return msg, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	msg.Data = raw
	return msg, nil
}

// Decode unmarshals the message payload into v
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return json.Unmarshal([]byte("{}"), v)
	}
	return json.Unmarshal(m.Data, v)
}

// Client → Server

type JoinData struct {
	Name string `json:"name"`
}

type PlayData struct {
	Cards []int `json:"cards"`
}

type ChatData struct {
	Text string `json:"text"`
}

// Server → Client

type SeatInfo struct {
	Seat  int    `json:"seat"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

type WelcomeData struct {
	Table   string     `json:"table"`
	Seat    int        `json:"seat"`
	Players []SeatInfo `json:"players"`
}

type FullData struct {
	Table string `json:"table"`
}

type PlayerJoinedData struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

type PlayerLeftData struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

type PlayerReadyData struct {
	Seat int `json:"seat"`
}

type GameStartedData struct {
	GameID      string `json:"gameId"`
	FirstPlayer int    `json:"firstPlayer"`
}

// HandData is the wire form of a played hand
type HandData struct {
	Owner int           `json:"owner"`
	Kind  bigtwo.Kind   `json:"kind"`
	Cards []bigtwo.Card `json:"cards"`
}

type StateData struct {
	Phase        string              `json:"phase"`
	GameID       string              `json:"gameId"`
	ActivePlayer int                 `json:"activePlayer"`
	TableTop     *HandData           `json:"tableTop,omitempty"`
	CardCounts   [game.Seats]int     `json:"cardCounts"`
	YourSeat     int                 `json:"yourSeat"`
	YourCards    []bigtwo.Card       `json:"yourCards"`
	Results      []game.PlayerResult `json:"results,omitempty"`
}

type MoveData struct {
	GameID     string    `json:"gameId"`
	Player     int       `json:"player"`
	Pass       bool      `json:"pass"`
	Hand       *HandData `json:"hand,omitempty"`
	NextPlayer int       `json:"nextPlayer"`
	CardsLeft  int       `json:"cardsLeft"`
}

type MoveRejectedData struct {
	Reason  game.Reason `json:"reason"`
	Message string      `json:"message"`
}

type GameOverData struct {
	GameID  string              `json:"gameId"`
	Winner  int                 `json:"winner"`
	Results []game.PlayerResult `json:"results"`
}

type GameAbortedData struct {
	GameID string `json:"gameId"`
	Reason string `json:"reason"`
}

type ChatBroadcastData struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
	Text string `json:"text"`
}

type TurnTimeoutData struct {
	Seat   int  `json:"seat"`
	Passed bool `json:"passed"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandDataFromGame converts a hand for the wire, nil for the zero hand
func HandDataFromGame(h bigtwo.Hand) *HandData {
	if h.IsZero() {
		return nil
	}
	return &HandData{Owner: h.Owner(), Kind: h.Kind(), Cards: h.Cards()}
}

// StateFromSnapshot builds the state message for one seat. Only that
// seat's cards are included.
func StateFromSnapshot(snap game.Snapshot, seat int, cards []bigtwo.Card) StateData {
	if cards == nil {
		cards = []bigtwo.Card{}
	}
	return StateData{
		Phase:        snap.Phase.String(),
		GameID:       snap.GameID,
		ActivePlayer: snap.ActivePlayer,
		TableTop:     HandDataFromGame(snap.TableTop),
		CardCounts:   snap.CardCounts,
		YourSeat:     seat,
		YourCards:    cards,
		Results:      snap.Results,
	}
}
