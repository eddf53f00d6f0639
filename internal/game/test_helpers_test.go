package game

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/bigtwo/bigtwo"
)

// suitDeal deals an unshuffled deck: seat j holds every card of suit j, so
// seat 0 holds the 3♦.
func suitDeal() [Seats][]bigtwo.Card {
	return bigtwo.NewDeck().Deal()
}

// rotate moves every hand n seats to the left
func rotate(hands [Seats][]bigtwo.Card, n int) [Seats][]bigtwo.Card {
	var out [Seats][]bigtwo.Card
	for seat, h := range hands {
		out[(seat+n)%Seats] = h
	}
	return out
}

// swap exchanges two cards between whichever seats hold them
func swap(t *testing.T, hands *[Seats][]bigtwo.Card, a, b string) {
	t.Helper()
	ca, err := bigtwo.ParseCard(a)
	require.NoError(t, err)
	cb, err := bigtwo.ParseCard(b)
	require.NoError(t, err)

	sa, ia := locate(hands, ca)
	sb, ib := locate(hands, cb)
	require.True(t, sa >= 0 && sb >= 0, "cards %s and %s must both be dealt", a, b)
	hands[sa] = slices.Clone(hands[sa])
	hands[sb] = slices.Clone(hands[sb])
	hands[sa][ia], hands[sb][ib] = cb, ca
}

func locate(hands *[Seats][]bigtwo.Card, c bigtwo.Card) (int, int) {
	for seat, h := range hands {
		if i := slices.Index(h, c); i >= 0 {
			return seat, i
		}
	}
	return -1, -1
}

// indicesOf resolves notation into indices of the player's current hand
func indicesOf(t *testing.T, e *Engine, player int, cards string) []int {
	t.Helper()
	held := e.PlayerCards(player)
	var out []int
	for _, c := range bigtwo.MustParseCards(cards) {
		i := slices.Index(held, c)
		require.GreaterOrEqual(t, i, 0, "player %d does not hold %s", player, c)
		out = append(out, i)
	}
	return out
}

func play(t *testing.T, e *Engine, player int, cards string) Move {
	t.Helper()
	m, err := e.SubmitMove(player, indicesOf(t, e, player, cards))
	require.NoError(t, err, "player %d playing %s", player, cards)
	return m
}

func pass(t *testing.T, e *Engine, player int) {
	t.Helper()
	m, err := e.SubmitMove(player, nil)
	require.NoError(t, err, "player %d passing", player)
	require.True(t, m.Pass)
}

func requireReason(t *testing.T, err error, want Reason) {
	t.Helper()
	require.ErrorIs(t, err, ErrIllegalMove)
	reason, ok := IsIllegalMove(err)
	require.True(t, ok)
	require.Equal(t, want, reason, "error: %v", err)
}

func startedEngine(t *testing.T, hands [Seats][]bigtwo.Card, opts ...Option) *Engine {
	t.Helper()
	n := 0
	opts = append([]Option{WithGameIDs(func() string {
		n++
		return fmt.Sprintf("game-%d", n)
	})}, opts...)
	e := NewEngine(opts...)
	require.NoError(t, e.Start(hands))
	return e
}

// recorder collects published events
type recorder struct {
	events []GameEvent
}

func (r *recorder) OnEvent(event GameEvent) { r.events = append(r.events, event) }

func (r *recorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.EventType()
	}
	return out
}
