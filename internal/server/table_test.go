package server

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bigtwo/bigtwo"
	"github.com/lox/bigtwo/internal/game"
)

func TestTableSeatsAtLowestFreeSeat(t *testing.T) {
	t.Parallel()

	tbl := startTable(t, TableConfig{Name: "main"}, nil)
	clients := seatFour(t, tbl)

	fifth := newFakeClient("p4")
	require.NoError(t, tbl.Join(fifth, "p4"))
	var full FullData
	fifth.expect(t, MessageTypeFull, &full)
	assert.Equal(t, "main", full.Table)

	require.NoError(t, tbl.Leave(clients[1]))
	var left PlayerLeftData
	clients[0].expect(t, MessageTypePlayerLeft, &left)
	assert.Equal(t, PlayerLeftData{Seat: 1, Name: "p1"}, left)

	require.NoError(t, tbl.Join(fifth, "p4"))
	var welcome WelcomeData
	fifth.expect(t, MessageTypeWelcome, &welcome)
	assert.Equal(t, 1, welcome.Seat)
	assert.Len(t, welcome.Players, 4)

	var joined PlayerJoinedData
	clients[3].expect(t, MessageTypePlayerJoined, &joined)
	assert.Equal(t, PlayerJoinedData{Seat: 1, Name: "p4"}, joined)

	info, err := tbl.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TableInfo{Name: "main", Players: 4}, info)
}

func TestTableJoinErrors(t *testing.T) {
	t.Parallel()

	tbl := startTable(t, TableConfig{Name: "main"}, nil)
	c := newFakeClient("c")

	var errData ErrorData
	require.NoError(t, tbl.Join(c, ""))
	c.expect(t, MessageTypeError, &errData)
	assert.Equal(t, "invalid_name", errData.Code)

	require.NoError(t, tbl.Ready(c))
	c.expect(t, MessageTypeError, &errData)
	assert.Equal(t, "not_seated", errData.Code)

	require.NoError(t, tbl.Join(c, "c"))
	c.expect(t, MessageTypeWelcome, nil)
	require.NoError(t, tbl.Join(c, "c"))
	c.expect(t, MessageTypeError, &errData)
	assert.Equal(t, "already_seated", errData.Code)

	require.NoError(t, tbl.Pass(c))
	c.expect(t, MessageTypeError, &errData)
	assert.Equal(t, "no_game", errData.Code)
}

func TestTablePlaysFullGame(t *testing.T) {
	t.Parallel()

	tbl := startTable(t, TableConfig{Name: "main", DealFile: suitDealFile(t)}, nil)
	clients := seatFour(t, tbl)
	started := startGame(t, tbl, clients)
	assert.Equal(t, 0, started.FirstPlayer)
	assert.Len(t, started.GameID, 26)

	// Out of turn is reported to the offender only.
	require.NoError(t, tbl.Play(clients[1], []int{0}))
	var rejected MoveRejectedData
	clients[1].expect(t, MessageTypeMoveRejected, &rejected)
	assert.Equal(t, game.ReasonOutOfTurn, rejected.Reason)
	assert.Equal(t, game.ReasonOutOfTurn.String(), rejected.Message)

	// Seat 0 holds the diamonds, sorted 3d..2d.
	leads := [][]int{{0, 1, 2, 3, 4}, {0, 1, 2, 3, 4}, {0}, {0}}
	for _, lead := range leads {
		require.NoError(t, tbl.Play(clients[0], lead))
		for seat := 1; seat < 4; seat++ {
			require.NoError(t, tbl.Pass(clients[seat]))
		}
	}

	var first MoveData
	clients[2].expect(t, MessageTypeMove, &first)
	assert.Equal(t, 0, first.Player)
	require.NotNil(t, first.Hand)
	assert.Equal(t, bigtwo.StraightFlush, first.Hand.Kind)
	assert.Equal(t, 1, first.NextPlayer)
	assert.Equal(t, 8, first.CardsLeft)

	var state StateData
	clients[2].expect(t, MessageTypeState, &state)
	assert.Equal(t, "in_progress", state.Phase)
	assert.Equal(t, 1, state.ActivePlayer)
	assert.Equal(t, [4]int{8, 13, 13, 13}, state.CardCounts)
	require.NotNil(t, state.TableTop)
	assert.Equal(t, 0, state.TableTop.Owner)

	require.NoError(t, tbl.Play(clients[0], []int{0}))
	var over GameOverData
	clients[2].expect(t, MessageTypeGameOver, &over)
	assert.Equal(t, started.GameID, over.GameID)
	assert.Equal(t, 0, over.Winner)
	require.Len(t, over.Results, 4)
	assert.True(t, over.Results[0].Winner)
	assert.Equal(t, 13, over.Results[3].CardsLeft)

	stats, err := tbl.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Games)
	assert.Equal(t, 17, stats.Moves)
	assert.Equal(t, 12, stats.Passes)
	assert.Equal(t, 1, stats.Seats[0].Wins)
	assert.InDelta(t, 13.0, stats.Seats[2].MeanCardsLeft, 1e-9)

	// Ready flags reset: one ready player does not start a game.
	require.NoError(t, tbl.Ready(clients[0]))
	var ready PlayerReadyData
	clients[3].expect(t, MessageTypePlayerReady, &ready)
	assert.Equal(t, 0, ready.Seat)

	info, err := tbl.Info(context.Background())
	require.NoError(t, err)
	assert.False(t, info.Playing)

	for _, c := range clients[1:] {
		require.NoError(t, tbl.Ready(c))
	}
	var again GameStartedData
	clients[0].expect(t, MessageTypeGameStarted, &again)
	assert.NotEqual(t, started.GameID, again.GameID)
}

func TestTableLeaveAbortsGame(t *testing.T) {
	t.Parallel()

	tbl := startTable(t, TableConfig{Name: "main", Seed: 99}, nil)
	clients := seatFour(t, tbl)
	started := startGame(t, tbl, clients)

	require.NoError(t, tbl.Leave(clients[2]))
	var aborted GameAbortedData
	clients[0].expect(t, MessageTypeGameAborted, &aborted)
	assert.Equal(t, started.GameID, aborted.GameID)
	assert.Contains(t, aborted.Reason, "p2")

	require.NoError(t, tbl.Pass(clients[0]))
	var errData ErrorData
	clients[0].expect(t, MessageTypeError, &errData)
	assert.Equal(t, "no_game", errData.Code)

	info, err := tbl.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TableInfo{Name: "main", Players: 3}, info)

	stats, err := tbl.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Aborted)
	assert.Zero(t, stats.Games)
}

func TestTableChat(t *testing.T) {
	t.Parallel()

	tbl := startTable(t, TableConfig{Name: "main"}, nil)
	clients := seatFour(t, tbl)

	require.NoError(t, tbl.Chat(clients[3], "gg"))
	for _, c := range clients {
		var chat ChatBroadcastData
		c.expect(t, MessageTypeChat, &chat)
		assert.Equal(t, ChatBroadcastData{Seat: 3, Name: "p3", Text: "gg"}, chat)
	}
}

func TestTableTurnTimeout(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	tbl := startTable(t, TableConfig{Name: "main", TurnTimeout: "30s", DealFile: suitDealFile(t)}, mClock)
	clients := seatFour(t, tbl)
	startGame(t, tbl, clients)

	// The opener cannot pass, so the timeout only nudges.
	d, w := mClock.AdvanceNext()
	assert.Equal(t, 30*time.Second, d)
	w.MustWait(ctx)

	var timeout TurnTimeoutData
	clients[1].expect(t, MessageTypeTurnTimeout, &timeout)
	assert.Equal(t, TurnTimeoutData{Seat: 0, Passed: false}, timeout)

	require.NoError(t, tbl.Play(clients[0], []int{0}))
	var move MoveData
	clients[0].expect(t, MessageTypeMove, &move)
	require.Equal(t, 0, move.Player)

	// Seat 1 is passed for on expiry.
	d, w = mClock.AdvanceNext()
	assert.Equal(t, 30*time.Second, d)
	w.MustWait(ctx)

	clients[1].expect(t, MessageTypeTurnTimeout, &timeout)
	assert.Equal(t, TurnTimeoutData{Seat: 1, Passed: true}, timeout)
	clients[1].expect(t, MessageTypeMove, &move)
	assert.Equal(t, 1, move.Player)
	assert.True(t, move.Pass)
	assert.Equal(t, 2, move.NextPlayer)
}

func TestTableRejectsBadDealFile(t *testing.T) {
	t.Parallel()

	_, err := NewTable(TableConfig{Name: "main", DealFile: "/does/not/exist"}, nil, testLogger())
	assert.Error(t, err)

	_, err = NewTable(TableConfig{Name: "main", TurnTimeout: "soon"}, nil, testLogger())
	assert.ErrorContains(t, err, "turn_timeout")
}
