package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bigtwo/bigtwo"
)

func TestStartPicksHolderOfThreeOfDiamonds(t *testing.T) {
	t.Parallel()

	for seat := range Seats {
		e := startedEngine(t, rotate(suitDeal(), seat))
		assert.Equal(t, seat, e.ActivePlayer())
		assert.Equal(t, InProgress, e.Phase())
		assert.Equal(t, "game-1", e.GameID())
		assert.Empty(t, e.History())
		_, ok := e.TableTop()
		assert.False(t, ok)
	}
}

func TestStartSortsHands(t *testing.T) {
	t.Parallel()

	hands := suitDeal()
	hands[1] = append([]bigtwo.Card(nil), hands[1]...)
	rand.New(rand.NewPCG(3, 4)).Shuffle(len(hands[1]), func(i, j int) {
		hands[1][i], hands[1][j] = hands[1][j], hands[1][i]
	})

	e := startedEngine(t, hands)
	got := e.PlayerCards(1)
	require.Len(t, got, bigtwo.HandSize)
	assert.Equal(t, "3c", got[0].String())
	assert.Equal(t, "2c", got[len(got)-1].String())
	assert.Nil(t, e.PlayerCards(4))
}

func TestStartRejectsBadDeals(t *testing.T) {
	t.Parallel()

	short := suitDeal()
	short[3] = short[3][:12]

	dup := suitDeal()
	dup[1] = append([]bigtwo.Card(nil), dup[1]...)
	dup[1][5] = dup[0][5]

	invalid := suitDeal()
	invalid[2] = append([]bigtwo.Card(nil), invalid[2]...)
	invalid[2][0] = bigtwo.Card(99)

	for name, hands := range map[string][bigtwo.Players][]bigtwo.Card{
		"short hand":     short,
		"duplicate card": dup,
		"invalid card":   invalid,
		"empty":          {},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			e := NewEngine()
			err := e.Start(hands)
			require.ErrorIs(t, err, ErrConfiguration)
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, NotStarted, e.Phase())
		})
	}
}

func TestFailedStartKeepsRunningGame(t *testing.T) {
	t.Parallel()

	e := startedEngine(t, suitDeal())
	play(t, e, 0, "3d")

	bad := suitDeal()
	bad[0] = bad[0][:1]
	require.ErrorIs(t, e.Start(bad), ErrConfiguration)

	assert.Equal(t, InProgress, e.Phase())
	assert.Equal(t, "game-1", e.GameID())
	assert.Equal(t, 1, e.ActivePlayer())
	assert.Len(t, e.History(), 1)
}

func TestRestartDiscardsPreviousGame(t *testing.T) {
	t.Parallel()

	e := startedEngine(t, suitDeal())
	play(t, e, 0, "3d")

	require.NoError(t, e.Start(rotate(suitDeal(), 1)))
	assert.Equal(t, "game-2", e.GameID())
	assert.Equal(t, 1, e.ActivePlayer())
	assert.Empty(t, e.History())
	assert.Len(t, e.PlayerCards(1), bigtwo.HandSize)
}

func TestSubmitMoveBeforeStart(t *testing.T) {
	t.Parallel()

	_, err := NewEngine().SubmitMove(0, []int{0})
	require.ErrorIs(t, err, ErrUsage)
	var ue *UsageError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, NotStarted, ue.Phase)
	assert.False(t, errors.Is(err, ErrIllegalMove))
}

func TestSubmitMoveRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		player    int
		selection []int
		want      Reason
	}{
		{name: "out of turn", player: 1, selection: []int{0}, want: ReasonOutOfTurn},
		{name: "unknown seat", player: 7, selection: []int{0}, want: ReasonOutOfTurn},
		{name: "pass on empty table", player: 0, selection: nil, want: ReasonPassOnEmptyTable},
		{name: "empty selection is a pass", player: 0, selection: []int{}, want: ReasonPassOnEmptyTable},
		{name: "index out of range", player: 0, selection: []int{13}, want: ReasonBadSelection},
		{name: "negative index", player: 0, selection: []int{-1}, want: ReasonBadSelection},
		{name: "repeated index", player: 0, selection: []int{0, 0}, want: ReasonBadSelection},
		{name: "not a hand", player: 0, selection: []int{0, 1}, want: ReasonInvalidHand},
		{name: "four cards", player: 0, selection: []int{0, 1, 2, 3}, want: ReasonInvalidHand},
		{name: "opening without three of diamonds", player: 0, selection: []int{1}, want: ReasonMissingThreeOfDiamonds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := startedEngine(t, suitDeal())
			before := e.Snapshot()

			_, err := e.SubmitMove(tt.player, tt.selection)
			requireReason(t, err, tt.want)

			assert.Equal(t, before, e.Snapshot(), "rejected move must not change state")
			assert.Len(t, e.PlayerCards(0), bigtwo.HandSize)
		})
	}
}

func TestBadSelectionWrapsCause(t *testing.T) {
	t.Parallel()

	e := startedEngine(t, suitDeal())
	_, err := e.SubmitMove(0, []int{20})
	assert.ErrorIs(t, err, bigtwo.ErrBadSelection)

	_, err = e.SubmitMove(0, []int{0, 1})
	assert.ErrorIs(t, err, bigtwo.ErrInvalidHand)

	var me *MoveError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, 0, me.Player)
	assert.Contains(t, me.Error(), ReasonInvalidHand.String())
}

// Player 2 holds the 3♦ and the 3♣.
func scenarioOpeningDeal(t *testing.T) [Seats][]bigtwo.Card {
	hands := rotate(suitDeal(), 2)
	swap(t, &hands, "4d", "3c")
	return hands
}

func TestScenarioOpeningMove(t *testing.T) {
	t.Parallel()

	e := startedEngine(t, scenarioOpeningDeal(t))
	require.Equal(t, 2, e.ActivePlayer())

	_, err := e.SubmitMove(2, indicesOf(t, e, 2, "3c"))
	requireReason(t, err, ReasonMissingThreeOfDiamonds)
	assert.Equal(t, 2, e.ActivePlayer())

	m := play(t, e, 2, "3d")
	assert.Equal(t, bigtwo.Single, m.Hand.Kind())
	assert.Equal(t, 2, m.Player)

	top, ok := e.TableTop()
	require.True(t, ok)
	assert.Equal(t, bigtwo.Single, top.Kind())
	assert.Equal(t, 2, top.Owner())
	assert.Equal(t, "3d", top.TopCard().String())
	assert.Equal(t, 3, e.ActivePlayer())
	assert.Len(t, e.PlayerCards(2), bigtwo.HandSize-1)
}

// Seat 0 can open with a pair of 3s, seat 1 holds a pair of 5s, seat 2 a
// pair of 7s and seat 3 a pair of 9s.
func pairsDeal(t *testing.T) [Seats][]bigtwo.Card {
	hands := suitDeal()
	swap(t, &hands, "Kd", "3c")
	swap(t, &hands, "Qc", "5h")
	swap(t, &hands, "Jh", "7s")
	swap(t, &hands, "Ks", "9h")
	return hands
}

func TestScenarioPairsAndSizeMismatch(t *testing.T) {
	t.Parallel()

	e := startedEngine(t, pairsDeal(t))
	play(t, e, 0, "3d 3c")
	play(t, e, 1, "5c 5h")

	m := play(t, e, 2, "7h 7s")
	assert.Equal(t, bigtwo.Pair, m.Hand.Kind())

	play(t, e, 3, "9s 9h")
	pass(t, e, 0)
	pass(t, e, 1)

	_, err := e.SubmitMove(2, indicesOf(t, e, 2, "2h"))
	requireReason(t, err, ReasonDoesNotBeat)

	_, err = e.SubmitMove(2, indicesOf(t, e, 2, "4h 6h 8h 10h Ah"))
	requireReason(t, err, ReasonDoesNotBeat)

	_, err = e.SubmitMove(2, indicesOf(t, e, 2, "4h 6h"))
	requireReason(t, err, ReasonInvalidHand)

	assert.Equal(t, 2, e.ActivePlayer())
	assert.Len(t, e.History(), 4)
}

func TestSingleCannotAnswerPair(t *testing.T) {
	t.Parallel()

	e := startedEngine(t, pairsDeal(t))
	play(t, e, 0, "3d 3c")
	play(t, e, 1, "5c 5h")
	play(t, e, 2, "7h 7s")

	// A single never answers a pair.
	_, err := e.SubmitMove(3, indicesOf(t, e, 3, "3s"))
	requireReason(t, err, ReasonDoesNotBeat)
}

func TestScenarioEveryonePassesBack(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)

	e := startedEngine(t, pairsDeal(t), WithEventBus(bus))
	play(t, e, 0, "3d 3c")
	play(t, e, 1, "5c 5h")
	play(t, e, 2, "7h 7s")
	pass(t, e, 3)
	pass(t, e, 0)
	pass(t, e, 1)
	require.Equal(t, 2, e.ActivePlayer())
	require.False(t, e.CanPass(2))

	_, err := e.SubmitMove(2, nil)
	requireReason(t, err, ReasonPassOnOwnHand)

	// Any legal hand goes, even one that would not beat the pair.
	m := play(t, e, 2, "3h")
	assert.Equal(t, bigtwo.Single, m.Hand.Kind())
	assert.Equal(t, 3, e.ActivePlayer())
	assert.True(t, e.CanPass(3))

	top, _ := e.TableTop()
	assert.Equal(t, 2, top.Owner())
	assert.Len(t, e.History(), 4, "passes are not recorded")

	last := rec.events[len(rec.events)-1]
	accepted, ok := last.(MoveAcceptedEvent)
	require.True(t, ok)
	assert.Equal(t, 3, accepted.NextPlayer)
	assert.Equal(t, bigtwo.HandSize-3, accepted.CardsLeft)

	rejected := 0
	for _, ev := range rec.events {
		if r, ok := ev.(MoveRejectedEvent); ok {
			rejected++
			assert.Equal(t, ReasonPassOnOwnHand, r.Err.Reason)
		}
	}
	assert.Equal(t, 1, rejected)
}

func TestScenarioGameEnds(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	rec := &recorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	e := startedEngine(t, suitDeal(), WithEventBus(bus), WithClock(clock))

	leads := []string{"3d 4d 5d 6d 7d", "8d 9d 10d Jd Qd", "Kd", "Ad"}
	for _, lead := range leads {
		play(t, e, 0, lead)
		for seat := 1; seat < Seats; seat++ {
			pass(t, e, seat)
		}
	}
	require.Equal(t, []bigtwo.Card{bigtwo.NewCard(bigtwo.Diamonds, bigtwo.Two)}, e.PlayerCards(0))

	m := play(t, e, 0, "2d")
	assert.Equal(t, 0, m.Player)
	assert.Equal(t, Ended, e.Phase())
	assert.Equal(t, 0, e.Winner())

	want := []PlayerResult{
		{Player: 0, Winner: true, CardsLeft: 0},
		{Player: 1, CardsLeft: 13},
		{Player: 2, CardsLeft: 13},
		{Player: 3, CardsLeft: 13},
	}
	assert.Equal(t, want, e.Results())

	snap := e.Snapshot()
	assert.Equal(t, Ended, snap.Phase)
	assert.Equal(t, 0, snap.Winner)
	assert.Equal(t, want, snap.Results)
	assert.Equal(t, [Seats]int{0, 13, 13, 13}, snap.CardCounts)
	assert.True(t, snap.HasTableTop())

	_, err := e.SubmitMove(1, []int{0})
	require.ErrorIs(t, err, ErrUsage)
	assert.False(t, errors.Is(err, ErrIllegalMove))
	_, err = e.SubmitMove(1, nil)
	require.ErrorIs(t, err, ErrUsage)

	types := rec.types()
	require.GreaterOrEqual(t, len(types), 3)
	assert.Equal(t, EventTypeGameStarted, types[0])
	assert.Equal(t, EventTypeMoveAccepted, types[len(types)-2])
	assert.Equal(t, EventTypeGameEnded, types[len(types)-1])
	assert.Len(t, types, 1+5+12+1)

	started := rec.events[0].(GameStartedEvent)
	assert.Equal(t, "game-1", started.GameID)
	assert.Equal(t, 0, started.FirstPlayer)
	assert.Equal(t, [Seats]int{13, 13, 13, 13}, started.CardCounts)

	final := rec.events[len(rec.events)-2].(MoveAcceptedEvent)
	assert.Equal(t, -1, final.NextPlayer)
	assert.Equal(t, 0, final.CardsLeft)

	ended := rec.events[len(rec.events)-1].(GameEndedEvent)
	assert.Equal(t, 0, ended.Winner)
	assert.Equal(t, want, ended.Results)
	for _, ev := range rec.events {
		assert.Equal(t, clock.Now(), ev.Timestamp())
	}
}

func TestResultsBeforeEnd(t *testing.T) {
	t.Parallel()

	e := startedEngine(t, suitDeal())
	assert.Nil(t, e.Results())
	assert.Equal(t, -1, e.Snapshot().Winner)
	assert.False(t, e.Snapshot().HasTableTop())
}

// Drives whole games with a naive player (lowest single that is accepted,
// else pass, else lead the lowest card) and checks card conservation after
// every move.
func TestCardConservationOverRandomGames(t *testing.T) {
	t.Parallel()

	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*31))
		e := NewEngine()
		require.NoError(t, e.Start(bigtwo.NewShuffledDeck(rng).Deal()))

		for step := 0; e.Phase() == InProgress; step++ {
			require.Less(t, step, 2000, "seed %d did not terminate", seed)
			p := e.ActivePlayer()

			moved := false
			for i := range e.PlayerCards(p) {
				if _, err := e.SubmitMove(p, []int{i}); err == nil {
					moved = true
					break
				}
			}
			if !moved {
				_, err := e.SubmitMove(p, nil)
				require.NoError(t, err, "seed %d: player %d could neither play nor pass", seed, p)
			}

			total := 0
			seen := make(map[bigtwo.Card]bool)
			for seat := range Seats {
				for _, c := range e.PlayerCards(seat) {
					require.False(t, seen[c])
					seen[c] = true
					total++
				}
			}
			for _, h := range e.History() {
				for _, c := range h.Cards() {
					require.False(t, seen[c])
					seen[c] = true
					total++
				}
			}
			require.Equal(t, bigtwo.DeckSize, total)
		}

		results := e.Results()
		require.Len(t, results, Seats)
		winners := 0
		for _, r := range results {
			if r.Winner {
				winners++
				assert.Zero(t, r.CardsLeft)
			} else {
				assert.Positive(t, r.CardsLeft)
			}
		}
		assert.Equal(t, 1, winners)
	}
}
