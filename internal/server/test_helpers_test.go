package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/bigtwo/bigtwo"
	"github.com/lox/bigtwo/internal/dealfile"
)

const waitTimeout = 2 * time.Second

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// fakeClient records everything a table sends it
type fakeClient struct {
	name string
	ch   chan *Message
}

func newFakeClient(name string) *fakeClient {
	return &fakeClient{name: name, ch: make(chan *Message, 512)}
}

func (f *fakeClient) Send(msg *Message) error {
	select {
	case f.ch <- msg:
		return nil
	default:
		return errors.New("fake client buffer full")
	}
}

// expect skips messages until one of type mt arrives and decodes it into v
func (f *fakeClient) expect(t *testing.T, mt MessageType, v any) {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case msg := <-f.ch:
			if msg.Type != mt {
				continue
			}
			if v != nil {
				require.NoError(t, msg.Decode(v))
			}
			return
		case <-deadline:
			t.Fatalf("%s: timed out waiting for %s", f.name, mt)
		}
	}
}

// suitDealFile writes a deal in which seat j holds every card of suit j
func suitDealFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deal.txt")
	require.NoError(t, dealfile.Write(path, bigtwo.NewDeck().Deal(), "seat 0 holds the 3d"))
	return path
}

func startTable(t *testing.T, cfg TableConfig, clock quartz.Clock) *Table {
	t.Helper()
	tbl, err := NewTable(cfg, clock, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = tbl.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return tbl
}

// seatFour joins four clients and waits for each welcome
func seatFour(t *testing.T, tbl *Table) [4]*fakeClient {
	t.Helper()
	var clients [4]*fakeClient
	for i := range clients {
		clients[i] = newFakeClient(fmt.Sprintf("p%d", i))
		require.NoError(t, tbl.Join(clients[i], clients[i].name))

		var welcome WelcomeData
		clients[i].expect(t, MessageTypeWelcome, &welcome)
		require.Equal(t, i, welcome.Seat)
	}
	return clients
}

// startGame readies all four clients and waits until each has its state
func startGame(t *testing.T, tbl *Table, clients [4]*fakeClient) GameStartedData {
	t.Helper()
	for _, c := range clients {
		require.NoError(t, tbl.Ready(c))
	}
	var started GameStartedData
	for i, c := range clients {
		c.expect(t, MessageTypeGameStarted, &started)
		var state StateData
		c.expect(t, MessageTypeState, &state)
		require.Equal(t, i, state.YourSeat)
		require.Len(t, state.YourCards, bigtwo.HandSize)
	}
	return started
}
