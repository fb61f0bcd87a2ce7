package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/participant"
	"github.com/lox/blackjack/internal/randutil"
)

func newTable(t *testing.T, cards string, players ...participant.Participant) *game.Table {
	t.Helper()
	tbl, err := game.NewTable(randutil.New(1), participant.NewDealer("Dealer", 1000), players,
		game.WithLimits(10, 50),
		game.WithLogger(log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})),
		game.WithDeckSource(func() *deck.Deck { return deck.New(deck.MustParseCards(cards)...) }),
		game.WithShuffler(game.NoShuffle),
	)
	require.NoError(t, err)
	return tbl
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return &msg
}

func readSnapshot(t *testing.T, conn *websocket.Conn) game.Snapshot {
	t.Helper()
	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeSnapshot, msg.Type)
	snap, err := msg.Snapshot()
	require.NoError(t, err)
	return snap
}

func TestSpectatorReceivesSnapshots(t *testing.T) {
	a := participant.NewHuman("A", 100, nil)
	tbl := newTable(t, "Td 5c 9h 7c 3d", a)

	srv := New(tbl, zerolog.Nop())
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dial(t, ts)

	// The current state arrives first.
	snap := readSnapshot(t, conn)
	assert.Equal(t, game.NotStarted, snap.Phase)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "A", snap.Players[0].Name)
	assert.Equal(t, participant.KindHuman, snap.Players[0].Kind)
	assert.Equal(t, 1, srv.Spectators())

	require.NoError(t, tbl.SetBet(a, 20))
	snap = readSnapshot(t, conn)
	assert.Equal(t, 20, snap.Players[0].Bet)

	require.NoError(t, tbl.InitRound())
	var last game.Snapshot
	for last.Version < tbl.Snapshot().Version {
		last = readSnapshot(t, conn)
		if last.Phase == game.InProgress {
			assert.LessOrEqual(t, len(last.Dealer.Cards), 1, "hole card must stay hidden")
		}
	}
	assert.True(t, last.HoleCardHidden)
	assert.Equal(t, "9♥", last.Dealer.Cards[0].String())
	assert.Equal(t, 12, last.Players[0].Value)
	assert.True(t, last.Players[0].Acting)

	require.NoError(t, tbl.Stand(a))
	for last.Phase != game.Finished {
		last = readSnapshot(t, conn)
	}
	assert.False(t, last.HoleCardHidden)
	assert.Len(t, last.Dealer.Cards, 2)
	assert.Equal(t, 19, last.Dealer.Value)
	assert.False(t, last.Players[0].Winner)
}

func TestMultipleSpectators(t *testing.T) {
	a := participant.NewHuman("A", 100, nil)
	tbl := newTable(t, "", a)

	srv := New(tbl, zerolog.Nop())
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conns := []*websocket.Conn{dial(t, ts), dial(t, ts), dial(t, ts)}
	for _, conn := range conns {
		readSnapshot(t, conn)
	}
	assert.Equal(t, 3, srv.Spectators())

	require.NoError(t, tbl.SetBet(a, 30))
	for _, conn := range conns {
		assert.Equal(t, 30, readSnapshot(t, conn).Players[0].Bet)
	}

	_ = conns[0].Close()
	assert.Eventually(t, func() bool { return srv.Spectators() == 2 }, 5*time.Second, 10*time.Millisecond)
}

func TestSpectatorInputIsRejected(t *testing.T) {
	a := participant.NewHuman("A", 100, nil)
	tbl := newTable(t, "", a)

	srv := New(tbl, zerolog.Nop())
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dial(t, ts)
	readSnapshot(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"hit"}`)))
	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeError, msg.Type)

	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, "read_only", data.Code)
	assert.Equal(t, game.NotStarted, tbl.Phase())
}

func TestSnapshotEndpoint(t *testing.T) {
	a := participant.NewHuman("A", 100, nil)
	tbl := newTable(t, "Td 5c 9h 7c", a)
	require.NoError(t, tbl.InitRound())

	srv := New(tbl, zerolog.Nop())
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "10♦")

	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, game.InProgress, snap.Phase)
	assert.True(t, snap.HoleCardHidden)
	assert.Equal(t, 9, snap.Dealer.Value)
}

func TestMessageTimestampsUseClock(t *testing.T) {
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC))

	a := participant.NewHuman("A", 100, nil)
	tbl := newTable(t, "", a)

	srv := New(tbl, zerolog.Nop(), WithClock(clock))
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dial(t, ts)
	msg := readMessage(t, conn)
	assert.True(t, msg.Timestamp.Equal(clock.Now()))
}

func TestSpectatorsArePinged(t *testing.T) {
	clock := quartz.NewMock(t)
	a := participant.NewHuman("A", 100, nil)
	tbl := newTable(t, "", a)

	srv := New(tbl, zerolog.Nop(), WithClock(clock), WithPingPeriod(time.Second))
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dial(t, ts)
	readSnapshot(t, conn)

	pinged := make(chan struct{}, 1)
	conn.SetPingHandler(func(string) error {
		select {
		case pinged <- struct{}{}:
		default:
		}
		return nil
	})
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	assert.Eventually(t, func() bool {
		clock.Advance(time.Second)
		select {
		case <-pinged:
			return true
		default:
			return false
		}
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCloseDetaches(t *testing.T) {
	bus := game.NewChangeBus()
	src := &fakeSource{bus: bus}

	srv := New(src, zerolog.Nop())
	require.Equal(t, 1, bus.Len())

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	conn := dial(t, ts)
	readSnapshot(t, conn)

	srv.Close()
	srv.Close()
	assert.Equal(t, 0, bus.Len())
	assert.Equal(t, 0, srv.Spectators())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestServeListener(t *testing.T) {
	a := participant.NewHuman("A", 100, nil)
	tbl := newTable(t, "", a)
	srv := New(tbl, zerolog.Nop())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, ln) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	require.NoError(t, WaitForHealthy(waitCtx, "http://"+ln.Addr().String()))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeBadAddress(t *testing.T) {
	srv := New(&fakeSource{bus: game.NewChangeBus()}, zerolog.Nop())
	err := srv.Serve(context.Background(), "256.0.0.1:bad")
	assert.Error(t, err)
}

type fakeSource struct {
	bus *game.ChangeBus
}

func (f *fakeSource) Snapshot() game.Snapshot {
	return game.Snapshot{Dealer: game.SeatView{Name: "Dealer", Kind: participant.KindDealer}}
}

func (f *fakeSource) Subscribe(fn game.Listener) func() {
	return f.bus.Subscribe(fn)
}
