package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/participant"
	"github.com/lox/blackjack/internal/randutil"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTable(t *testing.T, cards string, players ...participant.Participant) *game.Table {
	t.Helper()
	tbl, err := game.NewTable(randutil.New(1), participant.NewDealer("Dealer", 1000), players,
		game.WithLimits(10, 50),
		game.WithLogger(quietLogger()),
		game.WithDeckSource(func() *deck.Deck { return deck.New(deck.MustParseCards(cards)...) }),
		game.WithShuffler(game.NoShuffle),
	)
	require.NoError(t, err)
	return tbl
}

// enter types input and presses Enter.
func enter(m *Model, input string) tea.Cmd {
	m.actionInput.SetValue(input)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestModelPlaysRound(t *testing.T) {
	// You hold 12 against a dealer 19, hit a 3 and stand on 15.
	you := participant.NewHuman("You", 100, nil)
	tbl := newTable(t, "Td 5c 9h 7c 3d", you)
	m := New(tbl, you, quietLogger())
	defer m.Close()

	enter(m, "20")
	require.Equal(t, game.InProgress, tbl.Phase())
	assert.Empty(t, m.errMsg)
	bet, ok := tbl.Bet(you)
	require.True(t, ok)
	assert.Equal(t, 20, bet)

	enter(m, "h")
	assert.Equal(t, 15, you.HandValue())
	assert.True(t, tbl.IsTurn(you))

	enter(m, "s")
	require.Equal(t, game.Finished, tbl.Phase())
	assert.Equal(t, 80, you.Chips())

	assert.Equal(t, []string{
		"You bets 20",
		"*** ROUND 1 ***",
		"You draws 5♣ (5)",
		"Dealer draws 9♥ (9)",
		"You draws 7♣ (12)",
		"You draws 3♦ (15)",
		"Dealer reveals 10♦ (19)",
		"Dealer wins the round",
	}, m.Log())
}

func TestModelDoubleDown(t *testing.T) {
	you := participant.NewHuman("You", 100, nil)
	tbl := newTable(t, "Td 5c 9h 6c 9d", you)
	m := New(tbl, you, quietLogger())
	defer m.Close()

	enter(m, "")
	require.Equal(t, game.InProgress, tbl.Phase())

	enter(m, "d")
	require.Equal(t, game.Finished, tbl.Phase())
	assert.Equal(t, 20, you.HandValue())
	assert.Equal(t, 120, you.Chips())
	assert.Contains(t, m.Log(), "You doubles to 20")
	assert.Contains(t, m.Log(), "Winners: You")
}

func TestModelRejectsLateDouble(t *testing.T) {
	you := participant.NewHuman("You", 100, nil)
	tbl := newTable(t, "Td 5c 9h 6c 2d 2h", you)
	m := New(tbl, you, quietLogger())
	defer m.Close()

	enter(m, "10")
	enter(m, "hit")
	enter(m, "double")

	assert.Equal(t, "You can only double as your first action", m.errMsg)
	assert.Equal(t, 13, you.HandValue())
	bet, _ := tbl.Bet(you)
	assert.Equal(t, 10, bet)
}

func TestModelInputErrors(t *testing.T) {
	you := participant.NewHuman("You", 100, nil)
	tbl := newTable(t, "Td 5c 9h 6c 2d 2h", you)
	m := New(tbl, you, quietLogger())
	defer m.Close()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not a number", "abc", "Invalid amount: abc"},
		{"above the limit", "500", "bet outside table limits"},
		{"below the limit", "5", "bet outside table limits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enter(m, tt.input)
			assert.Contains(t, m.errMsg, tt.want)
			assert.Equal(t, game.NotStarted, tbl.Phase())
		})
	}

	enter(m, "10")
	require.Equal(t, game.InProgress, tbl.Phase())
	assert.Empty(t, m.errMsg)

	enter(m, "fold")
	assert.Equal(t, "Unknown command: fold", m.errMsg)
}

func TestModelNextRound(t *testing.T) {
	you := participant.NewHuman("You", 100, nil)
	tbl := newTable(t, "Td 5c 9h 6c 9d", you)
	m := New(tbl, you, quietLogger())
	defer m.Close()

	enter(m, "10")
	enter(m, "s")
	require.Equal(t, game.Finished, tbl.Phase())

	// A bare Enter clears the table, a stake deals the next round.
	enter(m, "")
	assert.Equal(t, game.NotStarted, tbl.Phase())
	assert.Empty(t, you.Hand())

	enter(m, "")
	enter(m, "s")
	enter(m, "15")
	assert.Equal(t, game.InProgress, tbl.Phase())
	assert.Equal(t, 3, tbl.Rounds())
	assert.Contains(t, m.Log(), "*** ROUND 3 ***")
}

func TestModelAutomatedOnly(t *testing.T) {
	ia := participant.NewAutomated("IA", 100, participant.WithRand(randutil.New(3)))
	tbl := newTable(t, "Td Kc 9h Qd", ia)
	m := New(tbl, nil, quietLogger())
	defer m.Close()

	enter(m, "")
	require.Equal(t, game.Finished, tbl.Phase())
	assert.True(t, tbl.IsWinner(ia))
	assert.Contains(t, m.Log(), "Winners: IA")

	enter(m, "")
	assert.Equal(t, game.NotStarted, tbl.Phase())
}

func TestModelQuit(t *testing.T) {
	you := participant.NewHuman("You", 100, nil)
	tbl := newTable(t, "", you)

	for _, input := range []string{"q", "quit", "exit"} {
		t.Run(input, func(t *testing.T) {
			m := New(tbl, you, quietLogger())
			defer m.Close()

			cmd := enter(m, input)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}

	m := New(tbl, you, quietLogger())
	defer m.Close()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelFatalDeck(t *testing.T) {
	you := participant.NewHuman("You", 100, nil)
	tbl := newTable(t, "Td 5c", you)
	m := New(tbl, you, quietLogger())
	defer m.Close()

	enter(m, "10")
	assert.Contains(t, m.errMsg, "Round aborted")
	assert.Equal(t, game.NotStarted, tbl.Phase())
}

func TestModelView(t *testing.T) {
	you := participant.NewHuman("You", 100, nil)
	tbl := newTable(t, "Td 5c 9h 7c 3d", you)
	m := New(tbl, you, quietLogger())
	defer m.Close()

	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	assert.Contains(t, view, "Blackjack")
	assert.Contains(t, view, "Place your bet (10-50)")

	enter(m, "10")
	view = m.View()
	assert.Contains(t, view, "Hand 12")
	assert.Contains(t, view, "[d]ouble")
	assert.Contains(t, view, "You draws 7♣ (12)")

	enter(m, "h")
	assert.NotContains(t, m.View(), "[d]ouble")
}

func TestCloseStopsLogging(t *testing.T) {
	you := participant.NewHuman("You", 100, nil)
	tbl := newTable(t, "", you)
	m := New(tbl, you, quietLogger())

	m.Close()
	m.Close()
	require.NoError(t, tbl.SetBet(you, 10))
	assert.Empty(t, m.Log())
}

func TestDescribeChange(t *testing.T) {
	card := func(s string) deck.Card { return deck.MustParseCards(s)[0] }

	tests := []struct {
		name string
		prev game.Snapshot
		cur  game.Snapshot
		want []string
	}{
		{
			name: "no change",
			want: nil,
		},
		{
			name: "bet placed",
			prev: game.Snapshot{Players: []game.SeatView{{Name: "A"}}},
			cur:  game.Snapshot{Players: []game.SeatView{{Name: "A", Bet: 10}}},
			want: []string{"A bets 10"},
		},
		{
			name: "double",
			prev: game.Snapshot{Phase: game.InProgress, Players: []game.SeatView{{Name: "A", Bet: 10}}},
			cur:  game.Snapshot{Phase: game.InProgress, Players: []game.SeatView{{Name: "A", Bet: 20}}},
			want: []string{"A doubles to 20"},
		},
		{
			name: "bust",
			prev: game.Snapshot{Phase: game.InProgress, Players: []game.SeatView{
				{Name: "A", Cards: []deck.Card{card("Td"), card("6c")}, Value: 16},
			}},
			cur: game.Snapshot{Phase: game.InProgress, Players: []game.SeatView{
				{Name: "A", Cards: []deck.Card{card("Td"), card("6c"), card("Kh")}, Value: 26, Busted: true},
			}},
			want: []string{"A draws K♥ (26)", "A busts with 26"},
		},
		{
			name: "dealer reveals",
			prev: game.Snapshot{
				Phase:          game.InProgress,
				HoleCardHidden: true,
				Dealer:         game.SeatView{Name: "D", Cards: []deck.Card{card("9h")}, Value: 9},
			},
			cur: game.Snapshot{
				Phase:  game.Finished,
				Dealer: game.SeatView{Name: "D", Cards: []deck.Card{card("As"), card("9h")}, Value: 20},
			},
			want: []string{"D reveals A♠ (20)", "D wins the round"},
		},
		{
			name: "new round",
			prev: game.Snapshot{Round: 1, Phase: game.NotStarted},
			cur:  game.Snapshot{Round: 2, Phase: game.InProgress},
			want: []string{"*** ROUND 2 ***"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeChange(tt.prev, tt.cur))
		})
	}
}
