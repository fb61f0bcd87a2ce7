package deck

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/randutil"
)

type cardKey struct {
	suit Suit
	rank Rank
}

func TestFactoryDecks(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Deck
		size    int
		minRank Rank
	}{
		{"empty", NewEmpty, 0, Ace},
		{"piquet", New32, 32, Seven},
		{"standard", New52, 52, Two},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.build()
			require.Equal(t, tt.size, d.Len())

			seen := make(map[cardKey]bool)
			for _, c := range d.Cards() {
				k := cardKey{c.Suit, c.Rank}
				assert.False(t, seen[k], "duplicate card %s", c)
				seen[k] = true
				assert.GreaterOrEqual(t, c.Rank, tt.minRank)
			}
		})
	}
}

func TestCardValues(t *testing.T) {
	tests := []struct {
		rank Rank
		want int
	}{
		{Two, 2}, {Seven, 7}, {Ten, 10},
		{Jack, 10}, {Queen, 10}, {King, 10},
		{Ace, 1},
	}
	for _, tt := range tests {
		t.Run(tt.rank.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, NewCard(Hearts, tt.rank).Value())
		})
	}
}

func TestParseCards(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Card
		wantErr bool
	}{
		{
			name:  "mixed notation",
			input: "As Td 10h 2c",
			want: []Card{
				NewCard(Spades, Ace),
				NewCard(Diamonds, Ten),
				NewCard(Hearts, Ten),
				NewCard(Clubs, Two),
			},
		},
		{name: "case insensitive", input: "kS qH", want: []Card{NewCard(Spades, King), NewCard(Hearts, Queen)}},
		{name: "empty", input: "", want: []Card{}},
		{name: "bad rank", input: "Xs", wantErr: true},
		{name: "bad suit", input: "Ax", wantErr: true},
		{name: "too long", input: "100s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDrawFromFront(t *testing.T) {
	d := New(MustParseCards("As Kd 7c")...)

	c, err := d.Draw()
	require.NoError(t, err)
	assert.Equal(t, "A♠", c.String())
	assert.Equal(t, 2, d.Len())

	_, _ = d.Draw()
	_, _ = d.Draw()
	_, err = d.Draw()
	assert.True(t, errors.Is(err, ErrEmptyDeck))
}

func TestAddCardGoesOnTop(t *testing.T) {
	d := New(MustParseCards("2c 3c")...)
	d.AddCard(NewCard(Hearts, Ace))

	c, err := d.Draw()
	require.NoError(t, err)
	assert.Equal(t, NewCard(Hearts, Ace), c)
}

func TestDeleteCard(t *testing.T) {
	d := New(MustParseCards("2c 3c 4c")...)
	require.NoError(t, d.DeleteCard(1))
	assert.Equal(t, MustParseCards("2c 4c"), d.Cards())

	err := d.DeleteCard(5)
	assert.ErrorIs(t, err, ErrCardIndex)
	assert.ErrorIs(t, d.DeleteCard(-1), ErrCardIndex)
}

func TestShuffleKeepsCards(t *testing.T) {
	d := New52()
	before := d.Cards()
	d.Shuffle(randutil.New(3))

	assert.ElementsMatch(t, before, d.Cards())
	assert.NotEqual(t, before, d.Cards())
}

func TestCutSmallDeckUnchanged(t *testing.T) {
	for n := 0; n < 4; n++ {
		cards := New52().Cards()[:n]
		d := New(cards...)
		d.Cut(randutil.New(int64(n)))
		assert.Equal(t, cards, d.Cards(), "size %d", n)
	}
}

func TestCutIsRotation(t *testing.T) {
	rng := randutil.New(11)
	for range 50 {
		d := New52()
		before := d.Cards()
		d.Cut(rng)
		after := d.Cards()

		require.ElementsMatch(t, before, after)
		require.NotEqual(t, before, after)

		// Find the rotation offset from the new top card and check every
		// position follows it.
		offset := -1
		for i, c := range before {
			if c == after[0] {
				offset = i
				break
			}
		}
		require.GreaterOrEqual(t, offset, 2)
		require.LessOrEqual(t, offset, len(before)-2)
		for i := range after {
			assert.Equal(t, before[(offset+i)%len(before)], after[i])
		}
	}
}

func TestCutFourCards(t *testing.T) {
	d := New(MustParseCards("2c 3c 4c 5c")...)
	d.Cut(randutil.New(99))
	assert.Equal(t, MustParseCards("4c 5c 2c 3c"), d.Cards())
}

func TestCardTextRoundTrip(t *testing.T) {
	for _, c := range New52().Cards() {
		b, err := c.MarshalText()
		require.NoError(t, err)

		var back Card
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, c, back)
	}
}
