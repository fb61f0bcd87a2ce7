package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strings"
)

var (
	// ErrEmptyDeck is returned when drawing from a deck with no cards left.
	// During a round it means the dealing loop outran the deck.
	ErrEmptyDeck = errors.New("deck is empty")

	// ErrCardIndex is returned when a card position is outside the deck.
	ErrCardIndex = errors.New("card index out of range")
)

// minCutSize is the smallest deck that Cut will touch.
const minCutSize = 4

// Deck represents an ordered sequence of cards. The front of the slice is the
// next card to be drawn.
type Deck struct {
	cards []Card
}

// New creates a deck holding the given cards in draw order.
func New(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Draw removes and returns the top card from the deck
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Cut performs a single cut: a position is picked uniformly in [2, size-2]
// and the back segment is moved in front of the front segment. Decks with
// fewer than four cards are left untouched.
func (d *Deck) Cut(rng *rand.Rand) {
	n := len(d.cards)
	if n < minCutSize {
		return
	}

	at := 2 + rng.IntN(n-3)
	d.cutAt(at)
}

func (d *Deck) cutAt(at int) {
	cut := make([]Card, 0, len(d.cards))
	cut = append(cut, d.cards[at:]...)
	cut = append(cut, d.cards[:at]...)
	d.cards = cut
}

// AddCard puts a card on top of the deck so it is drawn next.
func (d *Deck) AddCard(c Card) {
	d.cards = append([]Card{c}, d.cards...)
}

// DeleteCard removes the card at position i (0 is the top).
func (d *Deck) DeleteCard(i int) error {
	if i < 0 || i >= len(d.cards) {
		return fmt.Errorf("delete card %d of %d: %w", i, len(d.cards), ErrCardIndex)
	}
	d.cards = append(d.cards[:i], d.cards[i+1:]...)
	return nil
}

// CardAt returns the card at position i without removing it.
func (d *Deck) CardAt(i int) (Card, error) {
	if i < 0 || i >= len(d.cards) {
		return Card{}, fmt.Errorf("card %d of %d: %w", i, len(d.cards), ErrCardIndex)
	}
	return d.cards[i], nil
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the remaining cards in draw order.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

func (d *Deck) String() string {
	parts := make([]string, len(d.cards))
	for i, c := range d.cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
