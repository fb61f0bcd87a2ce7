package participant

import "github.com/lox/blackjack/internal/deck"

// dealerStandAt is the house rule: the dealer draws below 17.
const dealerStandAt = 17

// Dealer plays for the house. The first card dealt to it each round is the
// hole card, which is left out of the visible value until Reveal.
type Dealer struct {
	seat
	visible  int
	revealed bool
}

// NewDealer creates the house participant.
func NewDealer(name string, chips int, opts ...Option) *Dealer {
	return &Dealer{seat: newSeat(name, chips, opts)}
}

func (d *Dealer) Kind() Kind { return KindDealer }

// ContinueChoice applies the house rule on the full total, hole card included.
func (d *Dealer) ContinueChoice() bool {
	return d.value < dealerStandAt
}

// AddCard adds the card to the hand and, for every card after the hole card,
// to the visible value.
func (d *Dealer) AddCard(c deck.Card) {
	d.seat.AddCard(c)
	if d.revealed {
		d.visible = d.value
		return
	}
	if len(d.cards) > 1 {
		d.visible = addCardValue(d.visible, c)
	}
}

// ClearHand empties the hand and both values.
func (d *Dealer) ClearHand() {
	d.seat.ClearHand()
	d.visible = 0
	d.revealed = false
}

// VisibleValue is the value shown to players.
func (d *Dealer) VisibleValue() int {
	return d.visible
}

// VisibleHand returns the cards shown to players: the hole card is left out
// until Reveal.
func (d *Dealer) VisibleHand() []deck.Card {
	if d.revealed {
		return d.Hand()
	}
	if len(d.cards) <= 1 {
		return []deck.Card{}
	}
	out := make([]deck.Card, len(d.cards)-1)
	copy(out, d.cards[1:])
	return out
}

// Reveal turns the hole card over: the visible value becomes the true total.
func (d *Dealer) Reveal() {
	d.visible = d.value
	d.revealed = true
}

// Revealed reports whether the hole card has been turned over this round.
func (d *Dealer) Revealed() bool {
	return d.revealed
}
