package game

import (
	"github.com/lox/blackjack/internal/participant"
)

func (t *Table) dealerDueLocked() bool {
	return t.phase == InProgress && t.turn >= len(t.players)
}

// finishRound plays the dealer by the house rule and settles the round.
func (t *Table) finishRound() error {
	d := t.dealer
	for {
		var due bool
		t.view(func() { due = t.dealerDueLocked() })
		if !due {
			return nil
		}
		if !d.ContinueChoice() {
			break
		}
		err := t.apply("dealer draw", func() error {
			if !t.dealerDueLocked() {
				return nil
			}
			return t.dealLocked(d)
		})
		if err != nil {
			return t.abort(err)
		}
	}

	return t.apply("settle", func() error {
		if t.dealerDueLocked() {
			t.settleLocked()
		}
		return nil
	})
}

// settleLocked reveals the hole card, determines the winners, pays out and
// finishes the round.
func (t *Table) settleLocked() {
	t.dealer.Reveal()
	t.winners = findWinners(t.players[1:], t.dealer.HandValue(), t.natural)
	t.payoutLocked()
	t.phase = Finished
	t.canDouble = false
	t.changed()

	names := make([]string, len(t.winners))
	for i, w := range t.winners {
		names[i] = w.Name()
	}
	t.logger.Info("Round settled",
		"id", t.roundID,
		"dealer", t.dealer.HandValue(),
		"natural", t.natural,
		"winners", names)
}

// findWinners returns the players who beat the dealer, in seating order.
//
// In a round with a natural only an exact 21 above the dealer wins. Otherwise
// a player wins with a non-busted hand when the dealer busts or holds less.
// Equal totals are not wins.
func findWinners(players []participant.Participant, dealerValue int, natural bool) []participant.Participant {
	var winners []participant.Participant
	for _, p := range players {
		v := p.HandValue()
		var won bool
		if natural {
			won = v == participant.Blackjack && v > dealerValue
		} else {
			won = v <= participant.Blackjack && (dealerValue > participant.Blackjack || v > dealerValue)
		}
		if won {
			winners = append(winners, p)
		}
	}
	return winners
}

// payoutLocked credits winners and debits everyone else with a stake. Even
// money only; the dealer has no stake and is never paid.
func (t *Table) payoutLocked() {
	for _, p := range t.players[1:] {
		stake, ok := t.bets[p]
		if !ok {
			continue
		}
		if t.isWinnerLocked(p) {
			p.WinChips(stake)
			t.logger.Debug("Paid", "player", p.Name(), "amount", stake, "chips", p.Chips())
		} else {
			p.LoseChips(stake)
			t.logger.Debug("Collected", "player", p.Name(), "amount", stake, "chips", p.Chips())
		}
	}
}
