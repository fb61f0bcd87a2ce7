package game

import (
	"github.com/lox/blackjack/internal/participant"
)

// Hit deals one card to p. It forfeits the double down for the rest of the
// turn and ends the turn when the hand busts. Ignored unless p holds the turn.
func (t *Table) Hit(p participant.Participant) error {
	if t.refuseReentrant("hit") {
		return nil
	}
	acted, err := t.hit(p)
	if err != nil {
		return t.abort(err)
	}
	if !acted {
		return nil
	}
	return t.resume()
}

// Stand ends p's turn. Ignored unless p holds the turn.
func (t *Table) Stand(p participant.Participant) error {
	if t.refuseReentrant("stand") {
		return nil
	}
	if !t.stand(p) {
		return nil
	}
	return t.resume()
}

// Double doubles p's stake, deals exactly one card and ends the turn whatever
// the result. Only allowed as the first action of a turn.
func (t *Table) Double(p participant.Participant) error {
	if t.refuseReentrant("double") {
		return nil
	}
	acted, err := t.double(p)
	if err != nil {
		return t.abort(err)
	}
	if !acted {
		return nil
	}
	return t.resume()
}

// PlayTurn plays the current turn holder's whole turn using its own decision
// methods, then lets later automated players and the dealer act.
func (t *Table) PlayTurn() error {
	if t.refuseReentrant("play turn") {
		return nil
	}
	cur := t.Current()
	if cur == nil {
		return nil
	}
	if err := t.playTurn(cur); err != nil {
		return t.abort(err)
	}
	return t.resume()
}

func (t *Table) hit(p participant.Participant) (acted bool, err error) {
	err = t.apply("hit", func() error {
		if !t.isTurnLocked(p) {
			return nil
		}
		acted = true
		t.canDouble = false
		if err := t.dealLocked(p); err != nil {
			return err
		}
		if participant.Busted(p) {
			t.logger.Info("Player busted", "player", p.Name(), "value", p.HandValue())
			t.advanceLocked()
		}
		return nil
	})
	return acted, err
}

func (t *Table) stand(p participant.Participant) (acted bool) {
	_ = t.apply("stand", func() error {
		if !t.isTurnLocked(p) {
			return nil
		}
		acted = true
		t.logger.Debug("Player stands", "player", p.Name(), "value", p.HandValue())
		t.advanceLocked()
		return nil
	})
	return acted
}

func (t *Table) double(p participant.Participant) (acted bool, err error) {
	err = t.apply("double", func() error {
		if !t.isTurnLocked(p) || !t.canDouble {
			return nil
		}
		acted = true
		if stake, ok := t.bets[p]; ok {
			t.bets[p] = stake * 2
		}
		t.logger.Info("Player doubles", "player", p.Name(), "bet", t.bets[p])
		if err := t.dealLocked(p); err != nil {
			return err
		}
		t.advanceLocked()
		return nil
	})
	return acted, err
}

// advanceLocked passes the turn to the next seat. Moving past the last
// player makes the dealer due.
func (t *Table) advanceLocked() {
	t.turn++
	t.canDouble = true
	t.changed()
}

// playTurn drives p through its own decisions until its turn ends.
func (t *Table) playTurn(p participant.Participant) error {
	if t.CanDouble() && t.IsTurn(p) && p.DoubleDown() {
		_, err := t.double(p)
		return err
	}

	for t.IsTurn(p) {
		if participant.Busted(p) || !p.ContinueChoice() {
			t.stand(p)
			continue
		}
		if _, err := t.hit(p); err != nil {
			return err
		}
	}
	return nil
}

// resume plays automated turns until a human holds the turn or the dealer is
// due, in which case the dealer plays and the round is settled.
func (t *Table) resume() error {
	for {
		var (
			cur       participant.Participant
			dealerDue bool
		)
		t.view(func() {
			cur = t.currentLocked()
			dealerDue = t.dealerDueLocked()
		})

		switch {
		case dealerDue:
			return t.finishRound()
		case cur == nil:
			return nil
		case cur.Kind() == participant.KindHuman:
			return nil
		}

		if err := t.playTurn(cur); err != nil {
			return t.abort(err)
		}
	}
}
