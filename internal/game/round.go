package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lox/blackjack/internal/participant"
)

// SetBet records an externally supplied stake for p. It is ignored outside
// the betting step.
func (t *Table) SetBet(p participant.Participant, amount int) error {
	if p == nil {
		return ErrNilParticipant
	}
	return t.apply("bet", func() error {
		if t.phase != NotStarted {
			return nil
		}
		if p.Kind() == participant.KindDealer {
			return ErrDealerBet
		}
		if t.seatIndex(p) < 1 {
			return fmt.Errorf("bet for %s: %w", p.Name(), ErrNotSeated)
		}
		if amount < t.minBet || amount > t.maxBet {
			return fmt.Errorf("bet %d for %s, limits %d-%d: %w",
				amount, p.Name(), t.minBet, t.maxBet, ErrBetOutOfRange)
		}
		t.bets[p] = amount
		t.changed()
		t.logger.Debug("Bet placed", "player", p.Name(), "amount", amount)
		return nil
	})
}

// CollectBets asks every player without a recorded stake for one. Human
// players may block here until their prompt is answered.
func (t *Table) CollectBets() error {
	if t.refuseReentrant("collect bets") {
		return nil
	}

	var pending []participant.Participant
	t.view(func() {
		if t.phase != NotStarted {
			return
		}
		for _, p := range t.players[1:] {
			if _, ok := t.bets[p]; !ok {
				pending = append(pending, p)
			}
		}
	})

	for _, p := range pending {
		amount := p.PlaceBet(t.minBet, t.maxBet)
		if err := t.SetBet(p, amount); err != nil {
			return err
		}
	}
	return nil
}

// InitRound builds and prepares a fresh deck and deals two passes of one
// card each in seating order, dealer first. When anyone is dealt 21 the round
// is settled immediately; otherwise the turn loop starts at the first player
// and automated players ahead of any human play straight away.
func (t *Table) InitRound() error {
	if t.refuseReentrant("init round") {
		return nil
	}

	var (
		started bool
		seats   []participant.Participant
	)
	_ = t.apply("init round", func() error {
		if t.phase != NotStarted {
			return nil
		}
		t.deck = t.newDeck()
		t.shuffler(t.deck, t.rng)
		t.phase = InProgress
		t.roundID = uuid.NewString()
		t.startedAt = t.clock.Now()
		t.rounds++
		t.natural = false
		t.winners = nil
		t.turn = 0
		t.canDouble = false
		t.changed()

		seats = make([]participant.Participant, len(t.players))
		copy(seats, t.players)
		started = true

		t.logger.Info("Round started", "round", t.rounds, "id", t.roundID, "players", len(t.players)-1)
		return nil
	})
	if !started {
		return nil
	}

	for pass := 0; pass < 2; pass++ {
		for _, p := range seats {
			err := t.apply("deal", func() error {
				return t.dealLocked(p)
			})
			if err != nil {
				return t.abort(err)
			}
		}
	}

	_ = t.apply("natural check", func() error {
		for _, p := range t.players {
			if p.HandValue() == participant.Blackjack {
				t.natural = true
				t.logger.Info("Natural dealt", "player", p.Name())
			}
		}
		if t.natural {
			t.settleLocked()
			return nil
		}
		t.turn = 1
		t.canDouble = true
		t.changed()
		return nil
	})

	return t.resume()
}

// Reset clears every hand, the bet ledger and the winners and returns the
// table to the betting step. It is legal in any phase.
func (t *Table) Reset() {
	_ = t.apply("reset", func() error {
		for _, p := range t.players {
			p.ClearHand()
		}
		t.bets = make(map[participant.Participant]int)
		t.winners = nil
		t.phase = NotStarted
		t.natural = false
		t.turn = 0
		t.canDouble = false
		t.deck = nil
		t.changed()
		return nil
	})
}

// PlayRound runs a complete round using each participant's own decisions:
// bets, the deal, every turn, the dealer and settlement. It is meant for
// drivers whose human prompts block (console, simulation). The context is
// checked between steps; a prompt that is already waiting is not interrupted.
func (t *Table) PlayRound(ctx context.Context) error {
	if phase := t.Phase(); phase != NotStarted {
		return fmt.Errorf("play round in phase %s: %w", phase, ErrRoundInProgress)
	}

	if err := t.CollectBets(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.InitRound(); err != nil {
		return err
	}

	for t.Started() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.Current() == nil {
			return fmt.Errorf("round %s has no turn holder", t.RoundID())
		}
		if err := t.PlayTurn(); err != nil {
			return err
		}
	}
	return nil
}

// dealLocked moves the top card of the deck into p's hand.
func (t *Table) dealLocked(p participant.Participant) error {
	if t.deck == nil {
		return fmt.Errorf("deal to %s: no deck", p.Name())
	}
	c, err := t.deck.Draw()
	if err != nil {
		return fmt.Errorf("deal to %s: %w", p.Name(), err)
	}
	p.AddCard(c)
	t.changed()
	t.logger.Debug("Card dealt", "to", p.Name(), "card", c.String(), "value", p.HandValue())
	return nil
}

// abort logs a fatal round error. The round stays in progress so the driver
// can decide to Reset.
func (t *Table) abort(err error) error {
	t.logger.Error("Round aborted", "id", t.RoundID(), "error", err)
	return err
}
