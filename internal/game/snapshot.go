package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/participant"
)

// SeatView is the read-only state of one seat.
type SeatView struct {
	Name   string           `json:"name" toml:"name"`
	Kind   participant.Kind `json:"kind" toml:"kind"`
	Chips  int              `json:"chips" toml:"chips"`
	Cards  []deck.Card      `json:"cards" toml:"cards"`
	Value  int              `json:"value" toml:"value"`
	Bet    int              `json:"bet,omitempty" toml:"bet,omitempty"`
	Winner bool             `json:"winner,omitempty" toml:"winner,omitempty"`
	Busted bool             `json:"busted,omitempty" toml:"busted,omitempty"`
	Acting bool             `json:"acting,omitempty" toml:"-"`
}

// Snapshot is a consistent copy of the table, safe to hand to another
// goroutine or serialise. While a round is in progress the dealer's hole card
// is left out and only the visible value is reported.
type Snapshot struct {
	RoundID        string     `json:"round_id,omitempty"`
	Round          int        `json:"round"`
	Phase          Phase      `json:"phase"`
	Natural        bool       `json:"natural"`
	MinBet         int        `json:"min_bet"`
	MaxBet         int        `json:"max_bet"`
	Dealer         SeatView   `json:"dealer"`
	HoleCardHidden bool       `json:"hole_card_hidden"`
	Players        []SeatView `json:"players"`
	CanDouble      bool       `json:"can_double"`
	StartedAt      time.Time  `json:"started_at,omitzero"`
	Version        uint64     `json:"version"`
	TakenAt        time.Time  `json:"taken_at"`
}

// Current returns the view of the seat holding the turn.
func (s Snapshot) Current() (SeatView, bool) {
	for _, p := range s.Players {
		if p.Acting {
			return p, true
		}
	}
	return SeatView{}, false
}

// Snapshot copies the table state under the lock.
func (t *Table) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{
		RoundID:   t.roundID,
		Round:     t.rounds,
		Phase:     t.phase,
		Natural:   t.natural,
		MinBet:    t.minBet,
		MaxBet:    t.maxBet,
		StartedAt: t.startedAt,
		Version:   t.version,
		TakenAt:   t.clock.Now(),
	}

	d := t.dealer
	s.Dealer = SeatView{
		Name:  d.Name(),
		Kind:  d.Kind(),
		Chips: d.Chips(),
	}
	if t.phase == InProgress && !d.Revealed() {
		s.Dealer.Cards = d.VisibleHand()
		s.Dealer.Value = d.VisibleValue()
		s.HoleCardHidden = len(d.Hand()) > 0
	} else {
		s.Dealer.Cards = d.Hand()
		s.Dealer.Value = d.HandValue()
		s.Dealer.Busted = participant.Busted(d)
	}

	cur := t.currentLocked()
	s.CanDouble = cur != nil && t.canDouble
	for _, p := range t.players[1:] {
		s.Players = append(s.Players, SeatView{
			Name:   p.Name(),
			Kind:   p.Kind(),
			Chips:  p.Chips(),
			Cards:  p.Hand(),
			Value:  p.HandValue(),
			Bet:    t.bets[p],
			Winner: t.isWinnerLocked(p),
			Busted: participant.Busted(p),
			Acting: p == cur,
		})
	}
	return s
}
