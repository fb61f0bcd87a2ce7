// Package history records finished blackjack rounds as TOML.
package history

import (
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lox/blackjack/internal/game"
)

// Outcome of a seat for one round.
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
	OutcomeNone = "none"
)

// Record is one settled round.
type Record struct {
	Round   int          `toml:"round"`
	RoundID string       `toml:"id"`
	Time    time.Time    `toml:"time"`
	Natural bool         `toml:"natural"`
	MinBet  int          `toml:"min_bet"`
	MaxBet  int          `toml:"max_bet"`
	Winners []string     `toml:"winners"`
	Dealer  SeatRecord   `toml:"dealer"`
	Players []SeatRecord `toml:"players"`
}

// SeatRecord is one seat's hand and result.
type SeatRecord struct {
	Name    string   `toml:"name"`
	Kind    string   `toml:"kind"`
	Cards   []string `toml:"cards"`
	Value   int      `toml:"value"`
	Bet     int      `toml:"bet,omitempty"`
	Net     int      `toml:"net"`
	Chips   int      `toml:"chips"`
	Outcome string   `toml:"outcome,omitempty"`
}

// File is the on-disk layout: one [[round]] table per record.
type File struct {
	Rounds []Record `toml:"round"`
}

// FromSnapshot converts the snapshot of a finished round.
func FromSnapshot(s game.Snapshot) (Record, error) {
	if s.Phase != game.Finished {
		return Record{}, fmt.Errorf("history: round %s is %s, not finished", s.RoundID, s.Phase)
	}

	rec := Record{
		Round:   s.Round,
		RoundID: s.RoundID,
		Time:    s.TakenAt.UTC(),
		Natural: s.Natural,
		MinBet:  s.MinBet,
		MaxBet:  s.MaxBet,
		Winners: []string{},
		Dealer:  seatRecord(s.Dealer),
	}
	rec.Dealer.Outcome = ""

	for _, p := range s.Players {
		sr := seatRecord(p)
		if p.Winner {
			rec.Winners = append(rec.Winners, p.Name)
		}
		rec.Players = append(rec.Players, sr)
	}
	return rec, nil
}

func seatRecord(v game.SeatView) SeatRecord {
	sr := SeatRecord{
		Name:  v.Name,
		Kind:  v.Kind.String(),
		Cards: make([]string, len(v.Cards)),
		Value: v.Value,
		Bet:   v.Bet,
		Chips: v.Chips,
	}
	for i, c := range v.Cards {
		sr.Cards[i] = c.String()
	}

	switch {
	case v.Bet == 0:
		sr.Outcome = OutcomeNone
	case v.Winner:
		sr.Outcome = OutcomeWin
		sr.Net = v.Bet
	default:
		sr.Outcome = OutcomeLoss
		sr.Net = -v.Bet
	}
	return sr
}

// Encode writes records in TOML format.
func Encode(w io.Writer, records []Record) error {
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(File{Rounds: records})
}

// Decode reads records written by Encode.
func Decode(r io.Reader) ([]Record, error) {
	var f File
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("history: decode: %w", err)
	}
	return f.Rounds, nil
}
