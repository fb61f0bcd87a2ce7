// Package participant defines who sits at a blackjack table and how each of
// them decides: humans answer prompts, automated players follow a fixed
// heuristic and the dealer follows the house rule.
//
// Every variant embeds the same seat state (name, chips, hand, hand value);
// the variants differ only in the decision methods they provide. The table is
// the only caller of the mutating methods so that every change to a hand can
// be announced to listeners.
package participant

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// DefaultChips is the balance a participant starts with when none is given.
const DefaultChips = 100

// Blackjack is the best possible hand value.
const Blackjack = 21

// Kind identifies the participant variant
type Kind int

const (
	KindHuman Kind = iota
	KindAutomated
	KindDealer
)

// String returns the string representation of a kind
func (k Kind) String() string {
	switch k {
	case KindHuman:
		return "human"
	case KindAutomated:
		return "automated"
	case KindDealer:
		return "dealer"
	default:
		return "unknown"
	}
}

// MarshalText lets kinds appear by name in JSON and TOML.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	kind, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human":
		return KindHuman, nil
	case "automated", "bot":
		return KindAutomated, nil
	case "dealer":
		return KindDealer, nil
	default:
		return 0, fmt.Errorf("unknown participant kind %q", s)
	}
}

// Participant is anyone seated at the table.
type Participant interface {
	Name() string
	Kind() Kind
	Chips() int
	Hand() []deck.Card
	HandValue() int

	// ContinueChoice asks whether the participant wants another card. It is
	// only asked while the hand value is 21 or less.
	ContinueChoice() bool

	// DoubleDown asks whether the participant doubles the stake and takes
	// exactly one more card. Only asked as the first decision of a turn.
	DoubleDown() bool

	// PlaceBet returns a stake between min and max inclusive.
	PlaceBet(min, max int) int

	AddCard(c deck.Card)
	ClearHand()
	WinChips(n int)
	LoseChips(n int)
}

// Prompter is the blocking input boundary used by human participants. It is
// supplied by whichever front end is active.
type Prompter interface {
	Ask(question string) (bool, error)
	AskBet(min, max int) (int, error)
}

// Busted reports whether the participant's hand is over 21.
func Busted(p Participant) bool {
	return p.HandValue() > Blackjack
}

// addCardValue applies one card to a running total. An ace is promoted to 11
// when the total after adding it is still 11 or less. The rule is applied once
// per card at draw time and never revisited.
func addCardValue(total int, c deck.Card) int {
	total += c.Value()
	if c.IsAce() && total <= 11 {
		total += 10
	}
	return total
}

var (
	_ Participant = (*Human)(nil)
	_ Participant = (*Automated)(nil)
	_ Participant = (*Dealer)(nil)
)
