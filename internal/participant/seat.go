package participant

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
)

// Option configures a participant during creation.
type Option func(*seat)

// WithRand sets the random source behind the default bet and double-down
// decisions. Without it the package-level generator is used.
func WithRand(rng *rand.Rand) Option {
	return func(s *seat) {
		s.rng = rng
	}
}

// WithLogger sets the logger used for decision tracing.
func WithLogger(logger *log.Logger) Option {
	return func(s *seat) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// seat holds the state every participant has and the default decisions used
// by variants that do not specialise them.
type seat struct {
	name   string
	chips  int
	cards  []deck.Card
	value  int
	rng    *rand.Rand
	logger *log.Logger
}

func newSeat(name string, chips int, opts []Option) seat {
	s := seat{
		name:   name,
		chips:  chips,
		cards:  make([]deck.Card, 0, 8),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.logger = s.logger.WithPrefix(name)
	return s
}

func (s *seat) Name() string { return s.name }

func (s *seat) Chips() int { return s.chips }

func (s *seat) HandValue() int { return s.value }

// Hand returns a copy of the cards currently held.
func (s *seat) Hand() []deck.Card {
	out := make([]deck.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

func (s *seat) AddCard(c deck.Card) {
	s.cards = append(s.cards, c)
	s.value = addCardValue(s.value, c)
}

func (s *seat) ClearHand() {
	s.cards = s.cards[:0]
	s.value = 0
}

// WinChips credits the balance.
func (s *seat) WinChips(n int) { s.chips += n }

// LoseChips debits the balance. The balance is not floored at zero.
func (s *seat) LoseChips(n int) { s.chips -= n }

// DoubleDown is a coin flip.
func (s *seat) DoubleDown() bool {
	return s.intN(2) == 1
}

// PlaceBet picks a stake uniformly in [min, min(max, chips)]. When the
// balance is below the table minimum the minimum is returned.
func (s *seat) PlaceBet(min, max int) int {
	upper := max
	if s.chips < upper {
		upper = s.chips
	}
	if upper < min {
		return min
	}
	return min + s.intN(upper-min+1)
}

func (s *seat) intN(n int) int {
	if s.rng != nil {
		return s.rng.IntN(n)
	}
	return rand.IntN(n)
}
