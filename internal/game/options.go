package game

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
)

// Default table limits, matching the terminal launcher.
const (
	DefaultMinBet = 5
	DefaultMaxBet = 10
)

// Option configures a Table during creation.
type Option func(*tableConfig)

// Shuffler prepares a fresh deck before dealing.
type Shuffler func(d *deck.Deck, rng *rand.Rand)

// tableConfig holds all configuration for creating a table.
type tableConfig struct {
	minBet   int
	maxBet   int
	logger   *log.Logger
	clock    quartz.Clock
	newDeck  func() *deck.Deck
	shuffler Shuffler
}

// ShuffleAndCut is the standard preparation: a full shuffle followed by a
// single cut.
func ShuffleAndCut(d *deck.Deck, rng *rand.Rand) {
	d.Shuffle(rng)
	d.Cut(rng)
}

// NoShuffle leaves the deck in the order the deck source produced it.
func NoShuffle(*deck.Deck, *rand.Rand) {}

// WithLimits sets the table minimum and maximum stake.
func WithLimits(minBet, maxBet int) Option {
	return func(c *tableConfig) {
		c.minBet = minBet
		c.maxBet = maxBet
	}
}

// WithLogger sets the logger. Default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(c *tableConfig) {
		c.logger = logger
	}
}

// WithClock sets the clock used to timestamp rounds and snapshots.
func WithClock(clock quartz.Clock) Option {
	return func(c *tableConfig) {
		c.clock = clock
	}
}

// WithDeckSource replaces the fresh 52-card deck built for each round.
func WithDeckSource(fn func() *deck.Deck) Option {
	return func(c *tableConfig) {
		c.newDeck = fn
	}
}

// WithShuffler replaces ShuffleAndCut.
func WithShuffler(fn Shuffler) Option {
	return func(c *tableConfig) {
		c.shuffler = fn
	}
}
