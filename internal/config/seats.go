package config

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/participant"
	"github.com/lox/blackjack/internal/randutil"
)

// Build creates the dealer and the seated players. Human seats answer
// through prompter; every automated seat gets its own stream derived from
// rng so a seed reproduces the whole session.
func (c *Config) Build(rng *rand.Rand, prompter participant.Prompter, logger *log.Logger) (*participant.Dealer, []participant.Participant, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	opts := func() []participant.Option {
		o := []participant.Option{participant.WithRand(randutil.Child(rng))}
		if logger != nil {
			o = append(o, participant.WithLogger(logger))
		}
		return o
	}

	dealer := participant.NewDealer(c.Dealer.Name, c.Dealer.Chips, opts()...)

	players := make([]participant.Participant, 0, len(c.Seats))
	for _, s := range c.Seats {
		kind, _ := participant.ParseKind(s.Kind)
		switch kind {
		case participant.KindHuman:
			players = append(players, participant.NewHuman(s.Name, s.Chips, prompter, opts()...))
		default:
			players = append(players, participant.NewAutomated(s.Name, s.Chips, opts()...))
		}
	}
	return dealer, players, nil
}
