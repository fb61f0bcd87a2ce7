// Package config loads table configuration from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/participant"
)

// Config represents a complete table configuration
type Config struct {
	Table  *TableSettings  `hcl:"table,block"`
	Dealer *DealerSettings `hcl:"dealer,block"`
	Seats  []SeatConfig    `hcl:"seat,block"`
}

// TableSettings contains the stake limits
type TableSettings struct {
	MinBet int `hcl:"min_bet,optional"`
	MaxBet int `hcl:"max_bet,optional"`
}

// DealerSettings configures the house
type DealerSettings struct {
	Name  string `hcl:"name,optional"`
	Chips int    `hcl:"chips,optional"`
}

// SeatConfig defines one player seat, in seating order
type SeatConfig struct {
	Name  string `hcl:"name,label"`
	Kind  string `hcl:"kind,optional"`
	Chips int    `hcl:"chips,optional"`
}

// Defaults used when the file or a value is missing. They match the terminal
// launcher: a rich dealer, one human and one bot at a 5-10 table.
const (
	DefaultMinBet      = 5
	DefaultMaxBet      = 10
	DefaultDealerName  = "Dealer"
	DefaultDealerChips = 10000
)

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Table: &TableSettings{
			MinBet: DefaultMinBet,
			MaxBet: DefaultMaxBet,
		},
		Dealer: &DealerSettings{
			Name:  DefaultDealerName,
			Chips: DefaultDealerChips,
		},
		Seats: []SeatConfig{
			{Name: "Human", Kind: participant.KindHuman.String(), Chips: 500},
			{Name: "IA", Kind: participant.KindAutomated.String(), Chips: participant.DefaultChips},
		},
	}
}

// Load reads a configuration file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults for missing values.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Table == nil {
		c.Table = &TableSettings{}
	}
	if c.Dealer == nil {
		c.Dealer = &DealerSettings{}
	}
	if c.Table.MinBet == 0 {
		c.Table.MinBet = DefaultMinBet
	}
	if c.Table.MaxBet == 0 {
		c.Table.MaxBet = max(DefaultMaxBet, c.Table.MinBet)
	}
	if c.Dealer.Name == "" {
		c.Dealer.Name = DefaultDealerName
	}
	if c.Dealer.Chips == 0 {
		c.Dealer.Chips = DefaultDealerChips
	}
	for i := range c.Seats {
		if c.Seats[i].Kind == "" {
			c.Seats[i].Kind = participant.KindAutomated.String()
		}
		if c.Seats[i].Chips == 0 {
			c.Seats[i].Chips = participant.DefaultChips
		}
	}
}

// Validate checks limits, seat kinds and seat names.
func (c *Config) Validate() error {
	if c.Table.MinBet < 1 {
		return fmt.Errorf("min_bet must be positive: %d", c.Table.MinBet)
	}
	if c.Table.MaxBet < c.Table.MinBet {
		return fmt.Errorf("max_bet %d must not be below min_bet %d", c.Table.MaxBet, c.Table.MinBet)
	}
	if len(c.Seats) == 0 {
		return fmt.Errorf("at least one seat must be configured")
	}

	names := map[string]bool{c.Dealer.Name: true}
	for _, s := range c.Seats {
		if s.Name == "" {
			return fmt.Errorf("seat names must not be empty")
		}
		if names[s.Name] {
			return fmt.Errorf("seat %s: duplicate name", s.Name)
		}
		names[s.Name] = true

		kind, err := participant.ParseKind(s.Kind)
		if err != nil {
			return fmt.Errorf("seat %s: %w", s.Name, err)
		}
		if kind == participant.KindDealer {
			return fmt.Errorf("seat %s: the dealer is configured in the dealer block", s.Name)
		}
	}
	return nil
}

// Humans returns how many seats are interactive.
func (c *Config) Humans() int {
	n := 0
	for _, s := range c.Seats {
		if k, err := participant.ParseKind(s.Kind); err == nil && k == participant.KindHuman {
			n++
		}
	}
	return n
}

// WithBot returns a copy with an extra automated seat, the way the desktop
// setup offered to seat a bot next to the player.
func (c *Config) WithBot(name string, chips int) *Config {
	out := *c
	out.Seats = append(append([]SeatConfig(nil), c.Seats...), SeatConfig{
		Name:  name,
		Kind:  participant.KindAutomated.String(),
		Chips: chips,
	})
	return &out
}

// AllAutomated returns a copy where every human seat is played by the
// automated strategy, used for unattended simulation.
func (c *Config) AllAutomated() *Config {
	out := *c
	out.Seats = make([]SeatConfig, len(c.Seats))
	for i, s := range c.Seats {
		s.Kind = participant.KindAutomated.String()
		out.Seats[i] = s
	}
	return &out
}
