package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/participant"
	"github.com/lox/blackjack/internal/randutil"
)

const desktopConfig = `
table {
  min_bet = 10
  max_bet = 50
}

dealer {
  chips = 1000
}

seat "You" {
  kind  = "human"
  chips = 2000
}

seat "Bot_1" {
  kind  = "bot"
  chips = 2000
}
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(desktopConfig), "table.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.Table.MinBet)
	assert.Equal(t, 50, cfg.Table.MaxBet)
	assert.Equal(t, "Dealer", cfg.Dealer.Name)
	assert.Equal(t, 1000, cfg.Dealer.Chips)
	require.Len(t, cfg.Seats, 2)
	assert.Equal(t, SeatConfig{Name: "You", Kind: "human", Chips: 2000}, cfg.Seats[0])
	assert.Equal(t, "Bot_1", cfg.Seats[1].Name)
	assert.Equal(t, 1, cfg.Humans())
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`seat "IA" {}`), "min.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultMinBet, cfg.Table.MinBet)
	assert.Equal(t, DefaultMaxBet, cfg.Table.MaxBet)
	assert.Equal(t, DefaultDealerChips, cfg.Dealer.Chips)
	assert.Equal(t, "automated", cfg.Seats[0].Kind)
	assert.Equal(t, participant.DefaultChips, cfg.Seats[0].Chips)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`table {`), "bad.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`seat { kind = "human" }`), "nolabel.hcl")
	assert.Error(t, err)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.hcl")
	require.NoError(t, os.WriteFile(path, []byte(desktopConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Seats, 2)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero minimum", func(c *Config) { c.Table.MinBet = 0 }},
		{"max below min", func(c *Config) { c.Table.MaxBet = 1 }},
		{"no seats", func(c *Config) { c.Seats = nil }},
		{"unknown kind", func(c *Config) { c.Seats[0].Kind = "robot" }},
		{"dealer seat", func(c *Config) { c.Seats[0].Kind = "dealer" }},
		{"duplicate name", func(c *Config) { c.Seats[1].Name = c.Seats[0].Name }},
		{"name clashes with dealer", func(c *Config) { c.Seats[0].Name = "Dealer" }},
		{"empty name", func(c *Config) { c.Seats[0].Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWithBotAndAllAutomated(t *testing.T) {
	base := Default()

	withBot := base.WithBot("Bot_1", 2000)
	assert.Len(t, withBot.Seats, 3)
	assert.Len(t, base.Seats, 2, "the receiver is unchanged")

	auto := withBot.AllAutomated()
	assert.Zero(t, auto.Humans())
	assert.Equal(t, 1, withBot.Humans())
}

func TestBuild(t *testing.T) {
	cfg, err := Parse([]byte(desktopConfig), "table.hcl")
	require.NoError(t, err)

	dealer, players, err := cfg.Build(randutil.New(1), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Dealer", dealer.Name())
	assert.Equal(t, 1000, dealer.Chips())
	require.Len(t, players, 2)
	assert.Equal(t, participant.KindHuman, players[0].Kind())
	assert.Equal(t, participant.KindAutomated, players[1].Kind())
	assert.Equal(t, 2000, players[1].Chips())

	cfg.Seats[0].Kind = "robot"
	_, _, err = cfg.Build(randutil.New(1), nil, nil)
	assert.Error(t, err)
}

func TestExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "blackjack.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.Table.MinBet)
	assert.Equal(t, 50, cfg.Table.MaxBet)
	assert.Equal(t, "House", cfg.Dealer.Name)
	require.Len(t, cfg.Seats, 3)
	assert.Equal(t, 1, cfg.Humans())
	assert.Equal(t, "Bot_2", cfg.Seats[2].Name)
	assert.Equal(t, 250, cfg.Seats[2].Chips)
}
