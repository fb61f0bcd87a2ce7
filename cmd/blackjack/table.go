package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/participant"
	"github.com/lox/blackjack/internal/randutil"
)

// TableFlags are shared by every command that runs a table.
type TableFlags struct {
	Config   string `kong:"default='blackjack.hcl',type='path',help='Table configuration file (defaults are used when missing)'"`
	Seed     *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Bot      string `kong:"help='Seat an extra automated player with this name'"`
	BotChips int    `kong:"default='100',help='Starting chips for --bot'"`
	History  string `kong:"type='path',help='Append settled rounds to this TOML file'"`
	Debug    bool   `kong:"help='Enable debug logging'"`
}

func (f *TableFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, err
	}
	if f.Bot != "" {
		cfg = cfg.WithBot(f.Bot, f.BotChips)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", f.Config, err)
	}
	return cfg, nil
}

// newTable seats cfg at a fresh table. prompter may be nil when no seat is
// human.
func (f *TableFlags) newTable(cfg *config.Config, prompter participant.Prompter, engineLog *log.Logger, logger zerolog.Logger) (*game.Table, error) {
	rng, seed := randutil.FromFlag(f.Seed)
	if f.Seed != nil {
		logger.Info().Int64("seed", seed).Msg("Using deterministic seed")
	} else {
		logger.Debug().Int64("seed", seed).Msg("Using random seed")
	}

	dealer, players, err := cfg.Build(rng, prompter, engineLog)
	if err != nil {
		return nil, err
	}
	return game.NewTable(rng, dealer, players,
		game.WithLimits(cfg.Table.MinBet, cfg.Table.MaxBet),
		game.WithLogger(engineLog),
	)
}

// recordHistory attaches a recorder when --history is set. The returned
// close function flushes it and is safe to call when nothing was attached.
func (f *TableFlags) recordHistory(tbl *game.Table, logger zerolog.Logger) (func(), error) {
	if f.History == "" {
		return func() {}, nil
	}
	rec, err := history.NewRecorder(history.Config{Path: f.History}, logger)
	if err != nil {
		return nil, err
	}
	rec.Attach(tbl)
	return func() {
		if err := rec.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to write history")
		}
	}, nil
}
