package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/console"
)

// SimulateCmd plays unattended rounds: human seats from the configuration
// are played by the automated strategy.
type SimulateCmd struct {
	TableFlags `embed:""`

	Rounds  int  `kong:"default='100',help='Rounds to play'"`
	Verbose bool `kong:"help='Print the table after every round'"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	engineLog := shared.SetupEngineLogger(os.Stderr, c.Debug)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cfg = cfg.AllAutomated()

	tbl, err := c.newTable(cfg, nil, engineLog, logger)
	if err != nil {
		return err
	}
	closeHistory, err := c.recordHistory(tbl, logger)
	if err != nil {
		return err
	}
	defer closeHistory()

	ctx, cancel := shared.SetupSignalHandlerWithLogger(logger)
	defer cancel()

	var out io.Writer = io.Discard
	if c.Verbose {
		out = os.Stdout
	}
	session := console.NewSession(tbl, out, console.NewStyles(out, false), engineLog)
	session.ShowAll = true

	logger.Info().Int("rounds", c.Rounds).Int("seats", len(cfg.Seats)).Msg("Starting simulation")
	played, err := session.Run(ctx, c.Rounds)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return printStandings(os.Stdout, cfg, tbl.Snapshot(), played)
}
