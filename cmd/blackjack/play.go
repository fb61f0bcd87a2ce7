package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/console"
	"github.com/lox/blackjack/internal/participant"
)

// PlayCmd plays rounds at the console, prompting every human seat in turn.
type PlayCmd struct {
	TableFlags `embed:""`

	Rounds  int  `kong:"default='0',help='Rounds to play (0 = until you quit)'"`
	NoColor bool `kong:"help='Disable colour output'"`
	ShowAll bool `kong:"help='Show every seat, not only human ones'"`
}

func (c *PlayCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	engineLog := shared.SetupEngineLogger(os.Stderr, c.Debug)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	styles := console.NewStyles(os.Stdout, !c.NoColor)

	var (
		prompter  participant.Prompter
		cprompter *console.Prompter
	)
	if cfg.Humans() > 0 {
		cprompter, err = console.NewPrompter(os.Stdout, styles, readlineHistory())
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		defer cprompter.Close()
		prompter = cprompter
	}

	tbl, err := c.newTable(cfg, prompter, engineLog, logger)
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

	session := console.NewSession(tbl, os.Stdout, styles, engineLog)
	session.ShowAll = c.ShowAll || cprompter == nil
	if cprompter != nil {
		cprompter.Before = session.ShowTable
		session.Stop = cprompter.Quit
	}

	rounds := c.Rounds
	if rounds <= 0 {
		rounds = math.MaxInt
	}
	played, err := session.Run(ctx, rounds)
	fmt.Fprintln(os.Stdout, styles.Info.Render(fmt.Sprintf("Played %d rounds", played)))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readlineHistory keeps answers between sessions when a home directory exists.
func readlineHistory() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "blackjack")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "readline_history")
}
