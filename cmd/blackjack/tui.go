package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/participant"
	"github.com/lox/blackjack/internal/tui"
)

// TUICmd plays in a full-screen terminal interface. At most one seat may be
// human; with none, every Enter deals an automated round.
type TUICmd struct {
	TableFlags `embed:""`

	LogFile string `kong:"type='path',help='Write engine logs to this file (the screen is taken by the interface)'"`
}

func (c *TUICmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	var logOut io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	engineLog := shared.SetupEngineLogger(logOut, c.Debug)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Humans() > 1 {
		return errors.New("the terminal interface supports a single human seat")
	}

	tbl, err := c.newTable(cfg, nil, engineLog, logger)
	if err != nil {
		return err
	}
	closeHistory, err := c.recordHistory(tbl, logger)
	if err != nil {
		return err
	}
	defer closeHistory()

	var human participant.Participant
	for _, p := range tbl.Players() {
		if p.Kind() == participant.KindHuman {
			human = p
		}
	}

	return tui.Run(tui.New(tbl, human, engineLog))
}
