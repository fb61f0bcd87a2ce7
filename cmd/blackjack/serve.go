package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/server"
)

// ServeCmd runs an automated table and broadcasts it to websocket spectators.
type ServeCmd struct {
	TableFlags `embed:""`

	Addr   string        `kong:"default=':8080',help='Spectator feed address'"`
	Rounds int           `kong:"default='0',help='Rounds to play before exiting (0 = until interrupted)'"`
	Delay  time.Duration `kong:"default='2s',help='Pause between rounds'"`
}

func (c *ServeCmd) Run() error {
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

	srv := server.New(tbl, logger)
	defer srv.Close()

	logger.Info().
		Str("address", c.Addr).
		Int("min_bet", cfg.Table.MinBet).
		Int("max_bet", cfg.Table.MaxBet).
		Int("seats", len(cfg.Seats)).
		Dur("delay", c.Delay).
		Msg("Starting blackjack table")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, c.Addr)
	})
	g.Go(func() error {
		defer cancel()
		return playRounds(gctx, tbl, c.Rounds, c.Delay)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// playRounds plays rounds with a pause between them until limit rounds have
// been played (0 means no limit) or ctx is done.
func playRounds(ctx context.Context, tbl *game.Table, limit int, delay time.Duration) error {
	for played := 0; limit <= 0 || played < limit; played++ {
		tbl.Reset()
		if err := tbl.PlayRound(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil
}
