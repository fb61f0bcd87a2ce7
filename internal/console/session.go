package console

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
)

// Session plays rounds at a table and prints each result.
type Session struct {
	table  *game.Table
	out    io.Writer
	styles *Styles
	logger *log.Logger

	// ShowAll lists every seat instead of the dealer and human seats only.
	ShowAll bool
	// Stop is checked between rounds; returning true ends the session.
	Stop func() bool
}

// NewSession creates a session writing to out.
func NewSession(table *game.Table, out io.Writer, styles *Styles, logger *log.Logger) *Session {
	return &Session{
		table:  table,
		out:    out,
		styles: styles,
		logger: logger.WithPrefix("console"),
	}
}

// ShowTable prints the current table state.
func (s *Session) ShowTable() {
	fmt.Fprint(s.out, Render(s.table.Snapshot(), s.styles, s.ShowAll))
}

// Run plays up to rounds rounds, or until Stop or the context ends the
// session. A round that cannot be completed is reported and ends the
// session with its error.
func (s *Session) Run(ctx context.Context, rounds int) (played int, err error) {
	for played < rounds {
		if err := ctx.Err(); err != nil {
			return played, err
		}
		if s.Stop != nil && s.Stop() {
			return played, nil
		}

		s.table.Reset()
		// A player who quits mid-round is played out with safe defaults, so
		// the round still settles before Stop ends the session.
		if err := s.table.PlayRound(ctx); err != nil {
			fmt.Fprintln(s.out, s.styles.Error.Render(fmt.Sprintf("Round aborted: %v", err)))
			s.table.Reset()
			return played, err
		}

		played++
		fmt.Fprintln(s.out)
		s.ShowTable()
		s.logger.Debug("Round finished", "round", s.table.Rounds(), "winners", len(s.table.Winners()))
	}
	return played, nil
}
