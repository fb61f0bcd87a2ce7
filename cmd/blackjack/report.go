package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
)

// printStandings lists every player's balance against what they sat down with.
func printStandings(w io.Writer, cfg *config.Config, snap game.Snapshot, played int) error {
	start := make(map[string]int, len(cfg.Seats))
	for _, s := range cfg.Seats {
		start[s.Name] = s.Chips
	}

	fmt.Fprintf(w, "Standings after %d rounds\n", played)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tKIND\tCHIPS\tNET")
	for _, p := range snap.Players {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%+d\n", p.Name, p.Kind, p.Chips, p.Chips-start[p.Name])
	}
	return tw.Flush()
}

// printSummary lists per-player results over recorded rounds.
func printSummary(w io.Writer, records []history.Record) error {
	fmt.Fprintf(w, "%d rounds recorded\n", len(records))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tROUNDS\tWINS\tWIN%\tNET\tCHIPS")
	for _, s := range history.Summarize(records) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%+d\t%d\n",
			s.Name, s.Rounds, s.Wins, 100*s.WinRate(), s.Net, s.Chips)
	}
	return tw.Flush()
}

// printRounds lists recorded rounds, one line per seat.
func printRounds(w io.Writer, records []history.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rec := range records {
		natural := ""
		if rec.Natural {
			natural = " (natural)"
		}
		fmt.Fprintf(tw, "Round %d\t%s%s\n", rec.Round, rec.Time.Format("2006-01-02 15:04:05"), natural)
		fmt.Fprintf(tw, "  %s\t%v\t%d\t\n", rec.Dealer.Name, rec.Dealer.Cards, rec.Dealer.Value)
		for _, p := range rec.Players {
			fmt.Fprintf(tw, "  %s\t%v\t%d\t%s %+d\n", p.Name, p.Cards, p.Value, p.Outcome, p.Net)
		}
	}
	return tw.Flush()
}
