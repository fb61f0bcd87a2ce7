package tui

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/console"
	"github.com/lox/blackjack/internal/game"
)

// describeChange turns the difference between two snapshots into log lines.
func describeChange(prev, cur game.Snapshot) []string {
	var lines []string

	if cur.Round != prev.Round && cur.Phase == game.InProgress {
		lines = append(lines, fmt.Sprintf("*** ROUND %d ***", cur.Round))
	}

	if prev.HoleCardHidden && !cur.HoleCardHidden && len(cur.Dealer.Cards) > 0 {
		lines = append(lines, fmt.Sprintf("%s reveals %s (%d)",
			cur.Dealer.Name, cur.Dealer.Cards[0], cur.Dealer.Value))
	} else {
		lines = append(lines, newCards(prev.Dealer, cur.Dealer)...)
	}
	for i, p := range cur.Players {
		var before game.SeatView
		if i < len(prev.Players) && prev.Players[i].Name == p.Name {
			before = prev.Players[i]
		}
		if p.Bet != before.Bet && p.Bet > 0 {
			if before.Bet > 0 && cur.Phase == game.InProgress {
				lines = append(lines, fmt.Sprintf("%s doubles to %d", p.Name, p.Bet))
			} else {
				lines = append(lines, fmt.Sprintf("%s bets %d", p.Name, p.Bet))
			}
		}
		lines = append(lines, newCards(before, p)...)
		if p.Busted && !before.Busted {
			lines = append(lines, fmt.Sprintf("%s busts with %d", p.Name, p.Value))
		}
	}

	if cur.Phase == game.Finished && prev.Phase != game.Finished {
		lines = append(lines, console.Announce(cur))
	}
	return lines
}

func newCards(before, after game.SeatView) []string {
	if len(after.Cards) <= len(before.Cards) {
		return nil
	}
	added := after.Cards[len(before.Cards):]
	names := make([]string, len(added))
	for i, c := range added {
		names[i] = c.String()
	}
	return []string{fmt.Sprintf("%s draws %s (%d)", after.Name, strings.Join(names, " "), after.Value)}
}
