package console

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/participant"
)

// FormatCards renders cards with suit colors, e.g. [A♠ 10♥]. A hidden hole
// card is shown as ??.
func (s *Styles) FormatCards(cards []deck.Card, hidden bool) string {
	parts := make([]string, 0, len(cards)+1)
	if hidden {
		parts = append(parts, s.HiddenCard.Render("??"))
	}
	for _, c := range cards {
		if c.IsRed() {
			parts = append(parts, s.RedCard.Render(c.String()))
		} else {
			parts = append(parts, s.BlackCard.Render(c.String()))
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Render describes the table. With all false only the dealer, the human
// seats and the seat holding the turn are listed.
func Render(snap game.Snapshot, s *Styles, all bool) string {
	var b strings.Builder

	title := fmt.Sprintf("Round %d", snap.Round)
	if snap.Phase != game.InProgress && snap.Phase != game.Finished {
		title = "Betting"
	}
	fmt.Fprintf(&b, "%s %s\n", s.Header.Render(title),
		s.Info.Render(fmt.Sprintf("(bets %d-%d)", snap.MinBet, snap.MaxBet)))

	d := snap.Dealer
	value := fmt.Sprintf("%d", d.Value)
	if snap.HoleCardHidden {
		value = fmt.Sprintf("%d+?", d.Value)
	}
	fmt.Fprintf(&b, "  %-10s %s %s%s\n",
		d.Name, s.FormatCards(d.Cards, snap.HoleCardHidden), value, status(d, snap))

	for _, p := range snap.Players {
		if !all && !p.Acting && p.Kind != participant.KindHuman {
			continue
		}
		name := s.Player.Render(fmt.Sprintf("%-10s", p.Name))
		if p.Acting {
			name = s.ActivePlayer.Render(fmt.Sprintf("%-10s", p.Name))
		}
		line := fmt.Sprintf("  %s %s %d", name, s.FormatCards(p.Cards, false), p.Value)
		if p.Bet > 0 {
			line += s.Info.Render(fmt.Sprintf(" bet %d", p.Bet))
		}
		line += " " + s.Chips.Render(fmt.Sprintf("$%d", p.Chips))
		line += status(p, snap)
		b.WriteString(line + "\n")
	}

	if snap.Phase == game.Finished {
		b.WriteString(s.Success.Render(Announce(snap)) + "\n")
	}
	return b.String()
}

func status(v game.SeatView, snap game.Snapshot) string {
	switch {
	case v.Busted:
		return " (bust)"
	case v.Winner:
		return " (wins)"
	case v.Value == participant.Blackjack && snap.Natural && len(v.Cards) == 2:
		return " (blackjack)"
	default:
		return ""
	}
}

// Announce is the one-line result of a settled round.
func Announce(snap game.Snapshot) string {
	var winners []string
	for _, p := range snap.Players {
		if p.Winner {
			winners = append(winners, p.Name)
		}
	}
	prefix := ""
	if snap.Natural {
		prefix = "Blackjack! "
	}
	if len(winners) == 0 {
		return prefix + snap.Dealer.Name + " wins the round"
	}
	return prefix + "Winners: " + strings.Join(winners, ", ")
}
