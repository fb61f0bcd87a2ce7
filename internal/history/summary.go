package history

import "sort"

// PlayerSummary aggregates a player's results over many rounds.
type PlayerSummary struct {
	Name   string
	Rounds int
	Wins   int
	Net    int
	Chips  int
}

// WinRate is the fraction of staked rounds won.
func (p PlayerSummary) WinRate() float64 {
	if p.Rounds == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Rounds)
}

// Summarize totals every staked round per player, ordered by net result
// and then name. Chips is the balance after the last recorded round.
func Summarize(records []Record) []PlayerSummary {
	byName := make(map[string]*PlayerSummary)
	for _, rec := range records {
		for _, p := range rec.Players {
			s, ok := byName[p.Name]
			if !ok {
				s = &PlayerSummary{Name: p.Name}
				byName[p.Name] = s
			}
			s.Chips = p.Chips
			if p.Outcome == OutcomeNone || p.Outcome == "" {
				continue
			}
			s.Rounds++
			s.Net += p.Net
			if p.Outcome == OutcomeWin {
				s.Wins++
			}
		}
	}

	out := make([]PlayerSummary, 0, len(byName))
	for _, s := range byName {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Net != out[j].Net {
			return out[i].Net > out[j].Net
		}
		return out[i].Name < out[j].Name
	})
	return out
}
