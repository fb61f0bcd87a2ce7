package participant

import "fmt"

// Human is a participant whose decisions come from a Prompter. Every decision
// blocks until the prompter answers.
type Human struct {
	seat
	prompter Prompter
	err      error
}

// NewHuman creates a human participant answering through prompter.
func NewHuman(name string, chips int, prompter Prompter, opts ...Option) *Human {
	return &Human{seat: newSeat(name, chips, opts), prompter: prompter}
}

func (h *Human) Kind() Kind { return KindHuman }

// SetPrompter swaps the input source, e.g. when a front end attaches.
func (h *Human) SetPrompter(p Prompter) {
	h.prompter = p
}

// Err returns the last input error, if any. Input errors never abort a
// round: the human stands, declines to double or bets the minimum instead.
func (h *Human) Err() error {
	return h.err
}

// ContinueChoice asks whether to take another card.
func (h *Human) ContinueChoice() bool {
	return h.ask(fmt.Sprintf("%s, another card? (hand %d)", h.name, h.value), "stand")
}

// DoubleDown asks whether to double the stake.
func (h *Human) DoubleDown() bool {
	return h.ask(fmt.Sprintf("%s, double down? (hand %d)", h.name, h.value), "no double")
}

// PlaceBet asks for a stake until one within [min, max] is given.
func (h *Human) PlaceBet(min, max int) int {
	if h.prompter == nil {
		h.logger.Warn("No prompter attached, betting minimum", "min", min)
		return min
	}

	for {
		amount, err := h.prompter.AskBet(min, max)
		if err != nil {
			h.err = err
			h.logger.Error("Bet input failed, betting minimum", "error", err, "min", min)
			return min
		}
		if amount >= min && amount <= max {
			return amount
		}
		h.logger.Warn("Bet out of range, asking again", "amount", amount, "min", min, "max", max)
	}
}

func (h *Human) ask(question, fallback string) bool {
	if h.prompter == nil {
		h.logger.Warn("No prompter attached", "fallback", fallback)
		return false
	}

	yes, err := h.prompter.Ask(question)
	if err != nil {
		h.err = err
		h.logger.Error("Input failed", "error", err, "fallback", fallback)
		return false
	}
	return yes
}
