package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
)

// ErrQuit is returned by prompts when the player asks to leave.
var ErrQuit = errors.New("player quit")

// lineReader is the part of *readline.Instance the prompter needs.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// Prompter reads human decisions from the terminal.
type Prompter struct {
	rl     lineReader
	out    io.Writer
	styles *Styles
	quit   bool

	// Before runs ahead of every question, typically to print the table.
	Before func()
}

// NewPrompter creates a readline backed prompter.
func NewPrompter(out io.Writer, styles *Styles, historyFile string) (*Prompter, error) {
	completer := readline.NewPrefixCompleter(
		readline.PcItem("yes"),
		readline.PcItem("no"),
		readline.PcItem("quit"),
	)
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          styles.Prompt.Render("> "),
		HistoryFile:     historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          out,
	})
	if err != nil {
		return nil, err
	}
	return newPrompter(rl, out, styles), nil
}

func newPrompter(rl lineReader, out io.Writer, styles *Styles) *Prompter {
	return &Prompter{rl: rl, out: out, styles: styles}
}

// Close releases the terminal.
func (p *Prompter) Close() error {
	return p.rl.Close()
}

// Quit reports whether the player asked to leave.
func (p *Prompter) Quit() bool {
	return p.quit
}

// Ask asks a yes/no question until it gets an answer.
func (p *Prompter) Ask(question string) (bool, error) {
	if p.quit {
		return false, ErrQuit
	}
	if p.Before != nil {
		p.Before()
	}
	p.rl.SetPrompt(p.styles.Prompt.Render(question + " [y/n] "))

	for {
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes", "o", "oui", "hit", "double":
			return true, nil
		case "n", "no", "non", "stand":
			return false, nil
		}
		fmt.Fprintln(p.out, p.styles.Error.Render(fmt.Sprintf("Please answer y or n, not %q", line)))
	}
}

// AskBet asks for a stake until a whole number within the limits is given.
func (p *Prompter) AskBet(min, max int) (int, error) {
	if p.quit {
		return 0, ErrQuit
	}
	if p.Before != nil {
		p.Before()
	}
	p.rl.SetPrompt(p.styles.Prompt.Render(fmt.Sprintf("Your bet (%d-%d)> ", min, max)))

	for {
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		amount, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(p.out, p.styles.Error.Render(fmt.Sprintf("Invalid amount: %s", line)))
			continue
		}
		if amount < min || amount > max {
			fmt.Fprintln(p.out, p.styles.Error.Render(fmt.Sprintf("Bet must be between %d and %d", min, max)))
			continue
		}
		return amount, nil
	}
}

// readLine returns the next non-empty trimmed line. Interrupts are
// answered with a hint; end of input and "quit" end the session.
func (p *Prompter) readLine() (string, error) {
	for {
		line, err := p.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(p.out, p.styles.Info.Render("Use 'quit' to exit"))
			continue
		}
		if errors.Is(err, io.EOF) {
			p.quit = true
			return "", ErrQuit
		}
		if err != nil {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if q := strings.ToLower(line); q == "quit" || q == "q" || q == "exit" {
			p.quit = true
			return "", ErrQuit
		}
		return line, nil
	}
}
