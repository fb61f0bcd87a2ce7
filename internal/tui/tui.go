// Package tui is an interactive terminal front end. It drives the table one
// action at a time from the Bubble Tea event loop, so a human turn never
// blocks the program.
package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/console"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/participant"
)

// Model is the Bubble Tea model for one table.
type Model struct {
	table  *game.Table
	human  participant.Participant
	logger *log.Logger
	styles *console.Styles

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	last        game.Snapshot
	errMsg      string
	quitting    bool
	unsubscribe func()

	// Dimensions
	width  int
	height int
}

// New creates a model for table. human is the seat the keyboard plays; it
// may be nil, in which case every Enter plays a full automated round.
func New(table *game.Table, human participant.Participant, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 20
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		table:       table,
		human:       human,
		logger:      logger.WithPrefix("tui"),
		styles:      console.NewStyles(io.Discard, true),
		logViewport: vp,
		actionInput: ti,
		last:        table.Snapshot(),
	}
	// Listeners run inside Update, on the same goroutine as the model.
	m.unsubscribe = table.Subscribe(m.onChange)
	return m
}

// Run starts the program and blocks until the player quits.
func Run(m *Model) error {
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Close detaches the model from the table.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Log returns the game log lines.
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			input := strings.TrimSpace(m.actionInput.Value())
			m.actionInput.SetValue("")
			if m.submit(input) {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		case "pgup":
			m.logViewport.HalfPageUp()
		case "pgdown":
			m.logViewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	m.actionInput, cmd = m.actionInput.Update(msg)
	cmds = append(cmds, cmd)

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit handles one line of input and reports whether to quit.
func (m *Model) submit(input string) bool {
	m.errMsg = ""
	cmd := strings.ToLower(input)
	if cmd == "quit" || cmd == "q" || cmd == "exit" {
		return true
	}

	switch m.table.Phase() {
	case game.NotStarted:
		m.startRound(cmd)
	case game.InProgress:
		m.act(cmd)
	case game.Finished:
		m.table.Reset()
		if cmd != "" {
			m.startRound(cmd)
		}
	}
	return false
}

func (m *Model) startRound(cmd string) {
	minBet, _ := m.table.Limits()

	if m.human != nil {
		amount := minBet
		if cmd != "" {
			n, err := strconv.Atoi(cmd)
			if err != nil {
				m.errMsg = fmt.Sprintf("Invalid amount: %s", cmd)
				return
			}
			amount = n
		}
		if err := m.table.SetBet(m.human, amount); err != nil {
			m.errMsg = err.Error()
			return
		}
	}

	if err := m.table.CollectBets(); err != nil {
		m.errMsg = err.Error()
		return
	}
	if err := m.table.InitRound(); err != nil {
		m.fail(err)
	}
}

func (m *Model) act(cmd string) {
	if m.human == nil || !m.table.IsTurn(m.human) {
		m.errMsg = "Waiting for the round to finish"
		return
	}

	var err error
	switch cmd {
	case "h", "hit":
		err = m.table.Hit(m.human)
	case "s", "stand":
		err = m.table.Stand(m.human)
	case "d", "double":
		if !m.table.CanDouble() {
			m.errMsg = "You can only double as your first action"
			return
		}
		err = m.table.Double(m.human)
	case "":
		return
	default:
		m.errMsg = fmt.Sprintf("Unknown command: %s", cmd)
		return
	}
	if err != nil {
		m.fail(err)
	}
}

// fail reports a round that cannot continue and returns to betting.
func (m *Model) fail(err error) {
	m.logger.Error("Round aborted", "error", err)
	m.errMsg = fmt.Sprintf("Round aborted: %v", err)
	m.table.Reset()
}

func (m *Model) onChange() {
	snap := m.table.Snapshot()
	for _, line := range describeChange(m.last, snap) {
		m.AddLogEntry(line)
	}
	m.last = snap
}

// AddLogEntry adds an entry to the game log
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := paneStyle.
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(1, m.width-2)).
		Height(max(1, actionHeight)).
		Render(actionContent)

	tableContent := console.Render(m.table.Snapshot(), m.styles, true)
	tableWidth := max(30, lipgloss.Width(tableContent))
	paneHeight := max(1, m.height-actionHeight-4)

	tablePane := paneStyle.
		Width(tableWidth).
		Height(paneHeight).
		Render(tableContent)

	m.logViewport.Width = max(1, m.width-tableWidth-4)
	m.logViewport.Height = paneHeight
	logPane := paneStyle.
		Width(m.logViewport.Width).
		Height(paneHeight).
		Render(GameLogStyle.Render(m.logViewport.View()))

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, tablePane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *Model) renderActionPane() string {
	var content strings.Builder

	snap := m.table.Snapshot()
	content.WriteString(HeaderStyle.Render("Blackjack"))
	content.WriteString(" ")
	content.WriteString(m.renderHint(snap))
	content.WriteString("\n")

	if m.errMsg != "" {
		content.WriteString(ErrorStyle.Render(m.errMsg))
		content.WriteString("\n")
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render("Enter to submit • PgUp/PgDn scroll log • Ctrl+C to quit"))
	return content.String()
}

func (m *Model) renderHint(snap game.Snapshot) string {
	switch snap.Phase {
	case game.NotStarted:
		m.actionInput.Placeholder = fmt.Sprintf("bet %d-%d", snap.MinBet, snap.MaxBet)
		if m.human == nil {
			return HandInfoStyle.Render("Enter to deal")
		}
		return HandInfoStyle.Render(fmt.Sprintf("Place your bet (%d-%d), Enter for the minimum", snap.MinBet, snap.MaxBet))
	case game.InProgress:
		cur, ok := snap.Current()
		if !ok || m.human == nil || cur.Name != m.human.Name() {
			return HandInfoStyle.Render("Waiting...")
		}
		m.actionInput.Placeholder = "hit, stand or double"
		actions := []string{SuccessStyle.Render("[h]it"), SuccessStyle.Render("[s]tand")}
		if snap.CanDouble {
			actions = append(actions, WarningStyle.Render("[d]ouble"))
		}
		return ActionsStyle.Render(fmt.Sprintf("Hand %d: ", cur.Value)) + strings.Join(actions, " ")
	default:
		m.actionInput.Placeholder = "Enter for the next round"
		return SuccessStyle.Render(console.Announce(snap))
	}
}
