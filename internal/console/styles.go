// Package console is the text front end: it renders the table and reads
// human decisions from the terminal.
package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles contains styling for the console
type Styles struct {
	Prompt       lipgloss.Style
	Info         lipgloss.Style
	Success      lipgloss.Style
	Error        lipgloss.Style
	Warning      lipgloss.Style
	RedCard      lipgloss.Style
	BlackCard    lipgloss.Style
	HiddenCard   lipgloss.Style
	Chips        lipgloss.Style
	Player       lipgloss.Style
	ActivePlayer lipgloss.Style
	Header       lipgloss.Style
}

// NewStyles builds styles for w. With color false everything renders as
// plain text, which is also what tests use.
func NewStyles(w io.Writer, color bool) *Styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Prompt:       r.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Info:         r.NewStyle().Foreground(lipgloss.Color("#626262")),
		Success:      r.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		Error:        r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		Warning:      r.NewStyle().Foreground(lipgloss.Color("#FFEAA7")).Bold(true),
		RedCard:      r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		BlackCard:    r.NewStyle().Foreground(lipgloss.Color("#DDDDDD")).Bold(true),
		HiddenCard:   r.NewStyle().Foreground(lipgloss.Color("#626262")),
		Chips:        r.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		Player:       r.NewStyle().Foreground(lipgloss.Color("#74B9FF")),
		ActivePlayer: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		Header:       r.NewStyle().Bold(true).Underline(true),
	}
}
