package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/strategy"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1B7A3E")).
			Bold(true).
			Padding(0, 1)

	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ActiveHandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	ActionsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	HiddenCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262"))
)

// cellStyles colours strategy chart cells by their primary action
var cellStyles = map[strategy.Cell]lipgloss.Style{
	strategy.H:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")),
	strategy.S:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFEAA7")),
	strategy.D:  lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
	strategy.Ds: lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
	strategy.P:  lipgloss.NewStyle().Foreground(lipgloss.Color("#4EA8DE")).Bold(true),
	strategy.Rh: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	strategy.Rs: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	strategy.Rp: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
}
