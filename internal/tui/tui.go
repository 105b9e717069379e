// Package tui is the interactive terminal front-end. It owns a table, reads
// it through snapshots and paces its reveal steps with a sequencer.
package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/table"
)

// maxLogLines bounds the game log kept for the log pane
const maxLogLines = 500

// stepMsg reports that the sequencer's wait for a reveal step ended. gen
// identifies the wait so a stale timer cannot apply a step twice.
type stepMsg struct {
	gen uint64
	err error
}

// Model is the Bubble Tea model for the blackjack table
type Model struct {
	table  *table.Table
	seq    *table.Sequencer
	ctx    context.Context
	logger *log.Logger

	keys        keyMap
	help        help.Model
	logViewport viewport.Model
	betInput    textinput.Model

	formatter *table.EventFormatter
	gameLog   []string

	// gen numbers reveal waits; only the newest may apply a step
	gen      uint64
	stepping bool

	enteringBet bool
	showChart   bool
	quitting    bool

	width  int
	height int
}

// NewModel creates a model driving tbl. The sequencer should not publish to
// the table's bus, since its waits run off the UI goroutine.
func NewModel(ctx context.Context, tbl *table.Table, seq *table.Sequencer, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "bet amount"
	ti.CharLimit = 6
	ti.Width = 10
	ti.Prompt = "Bet $"
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Validate = func(s string) error {
		if s == "" {
			return nil
		}
		_, err := strconv.Atoi(s)
		return err
	}

	m := &Model{
		table:       tbl,
		seq:         seq,
		ctx:         ctx,
		logger:      logger.WithPrefix("tui"),
		keys:        newKeyMap(),
		help:        help.New(),
		logViewport: vp,
		betInput:    ti,
	}
	s := tbl.Snapshot()
	m.formatter = table.NewEventFormatter(table.FormattingOptions{Color: true, ShowCount: s.ShowCount})
	tbl.EventBus().Subscribe(m)
	m.keys.sync(s)
	return m
}

// OnEvent appends formatted table events to the game log. The table only
// publishes from inside Update, so this runs on the UI goroutine.
func (m *Model) OnEvent(event table.GameEvent) {
	if _, ok := event.(table.StateChangedEvent); ok {
		m.keys.sync(m.table.Snapshot())
		return
	}
	if line := m.formatter.Format(event); line != "" {
		m.AddLogEntry(line)
	}
}

// AddLogEntry adds an entry to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, strings.Split(entry, "\n")...)
	if n := len(m.gameLog); n > maxLogLines {
		m.gameLog = m.gameLog[n-maxLogLines:]
	}
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns a copy of the game log
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case stepMsg:
		if msg.gen != m.gen {
			m.logger.Debug("Ignoring stale reveal step", "gen", msg.gen, "current", m.gen)
			return m, nil
		}
		m.stepping = false
		if msg.err != nil {
			return m, nil
		}
		m.table.Step()
		return m, m.schedule()

	case tea.KeyMsg:
		if m.enteringBet {
			return m.updateBetInput(msg)
		}
		return m, m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

// handleKey maps a key press to a table command
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	s := m.table.Snapshot()
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		m.cancelSteps()
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Chart):
		m.showChart = !m.showChart
	case key.Matches(msg, k.Coach):
		m.table.ToggleCoach()
	case key.Matches(msg, k.Deviation):
		m.table.ToggleDeviations()
	case key.Matches(msg, k.Count):
		m.table.ToggleCount()
		m.formatter = table.NewEventFormatter(table.FormattingOptions{Color: true, ShowCount: !s.ShowCount})
	case key.Matches(msg, k.Reset):
		m.cancelSteps()
		m.table.ResetGame()
		m.AddLogEntry(InfoStyle.Render("--- new game ---"))
	case key.Matches(msg, k.Skip):
		m.cancelSteps()
		m.table.Drain()
	case key.Matches(msg, k.Deal):
		if s.Phase == table.PhaseRoundComplete {
			m.table.NewRound()
		} else {
			m.table.Deal()
		}
	case key.Matches(msg, k.BetUp):
		m.table.AdjustBet(s.Bet + s.Rules.MinimumBet)
	case key.Matches(msg, k.BetDown):
		m.table.AdjustBet(s.Bet - s.Rules.MinimumBet)
	case key.Matches(msg, k.BetAmount):
		m.enteringBet = true
		m.betInput.SetValue(strconv.Itoa(s.Bet))
		m.betInput.CursorEnd()
		return m.betInput.Focus()
	case key.Matches(msg, k.Hit):
		m.table.Hit()
	case key.Matches(msg, k.Stand):
		m.table.Stand()
	case key.Matches(msg, k.Double):
		m.table.DoubleDown()
	case key.Matches(msg, k.Split):
		m.table.Split()
	case key.Matches(msg, k.Surrender):
		m.table.Surrender()
	case key.Matches(msg, k.Take):
		if s.Available.Has(game.EvenMoney) {
			m.table.TakeEvenMoney()
		} else {
			m.table.TakeInsurance()
		}
	case key.Matches(msg, k.Decline):
		if s.Available.Has(game.DeclineEvenMoney) {
			m.table.DeclineEvenMoney()
		} else {
			m.table.DeclineInsurance()
		}
	default:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return cmd
	}
	return m.schedule()
}

// updateBetInput feeds keys to the bet field until enter or esc
func (m *Model) updateBetInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if amount, err := strconv.Atoi(m.betInput.Value()); err == nil {
			m.table.AdjustBet(amount)
		}
		fallthrough
	case tea.KeyEsc:
		m.enteringBet = false
		m.betInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.betInput, cmd = m.betInput.Update(msg)
	return m, cmd
}

// schedule starts the wait for the next reveal step, if one is queued and
// none is in flight
func (m *Model) schedule() tea.Cmd {
	if m.stepping {
		return nil
	}
	kind, ok := m.table.NextStep()
	if !ok {
		return nil
	}
	m.gen++
	m.stepping = true
	gen, seq, ctx := m.gen, m.seq, m.ctx
	return func() tea.Msg {
		return stepMsg{gen: gen, err: seq.Wait(ctx, kind)}
	}
}

// cancelSteps abandons the wait in flight. Its message arrives with an old
// generation and is dropped.
func (m *Model) cancelSteps() {
	m.seq.Cancel()
	m.gen++
	m.stepping = false
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	s := m.table.Snapshot()
	header := HeaderStyle.Width(m.width).Render("Blackjack · " + s.Rules.Summary())

	sidebar := PaneStyle.Width(28).Render(renderSidebar(s))
	mainWidth := max(m.width-lipgloss.Width(sidebar)-2, 20)

	var main string
	if m.showChart {
		main = RenderChart(s.Rules)
	} else {
		main = renderTable(s)
	}
	if m.enteringBet {
		main += "\n\n" + m.betInput.View()
	}
	mainPane := PaneStyle.Width(mainWidth).Render(main)
	top := lipgloss.JoinHorizontal(lipgloss.Top, mainPane, sidebar)

	helpView := m.help.View(m.keys)
	logHeight := m.height - lipgloss.Height(header) - lipgloss.Height(top) - lipgloss.Height(helpView) - 2
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(logHeight, 1)
	logPane := PaneStyle.Width(m.logViewport.Width).Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, top, logPane, helpView)
}
