package tui

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/rules"
	"github.com/lox/blackjack/internal/table"
)

// newTestModel returns a model over a table whose shoe deals cards in order:
// player, dealer up, player, dealer hole, then later draws
func newTestModel(t *testing.T, cards string) (*Model, *table.Table) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	r := rules.Default()
	shoe := deck.NewStackedShoe(r.Decks, randutil.New(1), deck.MustParseCards(cards))
	tbl := table.New(r, table.WithLogger(logger), table.WithRNG(randutil.New(1)), table.WithShoe(shoe))
	seq := table.NewSequencer(quartz.NewMock(t), logger, table.DefaultDelays(), nil)
	return NewModel(context.Background(), tbl, seq, logger), tbl
}

func press(m *Model, keys string) tea.Cmd {
	var msg tea.KeyMsg
	switch keys {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

// finishSteps delivers the timer message for every queued reveal step
// without waiting on the clock
func finishSteps(t *testing.T, m *Model, tbl *table.Table) {
	t.Helper()
	for i := 0; tbl.Pending() > 0; i++ {
		require.Less(t, i, 50, "reveal steps never drained")
		require.True(t, m.stepping, "a wait should be in flight while steps are pending")
		m.Update(stepMsg{gen: m.gen})
	}
	assert.False(t, m.stepping)
}

func TestModelPlaysRound(t *testing.T) {
	m, tbl := newTestModel(t, "Th6h9sTd9c")

	require.NotNil(t, press(m, "enter"), "deal should schedule the first reveal")
	assert.Equal(t, 4, tbl.Pending())
	finishSteps(t, m, tbl)
	assert.Equal(t, table.PhasePlayerTurn, tbl.Phase())

	press(m, "s")
	finishSteps(t, m, tbl)

	s := tbl.Snapshot()
	assert.Equal(t, table.PhaseRoundComplete, s.Phase)
	assert.Equal(t, 1010, s.Chips)

	logText := strings.Join(m.Log(), "\n")
	assert.Contains(t, logText, "Dealer: hole card")
	assert.Contains(t, logText, "You win $10! (chips: $1010)")

	press(m, "enter")
	assert.Equal(t, table.PhaseBetting, tbl.Phase())
}

func TestModelIgnoresStaleSteps(t *testing.T) {
	m, tbl := newTestModel(t, "Th6h9sTd9c")
	press(m, "enter")

	gen := m.gen
	m.Update(stepMsg{gen: gen})
	assert.Equal(t, 3, tbl.Pending())

	// A second message for the same wait must not deal another card
	m.Update(stepMsg{gen: gen})
	assert.Equal(t, 3, tbl.Pending())
	assert.Equal(t, gen+1, m.gen)
}

func TestModelSkipDrainsSteps(t *testing.T) {
	m, tbl := newTestModel(t, "Th6h9sTd9c")
	press(m, "enter")
	gen := m.gen

	press(m, "space")
	assert.Zero(t, tbl.Pending())
	assert.Equal(t, table.PhasePlayerTurn, tbl.Phase())
	assert.False(t, m.stepping)

	m.Update(stepMsg{gen: gen})
	assert.Len(t, tbl.Snapshot().Hands[0].Cards, 2, "the cancelled wait must not apply a step")
}

func TestModelCancelledWaitAppliesNothing(t *testing.T) {
	m, tbl := newTestModel(t, "Th6h9sTd9c")
	press(m, "enter")

	m.Update(stepMsg{gen: m.gen, err: context.Canceled})
	assert.Equal(t, 4, tbl.Pending())
	assert.False(t, m.stepping)
}

func TestModelKeysFollowPhase(t *testing.T) {
	m, tbl := newTestModel(t, "Th6h9sTd9c")

	assert.True(t, m.keys.Deal.Enabled())
	assert.True(t, m.keys.BetUp.Enabled())
	assert.False(t, m.keys.Hit.Enabled())

	press(m, "enter")
	assert.False(t, m.keys.Deal.Enabled(), "deal is disabled while cards are coming out")
	assert.True(t, m.keys.Skip.Enabled())

	// Hit is rejected while steps are pending, so the key does nothing
	press(m, "h")
	assert.Equal(t, 4, tbl.Pending())

	finishSteps(t, m, tbl)
	assert.True(t, m.keys.Hit.Enabled())
	assert.True(t, m.keys.Double.Enabled())
	assert.False(t, m.keys.Split.Enabled())
	assert.False(t, m.keys.Skip.Enabled())
}

func TestModelInsuranceKeys(t *testing.T) {
	m, tbl := newTestModel(t, "ThAs9sKd")
	press(m, "enter")
	finishSteps(t, m, tbl)
	require.Equal(t, table.PhaseInsuranceOffered, tbl.Phase())
	assert.Equal(t, "insure", m.keys.Take.Help().Desc)

	press(m, "y")
	finishSteps(t, m, tbl)

	s := tbl.Snapshot()
	assert.Equal(t, 5, s.InsuranceBet)
	assert.Equal(t, table.PhaseRoundComplete, s.Phase)
}

func TestModelBetEntry(t *testing.T) {
	m, tbl := newTestModel(t, "Th6h9sTd9c")

	press(m, "+")
	assert.Equal(t, 20, tbl.Snapshot().Bet)
	press(m, "-")
	assert.Equal(t, 10, tbl.Snapshot().Bet)

	press(m, "b")
	require.True(t, m.enteringBet)
	press(m, "backspace")
	press(m, "backspace")
	press(m, "7")
	press(m, "5")
	press(m, "enter")

	assert.False(t, m.enteringBet)
	assert.Equal(t, 75, tbl.Snapshot().Bet)
	assert.Equal(t, table.PhaseBetting, tbl.Phase(), "enter in the bet field must not deal")
}

func TestModelResetGame(t *testing.T) {
	m, tbl := newTestModel(t, "Th6h9sTd9c")
	press(m, "enter")
	press(m, "R")

	assert.Zero(t, tbl.Pending())
	assert.Equal(t, table.PhaseBetting, tbl.Phase())
	assert.Equal(t, 1000, tbl.Snapshot().Chips)
	assert.Contains(t, strings.Join(m.Log(), "\n"), "new game")
}

func TestModelToggles(t *testing.T) {
	m, tbl := newTestModel(t, "Th6h9sTd9c")

	press(m, "c")
	press(m, "v")
	press(m, "t")
	s := tbl.Snapshot()
	assert.True(t, s.CoachEnabled)
	assert.True(t, s.DeviationsEnabled)
	assert.True(t, s.ShowCount)

	press(m, "enter")
	finishSteps(t, m, tbl)
	assert.Contains(t, strings.Join(m.Log(), "\n"), "(RC ")
}

func TestModelView(t *testing.T) {
	m, tbl := newTestModel(t, "Th6h9sTd9c")
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	assert.Contains(t, view, "Chips: $1000")
	assert.Contains(t, view, "Place your bet: $10")

	press(m, "enter")
	finishSteps(t, m, tbl)
	view = m.View()
	assert.Contains(t, view, "??", "the hole card stays hidden")
	assert.Contains(t, view, "Actions:")

	press(m, "g")
	assert.Contains(t, m.View(), "Hard totals")

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestRenderChart(t *testing.T) {
	out := RenderChart(rules.Default())
	for _, want := range []string{"Hard totals", "Soft totals", "Pairs", "A,7", "10"} {
		assert.Contains(t, out, want)
	}
}
