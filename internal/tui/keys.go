package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/table"
)

// keyMap holds the table's key bindings. Bindings that do nothing in the
// current phase are disabled so the help line only lists live keys.
type keyMap struct {
	Deal      key.Binding
	BetUp     key.Binding
	BetDown   key.Binding
	BetAmount key.Binding
	Hit       key.Binding
	Stand     key.Binding
	Double    key.Binding
	Split     key.Binding
	Surrender key.Binding
	Take      key.Binding
	Decline   key.Binding
	Skip      key.Binding
	Coach     key.Binding
	Deviation key.Binding
	Count     key.Binding
	Chart     key.Binding
	Reset     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Deal:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "deal")),
		BetUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "raise bet")),
		BetDown:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "lower bet")),
		BetAmount: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "enter bet")),
		Hit:       key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hit")),
		Stand:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stand")),
		Double:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "double")),
		Split:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "split")),
		Surrender: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "surrender")),
		Take:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "insure")),
		Decline:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no insurance")),
		Skip:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "skip")),
		Coach:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "coach")),
		Deviation: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "deviations")),
		Count:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "count")),
		Chart:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "chart")),
		Reset:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "new game")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Deal, k.BetUp, k.BetDown,
		k.Hit, k.Stand, k.Double, k.Split, k.Surrender,
		k.Take, k.Decline, k.Skip, k.Help, k.Quit,
	}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Deal, k.BetUp, k.BetDown, k.BetAmount},
		{k.Hit, k.Stand, k.Double, k.Split, k.Surrender},
		{k.Take, k.Decline, k.Skip},
		{k.Coach, k.Deviation, k.Count, k.Chart},
		{k.Reset, k.Help, k.Quit},
	}
}

// sync enables the bindings that apply to s
func (k *keyMap) sync(s table.Snapshot) {
	animating := s.PendingSteps > 0
	betting := s.Phase == table.PhaseBetting && !animating

	k.Deal.SetEnabled(!animating && (s.Phase == table.PhaseBetting || s.Phase == table.PhaseRoundComplete))
	if s.Phase == table.PhaseRoundComplete {
		k.Deal.SetHelp("enter", "next round")
	} else {
		k.Deal.SetHelp("enter", "deal")
	}
	k.BetUp.SetEnabled(betting)
	k.BetDown.SetEnabled(betting)
	k.BetAmount.SetEnabled(betting)

	available := s.Available
	if animating {
		available = 0
	}
	k.Hit.SetEnabled(available.Has(game.Hit))
	k.Stand.SetEnabled(available.Has(game.Stand))
	k.Double.SetEnabled(available.Has(game.DoubleDown))
	k.Split.SetEnabled(available.Has(game.Split))
	k.Surrender.SetEnabled(available.Has(game.Surrender))

	evenMoney := available.Has(game.EvenMoney)
	k.Take.SetEnabled(evenMoney || available.Has(game.Insurance))
	k.Decline.SetEnabled(evenMoney || available.Has(game.DeclineInsurance))
	if evenMoney {
		k.Take.SetHelp("y", "even money")
		k.Decline.SetHelp("n", "no even money")
	} else {
		k.Take.SetHelp("y", "insure")
		k.Decline.SetHelp("n", "no insurance")
	}

	k.Skip.SetEnabled(animating)
}
