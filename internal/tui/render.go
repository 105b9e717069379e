package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
	"github.com/lox/blackjack/internal/strategy"
	"github.com/lox/blackjack/internal/table"
)

// renderTable draws the dealer, the player's hands and the round status
func renderTable(s table.Snapshot) string {
	var b strings.Builder

	dealer := "Dealer: " + formatCards(s.Dealer.Cards)
	if len(s.Dealer.Cards) > 0 {
		dealer += fmt.Sprintf("  (%d)", s.DealerScore)
	}
	b.WriteString(HandInfoStyle.Render(dealer))
	b.WriteString("\n")

	for i, h := range s.ExtraHands {
		if len(h.Cards) == 0 {
			continue
		}
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Seat %d: ", i+1)))
		b.WriteString(formatCards(h.Cards))
		b.WriteString(InfoStyle.Render(fmt.Sprintf("  (%s)", handScore(h))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, h := range s.Hands {
		label := "You"
		if len(s.Hands) > 1 {
			label = fmt.Sprintf("Hand %d", i+1)
		}
		line := fmt.Sprintf("%s: %s  (%s)  $%d", label, formatCards(h.Cards), handScore(h), h.Bet)
		if i < len(s.Results) {
			line += "  " + resultLabel(s.Results[i])
		}
		if s.Phase == table.PhasePlayerTurn && i == s.ActiveHand && len(s.Hands) > 1 {
			b.WriteString(ActiveHandStyle.Render("▶ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch s.Phase {
	case table.PhaseBetting:
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Place your bet: $%d", s.Bet)))
	case table.PhaseInsuranceOffered:
		if s.Available.Has(game.EvenMoney) {
			b.WriteString(WarningStyle.Render("Dealer shows an ace. Even money?"))
		} else {
			b.WriteString(WarningStyle.Render(fmt.Sprintf("Dealer shows an ace. Insurance for $%d?", s.Bet/2)))
		}
	case table.PhasePlayerTurn:
		b.WriteString(ActionsStyle.Render("Actions: " + s.Available.String()))
	case table.PhaseGameOver:
		b.WriteString(ErrorStyle.Render("Out of chips. Press R for a new game."))
	}
	if s.Message != "" {
		b.WriteString("\n")
		b.WriteString(messageStyle(s).Render(s.Message))
	}

	if s.CoachEnabled {
		if s.Advice != nil {
			b.WriteString("\n")
			advice := "Coach: " + s.Advice.Action.String()
			if s.Advice.IsDeviation {
				advice += " (" + s.Advice.Description + ")"
			}
			b.WriteString(InfoStyle.Render(advice))
		}
		if s.CoachFeedback != "" {
			style := ErrorStyle
			if strings.HasPrefix(s.CoachFeedback, "Correct") {
				style = SuccessStyle
			}
			b.WriteString("\n")
			b.WriteString(style.Render(s.CoachFeedback))
		}
	}

	return b.String()
}

func messageStyle(s table.Snapshot) lipgloss.Style {
	net := s.RoundPayout - s.InsuranceBet
	for _, h := range s.Hands {
		net -= h.Bet
	}
	switch {
	case net > 0:
		return SuccessStyle
	case net < 0:
		return ErrorStyle
	default:
		return WarningStyle
	}
}

// renderSidebar draws the bankroll, count and session panel
func renderSidebar(s table.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", WarningStyle.Render(fmt.Sprintf("Chips: $%d", s.Chips)))
	fmt.Fprintf(&b, "Bet: $%d\n", s.Bet)
	if s.InsuranceBet > 0 {
		fmt.Fprintf(&b, "Insurance: $%d\n", s.InsuranceBet)
	}
	fmt.Fprintf(&b, "Limits: $%d-$%d\n\n", s.Rules.MinimumBet, s.Rules.MaximumBet)

	if s.ShowCount {
		fmt.Fprintf(&b, "Running count: %+d\n", s.RunningCount)
		fmt.Fprintf(&b, "True count: %+.1f\n", s.TrueCount)
	}
	fmt.Fprintf(&b, "Shoe: %d cards (%.0f%%)\n\n", s.CardsRemaining, s.Penetration*100)

	fmt.Fprintf(&b, "Hands: %d  Won: %d\n", s.HandsPlayed, s.HandsWon)
	if s.CoachEnabled {
		mode := "basic"
		if s.DeviationsEnabled {
			mode = "deviations"
		}
		fmt.Fprintf(&b, "Coach (%s): %d/%d\n", mode, s.CoachCorrect, s.CoachTotal)
	}
	b.WriteString(InfoStyle.Render(s.Phase.String()))
	return b.String()
}

// RenderChart renders the basic strategy chart for r
func RenderChart(r rules.CasinoRules) string {
	return renderChart(strategy.BuildChart(r))
}

func renderChart(c strategy.Chart) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Basic strategy · " + c.Rules.Summary()))
	b.WriteString("\n")
	for _, section := range []struct {
		title string
		rows  []strategy.ChartRow
	}{
		{"Hard totals", c.Hard},
		{"Soft totals", c.Soft},
		{"Pairs", c.Pairs},
	} {
		b.WriteString("\n")
		b.WriteString(HandInfoStyle.Render(section.title))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-5s", ""))
		for _, col := range strategy.DealerColumns {
			b.WriteString(fmt.Sprintf("%-4s", col))
		}
		b.WriteString("\n")
		for _, row := range section.rows {
			b.WriteString(fmt.Sprintf("%-5s", row.Label))
			for _, cell := range row.Cells {
				b.WriteString(cellStyles[cell].Render(fmt.Sprintf("%-4s", cell)))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("H hit · S stand · D double/hit · Ds double/stand · P split · R surrender"))
	return b.String()
}

func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		switch {
		case !card.FaceUp:
			formatted = append(formatted, HiddenCardStyle.Render("??"))
		case card.IsRed():
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		default:
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func handScore(h game.Hand) string {
	switch {
	case len(h.Cards) == 0:
		return "-"
	case h.IsBlackjack():
		return "blackjack"
	case h.IsBusted():
		return fmt.Sprintf("%d, bust", h.Score())
	case h.IsSoft():
		return fmt.Sprintf("soft %d", h.Score())
	default:
		return fmt.Sprint(h.Score())
	}
}

func resultLabel(r game.Result) string {
	switch {
	case r.IsWin():
		return SuccessStyle.Render(r.String())
	case r == game.ResultPush:
		return WarningStyle.Render(r.String())
	default:
		return ErrorStyle.Render(r.String())
	}
}
