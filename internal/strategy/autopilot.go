package strategy

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

// Autopilot plays hands without a human: basic strategy, optionally with the
// index plays and the insurance index.
type Autopilot struct {
	Deviations bool
}

// Decide returns the play for hand
func (a Autopilot) Decide(hand game.Hand, up deck.Card, available game.ActionSet, r rules.CasinoRules, running int, trueCount float64) Advice {
	if a.Deviations {
		return DeviationAction(hand, up, available, r, running, trueCount)
	}
	return BasicAdvice(hand, up, available, r)
}

// DecideInsurance picks from the insurance or even money choices in
// available. It declines unless deviations are on and the count is high.
func (a Autopilot) DecideInsurance(available game.ActionSet, trueCount float64) game.Action {
	take := false
	if a.Deviations {
		_, take = InsuranceDeviation(trueCount)
	}

	if available.Has(game.EvenMoney) {
		if take {
			return game.EvenMoney
		}
		return game.DeclineEvenMoney
	}
	if take && available.Has(game.Insurance) {
		return game.Insurance
	}
	return game.DeclineInsurance
}
