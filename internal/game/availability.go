package game

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/rules"
)

// AvailableActions returns the legal actions for hand. hands is every player
// hand currently at the table, including hand itself. No current rule depends
// on the dealer up card.
func AvailableActions(hand Hand, hands []Hand, _ deck.Card, chips int, r rules.CasinoRules) ActionSet {
	if hand.IsFinished() {
		return 0
	}
	if hand.SplitFromAces && !r.HitSplitAces {
		return NewActionSet(Stand)
	}

	actions := NewActionSet(Hit, Stand)
	twoCards := len(hand.Cards) == 2

	if twoCards && chips >= hand.Bet && r.DoubleOnAnyTwo && (!hand.IsSplitHand || r.DoubleAfterSplit) {
		actions = actions.With(DoubleDown)
	}

	if canSplit(hand, hands, chips, r) {
		actions = actions.With(Split)
	}

	if twoCards && !hand.IsSplitHand && len(hands) == 1 && r.SurrenderAllowed() {
		actions = actions.With(Surrender)
	}

	return actions
}

func canSplit(hand Hand, hands []Hand, chips int, r rules.CasinoRules) bool {
	if !hand.IsPair() || len(hands) >= r.MaxSplitHands || chips < hand.Bet {
		return false
	}
	acePair := hand.Cards[0].IsAce()
	return !(acePair && hand.IsSplitHand && !r.ResplitAces)
}

// InsuranceActions returns the choices offered when the dealer shows an ace.
// A blackjack is offered even money instead of insurance.
func InsuranceActions(hand Hand, chips int) ActionSet {
	if hand.IsBlackjack() {
		return NewActionSet(EvenMoney, DeclineEvenMoney)
	}
	actions := NewActionSet(DeclineInsurance)
	if chips >= hand.Bet/2 {
		actions = actions.With(Insurance)
	}
	return actions
}
