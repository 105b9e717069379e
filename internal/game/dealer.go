package game

import "github.com/lox/blackjack/internal/rules"

// dealerStandScore is the total at which the dealer stops drawing
const dealerStandScore = 17

// DealerShouldHit reports whether the dealer draws another card. The dealer
// stands on 17 or more except soft 17 in an H17 game.
func DealerShouldHit(hand Hand, r rules.CasinoRules) bool {
	score := hand.Score()
	switch {
	case score < dealerStandScore:
		return true
	case score > dealerStandScore:
		return false
	default:
		return !r.DealerStandsOnSoft17 && hand.IsSoft()
	}
}
