// Package evaluator scores blackjack hands.
//
// Both functions are pure. Every ace is first counted as 1 and at most one is
// promoted to 11, so a hand can never hold two aces valued 11.
package evaluator

import "github.com/lox/blackjack/internal/deck"

// Blackjack is the best possible total
const Blackjack = 21

// BestScore returns the highest total not exceeding 21 where possible. An
// empty hand scores 0.
func BestScore(cards []deck.Card) int {
	aces, nonAce := split(cards)
	sum := nonAce + aces
	if aces > 0 && sum+10 <= Blackjack {
		sum += 10
	}
	return sum
}

// IsSoft reports whether the hand can count exactly one ace as 11 without
// busting. It is computed on its own rather than from BestScore's promotion
// so the two can be checked independently.
func IsSoft(cards []deck.Card) bool {
	aces, nonAce := split(cards)
	if aces == 0 {
		return false
	}
	return nonAce+11+(aces-1) <= Blackjack
}

// IsBusted reports whether the best total exceeds 21
func IsBusted(cards []deck.Card) bool {
	return BestScore(cards) > Blackjack
}

func split(cards []deck.Card) (aces, nonAce int) {
	for _, c := range cards {
		if c.Rank.IsAce() {
			aces++
			continue
		}
		nonAce += c.Rank.BaseValue()
	}
	return aces, nonAce
}
