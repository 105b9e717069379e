package game

import (
	"strconv"
	"strings"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/evaluator"
)

// Hand is a player's or the dealer's hand. Score, softness and the other
// derived properties are computed from Cards on every call and never stored.
type Hand struct {
	Cards         []deck.Card
	Bet           int
	IsSplitHand   bool
	IsDoubledDown bool
	IsSurrendered bool
	IsStanding    bool
	SplitFromAces bool
}

// NewHand creates a hand holding the given cards and bet
func NewHand(bet int, cards ...deck.Card) Hand {
	return Hand{Cards: append([]deck.Card(nil), cards...), Bet: bet}
}

// Score returns the best total
func (h Hand) Score() int {
	return evaluator.BestScore(h.Cards)
}

// IsSoft reports whether an ace is currently counted as 11
func (h Hand) IsSoft() bool {
	return evaluator.IsSoft(h.Cards)
}

// IsBusted reports whether the hand is over 21
func (h Hand) IsBusted() bool {
	return h.Score() > evaluator.Blackjack
}

// IsBlackjack reports a two-card 21 that did not come from a split
func (h Hand) IsBlackjack() bool {
	return len(h.Cards) == 2 && h.Score() == evaluator.Blackjack && !h.IsSplitHand
}

// IsPair reports two cards of equal value; any two ten-valued cards pair
func (h Hand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank.BaseValue() == h.Cards[1].Rank.BaseValue()
}

// IsFinished reports whether the hand can take no further action
func (h Hand) IsFinished() bool {
	return h.IsBusted() || h.IsStanding || h.IsDoubledDown || h.IsSurrendered || h.IsBlackjack() ||
		(h.SplitFromAces && len(h.Cards) >= 2)
}

// AddCard returns a copy of the hand with card appended
func (h Hand) AddCard(card deck.Card) Hand {
	h.Cards = append(h.Cards[:len(h.Cards):len(h.Cards)], card)
	return h
}

// Clone returns a deep copy of the hand
func (h Hand) Clone() Hand {
	h.Cards = append([]deck.Card(nil), h.Cards...)
	return h
}

// UpCard returns the first card, which for the dealer is the visible one
func (h Hand) UpCard() (deck.Card, bool) {
	if len(h.Cards) == 0 {
		return deck.Card{}, false
	}
	return h.Cards[0], true
}

// String returns the cards and total, e.g. "A♠ 6♥ (soft 17)"
func (h Hand) String() string {
	if len(h.Cards) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		if c.FaceUp {
			parts[i] = c.String()
		} else {
			parts[i] = "??"
		}
	}
	return strings.Join(parts, " ") + " (" + describeTotal(h) + ")"
}

func describeTotal(h Hand) string {
	switch {
	case h.IsBlackjack():
		return "blackjack"
	case h.IsBusted():
		return "bust"
	case h.IsSoft():
		return "soft " + strconv.Itoa(h.Score())
	default:
		return strconv.Itoa(h.Score())
	}
}
