package game

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/rules"
)

// Settlement is the outcome of settling every player hand against the dealer.
// Payouts are the amounts returned to the player including the original
// stake, so a push returns the bet and a loss returns 0.
type Settlement struct {
	Results   []Result
	Payouts   []int
	Insurance int
	Total     int
}

// Settle classifies each hand and computes its payout. Insurance is settled
// independently and paid 2:1 plus the stake when the dealer has blackjack.
func Settle(hands []Hand, dealer Hand, insuranceBet int, r rules.CasinoRules) Settlement {
	s := Settlement{
		Results: make([]Result, len(hands)),
		Payouts: make([]int, len(hands)),
	}

	for i, h := range hands {
		s.Results[i], s.Payouts[i] = settleHand(h, dealer, r)
		s.Total += s.Payouts[i]
	}

	if insuranceBet > 0 && dealer.IsBlackjack() {
		s.Insurance = insuranceBet * 3
		s.Total += s.Insurance
	}

	return s
}

func settleHand(h, dealer Hand, r rules.CasinoRules) (Result, int) {
	switch {
	case h.IsSurrendered:
		return ResultSurrender, h.Bet / 2
	case h.IsBusted():
		return ResultBust, 0
	case r.ThreeSevensBonus && isThreeSevens(h):
		return ResultThreeSevens, h.Bet * 4
	case h.IsBlackjack() && !dealer.IsBlackjack():
		num, den := r.BlackjackPayout.Ratio()
		return ResultBlackjack, h.Bet + h.Bet*num/den
	case h.IsBlackjack() && dealer.IsBlackjack():
		return ResultPush, h.Bet
	case dealer.IsBlackjack():
		return ResultLose, 0
	case dealer.IsBusted():
		return ResultWin, h.Bet * 2
	}

	player, house := h.Score(), dealer.Score()
	switch {
	case player > house:
		return ResultWin, h.Bet * 2
	case player == house:
		return ResultPush, h.Bet
	default:
		return ResultLose, 0
	}
}

func isThreeSevens(h Hand) bool {
	if len(h.Cards) != 3 {
		return false
	}
	for _, c := range h.Cards {
		if c.Rank != deck.Seven {
			return false
		}
	}
	return true
}
