package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/rules"
)

func TestDealerShouldHit(t *testing.T) {
	h17 := rules.Default()
	h17.DealerStandsOnSoft17 = false

	tests := []struct {
		name     string
		cards    string
		rules    rules.CasinoRules
		expected bool
	}{
		{"16 hits", "Th6s", rules.Default(), true},
		{"hard 17 stands", "Th7s", rules.Default(), false},
		{"soft 17 stands S17", "As6h", rules.Default(), false},
		{"soft 17 hits H17", "As6h", h17, true},
		{"hard 17 stands H17", "Th7s", h17, false},
		{"soft 18 stands H17", "As7h", h17, false},
		{"three card soft 17 hits H17", "As3h3d", h17, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DealerShouldHit(hand(0, tt.cards), tt.rules))
		})
	}
}

func TestSettle(t *testing.T) {
	sixToFive := rules.Default()
	sixToFive.BlackjackPayout = rules.SixToFive

	sevens := rules.Default()
	sevens.ThreeSevensBonus = true

	surrendered := hand(10, "Th6s")
	surrendered.IsSurrendered = true

	tests := []struct {
		name   string
		player Hand
		dealer string
		rules  rules.CasinoRules
		result Result
		payout int
	}{
		{"blackjack pays 3:2", hand(10, "AsTh"), "9s7h", rules.Default(), ResultBlackjack, 25},
		{"blackjack pays 6:5", hand(10, "AsTh"), "9s7h", sixToFive, ResultBlackjack, 22},
		{"blackjack truncates odd bet", hand(15, "AsTh"), "9s7h", rules.Default(), ResultBlackjack, 37},
		{"both blackjack push", hand(10, "AsTh"), "AhKd", rules.Default(), ResultPush, 10},
		{"dealer blackjack", hand(10, "Th9s"), "AhKd", rules.Default(), ResultLose, 0},
		{"surrender returns half", surrendered, "Th9d", rules.Default(), ResultSurrender, 5},
		{"bust loses even if dealer busts", hand(10, "Th6s9c"), "Th6d8c", rules.Default(), ResultBust, 0},
		{"dealer bust", hand(10, "Th7s"), "Th6d8c", rules.Default(), ResultWin, 20},
		{"higher wins", hand(10, "Th9s"), "Th8d", rules.Default(), ResultWin, 20},
		{"equal pushes", hand(10, "Th8s"), "9h9d", rules.Default(), ResultPush, 10},
		{"lower loses", hand(10, "Th7s"), "Th8d", rules.Default(), ResultLose, 0},
		{"three sevens bonus", hand(10, "7h7d7c"), "AhKd", sevens, ResultThreeSevens, 40},
		{"three sevens without bonus", hand(10, "7h7d7c"), "Th9d", rules.Default(), ResultWin, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settle([]Hand{tt.player}, hand(0, tt.dealer), 0, tt.rules)
			require.Len(t, s.Results, 1)
			assert.Equal(t, tt.result, s.Results[0])
			assert.Equal(t, tt.payout, s.Payouts[0])
			assert.Equal(t, tt.payout, s.Total)
		})
	}
}

func TestSettleInsuranceAndTotals(t *testing.T) {
	hands := []Hand{hand(10, "Th9s"), hand(10, "Th8s"), hand(10, "Th6s9d")}

	t.Run("insurance pays when dealer has blackjack", func(t *testing.T) {
		s := Settle(hands, hand(0, "AhKd"), 5, rules.Default())
		assert.Equal(t, 15, s.Insurance)
		assert.Equal(t, 15, s.Total)
	})

	t.Run("insurance lost otherwise", func(t *testing.T) {
		s := Settle(hands, hand(0, "Ah7d"), 5, rules.Default())
		assert.Equal(t, 0, s.Insurance)
		assert.Equal(t, []Result{ResultWin, ResultPush, ResultBust}, s.Results)

		sum := 0
		for _, p := range s.Payouts {
			sum += p
		}
		assert.Equal(t, sum+s.Insurance, s.Total)
		assert.Equal(t, 30, s.Total)
	})
}
