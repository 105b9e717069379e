package strategy

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

// insuranceIndex is the true count at which insurance becomes profitable
const insuranceIndex = 3.0

// Advice is a recommended action. IsDeviation marks a count-based departure
// from basic strategy, explained by Description.
type Advice struct {
	Action      game.Action
	IsDeviation bool
	Description string
}

// countSituation adds the count to a table situation
type countSituation struct {
	situation
	soft      bool
	running   int
	trueCount float64
}

func (c countSituation) hard(total int) bool {
	return !c.soft && c.total == total
}

// indexPlay is a Hi-Lo index: when Condition holds and Action is available,
// Action replaces the basic strategy play.
type indexPlay struct {
	Description string
	Condition   func(countSituation) bool
	Action      game.Action
}

// indexPlays are checked in order; the first applicable one wins.
var indexPlays = []indexPlay{
	{"Deviation (RC > 0): Stand 16 vs 10", func(c countSituation) bool {
		return c.hard(16) && c.col == colTen && c.running > 0
	}, game.Stand},
	{"Deviation (RC ≤ 0): Hit 16 vs 10", func(c countSituation) bool {
		return c.hard(16) && c.col == colTen && c.running <= 0
	}, game.Hit},
	{"Deviation (TC ≥ +3): Stand 12 vs 2", func(c countSituation) bool {
		return c.hard(12) && c.col == colTwo && c.trueCount >= 3
	}, game.Stand},
	{"Deviation (TC ≥ +2): Stand 12 vs 3", func(c countSituation) bool {
		return c.hard(12) && c.col == colThree && c.trueCount >= 2
	}, game.Stand},
	{"Deviation (RC < 0): Hit 12 vs 4", func(c countSituation) bool {
		return c.hard(12) && c.col == colFour && c.running < 0
	}, game.Hit},
	{"Deviation (RC < 0): Hit A,4 vs 4", func(c countSituation) bool {
		return c.soft && c.total == 15 && c.col == colFour && c.running < 0
	}, game.Hit},
}

// DeviationAction returns the basic strategy play adjusted by the Hi-Lo index
// plays. Hands that basic strategy splits are left to the pair table. The
// result is always a member of available, or Stand when available is empty.
func DeviationAction(hand game.Hand, up deck.Card, available game.ActionSet, r rules.CasinoRules, running int, trueCount float64) Advice {
	basic := OptimalAction(hand, up, available, r)
	if basic == game.Split {
		return Advice{Action: basic}
	}

	c := countSituation{
		situation: newSituation(hand, up, r),
		soft:      hand.IsSoft(),
		running:   running,
		trueCount: trueCount,
	}

	for _, play := range indexPlays {
		if play.Condition(c) && available.Has(play.Action) {
			return Advice{Action: play.Action, IsDeviation: true, Description: play.Description}
		}
	}

	return Advice{Action: basic}
}

// InsuranceDeviation reports whether the count justifies taking insurance.
// Basic strategy never does.
func InsuranceDeviation(trueCount float64) (Advice, bool) {
	if trueCount < insuranceIndex {
		return Advice{}, false
	}
	return Advice{
		Action:      game.Insurance,
		IsDeviation: true,
		Description: "Deviation (TC ≥ +3): Take insurance",
	}, true
}

// BasicAdvice wraps OptimalAction in an Advice
func BasicAdvice(hand game.Hand, up deck.Card, available game.ActionSet, r rules.CasinoRules) Advice {
	return Advice{Action: OptimalAction(hand, up, available, r)}
}
