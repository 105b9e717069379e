// Package strategy implements blackjack basic strategy for 4-8 deck shoes,
// the Hi-Lo index plays layered on top of it, and the chart and coaching
// helpers built from the same tables.
//
// The tables are plain data: rows keyed by player total, columns keyed by
// dealer up card. Rule variants (H17, no hole card) are ordered lists of named
// overrides consulted before the table, the first match winning.
package strategy

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

// Dealer columns: 2 through 9, then ten-value, then ace.
const (
	colTwo   = 0
	colThree = 1
	colFour  = 2
	colSix   = 4
	colTen   = 8
	colAce   = 9

	numColumns = 10
)

// Column maps a dealer up card to its table column
func Column(up deck.Card) int {
	switch {
	case up.Rank.IsAce():
		return colAce
	case up.Rank.IsTenValue():
		return colTen
	default:
		return int(up.Rank) - int(deck.Two)
	}
}

type row [numColumns]Cell

const (
	hardMin, hardMax = 5, 20
	softMin, softMax = 13, 20
)

// Hard totals 5 through 20.
var hardTable = [hardMax - hardMin + 1]row{
	//  2  3  4  5  6  7  8  9  T   A
	{H, H, H, H, H, H, H, H, H, H},      // 5
	{H, H, H, H, H, H, H, H, H, H},      // 6
	{H, H, H, H, H, H, H, H, H, H},      // 7
	{H, H, H, H, H, H, H, H, H, H},      // 8
	{H, D, D, D, D, H, H, H, H, H},      // 9
	{D, D, D, D, D, D, D, D, H, H},      // 10
	{D, D, D, D, D, D, D, D, D, H},      // 11
	{H, H, S, S, S, H, H, H, H, H},      // 12
	{S, S, S, S, S, H, H, H, H, H},      // 13
	{S, S, S, S, S, H, H, H, H, H},      // 14
	{S, S, S, S, S, H, H, H, Rh, H},     // 15
	{S, S, S, S, S, H, H, Rh, Rh, Rh},   // 16
	{S, S, S, S, S, S, S, S, S, S},      // 17
	{S, S, S, S, S, S, S, S, S, S},      // 18
	{S, S, S, S, S, S, S, S, S, S},      // 19
	{S, S, S, S, S, S, S, S, S, S},      // 20
}

// Soft totals 13 (A,2) through 20 (A,9).
var softTable = [softMax - softMin + 1]row{
	//  2   3   4   5   6   7  8  9  T  A
	{H, H, H, D, D, H, H, H, H, H},      // A,2
	{H, H, H, D, D, H, H, H, H, H},      // A,3
	{H, H, D, D, D, H, H, H, H, H},      // A,4
	{H, H, D, D, D, H, H, H, H, H},      // A,5
	{H, D, D, D, D, H, H, H, H, H},      // A,6
	{Ds, Ds, Ds, Ds, Ds, S, S, H, H, H}, // A,7
	{S, S, S, S, Ds, S, S, S, S, S},     // A,8
	{S, S, S, S, S, S, S, S, S, S},      // A,9
}

// Pairs by card value, 2,2 through A,A. Fives have no entry and play as
// hard 10.
var pairTableDAS = [10]row{
	//  2  3  4  5  6  7  8  9  T  A
	{P, P, P, P, P, P, H, H, H, H},      // 2,2
	{P, P, P, P, P, P, H, H, H, H},      // 3,3
	{H, H, H, P, P, H, H, H, H, H},      // 4,4
	{},                                  // 5,5
	{P, P, P, P, P, H, H, H, H, H},      // 6,6
	{P, P, P, P, P, P, H, H, H, H},      // 7,7
	{P, P, P, P, P, P, P, P, P, P},      // 8,8
	{P, P, P, P, P, S, P, P, S, S},      // 9,9
	{S, S, S, S, S, S, S, S, S, S},      // 10,10
	{P, P, P, P, P, P, P, P, P, P},      // A,A
}

var pairTableNoDAS = [10]row{
	//  2  3  4  5  6  7  8  9  T  A
	{H, H, P, P, P, P, H, H, H, H},      // 2,2
	{H, H, P, P, P, P, H, H, H, H},      // 3,3
	{H, H, H, H, H, H, H, H, H, H},      // 4,4
	{},                                  // 5,5
	{H, P, P, P, P, H, H, H, H, H},      // 6,6
	{P, P, P, P, P, P, H, H, H, H},      // 7,7
	{P, P, P, P, P, P, P, P, P, P},      // 8,8
	{P, P, P, P, P, S, P, P, S, S},      // 9,9
	{S, S, S, S, S, S, S, S, S, S},      // 10,10
	{P, P, P, P, P, P, P, P, P, P},      // A,A
}

// situation is everything the tables and overrides look at
type situation struct {
	total int
	pair  int // card value of a two-card pair, 0 otherwise
	col   int
	cards int
	rules rules.CasinoRules
}

func newSituation(hand game.Hand, up deck.Card, r rules.CasinoRules) situation {
	s := situation{
		total: hand.Score(),
		col:   Column(up),
		cards: len(hand.Cards),
		rules: r,
	}
	if hand.IsPair() {
		s.pair = hand.Cards[0].Rank.BaseValue()
	}
	return s
}

// override replaces a table cell when its condition holds
type override struct {
	Name      string
	Condition func(situation) bool
	Cell      Cell
}

var hardOverrides = []override{
	{"H17: double 11 vs A", func(s situation) bool { return s.rules.IsH17() && s.total == 11 && s.col == colAce }, D},
	{"H17: surrender 17 vs A", func(s situation) bool { return s.rules.IsH17() && s.total == 17 && s.col == colAce }, Rs},
	{"H17: surrender 15 vs A", func(s situation) bool { return s.rules.IsH17() && s.total == 15 && s.col == colAce }, Rh},
	{"ENHC: hit 11 vs 10", func(s situation) bool { return s.rules.IsENHC() && s.total == 11 && s.col == colTen }, H},
	{"ENHC: surrender 14 vs 10", func(s situation) bool { return s.rules.IsENHC() && s.total == 14 && s.col == colTen }, Rh},
	{"ENHC: stand multi-card 16 vs 10", func(s situation) bool {
		return s.rules.IsENHC() && s.total == 16 && s.col == colTen && s.cards >= 3
	}, S},
	{"ENHC: hit 16 vs A", func(s situation) bool { return s.rules.IsENHC() && s.total == 16 && s.col == colAce }, H},
}

var softOverrides = []override{
	{"ENHC: stand soft 18 vs 2", func(s situation) bool { return s.rules.IsENHC() && s.total == 18 && s.col == colTwo }, S},
	{"ENHC: stand soft 19 vs 6", func(s situation) bool { return s.rules.IsENHC() && s.total == 19 && s.col == colSix }, S},
}

var pairOverrides = []override{
	{"ENHC: hit aces vs A", func(s situation) bool { return s.rules.IsENHC() && s.pair == 11 && s.col == colAce }, H},
	{"ENHC: surrender eights vs 10", func(s situation) bool { return s.rules.IsENHC() && s.pair == 8 && s.col == colTen }, Rh},
	{"ENHC: hit eights vs A", func(s situation) bool { return s.rules.IsENHC() && s.pair == 8 && s.col == colAce }, H},
	{"H17: surrender eights vs A", func(s situation) bool { return s.rules.IsH17() && s.pair == 8 && s.col == colAce }, Rp},
}

func firstOverride(overrides []override, s situation) (Cell, bool) {
	for _, o := range overrides {
		if o.Condition(s) {
			return o.Cell, true
		}
	}
	return none, false
}

func hardCell(s situation) Cell {
	if c, ok := firstOverride(hardOverrides, s); ok {
		return c
	}
	switch {
	case s.total < hardMin:
		return H
	case s.total > hardMax:
		return S
	}
	return hardTable[s.total-hardMin][s.col]
}

func softCell(s situation) Cell {
	if c, ok := firstOverride(softOverrides, s); ok {
		return c
	}
	return softTable[s.total-softMin][s.col]
}

func pairCell(s situation) Cell {
	if c, ok := firstOverride(pairOverrides, s); ok {
		return c
	}
	table := &pairTableNoDAS
	if s.rules.DoubleAfterSplit {
		table = &pairTableDAS
	}
	return table[s.pair-2][s.col]
}

// OptimalAction returns the basic strategy play for hand against the dealer
// up card. The result is always a member of available, or Stand when
// available is empty.
func OptimalAction(hand game.Hand, up deck.Card, available game.ActionSet, r rules.CasinoRules) game.Action {
	if available.IsEmpty() {
		return game.Stand
	}

	s := newSituation(hand, up, r)

	if s.pair != 0 {
		if a, ok := pairCell(s).Resolve(available); ok {
			return a
		}
	}

	if hand.IsSoft() && s.total >= softMin && s.total <= softMax {
		if a, ok := softCell(s).Resolve(available); ok {
			return a
		}
	}

	if a, ok := hardCell(s).Resolve(available); ok {
		return a
	}

	return fallback(available)
}

// fallback is used when every tier's chain is exhausted, e.g. a split ace
// hand that may only stand.
func fallback(available game.ActionSet) game.Action {
	if available.Has(game.Stand) || available.IsEmpty() {
		return game.Stand
	}
	return available.Actions()[0]
}
