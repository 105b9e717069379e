// Package rules describes the table conditions a blackjack game is played
// under. CasinoRules is a plain value; the engine reads it and never writes it.
package rules

import (
	"fmt"
	"strings"
)

// BlackjackPayout is the ratio paid on a natural
type BlackjackPayout int

const (
	ThreeToTwo BlackjackPayout = iota
	SixToFive
)

// Ratio returns the payout as numerator and denominator so settlement can
// stay in integer chips.
func (p BlackjackPayout) Ratio() (num, den int) {
	switch p {
	case SixToFive:
		return 6, 5
	default:
		return 3, 2
	}
}

// Multiplier returns the payout ratio as a float for display
func (p BlackjackPayout) Multiplier() float64 {
	num, den := p.Ratio()
	return float64(num) / float64(den)
}

// String returns the conventional "3:2" notation
func (p BlackjackPayout) String() string {
	num, den := p.Ratio()
	return fmt.Sprintf("%d:%d", num, den)
}

// ParseBlackjackPayout accepts "3:2" or "6:5"
func ParseBlackjackPayout(s string) (BlackjackPayout, error) {
	switch strings.TrimSpace(s) {
	case "3:2", "":
		return ThreeToTwo, nil
	case "6:5":
		return SixToFive, nil
	default:
		return ThreeToTwo, fmt.Errorf("unknown blackjack payout %q", s)
	}
}

// SurrenderPolicy controls whether a player may forfeit half the bet
type SurrenderPolicy int

const (
	SurrenderNone SurrenderPolicy = iota
	SurrenderLate
	SurrenderEarly
)

// String returns the display name of the policy
func (s SurrenderPolicy) String() string {
	switch s {
	case SurrenderLate:
		return "Late Surrender"
	case SurrenderEarly:
		return "Early Surrender"
	default:
		return "No Surrender"
	}
}

// ParseSurrenderPolicy accepts "none", "late" or "early"
func ParseSurrenderPolicy(s string) (SurrenderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return SurrenderNone, nil
	case "late":
		return SurrenderLate, nil
	case "early":
		return SurrenderEarly, nil
	default:
		return SurrenderNone, fmt.Errorf("unknown surrender policy %q", s)
	}
}

// CasinoRules is the complete rule set for a game
type CasinoRules struct {
	Decks                int
	DealerStandsOnSoft17 bool
	DealerPeeks          bool
	BlackjackPayout      BlackjackPayout
	Surrender            SurrenderPolicy
	DoubleAfterSplit     bool
	ResplitAces          bool
	MaxSplitHands        int
	HitSplitAces         bool
	DoubleOnAnyTwo       bool
	InsuranceAvailable   bool
	ThreeSevensBonus     bool

	InitialChips int
	MinimumBet   int
	MaximumBet   int

	// Training mode forces the player's starting hand type and reshuffles
	// every round.
	TrainSoftHands   bool
	TrainPairedHands bool

	// ExtraPlayers are basic-strategy seats that only deplete the shoe
	ExtraPlayers int
}

// Default returns the standard 6-deck S17 peek game with DAS and 3:2
func Default() CasinoRules {
	return CasinoRules{
		Decks:                6,
		DealerStandsOnSoft17: true,
		DealerPeeks:          true,
		BlackjackPayout:      ThreeToTwo,
		Surrender:            SurrenderNone,
		DoubleAfterSplit:     true,
		ResplitAces:          false,
		MaxSplitHands:        4,
		HitSplitAces:         false,
		DoubleOnAnyTwo:       true,
		InsuranceAvailable:   true,
		ThreeSevensBonus:     false,
		InitialChips:         1000,
		MinimumBet:           10,
		MaximumBet:           500,
	}
}

// IsTrainingMode reports whether forced deals are enabled
func (r CasinoRules) IsTrainingMode() bool {
	return r.TrainSoftHands || r.TrainPairedHands
}

// IsH17 reports whether the dealer hits soft 17
func (r CasinoRules) IsH17() bool {
	return !r.DealerStandsOnSoft17
}

// IsENHC reports the European no-hole-card game, where the dealer never peeks
func (r CasinoRules) IsENHC() bool {
	return !r.DealerPeeks
}

// SurrenderAllowed reports whether any form of surrender is offered
func (r CasinoRules) SurrenderAllowed() bool {
	return r.Surrender != SurrenderNone
}

// Clamped returns a copy with the adjustable settings pulled into the ranges
// the settings screen allows: 1-8 decks, 2-4 split hands, 0-6 extra seats.
func (r CasinoRules) Clamped() CasinoRules {
	r.Decks = clamp(r.Decks, 1, 8)
	r.MaxSplitHands = clamp(r.MaxSplitHands, 2, 4)
	r.ExtraPlayers = clamp(r.ExtraPlayers, 0, 6)
	return r
}

// Validate checks the rules are playable
func (r CasinoRules) Validate() error {
	if r.Decks < 1 || r.Decks > 8 {
		return fmt.Errorf("decks must be between 1 and 8, got %d", r.Decks)
	}
	if r.MaxSplitHands < 2 || r.MaxSplitHands > 4 {
		return fmt.Errorf("max split hands must be between 2 and 4, got %d", r.MaxSplitHands)
	}
	if r.MinimumBet <= 0 {
		return fmt.Errorf("minimum bet must be positive, got %d", r.MinimumBet)
	}
	if r.MaximumBet < r.MinimumBet {
		return fmt.Errorf("maximum bet %d is below minimum bet %d", r.MaximumBet, r.MinimumBet)
	}
	if r.InitialChips < r.MinimumBet {
		return fmt.Errorf("initial chips %d cannot cover the minimum bet %d", r.InitialChips, r.MinimumBet)
	}
	if r.ExtraPlayers < 0 || r.ExtraPlayers > 6 {
		return fmt.Errorf("extra players must be between 0 and 6, got %d", r.ExtraPlayers)
	}
	return nil
}

// Summary returns a one-line description such as "6D S17 DAS 3:2 LS"
func (r CasinoRules) Summary() string {
	parts := []string{fmt.Sprintf("%dD", r.Decks)}
	if r.DealerStandsOnSoft17 {
		parts = append(parts, "S17")
	} else {
		parts = append(parts, "H17")
	}
	if !r.DealerPeeks {
		parts = append(parts, "ENHC")
	}
	if r.DoubleAfterSplit {
		parts = append(parts, "DAS")
	}
	parts = append(parts, r.BlackjackPayout.String())
	switch r.Surrender {
	case SurrenderLate:
		parts = append(parts, "LS")
	case SurrenderEarly:
		parts = append(parts, "ES")
	}
	if r.ResplitAces {
		parts = append(parts, "RSA")
	}
	return strings.Join(parts, " ")
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
