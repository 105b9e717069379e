package table

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
	"github.com/lox/blackjack/internal/strategy"
)

// Snapshot is a read-only copy of the table state. Nothing in it aliases the
// table, so it can be handed to another goroutine.
type Snapshot struct {
	RoundID string
	Phase   Phase
	Rules   rules.CasinoRules

	Hands      []game.Hand
	ActiveHand int
	// Dealer holds the hole card as a zero, face-down Card until it is
	// revealed
	Dealer          game.Hand
	HoleCardVisible bool
	DealerScore     int
	ExtraHands      []game.Hand

	Chips        int
	Bet          int
	InsuranceBet int
	Available    game.ActionSet

	Results     []game.Result
	Payouts     []int
	RoundPayout int
	Message     string

	RunningCount   int
	TrueCount      float64
	Penetration    float64
	CardsRemaining int

	CoachEnabled      bool
	DeviationsEnabled bool
	ShowCount         bool
	// Advice is set during the player's turn while the coach is on
	Advice        *strategy.Advice
	CoachFeedback string
	CoachCorrect  int
	CoachTotal    int

	// HandsPlayed counts rounds; HandsWon counts winning hands, including
	// each winning split hand
	HandsPlayed  int
	HandsWon     int
	PendingSteps int
}

// ActiveHandState returns the hand being played, if any
func (s Snapshot) ActiveHandState() (game.Hand, bool) {
	if s.ActiveHand < 0 || s.ActiveHand >= len(s.Hands) {
		return game.Hand{}, false
	}
	return s.Hands[s.ActiveHand], true
}

// Snapshot returns a deep copy of the current state
func (t *Table) Snapshot() Snapshot {
	s := Snapshot{
		RoundID:           t.roundID,
		Phase:             t.phase,
		Rules:             t.rules,
		Hands:             cloneHands(t.hands),
		ActiveHand:        t.active,
		Dealer:            t.visibleDealer(),
		HoleCardVisible:   t.holeVisible,
		DealerScore:       t.visibleDealerScore(),
		ExtraHands:        cloneHands(t.extras),
		Chips:             t.chips,
		Bet:               t.bet,
		InsuranceBet:      t.insuranceBet,
		Available:         t.available,
		Results:           append([]game.Result(nil), t.results...),
		Payouts:           append([]int(nil), t.payouts...),
		RoundPayout:       t.roundPayout,
		Message:           t.message,
		RunningCount:      t.counter.Running(),
		TrueCount:         t.trueCount(),
		Penetration:       t.shoe.Penetration(),
		CardsRemaining:    t.shoe.Remaining(),
		CoachEnabled:      t.coachEnabled,
		DeviationsEnabled: t.deviationsEnabled,
		ShowCount:         t.showCount,
		CoachFeedback:     t.coachFeedback,
		CoachCorrect:      t.coachCorrect,
		CoachTotal:        t.coachTotal,
		HandsPlayed:       t.handsPlayed,
		HandsWon:          t.handsWon,
		PendingSteps:      len(t.steps),
	}

	if t.coachEnabled && t.phase == PhasePlayerTurn && len(t.steps) == 0 {
		advice := t.advice()
		s.Advice = &advice
	}
	return s
}

// visibleDealer copies the dealer's hand with a face-down hole card blanked
// out, so nothing reading a snapshot can learn it early
func (t *Table) visibleDealer() game.Hand {
	dealer := t.dealer.Clone()
	for i, c := range dealer.Cards {
		if !c.FaceUp {
			dealer.Cards[i] = deck.Card{}
		}
	}
	return dealer
}

// visibleDealerScore scores only the face-up dealer cards
func (t *Table) visibleDealerScore() int {
	if t.holeVisible {
		return t.dealer.Score()
	}
	visible := game.Hand{}
	for _, c := range t.dealer.Cards {
		if c.FaceUp {
			visible = visible.AddCard(c)
		}
	}
	return visible.Score()
}

func cloneHands(hands []game.Hand) []game.Hand {
	if hands == nil {
		return nil
	}
	out := make([]game.Hand, len(hands))
	for i, h := range hands {
		out[i] = h.Clone()
	}
	return out
}
