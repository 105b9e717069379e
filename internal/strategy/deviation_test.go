package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

func TestDeviationAction(t *testing.T) {
	tests := []struct {
		name      string
		hand      string
		dealer    deck.Rank
		available game.ActionSet
		running   int
		trueCount float64
		action    game.Action
		deviation bool
	}{
		{"16 vs 10 hit at zero count without surrender", "Th6s", deck.Ten, hitOrStand, 0, 0, game.Hit, true},
		{"16 vs 10 hit at zero count with surrender offered", "Th6s", deck.Ten, allActions, 0, 0, game.Hit, true},
		{"16 vs 10 hit at negative count", "Th6s", deck.Queen, hitOrStand, -1, -0.5, game.Hit, true},
		{"16 vs 10 stand at positive count", "Th6s", deck.Ten, hitOrStand, 2, 1, game.Stand, true},
		{"multi-card 16 vs 10 stand at positive count", "7s5d4h", deck.Ten, hitOrStand, 2, 1, game.Stand, true},
		{"multi-card 16 vs 10 hit at zero count", "5s6d5h", deck.Ten, hitOrStand, 0, 0, game.Hit, true},
		{"16 vs 10 stand unavailable keeps basic", "Th6s", deck.Ten, game.NewActionSet(game.Hit), 3, 1, game.Hit, false},
		{"soft 16 vs 10 is not the index", "As5d", deck.Ten, hitOrStand, 3, 1, game.Hit, false},
		{"eights vs 10 still split", "8s8d", deck.Ten, allActions, 3, 1, game.Split, false},
		{"12 vs 2 stand at TC 3", "Th2s", deck.Two, hitOrStand, 12, 3, game.Stand, true},
		{"12 vs 2 hit below TC 3", "Th2s", deck.Two, hitOrStand, 5, 2.5, game.Hit, false},
		{"12 vs 3 stand at TC 2", "Th2s", deck.Three, hitOrStand, 8, 2, game.Stand, true},
		{"12 vs 3 hit below TC 2", "Th2s", deck.Three, hitOrStand, 3, 1.5, game.Hit, false},
		{"12 vs 4 hit at negative count", "Th2s", deck.Four, hitOrStand, -1, -0.5, game.Hit, true},
		{"12 vs 4 stand at zero count", "Th2s", deck.Four, hitOrStand, 0, 0, game.Stand, false},
		{"A,4 vs 4 hit at negative count", "As4d", deck.Four, allActions, -1, -0.5, game.Hit, true},
		{"A,4 vs 4 double at zero count", "As4d", deck.Four, allActions, 0, 0, game.DoubleDown, false},
		{"hard 15 vs 4 is not the soft index", "Th5d", deck.Four, allActions, -4, -2, game.Stand, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeviationAction(hand(tt.hand), up(tt.dealer), tt.available, rules.Default(), tt.running, tt.trueCount)
			assert.Equal(t, tt.action, got.Action, "got %s", got.Action)
			assert.Equal(t, tt.deviation, got.IsDeviation)
			if tt.deviation {
				assert.Contains(t, got.Description, "Deviation")
			} else {
				assert.Empty(t, got.Description)
			}
		})
	}
}

func TestDeviationActionAlwaysAvailable(t *testing.T) {
	choices := []game.Action{game.Hit, game.Stand, game.DoubleDown, game.Split, game.Surrender}
	counts := []struct {
		running   int
		trueCount float64
	}{{-6, -3}, {0, 0}, {4, 2}, {12, 3.5}}

	for _, r1 := range deck.Ranks {
		for _, r2 := range deck.Ranks {
			h := game.NewHand(10, deck.NewCard(r1, deck.Spades), deck.NewCard(r2, deck.Hearts))
			for _, dealer := range deck.Ranks {
				for mask := range 1 << len(choices) {
					var available game.ActionSet
					for i, a := range choices {
						if mask&(1<<i) != 0 {
							available = available.With(a)
						}
					}
					for _, c := range counts {
						got := DeviationAction(h, up(dealer), available, rules.Default(), c.running, c.trueCount)
						if available.IsEmpty() {
							require.Equal(t, game.Stand, got.Action)
							continue
						}
						if !available.Has(got.Action) {
							t.Fatalf("%s vs %s: %s not in %s", h, dealer, got.Action, available)
						}
					}
				}
			}
		}
	}
}

func TestInsuranceDeviation(t *testing.T) {
	advice, ok := InsuranceDeviation(3)
	require.True(t, ok)
	assert.Equal(t, game.Insurance, advice.Action)
	assert.True(t, advice.IsDeviation)

	_, ok = InsuranceDeviation(2.99)
	assert.False(t, ok)
}
