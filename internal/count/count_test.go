package count

import (
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
)

func TestCounterObserve(t *testing.T) {
	var c Counter
	for _, card := range deck.MustParseCards("2h6sTdAc8h") {
		c.Observe(card)
	}
	// +1 +1 -1 -1 0
	assert.Equal(t, 0, c.Running())

	c.Observe(deck.NewCard(deck.Five, deck.Clubs))
	assert.Equal(t, 1, c.Running())
}

func TestCounterHoldDefersUntilReveal(t *testing.T) {
	var c Counter
	c.Observe(deck.NewCard(deck.Four, deck.Spades))
	c.Hold(deck.NewCard(deck.Three, deck.Hearts))

	assert.True(t, c.Holding())
	assert.Equal(t, 1, c.Running(), "held card must not be counted yet")

	c.RevealHeld()
	assert.False(t, c.Holding())
	assert.Equal(t, 2, c.Running())

	// A second reveal has nothing left to add
	c.RevealHeld()
	assert.Equal(t, 2, c.Running())
}

func TestCounterReset(t *testing.T) {
	var c Counter
	c.Observe(deck.NewCard(deck.Two, deck.Spades))
	c.Hold(deck.NewCard(deck.Two, deck.Hearts))
	c.Reset()

	assert.Equal(t, 0, c.Running())
	assert.False(t, c.Holding())
	c.RevealHeld()
	assert.Equal(t, 0, c.Running())
}

func TestTrueCount(t *testing.T) {
	tests := []struct {
		name      string
		running   int
		remaining int
		want      float64
	}{
		{"six decks left", 6, 312, 1},
		{"two decks left", 6, 104, 3},
		{"half deck floor", 3, 26, 6},
		{"below half deck uses floor", 3, 5, 6},
		{"empty shoe uses floor", -2, 0, -4},
		{"zero running", 0, 150, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TrueCount(tt.running, tt.remaining), 1e-9)
		})
	}
}
