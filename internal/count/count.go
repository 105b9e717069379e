// Package count tracks the Hi-Lo running count of cards seen since the last
// shuffle.
//
// Face-up cards are counted the moment they are observed. A dealer hole card
// is held back and only enters the count when it is revealed, either by the
// dealer turning it over or by the round resolving first.
package count

import "github.com/lox/blackjack/internal/deck"

// minDecksRemaining bounds the true-count divisor so the last half deck does
// not inflate the count.
const minDecksRemaining = 0.5

// Counter is a Hi-Lo counter. The zero value is ready to use.
type Counter struct {
	running int
	held    int
	holding bool
}

// Observe adds a visible card to the running count
func (c *Counter) Observe(card deck.Card) {
	c.running += card.Rank.HiLo()
}

// Hold records a dealt but hidden card. Its tag is added by RevealHeld.
func (c *Counter) Hold(card deck.Card) {
	c.held += card.Rank.HiLo()
	c.holding = true
}

// RevealHeld adds any held cards to the running count. Calling it with
// nothing held is a no-op.
func (c *Counter) RevealHeld() {
	c.running += c.held
	c.held = 0
	c.holding = false
}

// Holding reports whether a hidden card is waiting to be counted
func (c *Counter) Holding() bool {
	return c.holding
}

// Reset clears the count after a shuffle
func (c *Counter) Reset() {
	*c = Counter{}
}

// Running returns the running count
func (c *Counter) Running() int {
	return c.running
}

// True returns the running count divided by the decks left in the shoe
func (c *Counter) True(cardsRemaining int) float64 {
	return TrueCount(c.running, cardsRemaining)
}

// TrueCount normalizes a running count by decks remaining, never dividing by
// less than half a deck.
func TrueCount(running, cardsRemaining int) float64 {
	decks := max(float64(cardsRemaining)/deck.CardsPerDeck, minDecksRemaining)
	return float64(running) / decks
}
