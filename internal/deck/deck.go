package deck

import (
	"errors"
	rand "math/rand/v2"
)

// CardsPerDeck is the size of one standard deck
const CardsPerDeck = 52

// cutFraction is the share of the shoe left behind the cut card
const cutFraction = 0.25

var (
	// ErrShoeEmpty is returned when drawing from a shoe with no cards left
	ErrShoeEmpty = errors.New("shoe is empty")
	// ErrNoMatchingCard is returned when DrawMatching finds no eligible card
	ErrNoMatchingCard = errors.New("no matching card in shoe")
)

// Shoe holds one or more decks of cards dealt from the top. It is owned by a
// single table and is not safe for concurrent use.
type Shoe struct {
	decks int
	cards []Card
	cut   int
	rng   *rand.Rand
}

// NewShoe creates a shuffled shoe of the given number of decks. The RNG is
// required so that shuffles are reproducible in tests.
func NewShoe(decks int, rng *rand.Rand) *Shoe {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	if decks < 1 {
		decks = 1
	}
	s := &Shoe{
		decks: decks,
		cards: make([]Card, 0, decks*CardsPerDeck),
		rng:   rng,
	}
	s.Shuffle()
	return s
}

// NewStackedShoe creates a shoe whose draw order is exactly cards. The cut
// card sits at the bottom until the next Shuffle, which rebuilds full decks.
// Used to script deals in tests.
func NewStackedShoe(decks int, rng *rand.Rand, cards []Card) *Shoe {
	s := NewShoe(decks, rng)
	s.cards = append(s.cards[:0], cards...)
	s.cut = 0
	return s
}

// Shuffle rebuilds every rank×suit×deck combination, randomizes the order
// and places the cut card.
func (s *Shoe) Shuffle() {
	s.cards = s.cards[:0]
	for range s.decks {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				s.cards = append(s.cards, NewCard(rank, suit))
			}
		}
	}
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
	s.cut = int(float64(s.Total()) * cutFraction)
}

// ShuffleExcluding rebuilds the shoe like Shuffle, leaving out one copy of
// each card in inPlay. Used when the shoe runs out mid-round so the cards
// still on the table are not dealt a second time.
func (s *Shoe) ShuffleExcluding(inPlay []Card) {
	s.Shuffle()
	for _, c := range inPlay {
		for i, sc := range s.cards {
			if sc.Rank == c.Rank && sc.Suit == c.Suit {
				s.cards = append(s.cards[:i], s.cards[i+1:]...)
				break
			}
		}
	}
}

// Cards returns a copy of the undealt cards in draw order
func (s *Shoe) Cards() []Card {
	return append([]Card(nil), s.cards...)
}

// Draw removes and returns the top card
func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrShoeEmpty
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card, nil
}

// DrawMatching removes and returns the first card satisfying match
func (s *Shoe) DrawMatching(match func(Card) bool) (Card, error) {
	for i, c := range s.cards {
		if match(c) {
			s.cards = append(s.cards[:i:i], s.cards[i+1:]...)
			return c, nil
		}
	}
	return Card{}, ErrNoMatchingCard
}

// Peek returns the top card without removing it
func (s *Shoe) Peek() (Card, bool) {
	if len(s.cards) == 0 {
		return Card{}, false
	}
	return s.cards[0], true
}

// NeedsReshuffle reports whether the cut card has been reached
func (s *Shoe) NeedsReshuffle() bool {
	return len(s.cards) <= s.cut
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Total returns the size of a full shoe
func (s *Shoe) Total() int {
	return s.decks * CardsPerDeck
}

// Decks returns the number of decks in the shoe
func (s *Shoe) Decks() int {
	return s.decks
}

// CutPosition returns the number of cards behind the cut card
func (s *Shoe) CutPosition() int {
	return s.cut
}

// Penetration returns the fraction of the shoe already dealt
func (s *Shoe) Penetration() float64 {
	return 1 - float64(len(s.cards))/float64(s.Total())
}
