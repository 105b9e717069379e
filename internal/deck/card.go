package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in shoe-building order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank from Two to Ace
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Two:
		return "2"
	case Three:
		return "3"
	case Four:
		return "4"
	case Five:
		return "5"
	case Six:
		return "6"
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// BaseValue returns the blackjack value of the rank. Face cards are worth 10
// and aces 11; hand scoring decides when an ace drops to 1.
func (r Rank) BaseValue() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

// IsAce returns true for the ace
func (r Rank) IsAce() bool {
	return r == Ace
}

// IsTenValue returns true for 10, J, Q and K
func (r Rank) IsTenValue() bool {
	return r >= Ten && r <= King
}

// HiLo returns the Hi-Lo count tag of the rank: +1 for 2-6, 0 for 7-9 and
// -1 for tens and aces.
func (r Rank) HiLo() int {
	switch {
	case r >= Two && r <= Six:
		return 1
	case r >= Seven && r <= Nine:
		return 0
	default:
		return -1
	}
}

// Card represents a playing card. Cards are values; Flip returns a copy.
type Card struct {
	Rank   Rank
	Suit   Suit
	FaceUp bool
}

// NewCard creates a new face-up card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit, FaceUp: true}
}

// Flip returns a copy of the card with FaceUp inverted
func (c Card) Flip() Card {
	c.FaceUp = !c.FaceUp
	return c
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// ParseCard parses a two-character card such as "As", "Th" or "7d". Ranks
// accept 2-9, T, J, Q, K, A; suits accept s, h, d, c. Case is ignored.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q: want two characters", s)
	}
	s = strings.ToUpper(s)

	var rank Rank
	switch r := s[0]; {
	case r >= '2' && r <= '9':
		rank = Rank(r - '0')
	case r == 'T':
		rank = Ten
	case r == 'J':
		rank = Jack
	case r == 'Q':
		rank = Queen
	case r == 'K':
		rank = King
	case r == 'A':
		rank = Ace
	default:
		return Card{}, fmt.Errorf("invalid rank %q in card %q", r, s)
	}

	var suit Suit
	switch s[1] {
	case 'S':
		suit = Spades
	case 'H':
		suit = Hearts
	case 'D':
		suit = Diamonds
	case 'C':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit %q in card %q", s[1], s)
	}

	return NewCard(rank, suit), nil
}

// ParseCards parses a run of two-character cards ("AsKh7d").
func ParseCards(s string) ([]Card, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string %q: odd length", s)
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for tests and fixtures; it panics on error.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
