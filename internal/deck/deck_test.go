package deck

import (
	"errors"
	"testing"

	"github.com/lox/blackjack/internal/randutil"
)

func TestNewShoeComposition(t *testing.T) {
	shoe := NewShoe(6, randutil.New(1))

	if shoe.Total() != 312 {
		t.Fatalf("Total() = %d, want 312", shoe.Total())
	}
	if shoe.Remaining() != 312 {
		t.Fatalf("Remaining() = %d, want 312", shoe.Remaining())
	}
	if shoe.CutPosition() != 78 {
		t.Errorf("CutPosition() = %d, want 78", shoe.CutPosition())
	}

	counts := make(map[Rank]int)
	for shoe.Remaining() > 0 {
		c, err := shoe.Draw()
		if err != nil {
			t.Fatalf("Draw() error = %v", err)
		}
		if !c.FaceUp {
			t.Fatalf("drawn card %v should be face up", c)
		}
		counts[c.Rank]++
	}
	for _, rank := range Ranks {
		if counts[rank] != 24 {
			t.Errorf("rank %v appeared %d times, want 24", rank, counts[rank])
		}
	}
}

func TestShoeDrawEmpty(t *testing.T) {
	shoe := NewStackedShoe(1, randutil.New(1), nil)

	_, err := shoe.Draw()
	if !errors.Is(err, ErrShoeEmpty) {
		t.Errorf("Draw() on empty shoe error = %v, want ErrShoeEmpty", err)
	}
}

func TestShoeDrawMatching(t *testing.T) {
	shoe := NewStackedShoe(1, randutil.New(1), MustParseCards("9s7hAd8c"))

	c, err := shoe.DrawMatching(func(c Card) bool { return c.IsAce() })
	if err != nil {
		t.Fatalf("DrawMatching() error = %v", err)
	}
	if c.Rank != Ace {
		t.Errorf("DrawMatching() = %v, want the ace", c)
	}
	if shoe.Remaining() != 3 {
		t.Errorf("Remaining() = %d, want 3", shoe.Remaining())
	}

	// Order of the remaining cards is preserved
	for _, want := range []Rank{Nine, Seven, Eight} {
		got, _ := shoe.Draw()
		if got.Rank != want {
			t.Errorf("Draw() = %v, want rank %v", got, want)
		}
	}

	_, err = shoe.DrawMatching(func(Card) bool { return true })
	if !errors.Is(err, ErrNoMatchingCard) {
		t.Errorf("DrawMatching() on empty shoe error = %v, want ErrNoMatchingCard", err)
	}
}

func TestShoePenetration(t *testing.T) {
	shoe := NewShoe(2, randutil.New(7))

	if shoe.Penetration() != 0 {
		t.Fatalf("fresh shoe penetration = %f, want 0", shoe.Penetration())
	}

	last := 0.0
	for shoe.Remaining() > 0 {
		if _, err := shoe.Draw(); err != nil {
			t.Fatal(err)
		}
		p := shoe.Penetration()
		if p < last {
			t.Fatalf("penetration decreased from %f to %f", last, p)
		}
		last = p
	}
	if last != 1 {
		t.Errorf("empty shoe penetration = %f, want 1", last)
	}

	shoe.Shuffle()
	if shoe.Penetration() != 0 {
		t.Errorf("penetration after shuffle = %f, want 0", shoe.Penetration())
	}
}

func TestShoeNeedsReshuffle(t *testing.T) {
	shoe := NewShoe(1, randutil.New(3))

	for shoe.Remaining() > shoe.CutPosition()+1 {
		if shoe.NeedsReshuffle() {
			t.Fatalf("NeedsReshuffle() true with %d cards left", shoe.Remaining())
		}
		shoe.Draw()
	}
	shoe.Draw()
	if !shoe.NeedsReshuffle() {
		t.Errorf("NeedsReshuffle() false at the cut card (%d left)", shoe.Remaining())
	}
}

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	a := NewShoe(1, randutil.New(99))
	b := NewShoe(1, randutil.New(99))

	for a.Remaining() > 0 {
		x, _ := a.Draw()
		y, _ := b.Draw()
		if x != y {
			t.Fatalf("seeded shoes diverged: %v vs %v", x, y)
		}
	}
}

func TestShuffleExcludingLeavesOutCardsInPlay(t *testing.T) {
	shoe := NewShoe(1, randutil.New(5))
	inPlay := MustParseCards("AsKh7d")
	shoe.ShuffleExcluding(inPlay)

	if shoe.Remaining() != 49 {
		t.Fatalf("Remaining() = %d, want 49", shoe.Remaining())
	}

	seen := make(map[string]int)
	for _, c := range shoe.Cards() {
		seen[c.String()]++
	}
	for _, c := range inPlay {
		if seen[c.String()] != 0 {
			t.Errorf("%v is on the table and in the shoe", c)
		}
	}
	for key, n := range seen {
		if n != 1 {
			t.Errorf("%s appears %d times in a one-deck shoe", key, n)
		}
	}
}

func TestShoeCardsIsACopy(t *testing.T) {
	shoe := NewStackedShoe(1, randutil.New(1), MustParseCards("Th6h"))
	cards := shoe.Cards()
	cards[0] = NewCard(Two, Clubs)

	top, _ := shoe.Peek()
	if top.Rank != Ten {
		t.Errorf("Peek() = %v after mutating Cards(), want Th", top)
	}
}
