package deck

import "testing"

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "blackjack",
			input: "AsKh",
			expected: []Card{
				NewCard(Ace, Spades),
				NewCard(King, Hearts),
			},
		},
		{
			name:  "ten uses T",
			input: "Td9c",
			expected: []Card{
				NewCard(Ten, Diamonds),
				NewCard(Nine, Clubs),
			},
		},
		{
			name:  "case insensitive",
			input: "aSkH2d",
			expected: []Card{
				NewCard(Ace, Spades),
				NewCard(King, Hearts),
				NewCard(Two, Diamonds),
			},
		},
		{
			name:    "invalid rank",
			input:   "XsKs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "AsKx",
			wantErr: true,
		},
		{
			name:    "odd length",
			input:   "AsK",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseCards() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !cardsEqual(got, tt.expected) {
				t.Errorf("ParseCards() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParseCards() should panic on invalid input")
		}
	}()
	MustParseCards("invalid")
}

func TestRankValues(t *testing.T) {
	tests := []struct {
		rank      Rank
		base      int
		hiLo      int
		tenValued bool
	}{
		{Two, 2, 1, false},
		{Six, 6, 1, false},
		{Seven, 7, 0, false},
		{Nine, 9, 0, false},
		{Ten, 10, -1, true},
		{Jack, 10, -1, true},
		{Queen, 10, -1, true},
		{King, 10, -1, true},
		{Ace, 11, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.rank.String(), func(t *testing.T) {
			if got := tt.rank.BaseValue(); got != tt.base {
				t.Errorf("BaseValue() = %d, want %d", got, tt.base)
			}
			if got := tt.rank.HiLo(); got != tt.hiLo {
				t.Errorf("HiLo() = %d, want %d", got, tt.hiLo)
			}
			if got := tt.rank.IsTenValue(); got != tt.tenValued {
				t.Errorf("IsTenValue() = %v, want %v", got, tt.tenValued)
			}
		})
	}
}

func TestHiLoBalancedOverDeck(t *testing.T) {
	sum := 0
	for _, suit := range Suits {
		for _, rank := range Ranks {
			sum += NewCard(rank, suit).Rank.HiLo()
		}
	}
	if sum != 0 {
		t.Errorf("Hi-Lo tags over a full deck sum to %d, want 0", sum)
	}
}

func TestFlipReturnsNewCard(t *testing.T) {
	c := NewCard(Queen, Hearts)
	flipped := c.Flip()

	if !c.FaceUp {
		t.Error("Flip() must not modify the receiver")
	}
	if flipped.FaceUp {
		t.Error("Flip() should turn a face-up card face down")
	}
	if flipped.Flip() != c {
		t.Error("double Flip() should restore the card")
	}
}

func cardsEqual(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
