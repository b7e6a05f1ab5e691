package deck

import "testing"

func TestCardValue(t *testing.T) {
	tests := []struct {
		card Card
		want int
	}{
		{NewCard(Spades, Two), 2},
		{NewCard(Hearts, Nine), 9},
		{NewCard(Clubs, Ten), 10},
		{NewCard(Diamonds, Jack), 10},
		{NewCard(Spades, Queen), 10},
		{NewCard(Hearts, King), 10},
		{NewCard(Clubs, Ace), 11},
	}

	for _, tt := range tests {
		if got := tt.card.Value(); got != tt.want {
			t.Errorf("%s.Value() = %d, want %d", tt.card, got, tt.want)
		}
	}
}

func TestCardTenValue(t *testing.T) {
	tenValue := []Rank{Ten, Jack, Queen, King}
	for _, rank := range tenValue {
		if !NewCard(Spades, rank).IsTenValue() {
			t.Errorf("expected %s to be ten-valued", rank)
		}
	}

	notTenValue := []Rank{Two, Nine, Ace}
	for _, rank := range notTenValue {
		if NewCard(Spades, rank).IsTenValue() {
			t.Errorf("expected %s not to be ten-valued", rank)
		}
	}
}

func TestCardString(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{NewCard(Spades, Ace), "A♠"},
		{NewCard(Hearts, Ten), "T♥"},
		{NewCard(Diamonds, Two), "2♦"},
		{NewCard(Clubs, King), "K♣"},
	}

	for _, tt := range tests {
		if got := tt.card.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCardIsRed(t *testing.T) {
	if !NewCard(Hearts, Five).IsRed() {
		t.Error("hearts should be red")
	}
	if !NewCard(Diamonds, Five).IsRed() {
		t.Error("diamonds should be red")
	}
	if NewCard(Spades, Five).IsRed() {
		t.Error("spades should not be red")
	}
	if NewCard(Clubs, Five).IsRed() {
		t.Error("clubs should not be red")
	}
}

func TestParseRoundTrip(t *testing.T) {
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			card := NewCard(suit, rank)
			parsed, err := Parse(card.String())
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", card.String(), err)
			}
			if parsed != card {
				t.Errorf("Parse(%q) = %v, want %v", card.String(), parsed, card)
			}
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{"", "A", "A♠♠", "1♠", "Ax", "10♥"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) should fail", s)
		}
	}
}
