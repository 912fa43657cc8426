package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
		found    bool
	}{
		{"million suffix", "$1.65 million for youth programs", "1650000", true},
		{"bare number", "allocated 450 places", "450", true},
		{"comma separators", "total of $1,234,567", "1234567", true},
		{"thousand suffix", "$450 thousand", "450000", true},
		{"short m suffix", "$85.3m", "85300000", true},
		{"billion suffix", "$2.1 billion", "2100000000", true},
		{"largest wins", "up from $500 thousand to $5 million", "5000000", true},
		{"magnitude binds adjacent token only", "$3 million over 450 weeks", "3000000", true},
		{"no numbers", "no figures were published", "0", false},
		{"empty", "", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Parse(tt.fragment)
			if found != tt.found {
				t.Fatalf("expected found=%v, got %v", tt.found, found)
			}
			if !found {
				return
			}
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("expected %s, got %s", want, got)
			}
		})
	}
}

func TestParse_MagnitudeNotBorrowedFromWords(t *testing.T) {
	// "m" in "months" must not act as a million multiplier.
	got, found := Parse("over 18 months")
	if !found {
		t.Fatal("expected a parse")
	}
	if !got.Equal(decimal.NewFromInt(18)) {
		t.Errorf("expected 18, got %s", got)
	}
}

func TestNormalize(t *testing.T) {
	got, ok := Normalize("12,500", "thousand")
	if !ok {
		t.Fatal("expected ok")
	}
	if !got.Equal(decimal.NewFromInt(12_500_000)) {
		t.Errorf("expected 12500000, got %s", got)
	}

	if _, ok := Normalize("not-a-number", ""); ok {
		t.Error("expected failure for non-numeric mantissa")
	}
}
