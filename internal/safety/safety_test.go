package safety

import (
	"strings"
	"testing"
)

func TestClassifyRestrictionDominance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		function     string
		restrictions string
	}{
		{"restriction with beneficial functions", "ANTIOXIDANT, UV FILTER", "Annex III"},
		{"restriction with empty function", "", "V"},
		{"restriction without annex reference", "SKIN CONDITIONING", "max 0.5% in rinse-off products"},
		{"restriction padded with whitespace", "MOISTURISING", "  Annex II  "},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.function, tt.restrictions); got != RatingHarmful {
				t.Fatalf("Classify(%q, %q) = %q, want %q", tt.function, tt.restrictions, got, RatingHarmful)
			}
		})
	}
}

func TestClassifyFunctionRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		function string
		want     Rating
	}{
		{"empty input", "", RatingNeutral},
		{"whitespace only", "   ", RatingNeutral},
		{"delimiters only", ",;/|", RatingNeutral},
		{"all beneficial", "ANTIOXIDANT, UV FILTER", RatingBeneficial},
		{"single beneficial", "SOOTHING", RatingBeneficial},
		{"single non-beneficial", "FOAMING", RatingNeutral},
		{"exactly half is beneficial", "ANTIOXIDANT, FOAMING", RatingBeneficial},
		{"below half", "ANTIOXIDANT, FOAMING, FRAGRANCE", RatingNeutral},
		{"mixed delimiters", "SOOTHING; UV FILTER/EMOLLIENT | SOLVENT", RatingBeneficial},
		{"lowercase input is normalized", "antioxidant, moisturising", RatingBeneficial},
		{"padded tokens are trimmed", "  SKIN CONDITIONING ,  SKIN PROTECTING  ", RatingBeneficial},
		{"duplicates are kept in the count", "FOAMING, FOAMING, ANTIOXIDANT", RatingNeutral},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.function, ""); got != tt.want {
				t.Fatalf("Classify(%q, \"\") = %q, want %q", tt.function, got, tt.want)
			}
		})
	}
}

func TestDescribeRestrictions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		restrictions string
		want         string
	}{
		{"empty input", "", ""},
		{"whitespace only", "   ", ""},
		{"no numeral", "max 0.5% in rinse-off products", ""},
		{"annex three", "Annex III", "restricted-concentration conditional use"},
		{"annex two", "II", "prohibited substance"},
		{"annex five", "listed in V only", "approved preservative with concentration limits"},
		{"annex six", "VI/25", "approved UV filter with usage conditions"},
		{
			"multiple annexes join in table order",
			"Annex III, IV",
			"restricted-concentration conditional use; approved colorant with conditions",
		},
		{
			"order in text does not matter",
			"see IV before III",
			"restricted-concentration conditional use; approved colorant with conditions",
		},
		{"duplicates collapse", "III and III again", "restricted-concentration conditional use"},
		{"numeral one has no annex entry", "Annex I", ""},
		{"lowercase numerals do not match", "annex iii", ""},
		{"numeral embedded in word does not match", "VII is out of range, so is XIV", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DescribeRestrictions(tt.restrictions); got != tt.want {
				t.Fatalf("DescribeRestrictions(%q) = %q, want %q", tt.restrictions, got, tt.want)
			}
		})
	}
}

func TestDescribeRestrictionsJoinsWithSemicolon(t *testing.T) {
	t.Parallel()

	got := DescribeRestrictions("II, III, IV, V, VI")
	if parts := strings.Split(got, "; "); len(parts) != 5 {
		t.Fatalf("expected five joined descriptions, got %d in %q", len(parts), got)
	}
}
