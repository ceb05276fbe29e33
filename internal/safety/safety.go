// Package safety derives a stored safety rating and a human-readable
// restriction summary from the raw COSING function and restriction columns.
// Both entry points are pure and total: any string input, including empty
// text, yields a well-defined result.
package safety

import (
	"regexp"
	"strings"
)

// Rating classifies an ingredient's expected effect on skin.
type Rating string

const (
	RatingHarmful    Rating = "harmful"
	RatingNeutral    Rating = "neutral"
	RatingBeneficial Rating = "beneficial"
)

// beneficialFunctions is the frozen set of COSING function names treated as
// beneficial. Shared by the import and recalculation paths; membership is
// fixed at design time and must not drift between call sites.
var beneficialFunctions = map[string]struct{}{
	"ANTIDANDRUFF":      {},
	"ANTIMICROBIAL":     {},
	"ANTIOXIDANT":       {},
	"ANTIPERSPIRANT":    {},
	"ANTIPLAQUE":        {},
	"ANTISEBORRHOEIC":   {},
	"ANTI-SEBORRHOEIC":  {},
	"ASTRINGENT":        {},
	"DETANGLING":        {},
	"EMOLLIENT":         {},
	"EXFOLIATING":       {},
	"FILM FORMING":      {},
	"HAIR CONDITIONING": {},
	"HUMECTANT":         {},
	"KERATOLYTIC":       {},
	"LIGHT STABILIZER":  {},
	"MOISTURISING":      {},
	"NAIL CONDITIONING": {},
	"OCCLUSIVE":         {},
	"ORAL CARE":         {},
	"REFATTING":         {},
	"REFRESHING":        {},
	"SKIN CONDITIONING": {},
	"SKIN PROTECTING":   {},
	"SMOOTHING":         {},
	"SOOTHING":          {},
	"TONIC":             {},
	"UV ABSORBER":       {},
	"UV FILTER":         {},
}

// functionDelimiters matches every separator observed between function names
// in the COSING dataset.
var functionDelimiters = regexp.MustCompile(`[,;/|]`)

// Classify maps an ingredient's function text and restriction text to a
// rating. A non-blank restriction always wins and marks the ingredient
// harmful. Otherwise the function text is tokenized and the ingredient is
// beneficial when at least half of its functions are in the beneficial set
// (the threshold is inclusive). Everything else, including empty input, is
// neutral.
func Classify(function, restrictions string) Rating {
	if strings.TrimSpace(restrictions) != "" {
		return RatingHarmful
	}

	tokens := functionTokens(function)
	if len(tokens) == 0 {
		return RatingNeutral
	}

	beneficial := 0
	for _, token := range tokens {
		if _, ok := beneficialFunctions[token]; ok {
			beneficial++
		}
	}

	if beneficial*2 >= len(tokens) {
		return RatingBeneficial
	}
	return RatingNeutral
}

// functionTokens splits raw function text into normalized tokens. Order is
// preserved and duplicates are kept; blank tokens are dropped.
func functionTokens(function string) []string {
	if strings.TrimSpace(function) == "" {
		return nil
	}

	parts := functionDelimiters.Split(function, -1)
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.ToUpper(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// annexNumeral pairs a regulation annex numeral with its description. The
// slice doubles as the output order for DescribeRestrictions, so multiple
// matched annexes always render in annex table order.
type annexNumeral struct {
	numeral     string
	description string
}

var annexTable = []annexNumeral{
	{"II", "prohibited substance"},
	{"III", "restricted-concentration conditional use"},
	{"IV", "approved colorant with conditions"},
	{"V", "approved preservative with concentration limits"},
	{"VI", "approved UV filter with usage conditions"},
}

// romanNumeral matches a standalone uppercase annex numeral. Longest
// alternatives come first so "III" is not consumed as "II".
var romanNumeral = regexp.MustCompile(`\b(?:III|II|IV|VI|V|I)\b`)

// DescribeRestrictions extracts every annex numeral referenced by the raw
// restriction text and joins the matching annex descriptions with "; ".
// Numerals without an annex table entry and inputs without any numeral yield
// an empty string.
func DescribeRestrictions(restrictions string) string {
	if strings.TrimSpace(restrictions) == "" {
		return ""
	}

	found := map[string]struct{}{}
	for _, match := range romanNumeral.FindAllString(restrictions, -1) {
		found[match] = struct{}{}
	}
	if len(found) == 0 {
		return ""
	}

	descriptions := make([]string, 0, len(found))
	for _, annex := range annexTable {
		if _, ok := found[annex.numeral]; ok {
			descriptions = append(descriptions, annex.description)
		}
	}
	return strings.Join(descriptions, "; ")
}
