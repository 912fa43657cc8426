// Package money normalizes dollar amounts found in budget text.
// Fragments like "$1.65 million" or "450,000" become plain decimal
// values in dollars.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern matches a numeric token with optional dollar sign and
// optional magnitude word. The magnitude binds only to the token it
// immediately follows.
var amountPattern = regexp.MustCompile(`(?i)\$?\s*(\d[\d,]*(?:\.\d+)?)\s*(million|billion|thousand|m|k|b)?\b`)

var magnitudes = map[string]decimal.Decimal{
	"million":  decimal.NewFromInt(1_000_000),
	"m":        decimal.NewFromInt(1_000_000),
	"billion":  decimal.NewFromInt(1_000_000_000),
	"b":        decimal.NewFromInt(1_000_000_000),
	"thousand": decimal.NewFromInt(1_000),
	"k":        decimal.NewFromInt(1_000),
}

// Parse scans fragment for monetary tokens and returns the largest
// normalized value. The second return is false when nothing parses;
// callers must drop the fragment rather than treat it as zero.
func Parse(fragment string) (decimal.Decimal, bool) {
	matches := amountPattern.FindAllStringSubmatch(fragment, -1)

	var best decimal.Decimal
	found := false
	for _, m := range matches {
		value, ok := Normalize(m[1], m[2])
		if !ok {
			continue
		}
		if !found || value.GreaterThan(best) {
			best = value
			found = true
		}
	}

	return best, found
}

// Normalize converts a raw mantissa plus optional magnitude word into a
// dollar value. Comma separators are stripped before parsing.
func Normalize(mantissa, magnitude string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(mantissa, ",", ""))
	if err != nil {
		return decimal.Decimal{}, false
	}
	if mul, ok := magnitudes[strings.ToLower(magnitude)]; ok {
		d = d.Mul(mul)
	}
	return d, true
}
