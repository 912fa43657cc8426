// Package stats pulls standalone numeric facts out of narrative text:
// percentages, dollar amounts, and comparative rates like "22 times
// higher". These feed qualitative review alongside the structured
// allocations.
package stats

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/openaudit/spendscan/internal/budget"
	"github.com/openaudit/spendscan/internal/money"
)

var (
	percentagePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	amountPattern     = regexp.MustCompile(`\$\s*([\d,]+(?:\.\d+)?)\s*(million|billion|thousand)?`)
	ratePattern       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:times|x)\s+(?:higher|more|greater)`)
)

// contextRadius is how many bytes of surrounding text each statistic
// keeps on either side of its match.
const contextRadius = 50

// Extract scans the full text of a document and returns every
// percentage, dollar amount, and rate found, each with a context
// window. Matches are not deduplicated.
func Extract(text, sourceDocument string) []budget.Statistic {
	var out []budget.Statistic

	for _, loc := range percentagePattern.FindAllStringSubmatchIndex(text, -1) {
		value, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		if err != nil {
			continue
		}
		out = append(out, budget.Statistic{
			Type:           budget.StatPercentage,
			Value:          value,
			Context:        window(text, loc[0], loc[1]),
			SourceDocument: sourceDocument,
		})
	}

	for _, loc := range amountPattern.FindAllStringSubmatchIndex(text, -1) {
		magnitude := ""
		if loc[4] >= 0 {
			magnitude = text[loc[4]:loc[5]]
		}
		value, ok := money.Normalize(text[loc[2]:loc[3]], magnitude)
		if !ok {
			continue
		}
		out = append(out, budget.Statistic{
			Type:           budget.StatAmount,
			Value:          value.InexactFloat64(),
			Context:        window(text, loc[0], loc[1]),
			SourceDocument: sourceDocument,
		})
	}

	for _, loc := range ratePattern.FindAllStringSubmatchIndex(text, -1) {
		value, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		if err != nil {
			continue
		}
		out = append(out, budget.Statistic{
			Type:           budget.StatRate,
			Value:          value,
			Context:        window(text, loc[0], loc[1]),
			SourceDocument: sourceDocument,
		})
	}

	return out
}

// window returns the match plus up to contextRadius bytes on each
// side, clamped to the text bounds and to rune boundaries so the
// context never starts or ends mid-character.
func window(text string, start, end int) string {
	s := start - contextRadius
	if s < 0 {
		s = 0
	}
	for s > 0 && !utf8.RuneStart(text[s]) {
		s--
	}
	e := end + contextRadius
	if e > len(text) {
		e = len(text)
	}
	for e < len(text) && !utf8.RuneStart(text[e]) {
		e++
	}
	return strings.TrimSpace(text[s:e])
}
