// Package classify assigns budget categories and recovers program and
// department names from extracted text fragments.
package classify

import (
	"strings"

	"github.com/openaudit/spendscan/internal/budget"
	"github.com/openaudit/spendscan/internal/config"
)

// Classifier decides whether a fragment describes detention or
// community spending. It holds an immutable keyword set and is safe for
// concurrent use.
type Classifier struct {
	detention  []string
	community  []string
	facilities []string
}

// NewClassifier builds a Classifier from the configured keyword set.
func NewClassifier(kw config.Keywords) *Classifier {
	return &Classifier{
		detention:  lowerAll(kw.Detention),
		community:  lowerAll(kw.Community),
		facilities: lowerAll(kw.Facilities),
	}
}

// Classify scores text against the detention and community keyword
// sets. Each keyword counts once regardless of repetition. Detention
// wins on a strictly higher count; any community signal otherwise wins,
// so equal nonzero counts resolve to community. A bare facility name
// still means detention. No signal at all is unknown, never a guess.
func (c *Classifier) Classify(text string) budget.Category {
	lowered := strings.ToLower(text)

	detScore := countHits(lowered, c.detention)
	comScore := countHits(lowered, c.community)

	switch {
	case detScore > comScore:
		return budget.CategoryDetention
	case comScore > 0:
		return budget.CategoryCommunity
	}

	for _, facility := range c.facilities {
		if strings.Contains(lowered, facility) {
			return budget.CategoryDetention
		}
	}
	return budget.CategoryUnknown
}

func countHits(lowered string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			n++
		}
	}
	return n
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
