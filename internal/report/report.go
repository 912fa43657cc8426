// Package report derives the detention versus community spending split
// for a fiscal year from stored allocations.
package report

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/openaudit/spendscan/internal/budget"
	"github.com/openaudit/spendscan/internal/store"
)

// Fallback holds the percentages reported when no classified spending
// exists for a year. These mirror the published placeholder split.
type Fallback struct {
	DetentionPct float64
	CommunityPct float64
}

// Summarize sums detention and community allocations for fiscalYear.
// Unknown-category rows are counted in AllocationCount but excluded
// from the totals and the percentage denominator. A zero classified
// total reports the fallback percentages instead of dividing by zero.
func Summarize(ctx context.Context, st store.Store, fiscalYear string, fb Fallback) (*budget.Summary, error) {
	allocations, err := st.QueryAllocations(ctx, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("query allocations: %w", err)
	}

	summary := &budget.Summary{FiscalYear: fiscalYear}
	for _, a := range allocations {
		summary.AllocationCount++
		switch a.Category {
		case budget.CategoryDetention:
			summary.DetentionTotal = summary.DetentionTotal.Add(a.Amount)
		case budget.CategoryCommunity:
			summary.CommunityTotal = summary.CommunityTotal.Add(a.Amount)
		}
	}

	summary.Total = summary.DetentionTotal.Add(summary.CommunityTotal)
	if summary.Total.IsZero() {
		summary.DetentionPct = fb.DetentionPct
		summary.CommunityPct = fb.CommunityPct
		return summary, nil
	}

	total := summary.Total.InexactFloat64()
	summary.DetentionPct = round1(summary.DetentionTotal.InexactFloat64() / total * 100)
	summary.CommunityPct = round1(summary.CommunityTotal.InexactFloat64() / total * 100)
	return summary, nil
}

// RenderText formats a summary for terminal output.
func RenderText(s *budget.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fiscal year %s\n", s.FiscalYear)
	fmt.Fprintf(&b, "  Detention: %s (%.1f%%)\n", formatAUD(s.DetentionTotal), s.DetentionPct)
	fmt.Fprintf(&b, "  Community: %s (%.1f%%)\n", formatAUD(s.CommunityTotal), s.CommunityPct)
	fmt.Fprintf(&b, "  Total classified: %s across %d allocations\n", formatAUD(s.Total), s.AllocationCount)
	return b.String()
}

func formatAUD(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
