package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category labels where a budget line item's money goes.
type Category string

const (
	CategoryDetention Category = "detention"
	CategoryCommunity Category = "community"
	CategoryUnknown   Category = "unknown"
)

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryDetention, CategoryCommunity, CategoryUnknown:
		return true
	}
	return false
}

// Allocation is one classified, amount-bearing budget line item extracted
// from a source document. Rows are write-once: a corrected figure is a new
// record with a newer ExtractedAt, never an in-place edit.
type Allocation struct {
	ID                  int64           `json:"id,omitempty"`
	FiscalYear          string          `json:"fiscal_year"`
	Department          string          `json:"department"`
	ProgramName         string          `json:"program_name"`
	Category            Category        `json:"category"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description"`
	SourceURL           string          `json:"source_url"`
	SourceDocumentTitle string          `json:"source_document_title"`
	ExtractedAt         time.Time       `json:"extracted_at"`
}

// StatisticType identifies the shape of an extracted numeric fact.
type StatisticType string

const (
	StatPercentage StatisticType = "percentage"
	StatAmount     StatisticType = "amount"
	StatRate       StatisticType = "rate"
)

// Statistic is a standalone numeric fact pulled from narrative text,
// kept separate from structured allocations. Statistics feed qualitative
// review, not totals, and are not deduplicated across runs.
type Statistic struct {
	ID             int64         `json:"id,omitempty"`
	Type           StatisticType `json:"type"`
	Value          float64       `json:"value"`
	Context        string        `json:"context"`
	SourceDocument string        `json:"source_document"`
	RecordedAt     time.Time     `json:"recorded_at"`
}

// Summary is the derived detention/community spending split for one
// fiscal year. It is recomputed on demand and never stored.
type Summary struct {
	FiscalYear      string          `json:"fiscal_year"`
	DetentionTotal  decimal.Decimal `json:"detention_total"`
	CommunityTotal  decimal.Decimal `json:"community_total"`
	Total           decimal.Decimal `json:"total"`
	DetentionPct    float64         `json:"detention_pct"`
	CommunityPct    float64         `json:"community_pct"`
	AllocationCount int             `json:"allocation_count"`
}
