package store

import (
	"context"
	"fmt"
	"log/slog"

	supabase "github.com/supabase-community/supabase-go"

	"github.com/openaudit/spendscan/internal/budget"
)

// Mirror wraps a Store and pushes accepted rows to a hosted Supabase
// project that backs the public dashboard. Mirroring is best effort:
// failures are logged, never propagated, and the primary store stays
// authoritative.
type Mirror struct {
	Store
	sdk *supabase.Client
}

// NewMirror wraps primary with a Supabase mirror.
func NewMirror(primary Store, supabaseURL, supabaseKey string) (*Mirror, error) {
	sdk, err := supabase.NewClient(supabaseURL, supabaseKey, nil)
	if err != nil {
		return nil, fmt.Errorf("initialize supabase client: %w", err)
	}
	return &Mirror{Store: primary, sdk: sdk}, nil
}

func (m *Mirror) InsertAllocation(ctx context.Context, a *budget.Allocation) error {
	if err := m.Store.InsertAllocation(ctx, a); err != nil {
		return err
	}

	row := map[string]any{
		"fiscal_year":           a.FiscalYear,
		"department":            a.Department,
		"program_name":          a.ProgramName,
		"category":              string(a.Category),
		"amount":                a.Amount.String(),
		"description":           a.Description,
		"source_url":            a.SourceURL,
		"source_document_title": a.SourceDocumentTitle,
		"extracted_at":          a.ExtractedAt,
	}
	if _, _, err := m.sdk.From("budget_allocations").Insert(row, false, "", "", "").Execute(); err != nil {
		slog.Warn("supabase mirror insert failed", "program", a.ProgramName, "error", err)
	}
	return nil
}

func (m *Mirror) InsertStatistic(ctx context.Context, s *budget.Statistic) error {
	if err := m.Store.InsertStatistic(ctx, s); err != nil {
		return err
	}

	row := map[string]any{
		"stat_type":       string(s.Type),
		"value":           s.Value,
		"context":         s.Context,
		"source_document": s.SourceDocument,
		"recorded_at":     s.RecordedAt,
	}
	if _, _, err := m.sdk.From("youth_statistics").Insert(row, false, "", "", "").Execute(); err != nil {
		slog.Warn("supabase mirror insert failed", "type", s.Type, "error", err)
	}
	return nil
}
