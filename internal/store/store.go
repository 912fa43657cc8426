// Package store persists extracted allocations and statistics. Two
// implementations exist: an in-memory store for tests and single-run
// CLI use, and a Postgres store for the service. Either can be wrapped
// with a Supabase mirror that pushes accepted rows to a hosted
// dashboard.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/openaudit/spendscan/internal/budget"
	"github.com/openaudit/spendscan/internal/config"
)

// ErrDuplicate is returned by InsertAllocation when a row with the
// same natural key already exists.
var ErrDuplicate = errors.New("duplicate allocation")

// Store is the persistence interface for the extraction pipeline.
type Store interface {
	// FindAllocation reports whether an allocation with the given
	// natural key exists. programKey must already be normalized.
	FindAllocation(ctx context.Context, fiscalYear, programKey string, amount decimal.Decimal) (bool, error)

	// InsertAllocation writes one allocation, assigning its ID.
	// Returns ErrDuplicate when the natural key is already present.
	InsertAllocation(ctx context.Context, a *budget.Allocation) error

	// QueryAllocations returns allocations for a fiscal year, or all
	// when fiscalYear is empty, newest first.
	QueryAllocations(ctx context.Context, fiscalYear string) ([]budget.Allocation, error)

	// InsertStatistic writes one statistic. Statistics are never
	// deduplicated.
	InsertStatistic(ctx context.Context, s *budget.Statistic) error

	// QueryStatistics returns statistics, optionally filtered by
	// source document, newest first, capped at limit.
	QueryStatistics(ctx context.Context, source string, limit int) ([]budget.Statistic, error)

	Close() error
}

// NormalizeProgram produces the program component of the natural key:
// lowercase with runs of whitespace collapsed to single spaces.
func NormalizeProgram(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// naturalKey builds the dedup key for an allocation.
func naturalKey(fiscalYear, programKey string, amount decimal.Decimal) string {
	return fiscalYear + "|" + programKey + "|" + amount.String()
}

// Open builds the store selected by configuration, wrapping it with a
// Supabase mirror when one is configured.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	var s Store
	switch cfg.StoreDriver {
	case "memory":
		s = NewMemory()
	case "postgres":
		pg, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s = pg
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		mirrored, err := NewMirror(s, cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			s.Close()
			return nil, err
		}
		s = mirrored
	}
	return s, nil
}
