package store

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openaudit/spendscan/internal/budget"
)

// Memory is an in-memory Store used by tests and one-shot CLI runs.
type Memory struct {
	mu          sync.Mutex
	allocations []budget.Allocation
	keys        map[string]bool
	statistics  []budget.Statistic
	nextAllocID int64
	nextStatID  int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		keys:        make(map[string]bool),
		nextAllocID: 1,
		nextStatID:  1,
	}
}

func (m *Memory) FindAllocation(ctx context.Context, fiscalYear, programKey string, amount decimal.Decimal) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[naturalKey(fiscalYear, programKey, amount)], nil
}

func (m *Memory) InsertAllocation(ctx context.Context, a *budget.Allocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := naturalKey(a.FiscalYear, NormalizeProgram(a.ProgramName), a.Amount)
	if m.keys[key] {
		return ErrDuplicate
	}

	a.ID = m.nextAllocID
	m.nextAllocID++
	if a.ExtractedAt.IsZero() {
		a.ExtractedAt = time.Now().UTC()
	}

	m.keys[key] = true
	m.allocations = append(m.allocations, *a)
	return nil
}

func (m *Memory) QueryAllocations(ctx context.Context, fiscalYear string) ([]budget.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []budget.Allocation
	for i := len(m.allocations) - 1; i >= 0; i-- {
		a := m.allocations[i]
		if fiscalYear != "" && a.FiscalYear != fiscalYear {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *Memory) InsertStatistic(ctx context.Context, s *budget.Statistic) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.ID = m.nextStatID
	m.nextStatID++
	if s.RecordedAt.IsZero() {
		s.RecordedAt = time.Now().UTC()
	}
	m.statistics = append(m.statistics, *s)
	return nil
}

func (m *Memory) QueryStatistics(ctx context.Context, source string, limit int) ([]budget.Statistic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []budget.Statistic
	for i := len(m.statistics) - 1; i >= 0; i-- {
		s := m.statistics[i]
		if source != "" && s.SourceDocument != source {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
