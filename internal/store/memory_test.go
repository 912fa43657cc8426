package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/openaudit/spendscan/internal/budget"
)

func testAllocation(program string, amount int64) *budget.Allocation {
	return &budget.Allocation{
		FiscalYear:  "2024-25",
		Department:  "Youth Justice",
		ProgramName: program,
		Category:    budget.CategoryCommunity,
		Amount:      decimal.NewFromInt(amount),
	}
}

func TestMemory_InsertAndQuery(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	a := testAllocation("Youth diversion", 450_000)
	if err := m.InsertAllocation(ctx, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == 0 {
		t.Error("expected ID assigned on insert")
	}
	if a.ExtractedAt.IsZero() {
		t.Error("expected ExtractedAt populated")
	}

	got, err := m.QueryAllocations(ctx, "2024-25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 allocation, got %d", len(got))
	}

	got, err = m.QueryAllocations(ctx, "2023-24")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no allocations for other year, got %d", len(got))
	}
}

func TestMemory_DuplicateNaturalKey(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.InsertAllocation(ctx, testAllocation("Youth diversion", 450_000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same program modulo case and spacing, same year and amount.
	dup := testAllocation("  YOUTH   Diversion ", 450_000)
	if err := m.InsertAllocation(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Different amount is a distinct row.
	if err := m.InsertAllocation(ctx, testAllocation("Youth diversion", 500_000)); err != nil {
		t.Fatalf("expected distinct amount accepted, got %v", err)
	}
}

func TestMemory_FindAllocation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.InsertAllocation(ctx, testAllocation("Bail support", 2_000_000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := m.FindAllocation(ctx, "2024-25", "bail support", decimal.NewFromInt(2_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Error("expected existing key found")
	}

	found, err = m.FindAllocation(ctx, "2024-25", "bail support", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected missing key not found")
	}
}

func TestMemory_Statistics(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s := &budget.Statistic{Type: budget.StatPercentage, Value: float64(i), SourceDocument: "doc-a"}
		if err := m.InsertStatistic(ctx, s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := m.InsertStatistic(ctx, &budget.Statistic{Type: budget.StatRate, Value: 22, SourceDocument: "doc-b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := m.QueryStatistics(ctx, "doc-a", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 statistics for doc-a, got %d", len(got))
	}
	// Newest first.
	if got[0].Value != 2 {
		t.Errorf("expected newest first, got value %v", got[0].Value)
	}

	got, err = m.QueryStatistics(ctx, "", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected limit honored, got %d", len(got))
	}
}

func TestNormalizeProgram(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Youth Diversion", "youth diversion"},
		{"  youth   DIVERSION  ", "youth diversion"},
		{"one\ttwo\nthree", "one two three"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeProgram(tt.in); got != tt.want {
			t.Errorf("NormalizeProgram(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
