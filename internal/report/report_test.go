package report

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/openaudit/spendscan/internal/budget"
	"github.com/openaudit/spendscan/internal/store"
)

var testFallback = Fallback{DetentionPct: 90.6, CommunityPct: 9.4}

func seed(t *testing.T, st store.Store, program string, cat budget.Category, amount int64) {
	t.Helper()
	err := st.InsertAllocation(context.Background(), &budget.Allocation{
		FiscalYear:  "2024-25",
		ProgramName: program,
		Category:    cat,
		Amount:      decimal.NewFromInt(amount),
	})
	if err != nil {
		t.Fatalf("seed %s: %v", program, err)
	}
}

func TestSummarize(t *testing.T) {
	st := store.NewMemory()
	seed(t, st, "detention ops", budget.CategoryDetention, 100)
	seed(t, st, "diversion", budget.CategoryCommunity, 50)
	seed(t, st, "admin overhead", budget.CategoryUnknown, 1000)

	s, err := Summarize(context.Background(), st, "2024-25", testFallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.Total.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected total 150 excluding unknown, got %s", s.Total)
	}
	if s.DetentionPct != 66.7 {
		t.Errorf("expected detention pct 66.7, got %v", s.DetentionPct)
	}
	if s.CommunityPct != 33.3 {
		t.Errorf("expected community pct 33.3, got %v", s.CommunityPct)
	}
	if s.AllocationCount != 3 {
		t.Errorf("expected unknown counted in AllocationCount, got %d", s.AllocationCount)
	}
}

func TestSummarize_ZeroTotalUsesFallback(t *testing.T) {
	st := store.NewMemory()
	seed(t, st, "admin overhead", budget.CategoryUnknown, 1000)

	s, err := Summarize(context.Background(), st, "2024-25", testFallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.DetentionPct != 90.6 || s.CommunityPct != 9.4 {
		t.Errorf("expected fallback split 90.6/9.4, got %v/%v", s.DetentionPct, s.CommunityPct)
	}
	if !s.Total.IsZero() {
		t.Errorf("expected zero total, got %s", s.Total)
	}
	if s.AllocationCount != 1 {
		t.Errorf("expected count 1, got %d", s.AllocationCount)
	}
}

func TestSummarize_EmptyYear(t *testing.T) {
	st := store.NewMemory()

	s, err := Summarize(context.Background(), st, "2019-20", testFallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.AllocationCount != 0 {
		t.Errorf("expected 0 allocations, got %d", s.AllocationCount)
	}
	if s.DetentionPct != 90.6 {
		t.Errorf("expected fallback for empty year, got %v", s.DetentionPct)
	}
}

func TestRenderText(t *testing.T) {
	s := &budget.Summary{
		FiscalYear:      "2024-25",
		DetentionTotal:  decimal.NewFromInt(100),
		CommunityTotal:  decimal.NewFromInt(50),
		Total:           decimal.NewFromInt(150),
		DetentionPct:    66.7,
		CommunityPct:    33.3,
		AllocationCount: 3,
	}
	out := RenderText(s)
	for _, want := range []string{"2024-25", "$100.00", "66.7%", "$50.00", "33.3%", "3 allocations"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
