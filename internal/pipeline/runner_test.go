package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/openaudit/spendscan/internal/budget"
	"github.com/openaudit/spendscan/internal/classify"
	"github.com/openaudit/spendscan/internal/config"
	"github.com/openaudit/spendscan/internal/document"
	"github.com/openaudit/spendscan/internal/segment"
	"github.com/openaudit/spendscan/internal/store"
)

func testRunner(st store.Store) *Runner {
	kw := config.DefaultKeywords()
	return NewRunner(
		segment.NewLocator(kw.Subjects),
		classify.NewClassifier(kw),
		st,
		2,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func htmlDoc(url, body string) *document.RawDocument {
	return &document.RawDocument{
		SourceURL:   url,
		Title:       "Service Delivery Statement",
		ContentType: document.TypeHTML,
		Content:     []byte("<html><body>" + body + "</body></html>"),
	}
}

const sdsBody = `
<p>The Department of Youth Justice will invest $85.3 million in the Cleveland Youth Detention Centre expansion.
Youth justice community programs receive $12.1 million.
Around 66% of young people in detention are on remand.</p>`

func TestRunner_Run(t *testing.T) {
	st := store.NewMemory()
	r := testRunner(st)

	res, err := r.Run(context.Background(), "2024-25", []*document.RawDocument{
		htmlDoc("https://budget.qld.gov.au/sds.html", sdsBody),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.SegmentsSeen != 2 {
		t.Errorf("expected 2 segments, got %d", res.SegmentsSeen)
	}
	if res.AllocationsWritten != 2 {
		t.Fatalf("expected 2 allocations written, got %d (errors: %v)", res.AllocationsWritten, res.Errors)
	}
	if res.StatisticsFound == 0 {
		t.Error("expected statistics found")
	}
	if len(res.Errors) != 0 {
		t.Errorf("expected no errors, got %v", res.Errors)
	}

	allocations, err := st.QueryAllocations(context.Background(), "2024-25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sawDetention, sawCommunity bool
	for _, a := range allocations {
		switch a.Category {
		case budget.CategoryDetention:
			sawDetention = true
			if !a.Amount.Equal(decimal.NewFromInt(85_300_000)) {
				t.Errorf("expected detention amount 85300000, got %s", a.Amount)
			}
		case budget.CategoryCommunity:
			sawCommunity = true
		}
		if a.SourceURL != "https://budget.qld.gov.au/sds.html" {
			t.Errorf("expected source URL on allocation, got %q", a.SourceURL)
		}
	}
	if !sawDetention || !sawCommunity {
		t.Errorf("expected both categories, got %v", allocations)
	}
}

func TestRunner_Idempotent(t *testing.T) {
	st := store.NewMemory()
	r := testRunner(st)
	docs := []*document.RawDocument{htmlDoc("https://budget.qld.gov.au/sds.html", sdsBody)}

	first, err := r.Run(context.Background(), "2024-25", docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Run(context.Background(), "2024-25", docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.AllocationsWritten != 0 {
		t.Errorf("expected no new writes on rerun, got %d", second.AllocationsWritten)
	}
	if second.DuplicatesSkipped != first.AllocationsWritten {
		t.Errorf("expected %d duplicates skipped, got %d", first.AllocationsWritten, second.DuplicatesSkipped)
	}
}

func TestRunner_InvalidFiscalYear(t *testing.T) {
	r := testRunner(store.NewMemory())
	if _, err := r.Run(context.Background(), "2024", nil); err == nil {
		t.Fatal("expected error for malformed fiscal year")
	}
	if _, err := r.Run(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty fiscal year")
	}
}

func TestRunner_FiscalYearHintWins(t *testing.T) {
	st := store.NewMemory()
	r := testRunner(st)

	doc := htmlDoc("https://budget.qld.gov.au/old-sds.html", sdsBody)
	doc.FiscalYearHint = "2023-24"

	if _, err := r.Run(context.Background(), "2024-25", []*document.RawDocument{doc}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	allocations, err := st.QueryAllocations(context.Background(), "2023-24")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(allocations) == 0 {
		t.Error("expected allocations under the document's own fiscal year")
	}
}

func TestRunner_BadDocumentContained(t *testing.T) {
	st := store.NewMemory()
	r := testRunner(st)

	bad := &document.RawDocument{
		SourceURL:   "https://budget.qld.gov.au/broken.pdf",
		ContentType: document.TypePDF,
		Content:     []byte("not a pdf"),
	}
	good := htmlDoc("https://budget.qld.gov.au/sds.html", sdsBody)

	res, err := r.Run(context.Background(), "2024-25", []*document.RawDocument{bad, good})
	if err != nil {
		t.Fatalf("expected run to continue past bad document, got %v", err)
	}

	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 document error, got %v", res.Errors)
	}
	if res.Errors[0].SourceURL != "https://budget.qld.gov.au/broken.pdf" || res.Errors[0].Stage != "parse" {
		t.Errorf("unexpected error record %+v", res.Errors[0])
	}
	if res.AllocationsWritten == 0 {
		t.Error("expected good document still processed")
	}
}

// flakyStatStore fails InsertStatistic after a set number of writes.
type flakyStatStore struct {
	store.Store
	remaining int
}

func (s *flakyStatStore) InsertStatistic(ctx context.Context, st *budget.Statistic) error {
	if s.remaining <= 0 {
		return fmt.Errorf("statistics table unavailable")
	}
	s.remaining--
	return s.Store.InsertStatistic(ctx, st)
}

func TestRunner_StatisticsCountedUpToFailure(t *testing.T) {
	st := &flakyStatStore{Store: store.NewMemory(), remaining: 1}
	r := testRunner(st)

	res, err := r.Run(context.Background(), "2024-25", []*document.RawDocument{
		htmlDoc("https://budget.qld.gov.au/sds.html", sdsBody),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.StatisticsFound != 1 {
		t.Errorf("expected 1 statistic counted before the failure, got %d", res.StatisticsFound)
	}
	var statErrors int
	for _, e := range res.Errors {
		if e.Stage == "statistics" {
			statErrors++
		}
	}
	if statErrors != 1 {
		t.Errorf("expected 1 statistics error, got %v", res.Errors)
	}
}

func TestRunner_Cancellation(t *testing.T) {
	r := testRunner(store.NewMemory())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, "2024-25", []*document.RawDocument{
		htmlDoc("https://budget.qld.gov.au/sds.html", sdsBody),
	})
	if err == nil {
		t.Fatal("expected context error")
	}
}
