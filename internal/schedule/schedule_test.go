package schedule

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openaudit/spendscan/internal/classify"
	"github.com/openaudit/spendscan/internal/config"
	"github.com/openaudit/spendscan/internal/fetch"
	"github.com/openaudit/spendscan/internal/notify"
	"github.com/openaudit/spendscan/internal/pipeline"
	"github.com/openaudit/spendscan/internal/segment"
	"github.com/openaudit/spendscan/internal/store"
)

const indexPage = `<html><body>
<a href="/budget/youth-justice-sds.txt">Youth Justice Service Delivery Statement</a>
<a href="/about">About us</a>
</body></html>`

const sdsText = "Youth justice community programs receive $12.1 million."

func testScheduler(t *testing.T, baseURL string) (*Scheduler, *store.Memory) {
	t.Helper()

	cfg := config.Config{
		DefaultFiscalYear:    "2024-25",
		IndexURLs:            []string{baseURL + "/budget/"},
		FallbackDetentionPct: 90.6,
		FallbackCommunityPct: 9.4,
	}
	st := store.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	kw := config.DefaultKeywords()

	fetcher := fetch.New(fetch.Options{
		UserAgent:   "spendscan-test/1.0",
		Timeout:     time.Second,
		MaxBytes:    1 << 20,
		RatePerHost: 100,
		RateBurst:   10,
		CacheTTL:    time.Minute,
	}, log)
	runner := pipeline.NewRunner(
		segment.NewLocator(kw.Subjects),
		classify.NewClassifier(kw),
		st,
		2,
		log,
	)
	mailer := notify.NewMailer(cfg, log)

	return New(cfg, kw, fetcher, runner, st, mailer, log), st
}

func TestScheduler_RunSweep(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/budget/":
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, indexPage)
		case "/budget/youth-justice-sds.txt":
			w.Header().Set("Content-Type", "text/plain")
			io.WriteString(w, sdsText)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s, st := testScheduler(t, srv.URL)

	res, err := s.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AllocationsWritten != 1 {
		t.Fatalf("expected 1 allocation written, got %d (errors: %v)", res.AllocationsWritten, res.Errors)
	}

	allocations, err := st.QueryAllocations(context.Background(), "2024-25")
	if err != nil {
		t.Fatal(err)
	}
	if len(allocations) != 1 {
		t.Fatalf("expected 1 stored allocation, got %d", len(allocations))
	}
	if allocations[0].SourceDocumentTitle != "Youth Justice Service Delivery Statement" {
		t.Errorf("expected link text as document title, got %q", allocations[0].SourceDocumentTitle)
	}
}

func TestScheduler_RunSweep_NoSources(t *testing.T) {
	s, _ := testScheduler(t, "http://127.0.0.1:0")
	s.cfg.IndexURLs = nil

	res, err := s.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("expected empty sweep to succeed, got %v", err)
	}
	if res.AllocationsWritten != 0 {
		t.Errorf("expected no allocations, got %d", res.AllocationsWritten)
	}
}

func TestScheduler_SendReport_EmailDisabled(t *testing.T) {
	s, _ := testScheduler(t, "http://127.0.0.1:0")
	if err := s.SendReport(context.Background()); err != nil {
		t.Fatalf("expected report with disabled email to no-op, got %v", err)
	}
}
