package notify

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openaudit/spendscan/internal/budget"
	"github.com/openaudit/spendscan/internal/config"
)

func testReportData() ReportData {
	return ReportData{
		Summary: &budget.Summary{
			FiscalYear:      "2024-25",
			DetentionTotal:  decimal.NewFromInt(85_300_000),
			CommunityTotal:  decimal.NewFromInt(12_100_000),
			Total:           decimal.NewFromInt(97_400_000),
			DetentionPct:    87.6,
			CommunityPct:    12.4,
			AllocationCount: 2,
		},
		Statistics: []budget.Statistic{
			{
				Type:           budget.StatPercentage,
				Value:          66,
				Context:        "Around 66% of young people in detention are on remand.",
				SourceDocument: "Service Delivery Statement",
			},
		},
		GeneratedAt: time.Date(2025, 8, 25, 8, 0, 0, 0, time.UTC),
	}
}

func TestRenderer_Render(t *testing.T) {
	msg, err := NewRenderer().Render(testReportData())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "Youth justice spending summary: 2024-25"; msg.Subject != want {
		t.Errorf("expected subject %q, got %q", want, msg.Subject)
	}

	for _, want := range []string{"2024-25", "$85300000.00", "87.6%", "$12100000.00", "12.4%", "66.0%"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("expected HTML to contain %q", want)
		}
	}
	if !strings.Contains(msg.Text, "Detention: $85300000.00 (87.6%)") {
		t.Errorf("expected plain text split line, got:\n%s", msg.Text)
	}
	if !strings.Contains(msg.Text, "on remand") {
		t.Error("expected statistic context in plain text body")
	}
}

func TestRenderer_NoStatistics(t *testing.T) {
	data := testReportData()
	data.Statistics = nil

	msg, err := NewRenderer().Render(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(msg.HTML, "Recent Statistics") {
		t.Error("expected statistics section omitted when empty")
	}
	if strings.Contains(msg.Text, "RECENT STATISTICS") {
		t.Error("expected plain text statistics section omitted when empty")
	}
}

func TestRenderRunReport(t *testing.T) {
	msg := RenderRunReport(RunReport{
		FiscalYear:         "2024-25",
		SegmentsSeen:       5,
		AllocationsWritten: 3,
		DuplicatesSkipped:  1,
		StatisticsFound:    2,
		Errors:             []string{"https://example.gov/broken.pdf: parse: bad xref"},
	})

	if want := "Extraction run complete: 3 new allocations (2024-25)"; msg.Subject != want {
		t.Errorf("expected subject %q, got %q", want, msg.Subject)
	}
	if msg.HTML != "" {
		t.Error("expected run report to be plain text only")
	}
	for _, want := range []string{"Allocations written:  3", "Duplicates skipped:   1", "bad xref"} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("expected body to contain %q, got:\n%s", want, msg.Text)
		}
	}
}

func TestMailer_DisabledIsNoop(t *testing.T) {
	// Empty SMTP settings disable sending entirely.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewMailer(config.Config{}, log)
	if err := m.Send(&RenderedMessage{Subject: "x", Text: "y"}); err != nil {
		t.Fatalf("expected disabled mailer to no-op, got %v", err)
	}
}
