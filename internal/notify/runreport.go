package notify

import (
	"fmt"
	"strings"
)

// RunReport summarizes one extraction run for the daily alert email.
type RunReport struct {
	FiscalYear         string
	SegmentsSeen       int
	AllocationsWritten int
	DuplicatesSkipped  int
	StatisticsFound    int
	Errors             []string
}

// RenderRunReport produces the plain text run alert. Run alerts are
// operational, so they skip the HTML template.
func RenderRunReport(r RunReport) *RenderedMessage {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Extraction run for %s\n", r.FiscalYear))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString(fmt.Sprintf("Segments considered:  %d\n", r.SegmentsSeen))
	sb.WriteString(fmt.Sprintf("Allocations written:  %d\n", r.AllocationsWritten))
	sb.WriteString(fmt.Sprintf("Duplicates skipped:   %d\n", r.DuplicatesSkipped))
	sb.WriteString(fmt.Sprintf("Statistics recorded:  %d\n", r.StatisticsFound))

	if len(r.Errors) > 0 {
		sb.WriteString("\nDOCUMENT ERRORS\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, e := range r.Errors {
			sb.WriteString("• " + e + "\n")
		}
	}

	return &RenderedMessage{
		Subject: fmt.Sprintf("Extraction run complete: %d new allocations (%s)", r.AllocationsWritten, r.FiscalYear),
		Text:    sb.String(),
	}
}
