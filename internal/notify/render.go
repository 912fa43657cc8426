package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openaudit/spendscan/internal/budget"
)

// ReportData is the input for a weekly spending summary email.
type ReportData struct {
	Summary     *budget.Summary
	Statistics  []budget.Statistic
	GeneratedAt time.Time
}

// reportView is the template model with amounts pre-formatted, so the
// template never touches decimal arithmetic.
type reportView struct {
	FiscalYear      string
	DetentionTotal  string
	CommunityTotal  string
	Total           string
	DetentionPct    string
	CommunityPct    string
	AllocationCount int
	Statistics      []statView
	GeneratedAt     string
}

type statView struct {
	Type    string
	Value   string
	Context string
	Source  string
}

// Renderer produces summary emails with an HTML body and a plain text
// alternative.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a renderer with the built-in summary template.
func NewRenderer() *Renderer {
	t := template.Must(template.New("summary").Parse(summaryHTMLTemplate))
	return &Renderer{tmpl: t}
}

// Render produces the weekly summary email for the given data.
func (r *Renderer) Render(data ReportData) (*RenderedMessage, error) {
	subject := fmt.Sprintf("Youth justice spending summary: %s", data.Summary.FiscalYear)

	view := buildView(data)
	var htmlBuf bytes.Buffer
	if err := r.tmpl.Execute(&htmlBuf, view); err != nil {
		return nil, fmt.Errorf("render summary template: %w", err)
	}

	return &RenderedMessage{
		Subject: subject,
		Text:    renderPlainText(view),
		HTML:    htmlBuf.String(),
	}, nil
}

func buildView(data ReportData) reportView {
	s := data.Summary
	view := reportView{
		FiscalYear:      s.FiscalYear,
		DetentionTotal:  formatAUD(s.DetentionTotal),
		CommunityTotal:  formatAUD(s.CommunityTotal),
		Total:           formatAUD(s.Total),
		DetentionPct:    fmt.Sprintf("%.1f%%", s.DetentionPct),
		CommunityPct:    fmt.Sprintf("%.1f%%", s.CommunityPct),
		AllocationCount: s.AllocationCount,
		GeneratedAt:     data.GeneratedAt.Format("02 Jan 2006 3:04 PM"),
	}
	for _, st := range data.Statistics {
		view.Statistics = append(view.Statistics, statView{
			Type:    string(st.Type),
			Value:   formatStatValue(st),
			Context: st.Context,
			Source:  st.SourceDocument,
		})
	}
	return view
}

func formatStatValue(st budget.Statistic) string {
	switch st.Type {
	case budget.StatPercentage:
		return fmt.Sprintf("%.1f%%", st.Value)
	case budget.StatAmount:
		return formatAUD(decimal.NewFromFloat(st.Value))
	case budget.StatRate:
		return fmt.Sprintf("%.1fx", st.Value)
	}
	return fmt.Sprintf("%.1f", st.Value)
}

func formatAUD(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// renderPlainText produces a readable plain text version for email
// clients that don't support HTML.
func renderPlainText(v reportView) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Youth justice spending summary: %s\n", v.FiscalYear))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString(fmt.Sprintf("Detention: %s (%s)\n", v.DetentionTotal, v.DetentionPct))
	sb.WriteString(fmt.Sprintf("Community: %s (%s)\n", v.CommunityTotal, v.CommunityPct))
	sb.WriteString(fmt.Sprintf("Total classified: %s across %d allocations\n\n", v.Total, v.AllocationCount))

	if len(v.Statistics) > 0 {
		sb.WriteString("RECENT STATISTICS\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, st := range v.Statistics {
			sb.WriteString(fmt.Sprintf("• %s (%s): %s\n", st.Value, st.Type, st.Context))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Generated %s\n", v.GeneratedAt))
	return sb.String()
}
