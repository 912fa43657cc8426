// Package schedule runs recurring jobs: a daily discovery and
// extraction sweep over configured index pages and feeds, and a weekly
// spending summary email.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron"

	"github.com/openaudit/spendscan/internal/config"
	"github.com/openaudit/spendscan/internal/document"
	"github.com/openaudit/spendscan/internal/fetch"
	"github.com/openaudit/spendscan/internal/notify"
	"github.com/openaudit/spendscan/internal/pipeline"
	"github.com/openaudit/spendscan/internal/report"
	"github.com/openaudit/spendscan/internal/store"
)

// maxDocumentsPerRun caps how many discovered documents one sweep will
// fetch, so a link-heavy index page cannot turn a daily run into a
// crawl.
const maxDocumentsPerRun = 25

// Scheduler owns the cron loop and the jobs it triggers.
type Scheduler struct {
	cfg      config.Config
	keywords config.Keywords
	fetcher  *fetch.Fetcher
	runner   *pipeline.Runner
	store    store.Store
	mailer   *notify.Mailer
	renderer *notify.Renderer
	log      *slog.Logger
	cron     *cron.Cron
}

// New creates a scheduler. Jobs do not run until Start.
func New(cfg config.Config, kw config.Keywords, fetcher *fetch.Fetcher, runner *pipeline.Runner, st store.Store, mailer *notify.Mailer, log *slog.Logger) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		keywords: kw,
		fetcher:  fetcher,
		runner:   runner,
		store:    st,
		mailer:   mailer,
		renderer: notify.NewRenderer(),
		log:      log,
	}
}

// Start registers the cron entries and begins the loop. Specs use six
// fields with a leading seconds column.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New()

	if err := c.AddFunc(s.cfg.DailyRunSpec, func() {
		res, err := s.RunSweep(ctx)
		if err != nil {
			s.log.Error("daily sweep failed", "error", err)
			return
		}
		if err := s.mailer.Send(runReportMessage(s.cfg.DefaultFiscalYear, res)); err != nil {
			s.log.Warn("run report email failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule daily run %q: %w", s.cfg.DailyRunSpec, err)
	}

	if err := c.AddFunc(s.cfg.WeeklyReportSpec, func() {
		if err := s.SendReport(ctx); err != nil {
			s.log.Error("weekly report failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule weekly report %q: %w", s.cfg.WeeklyReportSpec, err)
	}

	c.Start()
	s.cron = c
	s.log.Info("scheduler started",
		"daily_run", s.cfg.DailyRunSpec, "weekly_report", s.cfg.WeeklyReportSpec)
	return nil
}

// Stop halts the cron loop. Jobs already running finish on their own.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunSweep discovers documents from the configured index pages and
// feeds, fetches them, and runs extraction for the default fiscal year.
// It is also invoked directly by the CLI run command.
func (s *Scheduler) RunSweep(ctx context.Context) (*pipeline.Result, error) {
	links := s.discover(ctx)
	if len(links) == 0 {
		s.log.Info("sweep found no documents")
		return &pipeline.Result{}, nil
	}
	if len(links) > maxDocumentsPerRun {
		s.log.Warn("sweep capped", "discovered", len(links), "cap", maxDocumentsPerRun)
		links = links[:maxDocumentsPerRun]
	}

	var docs []*document.RawDocument
	for _, link := range links {
		doc, err := s.fetcher.Fetch(ctx, link.URL)
		if err != nil {
			s.log.Warn("sweep fetch failed", "url", link.URL, "error", err)
			continue
		}
		if link.Title != "" {
			doc.Title = link.Title
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("all %d discovered documents failed to fetch", len(links))
	}

	res, err := s.runner.Run(ctx, s.cfg.DefaultFiscalYear, docs)
	if err != nil {
		return nil, err
	}
	s.log.Info("sweep complete",
		"documents", len(docs),
		"allocations", res.AllocationsWritten,
		"duplicates", res.DuplicatesSkipped,
		"statistics", res.StatisticsFound)
	return res, nil
}

// discover collects document links from index pages and RSS feeds.
// A failing source is logged and skipped, never fatal.
func (s *Scheduler) discover(ctx context.Context) []fetch.Link {
	var links []fetch.Link
	seen := make(map[string]bool)
	add := func(found []fetch.Link) {
		for _, l := range found {
			if !seen[l.URL] {
				seen[l.URL] = true
				links = append(links, l)
			}
		}
	}

	for _, indexURL := range s.cfg.IndexURLs {
		page, err := s.fetcher.Fetch(ctx, indexURL)
		if err != nil {
			s.log.Warn("index fetch failed", "url", indexURL, "error", err)
			continue
		}
		found, err := fetch.DiscoverLinks(page.SourceURL, page.Content, s.keywords.LinkTerms)
		if err != nil {
			s.log.Warn("link discovery failed", "url", indexURL, "error", err)
			continue
		}
		add(found)
	}

	for _, feedURL := range s.cfg.FeedURLs {
		found, err := fetch.FromFeed(ctx, feedURL)
		if err != nil {
			s.log.Warn("feed fetch failed", "url", feedURL, "error", err)
			continue
		}
		add(found)
	}

	return links
}

// runReportMessage builds the daily alert email body from a run result.
func runReportMessage(fiscalYear string, res *pipeline.Result) *notify.RenderedMessage {
	report := notify.RunReport{
		FiscalYear:         fiscalYear,
		SegmentsSeen:       res.SegmentsSeen,
		AllocationsWritten: res.AllocationsWritten,
		DuplicatesSkipped:  res.DuplicatesSkipped,
		StatisticsFound:    res.StatisticsFound,
	}
	for _, e := range res.Errors {
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %s: %s", e.SourceURL, e.Stage, e.Message))
	}
	return notify.RenderRunReport(report)
}

// SendReport emails the spending summary for the default fiscal year
// along with the most recent statistics.
func (s *Scheduler) SendReport(ctx context.Context) error {
	summary, err := report.Summarize(ctx, s.store, s.cfg.DefaultFiscalYear, report.Fallback{
		DetentionPct: s.cfg.FallbackDetentionPct,
		CommunityPct: s.cfg.FallbackCommunityPct,
	})
	if err != nil {
		return fmt.Errorf("summarize %s: %w", s.cfg.DefaultFiscalYear, err)
	}

	statistics, err := s.store.QueryStatistics(ctx, "", 10)
	if err != nil {
		return fmt.Errorf("query statistics: %w", err)
	}

	msg, err := s.renderer.Render(notify.ReportData{
		Summary:     summary,
		Statistics:  statistics,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	return s.mailer.Send(msg)
}
