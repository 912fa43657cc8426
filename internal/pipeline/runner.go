// Package pipeline orchestrates document extraction: parse, locate
// candidate segments, normalize amounts, classify, and write through
// the deduplicating store. Documents are processed one at a time;
// segments within a document fan out to a bounded worker pool.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"sync"

	"github.com/openaudit/spendscan/internal/budget"
	"github.com/openaudit/spendscan/internal/classify"
	"github.com/openaudit/spendscan/internal/document"
	"github.com/openaudit/spendscan/internal/money"
	"github.com/openaudit/spendscan/internal/parser"
	"github.com/openaudit/spendscan/internal/segment"
	"github.com/openaudit/spendscan/internal/stats"
	"github.com/openaudit/spendscan/internal/store"
)

// Runner executes extraction runs against a store.
type Runner struct {
	locator        *segment.Locator
	classifier     *classify.Classifier
	store          store.Store
	log            *slog.Logger
	segmentWorkers int
}

// NewRunner builds a Runner.
func NewRunner(locator *segment.Locator, classifier *classify.Classifier, st store.Store, segmentWorkers int, log *slog.Logger) *Runner {
	if segmentWorkers <= 0 {
		segmentWorkers = 4
	}
	return &Runner{
		locator:        locator,
		classifier:     classifier,
		store:          st,
		log:            log,
		segmentWorkers: segmentWorkers,
	}
}

// Run extracts allocations and statistics from docs, tagged with
// fiscalYear unless a document carries its own hint. Documents are
// processed sequentially; a failing document is recorded in the result
// and skipped. Cancellation is honored between documents.
func (r *Runner) Run(ctx context.Context, fiscalYear string, docs []*document.RawDocument) (*Result, error) {
	if !budget.ValidFiscalYear(fiscalYear) {
		return nil, fmt.Errorf("invalid fiscal year %q, expected a form like 2024-25", fiscalYear)
	}

	res := &Result{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r.processDocument(ctx, doc, fiscalYear, res)
	}

	r.log.Info("run complete",
		"fiscal_year", fiscalYear,
		"documents", len(docs),
		"segments", res.SegmentsSeen,
		"written", res.AllocationsWritten,
		"duplicates", res.DuplicatesSkipped,
		"statistics", res.StatisticsFound,
		"errors", len(res.Errors))
	return res, nil
}

func (r *Runner) processDocument(ctx context.Context, doc *document.RawDocument, fiscalYear string, res *Result) {
	p, err := parser.ForContentType(doc.ContentType)
	if err != nil {
		res.addError(doc.SourceURL, "parse", err)
		return
	}

	tree, err := p.Parse(bytes.NewReader(doc.Content), parserFilename(doc))
	if err != nil {
		res.addError(doc.SourceURL, "parse", err)
		return
	}

	title := tree.Title
	if doc.Title != "" {
		title = doc.Title
	}

	fy := fiscalYear
	if budget.ValidFiscalYear(doc.FiscalYearHint) {
		fy = doc.FiscalYearHint
	}

	// Statistics scan the full text independently of segment
	// extraction, so run it alongside.
	statsDone := make(chan struct{})
	go func() {
		defer close(statsDone)
		r.recordStatistics(ctx, tree.FullText(), title, doc.SourceURL, res)
	}()

	candidates := r.locator.Locate(tree, doc.SourceURL)
	res.SegmentsSeen += len(candidates)

	allocCh := make(chan *budget.Allocation)
	go func() {
		defer close(allocCh)
		var wg sync.WaitGroup
		sem := make(chan struct{}, r.segmentWorkers)
		for _, cand := range candidates {
			wg.Add(1)
			sem <- struct{}{}
			go func(c segment.Candidate) {
				defer wg.Done()
				defer func() { <-sem }()
				if a := r.buildAllocation(c, fy, title); a != nil {
					allocCh <- a
				}
			}(cand)
		}
		wg.Wait()
	}()

	// Single writer loop: all allocation writes for the document pass
	// through here in order of arrival.
	for a := range allocCh {
		key := store.NormalizeProgram(a.ProgramName)
		exists, err := r.store.FindAllocation(ctx, a.FiscalYear, key, a.Amount)
		if err != nil {
			res.addError(doc.SourceURL, "write", err)
			continue
		}
		if exists {
			res.DuplicatesSkipped++
			continue
		}

		switch err := r.store.InsertAllocation(ctx, a); {
		case errors.Is(err, store.ErrDuplicate):
			res.DuplicatesSkipped++
		case err != nil:
			res.addError(doc.SourceURL, "write", err)
		default:
			res.AllocationsWritten++
			r.log.Debug("allocation written",
				"program", a.ProgramName, "category", a.Category, "amount", a.Amount)
		}
	}

	<-statsDone
}

// buildAllocation turns a candidate segment into an allocation, or nil
// when no amount parses.
func (r *Runner) buildAllocation(c segment.Candidate, fiscalYear, title string) *budget.Allocation {
	amount, found := money.Parse(c.Text)
	if !found {
		return nil
	}

	a := &budget.Allocation{
		FiscalYear:          fiscalYear,
		Department:          classify.Department(title),
		ProgramName:         classify.ProgramName(c.Text),
		Category:            r.classifier.Classify(c.Text),
		Amount:              amount,
		Description:         c.Text,
		SourceURL:           c.SourceURL,
		SourceDocumentTitle: title,
	}
	if !budget.ValidateAllocation(a) {
		return nil
	}
	return a
}

func (r *Runner) recordStatistics(ctx context.Context, fullText, title, sourceURL string, res *Result) {
	found := stats.Extract(fullText, title)
	inserted := 0
	for i := range found {
		if err := r.store.InsertStatistic(ctx, &found[i]); err != nil {
			res.addError(sourceURL, "statistics", err)
			break
		}
		inserted++
	}
	res.addStatistics(inserted)
}

// parserFilename picks a filename for the parser's title fallback:
// the URL's basename when it has a recognizable extension, otherwise
// the document title.
func parserFilename(doc *document.RawDocument) string {
	if u, err := url.Parse(doc.SourceURL); err == nil {
		base := path.Base(u.Path)
		if _, ok := document.TypeForFilename(base); ok {
			return base
		}
	}
	return doc.Title
}
