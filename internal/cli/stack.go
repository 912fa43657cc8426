package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openaudit/spendscan/internal/classify"
	"github.com/openaudit/spendscan/internal/config"
	"github.com/openaudit/spendscan/internal/fetch"
	"github.com/openaudit/spendscan/internal/pipeline"
	"github.com/openaudit/spendscan/internal/segment"
	"github.com/openaudit/spendscan/internal/store"
)

// stack bundles the components every data-touching command needs.
type stack struct {
	cfg      config.Config
	keywords config.Keywords
	store    store.Store
	fetcher  *fetch.Fetcher
	runner   *pipeline.Runner
	log      *slog.Logger
}

// buildStack wires the store, fetcher, and extraction runner from the
// effective configuration. The caller must Close the result.
func buildStack(ctx context.Context, cfg config.Config, log *slog.Logger) (*stack, error) {
	kw, err := config.LoadKeywords(cfg.KeywordsFile)
	if err != nil {
		return nil, fmt.Errorf("load keywords: %w", err)
	}

	st, err := store.Open(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	fetcher := fetch.New(fetch.Options{
		UserAgent:   cfg.UserAgent,
		Timeout:     cfg.FetchTimeout,
		MaxBytes:    cfg.FetchMaxBytes,
		Retries:     cfg.FetchRetries,
		RatePerHost: cfg.RatePerHost,
		RateBurst:   cfg.RateBurst,
		CacheTTL:    cfg.CacheTTL,
	}, log)

	runner := pipeline.NewRunner(
		segment.NewLocator(kw.Subjects),
		classify.NewClassifier(kw),
		st,
		cfg.SegmentWorkers,
		log,
	)

	return &stack{
		cfg:      cfg,
		keywords: kw,
		store:    st,
		fetcher:  fetcher,
		runner:   runner,
		log:      log,
	}, nil
}

func (s *stack) Close() error {
	return s.store.Close()
}
