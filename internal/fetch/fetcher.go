// Package fetch downloads source documents from government sites:
// budget paper PDFs, service delivery statement pages, media statement
// feeds. It is polite by construction: robots.txt is honored, each host
// is rate limited, and responses are cached between scheduled runs.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/openaudit/spendscan/internal/document"
)

// ErrRobotsDisallowed means the site's robots.txt forbids the URL.
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// Options configures a Fetcher.
type Options struct {
	UserAgent   string
	Timeout     time.Duration
	MaxBytes    int64
	Retries     int
	RatePerHost float64
	RateBurst   int
	CacheTTL    time.Duration
}

// Fetcher downloads documents with caching, rate limiting, and
// robots.txt checks.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	retries    int
	limiter    *Limiter
	robots     *Robots
	cache      *gocache.Cache
	logger     *slog.Logger
}

// New creates a Fetcher.
func New(opts Options, logger *slog.Logger) *Fetcher {
	if opts.Retries <= 0 {
		opts.Retries = MaxRetries
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBytes,
		retries:   opts.Retries,
		limiter:   NewLimiter(opts.RatePerHost, opts.RateBurst),
		robots:    NewRobots(opts.UserAgent, opts.Timeout),
		cache:     gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
		logger:    logger,
	}
}

// Fetch retrieves one document. Cached responses are served without
// touching the network. Transient failures are retried with backoff.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*document.RawDocument, error) {
	if cached, found := f.cache.Get(rawURL); found {
		doc := cached.(document.RawDocument)
		return &doc, nil
	}

	allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrRobotsDisallowed)
	}

	var doc *document.RawDocument
	for attempt := 0; attempt < f.retries; attempt++ {
		if err := f.limiter.Wait(ctx, rawURL, crawlDelay); err != nil {
			return nil, err
		}

		doc, err = f.fetchOnce(ctx, rawURL)
		if err == nil {
			break
		}
		if !IsRetryable(err) {
			return nil, err
		}
		if attempt < f.retries-1 {
			delay := Backoff(attempt)
			f.logger.Warn("fetch failed, retrying",
				"url", rawURL, "attempt", attempt+1, "backoff", delay, "error", err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	if err != nil {
		return nil, err
	}

	f.logger.Debug("fetched document",
		"url", rawURL,
		"type", doc.ContentType,
		"bytes", len(doc.Content),
		"content_hash", doc.ContentHash())
	f.cache.SetDefault(rawURL, *doc)
	return doc, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*document.RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/pdf,text/csv,application/xhtml+xml,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &transientError{fmt.Errorf("fetch: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, &transientError{fmt.Errorf("status %d from %s", resp.StatusCode, rawURL)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, &transientError{fmt.Errorf("read body: %w", err)}
	}

	finalURL := resp.Request.URL.String()
	ct := contentTypeFor(resp.Header.Get("Content-Type"), finalURL)

	// HTML pages usually carry a better title than their URL slug.
	title := titleFromURL(finalURL)
	if ct == document.TypeHTML {
		title = PageTitle(body, finalURL)
	}

	return &document.RawDocument{
		SourceURL:   finalURL,
		Title:       title,
		ContentType: ct,
		Content:     body,
	}, nil
}

// contentTypeFor resolves the document type from the response header,
// falling back to the URL's file extension, then to HTML.
func contentTypeFor(header, rawURL string) document.ContentType {
	if ct, ok := document.TypeForMIME(header); ok {
		return ct
	}
	if parsed, err := url.Parse(rawURL); err == nil {
		if ct, ok := document.TypeForFilename(path.Base(parsed.Path)); ok {
			return ct
		}
	}
	return document.TypeHTML
}

// titleFromURL de-slugifies the last path segment.
func titleFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	p := strings.Trim(parsed.Path, "/")
	if p == "" {
		return parsed.Host
	}

	segments := strings.Split(p, "/")
	last := segments[len(segments)-1]
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}
	return last
}
