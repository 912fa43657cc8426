package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"

	"github.com/openaudit/spendscan/internal/document"
)

// Link is a discovered document reference.
type Link struct {
	URL   string
	Title string
}

// DiscoverLinks pulls document links out of an index page: direct
// budget paper downloads plus anchors whose text mentions a relevant
// portfolio. Relative hrefs are resolved against the page URL.
func DiscoverLinks(pageURL string, html []byte, linkTerms []string) ([]Link, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse index page: %w", err)
	}

	lowered := make([]string, 0, len(linkTerms))
	for _, t := range linkTerms {
		lowered = append(lowered, strings.ToLower(t))
	}

	var links []Link
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(i int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
			return
		}

		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		abs := resolved.String()
		if seen[abs] {
			return
		}

		text := strings.TrimSpace(a.Text())
		if !documentHref(resolved) && !matchesTerm(strings.ToLower(text), lowered) {
			return
		}

		seen[abs] = true
		if text == "" {
			text = path.Base(resolved.Path)
		}
		links = append(links, Link{URL: abs, Title: text})
	})

	return links, nil
}

// documentHref reports whether the URL points straight at a parseable
// document rather than another page.
func documentHref(u *url.URL) bool {
	ct, ok := document.TypeForFilename(path.Base(u.Path))
	return ok && ct != document.TypeHTML
}

func matchesTerm(text string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// FromFeed lists entries of an RSS/Atom feed, newest first as the feed
// orders them. Media statement feeds are the main use.
func FromFeed(ctx context.Context, feedURL string) ([]Link, error) {
	feed, err := gofeed.NewParser().ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var links []Link
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		links = append(links, Link{URL: item.Link, Title: item.Title})
	}
	return links, nil
}

// PageTitle extracts a human title from an HTML page, preferring the
// readability result over the raw URL slug.
func PageTitle(html []byte, pageURL string) string {
	article, err := readability.FromReader(bytes.NewReader(html), nil)
	if err == nil {
		if title := strings.TrimSpace(article.Title); title != "" {
			return title
		}
	}
	return titleFromURL(pageURL)
}
