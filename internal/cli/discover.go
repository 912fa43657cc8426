package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/openaudit/spendscan/internal/config"
	"github.com/openaudit/spendscan/internal/fetch"
)

var discoverFeed bool

var discoverCmd = &cobra.Command{
	Use:   "discover <url>",
	Short: "List budget document links found on an index page or feed",
	Long: `Discover scans a budget index page for document links: direct PDF,
CSV, or DOCX downloads plus links whose text mentions a relevant
portfolio. Nothing is fetched or stored, so it is a safe way to preview
what a run would process.

Example:
  spendscan discover https://budget.qld.gov.au/budget-papers/
  spendscan discover --feed https://statements.qld.gov.au/api/feed`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().BoolVar(&discoverFeed, "feed", false, "treat the URL as an RSS/Atom feed")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	url := args[0]
	log := newLogger()
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+time.Minute)
	defer cancel()

	var links []fetch.Link
	if discoverFeed {
		found, err := fetch.FromFeed(ctx, url)
		if err != nil {
			return err
		}
		links = found
	} else {
		kw, err := config.LoadKeywords(cfg.KeywordsFile)
		if err != nil {
			return err
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

		page, err := fetcher.Fetch(ctx, url)
		if err != nil {
			return err
		}
		links, err = fetch.DiscoverLinks(page.SourceURL, page.Content, kw.LinkTerms)
		if err != nil {
			return err
		}
	}

	if len(links) == 0 {
		fmt.Println("No document links found.")
		return nil
	}
	for _, l := range links {
		title := strings.TrimSpace(l.Title)
		if title == "" {
			fmt.Println(l.URL)
			continue
		}
		fmt.Printf("%s\n    %s\n", title, l.URL)
	}
	fmt.Printf("\n%d links found\n", len(links))
	return nil
}
