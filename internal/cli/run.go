package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openaudit/spendscan/internal/budget"
	"github.com/openaudit/spendscan/internal/document"
	"github.com/openaudit/spendscan/internal/notify"
	"github.com/openaudit/spendscan/internal/schedule"
)

var (
	runFiscalYear string
	runTimeout    time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run [url...]",
	Short: "Fetch documents and extract allocations",
	Long: `Run fetches the given document URLs and extracts budget allocations
and statistics into the store.

With no arguments it performs a discovery sweep: index pages and feeds
from the configuration are scanned for budget documents, which are then
fetched and processed. This is the same sweep the scheduler runs daily.

Example:
  spendscan run https://budget.qld.gov.au/files/sds-youth-justice.pdf
  spendscan run --fiscal-year 2023-24 https://example.gov/budget.csv
  spendscan run`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runFiscalYear, "fiscal-year", "", "fiscal year for extracted allocations (default: configured year)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "overall run timeout")
}

func runRun(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := loadConfig()
	if runFiscalYear != "" {
		if !budget.ValidFiscalYear(runFiscalYear) {
			return fmt.Errorf("invalid fiscal year %q, expected a form like 2024-25", runFiscalYear)
		}
		cfg.DefaultFiscalYear = runFiscalYear
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	s, err := buildStack(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) == 0 {
		mailer := notify.NewMailer(cfg, log)
		sched := schedule.New(cfg, s.keywords, s.fetcher, s.runner, s.store, mailer, log)
		res, err := sched.RunSweep(ctx)
		if err != nil {
			return err
		}
		printResult(res.AllocationsWritten, res.DuplicatesSkipped, res.StatisticsFound, len(res.Errors))
		return nil
	}

	var docs []*document.RawDocument
	for _, url := range args {
		doc, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fetch %s: %v\n", url, err)
			continue
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents could be fetched")
	}

	res, err := s.runner.Run(ctx, cfg.DefaultFiscalYear, docs)
	if err != nil {
		return err
	}
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", e.SourceURL, e.Stage, e.Message)
	}
	printResult(res.AllocationsWritten, res.DuplicatesSkipped, res.StatisticsFound, len(res.Errors))
	return nil
}

func printResult(written, duplicates, statistics, errors int) {
	fmt.Printf("Allocations written:  %d\n", written)
	fmt.Printf("Duplicates skipped:   %d\n", duplicates)
	fmt.Printf("Statistics recorded:  %d\n", statistics)
	if errors > 0 {
		fmt.Printf("Document errors:      %d\n", errors)
	}
}
