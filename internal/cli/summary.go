package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openaudit/spendscan/internal/budget"
	"github.com/openaudit/spendscan/internal/report"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary <fiscal-year>",
	Short: "Print the detention versus community spending split",
	Long: `Summary computes the detention versus community split for one
fiscal year from the stored allocations.

Example:
  spendscan summary 2024-25
  spendscan summary 2024-25 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "emit the summary as JSON")
}

func runSummary(cmd *cobra.Command, args []string) error {
	fiscalYear := args[0]
	if !budget.ValidFiscalYear(fiscalYear) {
		return fmt.Errorf("invalid fiscal year %q, expected a form like 2024-25", fiscalYear)
	}

	log := newLogger()
	cfg := loadConfig()
	ctx := context.Background()

	s, err := buildStack(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := report.Summarize(ctx, s.store, fiscalYear, report.Fallback{
		DetentionPct: cfg.FallbackDetentionPct,
		CommunityPct: cfg.FallbackCommunityPct,
	})
	if err != nil {
		return err
	}

	if summaryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	fmt.Print(report.RenderText(summary))
	return nil
}
