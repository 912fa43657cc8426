package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openaudit/spendscan/internal/notify"
	"github.com/openaudit/spendscan/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the cron scheduler without the HTTP API",
	Long: `Schedule runs the recurring jobs in the foreground: the daily
discovery sweep over configured index pages and feeds, and the weekly
spending summary email. Use 'serve --schedule' to run them alongside
the HTTP API instead.`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := buildStack(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	mailer := notify.NewMailer(cfg, log)
	sched := schedule.New(cfg, s.keywords, s.fetcher, s.runner, s.store, mailer, log)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down scheduler...")
	return nil
}
